package agent

import "github.com/iota-uz/agentlists/pkg/serrors"

var (
	ErrNotFound = serrors.NewError(
		"AGENTS_NOT_FOUND",
		"agent not found",
		"Agents.Errors.NotFound",
	)
	ErrEmailTaken = serrors.NewError(
		"AGENTS_EMAIL_TAKEN",
		"agent with this email already exists",
		"Agents.Errors.EmailTaken",
	)
)
