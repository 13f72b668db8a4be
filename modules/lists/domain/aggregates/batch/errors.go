package batch

import "github.com/iota-uz/agentlists/pkg/serrors"

var (
	ErrNotFound = serrors.NewError(
		"LISTS_NOT_FOUND",
		"list not found",
		"Lists.Errors.NotFound",
	)
	ErrNoAgentsAvailable = serrors.NewError(
		"LISTS_NO_AGENTS",
		"no agents found to distribute the list",
		"Lists.Errors.NoAgents",
	)
	ErrEmptyBatch = serrors.NewError(
		"LISTS_EMPTY_BATCH",
		"refusing to store a list without items",
		"",
	)
)
