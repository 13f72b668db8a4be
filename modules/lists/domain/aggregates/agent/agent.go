package agent

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Agent struct {
	id           uuid.UUID
	name         string
	email        string
	mobile       string
	passwordHash string
	createdAt    time.Time
	updatedAt    time.Time
}

func New(name, email, mobile, passwordHash string) Agent {
	return Agent{
		name:         strings.TrimSpace(name),
		email:        normalizeEmail(email),
		mobile:       strings.TrimSpace(mobile),
		passwordHash: passwordHash,
	}
}

func Hydrate(
	id uuid.UUID,
	name string,
	email string,
	mobile string,
	passwordHash string,
	createdAt time.Time,
	updatedAt time.Time,
) Agent {
	a := New(name, email, mobile, passwordHash)
	a.id = id
	a.createdAt = createdAt
	a.updatedAt = updatedAt
	return a
}

func (a Agent) ID() uuid.UUID        { return a.id }
func (a Agent) Name() string         { return a.name }
func (a Agent) Email() string        { return a.email }
func (a Agent) Mobile() string       { return a.mobile }
func (a Agent) PasswordHash() string { return a.passwordHash }
func (a Agent) CreatedAt() time.Time { return a.createdAt }
func (a Agent) UpdatedAt() time.Time { return a.updatedAt }
func (a Agent) IsZero() bool         { return a.id == uuid.Nil && a.email == "" }

func (a Agent) SetName(name string) Agent {
	a.name = strings.TrimSpace(name)
	return a
}

func (a Agent) SetEmail(email string) Agent {
	a.email = normalizeEmail(email)
	return a
}

func (a Agent) SetMobile(mobile string) Agent {
	a.mobile = strings.TrimSpace(mobile)
	return a
}

func (a Agent) SetPasswordHash(hash string) Agent {
	a.passwordHash = hash
	return a
}

func normalizeEmail(v string) string { return strings.ToLower(strings.TrimSpace(v)) }
