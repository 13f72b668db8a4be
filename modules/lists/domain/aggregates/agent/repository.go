package agent

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetAll(ctx context.Context) ([]Agent, error)
	// ListIDs returns every agent id in creation order. The distribution
	// run uses it as its agent snapshot.
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (Agent, error)
	GetByEmail(ctx context.Context, email string) (Agent, error)
	Create(ctx context.Context, a Agent) (Agent, error)
	Update(ctx context.Context, a Agent) (Agent, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
