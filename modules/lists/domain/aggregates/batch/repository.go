package batch

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// CreateMany stores every batch of one distribution run, or none.
	CreateMany(ctx context.Context, batches []Batch) ([]Batch, error)
	GetByID(ctx context.Context, id uuid.UUID) (Batch, error)
	// FindByAgent returns the agent's batches, newest first.
	FindByAgent(ctx context.Context, agentID uuid.UUID) ([]Batch, error)
	FindAll(ctx context.Context) ([]Batch, error)
	Reassign(ctx context.Context, id, agentID uuid.UUID) (Batch, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByAgent(ctx context.Context, agentID uuid.UUID) (int64, error)
}
