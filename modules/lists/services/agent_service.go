package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/iota-uz/agentlists/modules/lists/domain/aggregates/agent"
	"github.com/iota-uz/agentlists/modules/lists/domain/aggregates/batch"
	"github.com/iota-uz/agentlists/pkg/composables"
	"github.com/iota-uz/agentlists/pkg/serrors"
)

var ErrInvalidAgent = serrors.NewError(
	"AGENTS_INVALID",
	"agent data is invalid",
	"Agents.Errors.Invalid",
)

// InvalidAgentError carries per-field messages from DTO validation.
type InvalidAgentError struct {
	Fields map[string]string
}

func (e *InvalidAgentError) Error() string {
	return fmt.Sprintf("%s: %v", ErrInvalidAgent.Message, e.Fields)
}

func (e *InvalidAgentError) Is(target error) bool {
	return target == ErrInvalidAgent
}

func (e *InvalidAgentError) ErrorCode() string {
	return ErrInvalidAgent.Code
}

type AgentService struct {
	repo     agent.Repository
	listRepo batch.Repository
}

func NewAgentService(repo agent.Repository, listRepo batch.Repository) *AgentService {
	return &AgentService{repo: repo, listRepo: listRepo}
}

func (s *AgentService) GetAll(ctx context.Context) ([]agent.Agent, error) {
	return s.repo.GetAll(ctx)
}

func (s *AgentService) GetByID(ctx context.Context, id uuid.UUID) (agent.Agent, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AgentService) Create(ctx context.Context, dto *agent.CreateDTO) (agent.Agent, error) {
	if errs, ok := dto.Ok(); !ok {
		return agent.Agent{}, &InvalidAgentError{Fields: errs}
	}
	if err := s.ensureEmailFree(ctx, dto.Email, uuid.Nil); err != nil {
		return agent.Agent{}, err
	}
	hash, err := hashPassword(dto.Password)
	if err != nil {
		return agent.Agent{}, err
	}

	created, err := s.repo.Create(ctx, agent.New(dto.Name, dto.Email, dto.Mobile, hash))
	if err != nil {
		return agent.Agent{}, err
	}
	composables.UseLogger(ctx).WithField("agent-id", created.ID()).Info("agent created")
	return created, nil
}

func (s *AgentService) Update(ctx context.Context, id uuid.UUID, dto *agent.UpdateDTO) (agent.Agent, error) {
	if errs, ok := dto.Ok(); !ok {
		return agent.Agent{}, &InvalidAgentError{Fields: errs}
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return agent.Agent{}, err
	}

	if dto.Name != "" {
		existing = existing.SetName(dto.Name)
	}
	if dto.Email != "" {
		if err := s.ensureEmailFree(ctx, dto.Email, id); err != nil {
			return agent.Agent{}, err
		}
		existing = existing.SetEmail(dto.Email)
	}
	if dto.Mobile != "" {
		existing = existing.SetMobile(dto.Mobile)
	}
	if dto.Password != "" {
		hash, err := hashPassword(dto.Password)
		if err != nil {
			return agent.Agent{}, err
		}
		existing = existing.SetPasswordHash(hash)
	}
	return s.repo.Update(ctx, existing)
}

// Delete removes the agent together with every list it owns.
func (s *AgentService) Delete(ctx context.Context, id uuid.UUID) error {
	var removed int64
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetByID(txCtx, id); err != nil {
			return err
		}
		var err error
		removed, err = s.listRepo.DeleteByAgent(txCtx, id)
		if err != nil {
			return err
		}
		return s.repo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}
	composables.UseLogger(ctx).WithField("agent-id", id).WithField("lists", removed).Info("agent deleted")
	return nil
}

func (s *AgentService) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	found, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, agent.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if found.ID() != self {
		return agent.ErrEmailTaken
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
