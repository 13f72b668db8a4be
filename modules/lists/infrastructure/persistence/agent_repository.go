package persistence

import (
	"context"
	"errors"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/iota-uz/agentlists/modules/lists/domain/aggregates/agent"
	"github.com/iota-uz/agentlists/modules/lists/infrastructure/persistence/models"
	"github.com/iota-uz/agentlists/pkg/composables"
)

const (
	agentSelectQuery = `
		SELECT id, name, email, mobile, password_hash, created_at, updated_at
		FROM agents`
	agentInsertQuery = `
		INSERT INTO agents (id, name, email, mobile, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	agentUpdateQuery = `
		UPDATE agents
		SET name = ?, email = ?, mobile = ?, password_hash = ?, updated_at = ?
		WHERE id = ?`
	agentCreationOrder = ` ORDER BY created_at ASC, id ASC`
)

type AgentRepository struct{}

func NewAgentRepository() agent.Repository {
	return &AgentRepository{}
}

func (r *AgentRepository) GetAll(ctx context.Context) ([]agent.Agent, error) {
	return r.queryAgents(ctx, agentSelectQuery+agentCreationOrder)
}

func (r *AgentRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	if err := sqlx.SelectContext(ctx, tx, &ids, `SELECT id FROM agents`+agentCreationOrder); err != nil {
		return nil, gerrors.Wrap(err, "list agent ids")
	}
	return ids, nil
}

func (r *AgentRepository) GetByID(ctx context.Context, id uuid.UUID) (agent.Agent, error) {
	return r.queryOne(ctx, agentSelectQuery+` WHERE id = ?`, id)
}

func (r *AgentRepository) GetByEmail(ctx context.Context, email string) (agent.Agent, error) {
	return r.queryOne(ctx, agentSelectQuery+` WHERE email = ?`, agent.New("", email, "", "").Email())
}

func (r *AgentRepository) Create(ctx context.Context, a agent.Agent) (agent.Agent, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return agent.Agent{}, err
	}

	row := toDBAgent(a)
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = dbTime(time.Now())
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}

	if _, err := tx.ExecContext(
		ctx,
		tx.Rebind(agentInsertQuery),
		row.ID,
		row.Name,
		row.Email,
		row.Mobile,
		row.PasswordHash,
		row.CreatedAt,
		row.UpdatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return agent.Agent{}, agent.ErrEmailTaken
		}
		return agent.Agent{}, gerrors.Wrap(err, "insert agent")
	}
	return toDomainAgent(row), nil
}

func (r *AgentRepository) Update(ctx context.Context, a agent.Agent) (agent.Agent, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return agent.Agent{}, err
	}

	row := toDBAgent(a)
	row.UpdatedAt = dbTime(time.Now())
	res, err := tx.ExecContext(
		ctx,
		tx.Rebind(agentUpdateQuery),
		row.Name,
		row.Email,
		row.Mobile,
		row.PasswordHash,
		row.UpdatedAt,
		row.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return agent.Agent{}, agent.ErrEmailTaken
		}
		return agent.Agent{}, gerrors.Wrap(err, "update agent")
	}
	if err := requireAffected(res, agent.ErrNotFound); err != nil {
		return agent.Agent{}, err
	}
	return r.GetByID(ctx, row.ID)
}

func (r *AgentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM agents WHERE id = ?`), id)
	if err != nil {
		return gerrors.Wrap(err, "delete agent")
	}
	return requireAffected(res, agent.ErrNotFound)
}

func (r *AgentRepository) queryOne(ctx context.Context, query string, args ...any) (agent.Agent, error) {
	agents, err := r.queryAgents(ctx, query, args...)
	if err != nil {
		return agent.Agent{}, err
	}
	if len(agents) == 0 {
		return agent.Agent{}, agent.ErrNotFound
	}
	return agents[0], nil
}

func (r *AgentRepository) queryAgents(ctx context.Context, query string, args ...any) ([]agent.Agent, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var rows []models.Agent
	if err := sqlx.SelectContext(ctx, tx, &rows, tx.Rebind(query), args...); err != nil {
		return nil, gerrors.Wrap(err, "query agents")
	}
	out := make([]agent.Agent, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainAgent(row))
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
