package persistence

import (
	"context"
	"database/sql"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iota-uz/agentlists/modules/lists/domain/aggregates/batch"
	"github.com/iota-uz/agentlists/modules/lists/infrastructure/persistence/models"
	"github.com/iota-uz/agentlists/pkg/composables"
)

const (
	listSelectQuery = `
		SELECT id, upload_id, agent_id, agent_position, items, item_count, file_name, created_at
		FROM lists`
	listInsertQuery = `
		INSERT INTO lists (id, upload_id, agent_id, agent_position, items, item_count, file_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	listNewestFirst = ` ORDER BY created_at DESC, agent_position ASC, id ASC`
)

type ListRepository struct{}

func NewListRepository() batch.Repository {
	return &ListRepository{}
}

func (r *ListRepository) CreateMany(ctx context.Context, batches []batch.Batch) ([]batch.Batch, error) {
	created := make([]batch.Batch, 0, len(batches))
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		tx, err := composables.UseTx(txCtx)
		if err != nil {
			return err
		}
		for _, b := range batches {
			if b.Len() == 0 {
				return batch.ErrEmptyBatch
			}
			if b.ID() == uuid.Nil {
				b = b.WithID(uuid.New())
			}
			row, err := toDBList(b)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(
				txCtx,
				tx.Rebind(listInsertQuery),
				row.ID,
				row.UploadID,
				row.AgentID,
				row.AgentPosition,
				row.Items,
				row.ItemCount,
				row.FileName,
				row.CreatedAt,
			); err != nil {
				return gerrors.Wrapf(err, "insert list for agent %s", row.AgentID)
			}
			created = append(created, b.WithID(row.ID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *ListRepository) GetByID(ctx context.Context, id uuid.UUID) (batch.Batch, error) {
	lists, err := r.queryLists(ctx, listSelectQuery+` WHERE id = ?`, id)
	if err != nil {
		return batch.Batch{}, err
	}
	if len(lists) == 0 {
		return batch.Batch{}, batch.ErrNotFound
	}
	return lists[0], nil
}

func (r *ListRepository) FindByAgent(ctx context.Context, agentID uuid.UUID) ([]batch.Batch, error) {
	return r.queryLists(ctx, listSelectQuery+` WHERE agent_id = ?`+listNewestFirst, agentID)
}

func (r *ListRepository) FindAll(ctx context.Context) ([]batch.Batch, error) {
	return r.queryLists(ctx, listSelectQuery+listNewestFirst)
}

func (r *ListRepository) Reassign(ctx context.Context, id, agentID uuid.UUID) (batch.Batch, error) {
	var moved batch.Batch
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		tx, err := composables.UseTx(txCtx)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(txCtx, tx.Rebind(`UPDATE lists SET agent_id = ? WHERE id = ?`), agentID, id)
		if err != nil {
			return gerrors.Wrap(err, "reassign list")
		}
		if err := requireAffected(res, batch.ErrNotFound); err != nil {
			return err
		}
		moved, err = r.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return batch.Batch{}, err
	}
	return moved, nil
}

func (r *ListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM lists WHERE id = ?`), id)
	if err != nil {
		return gerrors.Wrap(err, "delete list")
	}
	return requireAffected(res, batch.ErrNotFound)
}

func (r *ListRepository) DeleteByAgent(ctx context.Context, agentID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM lists WHERE agent_id = ?`), agentID)
	if err != nil {
		return 0, gerrors.Wrap(err, "delete lists of agent")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, gerrors.Wrap(err, "rows affected")
	}
	return n, nil
}

func (r *ListRepository) queryLists(ctx context.Context, query string, args ...any) ([]batch.Batch, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var rows []models.List
	if err := sqlx.SelectContext(ctx, tx, &rows, tx.Rebind(query), args...); err != nil {
		return nil, gerrors.Wrap(err, "query lists")
	}
	return toDomainLists(rows)
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return gerrors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return notFound
	}
	return nil
}
