package persistence

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/iota-uz/agentlists/modules/lists/domain/aggregates/agent"
	"github.com/iota-uz/agentlists/modules/lists/domain/aggregates/batch"
	"github.com/iota-uz/agentlists/modules/lists/domain/entities/record"
	"github.com/iota-uz/agentlists/modules/lists/infrastructure/persistence/models"
)

func toDBList(b batch.Batch) (models.List, error) {
	items, err := json.Marshal(b.Items())
	if err != nil {
		return models.List{}, fmt.Errorf("encode items: %w", err)
	}
	return models.List{
		ID:            b.ID(),
		UploadID:      b.UploadID(),
		AgentID:       b.AgentID(),
		AgentPosition: b.Position(),
		Items:         string(items),
		ItemCount:     b.Len(),
		FileName:      b.FileName(),
		CreatedAt:     dbTime(b.CreatedAt()),
	}, nil
}

func toDomainList(m models.List) (batch.Batch, error) {
	var items []record.Record
	if err := json.Unmarshal([]byte(m.Items), &items); err != nil {
		return batch.Batch{}, fmt.Errorf("decode items of list %s: %w", m.ID, err)
	}
	return batch.Hydrate(
		m.ID,
		m.UploadID,
		m.AgentID,
		m.AgentPosition,
		items,
		m.FileName,
		m.CreatedAt.UTC(),
	), nil
}

func toDomainLists(rows []models.List) ([]batch.Batch, error) {
	out := make([]batch.Batch, 0, len(rows))
	for _, row := range rows {
		b, err := toDomainList(row)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func toDBAgent(a agent.Agent) models.Agent {
	return models.Agent{
		ID:           a.ID(),
		Name:         a.Name(),
		Email:        a.Email(),
		Mobile:       a.Mobile(),
		PasswordHash: a.PasswordHash(),
		CreatedAt:    dbTime(a.CreatedAt()),
		UpdatedAt:    dbTime(a.UpdatedAt()),
	}
}

func toDomainAgent(m models.Agent) agent.Agent {
	return agent.Hydrate(
		m.ID,
		m.Name,
		m.Email,
		m.Mobile,
		m.PasswordHash,
		m.CreatedAt.UTC(),
		m.UpdatedAt.UTC(),
	)
}

// dbTime matches the precision both backends store.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
