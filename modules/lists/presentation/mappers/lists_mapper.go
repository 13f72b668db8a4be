package mappers

import (
	"github.com/iota-uz/agentlists/modules/lists/domain/aggregates/agent"
	"github.com/iota-uz/agentlists/modules/lists/domain/aggregates/batch"
	"github.com/iota-uz/agentlists/modules/lists/presentation/viewmodels"
	"github.com/iota-uz/agentlists/modules/lists/services"
)

func ListToViewModel(b batch.Batch) *viewmodels.List {
	records := b.Items()
	items := make([]viewmodels.Item, 0, len(records))
	for _, r := range records {
		items = append(items, viewmodels.Item{
			FirstName: r.FirstName(),
			Phone:     r.Phone(),
			Notes:     r.Notes(),
		})
	}
	return &viewmodels.List{
		ID:        b.ID().String(),
		UploadID:  b.UploadID().String(),
		AgentID:   b.AgentID().String(),
		Position:  b.Position(),
		FileName:  b.FileName(),
		ItemCount: len(items),
		Items:     items,
		CreatedAt: b.CreatedAt(),
	}
}

func ListsToViewModels(batches []batch.Batch) []*viewmodels.List {
	out := make([]*viewmodels.List, 0, len(batches))
	for _, b := range batches {
		out = append(out, ListToViewModel(b))
	}
	return out
}

func UploadResultToViewModel(res *services.UploadResult) *viewmodels.UploadResult {
	return &viewmodels.UploadResult{
		Message:     "List uploaded and distributed successfully",
		UploadID:    res.UploadID.String(),
		FileName:    res.FileName,
		RecordCount: res.RecordCount,
		Lists:       ListsToViewModels(res.Batches),
	}
}

// AgentToViewModel never exposes the password hash.
func AgentToViewModel(a agent.Agent) *viewmodels.Agent {
	return &viewmodels.Agent{
		ID:        a.ID().String(),
		Name:      a.Name(),
		Email:     a.Email(),
		Mobile:    a.Mobile(),
		CreatedAt: a.CreatedAt(),
		UpdatedAt: a.UpdatedAt(),
	}
}

func AgentsToViewModels(agents []agent.Agent) []*viewmodels.Agent {
	out := make([]*viewmodels.Agent, 0, len(agents))
	for _, a := range agents {
		out = append(out, AgentToViewModel(a))
	}
	return out
}
