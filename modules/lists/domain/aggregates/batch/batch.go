package batch

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/agentlists/modules/lists/domain/entities/record"
)

// Batch is the share of one upload assigned to one agent. Only the owner
// can change after creation.
type Batch struct {
	id        uuid.UUID
	uploadID  uuid.UUID
	agentID   uuid.UUID
	position  int
	items     []record.Record
	fileName  string
	createdAt time.Time
}

// New builds an unsaved batch. position is the owner's index in the agent
// snapshot the batch was distributed against.
func New(uploadID, agentID uuid.UUID, position int, items []record.Record, fileName string, createdAt time.Time) Batch {
	return Batch{
		uploadID:  uploadID,
		agentID:   agentID,
		position:  position,
		items:     slices.Clone(items),
		fileName:  fileName,
		createdAt: createdAt,
	}
}

func Hydrate(
	id uuid.UUID,
	uploadID uuid.UUID,
	agentID uuid.UUID,
	position int,
	items []record.Record,
	fileName string,
	createdAt time.Time,
) Batch {
	b := New(uploadID, agentID, position, items, fileName, createdAt)
	b.id = id
	return b
}

func (b Batch) ID() uuid.UUID        { return b.id }
func (b Batch) UploadID() uuid.UUID  { return b.uploadID }
func (b Batch) AgentID() uuid.UUID   { return b.agentID }
func (b Batch) Position() int        { return b.position }
func (b Batch) FileName() string     { return b.fileName }
func (b Batch) CreatedAt() time.Time { return b.createdAt }
func (b Batch) Len() int             { return len(b.items) }
func (b Batch) IsZero() bool         { return b.id == uuid.Nil && len(b.items) == 0 }

// Items returns a copy of the batch's records in upload order.
func (b Batch) Items() []record.Record {
	return slices.Clone(b.items)
}

func (b Batch) WithID(id uuid.UUID) Batch {
	b.id = id
	return b
}

// Reassign returns b owned by agentID.
func (b Batch) Reassign(agentID uuid.UUID) Batch {
	b.agentID = agentID
	return b
}
