package batch

import "github.com/google/uuid"

type DistributedEvent struct {
	UploadID    uuid.UUID
	FileName    string
	RecordCount int
	AgentCount  int
	Batches     []Batch
}

type ReassignedEvent struct {
	Batch         Batch
	PreviousAgent uuid.UUID
}

type DeletedEvent struct {
	Batch Batch
}
