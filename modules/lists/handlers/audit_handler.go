package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/agentlists/modules/lists/domain/aggregates/batch"
	"github.com/iota-uz/agentlists/pkg/application"
)

// AuditHandler writes one structured line per list lifecycle event.
type AuditHandler struct {
	logger *logrus.Entry
}

func NewAuditHandler(logger *logrus.Logger) *AuditHandler {
	return &AuditHandler{logger: logger.WithField("component", "lists-audit")}
}

func RegisterAuditHandlers(app application.Application, logger *logrus.Logger) *AuditHandler {
	h := NewAuditHandler(logger)
	app.EventPublisher().Subscribe(h.onDistributed)
	app.EventPublisher().Subscribe(h.onReassigned)
	app.EventPublisher().Subscribe(h.onDeleted)
	return h
}

func (h *AuditHandler) onDistributed(event *batch.DistributedEvent) {
	sizes := make([]int, 0, len(event.Batches))
	for _, b := range event.Batches {
		sizes = append(sizes, b.Len())
	}
	h.logger.WithFields(logrus.Fields{
		"event":     "lists.distributed",
		"upload-id": event.UploadID,
		"file":      event.FileName,
		"records":   event.RecordCount,
		"agents":    event.AgentCount,
		"lists":     len(event.Batches),
		"sizes":     sizes,
	}).Info("list distributed")
}

func (h *AuditHandler) onReassigned(event *batch.ReassignedEvent) {
	h.logger.WithFields(logrus.Fields{
		"event":   "lists.reassigned",
		"list-id": event.Batch.ID(),
		"from":    event.PreviousAgent,
		"to":      event.Batch.AgentID(),
	}).Info("list reassigned")
}

func (h *AuditHandler) onDeleted(event *batch.DeletedEvent) {
	h.logger.WithFields(logrus.Fields{
		"event":   "lists.deleted",
		"list-id": event.Batch.ID(),
		"agent":   event.Batch.AgentID(),
		"items":   event.Batch.Len(),
	}).Info("list deleted")
}
