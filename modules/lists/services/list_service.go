package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/agentlists/modules/lists/domain/aggregates/agent"
	"github.com/iota-uz/agentlists/modules/lists/domain/aggregates/batch"
	"github.com/iota-uz/agentlists/pkg/composables"
	"github.com/iota-uz/agentlists/pkg/eventbus"
	"github.com/iota-uz/agentlists/pkg/tabular"
	"github.com/iota-uz/agentlists/pkg/upload"
)

// UploadResult describes one completed distribution run.
type UploadResult struct {
	UploadID    uuid.UUID
	FileName    string
	RecordCount int
	// AgentCount is the size of the agent snapshot, which can exceed
	// len(Batches) when there are fewer records than agents.
	AgentCount int
	Batches    []batch.Batch
}

type ListServiceOptions struct {
	// TempDir receives the per-upload spool files. Empty means os.TempDir.
	TempDir string
	// Clock stamps new lists. Defaults to time.Now.
	Clock func() time.Time
}

type ListService struct {
	repo      batch.Repository
	agentRepo agent.Repository
	publisher eventbus.EventBus
	tempDir   string
	now       func() time.Time
}

func NewListService(
	repo batch.Repository,
	agentRepo agent.Repository,
	publisher eventbus.EventBus,
	opts ListServiceOptions,
) *ListService {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &ListService{
		repo:      repo,
		agentRepo: agentRepo,
		publisher: publisher,
		tempDir:   opts.TempDir,
		now:       now,
	}
}

// Upload runs the ingestion pipeline for one file: resolve its format,
// snapshot the agent pool, spool the bytes to a private temp file, parse,
// validate, distribute and persist. Nothing is stored unless every row is
// valid.
func (s *ListService) Upload(ctx context.Context, fileName string, src io.Reader) (*UploadResult, error) {
	start := time.Now()
	logger := composables.UseLogger(ctx).WithField("file", fileName)

	format, err := tabular.FormatFromFileName(fileName)
	if err != nil {
		observeUpload("", nil, err, time.Since(start))
		logger.WithError(err).Info("upload rejected")
		return nil, err
	}

	res, err := s.upload(ctx, logger, format, fileName, src)
	observeUpload(format, res, err, time.Since(start))
	if err != nil {
		entry := logger.WithError(err).WithField("result", uploadOutcome(err))
		if uploadOutcome(err) == "error" {
			entry.Error("upload failed")
		} else {
			entry.Info("upload rejected")
		}
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"upload-id": res.UploadID,
		"records":   res.RecordCount,
		"agents":    res.AgentCount,
		"lists":     len(res.Batches),
	}).Info("upload distributed")

	s.publisher.Publish(&batch.DistributedEvent{
		UploadID:    res.UploadID,
		FileName:    res.FileName,
		RecordCount: res.RecordCount,
		AgentCount:  res.AgentCount,
		Batches:     res.Batches,
	})
	return res, nil
}

func (s *ListService) upload(
	ctx context.Context,
	logger *logrus.Entry,
	format tabular.Format,
	fileName string,
	src io.Reader,
) (*UploadResult, error) {
	// The snapshot is taken once; agents added later do not join this run.
	agentIDs, err := s.agentRepo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot agents: %w", err)
	}
	if len(agentIDs) == 0 {
		return nil, batch.ErrNoAgentsAvailable
	}

	spool, err := upload.Acquire(s.tempDir, src)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := spool.Release(); err != nil {
			logger.WithError(err).Warn("failed to remove upload temp file")
		}
	}()
	logger.WithField("bytes", spool.Size()).Debug("upload spooled")

	reader, err := tabular.Open(format, spool.File())
	if err != nil {
		return nil, err
	}
	records, err := Normalize(reader)
	if err != nil {
		return nil, err
	}

	uploadID := uuid.New()
	batches, err := batch.Distribute(uploadID, records, agentIDs, fileName, s.now().UTC())
	if err != nil {
		return nil, err
	}

	created := []batch.Batch{}
	if len(batches) > 0 {
		created, err = s.repo.CreateMany(ctx, batches)
		if err != nil {
			return nil, fmt.Errorf("store lists: %w", err)
		}
	}

	return &UploadResult{
		UploadID:    uploadID,
		FileName:    fileName,
		RecordCount: len(records),
		AgentCount:  len(agentIDs),
		Batches:     created,
	}, nil
}

func (s *ListService) GetByID(ctx context.Context, id uuid.UUID) (batch.Batch, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ListService) FindAll(ctx context.Context) ([]batch.Batch, error) {
	return s.repo.FindAll(ctx)
}

// FindByAgent returns the agent's lists, newest first. An unknown agent is
// reported as agent.ErrNotFound rather than an empty result.
func (s *ListService) FindByAgent(ctx context.Context, agentID uuid.UUID) ([]batch.Batch, error) {
	if _, err := s.agentRepo.GetByID(ctx, agentID); err != nil {
		return nil, err
	}
	return s.repo.FindByAgent(ctx, agentID)
}

// Reassign moves a list to another agent. The target agent is checked
// before the list, in the same transaction as the update, so an unknown
// agent never touches ownership.
func (s *ListService) Reassign(ctx context.Context, id, agentID uuid.UUID) (batch.Batch, error) {
	var previous, moved batch.Batch
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.agentRepo.GetByID(txCtx, agentID); err != nil {
			return err
		}
		var err error
		previous, err = s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		moved, err = s.repo.Reassign(txCtx, id, agentID)
		return err
	})
	if err != nil {
		return batch.Batch{}, err
	}

	composables.UseLogger(ctx).WithFields(logrus.Fields{
		"list-id": id,
		"from":    previous.AgentID(),
		"to":      agentID,
	}).Info("list reassigned")
	s.publisher.Publish(&batch.ReassignedEvent{Batch: moved, PreviousAgent: previous.AgentID()})
	return moved, nil
}

func (s *ListService) Delete(ctx context.Context, id uuid.UUID) (batch.Batch, error) {
	var deleted batch.Batch
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		deleted, err = s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		return s.repo.Delete(txCtx, id)
	})
	if err != nil {
		return batch.Batch{}, err
	}

	composables.UseLogger(ctx).WithField("list-id", id).Info("list deleted")
	s.publisher.Publish(&batch.DeletedEvent{Batch: deleted})
	return deleted, nil
}
