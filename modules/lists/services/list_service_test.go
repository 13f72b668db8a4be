package services_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/agentlists/modules/lists/domain/aggregates/agent"
	"github.com/iota-uz/agentlists/modules/lists/domain/aggregates/batch"
	"github.com/iota-uz/agentlists/modules/lists/domain/entities/record"
	"github.com/iota-uz/agentlists/modules/lists/infrastructure/persistence"
	"github.com/iota-uz/agentlists/modules/lists/services"
	"github.com/iota-uz/agentlists/pkg/composables"
	"github.com/iota-uz/agentlists/pkg/tabular"
)

func TestListService_UploadDistributesAcrossAgents(t *testing.T) {
	f := setup(t)
	agentIDs := f.createAgents(t, 3)

	var published []*batch.DistributedEvent
	f.env.App.EventPublisher().Subscribe(func(e *batch.DistributedEvent) {
		published = append(published, e)
	})

	res, err := f.lists.Upload(f.env.Ctx, "leads.csv", strings.NewReader(csvWithRows(10)))
	require.NoError(t, err)
	require.Equal(t, 10, res.RecordCount)
	require.Equal(t, "leads.csv", res.FileName)
	require.Len(t, res.Batches, 3)

	sizes := []int{}
	var joined []record.Record
	for i, b := range res.Batches {
		require.NotEqual(t, uuid.Nil, b.ID())
		require.Equal(t, agentIDs[i], b.AgentID())
		require.Equal(t, res.UploadID, b.UploadID())
		sizes = append(sizes, b.Len())
		joined = append(joined, b.Items()...)
	}
	require.Equal(t, []int{4, 3, 3}, sizes)
	require.Equal(t, "name-0", joined[0].FirstName())
	require.Equal(t, "name-9", joined[9].FirstName())
	require.Equal(t, "note 9", joined[9].Notes())

	stored, err := f.lists.FindAll(f.env.Ctx)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for i, b := range stored {
		require.Equal(t, res.Batches[i].ID(), b.ID())
		require.Equal(t, res.Batches[i].Items(), b.Items())
	}

	require.Len(t, published, 1)
	require.Equal(t, res.UploadID, published[0].UploadID)
	require.Equal(t, 3, published[0].AgentCount)
	f.requireTempDirEmpty(t)
}

func TestListService_FewerRecordsThanAgents(t *testing.T) {
	f := setup(t)
	agentIDs := f.createAgents(t, 5)

	var published []*batch.DistributedEvent
	f.env.App.EventPublisher().Subscribe(func(e *batch.DistributedEvent) {
		published = append(published, e)
	})

	res, err := f.lists.Upload(f.env.Ctx, "two.csv", strings.NewReader(csvWithRows(2)))
	require.NoError(t, err)
	require.Len(t, res.Batches, 2)
	require.Equal(t, 5, res.AgentCount)
	require.Len(t, published, 1)
	require.Equal(t, 5, published[0].AgentCount)
	require.Len(t, published[0].Batches, 2)
	require.Equal(t, agentIDs[0], res.Batches[0].AgentID())
	require.Equal(t, agentIDs[1], res.Batches[1].AgentID())

	for _, id := range agentIDs[2:] {
		lists, err := f.lists.FindByAgent(f.env.Ctx, id)
		require.NoError(t, err)
		require.Empty(t, lists)
	}
}

func TestListService_InvalidRowStoresNothing(t *testing.T) {
	f := setup(t)
	f.createAgents(t, 2)

	content := "firstName,phone\nA,1\nB,2\nC,3\nD,4\n,5\nF,6\n"
	res, err := f.lists.Upload(f.env.Ctx, "bad.csv", strings.NewReader(content))
	require.Nil(t, res)

	var verr *record.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, 6, verr.Row)
	require.Equal(t, record.FieldFirstName, verr.Field)

	require.Zero(t, f.env.Count(t, "lists"))
	f.requireTempDirEmpty(t)
}

func TestListService_SpreadsheetMissingPhoneColumn(t *testing.T) {
	f := setup(t)
	f.createAgents(t, 2)

	wb := excelize.NewFile()
	require.NoError(t, wb.SetSheetRow("Sheet1", "A1", &[]any{"FirstName", "Notes"}))
	require.NoError(t, wb.SetSheetRow("Sheet1", "A2", &[]any{"Alice", "vip"}))
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	_, err = f.lists.Upload(f.env.Ctx, "leads.xlsx", bytes.NewReader(buf.Bytes()))
	require.ErrorIs(t, err, record.ErrValidation)

	var verr *record.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, record.FieldPhone, verr.Field)
	require.Zero(t, f.env.Count(t, "lists"))
	f.requireTempDirEmpty(t)
}

func TestListService_RejectsBeforeParsing(t *testing.T) {
	t.Run("unsupported format", func(t *testing.T) {
		f := setup(t)
		f.createAgents(t, 1)
		_, err := f.lists.Upload(f.env.Ctx, "leads.pdf", strings.NewReader("%PDF"))
		require.ErrorIs(t, err, tabular.ErrUnsupportedFormat)
		f.requireTempDirEmpty(t)
	})

	t.Run("no agents", func(t *testing.T) {
		f := setup(t)
		_, err := f.lists.Upload(f.env.Ctx, "leads.csv", strings.NewReader(csvWithRows(3)))
		require.ErrorIs(t, err, batch.ErrNoAgentsAvailable)
		require.Zero(t, f.env.Count(t, "lists"))
		f.requireTempDirEmpty(t)
	})

	t.Run("malformed spreadsheet", func(t *testing.T) {
		f := setup(t)
		f.createAgents(t, 1)
		_, err := f.lists.Upload(f.env.Ctx, "leads.xlsx", strings.NewReader("firstName,phone\nA,1\n"))
		require.ErrorIs(t, err, tabular.ErrMalformedInput)
		f.requireTempDirEmpty(t)
	})
}

func TestListService_HeaderOnlyCSVCreatesNothing(t *testing.T) {
	f := setup(t)
	f.createAgents(t, 2)

	res, err := f.lists.Upload(f.env.Ctx, "empty.csv", strings.NewReader("firstName,phone\n"))
	require.NoError(t, err)
	require.Zero(t, res.RecordCount)
	require.Empty(t, res.Batches)
	require.Zero(t, f.env.Count(t, "lists"))
}

func TestListService_FindByAgentNewestFirst(t *testing.T) {
	f := setup(t)
	agentIDs := f.createAgents(t, 1)

	first, err := f.lists.Upload(f.env.Ctx, "first.csv", strings.NewReader(csvWithRows(2)))
	require.NoError(t, err)
	second, err := f.lists.Upload(f.env.Ctx, "second.csv", strings.NewReader(csvWithRows(3)))
	require.NoError(t, err)

	lists, err := f.lists.FindByAgent(f.env.Ctx, agentIDs[0])
	require.NoError(t, err)
	require.Len(t, lists, 2)
	require.Equal(t, second.Batches[0].ID(), lists[0].ID())
	require.Equal(t, first.Batches[0].ID(), lists[1].ID())
	require.True(t, lists[0].CreatedAt().After(lists[1].CreatedAt()))

	_, err = f.lists.FindByAgent(f.env.Ctx, uuid.New())
	require.ErrorIs(t, err, agent.ErrNotFound)
}

func TestListService_Reassign(t *testing.T) {
	f := setup(t)
	agentIDs := f.createAgents(t, 2)
	res, err := f.lists.Upload(f.env.Ctx, "leads.csv", strings.NewReader(csvWithRows(4)))
	require.NoError(t, err)
	target := res.Batches[0]

	var events []*batch.ReassignedEvent
	f.env.App.EventPublisher().Subscribe(func(e *batch.ReassignedEvent) {
		events = append(events, e)
	})

	t.Run("unknown agent leaves ownership unchanged", func(t *testing.T) {
		_, err := f.lists.Reassign(f.env.Ctx, target.ID(), uuid.New())
		require.ErrorIs(t, err, agent.ErrNotFound)

		stored, err := f.lists.GetByID(f.env.Ctx, target.ID())
		require.NoError(t, err)
		require.Equal(t, agentIDs[0], stored.AgentID())
	})

	t.Run("unknown list", func(t *testing.T) {
		_, err := f.lists.Reassign(f.env.Ctx, uuid.New(), agentIDs[1])
		require.ErrorIs(t, err, batch.ErrNotFound)
	})

	t.Run("moves the list", func(t *testing.T) {
		moved, err := f.lists.Reassign(f.env.Ctx, target.ID(), agentIDs[1])
		require.NoError(t, err)
		require.Equal(t, agentIDs[1], moved.AgentID())
		require.Equal(t, target.Items(), moved.Items())

		owned, err := f.lists.FindByAgent(f.env.Ctx, agentIDs[1])
		require.NoError(t, err)
		require.Len(t, owned, 2)

		remaining, err := f.lists.FindByAgent(f.env.Ctx, agentIDs[0])
		require.NoError(t, err)
		require.Empty(t, remaining)

		require.Len(t, events, 1)
		require.Equal(t, agentIDs[0], events[0].PreviousAgent)
	})
}

func TestListService_Delete(t *testing.T) {
	f := setup(t)
	f.createAgents(t, 2)
	res, err := f.lists.Upload(f.env.Ctx, "leads.csv", strings.NewReader(csvWithRows(4)))
	require.NoError(t, err)

	deleted, err := f.lists.Delete(f.env.Ctx, res.Batches[0].ID())
	require.NoError(t, err)
	require.Equal(t, res.Batches[0].ID(), deleted.ID())
	require.Equal(t, 1, f.env.Count(t, "lists"))

	_, err = f.lists.Delete(f.env.Ctx, res.Batches[0].ID())
	require.ErrorIs(t, err, batch.ErrNotFound)
}

// failingStore accepts reads but refuses to persist new lists.
type failingStore struct {
	batch.Repository
	err error
}

func (s *failingStore) CreateMany(context.Context, []batch.Batch) ([]batch.Batch, error) {
	return nil, s.err
}

// txCheckingAgents records whether agent lookups ran inside a transaction.
type txCheckingAgents struct {
	agent.Repository
	inTx []bool
}

func (r *txCheckingAgents) GetByID(ctx context.Context, id uuid.UUID) (agent.Agent, error) {
	tx, err := composables.UseTx(ctx)
	_, isTx := tx.(*sqlx.Tx)
	r.inTx = append(r.inTx, err == nil && isTx)
	return r.Repository.GetByID(ctx, id)
}

func TestListService_StorageFailureIsInternal(t *testing.T) {
	f := setup(t)
	f.createAgents(t, 2)
	dbDown := errors.New("db down")

	svc := services.NewListService(
		&failingStore{Repository: persistence.NewListRepository(), err: dbDown},
		persistence.NewAgentRepository(),
		f.env.App.EventPublisher(),
		services.ListServiceOptions{TempDir: f.tempDir},
	)

	var published int
	f.env.App.EventPublisher().Subscribe(func(*batch.DistributedEvent) { published++ })

	res, err := svc.Upload(f.env.Ctx, "leads.csv", strings.NewReader(csvWithRows(6)))
	require.Nil(t, res)
	require.ErrorIs(t, err, dbDown)
	require.NotErrorIs(t, err, record.ErrValidation)
	require.NotErrorIs(t, err, tabular.ErrMalformedInput)
	require.NotErrorIs(t, err, batch.ErrNoAgentsAvailable)

	require.Zero(t, published)
	require.Equal(t, 0, f.env.Count(t, "lists"))
	f.requireTempDirEmpty(t)
}

func TestListService_ReassignChecksAgentInTransaction(t *testing.T) {
	f := setup(t)
	agentIDs := f.createAgents(t, 2)
	res, err := f.lists.Upload(f.env.Ctx, "leads.csv", strings.NewReader(csvWithRows(2)))
	require.NoError(t, err)

	agents := &txCheckingAgents{Repository: persistence.NewAgentRepository()}
	svc := services.NewListService(
		persistence.NewListRepository(),
		agents,
		f.env.App.EventPublisher(),
		services.ListServiceOptions{TempDir: f.tempDir},
	)

	_, err = svc.Reassign(f.env.Ctx, res.Batches[0].ID(), uuid.New())
	require.ErrorIs(t, err, agent.ErrNotFound)

	moved, err := svc.Reassign(f.env.Ctx, res.Batches[0].ID(), agentIDs[1])
	require.NoError(t, err)
	require.Equal(t, agentIDs[1], moved.AgentID())

	require.Equal(t, []bool{true, true}, agents.inTx)
}
