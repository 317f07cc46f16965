package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/order-tracker/internal/model"
	"github.com/nhle/order-tracker/internal/store"
	"github.com/nhle/order-tracker/tests/testutil"
)

func TestSaveOrdersRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	want := testutil.SampleOrders()
	require.NoError(t, s.SaveOrders(ctx, want))

	got, err := s.GetOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveOrdersIsIdempotent(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	orders := testutil.SampleOrders()
	require.NoError(t, s.SaveOrders(ctx, orders))
	require.NoError(t, s.SaveOrders(ctx, orders))

	got, err := s.GetOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, orders, got)

	sum, err := s.OrderSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.Summary{
		UniqueOrders:    3,
		Shipped:         1,
		Cancelled:       1,
		TrackingNumbers: 2,
	}, sum)
}

func TestSaveOrdersUpdatesExisting(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	first := testutil.SampleOrders()[2]
	require.NoError(t, s.SaveOrders(ctx, []model.Order{first}))

	updated := first
	updated.Status = model.StatusShipped
	updated.Products = []model.Product{{Title: "Gadget", Price: "$5.00", Quantity: "3"}}
	updated.TrackingNumbers = []string{"1ZNEW"}
	require.NoError(t, s.SaveOrders(ctx, []model.Order{updated}))

	// A later run that no longer sees the shipment keeps the number.
	again := updated
	again.TrackingNumbers = []string{}
	require.NoError(t, s.SaveOrders(ctx, []model.Order{again}))

	got, err := s.GetOrders(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.StatusShipped, got[0].Status)
	assert.Equal(t, updated.Products, got[0].Products)
	assert.Equal(t, []string{"1ZNEW"}, got[0].TrackingNumbers)

	// A newer shipment notice replaces the stored set.
	reshipped := updated
	reshipped.TrackingNumbers = []string{"1ZLATEST"}
	require.NoError(t, s.SaveOrders(ctx, []model.Order{reshipped}))

	got, err = s.GetOrders(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"1ZLATEST"}, got[0].TrackingNumbers)
}

func TestSaveOrdersEmptyIsNoop(t *testing.T) {
	s := testutil.NewTestStore(t)
	require.NoError(t, s.SaveOrders(context.Background(), nil))

	got, err := s.GetOrders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)

	sum, err := s.OrderSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, store.Summary{}, sum)
}

func TestSuccessfulOrdersExcludesCancelled(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveOrders(ctx, testutil.SampleOrders()))

	rows, err := s.GetSuccessfulOrders(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "BBY01-200", rows[0].OrderNumber)
	assert.Equal(t, "Shipped", rows[0].Status)
	assert.Contains(t, rows[0].Titles, "Xbox Series X")
	assert.Contains(t, rows[0].Tracking, "1Z999")

	assert.Equal(t, "BBY01-300", rows[1].OrderNumber)
	assert.Empty(t, rows[1].Titles)
}

func TestSaveXboxCodesIgnoresDuplicates(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	codes := testutil.SampleCodes()
	n, err := s.SaveXboxCodes(ctx, append(codes, codes[0]))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.SaveXboxCodes(ctx, codes)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := s.GetXboxCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, codes, got)
}

func TestRecordRun(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	started := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	older := model.SyncRun{
		Profile:    "personal",
		Folder:     "INBOX",
		StartedAt:  started.Add(-time.Hour),
		FinishedAt: started.Add(-time.Hour + time.Minute),
	}
	newer := model.SyncRun{
		Profile:    "personal",
		Folder:     "INBOX",
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Minute),
		Orders:     3,
		Codes:      1,
		Stats: model.PhaseStatistics{
			Processed:     5,
			Successful:    4,
			Failed:        1,
			AbortedPhases: []model.Phase{model.PhaseShipment},
		},
	}

	_, err := s.RecordRun(ctx, older)
	require.NoError(t, err)
	id, err := s.RecordRun(ctx, newer)
	require.NoError(t, err)
	assert.Len(t, id, 36)

	runs, err := s.RecentRuns(ctx, 5)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, 3, runs[0].Orders)
	assert.Equal(t, newer.Stats, runs[0].Stats)
	assert.True(t, runs[0].StartedAt.Equal(started))
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()

	s, path := testutil.NewFileStore(t)
	require.NoError(t, s.SaveOrders(ctx, testutil.SampleOrders()))
	require.NoError(t, s.Close())

	s, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	version, err := s.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, version)
	assert.Equal(t, path, s.Path())
}

func TestNewSQLiteStoreRejectsEmptyPath(t *testing.T) {
	_, err := store.NewSQLiteStore("")
	assert.Error(t, err)
}
