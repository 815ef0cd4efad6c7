package service

import (
	"context"
	"errors"
	"testing"

	"bookie/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSnapshotFetcher struct {
	mock.Mock
}

func (m *MockSnapshotFetcher) Fetch(ctx context.Context) ([]models.MarketSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MarketSnapshot), args.Error(1)
}

type MockReconcileService struct {
	mock.Mock
}

func (m *MockReconcileService) Reconcile(ctx context.Context, snapshot []models.MarketSnapshot) (*models.ReconcileResult, error) {
	args := m.Called(ctx, snapshot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReconcileResult), args.Error(1)
}

func TestSyncWorker_RunOnce(t *testing.T) {
	ctx := context.Background()
	fetcher := new(MockSnapshotFetcher)
	reconciler := new(MockReconcileService)
	worker := NewSyncWorker(fetcher, reconciler, 0)

	snapshot := []models.MarketSnapshot{
		snapshotMarket("race-1", "Race One", "Max Verstappen"),
	}
	fetcher.On("Fetch", ctx).Return(snapshot, nil)
	reconciler.On("Reconcile", ctx, snapshot).Return(&models.ReconcileResult{MarketsCreated: 1}, nil)

	result, err := worker.RunOnce(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, result.MarketsCreated)
	fetcher.AssertExpectations(t)
	reconciler.AssertExpectations(t)
}

func TestSyncWorker_RunOnce_FetchFailureSkipsReconcile(t *testing.T) {
	ctx := context.Background()
	fetcher := new(MockSnapshotFetcher)
	reconciler := new(MockReconcileService)
	worker := NewSyncWorker(fetcher, reconciler, 0)

	fetcher.On("Fetch", ctx).Return(nil, errors.New("connection refused"))

	_, err := worker.RunOnce(ctx)

	// An unreachable feed must never close markets
	require.Error(t, err)
	reconciler.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything)
}

func TestSyncWorker_RunOnce_EmptySnapshotSkipsReconcile(t *testing.T) {
	ctx := context.Background()
	fetcher := new(MockSnapshotFetcher)
	reconciler := new(MockReconcileService)
	worker := NewSyncWorker(fetcher, reconciler, 0)

	fetcher.On("Fetch", ctx).Return([]models.MarketSnapshot{}, nil)

	result, err := worker.RunOnce(ctx)

	require.NoError(t, err)
	assert.Equal(t, 0, result.MarketsClosed)
	reconciler.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything)
}
