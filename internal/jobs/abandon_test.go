package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/prepmate/interview-server-go/internal/model"
)

type mockInterviewRepo struct {
	mu          sync.Mutex
	sweepCount  int64
	sweeps      int
	lastCutoff  time.Time
	sweepCalled chan struct{}
}

func (m *mockInterviewRepo) Create(ctx context.Context, params model.CreateInterviewParams) (*model.Interview, error) {
	return nil, nil
}

func (m *mockInterviewRepo) FindByID(ctx context.Context, id string) (*model.Interview, error) {
	return nil, nil
}

func (m *mockInterviewRepo) FindByUserID(ctx context.Context, userID string) ([]model.InterviewSummary, error) {
	return nil, nil
}

func (m *mockInterviewRepo) UpdateStatus(ctx context.Context, id string, status model.InterviewStatus) error {
	return nil
}

func (m *mockInterviewRepo) MarkAbandonedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweeps++
	m.lastCutoff = cutoff
	if m.sweepCalled != nil {
		select {
		case m.sweepCalled <- struct{}{}:
		default:
		}
	}
	return m.sweepCount, nil
}

func TestAbandonJob(t *testing.T) {
	t.Run("creates job with correct interval and age", func(t *testing.T) {
		job := NewAbandonJob(nil, 15*time.Minute, 24*time.Hour)

		assert.NotNil(t, job)
		assert.Equal(t, 15*time.Minute, job.interval)
		assert.Equal(t, 24*time.Hour, job.maxAge)
	})

	t.Run("sweeps on start with cutoff derived from max age", func(t *testing.T) {
		repo := &mockInterviewRepo{sweepCount: 3, sweepCalled: make(chan struct{}, 1)}
		job := NewAbandonJob(repo, time.Hour, 24*time.Hour)

		job.Start()
		select {
		case <-repo.sweepCalled:
		case <-time.After(time.Second):
			t.Fatal("sweep never ran")
		}
		job.Stop()

		repo.mu.Lock()
		defer repo.mu.Unlock()
		assert.GreaterOrEqual(t, repo.sweeps, 1)
		assert.WithinDuration(t, time.Now().Add(-24*time.Hour), repo.lastCutoff, 5*time.Second)
	})

	t.Run("starts and stops without panic", func(t *testing.T) {
		repo := &mockInterviewRepo{}
		job := NewAbandonJob(repo, 50*time.Millisecond, time.Hour)

		job.Start()
		time.Sleep(20 * time.Millisecond)
		job.Stop()
	})
}
