package ingest

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRunner struct{ n atomic.Int32 }

func (r *countingRunner) Run(ctx context.Context) (*RunReport, error) {
	r.n.Add(1)
	return &RunReport{}, nil
}

func TestSchedulerRunsOnceWithoutInterval(t *testing.T) {
	r := &countingRunner{}
	stop := NewScheduler(r, 10*time.Millisecond, 0).Start()
	assert.Eventually(t, func() bool { return r.n.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), r.n.Load())
	require.NoError(t, stop(context.Background()))
}

func TestSchedulerRepeats(t *testing.T) {
	r := &countingRunner{}
	stop := NewScheduler(r, 0, 10*time.Millisecond).Start()
	assert.Eventually(t, func() bool { return r.n.Load() >= 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, stop(context.Background()))
}

func TestSchedulerStopBeforeFirstRun(t *testing.T) {
	r := &countingRunner{}
	stop := NewScheduler(r, time.Hour, 0).Start()
	require.NoError(t, stop(context.Background()))
	assert.Equal(t, int32(0), r.n.Load())
}
