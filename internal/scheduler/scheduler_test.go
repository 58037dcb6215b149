package scheduler

import (
	"bytes"
	"context"
	"errors"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeRetrier struct {
	mu        sync.Mutex
	calls     int
	limit     int
	max       int
	delivered int
	err       error
}

func (r *fakeRetrier) RetryPending(_ context.Context, limit, maxAttempts int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.limit = limit
	r.max = maxAttempts
	return r.delivered, r.err
}

func (r *fakeRetrier) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type fakeObserver struct {
	delivered int
	err       error
}

func (o *fakeObserver) ObserveRetryRun(delivered int, err error) {
	o.delivered = delivered
	o.err = err
}

func TestRunOnceUsesDefaults(t *testing.T) {
	retrier := &fakeRetrier{delivered: 2}
	observer := &fakeObserver{}
	var buf bytes.Buffer
	s := New(Config{Logger: log.New(&buf, "", 0), Retrier: retrier, Observer: observer, MaxAttempts: 5})

	s.RunOnce(context.Background())

	assert.Equal(t, 1, retrier.calls)
	assert.Equal(t, 50, retrier.limit)
	assert.Equal(t, 5, retrier.max)
	assert.Equal(t, 2, observer.delivered)
	assert.Contains(t, buf.String(), "delivered 2 alert(s)")
	assert.Equal(t, "@every 10m", s.spec)
}

func TestRunOnceLogsErrors(t *testing.T) {
	retrier := &fakeRetrier{err: errors.New("mongo down")}
	observer := &fakeObserver{}
	var buf bytes.Buffer
	s := New(Config{Logger: log.New(&buf, "", 0), Retrier: retrier, Observer: observer})

	s.RunOnce(context.Background())

	assert.EqualError(t, observer.err, "mongo down")
	assert.Contains(t, buf.String(), "notification retry failed: mongo down")
}

func TestStartRejectsInvalidSpec(t *testing.T) {
	s := New(Config{Logger: log.New(&bytes.Buffer{}, "", 0), Spec: "not a schedule"})
	assert.Error(t, s.Start())
}

func TestStartAndStopDoNotLeak(t *testing.T) {
	defer goleak.VerifyNone(t)

	retrier := &fakeRetrier{}
	s := New(Config{Logger: log.New(&bytes.Buffer{}, "", 0), Retrier: retrier, Spec: "@every 1s"})
	require.NoError(t, s.Start())

	assert.Eventually(t, func() bool { return retrier.callCount() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.Stop(ctx)
}
