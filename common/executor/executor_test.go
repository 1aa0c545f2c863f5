package executor

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/zeromicro/go-zero/core/logx"
)

func TestExecutor(t *testing.T) {
	var sum int64
	executor := NewExecutor[int](context.Background(), 2, 100, func(task int) {
		logx.Infof("Running %d", task)
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt64(&sum, int64(task))
	})
	executor.Start()
	defer executor.Stop()
	for i := 0; i < 20; i++ {
		assert.True(t, executor.Commit(i))
	}
	assert.NoError(t, executor.Wait())
	assert.Equal(t, int64(190), atomic.LoadInt64(&sum))
}

func TestExecutor_recoversPanic(t *testing.T) {
	var ran int64
	executor := NewExecutor[int](context.Background(), 1, 4, func(task int) {
		if task == 0 {
			panic("boom")
		}
		atomic.AddInt64(&ran, 1)
	})
	executor.Start()
	defer executor.Stop()
	executor.Commit(0)
	executor.Commit(1)
	assert.NoError(t, executor.Wait())
	assert.Equal(t, int64(1), atomic.LoadInt64(&ran))
}

func TestExecutor_stopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	executor := NewExecutor[int](ctx, 1, 1, func(task int) {})
	cancel()
	assert.False(t, executor.Commit(1))
	assert.Equal(t, 0, executor.QueueSize())
}
