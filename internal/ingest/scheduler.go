package ingest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/tayar/pkg/logger"
)

// Runner 由 Pipeline 实现
type Runner interface {
	Run(ctx context.Context) (*RunReport, error)
}

// Scheduler 启动后延迟 initialDelay 跑第一次，interval > 0 时之后周期执行
type Scheduler struct {
	runner       Runner
	initialDelay time.Duration
	interval     time.Duration
}

func NewScheduler(runner Runner, initialDelay, interval time.Duration) *Scheduler {
	return &Scheduler{runner: runner, initialDelay: initialDelay, interval: interval}
}

// Start 启动后台调度；返回停止函数，会等待正在进行的抓取退出
func (s *Scheduler) Start() func(context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.loop(ctx)
	}()
	return func(stopCtx context.Context) error {
		cancel()
		select {
		case <-done:
			return nil
		case <-stopCtx.Done():
			return stopCtx.Err()
		}
	}
}

func (s *Scheduler) loop(ctx context.Context) {
	timer := time.NewTimer(s.initialDelay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		if _, err := s.runner.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("scheduled ingest run failed", zap.Error(err))
		}
		if s.interval <= 0 {
			return
		}
		timer.Reset(s.interval)
	}
}
