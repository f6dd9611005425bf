package client

import (
	"context"
	"time"
)

// Run 启动采样循环，直到 ctx 取消；周期可在运行中调整
func (s *Sampler) Run(ctx context.Context) {
	interval := s.Interval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	Log.Infof("input sampler started: interval=%s", interval)
	for {
		select {
		case <-ctx.Done():
			Log.Info("input sampler stopped")
			return
		case <-ticker.C:
			s.Tick()
			if next := s.Interval(); next != interval {
				interval = next
				ticker.Reset(interval)
				Log.Infof("input sampler interval -> %s", interval)
			}
		}
	}
}
