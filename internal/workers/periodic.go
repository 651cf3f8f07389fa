package workers

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Task is one named step of a periodic job. It returns how many items it handled.
type Task struct {
	Name string
	Run  func(ctx context.Context) (int, error)
}

// Periodic runs its tasks once on start, then on every tick until the context ends.
type Periodic struct {
	Name     string
	Interval time.Duration
	Tasks    []Task
}

func (p Periodic) Start(ctx context.Context) {
	zap.L().Info("Starting worker",
		zap.String("worker", p.Name),
		zap.Duration("interval", p.Interval))

	p.RunOnce(ctx)

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Worker shutting down", zap.String("worker", p.Name))
			return
		case <-ticker.C:
			p.RunOnce(ctx)
		}
	}
}

// RunOnce executes every task in order and reports the per-task counts.
// A failing task is logged and does not stop the following ones.
func (p Periodic) RunOnce(ctx context.Context) map[string]int {
	startTime := time.Now()
	counts := make(map[string]int, len(p.Tasks))
	fields := []zap.Field{zap.String("worker", p.Name)}

	for _, task := range p.Tasks {
		if ctx.Err() != nil {
			break
		}

		count, err := task.Run(ctx)
		if err != nil {
			zap.L().Error("Worker task failed",
				zap.String("worker", p.Name),
				zap.String("task", task.Name),
				zap.Error(err))
		}
		counts[task.Name] = count
		fields = append(fields, zap.Int(task.Name, count))
	}

	fields = append(fields, zap.Duration("duration", time.Since(startTime)))
	zap.L().Info("Worker cycle complete", fields...)
	return counts
}
