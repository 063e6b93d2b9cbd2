package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/ghostwriter/internal/service"
)

const dueSweepTimeout = 5 * time.Minute

// DuePostsJob publishes auto-publish posts whose time has come. It backs up
// the queue and is the only publisher when no queue is configured.
type DuePostsJob struct {
	ps      service.PostService
	running sync.Mutex
}

func NewDuePostsJob(ps service.PostService) *DuePostsJob {
	return &DuePostsJob{ps: ps}
}

// Run is the cron entry point. Overlapping ticks are skipped.
func (j *DuePostsJob) Run() {
	if !j.running.TryLock() {
		slog.Info("due post sweep still running, skipping tick")
		return
	}
	defer j.running.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), dueSweepTimeout)
	defer cancel()

	n, err := j.ps.PublishDue(ctx, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return
	}
	if n > 0 {
		slog.Info("published due posts", "count", n)
	}
}
