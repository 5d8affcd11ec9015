package scheduler

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Job is the callable entry point of a scheduled job. A returned error is
// logged by the scheduler and does not stop the job.
type Job func(ctx context.Context) error

// Scheduler runs named periodic jobs. The first run happens one full period
// after registration; there is no immediate first run.
type Scheduler struct {
	stopOnce sync.Once
	stop     chan struct{}
	wg       sync.WaitGroup
}

func New() *Scheduler {
	return &Scheduler{stop: make(chan struct{})}
}

// Schedule registers a job and starts its timer goroutine. The job stops
// when the context is cancelled or the scheduler is stopped.
func (s *Scheduler) Schedule(ctx context.Context, name string, period time.Duration, job Job) {
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(period)
		defer ticker.Stop()

		log.Infof("Scheduled job %s with period %s", name, period)
		for {
			select {
			case <-ctx.Done():
				log.Infof("Job %s stopping: %v", name, ctx.Err())
				return
			case <-s.stop:
				log.Infof("Job %s stopping", name)
				return
			case <-ticker.C:
				if ctx.Err() != nil {
					log.Infof("Job %s stopping: %v", name, ctx.Err())
					return
				}
				if err := job(ctx); err != nil {
					log.Errorf("Job %s failed: %v", name, err)
				}
			}
		}
	}()
}

// Stop halts all jobs and waits for their goroutines to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.wg.Wait()
}
