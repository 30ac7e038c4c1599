package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	log "github.com/sirupsen/logrus"

	"github.com/i474232898/weather-station-report/internal/weather"
)

const loadTimeout = 2 * time.Minute

// Loader is implemented by weather.Service.
type Loader interface {
	Load(ctx context.Context) (weather.Dataset, error)
}

// Scheduler periodically reloads the station data source.
type Scheduler struct {
	scheduler *gocron.Scheduler
	loader    Loader
	interval  time.Duration
}

// New creates a new Scheduler.
func New(interval time.Duration, loader Loader) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		loader:    loader,
		interval:  interval,
	}
}

// Start schedules the reload job and starts the underlying scheduler.
// The first run happens one interval after Start; the caller loads up front.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Infof("scheduler: reload disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.reload)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	log.Infof("scheduler: reloading station data every %s", s.interval)
	return nil
}

func (s *Scheduler) reload() {
	log.Debugf("scheduler: running reload job")

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	if _, err := s.loader.Load(ctx); err != nil {
		log.Errorf("scheduler: reload failed, keeping previous dataset: %v", err)
		return
	}
	log.Debugf("scheduler: completed reload job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
