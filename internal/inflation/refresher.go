package inflation

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Refresher re-fetches the cached series on a cron schedule
type Refresher struct {
	cache   *CachingProvider
	cron    *cron.Cron
	timeout time.Duration
	log     *logrus.Logger
}

// NewRefresher schedules cache refreshes. The schedule uses the standard
// five-field cron format or descriptors such as "@hourly".
func NewRefresher(cache *CachingProvider, schedule string, timeout time.Duration, log *logrus.Logger) (*Refresher, error) {
	r := &Refresher{
		cache:   cache,
		cron:    cron.New(),
		timeout: timeout,
		log:     log,
	}
	if _, err := r.cron.AddFunc(schedule, r.run); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	return r, nil
}

// Start runs the scheduler in the background
func (r *Refresher) Start() {
	r.cron.Start()
	r.log.Infof("Inflation refresh scheduled, next run at %s", r.cron.Entries()[0].Next.Format(time.RFC3339))
}

// Stop stops the scheduler and waits for a running refresh to finish
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Refresher) run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	series, err := r.cache.Refresh(ctx)
	if err != nil {
		r.log.Warnf("Scheduled inflation refresh failed: %v", err)
		return
	}
	r.log.Infof("Scheduled inflation refresh loaded %d months", series.Len())
}
