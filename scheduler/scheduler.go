package scheduler

import (
	"context"
	"fmt"
	"time"

	"flight-price-bot/utils"

	"github.com/robfig/cron/v3"
)

// Job is a unit of scheduled work
type Job func(ctx context.Context)

// Scheduler runs the price check on a fixed interval and the chart report
// once a day at a fixed wall-clock time. Each job skips a tick while its
// previous run is still going; the two jobs do not wait on each other.
type Scheduler struct {
	cron   *cron.Cron
	logger *utils.Logger
	runCtx context.Context

	interval  time.Duration
	hour, min int
	checkID   cron.EntryID
	reportID  cron.EntryID
}

// New registers both jobs; call Run to start them
func New(interval time.Duration, hour, min int, loc *time.Location, check, report Job, logger *utils.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	cl := cronLogger{logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger:   logger,
		runCtx:   context.Background(),
		interval: interval,
		hour:     hour,
		min:      min,
	}

	var err error
	s.checkID, err = s.cron.AddFunc(IntervalSpec(interval), func() { check(s.runCtx) })
	if err != nil {
		return nil, fmt.Errorf("schedule price check: %w", err)
	}
	s.reportID, err = s.cron.AddFunc(DailySpec(hour, min), func() { report(s.runCtx) })
	if err != nil {
		return nil, fmt.Errorf("schedule chart report: %w", err)
	}
	return s, nil
}

// IntervalSpec is the cron spec for the price check
func IntervalSpec(d time.Duration) string {
	return "@every " + d.String()
}

// DailySpec is the cron spec for a daily run at hour:min
func DailySpec(hour, min int) string {
	return fmt.Sprintf("%d %d * * *", min, hour)
}

// Run starts both jobs and blocks until ctx is cancelled, then waits for
// running jobs to return. Run must be called at most once.
func (s *Scheduler) Run(ctx context.Context) error {
	s.runCtx = ctx
	s.cron.Start()
	s.logger.Info("Scheduler started: price check every %s, charts daily at %02d:%02d", s.interval, s.hour, s.min)
	s.logNext()

	<-ctx.Done()
	s.logger.Info("Stopping scheduler...")
	<-s.cron.Stop().Done()
	return ctx.Err()
}

// Next returns when each job fires next; zero times before Run
func (s *Scheduler) Next() (check, report time.Time) {
	return s.cron.Entry(s.checkID).Next, s.cron.Entry(s.reportID).Next
}

func (s *Scheduler) logNext() {
	check, report := s.Next()
	s.logger.Info("Next price check at %s, next charts at %s",
		check.Format(time.RFC3339), report.Format(time.RFC3339))
}

// cronLogger adapts utils.Logger to cron.Logger
type cronLogger struct {
	l *utils.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: %s %v", msg, keysAndValues)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: %s: %v %v", msg, err, keysAndValues)
}
