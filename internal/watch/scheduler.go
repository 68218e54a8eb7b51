package watch

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/mdqrcode/internal/foundation/errors"
	"git.home.luguber.info/inful/mdqrcode/internal/logfields"
)

// rescanScheduler requests a full directory pass at a fixed interval. It
// catches changes fsnotify misses, such as edits on network mounts.
type rescanScheduler struct {
	scheduler gocron.Scheduler
	requests  chan struct{}
}

func newRescanScheduler(interval time.Duration) (*rescanScheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to create rescan scheduler").Build()
	}

	rs := &rescanScheduler{scheduler: s, requests: make(chan struct{}, 1)}
	if _, err := s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(rs.request),
		gocron.WithName("rescan"),
	); err != nil {
		_ = s.Shutdown()
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to schedule rescan").
			WithContext("interval", interval.String()).
			Build()
	}
	return rs, nil
}

// request never blocks; a pending request absorbs later ones.
func (rs *rescanScheduler) request() {
	select {
	case rs.requests <- struct{}{}:
	default:
	}
}

func (rs *rescanScheduler) start() { rs.scheduler.Start() }

func (rs *rescanScheduler) stop() {
	if err := rs.scheduler.Shutdown(); err != nil {
		slog.Warn("Failed to stop rescan scheduler", logfields.Error(err))
	}
}
