// internal/app/watch_service.go
package app

import (
	"context"
	"time"

	"visa_slot_watcher/internal/domain/schedule"
	domainTelegram "visa_slot_watcher/internal/domain/telegram"
	"visa_slot_watcher/internal/domain/watchrequest"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// maxListedSlots caps the slots listed in one earlier-slot notification.
const maxListedSlots = 5

// WatchService runs the month sweep and the request sweep against a schedule computed once at construction.
type WatchService struct {
	repo     watchrequest.Repository
	notifier domainTelegram.Notifier
	rules    schedule.Rules
	schedule *schedule.Schedule
	months   []time.Time
	location string
	pacer    *rate.Limiter
	logger   *logrus.Entry
}

func NewWatchService(
	repo watchrequest.Repository,
	notifier domainTelegram.Notifier,
	rules schedule.Rules,
	location string,
	notifyDelay time.Duration, // minimum spacing between two notifications
	logger *logrus.Entry,
) *WatchService {
	limit := rate.Inf
	if notifyDelay > 0 {
		limit = rate.Every(notifyDelay)
	}
	return &WatchService{
		repo:     repo,
		notifier: notifier,
		rules:    rules,
		schedule: schedule.Generate(rules),
		months:   schedule.MonthCursor(rules.Start, rules.End),
		location: location,
		pacer:    rate.NewLimiter(limit, 1),
		logger:   logger,
	}
}

// Schedule exposes the precomputed availability.
func (s *WatchService) Schedule() *schedule.Schedule { return s.schedule }

// RunCycle performs one month sweep followed by one request sweep.
// Only cancellation of ctx is returned as an error; every other failure is logged.
func (s *WatchService) RunCycle(ctx context.Context) error {
	log := s.logger.WithField("cycle_id", uuid.NewString())
	ctx = withLogger(ctx, log)
	log.Info("--- Starting new full cycle check ---")

	if err := s.SweepMonths(ctx, schedule.NewSeenSlots()); err != nil {
		return err
	}
	if err := s.SweepRequests(ctx); err != nil {
		return err
	}

	log.Info("--- Full cycle complete ---")
	return nil
}

// SweepMonths announces the availability status of every month in range.
// seen must be fresh for each cycle.
func (s *WatchService) SweepMonths(ctx context.Context, seen schedule.SeenSlots) error {
	log := s.loggerFrom(ctx).WithField("phase", "months")
	log.Info("Running global slot checker")

	for _, month := range s.months {
		if err := s.pacer.Wait(ctx); err != nil {
			return err
		}
		s.CheckMonth(ctx, month, seen)
	}
	return nil
}

// CheckMonth reports on a single month and returns the slots announced as new.
func (s *WatchService) CheckMonth(ctx context.Context, month time.Time, seen schedule.SeenSlots) []time.Time {
	monthName := month.Format("January 2006")
	log := s.loggerFrom(ctx).WithField("month", monthName)

	if s.rules.IsUnavailable(month) {
		if err := s.notifier.Notify(ctx, formatUnavailableMonth(month, s.location)); err != nil {
			log.WithError(err).Error("Failed to send month status notification")
			return nil
		}
		log.Info("Sent update: no slots")
		return nil
	}

	slots := s.schedule.InMonth(month.Year(), month.Month())
	fresh := seen.Unseen(slots)
	seen.Mark(slots)

	if len(fresh) == 0 {
		log.Info("Slots previously found in this cycle")
		return nil
	}

	if err := s.notifier.Notify(ctx, formatNewSlots(month, s.location, fresh)); err != nil {
		log.WithError(err).Error("Failed to send new slots notification")
		return fresh
	}
	log.WithField("slots", len(fresh)).Info("New slots detected and alert sent")
	return fresh
}

// SweepRequests re-evaluates every stored watch request against the schedule.
// A store failure aborts this sweep only.
func (s *WatchService) SweepRequests(ctx context.Context) error {
	log := s.loggerFrom(ctx).WithField("phase", "requests")
	log.Info("Running account monitor (earlier slot checker)")

	requests, err := s.repo.ListAll(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.WithError(err).Error("CRITICAL: failed to query watch requests, aborting request sweep for this cycle")
		return nil
	}
	if len(requests) == 0 {
		log.Info("No accounts in database.")
		return nil
	}

	log.Infof("Checking %d account(s)...", len(requests))
	for _, req := range requests {
		if err := s.pacer.Wait(ctx); err != nil {
			return err
		}
		s.CheckRequest(ctx, req)
	}
	return nil
}

// CheckRequest looks for schedule dates strictly earlier than the request's reference date.
// It returns the qualifying dates; a request with a malformed target window yields nil.
func (s *WatchService) CheckRequest(ctx context.Context, req *watchrequest.WatchRequest) []time.Time {
	log := s.loggerFrom(ctx).WithFields(logrus.Fields{
		"unique_id": req.UniqueID,
		"name":      req.FullName(),
	})

	ref, err := req.ReferenceDate()
	if err != nil {
		log.WithError(err).Error("[DATA ERROR] Failed to parse target window, skipping request")
		return nil
	}

	earlier := s.schedule.Before(ref)
	if len(earlier) == 0 {
		log.Infof("No earlier slot yet (searching before %s)", ref.Format(dateLayout))
		return nil
	}

	if err := s.notifier.Notify(ctx, formatEarlierSlots(req, ref, earlier)); err != nil {
		log.WithError(err).Error("Failed to send earlier slot notification")
		return earlier
	}
	log.WithField("slots", len(earlier)).Info("EARLIER SLOT FOUND, notification sent")
	return earlier
}

type loggerKey struct{}

func withLogger(ctx context.Context, log *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey{}, log)
}

func (s *WatchService) loggerFrom(ctx context.Context) *logrus.Entry {
	if log, ok := ctx.Value(loggerKey{}).(*logrus.Entry); ok {
		return log
	}
	return s.logger
}
