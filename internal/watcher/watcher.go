package watcher

import (
	"context"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/OfficialEseosa/panther-watch/config"
	"github.com/OfficialEseosa/panther-watch/internal/banner"
	"github.com/OfficialEseosa/panther-watch/internal/dto"
	"github.com/OfficialEseosa/panther-watch/internal/model"
	"github.com/OfficialEseosa/panther-watch/internal/repository"
	"github.com/OfficialEseosa/panther-watch/pkg/mailer"
)

// notifyCooldown is how long a user waits before being re-mailed about
// the same open section.
const notifyCooldown = 24 * time.Hour

const cycleTimeout = 4 * time.Minute

// mailSender is the slice of mailer.Mailer the watcher needs.
type mailSender interface {
	Enabled() bool
	Send(to, subject, body string) error
}

// Watcher polls the registration system for every tracked section and
// mails watchers when a seat opens with an empty waitlist.
type Watcher struct {
	repo   *repository.Repository
	banner banner.Client
	mail   mailSender
	logger *zap.Logger
	sched  string
	cron   *cron.Cron
}

// New creates the Watcher. Start schedules it; a disabled watcher config
// should simply not call Start.
func New(
	cfg *config.WatcherConfig,
	repo *repository.Repository,
	bannerClient banner.Client,
	mail *mailer.Mailer,
	logger *zap.Logger,
) *Watcher {
	return &Watcher{
		repo:   repo,
		banner: bannerClient,
		mail:   mail,
		logger: logger,
		sched:  cfg.Schedule,
	}
}

// Start schedules the poll cycle and runs one immediately.
func (w *Watcher) Start() error {
	w.cron = cron.New()
	if _, err := w.cron.AddFunc(w.sched, w.runCycle); err != nil {
		return err
	}
	w.cron.Start()
	go w.runCycle()
	return nil
}

// Stop halts scheduling and waits for a running cycle to finish.
func (w *Watcher) Stop() {
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
}

func (w *Watcher) runCycle() {
	ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
	defer cancel()

	start := time.Now()
	pairs, err := w.repo.WatchedClass.ListUniquePairs(ctx)
	if err != nil {
		w.logger.Error("watch cycle: list tracked sections failed", zap.Error(err))
		return
	}
	if len(pairs) == 0 {
		return
	}

	w.logger.Info("watch cycle started", zap.Int("tracked_sections", len(pairs)))

	// One broad search per term covers every tracked CRN in it.
	byTerm := make(map[string]map[string]bool)
	for _, p := range pairs {
		if byTerm[p.Term] == nil {
			byTerm[p.Term] = make(map[string]bool)
		}
		byTerm[p.Term][p.CRN] = true
	}

	notified := 0
	for term, crns := range byTerm {
		sections, err := banner.SearchAll(ctx, w.banner, &dto.CourseSearchRequest{Term: term})
		if err != nil {
			w.logger.Warn("watch cycle: term search failed",
				zap.String("term", term), zap.Error(err))
			continue
		}
		for i := range sections {
			section := &sections[i]
			if !crns[section.CourseReferenceNumber] {
				continue
			}
			if section.WaitCount == 0 && section.SeatsAvailable > 0 {
				notified += w.notifyWatchers(ctx, section)
			}
		}
	}

	w.logger.Info("watch cycle completed",
		zap.Int("notifications", notified),
		zap.Duration("elapsed", time.Since(start)))
}

// notifyWatchers mails every user tracking the section, skipping anyone
// already notified within the cooldown. Returns the number of mails sent.
func (w *Watcher) notifyWatchers(ctx context.Context, section *dto.CourseSection) int {
	if !w.mail.Enabled() {
		return 0
	}

	crn := section.CourseReferenceNumber
	watchers, err := w.repo.WatchedClass.ListByCRNTerm(ctx, crn, section.Term)
	if err != nil {
		w.logger.Error("watch cycle: list watchers failed",
			zap.String("crn", crn), zap.Error(err))
		return 0
	}

	sent := 0
	since := time.Now().Add(-notifyCooldown)
	for i := range watchers {
		wc := &watchers[i]
		if wc.User == nil {
			continue
		}

		recent, err := w.repo.EmailLog.SentRecently(ctx, wc.UserID, crn, section.Term,
			model.EmailKindAvailability, since)
		if err != nil {
			w.logger.Error("watch cycle: notification dedup check failed", zap.Error(err))
			continue
		}
		if recent {
			continue
		}

		name := wc.User.Name
		if name == "" {
			name = strings.SplitN(wc.User.Email, "@", 2)[0]
		}
		subject, body := mailer.SeatAvailabilityBody(
			name, section.CourseTitle, section.Subject, section.CourseNumber, crn, section.Term)
		if err := w.mail.Send(wc.User.Email, subject, body); err != nil {
			w.logger.Error("watch cycle: notification send failed",
				zap.String("recipient", wc.User.Email),
				zap.String("crn", crn),
				zap.Error(err))
			continue
		}

		if err := w.repo.EmailLog.Create(ctx, &model.EmailLog{
			UserID:    &wc.UserID,
			Recipient: wc.User.Email,
			Kind:      model.EmailKindAvailability,
			Subject:   subject,
			CRN:       crn,
			Term:      section.Term,
			SentAt:    time.Now(),
		}); err != nil {
			w.logger.Warn("watch cycle: email log write failed", zap.Error(err))
		}

		w.logger.Info("seat availability notification sent",
			zap.String("recipient", wc.User.Email),
			zap.String("crn", crn),
			zap.String("term", section.Term))
		sent++
	}
	return sent
}
