// Package newsletter implements the recurring job that notifies
// subscribed job seekers about fresh postings in their niches.
package newsletter

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/justsurfingit/Niche-Job-Board/internal/mail"
	"github.com/justsurfingit/Niche-Job-Board/internal/models"
	"github.com/justsurfingit/Niche-Job-Board/internal/xlog"
)

type Broadcaster struct {
	jobs     *models.JobModel
	users    *models.UserModel
	mailer   mail.Mailer
	interval time.Duration
	log      *zap.SugaredLogger
}

func New(jobs *models.JobModel, users *models.UserModel, mailer mail.Mailer, interval time.Duration) *Broadcaster {
	return &Broadcaster{
		jobs:     jobs,
		users:    users,
		mailer:   mailer,
		interval: interval,
		log:      xlog.S(),
	}
}

// Start runs one pass immediately, then one per tick until ctx is
// cancelled. Runs are not guarded against overlap: the schedule
// assumes a pass finishes well inside the interval, and a pass that
// overran could double-send.
func (b *Broadcaster) Start(ctx context.Context) {
	go b.runOnce(ctx)

	ticker := time.NewTicker(b.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				b.log.Info("newsletter broadcaster stopped")
				return
			case <-ticker.C:
				b.runOnce(ctx)
			}
		}
	}()
}

func (b *Broadcaster) runOnce(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, 2*time.Minute)
	defer cancel()
	if err := b.Run(ctx); err != nil {
		b.log.Errorf("newsletter run failed: %v", err)
	}
}

// Run is a single broadcast pass. Per-subscriber send failures are
// logged and skipped; per-posting lookup failures are logged and the
// posting is left unmarked for the next pass. Every posting whose
// subscriber sends were attempted is marked sent in one batched
// statement afterwards, even when some or all of its sends failed, so
// a transport outage can silently lose that run's notifications.
func (b *Broadcaster) Run(ctx context.Context) error {
	postings, err := b.jobs.NewsletterCandidates(ctx)
	if err != nil {
		return err
	}
	if len(postings) == 0 {
		return nil
	}

	b.log.Infof("newsletter: %d fresh posting(s) to broadcast", len(postings))

	var sentIDs []string
	for _, posting := range postings {
		id, _ := posting["id"].(string)
		niche, _ := posting["niche"].(string)

		subscribers, err := b.users.FindSubscribersByNiche(ctx, niche)
		if err != nil {
			b.log.Errorf("newsletter: subscriber lookup failed for posting %s: %v", id, err)
			continue
		}

		delivered := 0
		for _, sub := range subscribers {
			msg := compose(posting, sub)
			if err := b.mailer.Send(ctx, msg); err != nil {
				b.log.Warnf("newsletter: send to %s failed for posting %s: %v", msg.To, id, err)
				continue
			}
			delivered++
		}

		b.log.Infof("newsletter: posting %s delivered to %d/%d subscriber(s)", id, delivered, len(subscribers))
		sentIDs = append(sentIDs, id)
	}

	if len(sentIDs) == 0 {
		return nil
	}
	if err := b.jobs.MarkNewsletterSent(ctx, sentIDs); err != nil {
		return fmt.Errorf("marking postings sent: %w", err)
	}
	return nil
}

func compose(posting, subscriber map[string]any) mail.Message {
	to, _ := subscriber["email"].(string)
	name, _ := subscriber["name"].(string)
	title, _ := posting["title"].(string)
	company, _ := posting["companyName"].(string)
	location, _ := posting["location"].(string)
	niche, _ := posting["niche"].(string)
	jobType, _ := posting["jobType"].(string)
	salary, _ := posting["salary"].(string)

	subject := fmt.Sprintf("New %s opening: %s at %s", niche, title, company)
	body := fmt.Sprintf(
		"Hi %s,\n\nA new job matching your %q niche was just posted.\n\n"+
			"  Role:     %s\n  Company:  %s\n  Location: %s\n  Type:     %s\n  Salary:   %s\n\n"+
			"Log in to apply.\n",
		name, niche, title, company, location, jobType, salary,
	)
	return mail.Message{To: to, Subject: subject, Body: body}
}
