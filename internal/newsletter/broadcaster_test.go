package newsletter

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/Niche-Job-Board/internal/database"
	"github.com/justsurfingit/Niche-Job-Board/internal/mail"
	"github.com/justsurfingit/Niche-Job-Board/internal/models"
)

// memDB emulates just enough of the storage layer for broadcast runs:
// the candidates query filters on the sent flag and the cutoff
// argument, the subscriber query matches niches exactly, and the
// batched update flips flags.
type memDB struct {
	mu   sync.Mutex
	jobs []map[string]any // column-keyed rows
	subs []map[string]any

	subsErrNiche string // niche whose lookup fails
	markCount    int
}

func (m *memDB) Query(_ context.Context, query string, args ...any) ([]map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case strings.Contains(query, "FROM jobs WHERE newsletter_sent = false"):
		cutoff := args[0].(time.Time)
		var out []map[string]any
		for _, j := range m.jobs {
			if j["newsletter_sent"] == false && j["created_at"].(time.Time).After(cutoff) {
				out = append(out, copyRow(j))
			}
		}
		return out, nil

	case strings.Contains(query, "FROM users WHERE role = $1"):
		niche := args[1].(string)
		if niche == m.subsErrNiche {
			return nil, errors.New("storage hiccup")
		}
		var out []map[string]any
		for _, s := range m.subs {
			if s["niche1"] == niche || s["niche2"] == niche || s["niche3"] == niche {
				out = append(out, copyRow(s))
			}
		}
		return out, nil
	}
	return nil, nil
}

func (m *memDB) Exec(_ context.Context, query string, args ...any) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if strings.Contains(query, "SET newsletter_sent = true") {
		m.markCount++
		ids := map[any]bool{}
		for _, a := range args[1:] {
			ids[a] = true
		}
		for _, j := range m.jobs {
			if ids[j["id"]] {
				j["newsletter_sent"] = true
			}
		}
	}
	return 1, nil
}

func copyRow(r map[string]any) map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// fakeMailer records deliveries and fails for chosen recipients.
type fakeMailer struct {
	mu      sync.Mutex
	sent    []mail.Message
	failFor map[string]bool
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if f.failFor[msg.To] {
		return errors.New("smtp connection refused")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func jobRow(id, niche string, age time.Duration, sent bool) map[string]any {
	return map[string]any{
		"id":              id,
		"title":           "Engineer",
		"company_name":    "Acme Corp",
		"location":        "Remote",
		"job_type":        "FullTime",
		"salary":          "competitive",
		"niche":           niche,
		"newsletter_sent": sent,
		"created_at":      time.Now().UTC().Add(-age),
	}
}

func newTestBroadcaster(db database.Querier, mailer mail.Mailer) *Broadcaster {
	users := models.NewUserModel(db, func(s string) (string, error) { return s, nil })
	jobs := models.NewJobModel(db)
	return New(jobs, users, mailer, time.Minute)
}

func TestRunSendsOnlyWithinWindowAndMatchingNiches(t *testing.T) {
	db := &memDB{
		jobs: []map[string]any{
			jobRow("fresh", "Backend", time.Hour, false),
			jobRow("stale", "Frontend", 25*time.Hour, false),
		},
		subs: []map[string]any{
			sub("none@example.com", "Mobile", "", ""),
			sub("one@example.com", "Backend", "", ""),
			sub("two@example.com", "Backend", "Frontend", ""),
		},
	}
	mailer := &fakeMailer{}
	b := newTestBroadcaster(db, mailer)

	require.NoError(t, b.Run(context.Background()))

	// Only the fresh posting broadcasts, only to the two Backend
	// subscribers.
	require.Len(t, mailer.sent, 2)
	recipients := []string{mailer.sent[0].To, mailer.sent[1].To}
	assert.Contains(t, recipients, "one@example.com")
	assert.Contains(t, recipients, "two@example.com")
	assert.Contains(t, mailer.sent[0].Subject, "Backend")

	// The fresh posting is marked sent; the stale one stays unsent
	// forever (no retry path for stale rows).
	assert.Equal(t, true, db.jobs[0]["newsletter_sent"])
	assert.Equal(t, false, db.jobs[1]["newsletter_sent"])
}

func TestRunSurvivesPerSubscriberSendFailure(t *testing.T) {
	db := &memDB{
		jobs: []map[string]any{jobRow("fresh", "Backend", time.Hour, false)},
		subs: []map[string]any{
			sub("dead@example.com", "Backend", "", ""),
			sub("alive@example.com", "Backend", "", ""),
		},
	}
	mailer := &fakeMailer{failFor: map[string]bool{"dead@example.com": true}}
	b := newTestBroadcaster(db, mailer)

	require.NoError(t, b.Run(context.Background()))

	// The failure is logged and skipped; the remaining subscriber
	// still gets their message and the posting is still marked sent.
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "alive@example.com", mailer.sent[0].To)
	assert.Equal(t, true, db.jobs[0]["newsletter_sent"])
}

func TestRunMarksPostingSentEvenWhenAllSendsFail(t *testing.T) {
	db := &memDB{
		jobs: []map[string]any{jobRow("fresh", "Backend", time.Hour, false)},
		subs: []map[string]any{sub("dead@example.com", "Backend", "", "")},
	}
	mailer := &fakeMailer{failFor: map[string]bool{"dead@example.com": true}}
	b := newTestBroadcaster(db, mailer)

	require.NoError(t, b.Run(context.Background()))

	// A transport outage silently loses this run's notifications.
	assert.Empty(t, mailer.sent)
	assert.Equal(t, true, db.jobs[0]["newsletter_sent"])
}

func TestRunSkipsPostingWhoseLookupFails(t *testing.T) {
	db := &memDB{
		jobs: []map[string]any{
			jobRow("broken", "Cursed", time.Hour, false),
			jobRow("fine", "Backend", time.Hour, false),
		},
		subs:         []map[string]any{sub("one@example.com", "Backend", "", "")},
		subsErrNiche: "Cursed",
	}
	mailer := &fakeMailer{}
	b := newTestBroadcaster(db, mailer)

	require.NoError(t, b.Run(context.Background()))

	// The broken posting is logged and left unmarked; the rest of the
	// run proceeds.
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, false, db.jobs[0]["newsletter_sent"])
	assert.Equal(t, true, db.jobs[1]["newsletter_sent"])
}

func TestRunBatchesTheSentFlagUpdate(t *testing.T) {
	db := &memDB{
		jobs: []map[string]any{
			jobRow("a", "Backend", time.Hour, false),
			jobRow("b", "Backend", 2*time.Hour, false),
			jobRow("c", "Backend", 3*time.Hour, false),
		},
		subs: []map[string]any{sub("one@example.com", "Backend", "", "")},
	}
	mailer := &fakeMailer{}
	b := newTestBroadcaster(db, mailer)

	require.NoError(t, b.Run(context.Background()))

	assert.Len(t, mailer.sent, 3)
	assert.Equal(t, 1, db.markCount, "marking must be one batched statement")
}

// Nothing guards two concurrent passes, so a pass that outlives the
// schedule interval can double-send. This pins that behavior down
// rather than hiding it.
func TestOverlappingRunsCanDoubleSend(t *testing.T) {
	db := &memDB{
		jobs: []map[string]any{jobRow("fresh", "Backend", time.Hour, false)},
		subs: []map[string]any{sub("one@example.com", "Backend", "", "")},
	}

	// Both runs read candidates before either marks them sent.
	gate := &gatedDB{memDB: db, release: make(chan struct{})}
	mailer := &fakeMailer{}
	b := newTestBroadcaster(gate, mailer)

	done := make(chan struct{}, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_ = b.Run(context.Background())
			done <- struct{}{}
		}()
	}
	// Let both goroutines fetch candidates, then let them race on.
	time.Sleep(50 * time.Millisecond)
	close(gate.release)
	<-done
	<-done

	assert.Len(t, mailer.sent, 2, "overlapping runs double-send")
}

// gatedDB holds every Exec until released, so two Runs can interleave
// deterministically.
type gatedDB struct {
	*memDB
	release chan struct{}
}

func (g *gatedDB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	<-g.release
	return g.memDB.Exec(ctx, query, args...)
}

func sub(email, n1, n2, n3 string) map[string]any {
	return map[string]any{
		"role": "JobSeeker", "name": "Sub", "email": email,
		"niche1": n1, "niche2": n2, "niche3": n3,
	}
}
