package models

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/Niche-Job-Board/internal/apperrors"
)

func jobPayload() map[string]any {
	return map[string]any{
		"title":          "Senior Backend Engineer",
		"jobType":        JobTypeFullTime,
		"location":       "Bengaluru",
		"companyName":    "Acme Corp",
		"salary":         "30-40 LPA",
		"hiringMultiple": "No",
		"niche":          "Backend",
		"postedBy":       "emp-1",
	}
}

func jobRow() map[string]any {
	return map[string]any{
		"id":              "j-1",
		"title":           "Senior Backend Engineer",
		"job_type":        JobTypeFullTime,
		"location":        "Bengaluru",
		"company_name":    "Acme Corp",
		"salary":          "30-40 LPA",
		"hiring_multiple": "No",
		"niche":           "Backend",
		"newsletter_sent": false,
		"posted_by":       "emp-1",
		"created_at":      time.Now(),
		"updated_at":      time.Now(),
	}
}

func TestJobCreateForcesNewsletterFlagFalse(t *testing.T) {
	db := &fakeDB{rows: [][]map[string]any{{jobRow()}}}
	m := NewJobModel(db)

	data := jobPayload()
	data["newsletterSent"] = true // clients cannot pre-mark a posting

	_, err := m.Create(context.Background(), data)
	require.NoError(t, err)

	q := db.lastQuery()
	args := db.lastArgs()
	assert.Contains(t, q, "newsletter_sent")
	assert.Contains(t, args, false)
	assert.NotContains(t, args, true)
}

func TestJobCreateValidation(t *testing.T) {
	db := &fakeDB{}
	m := NewJobModel(db)

	_, err := m.Create(context.Background(), map[string]any{
		"title":          "DevOps Engineer",
		"jobType":        "Contract", // bad enum
		"hiringMultiple": "Maybe",    // bad enum
	})

	var ae *apperrors.AppError
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Details[0], "job type")
	assert.GreaterOrEqual(t, len(ae.Details), 5)
	assert.Empty(t, db.queries)
}

func TestJobListFilterCombinations(t *testing.T) {
	db := &fakeDB{}
	m := NewJobModel(db)

	_, err := m.List(context.Background(), JobFilter{})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM jobs ORDER BY created_at DESC", db.lastQuery())

	_, err = m.List(context.Background(), JobFilter{Type: JobTypePartTime, Location: "pune", Search: "engineer"})
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT * FROM jobs WHERE job_type = $1 AND location ILIKE $2 AND title ILIKE $3 ORDER BY created_at DESC",
		db.lastQuery())
	assert.Equal(t, []any{JobTypePartTime, "%pune%", "%engineer%"}, db.lastArgs())
}

func TestNewsletterCandidatesWindow(t *testing.T) {
	db := &fakeDB{}
	m := NewJobModel(db)

	before := time.Now().UTC().Add(-24 * time.Hour)
	_, err := m.NewsletterCandidates(context.Background())
	after := time.Now().UTC().Add(-24 * time.Hour)
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT * FROM jobs WHERE newsletter_sent = false AND created_at > $1",
		db.lastQuery())

	cutoff, ok := db.lastArgs()[0].(time.Time)
	require.True(t, ok)
	// The window is rolling: exactly 24 hours back from the query time.
	assert.False(t, cutoff.Before(before))
	assert.False(t, cutoff.After(after))
}

func TestMarkNewsletterSentIsOneBatchedStatement(t *testing.T) {
	db := &fakeDB{}
	m := NewJobModel(db)

	err := m.MarkNewsletterSent(context.Background(), []string{"j-1", "j-2", "j-3"})
	require.NoError(t, err)

	require.Len(t, db.execs, 1)
	assert.Equal(t,
		"UPDATE jobs SET newsletter_sent = true, updated_at = $1 WHERE id IN ($2, $3, $4)",
		db.execs[0])
	assert.Equal(t, []any{"j-1", "j-2", "j-3"}, db.execArg[0][1:])
}

func TestMarkNewsletterSentEmptyIsNoop(t *testing.T) {
	db := &fakeDB{}
	m := NewJobModel(db)

	require.NoError(t, m.MarkNewsletterSent(context.Background(), nil))
	assert.Empty(t, db.execs)
}

func TestListWithPosterNestsOnlyOnMatch(t *testing.T) {
	matched := jobRow()
	matched["poster_id"] = "emp-1"
	matched["poster_name"] = "Acme HR"
	matched["poster_email"] = "hr@acme.example"

	orphan := jobRow()
	orphan["id"] = "j-2"
	orphan["poster_id"] = nil
	orphan["poster_name"] = nil
	orphan["poster_email"] = nil

	db := &fakeDB{rows: [][]map[string]any{{matched, orphan}}}
	m := NewJobModel(db)

	out, err := m.ListWithPoster(context.Background(), JobFilter{Niche: "Backend"})
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Contains(t, db.lastQuery(), "LEFT JOIN users u ON u.id = j.posted_by")
	assert.Contains(t, db.lastQuery(), "WHERE j.niche = $1")

	poster, ok := out[0]["poster"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Acme HR", poster["name"])

	// No match: the nested object must not be fabricated.
	_, hasPoster := out[1]["poster"]
	assert.False(t, hasPoster)
	assert.NotContains(t, out[1], "poster_name")
}

func TestJobUpdateProtectsSystemColumns(t *testing.T) {
	db := &fakeDB{rows: [][]map[string]any{{jobRow()}}}
	m := NewJobModel(db)

	_, err := m.Update(context.Background(), "j-1", map[string]any{
		"title":          "Staff Engineer",
		"newsletterSent": true,
		"postedBy":       "someone-else",
	})
	require.NoError(t, err)

	q := db.lastQuery()
	assert.Equal(t, "UPDATE jobs SET title = $1, updated_at = $2 WHERE id = $3 RETURNING *", q)
}
