package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/justsurfingit/Niche-Job-Board/internal/apperrors"
	"github.com/justsurfingit/Niche-Job-Board/internal/database"
)

var jobColumns = map[string]string{
	"id":               "id",
	"title":            "title",
	"jobType":          "job_type",
	"location":         "location",
	"companyName":      "company_name",
	"introduction":     "introduction",
	"responsibilities": "responsibilities",
	"qualifications":   "qualifications",
	"offers":           "offers",
	"salary":           "salary",
	"hiringMultiple":   "hiring_multiple",
	"websiteTitle":     "website_title",
	"websiteUrl":       "website_url",
	"niche":            "niche",
	"newsletterSent":   "newsletter_sent",
	"postedBy":         "posted_by",
	"createdAt":        "created_at",
	"updatedAt":        "updated_at",
}

var jobFields = reverse(jobColumns)

// FormatJob renders a storage row as the app-facing record.
func FormatJob(row map[string]any) map[string]any {
	return format(row, jobFields)
}

type JobFilter struct {
	Type     string // exact
	Niche    string // exact
	PostedBy string // exact
	Location string // substring
	Company  string // substring
	Search   string // substring over title
	Limit    int
	Offset   int
}

// conds builds the filter predicates; prefix qualifies column names
// when the query joins other tables.
func (f JobFilter) conds(prefix string) *cond {
	c := &cond{}
	c.eq(prefix+"job_type", f.Type)
	c.eq(prefix+"niche", f.Niche)
	c.eq(prefix+"posted_by", f.PostedBy)
	c.search(f.Location, prefix+"location")
	c.search(f.Company, prefix+"company_name")
	c.search(f.Search, prefix+"title")
	return c
}

type JobModel struct {
	db database.Querier
}

func NewJobModel(db database.Querier) *JobModel {
	return &JobModel{db: db}
}

// Create validates and inserts a posting. The newsletter flag always
// starts false regardless of the payload.
func (m *JobModel) Create(ctx context.Context, data map[string]any) (map[string]any, error) {
	if msgs := ValidateJob(data); len(msgs) > 0 {
		return nil, apperrors.Validation(msgs)
	}

	rec := restrict(translate(data, jobColumns), jobFields)
	now := time.Now().UTC()
	rec["id"] = uuid.NewString()
	rec["newsletter_sent"] = false
	rec["created_at"] = now
	rec["updated_at"] = now

	cols, ph, args := insertClause(rec)
	rows, err := m.db.Query(ctx, "INSERT INTO jobs ("+cols+") VALUES ("+ph+") RETURNING *", args...)
	if err != nil {
		return nil, err
	}
	return FormatJob(rows[0]), nil
}

func (m *JobModel) FindByID(ctx context.Context, id string) (map[string]any, error) {
	rows, err := m.db.Query(ctx, "SELECT * FROM jobs WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return FormatJob(rows[0]), nil
}

func (m *JobModel) Update(ctx context.Context, id string, data map[string]any) (map[string]any, error) {
	rec := restrict(translate(data, jobColumns), jobFields)
	delete(rec, "id")
	delete(rec, "posted_by")
	delete(rec, "newsletter_sent")
	delete(rec, "created_at")
	delete(rec, "updated_at")

	if len(rec) == 0 {
		return nil, apperrors.Validation([]string{"no fields to update"})
	}
	rec["updated_at"] = time.Now().UTC()

	set, args := setClause(rec)
	args = append(args, id)
	q := fmt.Sprintf("UPDATE jobs SET %s WHERE id = $%d RETURNING *", set, len(args))
	rows, err := m.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return FormatJob(rows[0]), nil
}

func (m *JobModel) Delete(ctx context.Context, id string) (map[string]any, error) {
	rows, err := m.db.Query(ctx, "DELETE FROM jobs WHERE id = $1 RETURNING *", id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return FormatJob(rows[0]), nil
}

func (m *JobModel) List(ctx context.Context, f JobFilter) ([]map[string]any, error) {
	c := f.conds("")
	q := "SELECT * FROM jobs" + c.clause() + " ORDER BY created_at DESC" + c.paging(f.Limit, f.Offset)
	rows, err := m.db.Query(ctx, q, c.args...)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, FormatJob(r))
	}
	return out, nil
}

func (m *JobModel) Count(ctx context.Context, f JobFilter) (int64, error) {
	c := f.conds("")
	rows, err := m.db.Query(ctx, "SELECT COUNT(*) AS count FROM jobs"+c.clause(), c.args...)
	if err != nil {
		return 0, err
	}
	return countFrom(rows)
}

// ListWithPoster joins the owning employer onto each posting. The
// nested poster object is only present when the join matched.
func (m *JobModel) ListWithPoster(ctx context.Context, f JobFilter) ([]map[string]any, error) {
	c := f.conds("j.")
	q := "SELECT j.*, u.id AS poster_id, u.name AS poster_name, u.email AS poster_email" +
		" FROM jobs j LEFT JOIN users u ON u.id = j.posted_by" +
		c.clause() + " ORDER BY j.created_at DESC" + c.paging(f.Limit, f.Offset)
	rows, err := m.db.Query(ctx, q, c.args...)
	if err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		poster := nest(r, "poster_", map[string]string{"id": "id", "name": "name", "email": "email"})
		rec := FormatJob(r)
		if poster != nil {
			rec["poster"] = poster
		}
		out = append(out, rec)
	}
	return out, nil
}

// NewsletterCandidates returns unsent postings created within the last
// 24 hours. Older unsent postings are skipped for good; there is no
// retry path for stale rows.
func (m *JobModel) NewsletterCandidates(ctx context.Context) ([]map[string]any, error) {
	cutoff := time.Now().UTC().Add(-24 * time.Hour)
	rows, err := m.db.Query(ctx,
		"SELECT * FROM jobs WHERE newsletter_sent = false AND created_at > $1", cutoff)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, FormatJob(r))
	}
	return out, nil
}

// MarkNewsletterSent flips the sent flag for every given posting in a
// single statement, bounding round trips.
func (m *JobModel) MarkNewsletterSent(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	ph := make([]string, len(ids))
	args := make([]any, 0, len(ids)+1)
	args = append(args, time.Now().UTC())
	for i, id := range ids {
		args = append(args, id)
		ph[i] = fmt.Sprintf("$%d", i+2)
	}
	q := "UPDATE jobs SET newsletter_sent = true, updated_at = $1 WHERE id IN (" + strings.Join(ph, ", ") + ")"
	_, err := m.db.Exec(ctx, q, args...)
	return err
}

// nest extracts alias-prefixed join columns into a sub-object. It
// returns nil when the join produced no row, so callers never fabricate
// an empty nested object.
func nest(row map[string]any, prefix string, fields map[string]string) map[string]any {
	matched := row[prefix+"id"] != nil
	sub := make(map[string]any, len(fields))
	for col, name := range fields {
		v, ok := row[prefix+col]
		if ok {
			delete(row, prefix+col)
		}
		if matched {
			sub[name] = v
		}
	}
	if !matched {
		return nil
	}
	return sub
}
