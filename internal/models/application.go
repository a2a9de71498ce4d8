package models

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/justsurfingit/Niche-Job-Board/internal/apperrors"
	"github.com/justsurfingit/Niche-Job-Board/internal/database"
	"github.com/justsurfingit/Niche-Job-Board/internal/phone"
)

var applicationColumns = map[string]string{
	"id":                 "id",
	"jobId":              "job_id",
	"jobSeekerId":        "job_seeker_id",
	"employerId":         "employer_id",
	"jobTitle":           "job_title",
	"jobSeekerName":      "job_seeker_name",
	"jobSeekerEmail":     "job_seeker_email",
	"jobSeekerPhone":     "job_seeker_phone",
	"jobSeekerAddress":   "job_seeker_address",
	"coverLetter":        "cover_letter",
	"resumeId":           "resume_id",
	"resumeUrl":          "resume_url",
	"deletedByJobSeeker": "deleted_by_job_seeker",
	"deletedByEmployer":  "deleted_by_employer",
	"createdAt":          "created_at",
	"updatedAt":          "updated_at",
}

var applicationFields = reverse(applicationColumns)

func FormatApplication(row map[string]any) map[string]any {
	return format(row, applicationFields)
}

// Party identifies which side of an application is acting.
type Party string

const (
	PartyJobSeeker Party = "jobSeeker"
	PartyEmployer  Party = "employer"
)

type ApplicationFilter struct {
	JobID       string
	JobSeekerID string // also hides rows the job seeker soft-deleted
	EmployerID  string // also hides rows the employer soft-deleted
	Limit       int
	Offset      int
}

func (f ApplicationFilter) conds(prefix string) *cond {
	c := &cond{}
	c.eq(prefix+"job_id", f.JobID)
	if f.JobSeekerID != "" {
		c.eq(prefix+"job_seeker_id", f.JobSeekerID)
		c.lit(prefix + "deleted_by_job_seeker = false")
	}
	if f.EmployerID != "" {
		c.eq(prefix+"employer_id", f.EmployerID)
		c.lit(prefix + "deleted_by_employer = false")
	}
	return c
}

type ApplicationModel struct {
	db database.Querier
}

func NewApplicationModel(db database.Querier) *ApplicationModel {
	return &ApplicationModel{db: db}
}

// Create validates and inserts an application. A pre-check rejects a
// second active application for the same (job seeker, job) pair. The
// check is read-then-write and therefore racy under concurrent
// duplicate submissions; that is an accepted property of this domain.
func (m *ApplicationModel) Create(ctx context.Context, data map[string]any) (map[string]any, error) {
	if msgs := ValidateApplication(data); len(msgs) > 0 {
		return nil, apperrors.Validation(msgs)
	}

	existing, err := m.FindExisting(ctx, strVal(data, "jobSeekerId"), strVal(data, "jobId"))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("you have already applied to this job")
	}

	num, err := phone.Parse(data["jobSeekerPhone"])
	if err != nil {
		return nil, apperrors.Validation([]string{err.Error()})
	}

	rec := restrict(translate(data, applicationColumns), applicationFields)
	rec["job_seeker_phone"] = num

	now := time.Now().UTC()
	rec["id"] = uuid.NewString()
	rec["deleted_by_job_seeker"] = false
	rec["deleted_by_employer"] = false
	rec["created_at"] = now
	rec["updated_at"] = now

	cols, ph, args := insertClause(rec)
	rows, err := m.db.Query(ctx, "INSERT INTO applications ("+cols+") VALUES ("+ph+") RETURNING *", args...)
	if err != nil {
		return nil, err
	}
	return FormatApplication(rows[0]), nil
}

func (m *ApplicationModel) FindByID(ctx context.Context, id string) (map[string]any, error) {
	rows, err := m.db.Query(ctx, "SELECT * FROM applications WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return FormatApplication(rows[0]), nil
}

// FindExisting returns the active application for a (job seeker, job)
// pair. A row either party has soft-deleted no longer blocks a new
// application.
func (m *ApplicationModel) FindExisting(ctx context.Context, jobSeekerID, jobID string) (map[string]any, error) {
	q := "SELECT * FROM applications WHERE job_seeker_id = $1 AND job_id = $2" +
		" AND deleted_by_job_seeker = false AND deleted_by_employer = false"
	rows, err := m.db.Query(ctx, q, jobSeekerID, jobID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return FormatApplication(rows[0]), nil
}

func (m *ApplicationModel) Update(ctx context.Context, id string, data map[string]any) (map[string]any, error) {
	rec := restrict(translate(data, applicationColumns), applicationFields)
	delete(rec, "id")
	delete(rec, "job_id")
	delete(rec, "job_seeker_id")
	delete(rec, "employer_id")
	delete(rec, "created_at")
	delete(rec, "updated_at")

	if len(rec) == 0 {
		return nil, apperrors.Validation([]string{"no fields to update"})
	}
	rec["updated_at"] = time.Now().UTC()

	set, args := setClause(rec)
	args = append(args, id)
	q := fmt.Sprintf("UPDATE applications SET %s WHERE id = $%d RETURNING *", set, len(args))
	rows, err := m.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return FormatApplication(rows[0]), nil
}

// SoftDelete hides the application from one party's view. Once both
// parties have deleted it the row is removed for real.
func (m *ApplicationModel) SoftDelete(ctx context.Context, id string, party Party) (map[string]any, error) {
	var col string
	switch party {
	case PartyJobSeeker:
		col = "deleted_by_job_seeker"
	case PartyEmployer:
		col = "deleted_by_employer"
	default:
		return nil, fmt.Errorf("unknown party %q", party)
	}

	q := fmt.Sprintf("UPDATE applications SET %s = true, updated_at = $1 WHERE id = $2 RETURNING *", col)
	rows, err := m.db.Query(ctx, q, time.Now().UTC(), id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	row := rows[0]
	bySeeker, _ := row["deleted_by_job_seeker"].(bool)
	byEmployer, _ := row["deleted_by_employer"].(bool)
	if bySeeker && byEmployer {
		if _, err := m.db.Exec(ctx, "DELETE FROM applications WHERE id = $1", id); err != nil {
			return nil, err
		}
	}
	return FormatApplication(row), nil
}

// Delete hard-deletes, returning the pre-delete snapshot.
func (m *ApplicationModel) Delete(ctx context.Context, id string) (map[string]any, error) {
	rows, err := m.db.Query(ctx, "DELETE FROM applications WHERE id = $1 RETURNING *", id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return FormatApplication(rows[0]), nil
}

func (m *ApplicationModel) List(ctx context.Context, f ApplicationFilter) ([]map[string]any, error) {
	c := f.conds("")
	q := "SELECT * FROM applications" + c.clause() + " ORDER BY created_at DESC" + c.paging(f.Limit, f.Offset)
	rows, err := m.db.Query(ctx, q, c.args...)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, FormatApplication(r))
	}
	return out, nil
}

func (m *ApplicationModel) Count(ctx context.Context, f ApplicationFilter) (int64, error) {
	c := f.conds("")
	rows, err := m.db.Query(ctx, "SELECT COUNT(*) AS count FROM applications"+c.clause(), c.args...)
	if err != nil {
		return 0, err
	}
	return countFrom(rows)
}

// ListWithDetails joins the job and both parties onto each
// application. Nested objects appear only where the join matched.
func (m *ApplicationModel) ListWithDetails(ctx context.Context, f ApplicationFilter) ([]map[string]any, error) {
	c := f.conds("a.")
	q := "SELECT a.*," +
		" j.id AS job_id_j, j.title AS job_title_j, j.company_name AS job_company_name, j.location AS job_location," +
		" s.id AS seeker_id, s.name AS seeker_name, s.email AS seeker_email," +
		" e.id AS employer_id_e, e.name AS employer_name, e.email AS employer_email" +
		" FROM applications a" +
		" LEFT JOIN jobs j ON j.id = a.job_id" +
		" LEFT JOIN users s ON s.id = a.job_seeker_id" +
		" LEFT JOIN users e ON e.id = a.employer_id" +
		c.clause() + " ORDER BY a.created_at DESC" + c.paging(f.Limit, f.Offset)
	rows, err := m.db.Query(ctx, q, c.args...)
	if err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		job := nestAliased(r, map[string]string{
			"job_id_j": "id", "job_title_j": "title", "job_company_name": "companyName", "job_location": "location",
		}, "job_id_j")
		seeker := nestAliased(r, map[string]string{
			"seeker_id": "id", "seeker_name": "name", "seeker_email": "email",
		}, "seeker_id")
		employer := nestAliased(r, map[string]string{
			"employer_id_e": "id", "employer_name": "name", "employer_email": "email",
		}, "employer_id_e")

		rec := FormatApplication(r)
		if job != nil {
			rec["job"] = job
		}
		if seeker != nil {
			rec["jobSeeker"] = seeker
		}
		if employer != nil {
			rec["employer"] = employer
		}
		out = append(out, rec)
	}
	return out, nil
}

// nestAliased pulls explicitly aliased join columns into a sub-object,
// keyed by the alias marking whether the join matched.
func nestAliased(row map[string]any, aliases map[string]string, idAlias string) map[string]any {
	matched := row[idAlias] != nil
	sub := make(map[string]any, len(aliases))
	for alias, name := range aliases {
		v, ok := row[alias]
		if ok {
			delete(row, alias)
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
