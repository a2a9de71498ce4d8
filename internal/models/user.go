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

// userColumns is the static translation table between the app-facing
// camelCase representation and the storage columns.
var userColumns = map[string]string{
	"id":          "id",
	"name":        "name",
	"email":       "email",
	"phoneNumber": "phone_number",
	"address":     "address",
	"role":        "role",
	"niche1":      "niche1",
	"niche2":      "niche2",
	"niche3":      "niche3",
	"password":    "password",
	"resumeId":    "resume_id",
	"resumeUrl":   "resume_url",
	"coverLetter": "cover_letter",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

var userFields = reverse(userColumns)

// FormatUser renders a storage row for responses. The password never
// leaves through this path.
func FormatUser(row map[string]any) map[string]any {
	out := format(row, userFields)
	delete(out, "password")
	return out
}

// FormatAuthUser renders a storage row for the authentication path,
// which needs the stored digest to compare credentials.
func FormatAuthUser(row map[string]any) map[string]any {
	return format(row, userFields)
}

// UserFilter holds the optional list predicates. Zero values are
// omitted from the query entirely.
type UserFilter struct {
	Role   string // exact
	Niche  string // exact, matches any of the three tags
	Search string // substring over name/email
	Limit  int
	Offset int
}

func (f UserFilter) conds() *cond {
	c := &cond{}
	c.eq("role", f.Role)
	if f.Niche != "" {
		c.raw("(niche1 = $%[1]d OR niche2 = $%[1]d OR niche3 = $%[1]d)", f.Niche)
	}
	c.search(f.Search, "name", "email")
	return c
}

type UserModel struct {
	db   database.Querier
	hash func(string) (string, error)
}

// NewUserModel wires the storage client and the password hashing
// collaborator.
func NewUserModel(db database.Querier, hash func(string) (string, error)) *UserModel {
	return &UserModel{db: db, hash: hash}
}

// Create validates a signup payload, hashes the password, and inserts
// the row. Employer rows get their niche tags cleared.
func (m *UserModel) Create(ctx context.Context, data map[string]any) (map[string]any, error) {
	if msgs := ValidateUser(data); len(msgs) > 0 {
		return nil, apperrors.Validation(msgs)
	}

	num, err := phone.Parse(data["phoneNumber"])
	if err != nil {
		return nil, apperrors.Validation([]string{err.Error()})
	}

	rec := restrict(translate(data, userColumns), userFields)
	rec["phone_number"] = num

	digest, err := m.hash(strVal(data, "password"))
	if err != nil {
		return nil, err
	}
	rec["password"] = digest

	if strVal(data, "role") == RoleEmployer {
		delete(rec, "niche1")
		delete(rec, "niche2")
		delete(rec, "niche3")
	}

	now := time.Now().UTC()
	rec["id"] = uuid.NewString()
	rec["created_at"] = now
	rec["updated_at"] = now

	cols, ph, args := insertClause(rec)
	rows, err := m.db.Query(ctx, "INSERT INTO users ("+cols+") VALUES ("+ph+") RETURNING *", args...)
	if err != nil {
		return nil, err
	}
	return FormatUser(rows[0]), nil
}

// FindByID returns the response-facing record, or nil when the id does
// not resolve.
func (m *UserModel) FindByID(ctx context.Context, id string) (map[string]any, error) {
	rows, err := m.db.Query(ctx, "SELECT * FROM users WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return FormatUser(rows[0]), nil
}

// FindByEmail is the authentication read path: the stored password
// digest is retained.
func (m *UserModel) FindByEmail(ctx context.Context, email string) (map[string]any, error) {
	rows, err := m.db.Query(ctx, "SELECT * FROM users WHERE email = $1", email)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return FormatAuthUser(rows[0]), nil
}

// Update applies a partial payload: absent keys stay untouched,
// explicit nulls are written as NULL.
func (m *UserModel) Update(ctx context.Context, id string, data map[string]any) (map[string]any, error) {
	rec := restrict(translate(data, userColumns), userFields)
	delete(rec, "id")
	delete(rec, "created_at")
	delete(rec, "updated_at")

	if v, ok := rec["phone_number"]; ok && v != nil {
		num, err := phone.Parse(v)
		if err != nil {
			return nil, apperrors.Validation([]string{err.Error()})
		}
		rec["phone_number"] = num
	}
	if v, ok := rec["password"]; ok && v != nil {
		digest, err := m.hash(fmt.Sprint(v))
		if err != nil {
			return nil, err
		}
		rec["password"] = digest
	}

	if len(rec) == 0 {
		return nil, apperrors.Validation([]string{"no fields to update"})
	}
	rec["updated_at"] = time.Now().UTC()

	set, args := setClause(rec)
	args = append(args, id)
	q := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d RETURNING *", set, len(args))
	rows, err := m.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return FormatUser(rows[0]), nil
}

// Delete removes the row and returns the pre-delete snapshot.
func (m *UserModel) Delete(ctx context.Context, id string) (map[string]any, error) {
	rows, err := m.db.Query(ctx, "DELETE FROM users WHERE id = $1 RETURNING *", id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return FormatUser(rows[0]), nil
}

// List returns matching users, newest first.
func (m *UserModel) List(ctx context.Context, f UserFilter) ([]map[string]any, error) {
	c := f.conds()
	q := "SELECT * FROM users" + c.clause() + " ORDER BY created_at DESC" + c.paging(f.Limit, f.Offset)
	rows, err := m.db.Query(ctx, q, c.args...)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, FormatUser(r))
	}
	return out, nil
}

// Count returns the number of matching users, ignoring paging.
func (m *UserModel) Count(ctx context.Context, f UserFilter) (int64, error) {
	c := f.conds()
	rows, err := m.db.Query(ctx, "SELECT COUNT(*) AS count FROM users"+c.clause(), c.args...)
	if err != nil {
		return 0, err
	}
	return countFrom(rows)
}

// FindSubscribersByNiche returns job seekers whose any of the three
// niche tags equals the posting's niche. Exact, case-sensitive match.
func (m *UserModel) FindSubscribersByNiche(ctx context.Context, niche string) ([]map[string]any, error) {
	q := "SELECT * FROM users WHERE role = $1 AND (niche1 = $2 OR niche2 = $2 OR niche3 = $2)"
	rows, err := m.db.Query(ctx, q, RoleJobSeeker, niche)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, FormatUser(r))
	}
	return out, nil
}

// restrict drops keys that are not known columns, so payloads can
// never smuggle arbitrary identifiers into the SQL text.
func restrict(rec map[string]any, fields map[string]string) map[string]any {
	for k := range rec {
		if _, ok := fields[k]; !ok {
			delete(rec, k)
		}
	}
	return rec
}

func countFrom(rows []map[string]any) (int64, error) {
	if len(rows) == 0 {
		return 0, fmt.Errorf("count query returned no rows")
	}
	switch n := rows[0]["count"].(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("unexpected count type %T", rows[0]["count"])
	}
}
