package models

import (
	"fmt"
	"net/mail"

	"github.com/justsurfingit/Niche-Job-Board/internal/phone"
)

// violations accumulates every broken rule so the caller can report
// all problems in one response instead of failing on the first.
type violations struct {
	msgs []string
}

func (v *violations) addf(format string, args ...any) {
	v.msgs = append(v.msgs, fmt.Sprintf(format, args...))
}

// require checks presence and returns whether the field was there, so
// follow-up rules can be skipped for missing fields.
func (v *violations) require(data map[string]any, key, label string) bool {
	if !present(data, key) {
		v.addf("%s is required", label)
		return false
	}
	return true
}

func (v *violations) length(data map[string]any, key, label string, min, max int) {
	s := strVal(data, key)
	if s == "" {
		return
	}
	if len(s) < min || len(s) > max {
		v.addf("%s must be between %d and %d characters", label, min, max)
	}
}

func (v *violations) oneOf(data map[string]any, key, label string, allowed ...string) {
	s := strVal(data, key)
	if s == "" {
		return
	}
	for _, a := range allowed {
		if s == a {
			return
		}
	}
	v.addf("%s must be one of %v", label, allowed)
}

func (v *violations) email(data map[string]any, key, label string) {
	s := strVal(data, key)
	if s == "" {
		return
	}
	if _, err := mail.ParseAddress(s); err != nil {
		v.addf("%s must be a valid email address", label)
	}
}

func (v *violations) phone(data map[string]any, key, label string) {
	if !present(data, key) {
		return
	}
	if _, err := phone.Parse(data[key]); err != nil {
		v.addf("%s: %s", label, err.Error())
	}
}

const (
	RoleJobSeeker = "JobSeeker"
	RoleEmployer  = "Employer"

	JobTypeFullTime = "FullTime"
	JobTypePartTime = "PartTime"
)

// ValidateUser checks a signup payload and returns every violated rule.
func ValidateUser(data map[string]any) []string {
	var v violations

	if v.require(data, "name", "name") {
		v.length(data, "name", "name", 3, 30)
	}
	if v.require(data, "email", "email") {
		v.email(data, "email", "email")
	}
	if v.require(data, "phoneNumber", "phone number") {
		v.phone(data, "phoneNumber", "phone number")
	}
	v.require(data, "address", "address")
	if v.require(data, "role", "role") {
		v.oneOf(data, "role", "role", RoleJobSeeker, RoleEmployer)
	}
	if v.require(data, "password", "password") {
		v.length(data, "password", "password", 6, 72)
	}

	// Job seekers subscribe with exactly three niche tags.
	if strVal(data, "role") == RoleJobSeeker {
		v.require(data, "niche1", "first niche")
		v.require(data, "niche2", "second niche")
		v.require(data, "niche3", "third niche")
	}

	return v.msgs
}

// ValidateJob checks a job posting payload.
func ValidateJob(data map[string]any) []string {
	var v violations

	if v.require(data, "title", "title") {
		v.length(data, "title", "title", 3, 100)
	}
	if v.require(data, "jobType", "job type") {
		v.oneOf(data, "jobType", "job type", JobTypeFullTime, JobTypePartTime)
	}
	v.require(data, "location", "location")
	v.require(data, "companyName", "company name")
	if v.require(data, "hiringMultiple", "hiring multiple") {
		v.oneOf(data, "hiringMultiple", "hiring multiple", "Yes", "No")
	}
	v.require(data, "niche", "niche")
	v.require(data, "postedBy", "posting employer id")

	return v.msgs
}

// ValidateApplication checks an application payload. Referential ids
// must be supplied here; whether they resolve is storage's concern.
func ValidateApplication(data map[string]any) []string {
	var v violations

	v.require(data, "jobId", "job id")
	v.require(data, "jobSeekerId", "job seeker id")
	v.require(data, "employerId", "employer id")
	v.require(data, "jobTitle", "job title")
	if v.require(data, "jobSeekerName", "applicant name") {
		v.length(data, "jobSeekerName", "applicant name", 3, 30)
	}
	if v.require(data, "jobSeekerEmail", "applicant email") {
		v.email(data, "jobSeekerEmail", "applicant email")
	}
	if v.require(data, "jobSeekerPhone", "applicant phone") {
		v.phone(data, "jobSeekerPhone", "applicant phone")
	}

	return v.msgs
}
