package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/Niche-Job-Board/internal/apperrors"
	"github.com/justsurfingit/Niche-Job-Board/internal/auth"
	"github.com/justsurfingit/Niche-Job-Board/internal/models"
)

type ApplicationHandler struct {
	apps  *models.ApplicationModel
	jobs  *models.JobModel
	users *models.UserModel
}

func NewApplicationHandler(apps *models.ApplicationModel, jobs *models.JobModel, users *models.UserModel) *ApplicationHandler {
	return &ApplicationHandler{apps: apps, jobs: jobs, users: users}
}

type applyRequest struct {
	JobID       string `json:"jobId" binding:"required"`
	CoverLetter string `json:"coverLetter"`
}

// Apply snapshots the job seeker's profile into a new application for
// the given posting.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	userID, _ := auth.Identity(c)
	ctx := c.Request.Context()

	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation([]string{"jobId is required"}))
		return
	}

	job, err := h.jobs.FindByID(ctx, req.JobID)
	if err != nil {
		respondError(c, err)
		return
	}
	if job == nil {
		respondError(c, apperrors.NotFound("job"))
		return
	}

	seeker, err := h.users.FindByID(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if seeker == nil {
		respondError(c, apperrors.NotFound("user"))
		return
	}

	data := map[string]any{
		"jobId":            req.JobID,
		"jobSeekerId":      userID,
		"employerId":       job["postedBy"],
		"jobTitle":         job["title"],
		"jobSeekerName":    seeker["name"],
		"jobSeekerEmail":   seeker["email"],
		"jobSeekerPhone":   seeker["phoneNumber"],
		"jobSeekerAddress": seeker["address"],
		"resumeId":         seeker["resumeId"],
		"resumeUrl":        seeker["resumeUrl"],
	}
	if req.CoverLetter != "" {
		data["coverLetter"] = req.CoverLetter
	} else {
		data["coverLetter"] = seeker["coverLetter"]
	}

	app, err := h.apps.Create(ctx, data)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"application": app})
}

// List shows the caller's side of the applications: job seekers see
// what they sent, employers what they received. Each party's
// soft-deleted rows stay hidden from them.
func (h *ApplicationHandler) List(c *gin.Context) {
	userID, role := auth.Identity(c)

	f := models.ApplicationFilter{
		JobID:  c.Query("jobId"),
		Limit:  intQuery(c, "limit"),
		Offset: intQuery(c, "offset"),
	}
	if role == models.RoleEmployer {
		f.EmployerID = userID
	} else {
		f.JobSeekerID = userID
	}

	apps, err := h.apps.ListWithDetails(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	total, err := h.apps.Count(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"applications": apps, "total": total})
}

// Delete soft-deletes the application for the caller's side only.
func (h *ApplicationHandler) Delete(c *gin.Context) {
	userID, role := auth.Identity(c)
	ctx := c.Request.Context()
	id := c.Param("id")

	app, err := h.apps.FindByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if app == nil {
		respondError(c, apperrors.NotFound("application"))
		return
	}

	party := models.PartyJobSeeker
	owner, _ := app["jobSeekerId"].(string)
	if role == models.RoleEmployer {
		party = models.PartyEmployer
		owner, _ = app["employerId"].(string)
	}
	if owner != userID {
		respondError(c, apperrors.Forbidden("you can only remove your own applications"))
		return
	}

	deleted, err := h.apps.SoftDelete(ctx, id, party)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"application": deleted})
}
