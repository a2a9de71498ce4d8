package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/Niche-Job-Board/internal/apperrors"
	"github.com/justsurfingit/Niche-Job-Board/internal/auth"
	"github.com/justsurfingit/Niche-Job-Board/internal/models"
)

type JobHandler struct {
	jobs *models.JobModel
}

func NewJobHandler(jobs *models.JobModel) *JobHandler {
	return &JobHandler{jobs: jobs}
}

func jobFilterFrom(c *gin.Context) models.JobFilter {
	return models.JobFilter{
		Type:     c.Query("type"),
		Niche:    c.Query("niche"),
		PostedBy: c.Query("postedBy"),
		Location: c.Query("location"),
		Company:  c.Query("company"),
		Search:   c.Query("search"),
		Limit:    intQuery(c, "limit"),
		Offset:   intQuery(c, "offset"),
	}
}

func intQuery(c *gin.Context, key string) int {
	n, _ := strconv.Atoi(c.Query(key))
	if n < 0 {
		return 0
	}
	return n
}

// List returns postings with the owning employer nested, plus the
// unpaged total for the same filters.
func (h *JobHandler) List(c *gin.Context) {
	f := jobFilterFrom(c)

	jobs, err := h.jobs.ListWithPoster(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	total, err := h.jobs.Count(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"jobs": jobs, "total": total})
}

func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.jobs.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if job == nil {
		respondError(c, apperrors.NotFound("job"))
		return
	}
	respond(c, http.StatusOK, gin.H{"job": job})
}

// Create posts a job owned by the authenticated employer.
func (h *JobHandler) Create(c *gin.Context) {
	userID, _ := auth.Identity(c)

	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		respondError(c, apperrors.Validation([]string{"invalid JSON body"}))
		return
	}
	data["postedBy"] = userID

	job, err := h.jobs.Create(c.Request.Context(), data)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"job": job})
}

func (h *JobHandler) Update(c *gin.Context) {
	job, ok := h.ownedJob(c)
	if !ok {
		return
	}

	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		respondError(c, apperrors.Validation([]string{"invalid JSON body"}))
		return
	}

	id, _ := job["id"].(string)
	updated, err := h.jobs.Update(c.Request.Context(), id, data)
	if err != nil {
		respondError(c, err)
		return
	}
	if updated == nil {
		respondError(c, apperrors.NotFound("job"))
		return
	}
	respond(c, http.StatusOK, gin.H{"job": updated})
}

func (h *JobHandler) Delete(c *gin.Context) {
	job, ok := h.ownedJob(c)
	if !ok {
		return
	}

	id, _ := job["id"].(string)
	deleted, err := h.jobs.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"job": deleted})
}

// ownedJob loads the posting and enforces that the caller owns it.
func (h *JobHandler) ownedJob(c *gin.Context) (map[string]any, bool) {
	userID, _ := auth.Identity(c)

	job, err := h.jobs.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if job == nil {
		respondError(c, apperrors.NotFound("job"))
		return nil, false
	}
	if owner, _ := job["postedBy"].(string); owner != userID {
		respondError(c, apperrors.Forbidden("you can only manage your own postings"))
		return nil, false
	}
	return job, true
}
