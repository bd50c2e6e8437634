// Package application provides HTTP handlers for job application operations.
package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"HireDesk-backend/internal/database"
	"HireDesk-backend/internal/model"
	"HireDesk-backend/internal/utilities"
)

// ApplicationController handles job application related endpoints
type ApplicationController struct {
	DB *database.Instance
}

// NewApplicationController creates a new instance of ApplicationController with the provided database connection.
func NewApplicationController(db *database.Instance) *ApplicationController {
	return &ApplicationController{
		DB: db,
	}
}

type applyRequest struct {
	ResumeID      *int `json:"resume_id" binding:"required"`
	CoverLetterID *int `json:"cover_letter_id"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type notesRequest struct {
	Notes string `json:"notes" binding:"required"`
}

// ApplyHandler handles the creation of a new job application by a candidate.
// @Summary Apply to a job listing
// @Description Only candidates can access this endpoint; one application per candidate per job
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the job listing to apply to"
// @Param application body applyRequest true "Resume and optional cover letter file references"
// @Success 201 {object} model.Application "Successfully applied to job listing"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or file reference"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as candidate"
// @Failure 404 {object} utilities.ErrorResponse "Job listing not found"
// @Failure 409 {object} utilities.ErrorResponse "Already applied to this job listing"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id} [post]
func (ac *ApplicationController) ApplyHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	jobID := c.Param("id")
	var job model.Job
	if err := ac.DB.Where("id = ?", jobID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job listing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job listing: %s", err.Error()),
		})
		return
	}

	// Prevent duplicate applications before hitting the unique index.
	existing := model.Application{}
	if err := ac.DB.
		Where("candidate_id = ? AND job_id = ?", user.ID, job.ID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, utilities.ErrorResponse{
			Error: "You have already applied to this job listing",
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to check existing application",
		})
		return
	}

	application := model.Application{
		JobID:         job.ID,
		CandidateID:   user.ID,
		Status:        model.ApplicationStatusApplied,
		ResumeID:      req.ResumeID,
		CoverLetterID: req.CoverLetterID,
	}

	if err := ac.DB.Create(&application).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// 23503 foreign key violation, a file reference is invalid.
			if pgErr.Code == "23503" {
				c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
					Error: fmt.Sprintf("Invalid resume or cover letter reference: %s", err.Error()),
				})
				return
			}
			// 23505 unique violation, lost the race against a duplicate.
			if pgErr.Code == "23505" {
				c.JSON(http.StatusConflict, utilities.ErrorResponse{
					Error: "You have already applied to this job listing",
				})
				return
			}
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, application)
}

// MyApplicationsHandler returns every application of the requesting candidate.
// @Summary List the requesting candidate's applications
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param status query string false "Filter by application status"
// @Success 200 {array} model.Application "The candidate's applications"
// @Failure 400 {object} utilities.ErrorResponse "Invalid status filter"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as candidate"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/my-applications [get]
func (ac *ApplicationController) MyApplicationsHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	query := ac.DB.Preload("Reminders").Where("candidate_id = ?", user.ID)

	if rawStatus := c.Query("status"); rawStatus != "" {
		if !model.ValidApplicationStatus(rawStatus) {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: fmt.Sprintf("Status '%s' is not a valid application status", rawStatus),
			})
			return
		}
		query = query.Where("status = ?", rawStatus)
	}

	applications := []model.Application{}
	if err := query.Order("applied_at DESC").Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch applications: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, applications)
}

// GetApplicationsByJobHandler returns every application submitted against a
// job listing. Restricted to the listing's owner and admins.
// @Summary List applications of a job listing
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param jobId path integer true "ID of the job listing"
// @Param status query string false "Filter by application status"
// @Success 200 {array} model.ApplicationReviewEntry "Applications of the listing with applicant profiles"
// @Failure 400 {object} utilities.ErrorResponse "Invalid status filter"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the listing"
// @Failure 404 {object} utilities.ErrorResponse "Job listing not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/job/{jobId} [get]
func (ac *ApplicationController) GetApplicationsByJobHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jobID := c.Param("jobId")
	var job model.Job
	if err := ac.DB.Where("id = ?", jobID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job listing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job listing: %s", err.Error()),
		})
		return
	}

	if job.RecruiterID != user.ID && user.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to view applications of this job listing",
		})
		return
	}

	query := ac.DB.
		Preload("Candidate").
		Preload("Candidate.User").
		Preload("Reminders").
		Where("job_id = ?", job.ID)

	if rawStatus := c.Query("status"); rawStatus != "" {
		if !model.ValidApplicationStatus(rawStatus) {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: fmt.Sprintf("Status '%s' is not a valid application status", rawStatus),
			})
			return
		}
		query = query.Where("status = ?", rawStatus)
	}

	applications := []model.Application{}
	if err := query.Order("applied_at DESC").Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch applications: %s", err.Error()),
		})
		return
	}

	entries := make([]model.ApplicationReviewEntry, 0, len(applications))
	for _, application := range applications {
		entries = append(entries, model.ApplicationReviewEntry{
			Application: application,
			Candidate:   application.Candidate,
		})
	}

	c.JSON(http.StatusOK, entries)
}

// GetApplicationByIDHandler returns a single application. Accessible to the
// applying candidate, the listing's owner and admins.
// @Summary Get application by ID
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the application"
// @Success 200 {object} model.Application "The application"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not allowed to view this application"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id} [get]
func (ac *ApplicationController) GetApplicationByIDHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	application, ok := ac.loadApplication(c)
	if !ok {
		return
	}

	if !ac.canManage(user, application) && application.CandidateID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to view this application",
		})
		return
	}

	c.JSON(http.StatusOK, application)
}

// UpdateStatusHandler moves an application through the pipeline. The new
// status must be a member of the status enum; anything else is rejected
// before touching the stored value.
// @Summary Update application status
// @Description Only the listing's owner or admin have access to this endpoint
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the application"
// @Param Status body statusRequest true "New status"
// @Success 200 {object} model.Application "Successfully update application status"
// @Failure 400 {object} utilities.ErrorResponse "Status is not a valid enum member"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the listing"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id} [patch]
func (ac *ApplicationController) UpdateStatusHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Status must be provided",
		})
		return
	}

	if !model.ValidApplicationStatus(req.Status) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Status '%s' is not a valid application status", req.Status),
		})
		return
	}

	application, ok := ac.loadApplication(c)
	if !ok {
		return
	}

	if !ac.canManage(user, application) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to manage this application",
		})
		return
	}

	if err := ac.DB.Model(&application).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, application)
}

// UpdateNotesHandler replaces the recruiter notes on an application.
// @Summary Update application notes
// @Description Only the listing's owner or admin have access to this endpoint
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the application"
// @Param Notes body notesRequest true "New notes, must not be blank"
// @Success 200 {object} model.Application "Successfully update application notes"
// @Failure 400 {object} utilities.ErrorResponse "Notes are blank"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the listing"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id}/notes [patch]
func (ac *ApplicationController) UpdateNotesHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req notesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Notes must be provided",
		})
		return
	}

	notes := strings.TrimSpace(req.Notes)
	if notes == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Notes must not be blank",
		})
		return
	}

	application, ok := ac.loadApplication(c)
	if !ok {
		return
	}

	if !ac.canManage(user, application) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to manage this application",
		})
		return
	}

	if err := ac.DB.Model(&application).Update("notes", notes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, application)
}

// DeleteApplicationHandler withdraws an application. Accessible to the
// applying candidate and admins; reminders are cascade-deleted.
// @Summary Delete an application
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the application"
// @Success 200 {object} utilities.MessageResponse "Successfully delete application"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not allowed to delete this application"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id} [delete]
func (ac *ApplicationController) DeleteApplicationHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	application, ok := ac.loadApplication(c)
	if !ok {
		return
	}

	if application.CandidateID != user.ID && user.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to delete this application",
		})
		return
	}

	if err := ac.DB.Delete(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Application deleted"})
}

// loadApplication fetches the application referenced by the :id path param,
// writing the error response itself when it cannot.
func (ac *ApplicationController) loadApplication(c *gin.Context) (model.Application, bool) {
	id := c.Param("id")

	application := model.Application{}
	if err := ac.DB.Preload("Job").Where("id = ?", id).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
			return application, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error()),
		})
		return application, false
	}
	return application, true
}

// canManage reports whether the user reviews this application: the listing's
// owner or an admin.
func (ac *ApplicationController) canManage(user model.User, application model.Application) bool {
	return user.Role == model.RoleAdmin || application.Job.RecruiterID == user.ID
}
