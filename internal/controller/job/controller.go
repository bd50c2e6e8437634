// Package job provides HTTP handlers for job listing operations.
package job

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"HireDesk-backend/internal/database"
	"HireDesk-backend/internal/model"
	"HireDesk-backend/internal/utilities"
)

// JobController handles job listing related endpoints
type JobController struct {
	DB *database.Instance
}

// NewJobController creates a new instance of JobController
func NewJobController(db *database.Instance) *JobController {
	return &JobController{
		DB: db,
	}
}

type createJobRequest struct {
	model.EditableJobInfo
	SkillIDs []uint `json:"skill_ids"`
	// Owner of the listing, admins only. Recruiters always own what they post.
	RecruiterID *uuid.UUID `json:"recruiter_id"`
}

// CreateJobHandler handles the creation of a new job listing. Recruiters own
// what they post; admins must name the owning recruiter.
// @Summary Create job listing based on given json structure
// @Description Recruiters create listings they own; admins must provide recruiter_id
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Job body createJobRequest true "Input job information"
// @Success 201 {object} model.Job "Successfully create job listing"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header, or invalid job struct"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as recruiter or admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [post]
func (jc *JobController) CreateJobHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req createJobRequest
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	ownerID := user.ID
	if user.Role == model.RoleAdmin {
		if req.RecruiterID == nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: "Admins must provide recruiter_id of the listing's owner",
			})
			return
		}
		ownerID = *req.RecruiterID
	}

	// The owning recruiter profile must exist, it owns the listing.
	var recruiter model.RecruiterProfile
	if err := jc.DB.Where("user_id = ?", ownerID).First(&recruiter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if user.Role == model.RoleAdmin {
				c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Recruiter not found"})
				return
			}
			c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Only recruiters can create job listings"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve recruiter information: %s", err.Error()),
		})
		return
	}

	if strings.TrimSpace(req.CompanyName) == "" || strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Company name and title must be provided",
		})
		return
	}

	if req.Status == "" {
		req.Status = model.JobStatusOpen
	}
	if !model.ValidJobStatus(req.Status) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Status '%s' is not a valid job status", req.Status),
		})
		return
	}

	job := model.Job{EditableJobInfo: req.EditableJobInfo}
	job.RecruiterID = ownerID

	if len(req.SkillIDs) > 0 {
		var skills []model.Skill
		if err := jc.DB.Where("id IN ?", req.SkillIDs).Find(&skills).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to resolve skills: %s", err.Error()),
			})
			return
		}
		if len(skills) != len(req.SkillIDs) {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: "One or more skill ids do not exist",
			})
			return
		}
		job.Skills = skills
	}

	if err := jc.DB.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to create job listing: ", err),
		})
		return
	}

	c.JSON(http.StatusCreated, job)
}

// GetJobs fetches job listings matching the query and returns them as JSON.
// Unauthenticated viewers only ever see open listings.
// @Summary Get job listings based on query
// @Description Without a valid token only open listings are returned
// @Tags Job
// @Produce json
// @Param search query string false "Search from job title with substring matching and case insensitive"
// @Param company query string false "Search from company name with substring matching and case insensitive"
// @Param location query string false "Search from location with substring matching and case insensitive"
// @Param type query string false "Job type field with substring matching and case insensitive"
// @Param tag query string false "Search if tags field contain tag param, no substring matching and case insensitive"
// @Param experience query string false "Experience field, must exactly match to get result"
// @Param status query string false "'open' (default), 'closed' or 'all'; non-open requires recruiter or admin"
// @Param desc query boolean false "Sorting by posted time in descending if not explicitly false"
// @Success 200 {array} model.JobResponse "Return matching job listing(s)"
// @Failure 403 {object} utilities.ErrorResponse "Asked for closed listings without permission"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [get]
func (jc *JobController) GetJobs(c *gin.Context) {
	// Viewer is optional here, the zero user behaves like a visitor.
	viewer, _ := utilities.ExtractUser(c)

	rawSearch := c.Query("search")
	rawCompany := c.Query("company")
	rawLocation := c.Query("location")
	rawJobType := c.Query("type")
	rawTag := c.Query("tag")
	rawExperience := c.Query("experience")
	rawStatus := c.Query("status")
	rawDesc := c.Query("desc")

	result := jc.DB.
		Preload("Recruiter").
		Preload("Recruiter.User").
		Preload("Applications").
		Preload("Skills")

	switch rawStatus {
	case "", model.JobStatusOpen:
		result = result.Where("status = ?", model.JobStatusOpen)
	case model.JobStatusClosed, "all":
		switch viewer.Role {
		case model.RoleAdmin:
			if rawStatus == model.JobStatusClosed {
				result = result.Where("status = ?", model.JobStatusClosed)
			}
		case model.RoleRecruiter:
			// Recruiters only see their own non-open listings.
			result = result.Where("recruiter_id = ?", viewer.ID)
			if rawStatus == model.JobStatusClosed {
				result = result.Where("status = ?", model.JobStatusClosed)
			}
		default:
			c.JSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: "Only recruiters and admins can list closed jobs",
			})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Status '%s' is not a valid job status filter", rawStatus),
		})
		return
	}

	if rawSearch != "" {
		result = result.Where("title ILIKE ?", "%"+rawSearch+"%")
	}
	if rawCompany != "" {
		result = result.Where("company_name ILIKE ?", "%"+rawCompany+"%")
	}
	if rawLocation != "" {
		result = result.Where("location ILIKE ?", "%"+rawLocation+"%")
	}
	if rawJobType != "" {
		result = result.Where("type ILIKE ?", "%"+rawJobType+"%")
	}
	if rawTag != "" {
		result = result.Where("? ILIKE ANY(tags)", rawTag)
	}
	if rawExperience != "" {
		result = result.Where("experience = ?", rawExperience)
	}

	var rawJobs []model.Job
	result = result.Order(clause.OrderByColumn{
		Column: clause.Column{Name: "posted_at"},
		Desc:   strings.ToLower(rawDesc) != "false",
	}).Find(&rawJobs)

	if err := result.Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to fetch job listings: ", err.Error()),
		})
		return
	}

	jobs := []model.JobResponse{}
	for _, rawJob := range rawJobs {
		resp, err := rawJob.ToJobResponse(viewer)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprint("Failed to process job listing: ", err.Error()),
			})
			return
		}
		jobs = append(jobs, resp)
	}

	c.JSON(http.StatusOK, jobs)
}

// GetJobByID fetches a job listing by its ID.
// @Summary Get job listing by ID
// @Tags Job
// @Produce json
// @Param id path integer true "ID of desired job listing"
// @Success 200 {object} model.JobResponse "Return the job listing with the specified ID"
// @Failure 404 {object} utilities.ErrorResponse "Job listing not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [get]
func (jc *JobController) GetJobByID(c *gin.Context) {
	id := c.Param("id")

	viewer, _ := utilities.ExtractUser(c)

	job := model.Job{}
	if err := jc.DB.
		Preload("Recruiter").
		Preload("Recruiter.User").
		Preload("Applications").
		Preload("Skills").
		Where("id = ?", id).
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job listing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job listing: %s", err.Error()),
		})
		return
	}

	resp, err := job.ToJobResponse(viewer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to process job listing: ", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// EditJobHandler allows the owning recruiter or an admin to update a job listing.
// @Summary Edit job listing based on given json structure
// @Description Only the recruiter that own the listing or admin have access to this endpoint
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job listing"
// @Param Job body model.EditableJobInfo true "Input job information"
// @Success 200 {object} model.Job "Successfully update job listing"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header, or invalid job struct"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to edit"
// @Failure 404 {object} utilities.ErrorResponse "Job listing not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [patch]
func (jc *JobController) EditJobHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id := c.Param("id")

	job := model.Job{}
	if err := jc.DB.Where("id = ?", id).First(&job).Error; err != nil {
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
			Error: "You are not allowed to edit this job listing",
		})
		return
	}

	updated := model.Job{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&updated.EditableJobInfo); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to parse request body: %s", err.Error()),
		})
		return
	}

	if updated.Status != "" && !model.ValidJobStatus(updated.Status) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Status '%s' is not a valid job status", updated.Status),
		})
		return
	}

	if err := jc.DB.Model(&job).Updates(updated).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update job listing: %s", err.Error()),
		})
		return
	}

	if err := jc.DB.Where("id = ?", job.ID).First(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve updated job listing: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, job)
}

// DeleteJobHandler allows the owning recruiter or an admin to delete a job
// listing. Deletion always cascades to the listing's applications and their
// reminders.
// @Summary Delete given job listing ID
// @Description Only the recruiter that own the listing or admin have access to this endpoint
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job listing"
// @Success 200 {object} utilities.MessageResponse "Successfully delete job listing"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to delete this listing"
// @Failure 404 {object} utilities.ErrorResponse "Job listing not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [delete]
func (jc *JobController) DeleteJobHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id := c.Param("id")

	job := model.Job{}
	if err := jc.DB.Where("id = ?", id).First(&job).Error; err != nil {
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
			Error: "You are not allowed to delete this job listing",
		})
		return
	}

	if err := jc.DB.Delete(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete job listing: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Job listing deleted"})
}
