// Package profile provides HTTP handlers for candidate and recruiter
// profile operations.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"HireDesk-backend/internal/database"
	"HireDesk-backend/internal/model"
	"HireDesk-backend/internal/utilities"
)

// ProfileController handles profile related endpoints
type ProfileController struct {
	DB *database.Instance
}

// NewProfileController creates a new instance of ProfileController with the provided database connection.
func NewProfileController(db *database.Instance) *ProfileController {
	return &ProfileController{
		DB: db,
	}
}

// GetMyCandidateProfile retrieves the requesting candidate's profile.
// @Summary Retrieve candidate profile from database
// @Tags Profile
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.CandidateProfile "Successfully retrieve candidate profile"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as candidate"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /candidate/myprofile [get]
func (pc *ProfileController) GetMyCandidateProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	profile := model.CandidateProfile{}
	if err := pc.DB.Preload("User").
		Where("user_id = ?", user.ID.String()).First(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user information from database: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// EditCandidateProfile overwrites the editable part of the requesting
// candidate's profile. Sensitive fields like id and file references can't
// be overwritten here.
// @Summary Edit candidate profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param candidate_profile body model.EditableCandidateInfo true "Candidate info to be written"
// @Success 200 {object} model.CandidateProfile "Successfully overwrite"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header or request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as candidate"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /candidate/profile [patch]
func (pc *ProfileController) EditCandidateProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	profile := model.CandidateProfile{}
	if err := pc.DB.Preload("User").
		Where("user_id = ?", user.ID.String()).First(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user information from database: %s", err.Error()),
		})
		return
	}

	edited := model.EditableCandidateInfo{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&edited); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	utilities.MergeNonEmpty(&profile.EditableCandidateInfo, &edited)

	if err := pc.DB.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update user information: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetMyRecruiterProfile retrieves the requesting recruiter's profile.
// @Summary Retrieve recruiter profile from database
// @Tags Profile
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.RecruiterProfile "Successfully retrieve recruiter profile"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as recruiter"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /recruiter/myprofile [get]
func (pc *ProfileController) GetMyRecruiterProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	profile := model.RecruiterProfile{}
	if err := pc.DB.Preload("User").
		Where("user_id = ?", user.ID.String()).First(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user information from database: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// EditRecruiterProfile overwrites the editable part of the requesting
// recruiter's profile.
// @Summary Edit recruiter profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param recruiter_profile body model.EditableRecruiterInfo true "Recruiter info to be written"
// @Success 200 {object} model.RecruiterProfile "Successfully overwrite"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header or request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as recruiter"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /recruiter/profile [patch]
func (pc *ProfileController) EditRecruiterProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	profile := model.RecruiterProfile{}
	if err := pc.DB.Preload("User").
		Where("user_id = ?", user.ID.String()).First(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user information from database: %s", err.Error()),
		})
		return
	}

	edited := model.EditableRecruiterInfo{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&edited); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	utilities.MergeNonEmpty(&profile.EditableRecruiterInfo, &edited)

	if err := pc.DB.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update user information: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetRecruiterByID returns the public profile of a recruiter.
// @Summary Retrieve a recruiter profile by user id
// @Tags Profile
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "User ID of the recruiter"
// @Success 200 {object} model.RecruiterProfile "The recruiter profile"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Recruiter not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /recruiter/{id} [get]
func (pc *ProfileController) GetRecruiterByID(c *gin.Context) {
	profile := model.RecruiterProfile{}
	if err := pc.DB.Preload("User").
		Where("user_id = ?", c.Param("id")).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Recruiter not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user information from database: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, profile)
}
