// Package reminder provides HTTP handlers for follow-up reminders attached
// to job applications.
package reminder

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"HireDesk-backend/internal/database"
	"HireDesk-backend/internal/model"
	"HireDesk-backend/internal/utilities"
)

// ReminderController handles reminder related endpoints
type ReminderController struct {
	DB *database.Instance
}

// NewReminderController creates a new instance of ReminderController with the provided database connection.
func NewReminderController(db *database.Instance) *ReminderController {
	return &ReminderController{
		DB: db,
	}
}

type reminderRequest struct {
	RemindAt string `json:"remind_at" binding:"required"`
	Message  string `json:"message"`
}

// CreateReminderHandler attaches a follow-up reminder to an application.
// @Summary Create a reminder on an application
// @Description Only the listing's owner or admin have access to this endpoint
// @Tags Reminder
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the application"
// @Param reminder body reminderRequest true "Reminder time (RFC 3339) and message"
// @Success 201 {object} model.Reminder "Successfully create reminder"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or timestamp"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the listing"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id}/reminders [post]
func (rc *ReminderController) CreateReminderHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req reminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	remindAt, err := time.Parse(time.RFC3339, req.RemindAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("remind_at must be an RFC 3339 timestamp: %s", err.Error()),
		})
		return
	}

	application := model.Application{}
	if err := rc.DB.Preload("Job").Where("id = ?", c.Param("id")).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error()),
		})
		return
	}

	if application.Job.RecruiterID != user.ID && user.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to manage this application",
		})
		return
	}

	reminder := model.Reminder{
		ApplicationID: application.ID,
		RemindAt:      remindAt,
		Message:       req.Message,
	}
	if err := rc.DB.Create(&reminder).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create reminder: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, reminder)
}

// GetRemindersByApplicationHandler lists the reminders of an application.
// @Summary List reminders of an application
// @Tags Reminder
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the application"
// @Success 200 {array} model.Reminder "Reminders of the application"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the listing"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id}/reminders [get]
func (rc *ReminderController) GetRemindersByApplicationHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	application := model.Application{}
	if err := rc.DB.Preload("Job").Where("id = ?", c.Param("id")).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error()),
		})
		return
	}

	if application.Job.RecruiterID != user.ID && user.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to manage this application",
		})
		return
	}

	reminders := []model.Reminder{}
	if err := rc.DB.
		Where("application_id = ?", application.ID).
		Order("remind_at ASC").
		Find(&reminders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch reminders: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, reminders)
}

// UpdateReminderHandler replaces the time and message of a reminder.
// @Summary Update a reminder
// @Tags Reminder
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the reminder"
// @Param reminder body reminderRequest true "New reminder time (RFC 3339) and message"
// @Success 200 {object} model.Reminder "Successfully update reminder"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or timestamp"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the listing"
// @Failure 404 {object} utilities.ErrorResponse "Reminder not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /reminders/{id} [put]
func (rc *ReminderController) UpdateReminderHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req reminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	remindAt, err := time.Parse(time.RFC3339, req.RemindAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("remind_at must be an RFC 3339 timestamp: %s", err.Error()),
		})
		return
	}

	reminder, ok := rc.loadAuthorizedReminder(c, user)
	if !ok {
		return
	}

	updates := map[string]interface{}{
		"remind_at": remindAt,
		"message":   req.Message,
	}
	if err := rc.DB.Model(&reminder).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update reminder: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, reminder)
}

// DeleteReminderHandler removes a reminder.
// @Summary Delete a reminder
// @Tags Reminder
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the reminder"
// @Success 200 {object} utilities.MessageResponse "Successfully delete reminder"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the listing"
// @Failure 404 {object} utilities.ErrorResponse "Reminder not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /reminders/{id} [delete]
func (rc *ReminderController) DeleteReminderHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	reminder, ok := rc.loadAuthorizedReminder(c, user)
	if !ok {
		return
	}

	if err := rc.DB.Delete(&reminder).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete reminder: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Reminder deleted"})
}

// loadAuthorizedReminder fetches the reminder referenced by the :id path
// param and checks that the user owns the underlying listing, writing the
// error response itself when it cannot.
func (rc *ReminderController) loadAuthorizedReminder(c *gin.Context, user model.User) (model.Reminder, bool) {
	reminder := model.Reminder{}
	if err := rc.DB.Where("id = ?", c.Param("id")).First(&reminder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Reminder not found"})
			return reminder, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve reminder: %s", err.Error()),
		})
		return reminder, false
	}

	application := model.Application{}
	if err := rc.DB.Preload("Job").Where("id = ?", reminder.ApplicationID).First(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error()),
		})
		return reminder, false
	}

	if application.Job.RecruiterID != user.ID && user.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to manage this application",
		})
		return reminder, false
	}

	return reminder, true
}
