// Package skill provides HTTP handlers for the skill tag catalog used to
// label job listings.
package skill

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

// SkillController handles skill catalog related endpoints
type SkillController struct {
	DB *database.Instance
}

// NewSkillController creates a new instance of SkillController with the provided database connection.
func NewSkillController(db *database.Instance) *SkillController {
	return &SkillController{
		DB: db,
	}
}

type skillRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
	Level    string `json:"level"`
}

// GetSkillsHandler returns the skill catalog, optionally filtered by category.
// @Summary List skills
// @Tags Skill
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param category query string false "Filter by category"
// @Success 200 {array} model.Skill "The skill catalog"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /skills [get]
func (sc *SkillController) GetSkillsHandler(c *gin.Context) {
	query := sc.DB.Order("name ASC")
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	skills := []model.Skill{}
	if err := query.Find(&skills).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch skills: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, skills)
}

// CreateSkillHandler adds a skill to the catalog. Admin only.
// @Summary Create a skill
// @Tags Skill
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param skill body skillRequest true "Skill to create"
// @Success 201 {object} model.Skill "Successfully create skill"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as admin"
// @Failure 409 {object} utilities.ErrorResponse "Skill name already exists"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /skills [post]
func (sc *SkillController) CreateSkillHandler(c *gin.Context) {
	var req skillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Skill name must not be blank"})
		return
	}

	skill := model.Skill{
		Name:     name,
		Category: req.Category,
		Level:    req.Level,
	}
	if err := sc.DB.Create(&skill).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, utilities.ErrorResponse{
				Error: fmt.Sprintf("Skill '%s' already exists", name),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create skill: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, skill)
}

// UpdateSkillHandler replaces a catalog entry. Admin only.
// @Summary Update a skill
// @Tags Skill
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the skill"
// @Param skill body skillRequest true "New skill values"
// @Success 200 {object} model.Skill "Successfully update skill"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as admin"
// @Failure 404 {object} utilities.ErrorResponse "Skill not found"
// @Failure 409 {object} utilities.ErrorResponse "Skill name already exists"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /skills/{id} [put]
func (sc *SkillController) UpdateSkillHandler(c *gin.Context) {
	var req skillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	skill := model.Skill{}
	if err := sc.DB.Where("id = ?", c.Param("id")).First(&skill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Skill not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve skill: %s", err.Error()),
		})
		return
	}

	updates := map[string]interface{}{
		"name":     strings.TrimSpace(req.Name),
		"category": req.Category,
		"level":    req.Level,
	}
	if err := sc.DB.Model(&skill).Updates(updates).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, utilities.ErrorResponse{
				Error: fmt.Sprintf("Skill '%s' already exists", req.Name),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update skill: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, skill)
}

// DeleteSkillHandler removes a catalog entry along with its listing links.
// Admin only.
// @Summary Delete a skill
// @Tags Skill
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the skill"
// @Success 200 {object} utilities.MessageResponse "Successfully delete skill"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as admin"
// @Failure 404 {object} utilities.ErrorResponse "Skill not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /skills/{id} [delete]
func (sc *SkillController) DeleteSkillHandler(c *gin.Context) {
	skill := model.Skill{}
	if err := sc.DB.Where("id = ?", c.Param("id")).First(&skill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Skill not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve skill: %s", err.Error()),
		})
		return
	}

	if err := sc.DB.Select("Jobs").Delete(&skill).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete skill: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Skill deleted"})
}
