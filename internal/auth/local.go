package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"HireDesk-backend/internal/database"
	"HireDesk-backend/internal/model"
	"HireDesk-backend/internal/utilities"
)

// LocalAuthHandler holds DB reference for the email/password handlers.
type LocalAuthHandler struct {
	DB *database.Instance
}

// NewLocalAuthHandler creates a new instance of LocalAuthHandler with the provided database connection.
func NewLocalAuthHandler(db *database.Instance) *LocalAuthHandler {
	return &LocalAuthHandler{
		DB: db,
	}
}

type registerInfo struct {
	// Username defaults to the email when omitted.
	Username string `json:"username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=candidate recruiter"`
}

type loginInfo struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterHandler handles local registration by receiving email, password,
// role and an optional username.
// @Summary Register a candidate or recruiter account
// @Description Email and username must not already exist
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body registerInfo true "role can be only 'candidate' or 'recruiter'"
// @Success 201 {object} model.CandidateResponse "If role is candidate"
// @Success 201 {object} model.RecruiterResponse "If role is recruiter"
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 409 {object} utilities.ErrorResponse "Email or username already registered"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /auth/register [post]
func (lh *LocalAuthHandler) RegisterHandler(c *gin.Context) {
	var info registerInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email, password and role (only 'candidate' or 'recruiter') must be provided",
		})
		return
	}

	if info.Username == "" {
		info.Username = info.Email
	}

	var user model.User
	err := lh.DB.Where("email = ? OR username = ?", info.Email, info.Username).First(&user).Error

	switch {
	case err == nil:
		c.JSON(http.StatusConflict, utilities.ErrorResponse{
			Error: "Email or username already registered",
		})
		return

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return
	}

	baseUser := model.User{
		Username: info.Username,
		Email:    &info.Email,
		Password: hashedPassword,
	}

	switch info.Role {
	case model.RoleCandidate:
		baseUser.Role = model.RoleCandidate
		candidate := model.CandidateProfile{User: baseUser}
		if err := lh.DB.Create(&candidate).Error; err != nil {
			writeCreateUserError(c, err)
			return
		}

		accessToken, _, err := GenerateStandardToken(candidate.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
			})
			return
		}

		c.JSON(http.StatusCreated, model.CandidateResponse{
			User:        candidate,
			AccessToken: accessToken,
		})
	case model.RoleRecruiter:
		baseUser.Role = model.RoleRecruiter
		recruiter := model.RecruiterProfile{User: baseUser}
		if err := lh.DB.Create(&recruiter).Error; err != nil {
			writeCreateUserError(c, err)
			return
		}

		accessToken, _, err := GenerateStandardToken(recruiter.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
			})
			return
		}

		c.JSON(http.StatusCreated, model.RecruiterResponse{
			User:        recruiter,
			AccessToken: accessToken,
		})
	default:
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Role '%s' not allowed", info.Role),
		})
	}
}

// writeCreateUserError maps the insert error for a new account. A unique
// violation means a concurrent registration won the race against the
// duplicate pre-check, so it still answers 409.
func writeCreateUserError(c *gin.Context, err error) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		c.JSON(http.StatusConflict, utilities.ErrorResponse{
			Error: "Email or username already registered",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
		Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
	})
}

// LoginHandler handles local login by receiving email and password.
// @Summary Handles local login by receiving email and password
// @Description Email must exist and password match
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body loginInfo true "Credentials for login"
// @Success 200 {object} model.CandidateResponse "If role is candidate"
// @Success 200 {object} model.RecruiterResponse "If role is recruiter"
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 401 {object} utilities.ErrorResponse "Email not exist or password incorrect"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /auth/login [post]
func (lh *LocalAuthHandler) LoginHandler(c *gin.Context) {
	var info loginInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email or password is not provided",
		})
		return
	}

	var user model.User
	err := lh.DB.Where("email = ?", info.Email).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Email or password is incorrect",
		})
		return

	case err == nil:
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	// Accounts created through OAuth have no local password.
	if user.Password == "" || !utilities.VerifyPassword(info.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Email or password is incorrect",
		})
		return
	}

	accessToken, _, err := GenerateStandardToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	switch user.Role {
	case model.RoleCandidate:
		var candidate model.CandidateProfile
		if err := lh.DB.Preload("User").Where("user_id = ?", user.ID).First(&candidate).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to retrieve user data: %s", err.Error()),
			})
			return
		}

		c.JSON(http.StatusOK, model.CandidateResponse{
			User:        candidate,
			AccessToken: accessToken,
		})
	case model.RoleRecruiter:
		var recruiter model.RecruiterProfile
		if err := lh.DB.Preload("User").Where("user_id = ?", user.ID).First(&recruiter).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to retrieve user data: %s", err.Error()),
			})
			return
		}

		c.JSON(http.StatusOK, model.RecruiterResponse{
			User:        recruiter,
			AccessToken: accessToken,
		})
	default:
		c.JSON(http.StatusOK, model.AdminResponse{
			User:        user,
			AccessToken: accessToken,
		})
	}
}
