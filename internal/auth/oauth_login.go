package auth

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"HireDesk-backend/internal/model"
	"HireDesk-backend/internal/utilities"
)

// CandidateGoogleLoginHandler handles Google login for the candidate role,
// exchanges the code for user info, creates the account on first login and
// returns the profile with an access token.
// @Summary Handles Google login authentication for candidate role
// @Description Checks and creates user in the database, generates an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param Code body code true "Authentication code from google"
// @Success 200 {object} model.CandidateResponse "Login success"
// @Success 201 {object} model.CandidateResponse "Register success"
// @Failure 400 {object} utilities.ErrorResponse "Fail to receive token or fetch user info"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/google/candidate [post]
func (h *OauthLoginHandler) CandidateGoogleLoginHandler(c *gin.Context) {

	uInfo, err := h.getUserInfo(c)
	if err != nil {
		return
	}

	candidate := model.CandidateProfile{}
	status, ok := h.loginOrRegisterUser(&candidate, uInfo, c)
	if !ok {
		return
	}

	accessToken, _, err := GenerateStandardToken(candidate.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	c.JSON(status, model.CandidateResponse{
		User:        candidate,
		AccessToken: accessToken,
	})
}

// RecruiterGoogleLoginHandler handles Google login for the recruiter role.
// @Summary Handles Google login authentication for recruiter role
// @Description Checks and creates user in the database, generates an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param Code body code true "Authentication code from google"
// @Success 200 {object} model.RecruiterResponse "Login success"
// @Success 201 {object} model.RecruiterResponse "Register success"
// @Failure 400 {object} utilities.ErrorResponse "Fail to receive token or fetch user info"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/google/recruiter [post]
func (h *OauthLoginHandler) RecruiterGoogleLoginHandler(c *gin.Context) {

	uInfo, err := h.getUserInfo(c)
	if err != nil {
		return
	}

	recruiter := model.RecruiterProfile{}
	status, ok := h.loginOrRegisterUser(&recruiter, uInfo, c)
	if !ok {
		return
	}

	accessToken, _, err := GenerateStandardToken(recruiter.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	c.JSON(status, model.RecruiterResponse{
		User:        recruiter,
		AccessToken: accessToken,
	})
}

// Callback retrieves the "code" query parameter and returns it in a JSON
// response, for manual token exchange during development.
// @Summary Retrieves a query parameter named "code" from the request and returns it in a JSON response
// @Tags Auth
// @Produce json
// @Param Code query string false "Authentication code from google"
// @Success 200 {object} code
// @Router /auth/google/callback [get]
func (h *OauthLoginHandler) Callback(c *gin.Context) {
	aCode := c.Query("code")
	c.JSON(http.StatusOK, code{
		Code: aCode,
	})
}
