package profile

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"

	"HireDesk-backend/internal/auth"
	"HireDesk-backend/internal/database"
	"HireDesk-backend/internal/middleware"
	"HireDesk-backend/internal/model"
	"HireDesk-backend/internal/testutil"
)

var testDB *database.Instance

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var midTeardown func(context.Context, ...testcontainers.TerminateOption) error
	midTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if midTeardown != nil {
		_ = midTeardown(ctx)
	}
}

func profileRouter() *gin.Engine {
	r := gin.Default()
	pc := NewProfileController(testDB)
	r.Use(middleware.RequireAuth(testDB))
	r.GET("/candidate/myprofile", middleware.CheckRole(model.RoleCandidate), pc.GetMyCandidateProfile)
	r.PATCH("/candidate/profile", middleware.CheckRole(model.RoleCandidate), pc.EditCandidateProfile)
	r.GET("/recruiter/myprofile", middleware.CheckRole(model.RoleRecruiter), pc.GetMyRecruiterProfile)
	r.PATCH("/recruiter/profile", middleware.CheckRole(model.RoleRecruiter), pc.EditRecruiterProfile)
	r.GET("/recruiter/:id", pc.GetRecruiterByID)
	return r
}

func TestGetMyCandidateProfile(t *testing.T) {
	candidateToken, err := auth.GetAccessToken(t, testDB, *database.TestUserCandidate1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := profileRouter()

	rec, resp := testutil.MakeJSONRequest(nil, candidateToken, r, "/candidate/myprofile", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, database.TestCandidate1.FirstName, resp["first_name"])
	user := resp["user"].(map[string]interface{})
	assert.Equal(t, database.TestUserCandidate1.Username, user["username"])
}

func TestEditCandidateProfile_mergesNonEmpty(t *testing.T) {
	candidateToken, err := auth.GetAccessToken(t, testDB, *database.TestUserCandidate2.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := profileRouter()

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"first_name": "Robert",
	}, candidateToken, r, "/candidate/profile", http.MethodPatch)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Robert", resp["first_name"])
	// Untouched fields keep their stored values.
	assert.Equal(t, database.TestCandidate2.LastName, resp["last_name"])
}

func TestEditCandidateProfile_unknownField(t *testing.T) {
	candidateToken, err := auth.GetAccessToken(t, testDB, *database.TestUserCandidate1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := profileRouter()

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"resume_id": 42,
	}, candidateToken, r, "/candidate/profile", http.MethodPatch)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEditRecruiterProfile(t *testing.T) {
	recruiterToken, err := auth.GetAccessToken(t, testDB, *database.TestUserRecruiter1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := profileRouter()

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"overview": "Platform engineering at scale",
	}, recruiterToken, r, "/recruiter/profile", http.MethodPatch)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Platform engineering at scale", resp["overview"])
	assert.Equal(t, database.TestRecruiter1.CompanyName, resp["company_name"])
}

func TestGetRecruiterByID(t *testing.T) {
	candidateToken, err := auth.GetAccessToken(t, testDB, *database.TestUserCandidate1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := profileRouter()

	rec, resp := testutil.MakeJSONRequest(nil, candidateToken, r,
		"/recruiter/"+database.TestRecruiter2.UserID.String(), http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, database.TestRecruiter2.CompanyName, resp["company_name"])
}

func TestGetRecruiterByID_notFound(t *testing.T) {
	candidateToken, err := auth.GetAccessToken(t, testDB, *database.TestUserCandidate1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := profileRouter()

	rec, _ := testutil.MakeJSONRequest(nil, candidateToken, r,
		"/recruiter/00000000-0000-0000-0000-000000000000", http.MethodGet)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
