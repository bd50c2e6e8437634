package job

import (
	"context"
	"fmt"
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

func jobRouter() (*gin.Engine, *JobController) {
	r := gin.Default()
	jc := NewJobController(testDB)
	r.GET("/jobs", middleware.OptionalAuth(testDB), jc.GetJobs)
	r.GET("/jobs/:id", middleware.OptionalAuth(testDB), jc.GetJobByID)
	r.POST("/jobs", middleware.RequireAuth(testDB), middleware.CheckRole(model.RoleRecruiter, model.RoleAdmin), jc.CreateJobHandler)
	r.PATCH("/jobs/:id", middleware.RequireAuth(testDB), middleware.CheckRole(model.RoleRecruiter, model.RoleAdmin), jc.EditJobHandler)
	r.DELETE("/jobs/:id", middleware.RequireAuth(testDB), middleware.CheckRole(model.RoleRecruiter, model.RoleAdmin), jc.DeleteJobHandler)
	return r, jc
}

func TestCreateJob_success(t *testing.T) {
	recruiterToken, err := auth.GetAccessToken(t, testDB, *database.TestUserRecruiter1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r, _ := jobRouter()

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"company_name": "TechNova",
		"title":        "Site Reliability Engineer",
		"desc":         "Keep the lights on.",
		"experience":   "Senior",
		"location":     "Remote",
		"type":         "Full-time",
		"salary":       "70000 THB",
		"tags":         []string{"sre", "kubernetes"},
		"skill_ids":    []uint{database.TestSkillGo.ID},
	}, recruiterToken, r, "/jobs", http.MethodPost)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Site Reliability Engineer", resp["title"])
	assert.Equal(t, model.JobStatusOpen, resp["status"])
	assert.Equal(t, database.TestRecruiter1.UserID.String(), resp["recruiter_id"])
}

func TestCreateJob_adminOnBehalfOfRecruiter(t *testing.T) {
	adminToken, err := auth.GetAccessToken(t, testDB, *database.TestAdminUser.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r, _ := jobRouter()

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"company_name": "TechNova",
		"title":        "Platform Engineer",
		"recruiter_id": database.TestRecruiter2.UserID.String(),
	}, adminToken, r, "/jobs", http.MethodPost)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, database.TestRecruiter2.UserID.String(), resp["recruiter_id"])
}

func TestCreateJob_adminWithoutOwner(t *testing.T) {
	adminToken, err := auth.GetAccessToken(t, testDB, *database.TestAdminUser.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r, _ := jobRouter()

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"company_name": "TechNova",
		"title":        "Ownerless Listing",
	}, adminToken, r, "/jobs", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateJob_adminUnknownOwner(t *testing.T) {
	adminToken, err := auth.GetAccessToken(t, testDB, *database.TestAdminUser.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r, _ := jobRouter()

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"company_name": "TechNova",
		"title":        "Orphan Listing",
		"recruiter_id": "00000000-0000-0000-0000-000000000000",
	}, adminToken, r, "/jobs", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateJob_candidateForbidden(t *testing.T) {
	candidateToken, err := auth.GetAccessToken(t, testDB, *database.TestUserCandidate1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r, _ := jobRouter()

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"company_name": "Nope Inc",
		"title":        "Should not exist",
	}, candidateToken, r, "/jobs", http.MethodPost)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateJob_missingTitle(t *testing.T) {
	recruiterToken, err := auth.GetAccessToken(t, testDB, *database.TestUserRecruiter1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r, _ := jobRouter()

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"company_name": "TechNova",
	}, recruiterToken, r, "/jobs", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateJob_unknownSkill(t *testing.T) {
	recruiterToken, err := auth.GetAccessToken(t, testDB, *database.TestUserRecruiter1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r, _ := jobRouter()

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"company_name": "TechNova",
		"title":        "Ghost Skill Job",
		"skill_ids":    []uint{99999},
	}, recruiterToken, r, "/jobs", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetJobs_publicExcludesClosed(t *testing.T) {
	r, _ := jobRouter()

	rec, resp := testutil.MakeJSONListRequest(nil, "", r, "/jobs", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, resp)
	for _, listing := range resp {
		assert.Equal(t, model.JobStatusOpen, listing["status"])
		assert.NotEqual(t, float64(database.TestJob3.ID), listing["id"])
	}
}

func TestGetJobs_visitorCannotListClosed(t *testing.T) {
	r, _ := jobRouter()

	rec, _ := testutil.MakeJSONRequest(nil, "", r, "/jobs?status=closed", http.MethodGet)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetJobs_recruiterSeesOwnClosed(t *testing.T) {
	recruiterToken, err := auth.GetAccessToken(t, testDB, *database.TestUserRecruiter2.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r, _ := jobRouter()

	rec, resp := testutil.MakeJSONListRequest(nil, recruiterToken, r, "/jobs?status=closed", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	found := false
	for _, listing := range resp {
		assert.Equal(t, database.TestRecruiter2.UserID.String(), listing["recruiter_id"])
		if listing["id"] == float64(database.TestJob3.ID) {
			found = true
		}
	}
	assert.True(t, found)
}

func TestGetJobs_invalidStatusFilter(t *testing.T) {
	adminToken, err := auth.GetAccessToken(t, testDB, *database.TestAdminUser.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r, _ := jobRouter()

	rec, _ := testutil.MakeJSONRequest(nil, adminToken, r, "/jobs?status=bogus", http.MethodGet)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetJobByID_success(t *testing.T) {
	r, _ := jobRouter()

	rec, resp := testutil.MakeJSONRequest(nil, "", r, fmt.Sprintf("/jobs/%d", database.TestJob1.ID), http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(database.TestJob1.ID), resp["id"])
	assert.Equal(t, database.TestJob1.Title, resp["title"])
}

func TestGetJobByID_notFound(t *testing.T) {
	r, _ := jobRouter()

	rec, _ := testutil.MakeJSONRequest(nil, "", r, "/jobs/99999", http.MethodGet)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEditJob_ownerUpdatesStatus(t *testing.T) {
	recruiterToken, err := auth.GetAccessToken(t, testDB, *database.TestUserRecruiter1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r, _ := jobRouter()

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"status": model.JobStatusClosed,
	}, recruiterToken, r, fmt.Sprintf("/jobs/%d", database.TestJob2.ID), http.MethodPatch)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.JobStatusClosed, resp["status"])

	// reopen for other tests
	rec, _ = testutil.MakeJSONRequest(gin.H{
		"status": model.JobStatusOpen,
	}, recruiterToken, r, fmt.Sprintf("/jobs/%d", database.TestJob2.ID), http.MethodPatch)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEditJob_invalidStatus(t *testing.T) {
	recruiterToken, err := auth.GetAccessToken(t, testDB, *database.TestUserRecruiter1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r, _ := jobRouter()

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"status": "archived",
	}, recruiterToken, r, fmt.Sprintf("/jobs/%d", database.TestJob2.ID), http.MethodPatch)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var stored model.Job
	assert.NoError(t, testDB.First(&stored, database.TestJob2.ID).Error)
	assert.Equal(t, model.JobStatusOpen, stored.Status)
}

func TestEditJob_notOwner(t *testing.T) {
	recruiterToken, err := auth.GetAccessToken(t, testDB, *database.TestUserRecruiter2.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r, _ := jobRouter()

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"title": "Hijacked",
	}, recruiterToken, r, fmt.Sprintf("/jobs/%d", database.TestJob1.ID), http.MethodPatch)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteJob_cascadesApplications(t *testing.T) {
	// Work on a throwaway listing so the seeded jobs stay intact.
	job := model.Job{
		RecruiterID: database.TestRecruiter1.UserID,
		EditableJobInfo: model.EditableJobInfo{
			CompanyName: "TechNova",
			Title:       "Temporary Listing",
			Status:      model.JobStatusOpen,
		},
	}
	assert.NoError(t, testDB.Create(&job).Error)

	application := model.Application{
		JobID:       job.ID,
		CandidateID: database.TestCandidate1.UserID,
		Status:      model.ApplicationStatusApplied,
	}
	assert.NoError(t, testDB.Create(&application).Error)

	recruiterToken, err := auth.GetAccessToken(t, testDB, *database.TestUserRecruiter1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r, _ := jobRouter()

	rec, _ := testutil.MakeJSONRequest(nil, recruiterToken, r, fmt.Sprintf("/jobs/%d", job.ID), http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code)

	var jobCount, applicationCount int64
	assert.NoError(t, testDB.Model(&model.Job{}).Where("id = ?", job.ID).Count(&jobCount).Error)
	assert.NoError(t, testDB.Model(&model.Application{}).Where("job_id = ?", job.ID).Count(&applicationCount).Error)
	assert.Equal(t, int64(0), jobCount)
	assert.Equal(t, int64(0), applicationCount)
}

func TestDeleteJob_notOwner(t *testing.T) {
	recruiterToken, err := auth.GetAccessToken(t, testDB, *database.TestUserRecruiter2.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r, _ := jobRouter()

	rec, _ := testutil.MakeJSONRequest(nil, recruiterToken, r, fmt.Sprintf("/jobs/%d", database.TestJob1.ID), http.MethodDelete)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
