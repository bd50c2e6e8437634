package application

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

func applicationRouter() *gin.Engine {
	r := gin.Default()
	ac := NewApplicationController(testDB)
	r.Use(middleware.RequireAuth(testDB))
	r.POST("/applications/:id", middleware.CheckRole(model.RoleCandidate), ac.ApplyHandler)
	r.GET("/applications/my-applications", middleware.CheckRole(model.RoleCandidate), ac.MyApplicationsHandler)
	r.GET("/applications/job/:jobId", middleware.CheckRole(model.RoleRecruiter, model.RoleAdmin), ac.GetApplicationsByJobHandler)
	r.GET("/applications/:id", ac.GetApplicationByIDHandler)
	r.PATCH("/applications/:id", middleware.CheckRole(model.RoleRecruiter, model.RoleAdmin), ac.UpdateStatusHandler)
	r.PATCH("/applications/:id/notes", middleware.CheckRole(model.RoleRecruiter, model.RoleAdmin), ac.UpdateNotesHandler)
	r.DELETE("/applications/:id", middleware.CheckRole(model.RoleCandidate, model.RoleAdmin), ac.DeleteApplicationHandler)
	return r
}

// seedResume stores a dummy pdf and returns its id for apply requests.
func seedResume(t *testing.T) int {
	t.Helper()
	file := model.File{Content: []byte("%PDF-1.4 dummy"), Extension: ".pdf"}
	assert.NoError(t, testDB.Create(&file).Error)
	return file.ID
}

func TestApply_fullPipeline(t *testing.T) {
	candidateToken, err := auth.GetAccessToken(t, testDB, *database.TestUserCandidate1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	recruiterToken, err := auth.GetAccessToken(t, testDB, *database.TestUserRecruiter1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := applicationRouter()
	resumeID := seedResume(t)

	// Candidate applies to an open listing.
	rec, resp := testutil.MakeJSONRequest(gin.H{
		"resume_id": resumeID,
	}, candidateToken, r, fmt.Sprintf("/applications/%d", database.TestJob1.ID), http.MethodPost)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, model.ApplicationStatusApplied, resp["status"])
	applicationID := fmt.Sprintf("%.0f", resp["id"].(float64))

	// The candidate sees it under my-applications.
	rec, list := testutil.MakeJSONListRequest(nil, candidateToken, r, "/applications/my-applications", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, list)

	// The listing's owner sees it on the job, with the applicant attached.
	rec, list = testutil.MakeJSONListRequest(nil, recruiterToken, r, fmt.Sprintf("/applications/job/%d", database.TestJob1.ID), http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	if assert.NotEmpty(t, list) {
		candidate, ok := list[0]["candidate"].(map[string]interface{})
		assert.True(t, ok)
		userInfo, ok := candidate["user"].(map[string]interface{})
		assert.True(t, ok)
		assert.Equal(t, database.TestUserCandidate1.Username, userInfo["username"])
	}

	// Owner moves it through the pipeline.
	rec, resp = testutil.MakeJSONRequest(gin.H{
		"status": model.ApplicationStatusInterviewing,
	}, recruiterToken, r, "/applications/"+applicationID, http.MethodPatch)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.ApplicationStatusInterviewing, resp["status"])

	// Owner attaches notes.
	rec, resp = testutil.MakeJSONRequest(gin.H{
		"notes": "Strong Go background, schedule on-site.",
	}, recruiterToken, r, "/applications/"+applicationID+"/notes", http.MethodPatch)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Strong Go background, schedule on-site.", resp["notes"])

	// Candidate can fetch it back by id.
	rec, resp = testutil.MakeJSONRequest(nil, candidateToken, r, "/applications/"+applicationID, http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.ApplicationStatusInterviewing, resp["status"])
}

// TestNewCandidateScenario walks a fresh account through register, login,
// apply and my-applications.
func TestNewCandidateScenario(t *testing.T) {
	r := gin.Default()
	lh := auth.NewLocalAuthHandler(testDB)
	r.POST("/auth/register", lh.RegisterHandler)
	r.POST("/auth/login", lh.LoginHandler)
	ac := NewApplicationController(testDB)
	authed := r.Group("", middleware.RequireAuth(testDB))
	authed.POST("/applications/:id", middleware.CheckRole(model.RoleCandidate), ac.ApplyHandler)
	authed.GET("/applications/my-applications", middleware.CheckRole(model.RoleCandidate), ac.MyApplicationsHandler)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"email":    "c@x.com",
		"password": "pw123",
		"role":     model.RoleCandidate,
	}, "", r, "/auth/register", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"email":    "c@x.com",
		"password": "pw123",
	}, "", r, "/auth/login", http.MethodPost)
	assert.Equal(t, http.StatusOK, rec.Code)
	token, _ := resp["access_token"].(string)
	assert.NotEmpty(t, token)

	resumeID := seedResume(t)
	rec, _ = testutil.MakeJSONRequest(gin.H{
		"resume_id": resumeID,
	}, token, r, fmt.Sprintf("/applications/%d", database.TestJob1.ID), http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, list := testutil.MakeJSONListRequest(nil, token, r, "/applications/my-applications", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	if assert.Len(t, list, 1) {
		assert.Equal(t, model.ApplicationStatusApplied, list[0]["status"])
	}
}

func TestApply_jobNotFound(t *testing.T) {
	candidateToken, err := auth.GetAccessToken(t, testDB, *database.TestUserCandidate1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := applicationRouter()
	resumeID := seedResume(t)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"resume_id": resumeID,
	}, candidateToken, r, "/applications/99999", http.MethodPost)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApply_missingResume(t *testing.T) {
	candidateToken, err := auth.GetAccessToken(t, testDB, *database.TestUserCandidate1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := applicationRouter()

	rec, _ := testutil.MakeJSONRequest(gin.H{}, candidateToken, r, fmt.Sprintf("/applications/%d", database.TestJob2.ID), http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApply_duplicate(t *testing.T) {
	candidateToken, err := auth.GetAccessToken(t, testDB, *database.TestUserCandidate2.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := applicationRouter()
	resumeID := seedResume(t)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"resume_id": resumeID,
	}, candidateToken, r, fmt.Sprintf("/applications/%d", database.TestJob2.ID), http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = testutil.MakeJSONRequest(gin.H{
		"resume_id": resumeID,
	}, candidateToken, r, fmt.Sprintf("/applications/%d", database.TestJob2.ID), http.MethodPost)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateStatus_invalidLeavesStoredValue(t *testing.T) {
	recruiterToken, err := auth.GetAccessToken(t, testDB, *database.TestUserRecruiter1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := applicationRouter()

	application := model.Application{
		JobID:       database.TestJob1.ID,
		CandidateID: database.TestCandidate2.UserID,
		Status:      model.ApplicationStatusScreening,
	}
	assert.NoError(t, testDB.Create(&application).Error)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"status": "ghosted",
	}, recruiterToken, r, fmt.Sprintf("/applications/%d", application.ID), http.MethodPatch)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var stored model.Application
	assert.NoError(t, testDB.First(&stored, application.ID).Error)
	assert.Equal(t, model.ApplicationStatusScreening, stored.Status)
}

func TestUpdateStatus_notFound(t *testing.T) {
	recruiterToken, err := auth.GetAccessToken(t, testDB, *database.TestUserRecruiter1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := applicationRouter()

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"status": model.ApplicationStatusScreening,
	}, recruiterToken, r, "/applications/99999", http.MethodPatch)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateStatus_notListingOwner(t *testing.T) {
	otherRecruiterToken, err := auth.GetAccessToken(t, testDB, *database.TestUserRecruiter2.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := applicationRouter()

	application := model.Application{
		JobID:       database.TestJob1.ID,
		CandidateID: database.TestCandidate1.UserID,
		Status:      model.ApplicationStatusApplied,
	}
	// Job1 belongs to recruiter 1; find or create an application on it.
	if err := testDB.Where("job_id = ? AND candidate_id = ?", application.JobID, application.CandidateID).
		First(&application).Error; err != nil {
		assert.NoError(t, testDB.Create(&application).Error)
	}

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"status": model.ApplicationStatusRejected,
	}, otherRecruiterToken, r, fmt.Sprintf("/applications/%d", application.ID), http.MethodPatch)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateNotes_blank(t *testing.T) {
	recruiterToken, err := auth.GetAccessToken(t, testDB, *database.TestUserRecruiter1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := applicationRouter()

	application := model.Application{
		JobID:       database.TestJob2.ID,
		CandidateID: database.TestCandidate1.UserID,
		Status:      model.ApplicationStatusApplied,
	}
	if err := testDB.Where("job_id = ? AND candidate_id = ?", application.JobID, application.CandidateID).
		First(&application).Error; err != nil {
		assert.NoError(t, testDB.Create(&application).Error)
	}

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"notes": "   ",
	}, recruiterToken, r, fmt.Sprintf("/applications/%d/notes", application.ID), http.MethodPatch)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteApplication_cascadesReminders(t *testing.T) {
	candidateToken, err := auth.GetAccessToken(t, testDB, *database.TestUserCandidate1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := applicationRouter()

	job := model.Job{
		RecruiterID: database.TestRecruiter1.UserID,
		EditableJobInfo: model.EditableJobInfo{
			CompanyName: "TechNova",
			Title:       "Withdrawal Target",
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

	reminder := model.Reminder{
		ApplicationID: application.ID,
		RemindAt:      time.Now().Add(48 * time.Hour),
		Message:       "Follow up after screening",
	}
	assert.NoError(t, testDB.Create(&reminder).Error)

	rec, _ := testutil.MakeJSONRequest(nil, candidateToken, r, fmt.Sprintf("/applications/%d", application.ID), http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code)

	var applicationCount, reminderCount int64
	assert.NoError(t, testDB.Model(&model.Application{}).Where("id = ?", application.ID).Count(&applicationCount).Error)
	assert.NoError(t, testDB.Model(&model.Reminder{}).Where("application_id = ?", application.ID).Count(&reminderCount).Error)
	assert.Equal(t, int64(0), applicationCount)
	assert.Equal(t, int64(0), reminderCount)
}

func TestDeleteApplication_notOwner(t *testing.T) {
	otherCandidateToken, err := auth.GetAccessToken(t, testDB, *database.TestUserCandidate2.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := applicationRouter()

	application := model.Application{
		JobID:       database.TestJob1.ID,
		CandidateID: database.TestCandidate1.UserID,
		Status:      model.ApplicationStatusApplied,
	}
	if err := testDB.Where("job_id = ? AND candidate_id = ?", application.JobID, application.CandidateID).
		First(&application).Error; err != nil {
		assert.NoError(t, testDB.Create(&application).Error)
	}

	rec, _ := testutil.MakeJSONRequest(nil, otherCandidateToken, r, fmt.Sprintf("/applications/%d", application.ID), http.MethodDelete)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetApplicationsByJob_notOwner(t *testing.T) {
	otherRecruiterToken, err := auth.GetAccessToken(t, testDB, *database.TestUserRecruiter2.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := applicationRouter()

	rec, _ := testutil.MakeJSONRequest(nil, otherRecruiterToken, r, fmt.Sprintf("/applications/job/%d", database.TestJob1.ID), http.MethodGet)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetApplicationsByJob_invalidStatusFilter(t *testing.T) {
	recruiterToken, err := auth.GetAccessToken(t, testDB, *database.TestUserRecruiter1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := applicationRouter()

	rec, _ := testutil.MakeJSONRequest(nil, recruiterToken, r,
		fmt.Sprintf("/applications/job/%d?status=bogus", database.TestJob1.ID), http.MethodGet)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
