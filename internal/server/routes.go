// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	// Init swagger doc
	_ "HireDesk-backend/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"HireDesk-backend/internal/auth"
	"HireDesk-backend/internal/controller/application"
	"HireDesk-backend/internal/controller/file"
	"HireDesk-backend/internal/controller/job"
	"HireDesk-backend/internal/controller/profile"
	"HireDesk-backend/internal/controller/reminder"
	"HireDesk-backend/internal/controller/skill"
	"HireDesk-backend/internal/middleware"
	"HireDesk-backend/internal/model"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOriginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrigins := strings.Split(allowOriginsStr, ",")

	googleOauth := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_AUTH_CLIENT"),
		ClientSecret: os.Getenv("GOOGLE_AUTH_SECRET"),
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint:    google.Endpoint,
		RedirectURL: os.Getenv("OAUTH_REDIRECT_URL"),
	}

	blacklistStore := newBlacklistStore()

	gAuth := auth.NewOauthLoginHandler(s.DB, googleOauth, "https://www.googleapis.com/oauth2/v2/userinfo")
	lAuth := auth.NewLocalAuthHandler(s.DB)
	logout := auth.NewLogoutController(blacklistStore)

	jobController := job.NewJobController(s.DB)
	applicationController := application.NewApplicationController(s.DB)
	reminderController := reminder.NewReminderController(s.DB)
	profileController := profile.NewProfileController(s.DB)
	skillController := skill.NewSkillController(s.DB)
	fileController := file.NewFileController(s.DB, newStorageClient())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.EnvRateLimitMiddleware())

	r.GET("/", s.HelloWorldHandler)
	r.GET("/health", s.healthHandler)

	v1 := r.Group("/api/v1")
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.POST("google/candidate", gAuth.CandidateGoogleLoginHandler)
			authRoute.POST("google/recruiter", gAuth.RecruiterGoogleLoginHandler)
			authRoute.GET("google/callback", gAuth.Callback)

			authRoute.POST("login", lAuth.LoginHandler)
			authRoute.POST("register", lAuth.RegisterHandler)
			authRoute.POST("logout", middleware.RequireAuth(s.DB), logout.LogoutHandler)
		}

		// Job listings are browsable without an account. A token, when
		// present, tailors the response and unlocks closed listings.
		jobRoute := v1.Group("/jobs")
		{
			jobRoute.GET("", middleware.OptionalAuth(s.DB), jobController.GetJobs)
			jobRoute.GET(":id", middleware.OptionalAuth(s.DB), jobController.GetJobByID)
		}

		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB), middleware.JwtBlacklistCheck(blacklistStore))

			fileRoute := needAuth.Group("/file")
			{
				fileRoute.GET(":id", fileController.GetFile)
			}

			needAuth.POST("/jobs", middleware.CheckRole(model.RoleRecruiter, model.RoleAdmin), jobController.CreateJobHandler)
			needRecruiterAdmin := needAuth.Group("/jobs")
			{
				needRecruiterAdmin.Use(middleware.CheckRole(model.RoleRecruiter, model.RoleAdmin))
				needRecruiterAdmin.PATCH(":id", jobController.EditJobHandler)
				needRecruiterAdmin.DELETE(":id", jobController.DeleteJobHandler)
			}

			applicationRoute := needAuth.Group("/applications")
			{
				applicationRoute.POST(":id", middleware.CheckRole(model.RoleCandidate), applicationController.ApplyHandler)
				applicationRoute.GET("my-applications", middleware.CheckRole(model.RoleCandidate), applicationController.MyApplicationsHandler)
				applicationRoute.GET("job/:jobId", middleware.CheckRole(model.RoleRecruiter, model.RoleAdmin), applicationController.GetApplicationsByJobHandler)
				applicationRoute.GET(":id", applicationController.GetApplicationByIDHandler)
				applicationRoute.PATCH(":id", middleware.CheckRole(model.RoleRecruiter, model.RoleAdmin), applicationController.UpdateStatusHandler)
				applicationRoute.PATCH(":id/notes", middleware.CheckRole(model.RoleRecruiter, model.RoleAdmin), applicationController.UpdateNotesHandler)
				applicationRoute.DELETE(":id", middleware.CheckRole(model.RoleCandidate, model.RoleAdmin), applicationController.DeleteApplicationHandler)

				reminders := applicationRoute.Group(":id/reminders")
				{
					reminders.Use(middleware.CheckRole(model.RoleRecruiter, model.RoleAdmin))
					reminders.POST("", reminderController.CreateReminderHandler)
					reminders.GET("", reminderController.GetRemindersByApplicationHandler)
				}
			}

			reminderRoute := needAuth.Group("/reminders")
			{
				reminderRoute.Use(middleware.CheckRole(model.RoleRecruiter, model.RoleAdmin))
				reminderRoute.PUT(":id", reminderController.UpdateReminderHandler)
				reminderRoute.DELETE(":id", reminderController.DeleteReminderHandler)
			}

			candidateRoute := needAuth.Group("/candidate")
			{
				candidateRoute.Use(middleware.CheckRole(model.RoleCandidate))
				candidateRoute.GET("myprofile", profileController.GetMyCandidateProfile)
				candidateRoute.PATCH("profile", profileController.EditCandidateProfile)
				candidateRoute.POST("profile/resume", middleware.SizeLimit(10<<20), fileController.UploadResume)
				candidateRoute.POST("profile/cover-letter", middleware.SizeLimit(10<<20), fileController.UploadCoverLetter)
			}

			recruiterRoute := needAuth.Group("/recruiter")
			{
				recruiterRoute.GET(":id", profileController.GetRecruiterByID)
				recruiterRoute.Use(middleware.CheckRole(model.RoleRecruiter))
				recruiterRoute.GET("myprofile", profileController.GetMyRecruiterProfile)
				recruiterRoute.PATCH("profile", profileController.EditRecruiterProfile)
			}

			skillRoute := needAuth.Group("/skills")
			{
				skillRoute.GET("", skillController.GetSkillsHandler)
				skillRoute.Use(middleware.CheckRole(model.RoleAdmin))
				skillRoute.POST("", skillController.CreateSkillHandler)
				skillRoute.PUT(":id", skillController.UpdateSkillHandler)
				skillRoute.DELETE(":id", skillController.DeleteSkillHandler)
			}
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// newBlacklistStore picks Redis when REDIS_ADDR is set, otherwise falls back
// to the in-process store.
func newBlacklistStore() auth.JwtBlacklistStore {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return auth.NewRedisBlacklistStore(addr, os.Getenv("REDIS_PASSWORD"))
	}
	return auth.NewInMemoryBlacklistStore()
}

// newStorageClient connects to the bucket named by STORAGE_BUCKET. File
// content stays in the database when no bucket is configured.
func newStorageClient() file.StorageClient {
	bucket := os.Getenv("STORAGE_BUCKET")
	if bucket == "" {
		return nil
	}
	client, err := file.NewCloudStorageClient(bucket)
	if err != nil {
		panic("failed to initialize cloud storage client: " + err.Error())
	}
	return client
}

// HelloWorldHandler handle request by return message "Hello World"
func (s *MyServer) HelloWorldHandler(c *gin.Context) {
	resp := make(map[string]string)
	resp["message"] = "Hello World"

	c.JSON(http.StatusOK, resp)
}

func (s *MyServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
