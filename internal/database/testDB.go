package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "HireDesk-backend/internal/model"
	"HireDesk-backend/internal/utilities"
)

var testDBInstance *Instance
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported test users & profiles
var (
	TestAdminUser      m.User
	TestUserCandidate1 m.User
	TestUserCandidate2 m.User
	TestUserRecruiter1 m.User
	TestUserRecruiter2 m.User
	TestCandidate1     m.CandidateProfile
	TestCandidate2     m.CandidateProfile
	TestRecruiter1     m.RecruiterProfile
	TestRecruiter2     m.RecruiterProfile

	// Plain password shared by every seeded account
	TestSeedPassword = "SeedPass123!"

	// Exported seeded job listings. TestJob3 is closed.
	TestJob1 m.Job
	TestJob2 m.Job
	TestJob3 m.Job

	// Exported seeded skills
	TestSkillGo  m.Skill
	TestSkillSQL m.Skill
)

// GetTestDB starts a PostgreSQL test container and returns a teardown
// function, the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *Instance, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &Config{
		UseConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample candidate and recruiter records (2 each),
// three job listings and two skills if the database is empty.
func seedTestData(db *Instance) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}

	if userCount > 0 {
		return loadTestData(db)
	}

	emails := []*string{
		ptr("candidate1@example.com"),
		ptr("candidate2@example.com"),
		ptr("recruiter1@example.com"),
		ptr("recruiter2@example.com"),
		ptr("admin@example.com"),
	}
	userSpecs := []struct {
		username string
		email    *string
		role     string
	}{
		{"candidate_1", emails[0], m.RoleCandidate},
		{"candidate_2", emails[1], m.RoleCandidate},
		{"recruiter_1", emails[2], m.RoleRecruiter},
		{"recruiter_2", emails[3], m.RoleRecruiter},
		{"admin_user", emails[4], m.RoleAdmin},
	}

	// Pre-hash shared password for all seeded users
	hashedPwd, errHash := utilities.HashPassword(TestSeedPassword)
	if errHash != nil {
		return errHash
	}

	users := make([]m.User, 0, len(userSpecs))
	for _, s := range userSpecs {
		users = append(users, m.User{
			ID:       uuid.New(),
			Username: s.username,
			Email:    s.email,
			Role:     s.role,
			Password: hashedPwd,
		})
	}

	if err := db.Create(&users).Error; err != nil {
		return err
	}

	for _, u := range users {
		switch u.Username {
		case "candidate_1":
			TestUserCandidate1 = u
		case "candidate_2":
			TestUserCandidate2 = u
		case "recruiter_1":
			TestUserRecruiter1 = u
		case "recruiter_2":
			TestUserRecruiter2 = u
		case "admin_user":
			TestAdminUser = u
		}
	}

	candidateProfiles := []m.CandidateProfile{
		{
			UserID: TestUserCandidate1.ID,
			EditableCandidateInfo: m.EditableCandidateInfo{
				FirstName: "Alice",
				LastName:  "Nguyen",
				Tel:       ptr("0100000001"),
				SoftSkill: pq.StringArray{"Teamwork", "Communication"},
			},
		},
		{
			UserID: TestUserCandidate2.ID,
			EditableCandidateInfo: m.EditableCandidateInfo{
				FirstName: "Bob",
				LastName:  "Somsak",
				Tel:       ptr("0100000002"),
				SoftSkill: pq.StringArray{"Problem Solving", "Adaptability"},
			},
		},
	}
	if err := db.Create(&candidateProfiles).Error; err != nil {
		return err
	}

	recruiterProfiles := []m.RecruiterProfile{
		{
			UserID: TestUserRecruiter1.ID,
			EditableRecruiterInfo: m.EditableRecruiterInfo{
				CompanyName: "TechNova",
				Overview:    "Innovative platform solutions",
				Industry:    "Software",
				Tel:         ptr("0200000001"),
			},
		},
		{
			UserID: TestUserRecruiter2.ID,
			EditableRecruiterInfo: m.EditableRecruiterInfo{
				CompanyName: "DataForge",
				Overview:    "Data analytics consulting",
				Industry:    "Consulting",
				Tel:         ptr("0200000002"),
			},
		},
	}
	if err := db.Create(&recruiterProfiles).Error; err != nil {
		return err
	}

	TestCandidate1 = candidateProfiles[0]
	TestCandidate2 = candidateProfiles[1]
	TestRecruiter1 = recruiterProfiles[0]
	TestRecruiter2 = recruiterProfiles[1]

	skills := []m.Skill{
		{Name: "Go", Category: "Programming Language", Level: "Intermediate"},
		{Name: "SQL", Category: "Database", Level: "Basic"},
	}
	if err := db.Create(&skills).Error; err != nil {
		return err
	}
	TestSkillGo = skills[0]
	TestSkillSQL = skills[1]

	jobs := []m.Job{
		{
			RecruiterID: TestRecruiter1.UserID,
			EditableJobInfo: m.EditableJobInfo{
				CompanyName: "TechNova",
				Title:       "Backend Engineer",
				Desc:        "Work on Go microservices and database layers.",
				Experience:  "Junior",
				Location:    "Bangkok (Hybrid)",
				Type:        "Full-time",
				Salary:      "45000 THB",
				Tags:        pq.StringArray{"go", "backend", "api"},
				Status:      m.JobStatusOpen,
			},
		},
		{
			RecruiterID: TestRecruiter1.UserID,
			EditableJobInfo: m.EditableJobInfo{
				CompanyName: "TechNova",
				Title:       "Frontend Developer",
				Desc:        "Build the component library in React.",
				Experience:  "Junior",
				Location:    "Remote",
				Type:        "Full-time",
				Salary:      "40000 THB",
				Tags:        pq.StringArray{"react", "typescript", "ui"},
				Status:      m.JobStatusOpen,
			},
		},
		{
			RecruiterID: TestRecruiter2.UserID,
			EditableJobInfo: m.EditableJobInfo{
				CompanyName: "DataForge",
				Title:       "Data Analyst",
				Desc:        "Support data cleansing and dashboard creation.",
				Experience:  "Mid",
				Location:    "Chiang Mai (On-site)",
				Type:        "Contract",
				Salary:      "50000 THB",
				Tags:        pq.StringArray{"data", "sql", "analytics"},
				Status:      m.JobStatusClosed,
			},
		},
	}
	if err := db.Create(&jobs).Error; err != nil {
		return err
	}
	TestJob1 = jobs[0]
	TestJob2 = jobs[1]
	TestJob3 = jobs[2]

	return nil
}

// loadTestData populates exported variables when records already exist.
func loadTestData(db *Instance) error {
	var users []m.User
	if err := db.Find(&users).Error; err != nil {
		return err
	}
	for _, u := range users {
		switch u.Username {
		case "candidate_1":
			TestUserCandidate1 = u
		case "candidate_2":
			TestUserCandidate2 = u
		case "recruiter_1":
			TestUserRecruiter1 = u
		case "recruiter_2":
			TestUserRecruiter2 = u
		case "admin_user":
			TestAdminUser = u
		}
	}

	if err := db.Where("user_id = ?", TestUserCandidate1.ID).First(&TestCandidate1).Error; err != nil {
		return err
	}
	if err := db.Where("user_id = ?", TestUserCandidate2.ID).First(&TestCandidate2).Error; err != nil {
		return err
	}
	if err := db.Where("user_id = ?", TestUserRecruiter1.ID).First(&TestRecruiter1).Error; err != nil {
		return err
	}
	if err := db.Where("user_id = ?", TestUserRecruiter2.ID).First(&TestRecruiter2).Error; err != nil {
		return err
	}

	if err := db.Where("name = ?", "Go").First(&TestSkillGo).Error; err != nil {
		return err
	}
	if err := db.Where("name = ?", "SQL").First(&TestSkillSQL).Error; err != nil {
		return err
	}

	var jobs []m.Job
	if err := db.Order("id ASC").Find(&jobs).Error; err != nil {
		return err
	}
	if len(jobs) > 0 {
		TestJob1 = jobs[0]
	}
	if len(jobs) > 1 {
		TestJob2 = jobs[1]
	}
	if len(jobs) > 2 {
		TestJob3 = jobs[2]
	}

	return nil
}

func ptr[T any](v T) *T {
	return &v
}
