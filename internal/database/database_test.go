package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"

	m "HireDesk-backend/internal/model"
	"HireDesk-backend/internal/utilities"
)

var testDB *Instance

func TestMain(tm *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var midTeardown func(context.Context, ...testcontainers.TerminateOption) error
	midTeardown, testDB, err = GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	tm.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if midTeardown != nil {
		_ = midTeardown(ctx)
	}
}

func TestHealth(t *testing.T) {
	stats := testDB.Health()

	assert.Equal(t, "up", stats["status"])
	assert.Equal(t, "It's healthy", stats["message"])
	assert.NotEmpty(t, stats["open_connections"])
}

func TestSeededUsersExist(t *testing.T) {
	var count int64
	err := testDB.Model(&m.User{}).Count(&count).Error

	assert.NoError(t, err)
	assert.GreaterOrEqual(t, count, int64(5))
	assert.NotEqual(t, "", TestUserCandidate1.Username)
	assert.Equal(t, m.RoleRecruiter, TestUserRecruiter1.Role)
	assert.Equal(t, m.RoleAdmin, TestAdminUser.Role)
}

func TestSeedPasswordsAreHashed(t *testing.T) {
	var user m.User
	err := testDB.Where("username = ?", TestUserCandidate1.Username).First(&user).Error

	assert.NoError(t, err)
	assert.NotEqual(t, TestSeedPassword, user.Password)
	assert.True(t, utilities.VerifyPassword(TestSeedPassword, user.Password))
	assert.False(t, utilities.VerifyPassword("wrong-password", user.Password))
}

func TestMigrateIsIdempotent(t *testing.T) {
	assert.NoError(t, testDB.Migrate())
}

func TestSeededJobs(t *testing.T) {
	var jobs []m.Job
	err := testDB.Find(&jobs).Error

	assert.NoError(t, err)
	assert.GreaterOrEqual(t, len(jobs), 3)
	assert.Equal(t, m.JobStatusClosed, TestJob3.Status)
	assert.Equal(t, TestRecruiter1.UserID, TestJob1.RecruiterID)
}
