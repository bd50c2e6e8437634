// Package database implement connection to database service and initialize ORM.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	// Register pgx as a database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	// Load .env file to environments
	_ "github.com/joho/godotenv/autoload"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"HireDesk-backend/internal/model"
	"HireDesk-backend/internal/utilities"
)

// Instance holds the GORM DB handle plus its config and a lazily
// cached raw *sql.DB for pool statistics.
type Instance struct {
	*gorm.DB
	Config *Config

	sqlDB *sql.DB
	mu    sync.RWMutex
}

// Config holds the parameters for connecting to a database. When UseConstr
// is set, Constr wins over the individual fields.
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	DBName    string
	Constr    string
	UseConstr bool
}

func (c *Config) dsn() string {
	if c.UseConstr {
		if c.Constr == "" {
			log.Fatal("DB_CONNECTION_STR is empty")
		}
		return c.Constr
	}
	if c.Host == "" || c.Port == "" || c.User == "" || c.Password == "" || c.DBName == "" {
		log.Fatal("Database configuration is incomplete")
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.User, c.Password, c.Host, c.Port, c.DBName)
}

var (
	database      = os.Getenv("DB_DATABASE")
	password      = os.Getenv("DB_PASSWORD")
	username      = os.Getenv("DB_USERNAME")
	port          = os.Getenv("DB_PORT")
	host          = os.Getenv("DB_HOST")
	useEnvConnStr = os.Getenv("USE_CONNECTION_STR")
	envConStr     = os.Getenv("DB_CONNECTION_STR")

	mainInstance *Instance
)

// NewInstance connects to the database described by config, installs the
// uuid extension, migrates every registered model and bootstraps the admin
// account when configured.
func NewInstance(config *Config) (*Instance, error) {
	gdb, err := gorm.Open(postgres.Open(config.dsn()), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if gin.IsDebugging() {
		gdb = gdb.Debug()
	}

	db := &Instance{
		DB:     gdb,
		Config: config,
	}

	if err := db.installExtension(); err != nil {
		return nil, fmt.Errorf("failed to install extension: %w", err)
	}
	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	db.createAdmin()

	return db, nil
}

// GetMainDB returns the shared database instance, initializing it from
// environment variables on first use.
func GetMainDB() (*Instance, error) {
	if mainInstance != nil {
		return mainInstance, nil
	}

	useConstr := false
	if useEnvConnStr != "" {
		parsed, err := strconv.ParseBool(useEnvConnStr)
		if err != nil {
			log.Fatalf("USE_CONNECTION_STR environment variable is invalid: %v", err)
		}
		useConstr = parsed
	}

	db, err := NewInstance(&Config{
		Host:      host,
		Port:      port,
		User:      username,
		Password:  password,
		DBName:    database,
		UseConstr: useConstr,
		Constr:    envConStr,
	})
	if err != nil {
		return nil, err
	}

	mainInstance = db
	return mainInstance, nil
}

// Raw returns the underlying *sql.DB, caching it after the first successful
// retrieval. It is safe for concurrent use.
func (d *Instance) Raw() (*sql.DB, error) {
	if d == nil {
		return nil, fmt.Errorf("database instance is nil")
	}

	d.mu.RLock()
	if d.sqlDB != nil {
		raw := d.sqlDB
		d.mu.RUnlock()
		return raw, nil
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sqlDB != nil {
		return d.sqlDB, nil
	}
	if d.DB == nil {
		return nil, fmt.Errorf("gorm DB is nil")
	}
	raw, err := d.DB.DB()
	if err != nil {
		return nil, err
	}
	d.sqlDB = raw
	return raw, nil
}

func (d *Instance) createAdmin() {
	adminUsername := os.Getenv("ADMIN_USERNAME")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminUsername == "" || adminPassword == "" {
		log.Println("Admin username or password not set, skipping admin creation")
		return
	}

	var count int64
	d.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count)
	if count == 0 {
		utilities.CreateAdmin(adminPassword, adminUsername, d.DB)
	}
}

// Migrate database
func (d *Instance) Migrate() error {
	return d.AutoMigrate(model.MigrateAble...)
}

// Health checks the health of the database connection by pinging the
// database and reporting pool statistics.
func (d *Instance) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	raw, err := d.Raw()
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.Printf("db down: %v", err)
		return stats
	}

	if err := raw.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.Printf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	dbStats := raw.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()

	if dbStats.OpenConnections > 40 {
		stats["message"] = "The database is experiencing heavy load."
	}
	if dbStats.WaitCount > 1000 {
		stats["message"] = "The database has a high number of wait events, indicating potential bottlenecks."
	}

	return stats
}

// Close closes the database connection.
func (d *Instance) Close() error {
	log.Printf("Disconnected from database: %s", d.Config.DBName)
	raw, err := d.Raw()
	if err != nil {
		return err
	}
	return raw.Close()
}

func (d *Instance) installExtension() error {
	return d.WithContext(context.Background()).
		Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error
}
