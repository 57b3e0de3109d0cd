package database

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/morshidulrahman/testomg-babe/app/models"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/env"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Supported values of DB_DRIVER.
const (
	DriverMySQL = "mysql"
	DriverMongo = "mongo"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

var (
	DB    *gorm.DB
	Mongo *mongo.Database
)

// Driver returns the configured storage backend.
func Driver() string {
	if env.GetEnv("DB_DRIVER", DriverMySQL) == DriverMongo {
		return DriverMongo
	}
	return DriverMySQL
}

// SetupDatabase connects the configured backend, retrying a few times while
// the server comes up. It panics when every attempt fails.
func SetupDatabase() {
	if Driver() == DriverMongo {
		setupMongo()
		return
	}
	setupMySQL()
}

func mysqlDSN() string {
	// "user:pass@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local"
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)
}

func setupMySQL() {
	var err error
	dsn := mysqlDSN()

	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                       dsn,
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		}), &gorm.Config{})
		if err == nil {
			if err = AutoMigrate(DB); err != nil {
				log.Errorf("[Database] AutoMigrate failed: %v", err)
			}
			log.Info("[Database] Connected to MySQL")
			return
		}

		log.Warnf("[Database] Failed to connect to database (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			log.Infof("[Database] Retrying in %v...", retryDelay)
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		panic(err)
	}
}

// AutoMigrate creates or updates the tables of all persisted models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Payment{},
		&models.BillingWebhookEvent{},
	)
}

func setupMongo() {
	uri := env.GetEnv("MONGO_URI", "mongodb://127.0.0.1:27017")
	name := env.GetEnv("MONGO_DATABASE", "app")

	var err error
	for i := 0; i < maxRetries; i++ {
		var client *mongo.Client
		client, err = mongo.Connect(options.Client().ApplyURI(uri))
		if err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err = client.Ping(ctx, nil)
			cancel()
		}
		if err == nil {
			Mongo = client.Database(name)
			log.Infof("[Database] Connected to MongoDB database %q", name)
			return
		}

		log.Warnf("[Database] Failed to connect to MongoDB (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	panic(err)
}

// GetDB returns the GORM handle (nil when running on MongoDB).
func GetDB() *gorm.DB {
	return DB
}

// GetMongo returns the MongoDB database (nil when running on MySQL).
func GetMongo() *mongo.Database {
	return Mongo
}
