package data

import (
	"log"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MustDB opens the database named by url and exits on failure. The prefix
// selects the driver: "mysql://dsn" or "sqlite://path".
func MustDB(url string) *gorm.DB {
	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(url, "mysql://"):
		dialector = mysql.Open(strings.TrimPrefix(url, "mysql://"))
	case strings.HasPrefix(url, "sqlite://"):
		dialector = sqlite.Open(strings.TrimPrefix(url, "sqlite://"))
	default:
		log.Fatalf("db: DATABASE_URL must start with mysql:// or sqlite://, got %q", url)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	return db
}
