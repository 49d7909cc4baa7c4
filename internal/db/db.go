package db

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectAttempts = 10

func logLevel(name string) logger.LogLevel {
	switch strings.ToLower(name) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info", "debug":
		return logger.Info
	default:
		return logger.Warn
	}
}

var passwordInDSN = regexp.MustCompile(`^([^:]*):([^@]*)@`)

// MaskDSN hides the password of a go-sql-driver DSN.
func MaskDSN(dsn string) string {
	return passwordInDSN.ReplaceAllString(dsn, "${1}:***@")
}

// Connect opens MySQL, retrying while the server comes up, and pings it.
func Connect(dsn, level string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel(level))}
	var (
		gdb *gorm.DB
		err error
	)
	for i := 0; i < connectAttempts; i++ {
		gdb, err = gorm.Open(mysql.Open(dsn), cfg)
		if err == nil {
			break
		}
		log.Printf("[DB] connect attempt=%d failed: %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database after retries: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	log.Printf("[DB] connected dsn=%s", MaskDSN(dsn))
	return gdb, nil
}
