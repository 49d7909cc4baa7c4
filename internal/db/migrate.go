package db

import (
	"embed"
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/suPer8Hu/wholesale-platform/internal/cart"
	"github.com/suPer8Hu/wholesale-platform/internal/catalog"
	"github.com/suPer8Hu/wholesale-platform/internal/chat"
	"github.com/suPer8Hu/wholesale-platform/internal/faq"
	"github.com/suPer8Hu/wholesale-platform/internal/inquiry"
	"github.com/suPer8Hu/wholesale-platform/internal/membership"
	"github.com/suPer8Hu/wholesale-platform/internal/models"
	"github.com/suPer8Hu/wholesale-platform/internal/notify"
	"github.com/suPer8Hu/wholesale-platform/internal/order"
	"github.com/suPer8Hu/wholesale-platform/internal/pricing"
	"github.com/suPer8Hu/wholesale-platform/internal/profile"
	"github.com/suPer8Hu/wholesale-platform/internal/quote"
	"github.com/suPer8Hu/wholesale-platform/internal/rfq"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Models lists every table owned by the service, in dependency order.
func Models() []any {
	return []any{
		&models.User{},
		&catalog.Category{}, &catalog.ConditionGrade{}, &catalog.Product{},
		&catalog.Certification{}, &catalog.ProductCertification{},
		&pricing.Tier{},
		&rfq.Inquiry{},
		&profile.BuyerProfile{},
		&order.Order{}, &order.Item{},
		&quote.Quote{}, &quote.Item{}, &quote.History{},
		&membership.Tier{}, &membership.UserMembership{}, &membership.Discount{},
		&chat.Session{}, &chat.Message{}, &chat.Agent{},
		&inquiry.Notification{},
		&notify.Job{},
		&faq.Category{}, &faq.Item{},
		&cart.Item{},
	}
}

// AutoMigrate creates or updates the schema from the gorm models.
func AutoMigrate(gdb *gorm.DB) error {
	for _, m := range Models() {
		if err := gdb.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

// RunMigrations applies the embedded SQL migrations through golang-migrate.
func RunMigrations(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return err
	}
	driver, err := migratemysql.WithInstance(sqlDB, &migratemysql.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "mysql", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Prepare brings the schema up to date and optionally seeds reference data.
func Prepare(gdb *gorm.DB, useMigrations, seed bool) error {
	if useMigrations {
		if err := RunMigrations(gdb); err != nil {
			return fmt.Errorf("sql migrations: %w", err)
		}
	} else if err := AutoMigrate(gdb); err != nil {
		return err
	}
	for _, table := range []string{"users", "products", "quotes", "orders"} {
		if !gdb.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	if seed {
		return Seed(gdb)
	}
	return nil
}
