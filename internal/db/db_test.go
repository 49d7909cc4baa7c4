package db

import (
	"fmt"
	"io/fs"
	"strings"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/suPer8Hu/wholesale-platform/internal/catalog"
	"github.com/suPer8Hu/wholesale-platform/internal/membership"
	"gorm.io/gorm"
)

func TestMaskDSN(t *testing.T) {
	got := MaskDSN("app:s3cr3t@tcp(127.0.0.1:3306)/wholesale?parseTime=true")
	if strings.Contains(got, "s3cr3t") || !strings.HasPrefix(got, "app:***@tcp(") {
		t.Fatalf("password not masked: %s", got)
	}
}

func TestAutoMigrateAndSeedIdempotent(t *testing.T) {
	gdb, err := gorm.Open(gormsqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Prepare(gdb, false, true); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := Seed(gdb); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	var grades, tiers int64
	gdb.Model(&catalog.ConditionGrade{}).Count(&grades)
	gdb.Model(&membership.Tier{}).Count(&tiers)
	if grades != 3 || tiers != 4 {
		t.Fatalf("expected 3 grades and 4 tiers, got %d and %d", grades, tiers)
	}
	for _, table := range []string{"cart_items", "faq_items", "notification_jobs", "support_agents", "quote_history"} {
		if !gdb.Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}
}

func TestMigrationFilesPaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	if ups == 0 || ups != downs {
		t.Fatalf("expected paired migrations, got up=%d down=%d", ups, downs)
	}
}
