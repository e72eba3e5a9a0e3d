package settings

import (
	"errors"
	"testing"

	"github.com/slmiksa/flyboy-beats-core/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.SiteSettingsModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestGetReturnsDefaultWithoutRow(t *testing.T) {
	svc := NewService(newTestDB(t))

	row, err := svc.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if row.MaintenanceMode {
		t.Fatal("default settings must have maintenance off")
	}
	if row.MaintenanceMessage == "" {
		t.Fatal("default settings must carry a message")
	}
	if row.ID != "" {
		t.Fatal("default must not be persisted before an admin writes")
	}

	var count int64
	if err := svc.db.Model(&models.SiteSettingsModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty table, got %d rows", count)
	}
}

func TestToggleTwiceRestoresState(t *testing.T) {
	svc := NewService(newTestDB(t))

	msg := "back at midnight"
	if _, err := svc.Update(&UpdateDTO{MaintenanceMessage: &msg, Version: 0}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	on, err := svc.ToggleMaintenance()
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !on.MaintenanceMode {
		t.Fatal("first toggle must enable maintenance")
	}
	if on.MaintenanceMessage != msg {
		t.Fatalf("toggle must not touch the message, got %q", on.MaintenanceMessage)
	}

	off, err := svc.ToggleMaintenance()
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if off.MaintenanceMode {
		t.Fatal("second toggle must disable maintenance")
	}
	if off.MaintenanceMessage != msg {
		t.Fatalf("message changed across toggles: %q", off.MaintenanceMessage)
	}
}

func TestUpdateStaleVersionConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	msg := "first write"
	row, err := svc.Update(&UpdateDTO{MaintenanceMessage: &msg, Version: 0})
	if err != nil {
		t.Fatalf("seed update: %v", err)
	}

	// A concurrent admin writing with the stale version must lose.
	stale := "stale write"
	_, err = svc.Update(&UpdateDTO{MaintenanceMessage: &stale, Version: row.Version - 1})
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	current, err := svc.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if current.MaintenanceMessage != msg {
		t.Fatalf("stale write must not apply, got %q", current.MaintenanceMessage)
	}
}

func TestUpdateBumpsCheckedVersionDespiteStaleCache(t *testing.T) {
	db := newTestDB(t)
	svcA := NewService(db)
	svcB := NewService(db)

	msg := "v1"
	if _, err := svcA.Update(&UpdateDTO{MaintenanceMessage: &msg, Version: 0}); err != nil {
		t.Fatalf("seed update: %v", err)
	}
	// svcB caches the row at version 1.
	if _, err := svcB.Get(); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	msg2 := "v2"
	if _, err := svcA.Update(&UpdateDTO{MaintenanceMessage: &msg2, Version: 1}); err != nil {
		t.Fatalf("second update: %v", err)
	}

	// svcB's cache is now stale, but its caller presents the current
	// version; the write must land and the counter must keep moving.
	msg3 := "v3"
	row, err := svcB.Update(&UpdateDTO{MaintenanceMessage: &msg3, Version: 2})
	if err != nil {
		t.Fatalf("stale-cache update: %v", err)
	}
	if row.Version != 3 {
		t.Fatalf("version = %d, want 3", row.Version)
	}
	if row.MaintenanceMessage != msg3 {
		t.Fatalf("message = %q, want %q", row.MaintenanceMessage, msg3)
	}
}

func TestSnapshotReflectsToggle(t *testing.T) {
	svc := NewService(newTestDB(t))

	if snap := svc.Snapshot(); !snap.Loaded || snap.MaintenanceMode {
		t.Fatalf("fresh snapshot should be loaded and active, got %+v", snap)
	}

	if _, err := svc.ToggleMaintenance(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	snap := svc.Snapshot()
	if !snap.Loaded || !snap.MaintenanceMode {
		t.Fatalf("snapshot must reflect maintenance, got %+v", snap)
	}
	if snap.Message == "" {
		t.Fatal("maintenance snapshot must carry a message")
	}
}

func TestInvalidateForcesReload(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	if _, err := svc.ToggleMaintenance(); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	// Another process flips the row behind our back.
	if err := db.Model(&models.SiteSettingsModel{}).
		Where("1 = 1").Update("maintenance_mode", false).Error; err != nil {
		t.Fatalf("raw update: %v", err)
	}

	if snap := svc.Snapshot(); !snap.MaintenanceMode {
		t.Fatal("cached snapshot should still show maintenance")
	}
	svc.Invalidate()
	if snap := svc.Snapshot(); snap.MaintenanceMode {
		t.Fatal("invalidated snapshot must reload from the database")
	}
}
