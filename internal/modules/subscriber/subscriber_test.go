package subscriber

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
	if err := db.AutoMigrate(&models.SubscriberModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSubscribeNormalizesEmail(t *testing.T) {
	svc := NewService(newTestDB(t))

	sub, err := svc.Subscribe("  Fan@Example.COM ")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if sub.Email != "fan@example.com" {
		t.Fatalf("email = %q, want lowercased/trimmed", sub.Email)
	}
	if sub.CancelToken == "" {
		t.Fatal("a cancel token must be generated")
	}
	if !sub.IsActive {
		t.Fatal("new subscribers must be active")
	}
}

func TestSubscribeDuplicateConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	if _, err := svc.Subscribe("fan@example.com"); err != nil {
		t.Fatalf("first subscribe: %v", err)
	}
	_, err := svc.Subscribe("FAN@example.com")
	if !errors.Is(err, ErrAlreadySubscribed) {
		t.Fatalf("expected ErrAlreadySubscribed, got %v", err)
	}

	var count int64
	if err := db.Model(&models.SubscriberModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("duplicate must not add a row, got %d", count)
	}
}

func TestUnsubscribeKeepsRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	sub, err := svc.Subscribe("fan@example.com")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if err := svc.Unsubscribe(sub.CancelToken); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}

	var reloaded models.SubscriberModel
	if err := db.Where("id = ?", sub.ID).First(&reloaded).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.IsActive {
		t.Fatal("unsubscribed entry must be inactive")
	}

	// The email is still taken.
	if _, err := svc.Subscribe("fan@example.com"); !errors.Is(err, ErrAlreadySubscribed) {
		t.Fatalf("expected ErrAlreadySubscribed after unsubscribe, got %v", err)
	}
}

func TestDeleteFreesEmail(t *testing.T) {
	svc := NewService(newTestDB(t))

	sub, err := svc.Subscribe("fan@example.com")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if err := svc.Delete(sub.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// The address must be able to come back after an admin removed it.
	if _, err := svc.Subscribe("fan@example.com"); err != nil {
		t.Fatalf("re-subscribe after delete: %v", err)
	}
}

func TestUnsubscribeUnknownToken(t *testing.T) {
	svc := NewService(newTestDB(t))
	if err := svc.Unsubscribe("nope"); err == nil {
		t.Fatal("unknown token must error")
	}
}

func TestActiveEmailsExcludesInactive(t *testing.T) {
	svc := NewService(newTestDB(t))

	first, err := svc.Subscribe("first@example.com")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if _, err := svc.Subscribe("second@example.com"); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := svc.Unsubscribe(first.CancelToken); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}

	emails, err := svc.ActiveEmails()
	if err != nil {
		t.Fatalf("ActiveEmails: %v", err)
	}
	if len(emails) != 1 || emails[0] != "second@example.com" {
		t.Fatalf("got %v, want [second@example.com]", emails)
	}
}

func TestImportSkipsInvalidAndDuplicates(t *testing.T) {
	svc := NewService(newTestDB(t))

	if _, err := svc.Subscribe("existing@example.com"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	added, skipped, err := svc.Import([]string{
		"new@example.com",
		"not-an-email",
		"existing@example.com",
		"Another@Example.com",
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if added != 2 {
		t.Fatalf("added = %d, want 2", added)
	}
	if skipped != 2 {
		t.Fatalf("skipped = %d, want 2", skipped)
	}
}
