package user

import (
	"errors"
	"testing"

	"github.com/slmiksa/flyboy-beats-core/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
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
	if err := db.AutoMigrate(&models.AdminModel{}, &models.AdminSession{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestEnsureBootstrapCreatesSuperAdminOnce(t *testing.T) {
	db := newTestDB(t)

	if err := EnsureBootstrap(db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureBootstrap: %v", err)
	}

	var admin models.AdminModel
	if err := db.Where("username = ?", models.BootstrapUsername).First(&admin).Error; err != nil {
		t.Fatalf("bootstrap admin missing: %v", err)
	}
	if !admin.IsSuperAdmin {
		t.Fatal("bootstrap admin must be a super admin")
	}
	if admin.Password == "" {
		t.Fatal("bootstrap admin must have a password hash")
	}
	if _, err := bcrypt.Cost([]byte(admin.Password)); err != nil {
		t.Fatalf("password is not a bcrypt hash: %v", err)
	}

	// A second boot must not create another account.
	if err := EnsureBootstrap(db, zap.NewNop()); err != nil {
		t.Fatalf("second EnsureBootstrap: %v", err)
	}
	var count int64
	if err := db.Model(&models.AdminModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 admin, got %d", count)
	}
}

func TestCreateDuplicateUsername(t *testing.T) {
	svc := NewService(newTestDB(t))

	dto := CreateDTO{Username: "resident", Password: "longenough"}
	if _, err := svc.Create(&dto); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(&dto)
	if !errors.Is(err, errUsernameTaken) {
		t.Fatalf("expected errUsernameTaken, got %v", err)
	}
}

func TestDeleteProtectsBootstrapAccount(t *testing.T) {
	db := newTestDB(t)
	if err := EnsureBootstrap(db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureBootstrap: %v", err)
	}
	svc := NewService(db)

	caller, err := svc.Create(&CreateDTO{Username: "resident", Password: "longenough", IsSuperAdmin: true})
	if err != nil {
		t.Fatalf("create caller: %v", err)
	}

	var bootstrap models.AdminModel
	if err := db.Where("username = ?", models.BootstrapUsername).First(&bootstrap).Error; err != nil {
		t.Fatalf("load bootstrap: %v", err)
	}

	if err := svc.Delete(caller.ID, bootstrap.ID); !errors.Is(err, errProtectedUser) {
		t.Fatalf("expected errProtectedUser, got %v", err)
	}
}

func TestDeleteSelfRejected(t *testing.T) {
	svc := NewService(newTestDB(t))

	caller, err := svc.Create(&CreateDTO{Username: "resident", Password: "longenough"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(caller.ID, caller.ID); !errors.Is(err, errSelfDelete) {
		t.Fatalf("expected errSelfDelete, got %v", err)
	}
}

func TestDeleteFreesUsername(t *testing.T) {
	svc := NewService(newTestDB(t))

	caller, err := svc.Create(&CreateDTO{Username: "caller", Password: "longenough"})
	if err != nil {
		t.Fatalf("create caller: %v", err)
	}
	target, err := svc.Create(&CreateDTO{Username: "resident", Password: "longenough"})
	if err != nil {
		t.Fatalf("create target: %v", err)
	}

	if err := svc.Delete(caller.ID, target.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// The username must be reusable once the account is gone.
	if _, err := svc.Create(&CreateDTO{Username: "resident", Password: "longenough"}); err != nil {
		t.Fatalf("recreate after delete: %v", err)
	}
}

func TestDeleteRevokesSessions(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	caller, err := svc.Create(&CreateDTO{Username: "caller", Password: "longenough"})
	if err != nil {
		t.Fatalf("create caller: %v", err)
	}
	target, err := svc.Create(&CreateDTO{Username: "target", Password: "longenough"})
	if err != nil {
		t.Fatalf("create target: %v", err)
	}
	sess := models.AdminSession{AdminID: target.ID}
	if err := db.Create(&sess).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}

	if err := svc.Delete(caller.ID, target.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var reloaded models.AdminSession
	if err := db.Unscoped().Where("id = ?", sess.ID).First(&reloaded).Error; err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if reloaded.RevokedAt == nil {
		t.Fatal("sessions of a deleted admin must be revoked")
	}
}
