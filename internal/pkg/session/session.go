package session

import (
	"strings"
	"time"

	"github.com/slmiksa/flyboy-beats-core/internal/models"
	jwtpkg "github.com/slmiksa/flyboy-beats-core/internal/pkg/jwt"
	"gorm.io/gorm"
)

const DefaultTTL = 7 * 24 * time.Hour

// Issue creates a DB session and signs a JWT bound to that session.
// Each call mints an independent session; earlier ones stay valid
// until they expire or are revoked.
func Issue(db *gorm.DB, adminID, ip, ua string, ttl time.Duration) (string, *models.AdminSession, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := time.Now()
	s := &models.AdminSession{
		AdminID:   adminID,
		IP:        strings.TrimSpace(ip),
		UA:        strings.TrimSpace(ua),
		ExpiresAt: now.Add(ttl),
	}
	if err := db.Create(s).Error; err != nil {
		return "", nil, err
	}

	token, err := jwtpkg.Sign(adminID, s.ID, ttl)
	if err != nil {
		_ = db.Delete(s).Error
		return "", nil, err
	}
	return token, s, nil
}

// IsActive reports whether the session is unexpired and unrevoked.
func IsActive(db *gorm.DB, adminID, sessionID string) (bool, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return false, nil
	}

	var count int64
	err := db.Model(&models.AdminSession{}).
		Where("id = ? AND admin_id = ? AND revoked_at IS NULL AND expires_at > ?", sessionID, adminID, time.Now()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Touch bumps the session's updated_at so recently used sessions sort first.
func Touch(db *gorm.DB, adminID, sessionID string) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return
	}
	_ = db.Model(&models.AdminSession{}).
		Where("id = ? AND admin_id = ? AND revoked_at IS NULL AND expires_at > ?", sessionID, adminID, time.Now()).
		Update("updated_at", time.Now()).Error
}

// Revoke marks a single session as revoked.
func Revoke(db *gorm.DB, adminID, sessionID string) error {
	now := time.Now()
	res := db.Model(&models.AdminSession{}).
		Where("id = ? AND admin_id = ? AND revoked_at IS NULL", sessionID, adminID).
		Update("revoked_at", &now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RevokeAll revokes every active session of an admin (e.g. after the
// account is deleted).
func RevokeAll(db *gorm.DB, adminID string) error {
	now := time.Now()
	return db.Model(&models.AdminSession{}).
		Where("admin_id = ? AND revoked_at IS NULL", adminID).
		Update("revoked_at", &now).Error
}
