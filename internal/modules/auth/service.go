package auth

import (
	"errors"
	"time"

	"github.com/slmiksa/flyboy-beats-core/internal/models"
	sessionpkg "github.com/slmiksa/flyboy-beats-core/internal/pkg/session"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Login verifies credentials and mints a fresh session-backed token.
// Every successful call issues an independent token; earlier sessions
// are not invalidated.
func (s *Service) Login(username, password, ip, ua string) (string, *models.AdminModel, error) {
	var admin models.AdminModel
	if err := s.db.Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			time.Sleep(time.Second)
			return "", nil, errUserNotFound
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		time.Sleep(time.Second)
		return "", nil, errWrongPassword
	}

	token, _, err := sessionpkg.Issue(s.db, admin.ID, ip, ua, sessionpkg.DefaultTTL)
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	_ = s.db.Model(&admin).Updates(map[string]interface{}{
		"last_login_time": &now,
		"last_login_ip":   ip,
	}).Error

	return token, &admin, nil
}

// Logout revokes the session backing the presented token.
func (s *Service) Logout(adminID, sessionID string) error {
	return sessionpkg.Revoke(s.db, adminID, sessionID)
}

// GetAdmin loads the admin row for the session endpoint.
func (s *Service) GetAdmin(adminID string) (*models.AdminModel, error) {
	var admin models.AdminModel
	if err := s.db.Where("id = ?", adminID).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}
