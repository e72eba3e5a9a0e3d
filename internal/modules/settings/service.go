package settings

import (
	"errors"
	"sync"

	"github.com/slmiksa/flyboy-beats-core/internal/models"
	"gorm.io/gorm"
)

const defaultMaintenanceMessage = "We're doing some work behind the decks. Back soon."

// Service manages the singleton site_settings row. Reads are cached
// in-process; every write invalidates the cache.
type Service struct {
	db     *gorm.DB
	mu     sync.RWMutex
	cached *models.SiteSettingsModel
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Get returns the settings row, or an in-memory default (site ACTIVE)
// when no row has been created yet.
func (s *Service) Get() (*models.SiteSettingsModel, error) {
	s.mu.RLock()
	if s.cached != nil {
		defer s.mu.RUnlock()
		return s.cached, nil
	}
	s.mu.RUnlock()

	return s.load()
}

func (s *Service) load() (*models.SiteSettingsModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var row models.SiteSettingsModel
	err := s.db.Order("created_at ASC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// No row yet: fail open, do not persist until an admin writes.
		def := models.SiteSettingsModel{
			MaintenanceMode:    false,
			MaintenanceMessage: defaultMaintenanceMessage,
		}
		s.cached = &def
		return s.cached, nil
	}
	if err != nil {
		return nil, err
	}
	s.cached = &row
	return s.cached, nil
}

// Snapshot returns the gate's read-side view. On any load error the
// snapshot reports Loaded=false so the gate fails open.
func (s *Service) Snapshot() Snapshot {
	row, err := s.Get()
	if err != nil || row == nil {
		return Snapshot{Loaded: false}
	}
	image := ""
	if row.MaintenanceImage != nil {
		image = *row.MaintenanceImage
	}
	return Snapshot{
		Loaded:          true,
		MaintenanceMode: row.MaintenanceMode,
		Message:         row.MaintenanceMessage,
		Image:           image,
	}
}

// Invalidate clears the in-memory cache, forcing a DB reload on next Get.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
}

// ToggleMaintenance flips maintenance mode with an optimistic version
// check. Message and image are left untouched, so toggling twice
// restores the original row bit for bit (version aside).
func (s *Service) ToggleMaintenance() (*models.SiteSettingsModel, error) {
	row, err := s.ensureRow()
	if err != nil {
		return nil, err
	}

	res := s.db.Model(&models.SiteSettingsModel{}).
		Where("id = ? AND version = ?", row.ID, row.Version).
		Updates(map[string]interface{}{
			"maintenance_mode": !row.MaintenanceMode,
			"version":          row.Version + 1,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		s.Invalidate()
		return nil, ErrVersionConflict
	}

	s.Invalidate()
	return s.Get()
}

// Update patches the maintenance message/image with the same version check.
func (s *Service) Update(dto *UpdateDTO) (*models.SiteSettingsModel, error) {
	row, err := s.ensureRow()
	if err != nil {
		return nil, err
	}

	// The bump is derived from the version we compare against, not the
	// cached row, so a stale cache cannot freeze the counter.
	patch := map[string]interface{}{"version": dto.Version + 1}
	if dto.MaintenanceMessage != nil {
		patch["maintenance_message"] = *dto.MaintenanceMessage
	}
	if dto.MaintenanceImage != nil {
		patch["maintenance_image"] = *dto.MaintenanceImage
	}

	res := s.db.Model(&models.SiteSettingsModel{}).
		Where("id = ? AND version = ?", row.ID, dto.Version).
		Updates(patch)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		s.Invalidate()
		return nil, ErrVersionConflict
	}

	s.Invalidate()
	return s.Get()
}

// ensureRow persists the default row if the table is still empty, so
// write paths always have an id+version to compare against.
func (s *Service) ensureRow() (*models.SiteSettingsModel, error) {
	row, err := s.Get()
	if err != nil {
		return nil, err
	}
	if row.ID != "" {
		return row, nil
	}

	created := models.SiteSettingsModel{
		MaintenanceMode:    row.MaintenanceMode,
		MaintenanceMessage: row.MaintenanceMessage,
		MaintenanceImage:   row.MaintenanceImage,
	}
	if err := s.db.Create(&created).Error; err != nil {
		return nil, err
	}
	s.Invalidate()
	return s.Get()
}
