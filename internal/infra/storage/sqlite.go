package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"admin_go/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// State keys. Everything the console persists locally lives in one
// key/value table.
const (
	keySessionToken     = "session_token"
	keySettingsSnapshot = "settings_snapshot"
	keyLastRefresh      = "last_refresh"
)

// Storage is the console-local persistence layer (SQLite, pure Go).
type Storage struct {
	db *gorm.DB
}

// NewStorage creates a new SQLite storage instance. dataDir overrides the
// OS-default location when non-empty.
func NewStorage(dataDir string) (*Storage, error) {
	dbPath, err := getDBPath(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve DB path: %w", err)
	}

	// Ensure directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&domain.ConsoleState{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

func getDBPath(dataDir string) (string, error) {
	if dataDir != "" {
		return filepath.Join(dataDir, "console.db"), nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "AdminConsole", "data", "console.db"), nil
}

// SaveValue stores a state value under key.
func (s *Storage) SaveValue(key, value string) error {
	state := domain.ConsoleState{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return s.db.Save(&state).Error
}

// GetValue retrieves a state value. A missing key is not an error; it
// returns the empty string.
func (s *Storage) GetValue(key string) (string, error) {
	var state domain.ConsoleState
	err := s.db.First(&state, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return state.Value, err
}

// DeleteValue removes a state key.
func (s *Storage) DeleteValue(key string) error {
	return s.db.Where("key = ?", key).Delete(&domain.ConsoleState{}).Error
}

// SaveSessionToken persists the opaque bearer token.
func (s *Storage) SaveSessionToken(token string) error {
	return s.SaveValue(keySessionToken, token)
}

// LoadSessionToken returns the persisted token, empty when none.
func (s *Storage) LoadSessionToken() (string, error) {
	return s.GetValue(keySessionToken)
}

// ClearSessionToken removes the persisted token on logout.
func (s *Storage) ClearSessionToken() error {
	return s.DeleteValue(keySessionToken)
}

// SaveSettingsSnapshot caches the last fetched platform settings so the
// settings view can render while a refresh is in flight.
func (s *Storage) SaveSettingsSnapshot(settings *domain.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return s.SaveValue(keySettingsSnapshot, string(data))
}

// LoadSettingsSnapshot returns the cached settings, nil when none cached.
func (s *Storage) LoadSettingsSnapshot() (*domain.Settings, error) {
	raw, err := s.GetValue(keySettingsSnapshot)
	if err != nil || raw == "" {
		return nil, err
	}

	var settings domain.Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// MarkRefreshed records the completion time of a dashboard refresh cycle.
func (s *Storage) MarkRefreshed(at time.Time) error {
	return s.SaveValue(keyLastRefresh, at.Format(time.RFC3339))
}

// LastRefreshed returns the recorded refresh time, zero when never.
func (s *Storage) LastRefreshed() (time.Time, error) {
	raw, err := s.GetValue(keyLastRefresh)
	if err != nil || raw == "" {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, raw)
}
