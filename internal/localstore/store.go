// Package localstore is the durable browser-local-storage equivalent: a
// small SQLite file holding session keys, entity snapshots and UI settings.
package localstore

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Durable keys shared with the legacy web client.
const (
	KeyIsLoggedIn  = "ehm_is_logged_in"
	KeyCurrentUser = "ehm_current_user"
	KeyToken       = "ehm_token"
	KeyUsers       = "ehm_users"
	KeyDarkMode    = "ehm_dark_mode"
	KeySettings    = "ehm_settings"
)

type kvEntry struct {
	Key       string    `gorm:"primaryKey;column:key"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (kvEntry) TableName() string {
	return "kv_entries"
}

type snapshot struct {
	Kind    string    `gorm:"primaryKey;column:kind"`
	Payload string    `gorm:"column:payload;not null"`
	TakenAt time.Time `gorm:"column:taken_at"`
}

func (snapshot) TableName() string {
	return "snapshots"
}

type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Open opens (and if needed creates) the local store. Schema upgrades for
// existing installations run through goose; AutoMigrate covers fresh files.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	if err := db.AutoMigrate(&kvEntry{}, &snapshot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate local store: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Get(key string) (string, bool, error) {
	var entry kvEntry
	err := s.db.Where("key = ?", key).First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", false, nil
		}
		return "", false, err
	}
	return entry.Value, true, nil
}

func (s *Store) Set(key, value string) error {
	return s.SetAll(map[string]string{key: value})
}

// SetAll writes every pair in one transaction so session keys land as a
// unit; a partial write can never be observed.
func (s *Store) SetAll(values map[string]string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			entry := kvEntry{Key: key, Value: value, UpdatedAt: time.Now()}
			if err := tx.Save(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteAll removes the given keys in one transaction. Missing keys are not
// an error.
func (s *Store) DeleteAll(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Where("key IN ?", keys).Delete(&kvEntry{}).Error
	})
}

// SaveSnapshot stores an offline fallback copy of an entity collection.
func (s *Store) SaveSnapshot(kind, payload string) error {
	snap := snapshot{Kind: kind, Payload: payload, TakenAt: time.Now()}
	if err := s.db.Save(&snap).Error; err != nil {
		return fmt.Errorf("failed to save %s snapshot: %w", kind, err)
	}
	return nil
}

func (s *Store) LoadSnapshot(kind string) (string, time.Time, bool, error) {
	var snap snapshot
	err := s.db.Where("kind = ?", kind).First(&snap).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", time.Time{}, false, nil
		}
		return "", time.Time{}, false, err
	}
	return snap.Payload, snap.TakenAt, true, nil
}
