package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"jget.app/jget/desk/model"
)

type LogLevel int

const (
	LogLevelSilent LogLevel = iota + 1
	LogLevelError
	LogLevelWarn
	LogLevelInfo
)

// MirrorStore persists the last confirmed view of each shift plus the
// mutation journal in a local sqlite file. The CRM stays the source of
// truth; the mirror only bridges restarts and audits what was applied.
type MirrorStore struct {
	db *gorm.DB
}

func New(path string, logLevel LogLevel) (*MirrorStore, error) {
	gormLogLevel := logger.Silent
	switch logLevel {
	case LogLevelError:
		gormLogLevel = logger.Error
	case LogLevelWarn:
		gormLogLevel = logger.Warn
	case LogLevelInfo:
		gormLogLevel = logger.Info
	case LogLevelSilent:
		gormLogLevel = logger.Silent
	default:
		gormLogLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open mirror store: %w", err)
	}

	if err := db.AutoMigrate(&model.Snapshot{}, &model.JournalEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate mirror store: %w", err)
	}

	return &MirrorStore{db: db}, nil
}

// SaveSnapshot replaces the stored view of one shift.
func (s *MirrorStore) SaveSnapshot(ctx context.Context, shiftID int, view any) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	snap := model.Snapshot{
		ShiftID: shiftID,
		TakenAt: time.Now().UTC(),
		Payload: payload,
	}
	return s.db.WithContext(ctx).Save(&snap).Error
}

// LoadSnapshot unmarshals the stored view into dest and returns when it
// was taken. gorm.ErrRecordNotFound means no snapshot exists yet.
func (s *MirrorStore) LoadSnapshot(ctx context.Context, shiftID int, dest any) (time.Time, error) {
	var snap model.Snapshot
	if err := s.db.WithContext(ctx).First(&snap, "shift_id = ?", shiftID).Error; err != nil {
		return time.Time{}, err
	}
	if err := json.Unmarshal(snap.Payload, dest); err != nil {
		return time.Time{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return snap.TakenAt, nil
}

// Record appends a confirmed mutation to the journal. It implements the
// desk's journal interface.
func (s *MirrorStore) Record(ctx context.Context, shiftID int, entityKey, kind string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal journal payload: %w", err)
	}

	entry := model.JournalEntry{
		ID:        uuid.NewString(),
		ShiftID:   shiftID,
		EntityKey: entityKey,
		Kind:      kind,
		Payload:   body,
	}
	return s.db.WithContext(ctx).Create(&entry).Error
}

// Journal returns the newest entries for one shift.
func (s *MirrorStore) Journal(ctx context.Context, shiftID int, limit int) ([]model.JournalEntry, error) {
	var entries []model.JournalEntry
	err := s.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *MirrorStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
