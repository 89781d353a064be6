package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type slotRecord struct {
	Key       string `gorm:"primaryKey"`
	Data      string `gorm:"type:text;not null"`
	Version   int64  `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

func (slotRecord) TableName() string {
	return "slots"
}

// databaseSlot keeps the slot in a shared table so several server processes
// can run the local store against one database. Changes from other processes
// are noticed by polling the row version.
type databaseSlot struct {
	db           *gorm.DB
	key          string
	pollInterval time.Duration
}

func NewDatabaseSlot(db *gorm.DB, key string, pollInterval time.Duration) (Slot, error) {
	if err := db.AutoMigrate(&slotRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate slots table: %w", err)
	}
	return &databaseSlot{
		db:           db,
		key:          key,
		pollInterval: pollInterval,
	}, nil
}

func (s *databaseSlot) Load(ctx context.Context) ([]byte, error) {
	var record slotRecord
	err := s.db.WithContext(ctx).First(&record, "key = ?", s.key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load slot %s: %w", s.key, err)
	}
	return []byte(record.Data), nil
}

func (s *databaseSlot) Store(ctx context.Context, data []byte) error {
	record := slotRecord{
		Key:       s.key,
		Data:      string(data),
		Version:   1,
		UpdatedAt: time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"data":       record.Data,
			"version":    gorm.Expr("slots.version + 1"),
			"updated_at": record.UpdatedAt,
		}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to store slot %s: %w", s.key, err)
	}
	return nil
}

func (s *databaseSlot) version(ctx context.Context) (int64, error) {
	var record slotRecord
	err := s.db.WithContext(ctx).Select("version").First(&record, "key = ?", s.key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return record.Version, err
}

func (s *databaseSlot) Watch(ctx context.Context) (<-chan error, error) {
	seen, err := s.version(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read slot version: %w", err)
	}

	changes := make(chan error, 1)
	go func() {
		defer close(changes)

		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				current, err := s.version(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					select {
					case changes <- fmt.Errorf("failed to poll slot %s: %w", s.key, err):
					case <-ctx.Done():
						return
					}
					continue
				}
				if current == seen {
					continue
				}
				seen = current
				select {
				case changes <- nil:
				default:
				}
			}
		}
	}()

	return changes, nil
}

// Close leaves the connection pool open; it belongs to the caller.
func (s *databaseSlot) Close() error {
	return nil
}
