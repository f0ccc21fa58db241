package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
	"github.com/ericfisherdev/mydashboard/internal/domain/port/driven"
)

// settingsID is the primary key of the only settings row.
const settingsID = 1

// Compile-time interface satisfaction check.
var _ driven.SettingsStore = (*SettingsRepo)(nil)

// SettingsRepo is the SQLite implementation of the SettingsStore port.
type SettingsRepo struct {
	db *DB
}

// NewSettingsRepo creates a new SettingsRepo backed by the given DB.
func NewSettingsRepo(db *DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get returns the settings row, or (nil, nil) if it was never created.
func (r *SettingsRepo) Get(ctx context.Context) (*model.Settings, error) {
	var rec settingsRecord
	err := r.db.read.WithContext(ctx).First(&rec, settingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	s := toSettings(rec)
	return &s, nil
}

// EnsureExists inserts defaults when the row is missing and returns what is
// stored. An existing row is never overwritten.
func (r *SettingsRepo) EnsureExists(ctx context.Context, defaults model.Settings) (model.Settings, error) {
	repos := defaults.TrackedRepos
	if repos == nil {
		repos = []string{}
	}
	rec := settingsRecord{
		ID:             settingsID,
		GitHubUsername: defaults.GitHubUsername,
		TrackedRepos:   repos,
	}

	err := r.db.write.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rec).Error
	if err != nil {
		return model.Settings{}, fmt.Errorf("ensure settings: %w", err)
	}

	var stored settingsRecord
	if err := r.db.write.WithContext(ctx).First(&stored, settingsID).Error; err != nil {
		return model.Settings{}, fmt.Errorf("reload settings: %w", err)
	}
	return toSettings(stored), nil
}

// Save writes every settings field, creating the row if needed.
func (r *SettingsRepo) Save(ctx context.Context, s model.Settings) (model.Settings, error) {
	repos := s.TrackedRepos
	if repos == nil {
		repos = []string{}
	}

	var saved settingsRecord
	err := r.db.write.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec settingsRecord
		err := tx.First(&rec, settingsID).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		rec.ID = settingsID
		rec.GitHubUsername = s.GitHubUsername
		rec.TrackedRepos = repos
		if err := tx.Save(&rec).Error; err != nil {
			return err
		}
		saved = rec
		return nil
	})
	if err != nil {
		return model.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return toSettings(saved), nil
}
