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

// Compile-time interface satisfaction check.
var _ driven.ObjectiveStore = (*ObjectiveRepo)(nil)

// ObjectiveRepo is the SQLite implementation of the ObjectiveStore port.
// Soft deletes are handled by gorm.DeletedAt: deleted rows are filtered from
// every query, including preloaded key results.
type ObjectiveRepo struct {
	db *DB
}

// NewObjectiveRepo creates a new ObjectiveRepo backed by the given DB.
func NewObjectiveRepo(db *DB) *ObjectiveRepo {
	return &ObjectiveRepo{db: db}
}

func preloadKeyResults(tx *gorm.DB) *gorm.DB {
	return tx.Preload("KeyResults", func(db *gorm.DB) *gorm.DB {
		return db.Order(newestFirst)
	})
}

// ListObjectives returns live objectives newest first with their key results.
func (r *ObjectiveRepo) ListObjectives(ctx context.Context) ([]model.Objective, error) {
	var recs []objectiveRecord
	err := preloadKeyResults(r.db.read.WithContext(ctx)).
		Order(newestFirst).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list objectives: %w", err)
	}

	objectives := make([]model.Objective, 0, len(recs))
	for _, rec := range recs {
		objectives = append(objectives, toObjective(rec))
	}
	return objectives, nil
}

// GetObjective returns the objective or (nil, nil) if it is missing or deleted.
func (r *ObjectiveRepo) GetObjective(ctx context.Context, id string) (*model.Objective, error) {
	return r.getObjective(ctx, r.db.read, id)
}

func (r *ObjectiveRepo) getObjective(ctx context.Context, db *gorm.DB, id string) (*model.Objective, error) {
	var rec objectiveRecord
	err := preloadKeyResults(db.WithContext(ctx)).
		Where("id = ?", id).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get objective %s: %w", id, err)
	}
	o := toObjective(rec)
	return &o, nil
}

// CreateObjective inserts o. Key results on o are ignored.
func (r *ObjectiveRepo) CreateObjective(ctx context.Context, o model.Objective) (model.Objective, error) {
	rec := fromObjective(o)
	if err := r.db.write.WithContext(ctx).Omit(clause.Associations).Create(&rec).Error; err != nil {
		return model.Objective{}, fmt.Errorf("create objective: %w", err)
	}
	created := toObjective(rec)
	return created, nil
}

// SaveObjective overwrites the scalar fields of a live objective and returns
// it with its key results.
func (r *ObjectiveRepo) SaveObjective(ctx context.Context, o model.Objective) (model.Objective, error) {
	rec := fromObjective(o)
	res := r.db.write.WithContext(ctx).
		Model(&objectiveRecord{}).
		Where("id = ?", o.ID).
		Select("title", "why", "how", "what", "completed", "deadline", "updated_at").
		Updates(&rec)
	if res.Error != nil {
		return model.Objective{}, fmt.Errorf("save objective %s: %w", o.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return model.Objective{}, driven.ErrObjectiveNotFound
	}

	saved, err := r.getObjective(ctx, r.db.write, o.ID)
	if err != nil {
		return model.Objective{}, err
	}
	if saved == nil {
		return model.Objective{}, driven.ErrObjectiveNotFound
	}
	return *saved, nil
}

// DeleteObjective soft-deletes the objective.
func (r *ObjectiveRepo) DeleteObjective(ctx context.Context, id string) error {
	res := r.db.write.WithContext(ctx).Where("id = ?", id).Delete(&objectiveRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete objective %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return driven.ErrObjectiveNotFound
	}
	return nil
}

// GetKeyResult returns the key result or (nil, nil) if it is missing, deleted,
// or belongs to a deleted objective.
func (r *ObjectiveRepo) GetKeyResult(ctx context.Context, id string) (*model.KeyResult, error) {
	db := r.db.read.WithContext(ctx)

	var rec keyResultRecord
	err := db.Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get key result %s: %w", id, err)
	}

	var parents int64
	if err := db.Model(&objectiveRecord{}).Where("id = ?", rec.ObjectiveID).Count(&parents).Error; err != nil {
		return nil, fmt.Errorf("get key result %s parent: %w", id, err)
	}
	if parents == 0 {
		return nil, nil
	}

	kr := toKeyResult(rec)
	return &kr, nil
}

// CreateKeyResult inserts kr under a live objective.
func (r *ObjectiveRepo) CreateKeyResult(ctx context.Context, kr model.KeyResult) (model.KeyResult, error) {
	rec := fromKeyResult(kr)
	err := r.db.write.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&objectiveRecord{}).Where("id = ?", kr.ObjectiveID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return driven.ErrObjectiveNotFound
		}
		return tx.Create(&rec).Error
	})
	if errors.Is(err, driven.ErrObjectiveNotFound) {
		return model.KeyResult{}, err
	}
	if err != nil {
		return model.KeyResult{}, fmt.Errorf("create key result: %w", err)
	}
	return toKeyResult(rec), nil
}

// SaveKeyResult overwrites the mutable fields of a live key result.
func (r *ObjectiveRepo) SaveKeyResult(ctx context.Context, kr model.KeyResult) (model.KeyResult, error) {
	rec := fromKeyResult(kr)
	res := r.db.write.WithContext(ctx).
		Model(&keyResultRecord{}).
		Where("id = ?", kr.ID).
		Select("title", "priority", "completed", "deadline", "why", "how", "what", "updated_at").
		Updates(&rec)
	if res.Error != nil {
		return model.KeyResult{}, fmt.Errorf("save key result %s: %w", kr.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return model.KeyResult{}, driven.ErrKeyResultNotFound
	}

	var stored keyResultRecord
	if err := r.db.write.WithContext(ctx).Where("id = ?", kr.ID).First(&stored).Error; err != nil {
		return model.KeyResult{}, fmt.Errorf("reload key result %s: %w", kr.ID, err)
	}
	return toKeyResult(stored), nil
}

// DeleteKeyResult soft-deletes the key result.
func (r *ObjectiveRepo) DeleteKeyResult(ctx context.Context, id string) error {
	res := r.db.write.WithContext(ctx).Where("id = ?", id).Delete(&keyResultRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete key result %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return driven.ErrKeyResultNotFound
	}
	return nil
}
