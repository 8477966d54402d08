package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/skillset-backend/internal/logger"
	"github.com/yungbote/skillset-backend/internal/types"
)

type CustomSetRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sets []*types.CustomSet) ([]*types.CustomSet, error)
	// GetByIDAndUserID scopes the lookup by owner in a single predicate so a
	// set owned by someone else is indistinguishable from a missing one.
	GetByIDAndUserID(ctx context.Context, tx *gorm.DB, setID, userID uuid.UUID) (*types.CustomSet, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.CustomSet, error)
	// NameExistsForUser compares lowercased names. excludeSetID skips one set
	// (the set being renamed); pass uuid.Nil to check against all sets.
	NameExistsForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string, excludeSetID uuid.UUID) (bool, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, setID uuid.UUID, updates map[string]interface{}) error
	SoftDeleteByIDAndUserID(ctx context.Context, tx *gorm.DB, setID, userID uuid.UUID) (int64, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, setIDs []uuid.UUID) error
}

type customSetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCustomSetRepo(db *gorm.DB, baseLog *logger.Logger) CustomSetRepo {
	return &customSetRepo{db: db, log: baseLog.With("repo", "CustomSetRepo")}
}

func (r *customSetRepo) Create(ctx context.Context, tx *gorm.DB, sets []*types.CustomSet) ([]*types.CustomSet, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(sets) == 0 {
		return []*types.CustomSet{}, nil
	}
	if err := t.WithContext(ctx).Create(&sets).Error; err != nil {
		return nil, err
	}
	return sets, nil
}

func (r *customSetRepo) GetByIDAndUserID(ctx context.Context, tx *gorm.DB, setID, userID uuid.UUID) (*types.CustomSet, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if setID == uuid.Nil || userID == uuid.Nil {
		return nil, nil
	}
	var out []*types.CustomSet
	if err := t.WithContext(ctx).
		Where("id = ? AND user_id = ?", setID, userID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *customSetRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.CustomSet, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.CustomSet
	if len(userIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *customSetRepo) NameExistsForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string, excludeSetID uuid.UUID) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).
		Model(&types.CustomSet{}).
		Where("user_id = ? AND LOWER(name) = ?", userID, strings.ToLower(name))
	if excludeSetID != uuid.Nil {
		q = q.Where("id <> ?", excludeSetID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *customSetRepo) UpdateFields(ctx context.Context, tx *gorm.DB, setID uuid.UUID, updates map[string]interface{}) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Model(&types.CustomSet{}).
		Where("id = ?", setID).
		Updates(updates).Error
}

func (r *customSetRepo) SoftDeleteByIDAndUserID(ctx context.Context, tx *gorm.DB, setID, userID uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(ctx).
		Where("id = ? AND user_id = ?", setID, userID).
		Delete(&types.CustomSet{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *customSetRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, setIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(setIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Unscoped().
		Where("id IN ?", setIDs).
		Delete(&types.CustomSet{}).Error
}
