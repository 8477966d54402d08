package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/skillset-backend/internal/logger"
	"github.com/yungbote/skillset-backend/internal/types"
)

type SkillRepo interface {
	Create(ctx context.Context, tx *gorm.DB, skills []*types.Skill) ([]*types.Skill, error)
	GetByIDAndSetID(ctx context.Context, tx *gorm.DB, skillID, setID uuid.UUID) (*types.Skill, error)
	// GetBySetIDs returns skills in insertion order (index ascending).
	GetBySetIDs(ctx context.Context, tx *gorm.DB, setIDs []uuid.UUID) ([]*types.Skill, error)
	// GetByUserID joins through custom_set so the result carries every live
	// skill across every set owned by the user.
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Skill, error)
	// NameExistsInSet compares lowercased, pre-trimmed names.
	NameExistsInSet(ctx context.Context, tx *gorm.DB, setID uuid.UUID, name string) (bool, error)
	NextIndex(ctx context.Context, tx *gorm.DB, setID uuid.UUID) (int, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, skillID uuid.UUID, updates map[string]interface{}) error
	SoftDeleteByIDAndSetID(ctx context.Context, tx *gorm.DB, skillID, setID uuid.UUID) (int64, error)
	SoftDeleteBySetIDs(ctx context.Context, tx *gorm.DB, setIDs []uuid.UUID) error
	FullDeleteBySetIDs(ctx context.Context, tx *gorm.DB, setIDs []uuid.UUID) error
}

type skillRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSkillRepo(db *gorm.DB, baseLog *logger.Logger) SkillRepo {
	return &skillRepo{db: db, log: baseLog.With("repo", "SkillRepo")}
}

func (r *skillRepo) Create(ctx context.Context, tx *gorm.DB, skills []*types.Skill) ([]*types.Skill, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(skills) == 0 {
		return []*types.Skill{}, nil
	}
	if err := t.WithContext(ctx).Create(&skills).Error; err != nil {
		return nil, err
	}
	return skills, nil
}

func (r *skillRepo) GetByIDAndSetID(ctx context.Context, tx *gorm.DB, skillID, setID uuid.UUID) (*types.Skill, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if skillID == uuid.Nil || setID == uuid.Nil {
		return nil, nil
	}
	var out []*types.Skill
	if err := t.WithContext(ctx).
		Where("id = ? AND set_id = ?", skillID, setID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *skillRepo) GetBySetIDs(ctx context.Context, tx *gorm.DB, setIDs []uuid.UUID) ([]*types.Skill, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Skill
	if len(setIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("set_id IN ?", setIDs).
		Order(`"index" ASC`).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *skillRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Skill, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Skill
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Joins("JOIN custom_set ON custom_set.id = skill.set_id AND custom_set.deleted_at IS NULL").
		Where("custom_set.user_id = ?", userID).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *skillRepo) NameExistsInSet(ctx context.Context, tx *gorm.DB, setID uuid.UUID, name string) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(ctx).
		Model(&types.Skill{}).
		Where("set_id = ? AND LOWER(name) = ?", setID, strings.ToLower(name)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *skillRepo) NextIndex(ctx context.Context, tx *gorm.DB, setID uuid.UUID) (int, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var max *int
	if err := t.WithContext(ctx).
		Model(&types.Skill{}).
		Where("set_id = ?", setID).
		Select(`MAX("index")`).
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}

func (r *skillRepo) UpdateFields(ctx context.Context, tx *gorm.DB, skillID uuid.UUID, updates map[string]interface{}) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Model(&types.Skill{}).
		Where("id = ?", skillID).
		Updates(updates).Error
}

func (r *skillRepo) SoftDeleteByIDAndSetID(ctx context.Context, tx *gorm.DB, skillID, setID uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(ctx).
		Where("id = ? AND set_id = ?", skillID, setID).
		Delete(&types.Skill{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *skillRepo) SoftDeleteBySetIDs(ctx context.Context, tx *gorm.DB, setIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(setIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Where("set_id IN ?", setIDs).
		Delete(&types.Skill{}).Error
}

func (r *skillRepo) FullDeleteBySetIDs(ctx context.Context, tx *gorm.DB, setIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(setIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Unscoped().
		Where("set_id IN ?", setIDs).
		Delete(&types.Skill{}).Error
}
