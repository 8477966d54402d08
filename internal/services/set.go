package services

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/skillset-backend/internal/domain"
	"github.com/yungbote/skillset-backend/internal/logger"
	"github.com/yungbote/skillset-backend/internal/normalization"
	"github.com/yungbote/skillset-backend/internal/repos"
	"github.com/yungbote/skillset-backend/internal/types"
)

// SetService orchestrates every read and mutation of a user's custom sets.
// Each operation scopes its store access by owner in a single predicate, so
// another user's set is reported as not found, never as forbidden.
//
// Uniqueness checks run before the write without a cross-document
// transaction; two concurrent requests can both pass the check. Callers
// needing strict uniqueness under concurrency must serialize by owner or
// add unique indexes at the storage layer.
type SetService interface {
	CreateSet(ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) (*types.CustomSet, error)
	RenameSet(ctx context.Context, tx *gorm.DB, userID, setID uuid.UUID, name string) (*types.CustomSet, error)
	DeleteSet(ctx context.Context, tx *gorm.DB, userID, setID uuid.UUID) error
	ListSets(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.CustomSet, error)
	GetSet(ctx context.Context, tx *gorm.DB, userID, setID uuid.UUID) (*types.CustomSet, error)
	AddSkill(ctx context.Context, tx *gorm.DB, userID, setID uuid.UUID, name string, votes int) (*types.CustomSet, error)
	RemoveSkill(ctx context.Context, tx *gorm.DB, userID, setID, skillID uuid.UUID) (*types.CustomSet, error)
	SetVotes(ctx context.Context, tx *gorm.DB, userID, setID, skillID uuid.UUID, votes int) (*types.CustomSet, error)
	AddTag(ctx context.Context, tx *gorm.DB, userID, setID, skillID uuid.UUID, rawTag string) (*types.CustomSet, error)
	RemoveTag(ctx context.Context, tx *gorm.DB, userID, setID, skillID uuid.UUID, tag string) (*types.CustomSet, error)
	ListDistinctTags(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]string, error)
}

type setService struct {
	db        *gorm.DB
	log       *logger.Logger
	setRepo   repos.CustomSetRepo
	skillRepo repos.SkillRepo
}

func NewSetService(
	db *gorm.DB,
	baseLog *logger.Logger,
	setRepo repos.CustomSetRepo,
	skillRepo repos.SkillRepo,
) SetService {
	return &setService{
		db:        db,
		log:       baseLog.With("service", "SetService"),
		setRepo:   setRepo,
		skillRepo: skillRepo,
	}
}

func (ss *setService) CreateSet(ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) (*types.CustomSet, error) {
	const op = "SetService.CreateSet"
	t := tx
	if t == nil {
		t = ss.db
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, domain.ValidationError(op, "set name is required")
	}
	exists, err := ss.setRepo.NameExistsForUser(ctx, t, userID, trimmed, uuid.Nil)
	if err != nil {
		return nil, domain.MapStoreError(op, err)
	}
	if exists {
		return nil, domain.ConflictError(op, "a set with this name already exists")
	}
	set := &types.CustomSet{
		ID:     uuid.New(),
		UserID: userID,
		Name:   trimmed,
		Skills: []*types.Skill{},
	}
	if _, err := ss.setRepo.Create(ctx, t, []*types.CustomSet{set}); err != nil {
		ss.log.Error("CreateSet failed", "error", err, "user_id", userID)
		return nil, domain.MapStoreError(op, err)
	}
	return set, nil
}

func (ss *setService) RenameSet(ctx context.Context, tx *gorm.DB, userID, setID uuid.UUID, name string) (*types.CustomSet, error) {
	const op = "SetService.RenameSet"
	t := tx
	if t == nil {
		t = ss.db
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, domain.ValidationError(op, "set name is required")
	}
	set, err := ss.setRepo.GetByIDAndUserID(ctx, t, setID, userID)
	if err != nil {
		return nil, domain.MapStoreError(op, err)
	}
	if set == nil {
		return nil, domain.NotFoundError(op, "set not found")
	}
	exists, err := ss.setRepo.NameExistsForUser(ctx, t, userID, trimmed, setID)
	if err != nil {
		return nil, domain.MapStoreError(op, err)
	}
	if exists {
		return nil, domain.ConflictError(op, "a set with this name already exists")
	}
	if err := ss.setRepo.UpdateFields(ctx, t, setID, map[string]interface{}{"name": trimmed}); err != nil {
		ss.log.Error("RenameSet failed", "error", err, "set_id", setID)
		return nil, domain.MapStoreError(op, err)
	}
	return ss.loadSet(ctx, t, userID, setID, op)
}

func (ss *setService) DeleteSet(ctx context.Context, tx *gorm.DB, userID, setID uuid.UUID) error {
	const op = "SetService.DeleteSet"
	t := tx
	if t == nil {
		t = ss.db
	}
	// Set and contained skills go together or not at all.
	return t.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		n, err := ss.setRepo.SoftDeleteByIDAndUserID(ctx, txn, setID, userID)
		if err != nil {
			return domain.MapStoreError(op, err)
		}
		if n == 0 {
			return domain.NotFoundError(op, "set not found")
		}
		if err := ss.skillRepo.SoftDeleteBySetIDs(ctx, txn, []uuid.UUID{setID}); err != nil {
			return domain.MapStoreError(op, err)
		}
		return nil
	})
}

func (ss *setService) ListSets(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.CustomSet, error) {
	const op = "SetService.ListSets"
	t := tx
	if t == nil {
		t = ss.db
	}
	sets, err := ss.setRepo.GetByUserIDs(ctx, t, []uuid.UUID{userID})
	if err != nil {
		return nil, domain.MapStoreError(op, err)
	}
	if err := ss.attachSkills(ctx, t, sets); err != nil {
		return nil, domain.MapStoreError(op, err)
	}
	if sets == nil {
		sets = []*types.CustomSet{}
	}
	return sets, nil
}

func (ss *setService) GetSet(ctx context.Context, tx *gorm.DB, userID, setID uuid.UUID) (*types.CustomSet, error) {
	const op = "SetService.GetSet"
	t := tx
	if t == nil {
		t = ss.db
	}
	return ss.loadSet(ctx, t, userID, setID, op)
}

func (ss *setService) AddSkill(ctx context.Context, tx *gorm.DB, userID, setID uuid.UUID, name string, votes int) (*types.CustomSet, error) {
	const op = "SetService.AddSkill"
	t := tx
	if t == nil {
		t = ss.db
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, domain.ValidationError(op, "skill name is required")
	}
	if votes < 0 {
		return nil, domain.ValidationError(op, "votes must not be negative")
	}
	set, err := ss.setRepo.GetByIDAndUserID(ctx, t, setID, userID)
	if err != nil {
		return nil, domain.MapStoreError(op, err)
	}
	if set == nil {
		return nil, domain.NotFoundError(op, "set not found")
	}
	exists, err := ss.skillRepo.NameExistsInSet(ctx, t, setID, trimmed)
	if err != nil {
		return nil, domain.MapStoreError(op, err)
	}
	if exists {
		return nil, domain.ConflictError(op, "a skill with this name already exists in the set")
	}
	index, err := ss.skillRepo.NextIndex(ctx, t, setID)
	if err != nil {
		return nil, domain.MapStoreError(op, err)
	}
	skill := &types.Skill{
		ID:    uuid.New(),
		SetID: setID,
		Name:  trimmed,
		Votes: votes,
		Index: index,
		Tags:  datatypes.NewJSONSlice([]string{}),
	}
	if _, err := ss.skillRepo.Create(ctx, t, []*types.Skill{skill}); err != nil {
		ss.log.Error("AddSkill failed", "error", err, "set_id", setID)
		return nil, domain.MapStoreError(op, err)
	}
	return ss.loadSet(ctx, t, userID, setID, op)
}

func (ss *setService) RemoveSkill(ctx context.Context, tx *gorm.DB, userID, setID, skillID uuid.UUID) (*types.CustomSet, error) {
	const op = "SetService.RemoveSkill"
	t := tx
	if t == nil {
		t = ss.db
	}
	set, err := ss.setRepo.GetByIDAndUserID(ctx, t, setID, userID)
	if err != nil {
		return nil, domain.MapStoreError(op, err)
	}
	if set == nil {
		return nil, domain.NotFoundError(op, "set not found")
	}
	n, err := ss.skillRepo.SoftDeleteByIDAndSetID(ctx, t, skillID, setID)
	if err != nil {
		return nil, domain.MapStoreError(op, err)
	}
	if n == 0 {
		return nil, domain.NotFoundError(op, "skill not found")
	}
	return ss.loadSet(ctx, t, userID, setID, op)
}

func (ss *setService) SetVotes(ctx context.Context, tx *gorm.DB, userID, setID, skillID uuid.UUID, votes int) (*types.CustomSet, error) {
	const op = "SetService.SetVotes"
	t := tx
	if t == nil {
		t = ss.db
	}
	if votes < 0 {
		return nil, domain.ValidationError(op, "votes must not be negative")
	}
	set, err := ss.setRepo.GetByIDAndUserID(ctx, t, setID, userID)
	if err != nil {
		return nil, domain.MapStoreError(op, err)
	}
	if set == nil {
		return nil, domain.NotFoundError(op, "set not found")
	}
	skill, err := ss.skillRepo.GetByIDAndSetID(ctx, t, skillID, setID)
	if err != nil {
		return nil, domain.MapStoreError(op, err)
	}
	if skill == nil {
		return nil, domain.NotFoundError(op, "skill not found")
	}
	if err := ss.skillRepo.UpdateFields(ctx, t, skillID, map[string]interface{}{"votes": votes}); err != nil {
		ss.log.Error("SetVotes failed", "error", err, "skill_id", skillID)
		return nil, domain.MapStoreError(op, err)
	}
	return ss.loadSet(ctx, t, userID, setID, op)
}

func (ss *setService) AddTag(ctx context.Context, tx *gorm.DB, userID, setID, skillID uuid.UUID, rawTag string) (*types.CustomSet, error) {
	const op = "SetService.AddTag"
	t := tx
	if t == nil {
		t = ss.db
	}
	if strings.TrimSpace(rawTag) == "" {
		return nil, domain.ValidationError(op, "tag is required")
	}
	normalized := normalization.NormalizeTag(rawTag)
	if normalized == "" {
		return nil, domain.ValidationError(op, "tag has no usable characters")
	}
	skill, err := ss.loadSkill(ctx, t, userID, setID, skillID, op)
	if err != nil {
		return nil, err
	}
	for _, existing := range skill.Tags {
		if existing == normalized {
			return nil, domain.ConflictError(op, "tag already present on skill")
		}
	}
	next := append([]string(skill.Tags), normalized)
	if err := ss.skillRepo.UpdateFields(ctx, t, skillID, map[string]interface{}{"tags": datatypes.NewJSONSlice(next)}); err != nil {
		ss.log.Error("AddTag failed", "error", err, "skill_id", skillID)
		return nil, domain.MapStoreError(op, err)
	}
	return ss.loadSet(ctx, t, userID, setID, op)
}

func (ss *setService) RemoveTag(ctx context.Context, tx *gorm.DB, userID, setID, skillID uuid.UUID, tag string) (*types.CustomSet, error) {
	const op = "SetService.RemoveTag"
	t := tx
	if t == nil {
		t = ss.db
	}
	if strings.TrimSpace(tag) == "" {
		return nil, domain.ValidationError(op, "tag is required")
	}
	// Stored tags are normalized, so normalizing the input implements the
	// case-insensitive match.
	normalized := normalization.NormalizeTag(tag)
	skill, err := ss.loadSkill(ctx, t, userID, setID, skillID, op)
	if err != nil {
		return nil, err
	}
	next := make([]string, 0, len(skill.Tags))
	found := false
	for _, existing := range skill.Tags {
		if existing == normalized {
			found = true
			continue
		}
		next = append(next, existing)
	}
	if !found {
		return nil, domain.NotFoundError(op, "tag not found on skill")
	}
	if err := ss.skillRepo.UpdateFields(ctx, t, skillID, map[string]interface{}{"tags": datatypes.NewJSONSlice(next)}); err != nil {
		ss.log.Error("RemoveTag failed", "error", err, "skill_id", skillID)
		return nil, domain.MapStoreError(op, err)
	}
	return ss.loadSet(ctx, t, userID, setID, op)
}

func (ss *setService) ListDistinctTags(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]string, error) {
	const op = "SetService.ListDistinctTags"
	t := tx
	if t == nil {
		t = ss.db
	}
	skills, err := ss.skillRepo.GetByUserID(ctx, t, userID)
	if err != nil {
		return nil, domain.MapStoreError(op, err)
	}
	seen := make(map[string]struct{})
	out := []string{}
	for _, skill := range skills {
		for _, tag := range skill.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out, nil
}

// loadSet fetches an owned set with its skills attached, or NotFound.
func (ss *setService) loadSet(ctx context.Context, t *gorm.DB, userID, setID uuid.UUID, op string) (*types.CustomSet, error) {
	set, err := ss.setRepo.GetByIDAndUserID(ctx, t, setID, userID)
	if err != nil {
		return nil, domain.MapStoreError(op, err)
	}
	if set == nil {
		return nil, domain.NotFoundError(op, "set not found")
	}
	if err := ss.attachSkills(ctx, t, []*types.CustomSet{set}); err != nil {
		return nil, domain.MapStoreError(op, err)
	}
	return set, nil
}

// loadSkill resolves a skill through its owned set so both lookups carry
// the ownership predicate.
func (ss *setService) loadSkill(ctx context.Context, t *gorm.DB, userID, setID, skillID uuid.UUID, op string) (*types.Skill, error) {
	set, err := ss.setRepo.GetByIDAndUserID(ctx, t, setID, userID)
	if err != nil {
		return nil, domain.MapStoreError(op, err)
	}
	if set == nil {
		return nil, domain.NotFoundError(op, "set not found")
	}
	skill, err := ss.skillRepo.GetByIDAndSetID(ctx, t, skillID, setID)
	if err != nil {
		return nil, domain.MapStoreError(op, err)
	}
	if skill == nil {
		return nil, domain.NotFoundError(op, "skill not found")
	}
	return skill, nil
}

func (ss *setService) attachSkills(ctx context.Context, t *gorm.DB, sets []*types.CustomSet) error {
	if len(sets) == 0 {
		return nil
	}
	setIDs := make([]uuid.UUID, 0, len(sets))
	for _, set := range sets {
		setIDs = append(setIDs, set.ID)
	}
	skills, err := ss.skillRepo.GetBySetIDs(ctx, t, setIDs)
	if err != nil {
		return err
	}
	bySet := make(map[uuid.UUID][]*types.Skill, len(sets))
	for _, skill := range skills {
		bySet[skill.SetID] = append(bySet[skill.SetID], skill)
	}
	for _, set := range sets {
		set.Skills = bySet[set.ID]
		if set.Skills == nil {
			set.Skills = []*types.Skill{}
		}
	}
	return nil
}
