package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/skillset-backend/internal/domain"
	"github.com/yungbote/skillset-backend/internal/repos"
	"github.com/yungbote/skillset-backend/internal/repos/testutil"
)

func newSetService(t *testing.T, db *gorm.DB) SetService {
	t.Helper()
	log := testutil.Logger(t)
	return NewSetService(db, log, repos.NewCustomSetRepo(db, log), repos.NewSkillRepo(db, log))
}

func TestSetServiceCreateAndRename(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc := newSetService(t, db)

	owner := testutil.SeedUser(t, ctx, tx, "setsvc-create@example.com")

	set, err := svc.CreateSet(ctx, tx, owner.ID, "  Team Alpha  ")
	if err != nil {
		t.Fatalf("CreateSet: %v", err)
	}
	if set.Name != "Team Alpha" {
		t.Fatalf("CreateSet should trim the name, got %q", set.Name)
	}
	if len(set.Skills) != 0 {
		t.Fatalf("new set should start with zero skills, got %d", len(set.Skills))
	}

	if _, err := svc.CreateSet(ctx, tx, owner.ID, "   "); !domain.IsCode(err, domain.CodeValidation) {
		t.Fatalf("empty name should be a validation error, got %v", err)
	}
	// Uniqueness is case-insensitive.
	if _, err := svc.CreateSet(ctx, tx, owner.ID, "team alpha"); !domain.IsCode(err, domain.CodeConflict) {
		t.Fatalf("case-variant duplicate should conflict, got %v", err)
	}

	other, err := svc.CreateSet(ctx, tx, owner.ID, "Team Beta")
	if err != nil {
		t.Fatalf("CreateSet second: %v", err)
	}
	if _, err := svc.RenameSet(ctx, tx, owner.ID, other.ID, "Team Alpha"); !domain.IsCode(err, domain.CodeConflict) {
		t.Fatalf("rename onto an existing name should conflict, got %v", err)
	}
	// Renaming to a case variant of its own name is allowed.
	renamed, err := svc.RenameSet(ctx, tx, owner.ID, other.ID, "TEAM BETA")
	if err != nil {
		t.Fatalf("RenameSet case change: %v", err)
	}
	if renamed.Name != "TEAM BETA" {
		t.Fatalf("RenameSet: got %q", renamed.Name)
	}
	if _, err := svc.RenameSet(ctx, tx, owner.ID, uuid.New(), "X"); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("renaming a missing set should be not found, got %v", err)
	}
}

func TestSetServiceOwnerScoping(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc := newSetService(t, db)

	alice := testutil.SeedUser(t, ctx, tx, "setsvc-alice@example.com")
	bob := testutil.SeedUser(t, ctx, tx, "setsvc-bob@example.com")

	// The same name is fine across owners.
	aliceSet, err := svc.CreateSet(ctx, tx, alice.ID, "Team Alpha")
	if err != nil {
		t.Fatalf("CreateSet alice: %v", err)
	}
	bobSet, err := svc.CreateSet(ctx, tx, bob.ID, "Team Alpha")
	if err != nil {
		t.Fatalf("CreateSet bob: %v", err)
	}

	// Another owner's set id must read as not found, never forbidden.
	if _, err := svc.GetSet(ctx, tx, alice.ID, bobSet.ID); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("cross-owner GetSet should be not found, got %v", err)
	}
	if _, err := svc.RenameSet(ctx, tx, alice.ID, bobSet.ID, "Mine Now"); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("cross-owner RenameSet should be not found, got %v", err)
	}
	if err := svc.DeleteSet(ctx, tx, alice.ID, bobSet.ID); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("cross-owner DeleteSet should be not found, got %v", err)
	}

	sets, err := svc.ListSets(ctx, tx, alice.ID)
	if err != nil {
		t.Fatalf("ListSets: %v", err)
	}
	if len(sets) != 1 || sets[0].ID != aliceSet.ID {
		t.Fatalf("ListSets should only return the owner's sets, got %d", len(sets))
	}
}

func TestSetServiceSkills(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc := newSetService(t, db)

	owner := testutil.SeedUser(t, ctx, tx, "setsvc-skills@example.com")
	set, err := svc.CreateSet(ctx, tx, owner.ID, "Backend")
	if err != nil {
		t.Fatalf("CreateSet: %v", err)
	}

	updated, err := svc.AddSkill(ctx, tx, owner.ID, set.ID, "Go", 1)
	if err != nil {
		t.Fatalf("AddSkill: %v", err)
	}
	if len(updated.Skills) != 1 || updated.Skills[0].Name != "Go" || updated.Skills[0].Votes != 1 {
		t.Fatalf("AddSkill result: %+v", updated.Skills)
	}
	if len(updated.Skills[0].Tags) != 0 {
		t.Fatalf("new skill should have no tags")
	}

	// Trailing space + case variant of an existing skill name conflicts.
	if _, err := svc.AddSkill(ctx, tx, owner.ID, set.ID, "go ", 0); !domain.IsCode(err, domain.CodeConflict) {
		t.Fatalf("duplicate skill name should conflict, got %v", err)
	}
	if _, err := svc.AddSkill(ctx, tx, owner.ID, set.ID, "   ", 0); !domain.IsCode(err, domain.CodeValidation) {
		t.Fatalf("blank skill name should be a validation error, got %v", err)
	}
	if _, err := svc.AddSkill(ctx, tx, owner.ID, set.ID, "Rust", -1); !domain.IsCode(err, domain.CodeValidation) {
		t.Fatalf("negative initial votes should be a validation error, got %v", err)
	}
	if _, err := svc.AddSkill(ctx, tx, owner.ID, uuid.New(), "Rust", 0); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("adding to a missing set should be not found, got %v", err)
	}

	updated, err = svc.AddSkill(ctx, tx, owner.ID, set.ID, "Postgres", 0)
	if err != nil {
		t.Fatalf("AddSkill second: %v", err)
	}
	if len(updated.Skills) != 2 || updated.Skills[0].Name != "Go" || updated.Skills[1].Name != "Postgres" {
		t.Fatalf("skills should keep insertion order: %+v", updated.Skills)
	}

	goSkill := updated.Skills[0]

	// Votes are set absolutely, not incremented.
	updated, err = svc.SetVotes(ctx, tx, owner.ID, set.ID, goSkill.ID, 10)
	if err != nil {
		t.Fatalf("SetVotes: %v", err)
	}
	if updated.Skills[0].Votes != 10 {
		t.Fatalf("SetVotes: got %d", updated.Skills[0].Votes)
	}
	if _, err := svc.SetVotes(ctx, tx, owner.ID, set.ID, goSkill.ID, -3); !domain.IsCode(err, domain.CodeValidation) {
		t.Fatalf("negative votes should be a validation error, got %v", err)
	}
	// A rejected update leaves the prior count in place.
	after, err := svc.GetSet(ctx, tx, owner.ID, set.ID)
	if err != nil {
		t.Fatalf("GetSet: %v", err)
	}
	if after.Skills[0].Votes != 10 {
		t.Fatalf("votes changed after rejected update: %d", after.Skills[0].Votes)
	}
	if _, err := svc.SetVotes(ctx, tx, owner.ID, set.ID, uuid.New(), 1); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("setting votes for a missing skill should be not found, got %v", err)
	}

	// Remove then re-add the same name: no residual uniqueness conflict.
	updated, err = svc.RemoveSkill(ctx, tx, owner.ID, set.ID, goSkill.ID)
	if err != nil {
		t.Fatalf("RemoveSkill: %v", err)
	}
	if len(updated.Skills) != 1 || updated.Skills[0].Name != "Postgres" {
		t.Fatalf("RemoveSkill should leave the other skill: %+v", updated.Skills)
	}
	if _, err := svc.RemoveSkill(ctx, tx, owner.ID, set.ID, goSkill.ID); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("removing an already-removed skill should be not found, got %v", err)
	}
	if _, err := svc.AddSkill(ctx, tx, owner.ID, set.ID, "Go", 2); err != nil {
		t.Fatalf("re-adding a removed skill name should succeed, got %v", err)
	}
}

func TestSetServiceTags(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc := newSetService(t, db)

	owner := testutil.SeedUser(t, ctx, tx, "setsvc-tags@example.com")
	set, err := svc.CreateSet(ctx, tx, owner.ID, "Backend")
	if err != nil {
		t.Fatalf("CreateSet: %v", err)
	}
	withSkill, err := svc.AddSkill(ctx, tx, owner.ID, set.ID, "Go", 0)
	if err != nil {
		t.Fatalf("AddSkill: %v", err)
	}
	skill := withSkill.Skills[0]

	updated, err := svc.AddTag(ctx, tx, owner.ID, set.ID, skill.ID, "Back-End!")
	if err != nil {
		t.Fatalf("AddTag: %v", err)
	}
	if len(updated.Skills[0].Tags) != 1 || updated.Skills[0].Tags[0] != "backend" {
		t.Fatalf("tag should be stored normalized: %+v", updated.Skills[0].Tags)
	}

	// A case variant of a stored tag is a duplicate.
	if _, err := svc.AddTag(ctx, tx, owner.ID, set.ID, skill.ID, "BACKEND"); !domain.IsCode(err, domain.CodeConflict) {
		t.Fatalf("duplicate tag should conflict, got %v", err)
	}
	if _, err := svc.AddTag(ctx, tx, owner.ID, set.ID, skill.ID, "   "); !domain.IsCode(err, domain.CodeValidation) {
		t.Fatalf("blank tag should be a validation error, got %v", err)
	}
	if _, err := svc.AddTag(ctx, tx, owner.ID, set.ID, skill.ID, "!!!"); !domain.IsCode(err, domain.CodeValidation) {
		t.Fatalf("tag that normalizes to nothing should be a validation error, got %v", err)
	}
	if _, err := svc.AddTag(ctx, tx, owner.ID, set.ID, uuid.New(), "infra"); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("tagging a missing skill should be not found, got %v", err)
	}

	updated, err = svc.RemoveTag(ctx, tx, owner.ID, set.ID, skill.ID, "backend")
	if err != nil {
		t.Fatalf("RemoveTag: %v", err)
	}
	if len(updated.Skills[0].Tags) != 0 {
		t.Fatalf("RemoveTag should leave no tags: %+v", updated.Skills[0].Tags)
	}
	// Removal requires the tag to be present.
	if _, err := svc.RemoveTag(ctx, tx, owner.ID, set.ID, skill.ID, "backend"); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("removing an absent tag should be not found, got %v", err)
	}
	if _, err := svc.RemoveTag(ctx, tx, owner.ID, set.ID, skill.ID, ""); !domain.IsCode(err, domain.CodeValidation) {
		t.Fatalf("empty tag should be a validation error, got %v", err)
	}
}

func TestSetServiceListDistinctTags(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc := newSetService(t, db)

	owner := testutil.SeedUser(t, ctx, tx, "setsvc-distinct@example.com")
	other := testutil.SeedUser(t, ctx, tx, "setsvc-distinct-other@example.com")

	tags, err := svc.ListDistinctTags(ctx, tx, owner.ID)
	if err != nil {
		t.Fatalf("ListDistinctTags empty: %v", err)
	}
	if len(tags) != 0 {
		t.Fatalf("owner with no sets should get an empty list, got %v", tags)
	}

	set1, err := svc.CreateSet(ctx, tx, owner.ID, "Backend")
	if err != nil {
		t.Fatalf("CreateSet: %v", err)
	}
	set2, err := svc.CreateSet(ctx, tx, owner.ID, "Infra")
	if err != nil {
		t.Fatalf("CreateSet: %v", err)
	}
	otherSet, err := svc.CreateSet(ctx, tx, other.ID, "Elsewhere")
	if err != nil {
		t.Fatalf("CreateSet other: %v", err)
	}

	s1, err := svc.AddSkill(ctx, tx, owner.ID, set1.ID, "Go", 0)
	if err != nil {
		t.Fatalf("AddSkill: %v", err)
	}
	s2, err := svc.AddSkill(ctx, tx, owner.ID, set2.ID, "Terraform", 0)
	if err != nil {
		t.Fatalf("AddSkill: %v", err)
	}
	s3, err := svc.AddSkill(ctx, tx, other.ID, otherSet.ID, "Rust", 0)
	if err != nil {
		t.Fatalf("AddSkill other: %v", err)
	}

	for _, raw := range []string{"Back-End!", "cloud"} {
		if _, err := svc.AddTag(ctx, tx, owner.ID, set1.ID, s1.Skills[0].ID, raw); err != nil {
			t.Fatalf("AddTag %q: %v", raw, err)
		}
	}
	// Same normalized tag on a different set collapses in the union.
	for _, raw := range []string{"BACKEND", "iac"} {
		if _, err := svc.AddTag(ctx, tx, owner.ID, set2.ID, s2.Skills[0].ID, raw); err != nil {
			t.Fatalf("AddTag %q: %v", raw, err)
		}
	}
	if _, err := svc.AddTag(ctx, tx, other.ID, otherSet.ID, s3.Skills[0].ID, "systems"); err != nil {
		t.Fatalf("AddTag other: %v", err)
	}

	tags, err = svc.ListDistinctTags(ctx, tx, owner.ID)
	if err != nil {
		t.Fatalf("ListDistinctTags: %v", err)
	}
	want := []string{"backend", "cloud", "iac"}
	if len(tags) != len(want) {
		t.Fatalf("ListDistinctTags: got %v want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("ListDistinctTags: got %v want %v", tags, want)
		}
	}
}

func TestSetServiceDeleteCascades(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc := newSetService(t, db)

	owner := testutil.SeedUser(t, ctx, tx, "setsvc-delete@example.com")
	set, err := svc.CreateSet(ctx, tx, owner.ID, "Doomed")
	if err != nil {
		t.Fatalf("CreateSet: %v", err)
	}
	withSkill, err := svc.AddSkill(ctx, tx, owner.ID, set.ID, "Go", 0)
	if err != nil {
		t.Fatalf("AddSkill: %v", err)
	}
	if _, err := svc.AddTag(ctx, tx, owner.ID, set.ID, withSkill.Skills[0].ID, "backend"); err != nil {
		t.Fatalf("AddTag: %v", err)
	}

	if err := svc.DeleteSet(ctx, tx, owner.ID, set.ID); err != nil {
		t.Fatalf("DeleteSet: %v", err)
	}
	if _, err := svc.GetSet(ctx, tx, owner.ID, set.ID); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("deleted set should be not found, got %v", err)
	}
	if err := svc.DeleteSet(ctx, tx, owner.ID, set.ID); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("deleting twice should be not found, got %v", err)
	}
	// The cascade removed the skills' tags from the owner's union.
	tags, err := svc.ListDistinctTags(ctx, tx, owner.ID)
	if err != nil {
		t.Fatalf("ListDistinctTags: %v", err)
	}
	if len(tags) != 0 {
		t.Fatalf("tags should disappear with their set, got %v", tags)
	}
}
