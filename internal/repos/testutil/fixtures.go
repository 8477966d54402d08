package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/skillset-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCustomSet(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) *types.CustomSet {
	tb.Helper()
	s := &types.CustomSet{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed custom set: %v", err)
	}
	return s
}

func SeedSkill(tb testing.TB, ctx context.Context, tx *gorm.DB, setID uuid.UUID, name string, votes, index int, tags ...string) *types.Skill {
	tb.Helper()
	if tags == nil {
		tags = []string{}
	}
	sk := &types.Skill{
		ID:    uuid.New(),
		SetID: setID,
		Name:  name,
		Votes: votes,
		Index: index,
		Tags:  datatypes.NewJSONSlice(tags),
	}
	if err := tx.WithContext(ctx).Create(sk).Error; err != nil {
		tb.Fatalf("seed skill: %v", err)
	}
	return sk
}
