package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CustomSet is a named, owner-scoped collection of skills. Set names are
// unique per owner under case-insensitive comparison; that check lives in
// the service layer (see SetService), not in a storage constraint.
type CustomSet struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Skills    []*Skill       `gorm:"-" json:"skills"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CustomSet) TableName() string {
	return "custom_set"
}

// Skill is owned exclusively by its parent set. Index preserves insertion
// order; Tags holds already-normalized strings with no duplicates.
type Skill struct {
	ID        uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	SetID     uuid.UUID                   `gorm:"type:uuid;not null;index" json:"set_id"`
	Set       *CustomSet                  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SetID;references:ID" json:"set,omitempty"`
	Name      string                      `gorm:"column:name;not null" json:"name"`
	Votes     int                         `gorm:"column:votes;not null;default:0" json:"votes"`
	Index     int                         `gorm:"column:index;not null" json:"index"`
	Tags      datatypes.JSONSlice[string] `gorm:"column:tags" json:"tags"`
	CreatedAt time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time                   `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt              `gorm:"index" json:"deleted_at,omitempty"`
}

func (Skill) TableName() string {
	return "skill"
}
