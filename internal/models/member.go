package models

import (
	"time"
)

// Role represents what a member is allowed to do: leads create, assign and
// review tasks; members execute and submit them.
type Role string

const (
	RoleLead   Role = "lead"
	RoleMember Role = "member"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	return r == RoleLead || r == RoleMember
}

// Member represents a person belonging to exactly one vertical.
//
// SeedRating is a starting reputation used until the member has rated
// completed tasks. The live workload and completion counters are never stored
// here; they are recomputed from the task table on read (see MemberStats).
type Member struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	Email      string    `json:"email" gorm:"unique;not null"`
	Password   string    `json:"-" gorm:"not null"`
	Avatar     string    `json:"avatar"`
	Role       Role      `json:"role" gorm:"not null;default:'member'"`
	Vertical   Vertical  `json:"vertical" gorm:"not null;index"`
	SeedRating float64   `json:"-" gorm:"column:seed_rating"`
	JoinedAt   time.Time `json:"joinedAt" gorm:"column:joined_at"`
}

// TableName specifies the table name for Member Model
func (Member) TableName() string {
	return "members"
}

// MemberStats carries the counters derived from the task collection for one
// member. Rating falls back to the seed value when no completed task of
// theirs has been rated yet.
type MemberStats struct {
	AssignedTasks  int     `json:"assignedTasks"`
	CompletedTasks int     `json:"completedTasks"`
	Rating         float64 `json:"rating"`
}

// MemberWithStats is the API shape for member listings.
type MemberWithStats struct {
	Member
	MemberStats
}
