package models

import "time"

// Role is the platform role a user acts under.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleOrganizer Role = "ORGANIZER"
	RoleJudge     Role = "JUDGE"
	RoleTally     Role = "TALLY"
	RoleAuditor   Role = "AUDITOR"
)

// Roles lists every accepted role, in import-schema order.
func Roles() []string {
	return []string{
		string(RoleAdmin),
		string(RoleOrganizer),
		string(RoleJudge),
		string(RoleTally),
		string(RoleAuditor),
	}
}

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleOrganizer, RoleJudge, RoleTally, RoleAuditor:
		return true
	}
	return false
}

// User is a platform account.
type User struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id"`
	TenantID     string    `gorm:"size:64;uniqueIndex:idx_tenant_email,priority:1" json:"tenant_id"`
	Name         string    `gorm:"size:255" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex:idx_tenant_email,priority:2" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	Role         Role      `gorm:"size:16" json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
