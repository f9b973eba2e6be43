package models

import (
	"encoding/json"

	"golang.org/x/exp/slices"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleUser  = "ROLE_USER"
	RoleOwner = "ROLE_OWNER"
	RoleDonor = "ROLE_DONOR"
	RoleAdmin = "ROLE_ADMIN"
)

type User struct {
	gorm.Model
	Username    string         `json:"username" gorm:"uniqueIndex;not null"`
	Email       string         `json:"email" gorm:"uniqueIndex;not null"`
	Password    string         `json:"-" gorm:"not null"`
	PhoneNumber string         `json:"phoneNumber"`
	Roles       datatypes.JSON `json:"roles"`
	// Percentage of rent this donor is willing to sponsor (0-100).
	SponsorshipPercentage *float64 `json:"sponsorshipPercentage"`
}

// RoleSet decodes the roles column into a slice. A user persisted through
// registration always carries at least one role.
func (u *User) RoleSet() []string {
	var roles []string
	if u.Roles != nil {
		json.Unmarshal(u.Roles, &roles)
	}
	return roles
}

func (u *User) HasRole(role string) bool {
	return slices.Contains(u.RoleSet(), role)
}

// AddRole appends role if absent, keeping set semantics.
func (u *User) AddRole(role string) {
	roles := u.RoleSet()
	if slices.Contains(roles, role) {
		return
	}
	u.SetRoles(append(roles, role))
}

func (u *User) SetRoles(roles []string) {
	b, _ := json.Marshal(roles)
	u.Roles = b
}

// Custom JSON marshaling so the roles column renders as a plain array
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		Roles []string `json:"roles"`
		*Alias
	}{
		Roles: []string{},
		Alias: (*Alias)(u),
	}
	if roles := u.RoleSet(); roles != nil {
		aux.Roles = roles
	}
	return json.Marshal(aux)
}
