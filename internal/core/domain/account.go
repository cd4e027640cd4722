package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of account roles. It never changes after registration.
type Role string

const (
	RoleFarmer       Role = "farmer"
	RoleBuyer        Role = "buyer"
	RoleVeterinarian Role = "veterinarian"
	RoleSeller       Role = "seller"
	RoleAdmin        Role = "admin"
)

// Roles lists every role in a stable order.
var Roles = []Role{RoleFarmer, RoleBuyer, RoleVeterinarian, RoleSeller, RoleAdmin}

// ParseRole returns the Role named by s, or false when s is not a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Roles {
		if r == known {
			return r, true
		}
	}
	return "", false
}

// RoleSet is a capability set: the roles permitted to invoke an operation.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from roles.
func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}

// Account models a registered marketplace participant.
type Account struct {
	ID             string    `json:"id" bson:"_id"`
	Name           string    `json:"name" bson:"name"`
	Email          string    `json:"email" bson:"email"`
	PasswordHash   string    `json:"-" bson:"password_hash"`
	Role           Role      `json:"role" bson:"role"`
	Active         bool      `json:"active" bson:"active"`
	Phone          string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Location       string    `json:"location,omitempty" bson:"location,omitempty"`
	FarmName       string    `json:"farm_name,omitempty" bson:"farm_name,omitempty"`
	ClinicName     string    `json:"clinic_name,omitempty" bson:"clinic_name,omitempty"`
	Specialization string    `json:"specialization,omitempty" bson:"specialization,omitempty"`
	ShopName       string    `json:"shop_name,omitempty" bson:"shop_name,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

func (a *Account) IsAdmin() bool { return a != nil && a.Role == RoleAdmin }

// NormalizeEmail lower-cases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ProfileUpdate is a partial update of the holder-editable profile fields.
// Nil fields are left untouched. Role and email are not part of the profile.
type ProfileUpdate struct {
	Name           *string
	Phone          *string
	Location       *string
	FarmName       *string
	ClinicName     *string
	Specialization *string
	ShopName       *string
}

// Validate rejects role-specific fields on accounts that do not hold the role.
func (p ProfileUpdate) Validate(role Role) error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}
	if p.FarmName != nil && role != RoleFarmer {
		return fmt.Errorf("%w: farm_name is only available to farmers", ErrValidation)
	}
	if (p.ClinicName != nil || p.Specialization != nil) && role != RoleVeterinarian {
		return fmt.Errorf("%w: clinic fields are only available to veterinarians", ErrValidation)
	}
	if p.ShopName != nil && role != RoleSeller {
		return fmt.Errorf("%w: shop_name is only available to sellers", ErrValidation)
	}
	return nil
}

// Apply copies the set fields onto a.
func (p ProfileUpdate) Apply(a *Account) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&a.Name, p.Name)
	set(&a.Phone, p.Phone)
	set(&a.Location, p.Location)
	set(&a.FarmName, p.FarmName)
	set(&a.ClinicName, p.ClinicName)
	set(&a.Specialization, p.Specialization)
	set(&a.ShopName, p.ShopName)
}

// Identity is a verified credential resolved to an active account.
type Identity struct {
	Account   *Account
	TokenID   string
	ExpiresAt time.Time
}
