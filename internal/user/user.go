package user

import (
	"time"

	userDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleTraveler Role = "TRAVELER"
)

const (
	PermAdmin           = "admin"
	PermManageCompany   = "manage_company"
	PermManageEmployees = "manage_employees"
	PermBookTrips       = "book_trips"
	PermApproveTrips    = "approve_trips"
	PermViewReports     = "view_reports"
)

var rolePermissions = map[Role][]string{
	RoleAdmin:    {PermAdmin, PermManageCompany, PermManageEmployees, PermBookTrips, PermApproveTrips, PermViewReports},
	RoleManager:  {PermManageEmployees, PermBookTrips, PermApproveTrips, PermViewReports},
	RoleTraveler: {PermBookTrips},
}

func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Permissions returns a copy of the permissions granted to the role.
func (r Role) Permissions() []string {
	perms := rolePermissions[r]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

type User struct {
	ID           int64     `json:"id"`
	CompanyID    int64     `json:"company_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	Permissions  []string  `json:"permissions,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) HasPermission(permission string) bool {
	for _, p := range u.Permissions {
		if p == permission || p == PermAdmin {
			return true
		}
	}
	return false
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		CompanyID:    u.CompanyID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(m *userDatamodel.User) *User {
	role := Role(m.Role)
	return &User{
		ID:           m.ID,
		CompanyID:    m.CompanyID,
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		Role:         role,
		IsActive:     m.IsActive,
		Permissions:  role.Permissions(),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
