package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderup/orderup-backend/pkg/db/models"
	"github.com/orderup/orderup-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	FirstName   string         `json:"firstName"`
	LastName    string         `json:"lastName"`
	Phone       *string        `json:"phone"`
	Avatar      *string        `json:"avatar"`
	Role        enums.UserRole `json:"role"`
	IsActive    bool           `json:"isActive"`
	LastLoginAt *time.Time     `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// AddressDTO is one saved delivery address.
type AddressDTO struct {
	ID        uuid.UUID `json:"id"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zipCode"`
	Country   string    `json:"country"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProfileDTO is the caller's own record with their addresses.
type ProfileDTO struct {
	UserDTO
	Addresses []AddressDTO `json:"addresses"`
}

// UpdateProfileRequest is the body of PUT /api/auth/profile. Absent fields are left untouched.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=50"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,min=1,max=50"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
	Avatar    *string `json:"avatar,omitempty" validate:"omitempty,url"`
}

// ChangePasswordRequest is the body of PUT /api/auth/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=128"`
}

// ListQuery is the coerced query of GET /api/users.
type ListQuery struct {
	Page     int             `query:"page" validate:"min=1,max=1000000"`
	Limit    int             `query:"limit" validate:"min=1,max=100"`
	Search   *string         `query:"search" validate:"omitempty,max=100"`
	Role     *enums.UserRole `query:"role" validate:"omitempty,oneof=CUSTOMER RESTAURANT_OWNER ADMIN"`
	IsActive *bool           `query:"isActive"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		Avatar:      u.Avatar,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ProfileFromModel includes the preloaded addresses.
func ProfileFromModel(u *models.User) *ProfileDTO {
	if u == nil {
		return nil
	}
	addresses := make([]AddressDTO, 0, len(u.Addresses))
	for _, a := range u.Addresses {
		addresses = append(addresses, AddressDTO{
			ID:        a.ID,
			Street:    a.Street,
			City:      a.City,
			State:     a.State,
			ZipCode:   a.ZipCode,
			Country:   a.Country,
			IsDefault: a.IsDefault,
			CreatedAt: a.CreatedAt,
		})
	}
	return &ProfileDTO{UserDTO: *FromModel(u), Addresses: addresses}
}
