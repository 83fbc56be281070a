package repository

import (
	userdomain "vidtube-backend/internal/user/domain"
)

// UserRepository is the credential store. Lookups return (nil, nil) when no
// record matches.
type UserRepository interface {
	Create(user *userdomain.User) error
	FindByID(id string) (*userdomain.User, error)
	// FindByIdentifier matches on username OR email; either may be empty.
	FindByIdentifier(username, email string) (*userdomain.User, error)
	ExistsByUsernameOrEmail(username, email string) (bool, error)
	// UpdateFields writes only the given columns, bypassing full-record
	// validation, and returns the updated record.
	UpdateFields(id string, fields map[string]interface{}) (*userdomain.User, error)
	// SwapRefreshToken atomically replaces the stored refresh token, but only
	// if it still equals current. Returns false when the guard fails, which
	// means the token was already rotated or cleared.
	SwapRefreshToken(id, current, next string) (bool, error)
	ClearRefreshToken(id string) error
}
