package repository

import (
	"errors"
	"time"

	userdomain "vidtube-backend/internal/user/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// userRepository implements UserRepository on gorm/postgres
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of userRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) Create(user *userdomain.User) error {
	user.ID = uuid.New().String()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id string) (*userdomain.User, error) {
	var user userdomain.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByIdentifier(username, email string) (*userdomain.User, error) {
	var user userdomain.User
	q := r.db
	switch {
	case username != "" && email != "":
		q = q.Where("username = ? OR email = ?", username, email)
	case username != "":
		q = q.Where("username = ?", username)
	default:
		q = q.Where("email = ?", email)
	}
	err := q.First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByUsernameOrEmail(username, email string) (bool, error) {
	var count int64
	err := r.db.Model(&userdomain.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) UpdateFields(id string, fields map[string]interface{}) (*userdomain.User, error) {
	fields["updated_at"] = time.Now()
	res := r.db.Model(&userdomain.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindByID(id)
}

// SwapRefreshToken is the rotation guard: the WHERE clause compares the
// stored token so two concurrent rotations can never both succeed.
func (r *userRepository) SwapRefreshToken(id, current, next string) (bool, error) {
	res := r.db.Model(&userdomain.User{}).
		Where("id = ? AND refresh_token = ?", id, current).
		Updates(map[string]interface{}{"refresh_token": next, "updated_at": time.Now()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *userRepository) ClearRefreshToken(id string) error {
	return r.db.Model(&userdomain.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"refresh_token": "", "updated_at": time.Now()}).Error
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with a hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
