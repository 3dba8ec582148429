package user

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(u *User) error
	GetUserByID(id uint) (*User, error)
	GetUserByEmail(email string) (*User, error)
	GetUserByTelegram(nick string) (*User, error)
	GetAllUsers(page, limit int) ([]User, int64, error)
	UpdateUser(u *User) error
	DeleteUser(id uint) error
	HasAdmin() (bool, error)
	Statistics() (*Statistics, error)

	SaveRefreshToken(rt *RefreshToken) error
	GetRefreshToken(tokenStr string) (*RefreshToken, error)
	DeleteRefreshToken(tokenStr string) error
	DeleteRefreshTokensForUser(userID uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(u *User) error {
	u.Email = strings.ToLower(u.Email)
	return r.db.Create(u).Error
}

func (r *userRepository) GetUserByID(id uint) (*User, error) {
	var u User
	if err := r.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail looks a user up case-insensitively.
func (r *userRepository) GetUserByEmail(email string) (*User, error) {
	var u User
	if err := r.db.Where("LOWER(email) = ?", strings.ToLower(email)).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetUserByTelegram(nick string) (*User, error) {
	var u User
	if err := r.db.Where("telegram_nick = ?", nick).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetAllUsers(page, limit int) ([]User, int64, error) {
	var users []User
	var total int64

	query := r.db.Model(&User{})
	query.Count(&total)
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at asc").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) UpdateUser(u *User) error {
	u.Email = strings.ToLower(u.Email)
	return r.db.Save(u).Error
}

// DeleteUser removes the account; participations, teams and reputation
// history hang off foreign keys with cascade rules.
func (r *userRepository) DeleteUser(id uint) error {
	return r.db.Unscoped().Delete(&User{}, id).Error
}

func (r *userRepository) HasAdmin() (bool, error) {
	var count int64
	err := r.db.Model(&User{}).Where("role = ?", RoleAdmin).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) Statistics() (*Statistics, error) {
	stats := &Statistics{CitiesStats: map[string]int64{}}

	if err := r.db.Model(&User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&User{}).Where("role = ?", RoleAdmin).Count(&stats.AdminUsers).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&User{}).Where("role = ?", RoleUser).Count(&stats.RegularUsers).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := r.db.Model(&User{}).Where("created_at >= ?", monthStart).Count(&stats.UsersThisMonth).Error; err != nil {
		return nil, err
	}

	type cityRow struct {
		City  string
		Count int64
	}
	var cities []cityRow
	if err := r.db.Model(&User{}).
		Select("city, COUNT(*) as count").
		Where("city <> ''").
		Group("city").
		Scan(&cities).Error; err != nil {
		return nil, err
	}
	for _, row := range cities {
		stats.CitiesStats[row.City] = row.Count
	}

	if err := r.db.Model(&User{}).Where("looking_for_team = ?", true).Count(&stats.LookingForTeam).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// --- RefreshToken operations ---

func (r *userRepository) SaveRefreshToken(rt *RefreshToken) error {
	return r.db.Create(rt).Error
}

func (r *userRepository) GetRefreshToken(tokenStr string) (*RefreshToken, error) {
	var rt RefreshToken
	if err := r.db.Where("token = ?", tokenStr).First(&rt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rt, nil
}

func (r *userRepository) DeleteRefreshToken(tokenStr string) error {
	return r.db.Unscoped().Where("token = ?", tokenStr).Delete(&RefreshToken{}).Error
}

func (r *userRepository) DeleteRefreshTokensForUser(userID uint) error {
	return r.db.Unscoped().Where("user_id = ?", userID).Delete(&RefreshToken{}).Error
}
