package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/launchcopy/accessgate/internal/gormw"
	"github.com/launchcopy/accessgate/internal/models"
)

func GetUserByEmail(db *gormw.DB, email string) (*models.User, error) {
	user := &models.User{}
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func GetUserByID(db *gormw.DB, id string) (*models.User, error) {
	user := &models.User{}
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func CreateUser(db *gormw.DB, user *models.User) error {
	return db.Create(user).Error
}

// EnsureUser bridges an identity-provider account into the user table. If a
// row with the same ID already exists it is returned unchanged; attributes
// from the provider are only written on first creation.
func EnsureUser(db *gormw.DB, user *models.User) (*models.User, error) {
	existing, err := GetUserByID(db, user.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if user.Status == "" {
		user.Status = models.UserStatusActive
	}
	if err := db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateLastLogin stamps the user's last_login without reading the row first.
// A missing row surfaces as gorm.ErrRecordNotFound.
func UpdateLastLogin(db *gormw.DB, email string, now time.Time) error {
	res := db.Model(&models.User{}).Where("email = ?", email).Update("last_login", now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
