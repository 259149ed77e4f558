package store

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dts-gxu/JobTracker/internal/models"
)

// UserStore persists accounts and validates logins.
type UserStore struct {
	db         *gorm.DB
	bcryptCost int
}

func NewUserStore(db *gorm.DB, bcryptCost int) *UserStore {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserStore{db: db, bcryptCost: bcryptCost}
}

// RegisterInput carries the registration form fields. Password confirmation
// is checked at the handler boundary.
type RegisterInput struct {
	Username       string
	Email          string
	Password       string
	RealName       string
	Phone          string
	TargetPosition string
	GraduationYear *int
	Major          string
	School         string
}

// Register creates an account, storing a bcrypt hash of the password and
// never the plaintext. Username and email must be unused.
func (s *UserStore) Register(in RegisterInput) (*models.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, validationErr("account", "username, email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:       in.Username,
		Email:          in.Email,
		PasswordHash:   string(hash),
		RealName:       in.RealName,
		Phone:          in.Phone,
		TargetPosition: in.TargetPosition,
		GraduationYear: in.GraduationYear,
		Major:          in.Major,
		School:         in.School,
		IsActive:       true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("username = ?", in.Username).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateUsername
		}

		if err := tx.Model(&models.User{}).
			Where("email = ?", in.Email).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateEmail
		}

		return tx.Create(user).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate looks the user up by username and verifies the password hash.
// Both failure modes collapse into ErrInvalidCredentials.
func (s *UserStore) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// TouchLastLogin records a successful login time.
func (s *UserStore) TouchLastLogin(user *models.User) error {
	now := time.Now()
	user.LastLogin = &now
	return s.db.Model(user).Update("last_login", now).Error
}

// ByID resolves a session's user id to the account.
func (s *UserStore) ByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
