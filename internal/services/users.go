package services

import (
	"errors"

	"todos-api/internal/models"
	"todos-api/internal/security"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var ErrEmailTaken = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid email or password")

type UserService interface {
	Register(db *gorm.DB, email, password string) (*models.User, error)
	Authenticate(db *gorm.DB, email, password string) (*models.User, error)
	GetByEmail(db *gorm.DB, email string) (*models.User, error)
}

type UserServiceImpl struct {
	hasher *security.PasswordHasher
}

func NewUserService(hasher *security.PasswordHasher) *UserServiceImpl {
	return &UserServiceImpl{hasher: hasher}
}

func (s *UserServiceImpl) Register(db *gorm.DB, email, password string) (*models.User, error) {
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:             userID,
		Email:          email,
		HashedPassword: hashed,
	}

	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *UserServiceImpl) Authenticate(db *gorm.DB, email, password string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

func (s *UserServiceImpl) GetByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
