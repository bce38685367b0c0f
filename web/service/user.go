// Package service implements the account operations behind the web controllers.
package service

import (
	"github.com/camdash/camdash/database"
	"github.com/camdash/camdash/database/model"
	"github.com/camdash/camdash/logger"
	"github.com/camdash/camdash/util/crypto"

	"gorm.io/gorm"
)

// UserService owns persistence of user accounts.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByUsername returns the user with the given name, or nil if there is none.
func (s *UserService) GetUserByUsername(username string) (*model.User, error) {
	user := &model.User{}
	err := s.db.Model(model.User{}).
		Where("username = ?", username).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserById returns the user with the given id, or nil if there is none.
func (s *UserService) GetUserById(id int) (*model.User, error) {
	user := &model.User{}
	err := s.db.Model(model.User{}).
		Where("id = ?", id).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser inserts a user with an already hashed password. A username that
// is taken yields ErrDuplicateUsername.
func (s *UserService) CreateUser(username string, passwordHash string) (*model.User, error) {
	user := &model.User{
		Username: username,
		Password: passwordHash,
	}
	err := s.db.Create(user).Error
	if database.IsDuplicateKey(err) {
		return nil, ErrDuplicateUsername
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

// RegisterUser hashes password and stores a new account. A password longer
// than crypto.MaxPasswordBytes yields ErrPasswordTooLong.
func (s *UserService) RegisterUser(username string, password string) (*model.User, error) {
	if len(password) > crypto.MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	hashedPassword, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return nil, err
	}
	return s.CreateUser(username, hashedPassword)
}

// CheckUser returns the user whose credentials match, or ErrInvalidCredentials
// when the username is unknown or the password is wrong.
func (s *UserService) CheckUser(username string, password string) (*model.User, error) {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		logger.Warning("check user err:", err)
		return nil, err
	}
	if user == nil {
		crypto.BurnCompare(password)
		return nil, ErrInvalidCredentials
	}
	if !crypto.CheckPasswordHash(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) CountUsers() (int64, error) {
	var count int64
	err := s.db.Model(model.User{}).Count(&count).Error
	return count, err
}
