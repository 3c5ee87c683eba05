package services

import (
	"errors"
	"fmt"
	"strings"

	"recipe-share-system/models"
	"recipe-share-system/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthService handles registration and login. Token issuance and password
// hashing live in utils; the daily-login XP claim goes through the tracker.
type AuthService struct {
	DB      *gorm.DB
	Tracker *ActionTracker
}

func NewAuthService(db *gorm.DB, tracker *ActionTracker) *AuthService {
	return &AuthService{DB: db, Tracker: tracker}
}

// RegisterInput is the signup payload.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a user with a bcrypt password hash.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if input.Username == "" || input.Email == "" {
		return nil, errors.New("username and email are required")
	}
	if len(input.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Level:        1,
		IsActive:     true,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.New("username or email already taken")
		}
		return nil, err
	}
	return &user, nil
}

// LoginResult bundles the token with the daily-login XP outcome so the
// client can show the streak reward on sign-in.
type LoginResult struct {
	Token      string       `json:"token"`
	User       *models.User `json:"user"`
	DailyLogin *TrackResult `json:"daily_login"`
}

// Login checks credentials, issues a JWT and claims the daily-login XP
// (at most once per calendar day).
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.DB.Where("email = ? AND is_active = ?", email, true).First(&user).Error; err != nil {
		return nil, errors.New("invalid credentials")
	}
	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, errors.New("invalid credentials")
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	daily := s.Tracker.TrackDailyLogin(user.ID)

	// Re-read so the response reflects any XP just awarded
	_ = s.DB.Where("id = ?", user.ID).First(&user).Error

	return &LoginResult{Token: token, User: &user, DailyLogin: daily}, nil
}

// GetUser returns one user by id.
func (s *AuthService) GetUser(userID string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
