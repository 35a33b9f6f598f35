package service

import (
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/clearlabel/transparency-api/internal/models"
	"github.com/clearlabel/transparency-api/internal/repository"
	"github.com/clearlabel/transparency-api/internal/utils"
)

// AuthService authenticates users and issues session tokens.
type AuthService struct {
	userRepo  *repository.UserRepository
	jwtSecret string
	jwtTTL    time.Duration
}

// NewAuthService constructs a new AuthService.
func NewAuthService(userRepo *repository.UserRepository, jwtSecret string, jwtTTL time.Duration) *AuthService {
	return &AuthService{userRepo: userRepo, jwtSecret: jwtSecret, jwtTTL: jwtTTL}
}

// Login verifies credentials and returns a signed session token.
func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		log.Debug().Err(err).Str("email", email).Msg("Login lookup failed")
		return "", utils.ErrInvalidCredentials
	}

	if !user.IsActive {
		log.Warn().Str("email", email).Msg("Login attempt on inactive account")
		return "", utils.ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Debug().Str("email", email).Msg("Password verification failed")
		return "", utils.ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(s.jwtSecret, user.ID, user.Email, s.jwtTTL)
	if err != nil {
		return "", err
	}

	log.Info().Str("email", email).Msg("Login successful")
	return token, nil
}

// CreateUser registers a new user with a bcrypt-hashed password.
func (s *AuthService) CreateUser(email, password, name string, companyID *int) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         name,
		CompanyID:    companyID,
		IsActive:     true,
	}

	return s.userRepo.Create(user)
}
