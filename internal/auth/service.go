// backend/internal/auth/service.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/gunjand01/Quiz-App/internal/models"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

type Service struct {
	repo      *Repository
	jwtSecret []byte
}

func NewService(repo *Repository, jwtSecret string) *Service {
	return &Service{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
	}
}

// Register creates a user account. The confirmation password must match
// and the email must not already be taken.
func (s *Service) Register(req models.RegisterRequest) (*models.User, error) {
	if req.Password != req.ConfirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", models.ErrValidation)
	}

	if _, err := s.repo.GetUserByEmail(req.Email); err == nil {
		return nil, fmt.Errorf("%w: email is already registered", models.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
	}
	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a signed token carrying the user id.
func (s *Service) Login(email, password string) (string, *models.User, error) {
	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		return "", nil, fmt.Errorf("%w: email or password mismatch", models.ErrValidation)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("%w: email or password mismatch", models.ErrValidation)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return tokenString, user, nil
}
