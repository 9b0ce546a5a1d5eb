package auth

import (
	"blog-content-service/internal/environment"
	"blog-content-service/internal/models"
	"errors"
)

var ErrLoginFailed = errors.New("username or password false")

// AuthService checks logins against the admin credentials of the configuration.
type AuthService struct {
	*environment.Env
	AdminUsername     string
	AdminPasswordHash string
}

// DoLogin verifies the credentials of user.
func (s *AuthService) DoLogin(user *models.User) error {
	if len(s.AdminUsername) == 0 || len(s.AdminPasswordHash) == 0 {
		s.LogWarn(nil, "login attempt while no admin credentials are configured")
		return ErrLoginFailed
	}

	if user.Username != s.AdminUsername {
		return ErrLoginFailed
	}

	if err := models.VerifyPassword(s.AdminPasswordHash, user.Password); err != nil {
		return ErrLoginFailed
	}

	return nil
}
