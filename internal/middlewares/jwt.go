package middlewares

import (
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"net/http"
	"strings"
	"time"
)

const (
	Issuer    = "blog-content-service"
	RoleAdmin = "admin"

	bearerPrefix = "Bearer "
)

var (
	// SigningKey signs and verifies every token. main replaces it with the configured key.
	SigningKey = "79tesfUO0vy!U1wl7c8&EavOzmO2#W"

	// TokenLifetime is the validity of issued and refreshed tokens.
	TokenLifetime = 12 * time.Hour
)

var (
	ErrMissingToken = errors.New("an authorization token was not supplied")
	ErrMissingRole  = errors.New("the token does not grant the required role")
)

func AuthHandler(authRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Request.Header.Get("Authorization")

		// Check if token in correct format
		// ie Bearer xx03xllasx
		if !strings.HasPrefix(token, bearerPrefix) {
			if len(token) <= 0 {
				c.JSON(http.StatusForbidden, gin.H{"message": "Your request is not authorized."})
			} else {
				c.JSON(http.StatusForbidden, gin.H{"message": "Your request is not authorized. Are you missing the prefix 'Bearer'?"})
			}
			c.Abort()
			return
		}

		if _, err := Authorize(token, authRoles...); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"message": "Invalid authorization token"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// BearerToken extracts the token of an Authorization header value.
func BearerToken(header string) (string, error) {
	token, found := strings.CutPrefix(header, bearerPrefix)
	if !found || len(strings.TrimSpace(token)) == 0 {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}

// Authorize validates the bearer token of header and checks that its claims carry every role in authRoles.
func Authorize(header string, authRoles ...string) (*BlogClaims, error) {
	tokenString, err := BearerToken(header)
	if err != nil {
		return nil, err
	}

	token, err := ValidateToken(tokenString, SigningKey)
	if err != nil {
		return nil, err
	}

	claims := token.Claims.(*BlogClaims)
	for _, role := range authRoles {
		if !contains(claims.Roles, role) {
			return nil, fmt.Errorf("%w: %s", ErrMissingRole, role)
		}
	}

	return claims, nil
}

func contains(slice []string, item string) bool {
	set := make(map[string]struct{}, len(slice))
	for _, s := range slice {
		set[s] = struct{}{}
	}

	_, ok := set[item]
	return ok
}

type BlogClaims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.StandardClaims
}

func GenerateToken(key []byte, username string, roles []string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(TokenLifetime)
	claims := BlogClaims{
		username,
		roles,
		jwt.StandardClaims{
			ExpiresAt: expiresAt.Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    Issuer,
			Subject:   username,
		},
	}

	return SignClaims(key, &claims, expiresAt)
}

// SignClaims moves the expiry of claims to expiresAt and signs them.
func SignClaims(key []byte, claims *BlogClaims, expiresAt time.Time) (string, time.Time, error) {
	claims.ExpiresAt = expiresAt.Unix()
	claims.IssuedAt = time.Now().Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(key)
	return tokenString, expiresAt, err
}

func ValidateToken(tokenString string, key string) (*jwt.Token, error) {
	token, err := jwt.ParseWithClaims(tokenString, &BlogClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(key), nil
	})

	return token, err
}
