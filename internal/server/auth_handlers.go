package server

import (
	"fmt"
	"time"

	"github.com/rockyhaque/uplift-orbit-server/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	sessionCookieName = "token"
	sessionTTL        = 7 * 24 * time.Hour
)

// CreateToken handles POST /jwt
// The body carries the identity claims (at least an email) of the user the
// frontend just authenticated; the handler signs them into a session cookie.
func (s *Server) CreateToken(c *fiber.Ctx) error {
	var identity map[string]any
	if err := c.BodyParser(&identity); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	email, _ := identity["email"].(string)
	if email == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email is required"))
	}

	token, err := s.generateToken(identity)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	c.Cookie(s.sessionCookie(token, time.Now().Add(sessionTTL)))
	return c.JSON(fiber.Map{"success": true})
}

// Logout handles GET /logout
func (s *Server) Logout(c *fiber.Ctx) error {
	expired := s.sessionCookie("", time.Now().Add(-time.Hour))
	expired.MaxAge = -1
	c.Cookie(expired)
	return c.JSON(fiber.Map{"success": true})
}

// sessionCookie builds the session cookie with the attribute profile for the
// current deployment environment: cross-site + secure in production, strict
// same-site otherwise.
func (s *Server) sessionCookie(value string, expires time.Time) *fiber.Cookie {
	cookie := &fiber.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Expires:  expires,
		HTTPOnly: true,
		Path:     "/",
	}
	if s.config.IsProduction() {
		cookie.Secure = true
		cookie.SameSite = fiber.CookieSameSiteNoneMode
	} else {
		cookie.SameSite = fiber.CookieSameSiteStrictMode
	}
	return cookie
}

// generateToken signs the given identity claims with the server secret.
func (s *Server) generateToken(identity map[string]any) (string, error) {
	// Validate secret exists
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{}
	for k, v := range identity {
		claims[k] = v
	}
	claims["exp"] = now.Add(sessionTTL).Unix() // Expiration (7 days)
	claims["iat"] = now.Unix()                 // Issued at
	claims["iss"] = "uplift-orbit-server"      // Issuer
	claims["jti"] = s.generateJTI()            // JWT ID (unique identifier)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
