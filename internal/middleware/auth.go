package middleware

import (
	"errors"
	"strings"

	"aqarat_backend/internal/model"
	"aqarat_backend/pkg/utils/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	msgLoginRequired = "يجب تسجيل الدخول اولا"
	msgAdminOnly     = "يجب ان تكون ادمن"
)

// userKey is the Locals key holding the *jwt.Claims of the caller.
const userKey = "user"

// AuthMiddleware accepts a Bearer token only while its version matches the
// user's stored token_version, so logout and password changes revoke it.
// The role in Locals is the stored one, not the one baked into the token.
func AuthMiddleware(issuer *jwt.Issuer, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return deny(c, fiber.StatusUnauthorized, msgLoginRequired)
		}

		claims, err := issuer.ValidateToken(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if err != nil {
			return deny(c, fiber.StatusUnauthorized, msgLoginRequired)
		}

		var u model.User
		err = db.WithContext(c.UserContext()).Select("id", "role", "token_version").First(&u, claims.UserID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return deny(c, fiber.StatusUnauthorized, msgLoginRequired)
		}
		if err != nil {
			log.Error().Err(err).Msg("auth lookup failed")
			return deny(c, fiber.StatusInternalServerError, "حدث خطأ في السيرفر")
		}
		if u.TokenVersion != claims.TokenVersion {
			return deny(c, fiber.StatusUnauthorized, msgLoginRequired)
		}

		claims.Role = string(u.Role)
		c.Locals(userKey, claims)
		return c.Next()
	}
}

// IsAdmin must run after AuthMiddleware.
func IsAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return deny(c, fiber.StatusUnauthorized, msgLoginRequired)
		}
		if claims.Role != string(model.RoleAdmin) {
			return deny(c, fiber.StatusForbidden, msgAdminOnly)
		}
		return c.Next()
	}
}

// Claims returns the authenticated caller, or nil on public routes.
func Claims(c *fiber.Ctx) *jwt.Claims {
	claims, _ := c.Locals(userKey).(*jwt.Claims)
	return claims
}

func deny(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}
