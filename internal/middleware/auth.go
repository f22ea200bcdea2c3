package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/saintedlittle/hgn-reports/internal/config"
	"github.com/saintedlittle/hgn-reports/internal/dto"
)

// Capabilities carried in the JWT perms claim. The engine never checks these;
// routing does.
const (
	PermAdmin = "admin"
	PermHead  = "head"
)

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// ActorName returns the display name from the verified token, or "" when the
// request carries none.
func ActorName(c *fiber.Ctx) string {
	claims := tokenClaims(c)
	if claims == nil {
		return ""
	}
	name, _ := claims["name"].(string)
	return name
}

// HasPerm reports whether the verified token's perms claim contains perm.
func HasPerm(c *fiber.Ctx, perm string) bool {
	claims := tokenClaims(c)
	if claims == nil {
		return false
	}
	perms, ok := claims["perms"].([]interface{})
	if !ok {
		return false
	}
	for _, p := range perms {
		if s, ok := p.(string); ok && s == perm {
			return true
		}
	}
	return false
}

func tokenClaims(c *fiber.Ctx) jwt.MapClaims {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	return claims
}
