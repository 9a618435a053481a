package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/Ayushpcode/Project/responses"
)

// NewAuthMiddleware validates the bearer token and saves the user identity
// to Locals. Token issuance belongs to the auth service; this side only
// verifies.
func NewAuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(responses.UserResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "No auth token, access denied",
			})
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 || bearerToken[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(responses.UserResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Invalid authorization header format",
			})
		}

		claims := &jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(bearerToken[1], claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(responses.UserResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Token verification failed, access denied",
			})
		}

		userId, ok := (*claims)["id"].(string)
		if !ok || userId == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(responses.UserResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "User ID not found in token",
			})
		}

		c.Locals("userId", userId)
		if role, ok := (*claims)["role"].(string); ok {
			c.Locals("role", role)
		}

		return c.Next()
	}
}

// AdminOnly gates the admin surface on the role claim.
func AdminOnly(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	if role != "admin" {
		return c.Status(fiber.StatusForbidden).JSON(responses.UserResponse{
			Status:  fiber.StatusForbidden,
			Message: "Admin access required",
		})
	}
	return c.Next()
}
