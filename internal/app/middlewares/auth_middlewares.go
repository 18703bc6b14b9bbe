package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/recibolab/recibo-core/internal/app/errors"
	"github.com/recibolab/recibo-core/internal/app/models"
	"github.com/recibolab/recibo-core/internal/app/pkg"
	"github.com/recibolab/recibo-core/internal/app/services"
	"github.com/recibolab/recibo-core/internal/infrastructures"
)

// AuthMiddleware resolves the acting user from a bearer token issued by
// the external identity provider. No tokens are minted here; the subject
// claim is treated as an opaque user reference and looked up locally.
type AuthMiddleware struct {
	userService *services.UserService
}

func NewAuthMiddleware(userService *services.UserService) *AuthMiddleware {
	return &AuthMiddleware{userService: userService}
}

func (m *AuthMiddleware) RequireUser(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	if header == "" {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError())
	}
	tokenString := strings.Replace(header, "Bearer ", "", 1)

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.NewUnauthorizedError("Unexpected token signing method")
		}
		return []byte(infrastructures.Config.JWT_SECRET), nil
	}, jwt.WithIssuer(infrastructures.Config.JWT_ISSUER), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError("Invalid or expired token"))
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError("Token has no subject"))
	}

	user, err := m.userService.GetUser(subject)
	if err != nil {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError("Unknown user"))
	}
	if !user.Active {
		return pkg.ErrorResponse(c, errors.NewForbiddenError("User account is deactivated"))
	}

	c.Locals("user", user)
	c.Locals("user_id", user.ID.String())

	return c.Next()
}

// RequireRole gates a route to the given roles. Admins always pass.
func (m *AuthMiddleware) RequireRole(roles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(*models.User)
		if !ok || user == nil {
			return pkg.ErrorResponse(c, errors.NewUnauthorizedError())
		}
		if user.Role == models.UserRoleAdmin {
			return c.Next()
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return pkg.ErrorResponse(c, errors.NewForbiddenError("Insufficient role for this operation"))
	}
}
