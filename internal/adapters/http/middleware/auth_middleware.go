package middleware

import (
	"strings"

	"apcb-events/internal/config"
	"apcb-events/internal/core/domain"
	"apcb-events/internal/pkg/jwt"
	"apcb-events/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// AuthMiddleware creates authentication middleware. The validated claims
// become the request principal; the role claim is read from the token
// only, never from the request body.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set principal in context
		c.Locals(principalKey, domain.Principal{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   domain.Role(claims.Role),
		})

		return c.Next()
	}
}

// GetPrincipal returns the authenticated principal for the request
func GetPrincipal(c *fiber.Ctx) (domain.Principal, bool) {
	p, ok := c.Locals(principalKey).(domain.Principal)
	return p, ok
}

// RoleMiddleware creates role-based authorization middleware. Roles are
// listed explicitly; anything not named is denied.
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := GetPrincipal(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		if err := domain.Authorize(principal.Role, allowedRoles...); err != nil {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// SuperAdminOnly allows only super_admin
func SuperAdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleSuperAdmin)
}

// AdminData allows the roles that may read admin surfaces
func AdminData() fiber.Handler {
	return RoleMiddleware(domain.RoleSuperAdmin, domain.RoleFinancePerson, domain.RoleEventManager)
}

// FinanceGated allows the roles that may mutate payment state
func FinanceGated() fiber.Handler {
	return RoleMiddleware(domain.RoleSuperAdmin, domain.RoleFinancePerson)
}

// EventStaff allows the roles that manage events and register others
func EventStaff() fiber.Handler {
	return RoleMiddleware(domain.RoleSuperAdmin, domain.RoleEventManager)
}
