package middleware

import (
	"net/http"
	"strings"

	"kafka-governance/internal/sync"
	"kafka-governance/pkg/jwtutil"
	"kafka-governance/pkg/logger"
	"kafka-governance/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware validates the JWT token and builds the caller principal
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromEcho(c)
		prometheus.RecordAuthAttempt()

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			prometheus.RecordAuthError()
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			prometheus.RecordAuthError()
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			prometheus.RecordAuthError()
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		if claims.TenantID == nil {
			log.Warn("JWT token does not contain tenant_id")
			prometheus.RecordTenantContextMissing()
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant_id is required in the token"})
		}

		principal := &sync.Principal{
			UserName:    claims.Email,
			TenantID:    *claims.TenantID,
			Permissions: claims.Permissions,
			AllowedEnvs: claims.AllowedEnvs,
		}
		c.Set("principal", principal)
		c.Set("user_id", claims.UserID)
		c.Set("tenant_id", *claims.TenantID)
		c.Set("tenant_name", claims.TenantName)

		log.Info("Request authenticated with tenant context",
			zap.Uint("tenant_id", *claims.TenantID),
			zap.String("tenant_name", claims.TenantName),
			zap.String("role", claims.Role))

		return next(c)
	}
}

// PrincipalFromContext retrieves the authenticated principal from the context.
// Returns nil when the request did not pass through AuthMiddleware.
func PrincipalFromContext(c echo.Context) *sync.Principal {
	p, _ := c.Get("principal").(*sync.Principal)
	return p
}

// GetTenantIDFromContext retrieves the tenant ID from the context
// Returns 0, false if tenant ID is not found
func GetTenantIDFromContext(c echo.Context) (uint, bool) {
	tenantID, ok := c.Get("tenant_id").(uint)
	return tenantID, ok
}
