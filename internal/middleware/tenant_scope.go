package middleware

import (
	"net/http"

	"github.com/TAIYOKONO/kintaikanri/internal/shared/apperror"
	"github.com/TAIYOKONO/kintaikanri/internal/shared/contextutil"
	"github.com/TAIYOKONO/kintaikanri/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const RoleSuperAdmin = "super_admin"

// TenantScope resolves the tenant every downstream data access is scoped
// to. A super_admin may pick any tenant via the ?tenant= query parameter
// (or none, for cross-tenant views). Everyone else is pinned to the tenant
// in their token: a mismatched ?tenant= is rejected with the caller's own
// tenant id so the client can redirect there.
func TenantScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		ownTenant := c.GetString("tenant_id")
		requested := c.Query("tenant")

		var effective string
		switch {
		case role == RoleSuperAdmin:
			effective = requested // empty means all tenants
		case ownTenant == "":
			// No tenant binding resolvable: treat as unauthenticated.
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "No tenant could be resolved for this account", nil)
			c.Abort()
			return
		case requested != "" && requested != ownTenant:
			response.Error(c, http.StatusForbidden, apperror.CodeTenantMismatch, "You do not belong to the requested tenant", gin.H{
				"tenant_id": ownTenant,
			})
			c.Abort()
			return
		default:
			effective = ownTenant
		}

		c.Set("tenant_id", effective)
		c.Request = c.Request.WithContext(
			contextutil.WithTenantID(c.Request.Context(), effective),
		)
		c.Next()
	}
}
