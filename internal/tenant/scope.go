package tenant

import "gorm.io/gorm"

// Scope restricts a query to one tenant. An empty tenant id (super_admin
// cross-tenant view) applies no filter.
func Scope(tenantID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == "" {
			return db
		}
		return db.Where("tenant_id = ?", tenantID)
	}
}
