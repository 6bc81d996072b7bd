package rbac

import "gorm.io/gorm"

type Repository interface {
	GetUserRoles(tenantID string) ([]UserRoleRow, error)
	GetRolePermissions(tenantID string) ([]RolePermissionRow, error)

	ListPermissions() ([]PermissionRow, error)
	GetPermissionsByRole(tenantID, role string) ([]PermissionRow, error)
	UpdateRolePermissions(tenantID, role string, permIDs []string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type PermissionRow struct {
	ID       string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Resource string
	Action   string
	Label    string
	Category string
}

type UserRoleRow struct {
	UserID string
	Role   string
}

type RolePermissionRow struct {
	Role     string
	Resource string
	Action   string
}

// GetUserRoles returns the user -> role grouping for one tenant. Roles
// are the fixed set on the users table, not a free-form role catalog.
func (r *repository) GetUserRoles(tenantID string) ([]UserRoleRow, error) {
	var result []UserRoleRow

	err := r.db.
		Table("users").
		Select("users.id::text AS user_id, users.role").
		Where("users.tenant_id = ? AND users.deleted_at IS NULL", tenantID).
		Scan(&result).Error

	return result, err
}

func (r *repository) GetRolePermissions(tenantID string) ([]RolePermissionRow, error) {
	var result []RolePermissionRow

	err := r.db.
		Table("role_permissions").
		Select("role_permissions.role, permissions.resource, permissions.action").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("role_permissions.tenant_id = ?", tenantID).
		Scan(&result).Error

	return result, err
}

func (r *repository) ListPermissions() ([]PermissionRow, error) {
	var result []PermissionRow
	err := r.db.Table("permissions").Order("category, label").Find(&result).Error
	return result, err
}

func (r *repository) GetPermissionsByRole(tenantID, role string) ([]PermissionRow, error) {
	var result []PermissionRow
	err := r.db.
		Table("permissions").
		Select("permissions.*").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.tenant_id = ? AND role_permissions.role = ?", tenantID, role).
		Scan(&result).Error
	return result, err
}

func (r *repository) UpdateRolePermissions(tenantID, role string, permIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM role_permissions WHERE tenant_id = ? AND role = ?", tenantID, role).Error; err != nil {
			return err
		}

		for _, pID := range permIDs {
			if err := tx.Exec(
				"INSERT INTO role_permissions (tenant_id, role, permission_id) VALUES (?, ?, ?)",
				tenantID, role, pID,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
