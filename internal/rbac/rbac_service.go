package rbac

import (
	"sync"

	"go.uber.org/zap"

	"github.com/TAIYOKONO/kintaikanri/internal/domain"
	rbacerrors "github.com/TAIYOKONO/kintaikanri/internal/rbac/errors"
)

type Service interface {
	LoadTenantPolicy(tenantID string) error
	Enforce(req domain.EnforceRequest) (bool, error)

	ListPermissions() ([]PermissionResponse, error)
	GetRolePermissions(tenantID, role string) ([]PermissionResponse, error)
	UpdateRolePermissions(tenantID, role string, permissionIDs []string) error
}

type Enforcer interface {
	ClearPolicy()
	AddGroupingPolicy(params ...interface{}) (bool, error)
	AddPolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
}

type service struct {
	repo     Repository
	enforcer Enforcer
	mu       sync.Mutex
	logger   *zap.Logger
}

func NewService(repo Repository, enforcer Enforcer, logger ...*zap.Logger) Service {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l.Named("rbac"),
	}
}

func (s *service) LoadTenantPolicy(tenantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadTenantPolicyUnlocked(tenantID)
}

func (s *service) loadTenantPolicyUnlocked(tenantID string) error {
	s.enforcer.ClearPolicy()

	userRoles, err := s.repo.GetUserRoles(tenantID)
	if err != nil {
		return err
	}

	for _, ur := range userRoles {
		if _, err := s.enforcer.AddGroupingPolicy(ur.UserID, ur.Role, tenantID); err != nil {
			return err
		}
	}

	rolePerms, err := s.repo.GetRolePermissions(tenantID)
	if err != nil {
		return err
	}

	for _, rp := range rolePerms {
		if _, err := s.enforcer.AddPolicy(rp.Role, tenantID, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	s.logger.Debug("policy loaded",
		zap.String("tenant_id", tenantID),
		zap.Int("user_roles", len(userRoles)),
		zap.Int("role_permissions", len(rolePerms)))

	return nil
}

// Enforce reloads the tenant's policy before each decision. Policies are
// small per tenant and the reload keeps decisions consistent with the
// latest role_permissions rows without cache invalidation plumbing.
func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadTenantPolicyUnlocked(req.TenantID); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(req.UserID, req.TenantID, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("enforce failed",
			zap.String("user_id", req.UserID),
			zap.String("tenant_id", req.TenantID),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err))
		return false, err
	}

	s.logger.Debug("enforce result",
		zap.String("user_id", req.UserID),
		zap.String("tenant_id", req.TenantID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed))

	return allowed, nil
}

func (s *service) ListPermissions() ([]PermissionResponse, error) {
	rows, err := s.repo.ListPermissions()
	if err != nil {
		return nil, err
	}
	return toPermissionResponses(rows), nil
}

func (s *service) GetRolePermissions(tenantID, role string) ([]PermissionResponse, error) {
	if !isAssignableRole(role) {
		return nil, rbacerrors.ErrUnknownRole
	}
	rows, err := s.repo.GetPermissionsByRole(tenantID, role)
	if err != nil {
		return nil, err
	}
	return toPermissionResponses(rows), nil
}

func (s *service) UpdateRolePermissions(tenantID, role string, permissionIDs []string) error {
	if !isAssignableRole(role) {
		return rbacerrors.ErrUnknownRole
	}
	if err := s.repo.UpdateRolePermissions(tenantID, role, permissionIDs); err != nil {
		return err
	}
	s.logger.Info("role permissions updated",
		zap.String("tenant_id", tenantID),
		zap.String("role", role),
		zap.Int("count", len(permissionIDs)))
	return nil
}

func isAssignableRole(role string) bool {
	return role == "employee" || role == "admin"
}

func toPermissionResponses(rows []PermissionRow) []PermissionResponse {
	out := make([]PermissionResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, PermissionResponse{
			ID:       row.ID,
			Resource: row.Resource,
			Action:   row.Action,
			Label:    row.Label,
			Category: row.Category,
		})
	}
	return out
}
