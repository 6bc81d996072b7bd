package auth

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	autherrors "github.com/TAIYOKONO/kintaikanri/internal/auth/errors"
	"github.com/TAIYOKONO/kintaikanri/internal/events"
	"github.com/TAIYOKONO/kintaikanri/internal/invite"
	"github.com/TAIYOKONO/kintaikanri/internal/messaging/kafka"
	"github.com/TAIYOKONO/kintaikanri/internal/rbac"
	"github.com/TAIYOKONO/kintaikanri/internal/shared/contextutil"
	"github.com/TAIYOKONO/kintaikanri/internal/tenant"
	"github.com/TAIYOKONO/kintaikanri/internal/user"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type Service interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)
	GetMe(ctx context.Context, userID, tenantID string) (*AuthResponse, error)
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
}

type service struct {
	db         *gorm.DB
	userRepo   user.Repository
	tenantRepo tenant.Repository
	inviteSvc  invite.Service
	rbac       rbac.Service
	outbox     kafka.OutboxRepository
	logger     *zap.Logger
}

func NewService(
	db *gorm.DB,
	userRepo user.Repository,
	tenantRepo tenant.Repository,
	inviteSvc invite.Service,
	rbacSvc rbac.Service,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		db:         db,
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		inviteSvc:  inviteSvc,
		rbac:       rbacSvc,
		outbox:     outbox,
		logger:     l.Named("auth"),
	}
}

// Login resolves the tenant from the global email directory first, so the
// client never has to say which workspace it belongs to.
func (s *service) Login(ctx context.Context, email, password string) (string, string, AuthResponse, error) {
	global, err := s.userRepo.GetGlobalByEmail(ctx, email)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	u, err := s.userRepo.GetByID(ctx, global.UserID.String())
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if !u.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrAccountDisabled
	}

	if u.Role != user.RoleSuperAdmin {
		t, err := s.tenantRepo.GetByID(ctx, u.TenantID)
		if err != nil {
			return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
		}
		if t.Status != tenant.StatusActive {
			return "", "", AuthResponse{}, autherrors.ErrTenantSuspended
		}

		if err := s.rbac.LoadTenantPolicy(u.TenantID); err != nil {
			return "", "", AuthResponse{}, err
		}
	}

	accessToken, err := s.generateToken(u, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err := s.generateToken(u, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("login",
		zap.String("user_id", u.ID.String()),
		zap.String("tenant_id", u.TenantID),
		zap.String("role", u.Role))

	return accessToken, refreshToken, toAuthResponse(u), nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}
	if _, err := uuid.Parse(userID); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidUserID
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrUserNotFound
	}
	if !u.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrAccountDisabled
	}

	newAccess, err := s.generateToken(u, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	newRefresh, err := s.generateToken(u, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return newAccess, newRefresh, toAuthResponse(u), nil
}

func (s *service) GetMe(ctx context.Context, userID, tenantID string) (*AuthResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}

	// A stale token must not read across workspaces.
	if u.Role != user.RoleSuperAdmin && u.TenantID != tenantID {
		return nil, autherrors.ErrForbidden
	}

	resp := toAuthResponse(u)
	return &resp, nil
}

// Register creates an employee account from an invite code. The invite
// claim, the user row, the email directory entry, and the outbox event
// commit in one transaction.
func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.userRepo.GetGlobalByEmail(ctx, email); err == nil {
		return AuthResponse{}, autherrors.ErrEmailAlreadyRegistered
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	var created *user.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := s.inviteSvc.Consume(ctx, tx, req.Code)
		if err != nil {
			return err
		}

		u := &user.User{
			ID:          uuid.New(),
			TenantID:    inv.TenantID,
			Email:       email,
			DisplayName: req.DisplayName,
			Role:        user.RoleEmployee,
			Password:    string(hashed),
			IsActive:    true,
		}

		txUsers := s.userRepo.WithTx(tx)
		if err := txUsers.Create(ctx, u); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return autherrors.ErrEmailAlreadyRegistered
			}
			return err
		}

		if err := txUsers.UpsertGlobal(ctx, &user.GlobalUser{
			Email:       email,
			UserID:      u.ID,
			TenantID:    inv.TenantID,
			Role:        user.RoleEmployee,
			DisplayName: req.DisplayName,
		}); err != nil {
			return err
		}

		payload, err := json.Marshal(events.EmployeeRegisteredEvent{
			EventType:  "employee.registered",
			UserID:     u.ID.String(),
			TenantID:   inv.TenantID,
			Email:      email,
			InviteCode: inv.Code,
			OccurredAt: time.Now().UTC(),
		})
		if err != nil {
			return err
		}

		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     contextutil.GetRequestID(ctx),
			AggregateType: "user",
			AggregateID:   u.ID.String(),
			EventType:     "employee.registered",
			Topic:         events.EmployeeRegisteredTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			return err
		}

		created = u
		return nil
	})
	if err != nil {
		return AuthResponse{}, err
	}

	s.logger.Info("employee registered",
		zap.String("user_id", created.ID.String()),
		zap.String("tenant_id", created.TenantID))

	return toAuthResponse(created), nil
}

func (s *service) generateToken(u *user.User, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   u.ID.String(),
		"tenant_id": u.TenantID,
		"role":      u.Role,
		"email":     u.Email,
		"exp":       time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func toAuthResponse(u *user.User) AuthResponse {
	return AuthResponse{
		ID:          u.ID.String(),
		TenantID:    u.TenantID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
	}
}
