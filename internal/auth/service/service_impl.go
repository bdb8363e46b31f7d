package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/payables/internal/auth/domain"
	"github.com/smallbiznis/payables/internal/auth/password"
	"github.com/smallbiznis/payables/internal/auth/token"
	"github.com/smallbiznis/payables/internal/clock"
	"github.com/smallbiznis/payables/internal/observability/metrics"
	"github.com/smallbiznis/payables/internal/ratelimit"
	"github.com/smallbiznis/payables/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const minPasswordLength = 8

type Params struct {
	fx.In

	Log     *zap.Logger
	Repo    domain.Repository
	GenID   *snowflake.Node
	Clock   clock.Clock
	Issuer  *token.Issuer
	Limiter *ratelimit.LoginLimiter `optional:"true"`
	Metrics *metrics.Metrics        `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	repo    domain.Repository
	genID   *snowflake.Node
	clock   clock.Clock
	issuer  *token.Issuer
	limiter *ratelimit.LoginLimiter
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("auth.service"),
		repo:    p.Repo,
		genID:   p.GenID,
		clock:   p.Clock,
		issuer:  p.Issuer,
		limiter: p.Limiter,
		metrics: p.Metrics,
	}
}

func (s *Service) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	username := normalizeUsername(req.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: required", domain.ErrInvalidUsername)
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: at least %d characters", domain.ErrInvalidPassword, minPasswordLength)
	}
	role := domain.RoleViewer
	if strings.TrimSpace(req.Role) != "" {
		parsed, ok := domain.ParseRole(req.Role)
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, req.Role)
		}
		role = parsed
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, db.Upstream("user.get", err)
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	user := &domain.User{
		ID:           s.genID.Generate(),
		Username:     username,
		PasswordHash: hashed,
		FullName:     strings.TrimSpace(req.FullName),
		TaxID:        strings.TrimSpace(req.TaxID),
		Department:   strings.TrimSpace(req.Department),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrUserExists
		}
		return nil, db.Upstream("user.create", err)
	}

	s.log.Info("user created", zap.String("username", username), zap.String("role", string(role)))
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, db.Upstream("user.list", err)
	}
	return users, nil
}

// Login verifies the credentials and issues a bearer token. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	username := normalizeUsername(req.Username)
	if username == "" || req.Password == "" {
		s.metrics.RecordLogin(ctx, "invalid")
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.limiter.Allow(ctx, username); err != nil {
		if errors.Is(err, ratelimit.ErrLimited) {
			s.metrics.RecordLogin(ctx, "limited")
			s.metrics.RecordRateLimitDenied(ctx, "token", "login_attempts")
			s.log.Warn("login rate limited", zap.String("username", username), zap.String("ip", req.IPAddress))
			return nil, err
		}
		s.log.Warn("login rate limiter unavailable", zap.Error(err))
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.metrics.RecordLogin(ctx, "invalid")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, db.Upstream("user.get", err)
	}
	if !password.Verify(req.Password, user.PasswordHash) {
		s.metrics.RecordLogin(ctx, "invalid")
		s.log.Info("login rejected", zap.String("username", username), zap.String("ip", req.IPAddress))
		return nil, domain.ErrInvalidCredentials
	}

	raw, expiresAt, err := s.issuer.Issue(user.Username, string(user.Role))
	if err != nil {
		return nil, err
	}
	s.metrics.RecordLogin(ctx, "success")
	return &domain.LoginResult{
		AccessToken: raw,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		ExpiresIn:   expiresAt.Sub(s.clock.Now().UTC()),
		User:        user,
	}, nil
}

// Authenticate resolves a bearer token to its user. The role is read from the
// store, so a role change takes effect before the token expires.
func (s *Service) Authenticate(ctx context.Context, rawToken string) (*domain.User, error) {
	claims, err := s.issuer.Parse(rawToken)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	user, err := s.repo.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, db.Upstream("user.get", err)
	}
	return user, nil
}

func normalizeUsername(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
