package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/internal/users"
	pkgAuth "github.com/angelmondragon/storefront/pkg/auth"
	"github.com/angelmondragon/storefront/pkg/auth/session"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/security"
)

// Service covers registration, sign-in, the session gate and the admin bootstrap.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.Account, error)
	Authenticate(ctx context.Context, email, password string) (*models.Account, error)
	SignIn(ctx context.Context, email, password string) (*SignInResult, error)
	SignOut(ctx context.Context, token string) error
	CurrentAccount(ctx context.Context, token string) (*models.Account, error)
	UpdateProfile(ctx context.Context, accountID uint, name, profileImage string) (*models.Account, error)
	BootstrapAdmin(ctx context.Context, input BootstrapInput) (*models.Account, error)
	AdminExists(ctx context.Context) (bool, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sessionManager interface {
	Register(ctx context.Context, accessID string, accountID uint) error
	Lookup(ctx context.Context, accessID string) (uint, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	DB             txRunner
	Users          *users.Repository
	Sessions       sessionManager
	SessionConfig  config.SessionConfig
	PasswordConfig config.PasswordConfig
	SetupSecret    string
	Logger         *logger.Logger
	Now            func() time.Time
}

type service struct {
	db          txRunner
	users       *users.Repository
	sessions    sessionManager
	sessionCfg  config.SessionConfig
	passwordCfg config.PasswordConfig
	setupSecret string
	logg        *logger.Logger
	now         func() time.Time
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if strings.TrimSpace(params.SetupSecret) == "" {
		return nil, fmt.Errorf("admin setup secret is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		db:          params.DB,
		users:       params.Users,
		sessions:    params.Sessions,
		sessionCfg:  params.SessionConfig,
		passwordCfg: params.PasswordConfig,
		setupSecret: params.SetupSecret,
		logg:        params.Logger,
		now:         now,
	}, nil
}

func (s *service) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	if err := requireFilled("Please enter both email and password.", email, password); err != nil {
		return nil, err
	}
	normalized := normalizeEmail(email)
	if err := validateEmail(normalized); err != nil {
		return nil, err
	}

	account, err := s.users.FindActiveByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, msgInvalidCredentials)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup account")
	}

	valid, err := security.VerifyPassword(password, account.PasswordHash)
	if err != nil || !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, msgInvalidCredentials)
	}

	if security.NeedsRehash(account.PasswordHash, s.passwordCfg) {
		s.rehash(ctx, account, password)
	}
	return account, nil
}

func (s *service) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	account, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	accessID := session.NewAccessID()
	token, err := pkgAuth.MintSessionToken(s.sessionCfg, now, pkgAuth.SessionTokenPayload{
		AccountID: account.ID,
		JTI:       accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}
	if err := s.sessions.Register(ctx, accessID, account.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register session")
	}

	s.logg.Info(s.logg.WithAccountID(ctx, account.ID), "account.signed_in")
	return &SignInResult{
		Account:   account,
		Token:     token,
		ExpiresAt: now.Add(s.sessionCfg.TTL()),
	}, nil
}

func (s *service) SignOut(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	claims, err := pkgAuth.ParseSessionToken(s.sessionCfg, token)
	if err != nil {
		// an unreadable cookie has nothing to revoke
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) CurrentAccount(ctx context.Context, token string) (*models.Account, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, msgSessionRequired)
	}
	claims, err := pkgAuth.ParseSessionToken(s.sessionCfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, msgSessionRequired)
	}

	accountID, err := s.sessions.Lookup(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, msgSessionRequired)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup session")
	}
	if accountID != claims.AccountID {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, msgSessionRequired)
	}

	account, err := s.users.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, msgSessionRequired)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}
	if !account.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, msgSessionRequired)
	}
	return account, nil
}

// UpdateProfile changes the name and image; blank values keep the current ones.
func (s *service) UpdateProfile(ctx context.Context, accountID uint, name, profileImage string) (*models.Account, error) {
	account, err := s.users.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		account.Name = trimmed
	}
	if strings.TrimSpace(profileImage) != "" {
		account.ProfileImage = profileImage
	}
	if err := s.users.UpdateProfile(ctx, account.ID, account.Name, account.ProfileImage); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	return account, nil
}

func (s *service) AdminExists(ctx context.Context) (bool, error) {
	exists, err := s.users.AdminExists(ctx)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check admin")
	}
	return exists, nil
}

func (s *service) rehash(ctx context.Context, account *models.Account, password string) {
	hash, err := security.HashPassword(password, s.passwordCfg)
	if err == nil {
		err = s.users.UpdatePasswordHash(ctx, account.ID, hash)
	}
	if err != nil {
		s.logg.Warn(s.logg.WithAccountID(ctx, account.ID), "password rehash failed: "+err.Error())
		return
	}
	account.PasswordHash = hash
}
