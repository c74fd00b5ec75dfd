package auth

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/db/controller/role"
	"github.com/inkwell-api/inkwell/internal/db/controller/user"
	"github.com/inkwell-api/inkwell/internal/db/models"
	"github.com/inkwell-api/inkwell/internal/uniuri"
)

// MinPasswordLen is the shortest accepted password.
const MinPasswordLen = 8

// ForgotPasswordDetail is returned whether or not the email belongs to an account.
const ForgotPasswordDetail = "If that email exists, a reset link has been sent."

// LocalProvider handles local database authentication.
type LocalProvider struct {
	db          *gorm.DB
	tokens      *TokenService
	defaultRole string
}

// NewLocalProvider creates a new local authentication provider.
// Registered users get defaultRole when a role of that name exists.
func NewLocalProvider(db *gorm.DB, tokens *TokenService, defaultRole string) *LocalProvider {
	return &LocalProvider{
		db:          db,
		tokens:      tokens,
		defaultRole: defaultRole,
	}
}

// Tokens returns the token service of p.
func (p *LocalProvider) Tokens() *TokenService {
	return p.tokens
}

// Authenticate authenticates a user by email and password and records the login.
// Unknown emails, wrong passwords and disabled accounts are indistinguishable to the caller.
func (p *LocalProvider) Authenticate(email, password string) (*models.User, error) {
	u, err := user.GetByEmail(p.db, email)
	if errors.Is(err, user.ErrUserNotFound) || errors.Is(err, user.ErrEmailEmpty) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !u.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	if !u.Active {
		log.Info().Uint64("user_id", u.ID).Msg("login attempt on disabled account")
		return nil, ErrInvalidCredentials
	}

	if err := user.TouchLastLogin(p.db, u.ID); err != nil {
		log.Error().Err(err).Uint64("user_id", u.ID).Msg("failed to record last login")
	}

	return u, nil
}

// Register creates an account with the default role.
func (p *LocalProvider) Register(nu user.NewUser) (*models.User, error) {
	if len(nu.Password) < MinPasswordLen {
		return nil, ErrPasswordTooShort
	}

	nu.RoleID = nil
	nu.IsStaff = false
	nu.IsSuperuser = false

	if p.defaultRole != "" {
		r, err := role.GetByName(p.db, p.defaultRole)
		switch {
		case err == nil:
			nu.RoleID = &r.ID
		case errors.Is(err, role.ErrRoleNotFound):
			log.Warn().Str("role", p.defaultRole).Msg("default role missing, registering without role")
		default:
			return nil, err
		}
	}

	return user.Create(p.db, nu)
}

// ChangePassword replaces the password of u after checking the old one.
func (p *LocalProvider) ChangePassword(u *models.User, oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return ErrInvalidOldPassword
	}

	if len(newPassword) < MinPasswordLen {
		return ErrPasswordTooShort
	}

	return user.SetPassword(p.db, u.ID, newPassword)
}

// ForgotPassword returns reset credentials for the account with the given email.
// found is false, without an error, when no such account exists.
func (p *LocalProvider) ForgotPassword(email string) (uid, token string, found bool, err error) {
	u, err := user.GetByEmail(p.db, email)
	if errors.Is(err, user.ErrUserNotFound) || errors.Is(err, user.ErrEmailEmpty) {
		return "", "", false, nil
	}

	if err != nil {
		return "", "", false, err
	}

	uid, token, err = p.tokens.MakeResetToken(u)
	if err != nil {
		return "", "", false, err
	}

	log.Info().Uint64("user_id", u.ID).Msg("password reset requested")

	return uid, token, true, nil
}

// ResetPassword sets a new password from a reset link. The link is spent afterwards.
func (p *LocalProvider) ResetPassword(uid, token, newPassword string) error {
	id, err := DecodeUID(uid)
	if err != nil {
		return err
	}

	u, err := user.Get(p.db, id)
	if errors.Is(err, user.ErrUserNotFound) {
		return ErrInvalidResetLink
	}

	if err != nil {
		return err
	}

	if err := p.tokens.CheckResetToken(u, token); err != nil {
		return err
	}

	if len(newPassword) < MinPasswordLen {
		return ErrPasswordTooShort
	}

	return user.SetPassword(p.db, u.ID, newPassword)
}

// CreateSuperuser creates a staff superuser holding the Administrator role, seeding the
// default roles first. An empty password is replaced by a generated one, which is returned.
func (p *LocalProvider) CreateSuperuser(email, password string) (*models.User, string, error) {
	if _, err := role.SeedDefaultRoles(p.db); err != nil {
		return nil, "", err
	}

	admin, err := role.GetByName(p.db, models.RoleAdministrator)
	if err != nil {
		return nil, "", err
	}

	if password == "" {
		password = uniuri.Password()
	}

	if len(password) < MinPasswordLen {
		return nil, "", ErrPasswordTooShort
	}

	u, err := user.Create(p.db, user.NewUser{
		Email:       email,
		Password:    password,
		RoleID:      &admin.ID,
		IsStaff:     true,
		IsSuperuser: true,
	})
	if err != nil {
		return nil, "", err
	}

	return u, password, nil
}
