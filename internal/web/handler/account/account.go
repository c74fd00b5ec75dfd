// Package account serves the credential endpoints: registration, login, token refresh,
// the caller's profile and the password flows.
package account

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/auth"
	"github.com/inkwell-api/inkwell/internal/config"
	"github.com/inkwell-api/inkwell/internal/db/controller/user"
	"github.com/inkwell-api/inkwell/internal/db/models"
	"github.com/inkwell-api/inkwell/internal/web/handler"
)

const (
	// Path is the base path of the credential endpoints.
	Path = "/auth"

	// LoginPath authenticates with email and password.
	LoginPath = Path + "/login"
	// ForgotPasswordPath requests a reset link.
	ForgotPasswordPath = Path + "/forgot-password"
)

// Service provides the credential endpoints.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *handler.XValidator
	provider  *auth.LocalProvider
}

// Handler is the exported instance.
var Handler = Service{}

type registerInput struct {
	Email     string         `json:"email" form:"email" validate:"required,email,max=254"`
	Password  string         `json:"password" form:"password" validate:"required,min=8"`
	FirstName string         `json:"first_name" form:"first_name" validate:"max=150"`
	LastName  string         `json:"last_name" form:"last_name" validate:"max=150"`
	Gender    *models.Gender `json:"gender" form:"gender" validate:"omitempty,oneof=Male Female Other"`
}

type loginInput struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type refreshInput struct {
	Refresh string `json:"refresh" form:"refresh" validate:"required"`
}

type profileInput struct {
	FirstName *string        `json:"first_name" form:"first_name" validate:"omitempty,max=150"`
	LastName  *string        `json:"last_name" form:"last_name" validate:"omitempty,max=150"`
	Gender    *models.Gender `json:"gender" form:"gender"`
}

type forgotPasswordInput struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

type resetPasswordInput struct {
	UID         string `json:"uid" form:"uid" validate:"required"`
	Token       string `json:"token" form:"token" validate:"required"`
	NewPassword string `json:"new_password" form:"new_password" validate:"required,min=8"`
}

type changePasswordInput struct {
	OldPassword string `json:"old_password" form:"old_password" validate:"required"`
	NewPassword string `json:"new_password" form:"new_password" validate:"required,min=8"`
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB) error {
	if router == nil || cfg == nil || db == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg
	s.db = db
	s.validator = handler.NewValidator()
	s.provider = auth.NewLocalProvider(db, auth.NewTokenService(&cfg.Auth), cfg.Auth.DefaultRole)

	router.Post(Path+"/register", s.Register)
	router.Post(LoginPath, s.Login)
	router.Post(Path+"/refresh", s.Refresh)
	router.Post(ForgotPasswordPath, s.ForgotPassword)
	router.Post(Path+"/reset-password", s.ResetPassword)
	router.Post(Path+"/change-password", auth.RequireAuthenticated(), s.ChangePassword)

	router.Get(Path+"/profile", auth.RequireAuthenticated(), s.Profile)
	router.Patch(Path+"/profile", auth.RequireAuthenticated(), s.UpdateProfile)
	router.Put(Path+"/profile", auth.RequireAuthenticated(), handler.MethodNotAllowed)

	return nil
}

// Register creates an account with the default role.
func (s *Service) Register(c *fiber.Ctx) error {
	var in registerInput
	if err := s.validator.Bind(c, &in); err != nil {
		return err
	}

	u, err := s.provider.Register(user.NewUser{
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Gender:    in.Gender,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(handler.NewUserView(u))
}

// Login exchanges email and password for a token pair.
func (s *Service) Login(c *fiber.Ctx) error {
	var in loginInput
	if err := s.validator.Bind(c, &in); err != nil {
		return err
	}

	u, err := s.provider.Authenticate(in.Email, in.Password)
	if err != nil {
		return err
	}

	access, refresh, err := s.provider.Tokens().IssuePair(u)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"access":  access,
		"refresh": refresh,
		"user":    handler.NewUserView(u),
	})
}

// Refresh issues a new access token from a refresh token.
func (s *Service) Refresh(c *fiber.Ctx) error {
	var in refreshInput
	if err := s.validator.Bind(c, &in); err != nil {
		return err
	}

	access, _, err := s.provider.Tokens().Refresh(in.Refresh)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"access": access})
}

// Profile shows the caller's account.
func (s *Service) Profile(c *fiber.Ctx) error {
	return c.JSON(handler.NewUserView(auth.CurrentUser(c)))
}

// UpdateProfile changes names and gender of the caller.
func (s *Service) UpdateProfile(c *fiber.Ctx) error {
	var in profileInput
	if err := s.validator.Bind(c, &in); err != nil {
		return err
	}

	u, err := user.Update(s.db, auth.CurrentUserID(c), user.Changes{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Gender:    in.Gender,
	})
	if err != nil {
		return err
	}

	return c.JSON(handler.NewUserView(u))
}

// ForgotPassword answers identically whether or not the email is known.
// Reset credentials are only added for an existing account.
func (s *Service) ForgotPassword(c *fiber.Ctx) error {
	var in forgotPasswordInput
	if err := s.validator.Bind(c, &in); err != nil {
		return err
	}

	uid, token, found, err := s.provider.ForgotPassword(in.Email)
	if err != nil {
		return err
	}

	resp := fiber.Map{"detail": auth.ForgotPasswordDetail}
	if found {
		resp["uid"] = uid
		resp["token"] = token
	}

	return c.JSON(resp)
}

// ResetPassword sets a new password from a reset link.
func (s *Service) ResetPassword(c *fiber.Ctx) error {
	var in resetPasswordInput
	if err := s.validator.Bind(c, &in); err != nil {
		return err
	}

	if err := s.provider.ResetPassword(in.UID, in.Token, in.NewPassword); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"detail": "Password has been reset."})
}

// ChangePassword replaces the caller's password.
func (s *Service) ChangePassword(c *fiber.Ctx) error {
	var in changePasswordInput
	if err := s.validator.Bind(c, &in); err != nil {
		return err
	}

	if err := s.provider.ChangePassword(auth.CurrentUser(c), in.OldPassword, in.NewPassword); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"detail": "Password has been changed."})
}
