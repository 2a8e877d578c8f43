// Package service contains the business logic layer of the application.
//
// The layering mirrors the rest of the repo:
//
//	Handler (HTTP)  → parses requests, writes responses
//	Service (rules) → validates, enforces invariants, orchestrates
//	Repository (DB) → reads/writes rows
//
// Services accept repository interfaces, never concrete stores, so
// tests swap in in-memory fakes with plain function calls. Services
// return apperror kinds, never HTTP status codes; the handler owns
// that translation.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/baraus/tutorhub/internal/apperror"
	"github.com/baraus/tutorhub/internal/auth"
	"github.com/baraus/tutorhub/internal/mail"
	"github.com/baraus/tutorhub/internal/media"
	"github.com/baraus/tutorhub/internal/model"
	"github.com/baraus/tutorhub/internal/repository"
)

// resetTokenTTL is how long a password-reset token stays usable.
const resetTokenTTL = time.Hour

// UserService handles account business logic: authentication,
// registration, profile reads/updates, and the password-reset flow.
type UserService struct {
	users     repository.UserRepository
	classes   repository.ClassRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	mailer    mail.Sender
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewUserService creates a UserService with all required dependencies.
// Call this in server.go when wiring the dependency graph.
func NewUserService(
	users repository.UserRepository,
	classes repository.ClassRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	mailer mail.Sender,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:     users,
		classes:   classes,
		tokens:    tokens,
		passwords: passwords,
		mailer:    mailer,
		validate:  validator.New(),
		logger:    logger,
	}
}

// AuthResult bundles the issued session token with the public profile,
// so the handler can answer a login or registration in one value.
type AuthResult struct {
	Token string              `json:"token"`
	User  model.PublicProfile `json:"user"`
}

// Authenticate verifies an email/password pair and issues a session
// token.
//
// Error kinds are deliberately distinct: an unknown email is NotFound,
// a wrong password is InvalidCredential. The handler maps them to 404
// and 401 respectively.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.logger.Info("failed login attempt", slog.String("email", email))
		return nil, apperror.InvalidCredential("invalid password")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/user: generating token for user %d: %w", user.ID, err)
	}

	return &AuthResult{Token: token, User: user.Public()}, nil
}

// RegisterInput carries the registration request. The validate tags
// are the single source of the field rules: required name/surname,
// well-formed email, 6+ character password, E.164 whatsapp when given.
type RegisterInput struct {
	Name     string `json:"name"     validate:"required"`
	Surname  string `json:"surname"  validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Whatsapp string `json:"whatsapp" validate:"omitempty,e164"`
	Bio      string `json:"bio"      validate:"omitempty,max=2000"`
	Avatar   string `json:"avatar"   validate:"omitempty,url"`
}

// Register creates a new account and logs it in.
//
// Email uniqueness is enforced twice: a lookup here for the friendly
// error, and the UNIQUE constraint in the store for the race between
// two concurrent registrations; both surface as ErrConflict.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Surname = strings.TrimSpace(in.Surname)
	in.Email = strings.TrimSpace(in.Email)

	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperror.Conflict("user", "email already in use")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/user: checking email %s: %w", in.Email, err)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/user: hashing password: %w", err)
	}

	avatar := in.Avatar
	if avatar == "" {
		avatar = media.PlaceholderAvatar(in.Name)
	}

	user := &model.User{
		Name:         in.Name,
		Surname:      in.Surname,
		Email:        in.Email,
		PasswordHash: hash,
		Whatsapp:     in.Whatsapp,
		Bio:          in.Bio,
		Avatar:       avatar,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("email", user.Email),
	)

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/user: generating token for user %d: %w", user.ID, err)
	}

	return &AuthResult{Token: token, User: user.Public()}, nil
}

// Profile returns the full profile for the given user ID.
func (s *UserService) Profile(ctx context.Context, id int64) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// ProfileWithClasses returns the user plus their own class listings,
// schedule slots included; the payload behind GET /profile.
func (s *UserService) ProfileWithClasses(ctx context.Context, id int64) (*model.User, []model.Class, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	classes, err := s.classes.List(ctx, repository.ClassFilter{
		UserID:          id,
		WeekDay:         -1,
		IncludeSchedule: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("service/user: listing classes for user %d: %w", id, err)
	}

	return user, classes, nil
}

// UpdateProfileInput carries a profile update. Empty fields mean
// "leave unchanged"; the handler decodes absent JSON keys to "".
type UpdateProfileInput struct {
	Name     string `json:"name"     validate:"omitempty"`
	Surname  string `json:"surname"  validate:"omitempty"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Whatsapp string `json:"whatsapp" validate:"omitempty,e164"`
	Bio      string `json:"bio"      validate:"omitempty,max=2000"`
}

// UpdateProfile applies the given fields to the authenticated user's
// record and returns the updated row. Changing the email re-checks
// uniqueness.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, in UpdateProfileInput) (*model.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = name
	}
	if surname := strings.TrimSpace(in.Surname); surname != "" {
		user.Surname = surname
	}
	if email := strings.TrimSpace(in.Email); email != "" && email != user.Email {
		if _, err := s.users.GetByEmail(ctx, email); err == nil {
			return nil, apperror.Conflict("user", "email already in use")
		} else if !errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("service/user: checking email %s: %w", email, err)
		}
		user.Email = email
	}
	if in.Whatsapp != "" {
		user.Whatsapp = in.Whatsapp
	}
	if in.Bio != "" {
		user.Bio = in.Bio
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", slog.Int64("userID", user.ID))
	return user, nil
}

// RequestPasswordReset starts the reset flow: a random token is stored
// against the account with a one-hour expiry and mailed to the user.
//
// A failed mail send is surfaced to the caller; a reset request whose
// mail silently vanished just strands the user.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("service/user: generating reset token: %w", err)
	}
	token := hex.EncodeToString(buf)

	expires := time.Now().Add(resetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.Email, token, expires); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, token); err != nil {
		s.logger.Error("reset mail delivery failed",
			slog.String("email", user.Email),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("service/user: sending reset mail: %w", err)
	}

	s.logger.Info("password reset requested", slog.Int64("userID", user.ID))
	return nil
}

// ResetPassword finishes the reset flow: the token must match the
// pending one AND still be within its expiry window. Either failure
// rejects the reset. On success the new password is hashed in and the
// token fields are cleared, so the same token can never reset twice.
func (s *UserService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	email = strings.TrimSpace(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	if user.PasswordToken == "" || user.PasswordToken != token {
		return apperror.InvalidCredential("reset token is invalid")
	}
	if time.Now().After(user.PasswordTokenExpires) {
		return apperror.InvalidCredential("reset token has expired")
	}

	if err := s.validate.Var(newPassword, "required,min=6"); err != nil {
		return apperror.ValidationFailed("password", "password must be at least 6 characters")
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("service/user: hashing new password: %w", err)
	}

	if err := s.users.ResetPassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.logger.Info("password reset completed", slog.Int64("userID", user.ID))
	return nil
}

// validationError translates a validator.ValidationErrors chain into
// the apperror kind the handlers know, keeping the first offending
// field for the response.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperror.ValidationFailed("", "invalid input")
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())

	var message string
	switch fe.Tag() {
	case "required":
		message = fmt.Sprintf("%s is required", field)
	case "email":
		message = "invalid email format"
	case "min":
		message = fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		message = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "e164":
		message = "whatsapp must be a phone number in international format, e.g. +5511999999999"
	case "url":
		message = fmt.Sprintf("%s must be a valid URL", field)
	default:
		message = fmt.Sprintf("%s is invalid", field)
	}

	return apperror.ValidationFailed(field, message)
}
