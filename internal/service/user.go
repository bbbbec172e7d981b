package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/accountd/accountd/internal/access"
	"github.com/accountd/accountd/internal/logger"
	"github.com/accountd/accountd/internal/model"
)

// Requirements declared per operation and evaluated through the access
// package. Reads need any authenticated caller; profile edits and deletes
// follow the self-or-admin rule; role changes are admin only.
var (
	readRequirement          = model.AuthenticatedOnly()
	updateProfileRequirement = model.SelfOrRole(model.RoleAdmin)
	changeRoleRequirement    = model.RoleIn(model.RoleAdmin)
	deleteRequirement        = model.SelfOrRole(model.RoleAdmin)
	uploadImageRequirement   = model.AuthenticatedOnly()
)

// fakeDigest is a throwaway bcrypt digest compared against when login
// hits an unknown email, so the miss costs the same as a wrong password.
const fakeDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// User orchestrates account registration, authentication and management.
type User struct {
	userStore model.UserStore
	hasher    model.PasswordHasher
	tokens    model.TokenManager
	storage   model.Storage
	logger    *logger.Logger
}

// NewUser creates the account service with its collaborators.
func NewUser(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokens model.TokenManager,
	storage model.Storage,
	logger *logger.Logger,
) *User {
	return &User{
		userStore: userStore,
		hasher:    hasher,
		tokens:    tokens,
		storage:   storage,
		logger:    logger,
	}
}

// RegisterParams carries the fields accepted at registration. Role is
// absent on purpose: every new account starts as a regular user.
type RegisterParams struct {
	Name     string
	Username string
	Email    string
	Password string
}

// Register hashes the password, persists the account with the user role
// forced and returns it without authentication material. A taken username
// or email surfaces as ErrConflict.
func (s *User) Register(ctx context.Context, params RegisterParams) (model.User, error) {
	s.logger.Debug("User service: registering account",
		"email", params.Email,
		"username", params.Username)

	digest, err := s.hasher.Hash(ctx, params.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userStore.Create(ctx, model.User{
		Name:         params.Name,
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: digest,
		Role:         model.RoleUser,
	})
	if errors.Is(err, model.ErrConflict) {
		s.logger.Info("User service: registration conflict",
			"email", params.Email,
			"username", params.Username)
		return model.User{}, model.ErrConflict
	}
	if err != nil {
		s.logger.Error("User service: failed to create account",
			"email", params.Email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User service: account registered",
		"user_id", user.ID,
		"email", user.Email)

	return user.Sanitized(), nil
}

// Login verifies the credential pair and issues an access token carrying
// the account's current role. An unknown email and a wrong password are
// indistinguishable: both cost one hash comparison and both return
// ErrInvalidCredentials.
func (s *User) Login(ctx context.Context, email, password string) (string, error) {
	s.logger.Debug("User service: login attempt", "email", email)

	user, err := s.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		s.hasher.Compare(ctx, password, fakeDigest)
		return "", model.ErrInvalidCredentials
	}
	if err != nil {
		s.logger.Error("User service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return "", fmt.Errorf("failed to get user by email: %w", err)
	}

	if !s.hasher.Compare(ctx, password, user.PasswordHash) {
		s.logger.Info("User service: login rejected", "email", email)
		return "", model.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(model.NewIdentity(user.ID, user.Role))
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User service: login succeeded", "user_id", user.ID)

	return token, nil
}

// GetByID returns one account without its password hash.
func (s *User) GetByID(ctx context.Context, caller model.Identity, id int64) (model.User, error) {
	if err := access.Check(caller, readRequirement, 0); err != nil {
		return model.User{}, err
	}

	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user.Sanitized(), nil
}

// List returns every account, password hashes stripped.
func (s *User) List(ctx context.Context, caller model.Identity) ([]model.User, error) {
	if err := access.Check(caller, readRequirement, 0); err != nil {
		return nil, err
	}

	users, err := s.userStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return sanitizeAll(users), nil
}

// ListPage returns one page of accounts ordered by ascending id. Pages
// are 1-based; limit is clamped to 100.
func (s *User) ListPage(ctx context.Context, caller model.Identity, page, limit int) (model.Page, error) {
	if err := access.Check(caller, readRequirement, 0); err != nil {
		return model.Page{}, err
	}

	page, limit = clampPage(page, limit)

	users, total, err := s.userStore.ListPage(ctx, (page-1)*limit, limit)
	if err != nil {
		return model.Page{}, fmt.Errorf("failed to list users page: %w", err)
	}

	return model.NewPage(sanitizeAll(users), total, page, limit), nil
}

// ListPageByUsername behaves like ListPage restricted to usernames
// containing the given substring.
func (s *User) ListPageByUsername(ctx context.Context, caller model.Identity, page, limit int, username string) (model.Page, error) {
	if err := access.Check(caller, readRequirement, 0); err != nil {
		return model.Page{}, err
	}

	page, limit = clampPage(page, limit)

	users, total, err := s.userStore.ListPageByUsername(ctx, (page-1)*limit, limit, username)
	if err != nil {
		return model.Page{}, fmt.Errorf("failed to list users page by username: %w", err)
	}

	return model.NewPage(sanitizeAll(users), total, page, limit), nil
}

// UpdateProfile applies self-service profile fields to the target
// account. Only the owner or an admin may call it; email, password and
// role are not part of the params type, so tampered input has nothing to
// land on.
func (s *User) UpdateProfile(ctx context.Context, caller model.Identity, targetID int64, params model.UpdateProfileParams) (model.User, error) {
	if err := access.Check(caller, updateProfileRequirement, targetID); err != nil {
		s.logger.Info("User service: profile update denied",
			"caller_id", caller.UserID,
			"target_id", targetID)
		return model.User{}, err
	}

	user, err := s.userStore.UpdateProfile(ctx, targetID, params)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrConflict) {
			return model.User{}, err
		}
		return model.User{}, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("User service: profile updated",
		"caller_id", caller.UserID,
		"target_id", targetID)

	return user.Sanitized(), nil
}

// ChangeRole sets the target account's role. Admin only.
func (s *User) ChangeRole(ctx context.Context, caller model.Identity, targetID int64, role model.Role) (model.User, error) {
	if !role.Valid() {
		return model.User{}, model.NewValidationError("role", fmt.Sprintf("unknown role %q", role))
	}

	if err := access.Check(caller, changeRoleRequirement, targetID); err != nil {
		s.logger.Info("User service: role change denied",
			"caller_id", caller.UserID,
			"target_id", targetID)
		return model.User{}, err
	}

	user, err := s.userStore.UpdateRole(ctx, targetID, role)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to update role: %w", err)
	}

	s.logger.Info("User service: role changed",
		"caller_id", caller.UserID,
		"target_id", targetID,
		"role", role)

	return user.Sanitized(), nil
}

// Delete removes the target account. The owner or an admin may call it.
func (s *User) Delete(ctx context.Context, caller model.Identity, targetID int64) error {
	if err := access.Check(caller, deleteRequirement, targetID); err != nil {
		s.logger.Info("User service: delete denied",
			"caller_id", caller.UserID,
			"target_id", targetID)
		return err
	}

	if err := s.userStore.Delete(ctx, targetID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("User service: account deleted",
		"caller_id", caller.UserID,
		"target_id", targetID)

	return nil
}

// UploadProfileImage streams the image into blob storage under the
// already-generated filename and records it on the caller's own account.
func (s *User) UploadProfileImage(ctx context.Context, caller model.Identity, filename string, reader io.Reader) (model.User, error) {
	if err := access.Check(caller, uploadImageRequirement, 0); err != nil {
		return model.User{}, err
	}

	if err := s.storage.Upload(ctx, filename, reader); err != nil {
		s.logger.Error("User service: failed to store profile image",
			"caller_id", caller.UserID,
			"filename", filename,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to store profile image: %w", err)
	}

	user, err := s.userStore.UpdateProfile(ctx, caller.UserID, model.UpdateProfileParams{ProfileImage: &filename})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to record profile image: %w", err)
	}

	s.logger.Info("User service: profile image recorded",
		"caller_id", caller.UserID,
		"filename", filename)

	return user.Sanitized(), nil
}

// DownloadProfileImage returns a reader over a stored profile image.
func (s *User) DownloadProfileImage(ctx context.Context, filename string) (io.ReadCloser, error) {
	exists, err := s.storage.Exists(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to check profile image: %w", err)
	}
	if !exists {
		return nil, model.ErrNotFound
	}

	reader, err := s.storage.Download(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to download profile image: %w", err)
	}

	return reader, nil
}

func sanitizeAll(users []model.User) []model.User {
	sanitized := make([]model.User, len(users))
	for i, user := range users {
		sanitized[i] = user.Sanitized()
	}
	return sanitized
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
