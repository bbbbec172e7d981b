package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/accountd/accountd/internal/logger"
	"github.com/accountd/accountd/internal/model"
	"github.com/accountd/accountd/internal/service"
)

// Uploaded images are capped at 5 MiB.
const maxImageSize = 5 << 20

// UserService defines the account operations exposed over HTTP.
type UserService interface {
	Register(ctx context.Context, params service.RegisterParams) (model.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	GetByID(ctx context.Context, caller model.Identity, id int64) (model.User, error)
	List(ctx context.Context, caller model.Identity) ([]model.User, error)
	ListPage(ctx context.Context, caller model.Identity, page, limit int) (model.Page, error)
	ListPageByUsername(ctx context.Context, caller model.Identity, page, limit int, username string) (model.Page, error)
	UpdateProfile(ctx context.Context, caller model.Identity, targetID int64, params model.UpdateProfileParams) (model.User, error)
	ChangeRole(ctx context.Context, caller model.Identity, targetID int64, role model.Role) (model.User, error)
	Delete(ctx context.Context, caller model.Identity, targetID int64) error
	UploadProfileImage(ctx context.Context, caller model.Identity, filename string, reader io.Reader) (model.User, error)
	DownloadProfileImage(ctx context.Context, filename string) (io.ReadCloser, error)
}

// User handles HTTP endpoints for user accounts.
type User struct {
	service        UserService
	contextManager model.ContextManager
	validator      *validator.Validate
	logger         *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(service UserService, contextManager model.ContextManager, logger *logger.Logger) *User {
	return &User{
		service:        service,
		contextManager: contextManager,
		validator:      validator.New(),
		logger:         logger,
	}
}

func (h *User) identity(r *http.Request) model.Identity {
	identity, ok := h.contextManager.GetIdentityFromContext(r.Context())
	if !ok {
		return model.Anonymous()
	}
	return identity
}

func (h *User) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return model.NewValidationError("body", "malformed json")
	}
	if err := h.validator.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return model.NewValidationError(fieldErrs[0].Field(), fieldErrs[0].Tag())
		}
		return model.NewValidationError("body", "invalid")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}

// Register creates a new account.
func (h *User) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.decode(r, &req); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	user, err := h.service.Register(r.Context(), service.RegisterParams{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// Login verifies credentials and returns an access token.
func (h *User) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decode(r, &req); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token})
}

// GetByID returns one account.
func (h *User) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	user, err := h.service.GetByID(r.Context(), h.identity(r), id)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// List returns accounts, paginated when page or limit query parameters
// are present and filtered when username is.
func (h *User) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	username := query.Get("username")
	pageParam := query.Get("page")
	limitParam := query.Get("limit")

	if username == "" && pageParam == "" && limitParam == "" {
		users, err := h.service.List(r.Context(), h.identity(r))
		if err != nil {
			WriteError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, toUserResponses(users))
		return
	}

	page, _ := strconv.Atoi(pageParam)
	limit, _ := strconv.Atoi(limitParam)

	var result model.Page
	var err error
	if username != "" {
		result, err = h.service.ListPageByUsername(r.Context(), h.identity(r), page, limit, username)
	} else {
		result, err = h.service.ListPage(r.Context(), h.identity(r), page, limit)
	}
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageResponse(result))
}

// UpdateProfile applies self-service profile fields to the target account.
func (h *User) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	var req updateProfileRequest
	if err := h.decode(r, &req); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), h.identity(r), id, model.UpdateProfileParams{
		Name:     req.Name,
		Username: req.Username,
	})
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// ChangeRole sets the target account's role.
func (h *User) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	var req changeRoleRequest
	if err := h.decode(r, &req); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	user, err := h.service.ChangeRole(r.Context(), h.identity(r), id, model.Role(req.Role))
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// Delete removes the target account.
func (h *User) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), h.identity(r), id); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadProfileImage accepts a multipart image, stores it under a
// generated filename and records it on the caller's account.
func (h *User) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, h.logger, model.NewValidationError("file", "missing or oversized upload"))
		return
	}
	defer file.Close()

	user, err := h.service.UploadProfileImage(r.Context(), h.identity(r), generateFilename(header.Filename), file)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// DownloadProfileImage streams a stored profile image back to the caller.
func (h *User) DownloadProfileImage(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if filename == "" || filename != filepath.Base(filename) {
		WriteError(w, h.logger, model.NewValidationError("filename", "invalid"))
		return
	}

	reader, err := h.service.DownloadProfileImage(r.Context(), filename)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Error("User handler: failed to stream profile image",
			"filename", filename,
			"error", err.Error())
	}
}

// generateFilename builds a collision-resistant storage key from the
// original name: the whitespace-stripped stem, a random suffix and the
// original extension.
func generateFilename(original string) string {
	base := filepath.Base(original)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	stem = strings.Join(strings.Fields(stem), "")
	if stem == "" {
		stem = "image"
	}
	return stem + "-" + uuid.NewString() + ext
}
