package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AnshRaj112/butterfly-accounts/internal/logging"
	"github.com/AnshRaj112/butterfly-accounts/internal/middleware"
	"github.com/AnshRaj112/butterfly-accounts/internal/models"
	"github.com/AnshRaj112/butterfly-accounts/internal/services"
)

// AccountService is the account lifecycle used by Handler.
type AccountService interface {
	Register(ctx context.Context, req models.RegistrationRequest) (*models.Account, error)
	Login(ctx context.Context, req models.LoginRequest) (*services.LoginResult, error)
	RequestPasswordReset(ctx context.Context, username, host string) error
	CompletePasswordReset(ctx context.Context, req models.ResetConfirmation) error
	Follow(ctx context.Context, callerID, targetID string) error
	Unfollow(ctx context.Context, callerID, targetID string) error
	UpdateAccount(ctx context.Context, id string, upd models.AccountUpdate) error
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
}

type Handler struct {
	accounts AccountService
	logger   *logging.Logger
}

func NewHandler(accounts AccountService, logger *logging.Logger) *Handler {
	return &Handler{accounts: accounts, logger: logger}
}

type registerResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	logger := logging.FromContext(r.Context(), h.logger)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	} else {
		logger.Debug("request rejected", "error", err)
	}
	respondMessage(w, status, messageFor(err))
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// Register handles POST /register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegistrationRequest
	if !decode(w, r, &req) {
		return
	}

	account, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		switch {
		case errors.Is(err, services.ErrMissingField):
			status = http.StatusForbidden
		case errors.Is(err, services.ErrInvalidFormat):
			status = http.StatusInternalServerError
		}
		h.fail(w, r, status, err)
		return
	}

	respondJSON(w, http.StatusCreated, registerResponse{Message: "account created", ID: account.ID.Hex()})
}

// Login handles POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.accounts.Login(r.Context(), req)
	if errors.Is(err, services.ErrPhoneLoginUnsupported) {
		logging.FromContext(r.Context(), h.logger).Warn("phone number login attempted")
		respondJSON(w, http.StatusOK, struct{}{})
		return
	}
	if err != nil {
		h.fail(w, r, statusFor(err), err)
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{Message: "signed in", Token: res.Token})
}

// ListAccounts handles GET /users.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.ListAccounts(r.Context())
	if err != nil {
		h.fail(w, r, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusOK, accounts)
}

// GetAccount handles GET /user?id=.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.GetAccount(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		h.fail(w, r, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": account})
}

// RequestPasswordReset handles POST /resetpassword.
func (h *Handler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req models.ResetRequest
	if !decode(w, r, &req) {
		return
	}

	err := h.accounts.RequestPasswordReset(r.Context(), req.Username, r.Host)
	switch {
	case err == nil:
		respondMessage(w, http.StatusOK, "please check your email to reset your password")
	case errors.Is(err, services.ErrEmptyUsername):
		respondMessage(w, http.StatusUnauthorized, "the username you sent was empty")
	case errors.Is(err, services.ErrNotFound):
		respondMessage(w, http.StatusUnauthorized, "the username you entered does not exist")
	default:
		h.fail(w, r, statusFor(err), err)
	}
}

// CompletePasswordReset handles POST /reset.
func (h *Handler) CompletePasswordReset(w http.ResponseWriter, r *http.Request) {
	var req models.ResetConfirmation
	if !decode(w, r, &req) {
		return
	}
	if req.ID == "" {
		req.ID = r.URL.Query().Get("id")
	}

	if err := h.accounts.CompletePasswordReset(r.Context(), req); err != nil {
		h.fail(w, r, statusFor(err), err)
		return
	}
	respondMessage(w, http.StatusOK, "password was successfully reset")
}

// UpdateAccount handles PUT /user?id=.
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if caller, ok := middleware.CallerID(r.Context()); !ok || caller != id {
		respondMessage(w, http.StatusForbidden, "you can only update your own profile")
		return
	}

	var upd models.AccountUpdate
	if !decode(w, r, &upd) {
		return
	}

	err := h.accounts.UpdateAccount(r.Context(), id, upd)
	switch {
	case err == nil:
		respondMessage(w, http.StatusOK, "profile was successfully updated")
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrInvalidID):
		logging.FromContext(r.Context(), h.logger).Warn("update of unknown account", "error", err)
		respondMessage(w, http.StatusInternalServerError, "invalid data was sent")
	default:
		h.fail(w, r, statusFor(err), err)
	}
}

// Follow handles POST /follow?id=.
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	h.followEdge(w, r, h.accounts.Follow, "follower added")
}

// Unfollow handles DELETE /follow?id=.
func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	h.followEdge(w, r, h.accounts.Unfollow, "follower removed")
}

func (h *Handler) followEdge(w http.ResponseWriter, r *http.Request, op func(context.Context, string, string) error, done string) {
	caller, ok := middleware.CallerID(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "missing authentication")
		return
	}

	if err := op(r.Context(), caller, r.URL.Query().Get("id")); err != nil {
		h.fail(w, r, statusFor(err), err)
		return
	}
	respondMessage(w, http.StatusOK, done)
}

// Verify handles GET /verify and echoes the caller's account id.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerID(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "missing authentication")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": caller})
}
