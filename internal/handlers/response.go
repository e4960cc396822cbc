package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AnshRaj112/butterfly-accounts/internal/services"
)

type messageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, messageResponse{Message: message})
}

// statusFor maps an error class to the default HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, services.ErrDownstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the text shown to clients for err.
func messageFor(err error) string {
	switch {
	case errors.Is(err, services.ErrMissingField):
		return "one or more fields are empty"
	case errors.Is(err, services.ErrConfirmationMismatch):
		return "password or email do not match!"
	case errors.Is(err, services.ErrInvalidFormat):
		return "your phone number, email, or password do not meet the required criteria"
	case errors.Is(err, services.ErrInvalidCredentials):
		return "A wrong username or password was wrong. Please try again"
	case errors.Is(err, services.ErrInvalidID):
		return "invalid account id"
	case errors.Is(err, services.ErrSelfFollow):
		return "you cannot follow yourself"
	case errors.Is(err, services.ErrInvalidDistance):
		return "distance must be greater than zero"
	case errors.Is(err, services.ErrNotFound):
		return "account not found"
	case errors.Is(err, services.ErrDuplicate):
		return "an account with this email or phone number already exists"
	case errors.Is(err, services.ErrDownstream):
		return "a dependent service is unavailable, please try again later"
	default:
		return "internal server error"
	}
}
