package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AnshRaj112/butterfly-accounts/internal/logging"
	"github.com/AnshRaj112/butterfly-accounts/internal/middleware"
	"github.com/AnshRaj112/butterfly-accounts/internal/models"
	"github.com/AnshRaj112/butterfly-accounts/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubService struct {
	err     error
	account *models.Account
	token   string

	resetHost   string
	followCalls [][2]string
	updatedID   string
}

func (s *stubService) Register(context.Context, models.RegistrationRequest) (*models.Account, error) {
	return s.account, s.err
}

func (s *stubService) Login(context.Context, models.LoginRequest) (*services.LoginResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &services.LoginResult{AccountID: s.account.ID.Hex(), Token: s.token}, nil
}

func (s *stubService) RequestPasswordReset(_ context.Context, _, host string) error {
	s.resetHost = host
	return s.err
}

func (s *stubService) CompletePasswordReset(context.Context, models.ResetConfirmation) error {
	return s.err
}

func (s *stubService) Follow(_ context.Context, caller, target string) error {
	s.followCalls = append(s.followCalls, [2]string{caller, target})
	return s.err
}

func (s *stubService) Unfollow(_ context.Context, caller, target string) error {
	s.followCalls = append(s.followCalls, [2]string{caller, target})
	return s.err
}

func (s *stubService) UpdateAccount(_ context.Context, id string, _ models.AccountUpdate) error {
	s.updatedID = id
	return s.err
}

func (s *stubService) GetAccount(context.Context, string) (*models.Account, error) {
	return s.account, s.err
}

func (s *stubService) ListAccounts(context.Context) ([]models.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.Account{*s.account}, nil
}

func serve(h http.HandlerFunc, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, r)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestRegister_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"created", nil, http.StatusCreated, "account created"},
		{"missing field", services.ErrMissingField, http.StatusForbidden, "one or more fields are empty"},
		{"confirmation", services.ErrConfirmationMismatch, http.StatusUnauthorized, "password or email do not match!"},
		{"format", services.ErrInvalidFormat, http.StatusInternalServerError, "your phone number, email, or password do not meet the required criteria"},
		{"duplicate", services.ErrDuplicate, http.StatusConflict, "an account with this email or phone number already exists"},
		{"location down", services.ErrDownstream, http.StatusBadGateway, "a dependent service is unavailable, please try again later"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubService{err: tt.err, account: &models.Account{ID: primitive.NewObjectID()}}
			h := NewHandler(stub, logging.Discard())

			rec, body := serve(h.Register, http.MethodPost, "/register", `{"name":"Ann"}`)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, body["message"])
			if tt.err == nil {
				assert.Equal(t, stub.account.ID.Hex(), body["id"])
			}
		})
	}
}

func TestRegister_BadJSON(t *testing.T) {
	h := NewHandler(&stubService{}, logging.Discard())
	rec, _ := serve(h.Register, http.MethodPost, "/register", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	account := &models.Account{ID: primitive.NewObjectID()}

	t.Run("signed in", func(t *testing.T) {
		h := NewHandler(&stubService{account: account, token: "tok"}, logging.Discard())
		rec, body := serve(h.Login, http.MethodPost, "/login", `{"username":"ann@x.com","password":"Abc123!"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "signed in", body["message"])
		assert.Equal(t, "tok", body["token"])
	})

	t.Run("wrong credentials", func(t *testing.T) {
		h := NewHandler(&stubService{err: services.ErrInvalidCredentials}, logging.Discard())
		rec, body := serve(h.Login, http.MethodPost, "/login", `{"username":"ann@x.com","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "A wrong username or password was wrong. Please try again", body["message"])
		assert.NotContains(t, body, "token")
	})

	t.Run("phone login is empty", func(t *testing.T) {
		h := NewHandler(&stubService{err: services.ErrPhoneLoginUnsupported}, logging.Discard())
		rec, body := serve(h.Login, http.MethodPost, "/login", `{"username":"5551234567","password":"x"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, body)
	})
}

func TestRequestPasswordReset(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"queued", nil, http.StatusOK, "please check your email to reset your password"},
		{"empty", services.ErrEmptyUsername, http.StatusUnauthorized, "the username you sent was empty"},
		{"unknown", services.ErrNotFound, http.StatusUnauthorized, "the username you entered does not exist"},
		{"broker down", services.ErrDownstream, http.StatusBadGateway, "a dependent service is unavailable, please try again later"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubService{err: tt.err}
			h := NewHandler(stub, logging.Discard())
			rec, body := serve(h.RequestPasswordReset, http.MethodPost, "http://accounts.test/resetpassword", `{"username":"ann@x.com"}`)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, body["message"])
			assert.Equal(t, "accounts.test", stub.resetHost)
		})
	}
}

func TestCompletePasswordReset(t *testing.T) {
	h := NewHandler(&stubService{}, logging.Discard())
	rec, _ := serve(h.CompletePasswordReset, http.MethodPost, "/reset", `{"id":"x","password":"New123!"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	h = NewHandler(&stubService{err: services.ErrNotFound}, logging.Discard())
	rec, _ = serve(h.CompletePasswordReset, http.MethodPost, "/reset", `{"id":"x","password":"New123!"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	h = NewHandler(&stubService{err: services.ErrInvalidFormat}, logging.Discard())
	rec, _ = serve(h.CompletePasswordReset, http.MethodPost, "/reset", `{"id":"x","password":"weak"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateAccount(t *testing.T) {
	update := func(h *Handler, caller, body string) (*httptest.ResponseRecorder, map[string]any) {
		r := httptest.NewRequest(http.MethodPut, "/user?id=abc", strings.NewReader(body))
		if caller != "" {
			r = r.WithContext(middleware.WithCallerID(r.Context(), caller))
		}
		rec := httptest.NewRecorder()
		h.UpdateAccount(rec, r)
		var out map[string]any
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
		return rec, out
	}

	stub := &stubService{}
	rec, body := update(NewHandler(stub, logging.Discard()), "abc", `{"bio":"new"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "profile was successfully updated", body["message"])
	assert.Equal(t, "abc", stub.updatedID)

	stub = &stubService{}
	rec, _ = update(NewHandler(stub, logging.Discard()), "someone-else", `{"bio":"new"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, stub.updatedID)

	rec, body = update(NewHandler(&stubService{err: services.ErrNotFound}, logging.Discard()), "abc", `{}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "invalid data was sent", body["message"])

	rec, _ = update(NewHandler(&stubService{err: services.ErrDuplicate}, logging.Discard()), "abc", `{"email":"taken@x.com"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestFollow(t *testing.T) {
	stub := &stubService{}
	h := NewHandler(stub, logging.Discard())

	r := httptest.NewRequest(http.MethodPost, "/follow?id=target", nil)
	r = r.WithContext(middleware.WithCallerID(r.Context(), "caller"))
	rec := httptest.NewRecorder()
	h.Follow(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, stub.followCalls, 1)
	assert.Equal(t, [2]string{"caller", "target"}, stub.followCalls[0])

	rec = httptest.NewRecorder()
	h.Unfollow(rec, httptest.NewRequest(http.MethodDelete, "/follow?id=target", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	h = NewHandler(&stubService{err: services.ErrSelfFollow}, logging.Discard())
	rec = httptest.NewRecorder()
	h.Follow(rec, r)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReads(t *testing.T) {
	account := &models.Account{ID: primitive.NewObjectID(), Name: "ann", Password: "$2a$10$secret"}
	h := NewHandler(&stubService{account: account}, logging.Discard())

	rec, body := serve(h.GetAccount, http.MethodGet, "/user?id="+account.ID.Hex(), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ann", user["name"])
	assert.NotContains(t, user, "password")

	rec = httptest.NewRecorder()
	h.ListAccounts(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	h = NewHandler(&stubService{err: services.ErrNotFound}, logging.Discard())
	rec, _ = serve(h.GetAccount, http.MethodGet, "/user?id=x", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVerify(t *testing.T) {
	h := NewHandler(&stubService{}, logging.Discard())
	r := httptest.NewRequest(http.MethodGet, "/verify", nil)
	r = r.WithContext(middleware.WithCallerID(r.Context(), "acct-1"))
	rec := httptest.NewRecorder()
	h.Verify(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"acct-1"}`, rec.Body.String())
}
