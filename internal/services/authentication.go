package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/AnshRaj112/butterfly-accounts/internal/models"
	"github.com/AnshRaj112/butterfly-accounts/pkg/utils"
)

type LoginResult struct {
	AccountID string
	Token     string
}

// Login checks the credentials and issues a bearer token. Unknown accounts
// and wrong passwords fail with the same error.
func (s *AccountService) Login(ctx context.Context, req models.LoginRequest) (*LoginResult, error) {
	switch {
	case utils.IsEmail(req.Username):
		return s.loginByEmail(ctx, req)
	case utils.IsPhone(req.Username):
		return nil, ErrPhoneLoginUnsupported
	default:
		return nil, ErrInvalidCredentials
	}
}

func (s *AccountService) loginByEmail(ctx context.Context, req models.LoginRequest) (*LoginResult, error) {
	account, err := s.store.FindByEmail(ctx, utils.NormalizeEmail(req.Username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := utils.VerifyPassword(req.Password, account.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID.Hex())
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccountID: account.ID.Hex(), Token: token}, nil
}
