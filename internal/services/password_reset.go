package services

import (
	"context"
	"fmt"

	"github.com/AnshRaj112/butterfly-accounts/internal/models"
	"github.com/AnshRaj112/butterfly-accounts/pkg/utils"
)

const resetSubject = "reset password"

// RequestPasswordReset queues a reset link for the account registered under
// username. host is the host the request was addressed to.
func (s *AccountService) RequestPasswordReset(ctx context.Context, username, host string) error {
	if username == "" {
		return ErrEmptyUsername
	}

	account, err := s.store.FindByEmail(ctx, utils.NormalizeEmail(username))
	if err != nil {
		return err
	}

	link := "http://" + host + "/reset?id=" + account.ID.Hex()
	msg := models.Notification{
		To:      account.Email,
		From:    s.mailFrom,
		Subject: resetSubject,
		HTML: "Hello, <br> Please click the link to reset your password.<br><a href=" + link +
			">Click here to reset your password</a>",
	}

	res, err := s.publisher.Publish(ctx, TopicResetPassword, msg)
	if err != nil {
		return err
	}

	s.log(ctx).Info("password reset queued", "account_id", account.ID.Hex(), "message_id", res.MessageID)
	return nil
}

// CompletePasswordReset replaces the password of the account named by the
// reset link.
func (s *AccountService) CompletePasswordReset(ctx context.Context, req models.ResetConfirmation) error {
	id, err := parseID(req.ID)
	if err != nil {
		return err
	}
	if !utils.IsStrongPassword(req.Password) {
		return ErrInvalidFormat
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		return ErrConfirmationMismatch
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return err
	}
	if err := s.store.ResetPassword(ctx, id, hash); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	s.log(ctx).Info("password reset completed", "account_id", req.ID)
	return nil
}
