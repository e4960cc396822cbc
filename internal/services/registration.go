package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/AnshRaj112/butterfly-accounts/internal/models"
	"github.com/AnshRaj112/butterfly-accounts/pkg/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Register validates a signup, resolves its location, hashes the password
// and stores the account. Every step must pass before the next runs.
func (s *AccountService) Register(ctx context.Context, req models.RegistrationRequest) (*models.Account, error) {
	account := &models.Account{
		ID:          primitive.NewObjectID(),
		Name:        strings.ToLower(deref(req.Name)),
		Email:       utils.NormalizeEmail(deref(req.Email)),
		PhoneNumber: utils.NormalizePhone(deref(req.PhoneNumber)),
		Bio:         deref(req.Bio),
		BaseLocation: models.BaseLocation{
			City:     deref(req.Location),
			Coords:   models.Coordinates{},
			Distance: models.DefaultDistanceMeters,
		},
		FollowList: []string{},
		Created:    midnightUTC(s.now()),
		Verified:   false,
	}

	coords, err := s.locations.ResolveLocation(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve location: %w", ErrDownstream, err)
	}
	if coords == nil {
		coords = models.Coordinates{}
	}
	account.BaseLocation.Coords = coords

	if !req.Complete() {
		return nil, ErrMissingField
	}

	// Rejected only when both confirmations differ.
	if *req.Password != *req.ConfirmPassword && *req.Email != *req.ConfirmEmail {
		return nil, ErrConfirmationMismatch
	}

	if !utils.IsEmail(account.Email) || !utils.IsStrongPassword(*req.Password) || !utils.IsPhone(account.PhoneNumber) {
		return nil, ErrInvalidFormat
	}

	hash, err := utils.HashPassword(*req.Password)
	if err != nil {
		return nil, err
	}
	account.Password = hash

	if err := s.store.Create(ctx, account); err != nil {
		return nil, err
	}

	s.log(ctx).Info("account registered", "account_id", account.ID.Hex())
	return account, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
