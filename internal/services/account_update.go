package services

import (
	"context"
	"strings"

	"github.com/AnshRaj112/butterfly-accounts/internal/models"
	"github.com/AnshRaj112/butterfly-accounts/pkg/utils"
)

// UpdateAccount validates and normalizes the supplied fields and writes only
// those. Fields left nil keep their stored value.
func (s *AccountService) UpdateAccount(ctx context.Context, id string, upd models.AccountUpdate) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	if upd.Name != nil {
		name := strings.ToLower(*upd.Name)
		upd.Name = &name
	}
	if upd.Email != nil {
		email := utils.NormalizeEmail(*upd.Email)
		if !utils.IsEmail(email) {
			return ErrInvalidFormat
		}
		upd.Email = &email
	}
	if upd.PhoneNumber != nil {
		phone := utils.NormalizePhone(*upd.PhoneNumber)
		if !utils.IsPhone(phone) {
			return ErrInvalidFormat
		}
		upd.PhoneNumber = &phone
	}
	if upd.Distance != nil && *upd.Distance <= 0 {
		return ErrInvalidDistance
	}

	if err := s.store.Update(ctx, oid, upd); err != nil {
		return err
	}

	s.log(ctx).Info("account updated", "account_id", id)
	return nil
}
