package services

import (
	"context"
	"time"

	"github.com/AnshRaj112/butterfly-accounts/internal/config"
	"github.com/AnshRaj112/butterfly-accounts/internal/logging"
	"github.com/AnshRaj112/butterfly-accounts/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccountService runs the account lifecycle: registration, sign in,
// password reset, follows and profile updates.
type AccountService struct {
	store     AccountStore
	locations LocationResolver
	publisher Publisher
	tokens    *TokenIssuer
	mailFrom  string
	logger    *logging.Logger
	now       func() time.Time
}

func NewAccountService(
	store AccountStore,
	locations LocationResolver,
	publisher Publisher,
	tokens *TokenIssuer,
	cfg *config.Config,
	logger *logging.Logger,
) *AccountService {
	return &AccountService{
		store:     store,
		locations: locations,
		publisher: publisher,
		tokens:    tokens,
		mailFrom:  cfg.Mail.From,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *AccountService) log(ctx context.Context) *logging.Logger {
	return logging.FromContext(ctx, s.logger)
}

func (s *AccountService) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, oid)
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return s.store.List(ctx)
}

// VerifyToken returns the account id carried by a valid bearer token.
func (s *AccountService) VerifyToken(token string) (string, error) {
	return s.tokens.Verify(token)
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

// midnightUTC truncates t to the start of its UTC day.
func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
