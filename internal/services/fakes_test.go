package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AnshRaj112/butterfly-accounts/internal/config"
	"github.com/AnshRaj112/butterfly-accounts/internal/logging"
	"github.com/AnshRaj112/butterfly-accounts/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeStore struct {
	mu       sync.Mutex
	accounts map[primitive.ObjectID]models.Account
}

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: map[primitive.ObjectID]models.Account{}}
}

func (f *fakeStore) taken(id primitive.ObjectID, email, phone string) bool {
	for _, a := range f.accounts {
		if a.ID != id && (a.Email == email || a.PhoneNumber == phone) {
			return true
		}
	}
	return false
}

func (f *fakeStore) Create(_ context.Context, account *models.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.taken(account.ID, account.Email, account.PhoneNumber) {
		return ErrDuplicate
	}
	f.accounts[account.ID] = *account
	return nil
}

func (f *fakeStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (f *fakeStore) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) List(_ context.Context) ([]models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Account{}
	for _, a := range f.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, id primitive.ObjectID, upd models.AccountUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return ErrNotFound
	}
	if upd.Name != nil {
		a.Name = *upd.Name
	}
	if upd.Email != nil {
		a.Email = *upd.Email
	}
	if upd.PhoneNumber != nil {
		a.PhoneNumber = *upd.PhoneNumber
	}
	if upd.Bio != nil {
		a.Bio = *upd.Bio
	}
	if upd.City != nil {
		a.BaseLocation.City = *upd.City
	}
	if upd.Distance != nil {
		a.BaseLocation.Distance = *upd.Distance
	}
	if f.taken(id, a.Email, a.PhoneNumber) {
		return ErrDuplicate
	}
	f.accounts[id] = a
	return nil
}

func (f *fakeStore) ResetPassword(_ context.Context, id primitive.ObjectID, hash string) error {
	return f.mutate(id, func(a *models.Account) { a.Password = hash })
}

func (f *fakeStore) AddFollower(_ context.Context, target primitive.ObjectID, follower string) error {
	return f.mutate(target, func(a *models.Account) {
		for _, id := range a.FollowList {
			if id == follower {
				return
			}
		}
		a.FollowList = append(a.FollowList, follower)
	})
}

func (f *fakeStore) RemoveFollower(_ context.Context, target primitive.ObjectID, follower string) error {
	return f.mutate(target, func(a *models.Account) {
		kept := a.FollowList[:0]
		for _, id := range a.FollowList {
			if id != follower {
				kept = append(kept, id)
			}
		}
		a.FollowList = kept
	})
}

func (f *fakeStore) mutate(id primitive.ObjectID, fn func(*models.Account)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return ErrNotFound
	}
	fn(&a)
	f.accounts[id] = a
	return nil
}

type fakeLocations struct {
	coords models.Coordinates
	err    error
	calls  int
}

func (f *fakeLocations) ResolveLocation(_ context.Context, _ *models.Account) (models.Coordinates, error) {
	f.calls++
	return f.coords, f.err
}

type published struct {
	topic   string
	message models.Notification
}

type fakePublisher struct {
	sent []published
	err  error
}

func (f *fakePublisher) Publish(_ context.Context, topic string, message any) (PublishResult, error) {
	if f.err != nil {
		return PublishResult{}, f.err
	}
	n, ok := message.(models.Notification)
	if !ok {
		return PublishResult{}, errors.New("unexpected message type")
	}
	f.sent = append(f.sent, published{topic: topic, message: n})
	return PublishResult{MessageID: "msg-1", Topic: topic}, nil
}

type serviceFixture struct {
	svc       *AccountService
	store     *fakeStore
	locations *fakeLocations
	publisher *fakePublisher
	tokens    *TokenIssuer
}

var fixedNow = time.Date(2024, 3, 1, 15, 4, 5, 0, time.UTC)

func newServiceFixture() *serviceFixture {
	cfg := &config.Config{Mail: config.MailConfig{From: "noreply@butterfly.test"}}
	f := &serviceFixture{
		store:     newFakeStore(),
		locations: &fakeLocations{coords: models.Coordinates{-74.0, 40.7}},
		publisher: &fakePublisher{},
		tokens:    NewTokenIssuer("test-secret", "test", time.Hour),
	}
	f.svc = NewAccountService(f.store, f.locations, f.publisher, f.tokens, cfg, logging.Discard())
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func str(s string) *string { return &s }

func annRegistration() models.RegistrationRequest {
	return models.RegistrationRequest{
		Name:            str("Ann"),
		Password:        str("Abc123!"),
		ConfirmPassword: str("Abc123!"),
		Email:           str("ann@x.com"),
		ConfirmEmail:    str("ann@x.com"),
		PhoneNumber:     str("(555)-123-4567"),
		Bio:             str("hi"),
		Location:        str("Metropolis"),
	}
}
