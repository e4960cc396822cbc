package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/AnshRaj112/butterfly-accounts/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AccountStore persists account documents.
type AccountStore interface {
	Create(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
	Update(ctx context.Context, id primitive.ObjectID, upd models.AccountUpdate) error
	ResetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	AddFollower(ctx context.Context, target primitive.ObjectID, follower string) error
	RemoveFollower(ctx context.Context, target primitive.ObjectID, follower string) error
}

type MongoAccountStore struct {
	collection *mongo.Collection
}

func NewMongoAccountStore(db *mongo.Database, collection string) *MongoAccountStore {
	return &MongoAccountStore{collection: db.Collection(collection)}
}

// EnsureIndexes creates the unique indexes that keep email and phone number
// unique across concurrent registrations.
func (s *MongoAccountStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_unique")},
		{Keys: bson.D{{Key: "phone_number", Value: 1}}, Options: options.Index().SetUnique(true).SetName("phone_number_unique")},
	})
	if err != nil {
		return fmt.Errorf("create account indexes: %w", err)
	}
	return nil
}

func (s *MongoAccountStore) Create(ctx context.Context, account *models.Account) error {
	if account.ID.IsZero() {
		account.ID = primitive.NewObjectID()
	}
	if account.FollowList == nil {
		account.FollowList = []string{}
	}
	if _, err := s.collection.InsertOne(ctx, account); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *MongoAccountStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoAccountStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoAccountStore) findOne(ctx context.Context, filter bson.M) (*models.Account, error) {
	var account models.Account
	if err := s.collection.FindOne(ctx, filter).Decode(&account); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &account, nil
}

func (s *MongoAccountStore) List(ctx context.Context) ([]models.Account, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer cursor.Close(ctx)

	accounts := []models.Account{}
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	return accounts, nil
}

// Update sets only the non-nil fields of upd. An empty update still reports
// ErrNotFound for an unknown id.
func (s *MongoAccountStore) Update(ctx context.Context, id primitive.ObjectID, upd models.AccountUpdate) error {
	set := profileSet(upd)
	if len(set) == 0 {
		_, err := s.FindByID(ctx, id)
		return err
	}
	return s.updateOne(ctx, id, bson.M{"$set": set})
}

func profileSet(upd models.AccountUpdate) bson.M {
	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.PhoneNumber != nil {
		set["phone_number"] = *upd.PhoneNumber
	}
	if upd.Bio != nil {
		set["bio"] = *upd.Bio
	}
	if upd.City != nil {
		set["base_location.city"] = *upd.City
	}
	if upd.Distance != nil {
		set["base_location.distance"] = *upd.Distance
	}
	return set
}

func (s *MongoAccountStore) ResetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return s.updateOne(ctx, id, bson.M{"$set": bson.M{"password": hash}})
}

func (s *MongoAccountStore) AddFollower(ctx context.Context, target primitive.ObjectID, follower string) error {
	return s.updateOne(ctx, target, bson.M{"$addToSet": bson.M{"follow_list": follower}})
}

func (s *MongoAccountStore) RemoveFollower(ctx context.Context, target primitive.ObjectID, follower string) error {
	return s.updateOne(ctx, target, bson.M{"$pull": bson.M{"follow_list": follower}})
}

func (s *MongoAccountStore) updateOne(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update account: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
