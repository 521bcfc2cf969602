package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/teerapatl/aqualog-api/internal/model"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, params UpdateProfileParams) (*model.User, error)

	// AddProviderBinding appends an external provider binding and updates the
	// auth method marker, optionally setting the avatar when one is supplied.
	AddProviderBinding(ctx context.Context, id string, binding model.ProviderBinding, avatar string) (*model.User, error)

	// SetResetDigest stores the digest of a password reset secret together
	// with its expiry, replacing any previous one.
	SetResetDigest(ctx context.Context, id string, digest string, expiresAt time.Time) error

	// GetUserByResetDigest finds the user holding the given unexpired reset
	// digest without mutating it.
	GetUserByResetDigest(ctx context.Context, digest string) (*model.User, error)

	// ConsumeResetDigest atomically swaps an unexpired reset digest for a new
	// password hash, clearing both reset fields in the same write. Returns
	// mongo.ErrNoDocuments when no matching digest exists, which covers
	// never-issued, already-consumed and expired secrets alike.
	ConsumeResetDigest(ctx context.Context, digest string, passwordHash string) (*model.User, error)
}

// UpdateProfileParams defines the optional parameters for updating a user's
// profile. Only the fields that are not nil will be updated.
type UpdateProfileParams struct {
	Name   *string
	Avatar *string
}

const userCollection = "users"

type userMongoRepository struct {
	db *mongo.Database
}

// NewUserMongoRepository creates a new MongoDB repository for users.
func NewUserMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) UserRepository {
	collection := db.Collection(userCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "reset_password_digest", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	return &userMongoRepository{db: db}
}

func (r *userMongoRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return user, nil
}

func (r *userMongoRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(userCollection).FindOne(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOne(ctx, bson.M{"email": email})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) UpdateProfile(
	ctx context.Context,
	id string,
	params UpdateProfileParams,
) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	updateMap := bson.M{}
	if params.Name != nil {
		updateMap["name"] = *params.Name
	}
	if params.Avatar != nil {
		updateMap["avatar"] = *params.Avatar
	}

	if len(updateMap) == 0 {
		return nil, errors.New("no profile fields to update")
	}

	updateMap["updated_at"] = time.Now()

	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) AddProviderBinding(
	ctx context.Context,
	id string,
	binding model.ProviderBinding,
	avatar string,
) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	setMap := bson.M{
		"auth_provider": binding.Provider,
		"updated_at":    time.Now(),
	}
	if avatar != "" {
		setMap["avatar"] = avatar
	}

	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{
			"$push": bson.M{"providers": binding},
			"$set":  setMap,
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) SetResetDigest(
	ctx context.Context,
	id string,
	digest string,
	expiresAt time.Time,
) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.db.Collection(userCollection).UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{
			"reset_password_digest":     digest,
			"reset_password_expires_at": expiresAt,
			"updated_at":                time.Now(),
		}},
	)
	return err
}

func (r *userMongoRepository) GetUserByResetDigest(ctx context.Context, digest string) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOne(ctx, bson.M{
		"reset_password_digest":     digest,
		"reset_password_expires_at": bson.M{"$gt": time.Now()},
	})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) ConsumeResetDigest(
	ctx context.Context,
	digest string,
	passwordHash string,
) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		bson.M{
			"reset_password_digest":     digest,
			"reset_password_expires_at": bson.M{"$gt": time.Now()},
		},
		bson.M{
			"$set": bson.M{
				"password_hash": passwordHash,
				"updated_at":    time.Now(),
			},
			"$unset": bson.M{
				"reset_password_digest":     "",
				"reset_password_expires_at": "",
			},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}
