package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tuneup/studio/internal/core/domain"
)

// identityCollection carries the prefix the document service refuses, so
// the document API can never reach it.
const identityCollection = "auth_identities"

// IdentityRepository implements ports.IdentityRepository using MongoDB.
type IdentityRepository struct {
	coll *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{coll: db.Collection(identityCollection)}
}

type mongoIdentity struct {
	UID           string `bson:"_id"`
	Email         string `bson:"email"`
	DisplayName   string `bson:"display_name,omitempty"`
	Provider      string `bson:"provider"`
	Subject       string `bson:"subject,omitempty"`
	PasswordHash  string `bson:"password_hash,omitempty"`
	ProvisionedBy string `bson:"provisioned_by,omitempty"`
	CreatedAt     int64  `bson:"created_at"`
	UpdatedAt     int64  `bson:"updated_at"`
}

func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoIdentity{
		UID:           identity.UID,
		Email:         identity.Email,
		DisplayName:   identity.DisplayName,
		Provider:      identity.Provider,
		Subject:       identity.Subject,
		PasswordHash:  identity.PasswordHash,
		ProvisionedBy: identity.ProvisionedBy,
		CreatedAt:     identity.CreatedAt.Unix(),
		UpdatedAt:     identity.UpdatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrIdentityExists
		}
		return fmt.Errorf("insert identity: %w", err)
	}
	return nil
}

func (r *IdentityRepository) FindByUID(ctx context.Context, uid string) (*domain.Identity, error) {
	return r.findOne(ctx, bson.M{"_id": uid})
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *IdentityRepository) FindBySubject(ctx context.Context, provider, subject string) (*domain.Identity, error) {
	return r.findOne(ctx, bson.M{"provider": provider, "subject": subject})
}

func (r *IdentityRepository) UpdateDisplayName(ctx context.Context, uid, name string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{
		"$set": bson.M{"display_name": name, "updated_at": at.Unix()},
	})
	if err != nil {
		return fmt.Errorf("update identity: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

func (r *IdentityRepository) Delete(ctx context.Context, uid string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": uid}); err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	return nil
}

// EnsureIndexes makes email unique, which Create relies on to report
// domain.ErrIdentityExists.
func (r *IdentityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "provider", Value: 1}, {Key: "subject", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *IdentityRepository) findOne(ctx context.Context, filter bson.M) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mi mongoIdentity
	if err := r.coll.FindOne(ctx, filter).Decode(&mi); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}

	return &domain.Identity{
		UID:           mi.UID,
		Email:         mi.Email,
		DisplayName:   mi.DisplayName,
		Provider:      mi.Provider,
		Subject:       mi.Subject,
		PasswordHash:  mi.PasswordHash,
		ProvisionedBy: mi.ProvisionedBy,
		CreatedAt:     unixToTime(mi.CreatedAt),
		UpdatedAt:     unixToTime(mi.UpdatedAt),
	}, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
