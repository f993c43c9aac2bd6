package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/domain"
)

type mongoConversationRepo struct {
	col *mongo.Collection
}

func NewMongoConversationRepository(db *mongo.Database) ConversationRepository {
	return &mongoConversationRepo{col: db.Collection(conversationsCollection)}
}

func (r *mongoConversationRepo) Insert(ctx context.Context, c *domain.Conversation) error {
	_, err := r.col.InsertOne(ctx, c)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}

func (r *mongoConversationRepo) FindByID(ctx context.Context, id string) (*domain.Conversation, error) {
	var c domain.Conversation
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *mongoConversationRepo) FindByMemberKey(ctx context.Context, key string) (*domain.Conversation, error) {
	var c domain.Conversation
	err := r.col.FindOne(ctx, bson.M{"member_key": key}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *mongoConversationRepo) Update(ctx context.Context, c *domain.Conversation) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrConversationNotFound
	}
	return nil
}

func (r *mongoConversationRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrConversationNotFound
	}
	return nil
}

func (r *mongoConversationRepo) ListByUser(ctx context.Context, userID string, limit int64, before time.Time) ([]*domain.Conversation, error) {
	filter := bson.M{"members": userID}
	if !before.IsZero() {
		filter["updated_at"] = bson.M{"$lt": before}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetLimit(limit)
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domain.Conversation
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoConversationRepo) Participants(ctx context.Context, id string) ([]string, error) {
	var doc struct {
		Members []string `bson:"members"`
	}
	opts := options.FindOne().SetProjection(bson.M{"members": 1})
	err := r.col.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.Members, nil
}
