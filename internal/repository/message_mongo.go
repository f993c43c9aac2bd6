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

type mongoMessageRepo struct {
	col *mongo.Collection
}

func NewMongoMessageRepository(db *mongo.Database) MessageRepository {
	return &mongoMessageRepo{col: db.Collection(messagesCollection)}
}

func (r *mongoMessageRepo) Insert(ctx context.Context, m *domain.Message) error {
	_, err := r.col.InsertOne(ctx, m)
	return err
}

func (r *mongoMessageRepo) FindByID(ctx context.Context, id string) (*domain.Message, error) {
	var m domain.Message
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mongoMessageRepo) Update(ctx context.Context, m *domain.Message) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

// ListByConversation pages newest-first through non-deleted messages and
// returns the page in chronological order, the way a chat view renders it.
func (r *mongoMessageRepo) ListByConversation(ctx context.Context, conversationID string, limit int64, before time.Time) ([]*domain.Message, error) {
	filter := bson.M{
		"conversation_id": conversationID,
		"deleted_at":      bson.M{"$exists": false},
	}
	if !before.IsZero() {
		filter["created_at"] = bson.M{"$lt": before}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domain.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *mongoMessageRepo) DeleteByConversation(ctx context.Context, conversationID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"conversation_id": conversationID})
	return err
}
