package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/domain"
)

type mongoNotificationRepo struct {
	col *mongo.Collection
}

func NewMongoNotificationRepository(db *mongo.Database) NotificationRepository {
	return &mongoNotificationRepo{col: db.Collection(notificationsCollection)}
}

func (r *mongoNotificationRepo) Insert(ctx context.Context, n *domain.Notification) error {
	_, err := r.col.InsertOne(ctx, n)
	return err
}

func (r *mongoNotificationRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]*domain.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domain.Notification
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoNotificationRepo) MarkReadByConversation(ctx context.Context, userID, conversationID string, at time.Time) error {
	filter := bson.M{
		"user_id":              userID,
		"data.conversation_id": conversationID,
		"read":                 false,
	}
	update := bson.M{"$set": bson.M{"read": true, "read_at": at}}
	_, err := r.col.UpdateMany(ctx, filter, update)
	return err
}
