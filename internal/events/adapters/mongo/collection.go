package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

type Collection interface {
	InsertOne(ctx context.Context, doc any) error
	InsertMany(ctx context.Context, docs []any) (int, error)
}

type mongoCollection struct {
	coll *mongo.Collection
}

func NewCollection(coll *mongo.Collection) Collection {
	return &mongoCollection{coll: coll}
}

func (c *mongoCollection) InsertOne(ctx context.Context, doc any) error {
	_, err := c.coll.InsertOne(ctx, doc)
	return err
}

func (c *mongoCollection) InsertMany(ctx context.Context, docs []any) (int, error) {
	res, err := c.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(res.InsertedIDs), nil
}
