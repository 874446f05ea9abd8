package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

type Cursor interface {
	All(ctx context.Context, results any) error
	Close(ctx context.Context) error
}

type Collection interface {
	Aggregate(ctx context.Context, pipeline any) (Cursor, error)
}

type mongoCollection struct {
	coll *mongo.Collection
}

func NewCollection(coll *mongo.Collection) Collection {
	return &mongoCollection{coll: coll}
}

func (c *mongoCollection) Aggregate(ctx context.Context, pipeline any) (Cursor, error) {
	cur, err := c.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	return cur, nil
}
