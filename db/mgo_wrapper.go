// Package db
package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// KaiMgo is a thin collection wrapper. C returns a new wrapper so concurrent callers never share a collection handle.
type KaiMgo struct {
	DB  *mongo.Database
	col *mongo.Collection
}

func (w *KaiMgo) Database(db *mongo.Database) {
	w.DB = db
}

func (w *KaiMgo) C(name string) *KaiMgo {
	return &KaiMgo{DB: w.DB, col: w.DB.Collection(name)}
}

func (w *KaiMgo) EnsureCollection(ctx context.Context, name string) error {
	err := w.DB.RunCommand(ctx, bson.D{{Key: "create", Value: name}}).Err()
	if cmdErr, ok := err.(mongo.CommandError); ok && cmdErr.Code == 48 {
		// NamespaceExists
		return nil
	}
	return err
}

func (w *KaiMgo) EnsureIndex(ctx context.Context, model []mongo.IndexModel) error {
	var err error
	opts := options.CreateIndexes().SetMaxTime(5 * time.Second)
	if len(model) == 1 {
		_, err = w.col.Indexes().CreateOne(ctx, model[0], opts)
	} else if len(model) > 1 {
		_, err = w.col.Indexes().CreateMany(ctx, model, opts)
	}
	return err
}

func (w *KaiMgo) Update(ctx context.Context, filter interface{}, update interface{},
	opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return w.col.UpdateOne(ctx, filter, update, opts...)
}

func (w *KaiMgo) Upsert(ctx context.Context, filter interface{}, update interface{},
	opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	opts = append(opts, options.Update().SetUpsert(true))
	return w.col.UpdateOne(ctx, filter, bson.M{"$set": update}, opts...)
}

// Replace stores document as the whole record matched by filter, inserting it when missing.
func (w *KaiMgo) Replace(ctx context.Context, filter interface{}, document interface{}) (*mongo.UpdateResult, error) {
	return w.col.ReplaceOne(ctx, filter, document, options.Replace().SetUpsert(true))
}

func (w *KaiMgo) Remove(ctx context.Context, filter interface{},
	opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return w.col.DeleteOne(ctx, filter, opts...)
}

func (w *KaiMgo) Find(ctx context.Context, filter interface{},
	opts ...*options.FindOptions) (*mongo.Cursor, error) {
	return w.col.Find(ctx, filter, opts...)
}

func (w *KaiMgo) FindOne(ctx context.Context, filter interface{},
	opts ...*options.FindOneOptions) *mongo.SingleResult {
	return w.col.FindOne(ctx, filter, opts...)
}

func (w *KaiMgo) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{},
	opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
	return w.col.FindOneAndUpdate(ctx, filter, update, opts...)
}

func (w *KaiMgo) Count(ctx context.Context, filter interface{},
	opts ...*options.CountOptions) (int64, error) {
	return w.col.CountDocuments(ctx, filter, opts...)
}

func (w *KaiMgo) Insert(ctx context.Context, document interface{},
	opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	return w.col.InsertOne(ctx, document, opts...)
}

func (w *KaiMgo) FindSetSort(data string) *options.FindOptions {
	if data[0:1] == "-" {
		return options.Find().SetSort(bson.M{data[1:]: -1})
	}
	return options.Find().SetSort(bson.M{data: 1})
}

func (w *KaiMgo) DropDatabase(ctx context.Context) error {
	if err := w.DB.Drop(ctx); err != nil {
		return err
	}
	return nil
}
