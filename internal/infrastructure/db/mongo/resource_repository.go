package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

const (
	collectionCattle   = "cattle"
	collectionProducts = "products"
	collectionNews     = "news"
)

// ResourceRepository stores one catalog kind. newDoc allocates the concrete
// document type the driver decodes into.
type ResourceRepository[T domain.Resource] struct {
	col    *mongo.Collection
	newDoc func() T
}

func NewResourceRepository[T domain.Resource](db *mongo.Database, collection string, newDoc func() T) *ResourceRepository[T] {
	return &ResourceRepository[T]{col: db.Collection(collection), newDoc: newDoc}
}

func NewCattleRepository(db *mongo.Database) *ResourceRepository[*domain.Cattle] {
	return NewResourceRepository(db, collectionCattle, func() *domain.Cattle { return &domain.Cattle{} })
}

func NewProductRepository(db *mongo.Database) *ResourceRepository[*domain.Product] {
	return NewResourceRepository(db, collectionProducts, func() *domain.Product { return &domain.Product{} })
}

func NewNewsRepository(db *mongo.Database) *ResourceRepository[*domain.NewsItem] {
	return NewResourceRepository(db, collectionNews, func() *domain.NewsItem { return &domain.NewsItem{} })
}

func (r *ResourceRepository[T]) Create(ctx context.Context, res T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, res); err != nil {
		return storeErr("insert "+r.col.Name(), err)
	}
	return nil
}

func (r *ResourceRepository[T]) FindByID(ctx context.Context, id string) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := r.newDoc()
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(doc); err != nil {
		var zero T
		return zero, notFoundOr("find "+r.col.Name(), err)
	}
	return doc, nil
}

// List returns newest first.
func (r *ResourceRepository[T]) List(ctx context.Context, f domain.ResourceFilter) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	cur, err := r.col.Find(ctx, resourceFilter(f), opts)
	if err != nil {
		return nil, storeErr("list "+r.col.Name(), err)
	}
	defer cur.Close(ctx)

	out := []T{}
	for cur.Next(ctx) {
		doc := r.newDoc()
		if err := cur.Decode(doc); err != nil {
			return nil, storeErr("decode "+r.col.Name(), err)
		}
		out = append(out, doc)
	}
	if err := cur.Err(); err != nil {
		return nil, storeErr("list "+r.col.Name(), err)
	}
	return out, nil
}

// Replace overwrites the whole document; the last writer wins.
func (r *ResourceRepository[T]) Replace(ctx context.Context, res T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := r.col.ReplaceOne(ctx, bson.M{"_id": res.Meta().ID}, res)
	if err != nil {
		return storeErr("replace "+r.col.Name(), err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ResourceRepository[T]) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storeErr("delete "+r.col.Name(), err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ResourceRepository[T]) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := r.col.DeleteMany(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return 0, storeErr("delete "+r.col.Name()+" by owner", err)
	}
	return result.DeletedCount, nil
}

func (r *ResourceRepository[T]) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, storeErr("count "+r.col.Name(), err)
	}
	return n, nil
}

func (r *ResourceRepository[T]) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func resourceFilter(f domain.ResourceFilter) bson.M {
	filter := bson.M{}
	if f.OwnerID != "" {
		filter["owner_id"] = f.OwnerID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	return filter
}
