package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

const collectionRatings = "ratings"

type RatingRepository struct {
	col *mongo.Collection
}

func NewRatingRepository(db *mongo.Database) *RatingRepository {
	return &RatingRepository{col: db.Collection(collectionRatings)}
}

// Create relies on the unique (rater_id, subject_id) index, so two racing
// inserts for the same pair cannot both succeed.
func (r *RatingRepository) Create(ctx context.Context, rt *domain.Rating) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, rt); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateRating
		}
		return storeErr("insert rating", err)
	}
	return nil
}

func (r *RatingRepository) FindByID(ctx context.Context, id string) (*domain.Rating, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *RatingRepository) FindByPair(ctx context.Context, raterID, subjectID string) (*domain.Rating, error) {
	return r.findOne(ctx, bson.M{"rater_id": raterID, "subject_id": subjectID})
}

func (r *RatingRepository) findOne(ctx context.Context, filter bson.M) (*domain.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rt domain.Rating
	if err := r.col.FindOne(ctx, filter).Decode(&rt); err != nil {
		return nil, notFoundOr("find rating", err)
	}
	return &rt, nil
}

func (r *RatingRepository) ListBySubject(ctx context.Context, subjectID string) ([]*domain.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"subject_id": subjectID}, opts)
	if err != nil {
		return nil, storeErr("list ratings", err)
	}
	out := []*domain.Rating{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, storeErr("decode ratings", err)
	}
	return out, nil
}

func (r *RatingRepository) Update(ctx context.Context, id string, score int, comment string, at time.Time) (*domain.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"score": score, "comment": comment, "updated_at": at}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var rt domain.Rating
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&rt); err != nil {
		return nil, notFoundOr("update rating", err)
	}
	return &rt, nil
}

func (r *RatingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storeErr("delete rating", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RatingRepository) DeleteByAccount(ctx context.Context, accountID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"$or": bson.A{
		bson.M{"rater_id": accountID},
		bson.M{"subject_id": accountID},
	}}
	res, err := r.col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, storeErr("delete ratings", err)
	}
	return res.DeletedCount, nil
}

func (r *RatingRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, storeErr("count ratings", err)
	}
	return n, nil
}

func (r *RatingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "rater_id", Value: 1}, {Key: "subject_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("rater_subject_unique"),
		},
		{Keys: bson.D{{Key: "subject_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
