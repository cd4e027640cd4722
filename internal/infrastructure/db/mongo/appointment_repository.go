package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

const collectionAppointments = "appointments"

// AppointmentRepository implements ports.AppointmentRepository using MongoDB.
type AppointmentRepository struct {
	col *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{col: db.Collection(collectionAppointments)}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, a); err != nil {
		return storeErr("insert appointment", err)
	}
	return nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Appointment
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, notFoundOr("find appointment", err)
	}
	return &a, nil
}

func (r *AppointmentRepository) ListByRequester(ctx context.Context, requesterID string) ([]*domain.Appointment, error) {
	return r.list(ctx, bson.M{"requester_id": requesterID})
}

func (r *AppointmentRepository) ListByVeterinarian(ctx context.Context, veterinarianID string) ([]*domain.Appointment, error) {
	return r.list(ctx, bson.M{"veterinarian_id": veterinarianID})
}

func (r *AppointmentRepository) list(ctx context.Context, filter bson.M) ([]*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeErr("list appointments", err)
	}
	out := []*domain.Appointment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, storeErr("decode appointments", err)
	}
	return out, nil
}

// TransitionStatus atomically sets the status and appends a history entry,
// matching only while the stored status still equals from.
func (r *AppointmentRepository) TransitionStatus(ctx context.Context, id string, from, to domain.AppointmentStatus, at time.Time) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, update := transitionUpdate(id, from, to, at)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var a domain.Appointment
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrConflict
		}
		return nil, storeErr("transition appointment", err)
	}
	return &a, nil
}

func (r *AppointmentRepository) CountByStatus(ctx context.Context, veterinarianID string) (map[domain.AppointmentStatus]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "veterinarian_id", Value: veterinarianID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, storeErr("count appointments", err)
	}
	var rows []struct {
		Status domain.AppointmentStatus `bson:"_id"`
		Count  int64                    `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, storeErr("decode appointment counts", err)
	}
	out := make(map[domain.AppointmentStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

func (r *AppointmentRepository) DeleteByAccount(ctx context.Context, accountID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"$or": bson.A{
		bson.M{"requester_id": accountID},
		bson.M{"veterinarian_id": accountID},
	}}
	res, err := r.col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, storeErr("delete appointments", err)
	}
	return res.DeletedCount, nil
}

func (r *AppointmentRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, storeErr("count appointments", err)
	}
	return n, nil
}

func (r *AppointmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "requester_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "veterinarian_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "veterinarian_id", Value: 1}, {Key: "status", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// transitionUpdate builds the conditional filter and update for a status change.
func transitionUpdate(id string, from, to domain.AppointmentStatus, at time.Time) (bson.M, bson.M) {
	filter := bson.M{"_id": id, "status": string(from)}
	update := bson.M{
		"$set": bson.M{"status": string(to), "updated_at": at.UTC()},
		"$push": bson.M{"history": domain.StatusChange{
			From: from,
			To:   to,
			At:   at.UTC(),
		}},
	}
	return filter, update
}
