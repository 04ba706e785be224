package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	flightserrors "flightfinder/internal/flights/errors"
	"flightfinder/pkg/config"
	mongotx "flightfinder/pkg/db/mongo"
	"flightfinder/pkg/model"
)

const (
	CollectionName = "Flights"
)

type mongoFlightRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type FlightRepository interface {
	Create(ctx context.Context, flight *model.Flight) error
	FindByID(ctx context.Context, id string) (*model.Flight, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*model.Flight, error)
	FindLatest(ctx context.Context, limit int) ([]*model.Flight, error)
	Search(ctx context.Context, from, to string, date time.Time) ([]*model.Flight, error)
	FindByCreator(ctx context.Context, creatorID string) ([]*model.Flight, error)
	ReserveSeats(ctx context.Context, id, fareClass string, count int) error
	ReleaseSeats(ctx context.Context, id, fareClass string, count int) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoFlightRepository(cfg *config.Config) FlightRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoFlightRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoFlightRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoFlightRepository) Create(ctx context.Context, flight *model.Flight) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	flight.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, flight)
	if err != nil {
		return fmt.Errorf("failed to create flight: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		flight.ID = oid.Hex()
	}
	return nil
}

func (r *mongoFlightRepository) FindByID(ctx context.Context, id string) (*model.Flight, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", flightserrors.ErrInvalidID, id)
	}

	var flight model.Flight
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&flight)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, flightserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find flight: %w", err)
	}

	return &flight, nil
}

// FindByIDs loads a batch of flights keyed by hex id. Unknown or malformed
// ids are simply absent from the result.
func (r *mongoFlightRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Flight, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			objectIDs = append(objectIDs, oid)
		}
	}
	if len(objectIDs) == 0 {
		return map[string]*model.Flight{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find flights: %w", err)
	}
	defer cursor.Close(ctx)

	var flights []*model.Flight
	if err = cursor.All(ctx, &flights); err != nil {
		return nil, fmt.Errorf("failed to decode flights: %w", err)
	}

	byID := make(map[string]*model.Flight, len(flights))
	for _, f := range flights {
		byID[f.ID] = f
	}
	return byID, nil
}

func (r *mongoFlightRepository) FindLatest(ctx context.Context, limit int) ([]*model.Flight, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find latest flights: %w", err)
	}
	defer cursor.Close(ctx)

	var flights []*model.Flight
	if err = cursor.All(ctx, &flights); err != nil {
		return nil, fmt.Errorf("failed to decode flights: %w", err)
	}

	return flights, nil
}

// Search matches departure city, arrival city and the calendar day of
// departure. The day is interpreted as [00:00, 24:00) UTC.
func (r *mongoFlightRepository) Search(ctx context.Context, from, to string, date time.Time) ([]*model.Flight, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	filter := bson.M{
		"departure.city": from,
		"arrival.city":   to,
		"departure.date": bson.M{
			"$gte": dayStart,
			"$lt":  dayEnd,
		},
	}

	opts := options.Find().SetSort(bson.D{{Key: "departure.date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search flights: %w", err)
	}
	defer cursor.Close(ctx)

	var flights []*model.Flight
	if err = cursor.All(ctx, &flights); err != nil {
		return nil, fmt.Errorf("failed to decode flights: %w", err)
	}

	return flights, nil
}

func (r *mongoFlightRepository) FindByCreator(ctx context.Context, creatorID string) ([]*model.Flight, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"created_by": creatorID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find flights by creator: %w", err)
	}
	defer cursor.Close(ctx)

	var flights []*model.Flight
	if err = cursor.All(ctx, &flights); err != nil {
		return nil, fmt.Errorf("failed to decode flights: %w", err)
	}

	return flights, nil
}

// ReserveSeats decrements availability only when enough seats remain. The
// filter and the $inc run as one atomic document update, so two concurrent
// bookings can never both take the last seat.
func (r *mongoFlightRepository) ReserveSeats(ctx context.Context, id, fareClass string, count int) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", flightserrors.ErrInvalidID, id)
	}

	availableField := "seats." + fareClass + ".available"
	filter := bson.M{
		"_id":          objectID,
		availableField: bson.M{"$gte": count},
	}
	update := bson.M{"$inc": bson.M{availableField: -count}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to reserve seats: %w", err)
	}
	if result.MatchedCount == 0 {
		return flightserrors.ErrInsufficientSeats
	}
	return nil
}

// ReleaseSeats restores availability after a cancellation, capped at the
// fare class total.
func (r *mongoFlightRepository) ReleaseSeats(ctx context.Context, id, fareClass string, count int) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", flightserrors.ErrInvalidID, id)
	}

	availableField := "seats." + fareClass + ".available"
	totalField := "seats." + fareClass + ".total"
	filter := bson.M{
		"_id": objectID,
		"$expr": bson.M{
			"$lte": bson.A{
				bson.M{"$add": bson.A{"$" + availableField, count}},
				"$" + totalField,
			},
		},
	}
	update := bson.M{"$inc": bson.M{availableField: count}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to release seats: %w", err)
	}
	if result.MatchedCount == 0 {
		return flightserrors.ErrNotFound
	}
	return nil
}

func (r *mongoFlightRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
