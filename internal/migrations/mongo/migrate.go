package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"flightfinder/internal/migrations/mongo/validators"
	"flightfinder/pkg/config"
	"flightfinder/pkg/model"
	"flightfinder/pkg/password"
	"flightfinder/pkg/sanitizer"
)

var (
	UsersIndexes = []mongo.IndexModel{
		// Emails are stored lowercased, so this unique index enforces
		// case-insensitive uniqueness.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "role", Value: 1}}},
		{Keys: bson.D{{Key: "operator_profile.status", Value: 1}}},
	}

	FlightsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{
			{Key: "departure.city", Value: 1},
			{Key: "arrival.city", Value: 1},
			{Key: "departure.date", Value: 1},
		}},
		{Keys: bson.D{{Key: "created_by", Value: 1}}},
	}

	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "flight_id", Value: 1}}},
	}
)

func RunMigration(ctx context.Context, cfg *config.Config) error {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	cfg.Log.Info("Running Mongo migrations", "database", cfg.MongoDatabaseName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Users": {
			Indexes:   UsersIndexes,
			Validator: validators.UserValidator,
		},
		"Flights": {
			Indexes:   FlightsIndexes,
			Validator: validators.FlightValidator,
		},
		"Bookings": {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, cfg, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, cfg, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	if err := ensureDefaultAdmin(ctx, cfg, db); err != nil {
		return fmt.Errorf("failed to ensure default admin: %w", err)
	}

	cfg.Log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, cfg *config.Config, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		cfg.Log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	cfg.Log.Info("Collection exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		cfg.Log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, cfg *config.Config, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	cfg.Log.Info("Ensured indexes", "collection", name)
	return nil
}

// ensureDefaultAdmin seeds the admin account on first run. Admin accounts
// can only exist through this seed; registration never grants the role.
func ensureDefaultAdmin(ctx context.Context, cfg *config.Config, db *mongo.Database) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		cfg.Log.Warn("Admin credentials not configured, skipping admin seed")
		return nil
	}

	coll := db.Collection("Users")
	email := sanitizer.NormalizeEmail(cfg.AdminEmail)

	err := coll.FindOne(ctx, bson.M{"email": email}).Err()
	if err == nil {
		cfg.Log.Info("Default admin already exists")
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	hash, err := password.NewHasher(cfg.BcryptCost).Hash(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := &model.User{
		FirstName: "Admin",
		Email:     email,
		Password:  hash,
		Role:      model.RoleAdmin,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := coll.InsertOne(ctx, admin); err != nil {
		return err
	}

	cfg.Log.Info("Default admin created", "email", email)
	return nil
}
