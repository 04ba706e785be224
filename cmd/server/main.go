package main

import (
	"github.com/joho/godotenv"

	adminhandler "flightfinder/internal/admin/handler"
	adminservice "flightfinder/internal/admin/service"
	authhandler "flightfinder/internal/auth/handler"
	authservice "flightfinder/internal/auth/service"
	authvalidator "flightfinder/internal/auth/validator"
	bookinghandler "flightfinder/internal/bookings/handler"
	bookingrepo "flightfinder/internal/bookings/repository"
	bookingservice "flightfinder/internal/bookings/service"
	bookingvalidator "flightfinder/internal/bookings/validator"
	flighthandler "flightfinder/internal/flights/handler"
	flightrepo "flightfinder/internal/flights/repository"
	flightservice "flightfinder/internal/flights/service"
	flightvalidator "flightfinder/internal/flights/validator"
	userrepo "flightfinder/internal/users/repository"
	"flightfinder/pkg/app"
	"flightfinder/pkg/cache"
	"flightfinder/pkg/config"
	"flightfinder/pkg/events"
	"flightfinder/pkg/kafka"
	kafkaconfig "flightfinder/pkg/kafka/config"
	kafkamiddleware "flightfinder/pkg/kafka/middleware"
	"flightfinder/pkg/middleware"
	"flightfinder/pkg/password"
	"flightfinder/pkg/token"
)

const ServiceName = "server"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting FlightFinder API server")

	issuer := token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	guard := middleware.NewGuard(issuer)
	hasher := password.NewHasher(cfg.BcryptCost)
	flightCache := cache.New(cfg.Client.Redis, cfg.FlightCacheTTL)

	publisher := initPublisher(cfg)

	userRepo := userrepo.NewMongoUserRepository(cfg)
	flightRepo := flightrepo.NewMongoFlightRepository(cfg)
	bookingRepo := bookingrepo.NewMongoBookingRepository(cfg)

	authSvc := authservice.NewAuthService(
		userRepo,
		authvalidator.NewAuthValidator(cfg.Log),
		hasher,
		issuer,
		cfg,
	)
	flightSvc := flightservice.NewFlightService(
		flightRepo,
		flightvalidator.NewFlightValidator(cfg.Log),
		flightCache,
		cfg,
	)
	bookingSvc := bookingservice.NewBookingService(
		bookingRepo,
		flightRepo,
		userRepo,
		bookingvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)
	adminSvc := adminservice.NewAdminService(userRepo, cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		authhandler.NewAuthHandler(authSvc, cfg.Log),
		flighthandler.NewFlightHandler(flightSvc, guard, cfg.Log),
		bookinghandler.NewBookingHandler(bookingSvc, guard, cfg.Log),
		adminhandler.NewAdminHandler(adminSvc, bookingSvc, guard, cfg.Log),
	)
	serverApp.OnShutdown(func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	})
	serverApp.Run()
}

func initPublisher(cfg *config.Config) events.Publisher {
	kafkaCfg := kafkaconfig.Load()
	if err := kafkaCfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	if !kafkaCfg.Enabled() {
		cfg.Log.Info("Kafka brokers not configured, booking events disabled")
		return events.NoopPublisher{}
	}

	producer := kafka.NewProducer(kafkaCfg, cfg.Log, kafkamiddleware.PublishLogging(cfg.Log))
	cfg.Log.Info("Kafka producer initialized",
		"brokers", kafkaCfg.Brokers,
		"topic", kafkaCfg.BookingTopic,
	)
	return events.NewKafkaPublisher(producer)
}
