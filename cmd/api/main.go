package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/obadakatsha-ayatgroup/domecare-app/internal/config"
	appointmenthandler "github.com/obadakatsha-ayatgroup/domecare-app/internal/handler/appointment"
	authhandler "github.com/obadakatsha-ayatgroup/domecare-app/internal/handler/auth"
	doctorhandler "github.com/obadakatsha-ayatgroup/domecare-app/internal/handler/doctor"
	healthhandler "github.com/obadakatsha-ayatgroup/domecare-app/internal/handler/health"
	patienthandler "github.com/obadakatsha-ayatgroup/domecare-app/internal/handler/patient"
	prescriptionhandler "github.com/obadakatsha-ayatgroup/domecare-app/internal/handler/prescription"
	"github.com/obadakatsha-ayatgroup/domecare-app/internal/middleware"
	"github.com/obadakatsha-ayatgroup/domecare-app/internal/model"
	"github.com/obadakatsha-ayatgroup/domecare-app/internal/repository/postgres"
	"github.com/obadakatsha-ayatgroup/domecare-app/internal/router"
	appointmentservice "github.com/obadakatsha-ayatgroup/domecare-app/internal/service/appointment"
	authservice "github.com/obadakatsha-ayatgroup/domecare-app/internal/service/auth"
	doctorservice "github.com/obadakatsha-ayatgroup/domecare-app/internal/service/doctor"
	notificationservice "github.com/obadakatsha-ayatgroup/domecare-app/internal/service/notification"
	patientservice "github.com/obadakatsha-ayatgroup/domecare-app/internal/service/patient"
	prescriptionservice "github.com/obadakatsha-ayatgroup/domecare-app/internal/service/prescription"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/auth"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/logger"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/messaging"
	redisbroker "github.com/obadakatsha-ayatgroup/domecare-app/pkg/messaging/redis"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/metrics"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	l := logger.NewLogger(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Pretty:     cfg.Logging.Pretty,
		Output:     os.Stdout,
	})

	if err := model.RegisterValidations(); err != nil {
		l.Fatal(err, "failed to register validators")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		l.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	prescriptionRepo := postgres.NewPrescriptionRepository(db)
	medicineRepo := postgres.NewMedicineRepository(db)
	tokenRepo := postgres.NewTokenRepository(db)

	// Message broker; lifecycle events degrade gracefully without it.
	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redisbroker.NewBroker(redisbroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, l.Zerolog())
		if err != nil {
			l.Fatal(err, "failed to connect to Redis")
		}
		defer broker.Close()
	} else {
		l.Warn("redis not configured, appointment events disabled")
	}

	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Expiry:        time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
		RefreshExpiry: time.Duration(cfg.JWT.RefreshExpiryHours) * time.Hour,
	})
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	m := metrics.NewMetrics("domecare", "api")

	// Services
	notificationSvc := notificationservice.NewService(cfg.Email, l)
	authSvc := authservice.NewService(userRepo, tokenRepo, jwtSvc, hasher, notificationSvc, cfg.JWT, l)
	doctorSvc := doctorservice.NewService(doctorRepo, l)
	patientSvc := patientservice.NewService(patientRepo, userRepo)
	appointmentSvc := appointmentservice.NewService(appointmentRepo, doctorRepo, userRepo, broker, m, l)
	prescriptionSvc := prescriptionservice.NewService(prescriptionRepo, appointmentRepo, userRepo, medicineRepo, l)

	// Handlers
	authHandler := authhandler.NewHandler(authSvc)
	doctorHandler := doctorhandler.NewHandler(doctorSvc)
	patientHandler := patienthandler.NewHandler(patientSvc)
	appointmentHandler := appointmenthandler.NewHandler(appointmentSvc)
	prescriptionHandler := prescriptionhandler.NewHandler(prescriptionSvc)
	healthHandler := healthhandler.NewHandler(db)

	r := router.NewRouter(
		jwtSvc,
		l,
		authHandler,
		doctorHandler,
		appointmentHandler,
		patientHandler,
		prescriptionHandler,
		healthHandler,
		router.Config{
			RateLimit:  rate.Limit(50),
			RateBurst:  100,
			Timeout:    cfg.Server.ServerTimeout(),
			CORSConfig: middleware.DefaultCORSConfig(),
		},
	)
	r.Setup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if broker != nil {
		notificationSvc.Listen(ctx, broker)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		l.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal(err, "failed to start server")
		}
	}()

	<-ctx.Done()
	l.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Fatal(err, "server forced to shutdown")
	}

	l.Info("server exited properly")
}
