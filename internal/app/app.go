package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/enoturismo/recorridos/internal/authapi"
	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/enoturismo/recorridos/internal/events"
	"github.com/enoturismo/recorridos/internal/itinerary"
	"github.com/enoturismo/recorridos/internal/mailer"
	"github.com/enoturismo/recorridos/internal/payment"
	"github.com/enoturismo/recorridos/internal/repository"
	"github.com/enoturismo/recorridos/internal/scheduler"
	"github.com/enoturismo/recorridos/internal/storage"
	appvalidator "github.com/enoturismo/recorridos/internal/validator"
	"github.com/enoturismo/recorridos/internal/vcs"
	"github.com/exaring/otelpgx"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v82"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

var (
	version = vcs.Version()
)

// AuthClient resolves auth API tokens into users.
type AuthClient interface {
	Me(ctx context.Context, token string) authapi.Result[domain.User]
}

type Application struct {
	config         Config
	logger         *slog.Logger
	db             *pgxpool.Pool
	redis          redis.UniversalClient
	validator      *validator.Validate
	mailer         mailer.Mailer
	sessionManager *scs.SessionManager
	bus            *events.Bus
	authClient     AuthClient
	aggregator     itinerary.Aggregator
	wg             sync.WaitGroup

	recorridoRepo  domain.RecorridoRepository
	reservaRepo    domain.ReservaRepository
	eventoRepo     domain.EventoRepository
	bodegaRepo     domain.BodegaRepository
	faqRepo        domain.FaqRepository
	valoracionRepo domain.ValoracionRepository
	paymentRepo    domain.PaymentRepository

	paymentProvider domain.PaymentProvider
}

type Config struct {
	Port             int
	Env              string
	DB               DBConfig
	Redis            RedisConfig
	SMTP             SMTPConfig
	Stripe           StripeConfig
	Scheduler        SchedulerConfig
	AuthAPIURL       string
	OtelCollectorUrl string
	Locale           string
	Timezone         string
	PreviewMaxItems  int
	SessionCacheTTL  time.Duration
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	SuccessUrl    string
	FailureUrl    string
	Currency      string
}

type SchedulerConfig struct {
	FinalizeSpec string
	ExpireSpec   string
	PaymentTTL   time.Duration
}

func parseConfig() (Config, bool) {
	var cfg Config

	// a missing .env file is fine outside development
	_ = godotenv.Load()

	flag.IntVar(&cfg.Port, "port", envInt("PORT", 3000), "server port")
	flag.StringVar(&cfg.Env, "env", env("ENV", "dev"), "Environment (dev|staging|prod)")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", env("DB_DSN", ""), "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", envInt("DB_MAX_OPEN_CONNS", 25), "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.Redis.URL, "redis-url", env("REDIS_URL", ""), "Redis URL")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.SMTP.Host, "smtp-host", env("SMTP_HOST", "sandbox.smtp.mailtrap.io"), "SMTP host")
	flag.IntVar(&cfg.SMTP.Port, "smtp-port", envInt("SMTP_PORT", 2525), "SMTP port")
	flag.StringVar(&cfg.SMTP.Username, "smtp-username", env("SMTP_USERNAME", ""), "SMTP username")
	flag.StringVar(&cfg.SMTP.Password, "smtp-password", env("SMTP_PASSWORD", ""), "SMTP password")
	flag.StringVar(&cfg.SMTP.Sender, "smtp-sender", env("SMTP_SENDER", "Recorridos <no-reply@recorridos.example.com>"), "SMTP sender")

	flag.StringVar(&cfg.Stripe.SecretKey, "stripe-key", env("STRIPE_KEY", ""), "Stripe secret key")
	flag.StringVar(&cfg.Stripe.WebhookSecret, "stripe-webhook-secret", env("STRIPE_WEBHOOK_SECRET", ""), "Stripe webhook secret")
	flag.StringVar(&cfg.Stripe.SuccessUrl, "stripe-success-url", env("STRIPE_SUCCESS_URL", "https://example.com/success.html"), "Stripe payment success page")
	flag.StringVar(&cfg.Stripe.FailureUrl, "stripe-failure-url", env("STRIPE_FAILURE_URL", "https://example.com/failure.html"), "Stripe payment failure page")
	flag.StringVar(&cfg.Stripe.Currency, "stripe-currency", env("STRIPE_CURRENCY", "ARS"), "Currency of checkout sessions")

	flag.StringVar(&cfg.Scheduler.FinalizeSpec, "finalize-cron", env("FINALIZE_CRON", "*/15 * * * *"), "Schedule for finishing past event instances")
	flag.StringVar(&cfg.Scheduler.ExpireSpec, "expire-payments-cron", env("EXPIRE_PAYMENTS_CRON", "*/5 * * * *"), "Schedule for expiring unpaid checkouts")
	flag.DurationVar(&cfg.Scheduler.PaymentTTL, "payment-ttl", time.Hour, "How long a pending payment may wait for its webhook")

	flag.StringVar(&cfg.AuthAPIURL, "auth-api-url", env("AUTH_API_URL", "http://localhost:8080"), "Base URL of the auth API")
	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", env("OTEL_COLLECTOR_URL", ""), "OpenTelemetry collector gRPC endpoint")
	flag.StringVar(&cfg.Locale, "locale", env("LOCALE", "es"), "Locale of itinerary labels (es|en)")
	flag.StringVar(&cfg.Timezone, "timezone", env("TIMEZONE", "America/Argentina/Mendoza"), "Timezone deciding the calendar day of a reservation")
	flag.IntVar(&cfg.PreviewMaxItems, "preview-max-items", envInt("PREVIEW_MAX_ITEMS", 2), "Reservations shown per recorrido in list previews")
	flag.DurationVar(&cfg.SessionCacheTTL, "session-cache-ttl", 10*time.Minute, "How long resolved auth API users are cached")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	return cfg, *displayVersion
}

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return v
}

func Run() error {
	cfg, displayVersion := parseConfig()

	if displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	stripe.Key = cfg.Stripe.SecretKey

	logger := slog.New(NewMultiHandler(
		slog.NewTextHandler(os.Stdout, nil),
		otelslog.NewHandler(serviceName),
	))

	db, err := NewDatabasePool(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := NewRedisClient(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	bus := events.NewBus(events.DefaultBufferSize, logger)
	defer bus.Close()

	sessions := storage.NewSessionStore(storage.NewRedisStore(redisClient, "recorridos:"), cfg.SessionCacheTTL)
	authClient := authapi.NewClient(cfg.AuthAPIURL, bus, sessions, logger)

	eventoRepo := repository.NewPostgresEventoRepository(db)
	paymentRepo := repository.NewPostgresPaymentRepository(db)

	app, err := NewApp(
		cfg,
		logger,
		db,
		redisClient,
		appvalidator.NewValidator(),
		mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender),
		NewSessionManager(redisClient),
		bus,
		authClient,
		repository.NewPostgresRecorridoRepository(db),
		repository.NewPostgresReservaRepository(db),
		eventoRepo,
		repository.NewPostgresBodegaRepository(db),
		repository.NewPostgresFaqRepository(db),
		repository.NewPostgresValoracionRepository(db),
		paymentRepo,
		payment.NewStripePaymentProvider(cfg.Stripe.FailureUrl, cfg.Stripe.SuccessUrl, cfg.Stripe.Currency),
	)
	if err != nil {
		return err
	}

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	jobs, err := scheduler.New(eventoRepo, paymentRepo, scheduler.Config{
		FinalizeSpec: cfg.Scheduler.FinalizeSpec,
		ExpireSpec:   cfg.Scheduler.ExpireSpec,
		PaymentTTL:   cfg.Scheduler.PaymentTTL,
		Location:     app.aggregator.Location,
	}, logger)
	if err != nil {
		return err
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var background sync.WaitGroup

	background.Add(2)
	go func() {
		defer background.Done()
		authClient.Watch(ctx)
	}()
	go func() {
		defer background.Done()
		jobs.Start(ctx)
	}()

	err = app.serve()

	stop()
	background.Wait()

	return err
}

func NewApp(
	cfg Config,
	logger *slog.Logger,
	db *pgxpool.Pool,
	redisClient redis.UniversalClient,
	validator *validator.Validate,
	mailer mailer.Mailer,
	sessionManager *scs.SessionManager,
	bus *events.Bus,
	authClient AuthClient,
	recorridoRepo domain.RecorridoRepository,
	reservaRepo domain.ReservaRepository,
	eventoRepo domain.EventoRepository,
	bodegaRepo domain.BodegaRepository,
	faqRepo domain.FaqRepository,
	valoracionRepo domain.ValoracionRepository,
	paymentRepo domain.PaymentRepository,
	paymentProvider domain.PaymentProvider,
) (*Application, error) {
	aggregator, err := newAggregator(cfg)
	if err != nil {
		return nil, err
	}

	return &Application{
		config:          cfg,
		logger:          logger,
		db:              db,
		redis:           redisClient,
		validator:       validator,
		mailer:          mailer,
		sessionManager:  sessionManager,
		bus:             bus,
		authClient:      authClient,
		aggregator:      aggregator,
		recorridoRepo:   recorridoRepo,
		reservaRepo:     reservaRepo,
		eventoRepo:      eventoRepo,
		bodegaRepo:      bodegaRepo,
		faqRepo:         faqRepo,
		valoracionRepo:  valoracionRepo,
		paymentRepo:     paymentRepo,
		paymentProvider: paymentProvider,
	}, nil
}

func newAggregator(cfg Config) (itinerary.Aggregator, error) {
	locale := itinerary.Spanish
	if cfg.Locale != "" {
		l, err := itinerary.LookupLocale(cfg.Locale)
		if err != nil {
			return itinerary.Aggregator{}, err
		}
		locale = l
	}

	var loc *time.Location
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return itinerary.Aggregator{}, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
		}
		loc = l
	}

	return itinerary.New(locale, loc), nil
}

func NewSessionManager(client *redis.Client) *scs.SessionManager {
	sessionManager := scs.New()

	sessionManager.Store = goredisstore.New(client)
	sessionManager.IdleTimeout = 20 * time.Minute
	sessionManager.Cookie.Name = "session_id"

	return sessionManager
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	err := errors.Join(redisotel.InstrumentTracing(rdb), redisotel.InstrumentMetrics(rdb))
	if err != nil {
		rdb.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = rdb.Ping(ctx).Err()
	if err != nil {
		rdb.Close()
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) serve() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// open event streams end when the bus closes
		app.bus.Close()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
			return
		}

		app.logger.Info("completing background tasks", "addr", srv.Addr)

		app.wg.Wait()
		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}
