package integration_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/enoturismo/recorridos/internal/app"
	"github.com/enoturismo/recorridos/internal/authapi"
	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/enoturismo/recorridos/internal/events"
	"github.com/enoturismo/recorridos/internal/mailer"
	"github.com/enoturismo/recorridos/internal/payment"
	"github.com/enoturismo/recorridos/internal/repository"
	"github.com/enoturismo/recorridos/internal/storage"
	appvalidator "github.com/enoturismo/recorridos/internal/validator"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type TestApp struct {
	App             *app.Application
	DB              *pgxpool.Pool
	RedisClient     *redis.Client
	Mailer          *mailer.MockMailer
	Bus             *events.Bus
	PaymentProvider *payment.MockPaymentProvider
	AuthAPI         *httptest.Server
}

func (a *TestApp) Close() {
	a.AuthAPI.Close()
	a.Bus.Close()
	a.RedisClient.Close()
	a.DB.Close()
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	validator := appvalidator.NewValidator()
	mailer := mailer.NewMockMailer()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	sessionManager := app.NewSessionManager(redisClient)
	bus := events.NewBus(events.DefaultBufferSize, logger)

	authAPI := newFakeAuthAPI()
	sessions := storage.NewSessionStore(storage.NewMemoryStore(), cfg.SessionCacheTTL)
	authClient := authapi.NewClient(authAPI.URL, bus, sessions, logger)

	paymentProvider := payment.NewMockPaymentProvider()

	application, err := app.NewApp(
		cfg,
		logger,
		db,
		redisClient,
		validator,
		mailer,
		sessionManager,
		bus,
		authClient,
		repository.NewPostgresRecorridoRepository(db),
		repository.NewPostgresReservaRepository(db),
		repository.NewPostgresEventoRepository(db),
		repository.NewPostgresBodegaRepository(db),
		repository.NewPostgresFaqRepository(db),
		repository.NewPostgresValoracionRepository(db),
		repository.NewPostgresPaymentRepository(db),
		paymentProvider,
	)
	if err != nil {
		authAPI.Close()
		redisClient.Close()
		db.Close()
		return nil, err
	}

	return &TestApp{
		App:             application,
		DB:              db,
		RedisClient:     redisClient,
		Mailer:          mailer,
		Bus:             bus,
		PaymentProvider: paymentProvider,
		AuthAPI:         authAPI,
	}, nil
}

// newFakeAuthAPI serves /auth/me for the two known test tokens and rejects
// everything else the way the real auth API does.
func newFakeAuthAPI() *httptest.Server {
	users := map[string]domain.User{
		TestUserToken: {
			ID:        TestUserId,
			FirstName: TestUserFirstName,
			LastName:  TestUserLastName,
			Email:     TestUserEmail,
			Roles:     []domain.Role{{ID: 1, Name: "turista"}},
		},
		OtherUserToken: {
			ID:        OtherUserId,
			FirstName: "Bruno",
			LastName:  "Díaz",
			Email:     "bruno@example.com",
			Roles:     []domain.Role{{ID: 1, Name: "turista"}},
		},
	}

	r := chi.NewRouter()
	r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		w.Header().Set("Content-Type", "application/json")

		user, ok := users[token]
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(authapi.APIError{
				Key:        authapi.KeyUnauthorized,
				Message:    "No autorizado",
				MessageEng: "Unauthorized",
				Status:     http.StatusUnauthorized,
			})
			return
		}

		_ = json.NewEncoder(w).Encode(user)
	})

	return httptest.NewServer(r)
}
