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
	"syscall"
	"time"

	"github.com/cinehall/cinehall/internal/domain"
	"github.com/cinehall/cinehall/internal/notifier"
	"github.com/cinehall/cinehall/internal/repository"
	"github.com/cinehall/cinehall/internal/service"
	"github.com/cinehall/cinehall/internal/vcs"
	"github.com/exaring/otelpgx"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/bridges/otelslog"

	appvalidator "github.com/cinehall/cinehall/internal/validator"
)

var (
	version = vcs.Version()
)

type Application struct {
	config    Config
	logger    *slog.Logger
	db        *pgxpool.Pool
	redis     redis.UniversalClient
	validator *validator.Validate
	notifier  domain.Notifier
	seatHolds domain.SeatHoldStore

	tx                domain.TxManager
	showroomRepo      domain.ShowroomRepository
	showroomSeatRepo  domain.ShowroomSeatRepository
	movieRepo         domain.MovieRepository
	screeningRepo     domain.ScreeningRepository
	screeningSeatRepo domain.ScreeningSeatRepository
	ticketRepo        domain.TicketRepository
	customerRepo      domain.CustomerRepository
	cardRepo          domain.PaymentCardRepository
	reviewRepo        domain.ReviewRepository
	reviewVoteRepo    domain.ReviewVoteRepository

	cascade   *service.CascadeCoordinator
	layout    *service.LayoutService
	scheduler *service.SchedulerService
	booking   *service.BookingService
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

type AMQPConfig struct {
	URL string
}

type Config struct {
	Port             int
	Env              string
	OtelCollectorUrl string
	DB               DBConfig
	Redis            RedisConfig
	SMTP             SMTPConfig
	AMQP             AMQPConfig
	SeatHoldTTL      time.Duration
}

// NewApp wires the Postgres repositories and the service layer on top of the
// given connections.
func NewApp(
	cfg Config,
	logger *slog.Logger,
	db *pgxpool.Pool,
	redisClient redis.UniversalClient,
	validator *validator.Validate,
	notif domain.Notifier,
) *Application {
	if cfg.SeatHoldTTL <= 0 {
		cfg.SeatHoldTTL = 5 * time.Minute
	}

	app := &Application{
		config:    cfg,
		logger:    logger,
		db:        db,
		redis:     redisClient,
		validator: validator,
		notifier:  notif,
		seatHolds: repository.NewRedisSeatHoldStore(redisClient, cfg.SeatHoldTTL),

		tx:                repository.NewPgxTxManager(db),
		showroomRepo:      repository.NewPostgresShowroomRepository(db),
		showroomSeatRepo:  repository.NewPostgresShowroomSeatRepository(db),
		movieRepo:         repository.NewPostgresMovieRepository(db),
		screeningRepo:     repository.NewPostgresScreeningRepository(db),
		screeningSeatRepo: repository.NewPostgresScreeningSeatRepository(db),
		ticketRepo:        repository.NewPostgresTicketRepository(db),
		customerRepo:      repository.NewPostgresCustomerRepository(db),
		cardRepo:          repository.NewPostgresPaymentCardRepository(db),
		reviewRepo:        repository.NewPostgresReviewRepository(db),
		reviewVoteRepo:    repository.NewPostgresReviewVoteRepository(db),
	}
	app.initServices()

	return app
}

func Run() error {
	var cfg Config

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")
	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector URL")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", os.Getenv("CINEHALL_DB_DSN"), "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.Redis.URL, "redis-url", os.Getenv("CINEHALL_REDIS_URL"), "Redis URL")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.SMTP.Host, "smtp-host", "sandbox.smtp.mailtrap.io", "SMTP host")
	flag.IntVar(&cfg.SMTP.Port, "smtp-port", 2525, "SMTP port")
	flag.StringVar(&cfg.SMTP.Username, "smtp-username", os.Getenv("CINEHALL_SMTP_USERNAME"), "SMTP username")
	flag.StringVar(&cfg.SMTP.Password, "smtp-password", os.Getenv("CINEHALL_SMTP_PASSWORD"), "SMTP password")
	flag.StringVar(&cfg.SMTP.Sender, "smtp-sender", "CineHall <no-reply@cinehall.example>", "SMTP sender")

	flag.StringVar(&cfg.AMQP.URL, "amqp-url", os.Getenv("CINEHALL_AMQP_URL"), "AMQP broker URL (switches notifications from SMTP to the broker)")

	flag.DurationVar(&cfg.SeatHoldTTL, "seat-hold-ttl", 5*time.Minute, "Checkout seat hold duration")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

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

	var notif domain.Notifier
	if cfg.AMQP.URL != "" {
		amqpNotifier, err := notifier.NewAMQPNotifier(cfg.AMQP.URL)
		if err != nil {
			return err
		}
		defer amqpNotifier.Close()
		notif = amqpNotifier
	} else {
		notif = notifier.NewSMTPNotifier(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender)
	}

	app := NewApp(cfg, logger, db, redisClient, appvalidator.NewValidator(), notif)

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.OtelCollectorUrl != "" {
		app.logger = slog.New(NewMultiHandler(
			logger.Handler(),
			otelslog.NewHandler(serviceName),
		))
		app.initServices()
	}

	return app.run()
}

// initServices builds the service layer on top of whatever repositories the
// Application currently holds. Tests swap repositories first, then call this.
func (app *Application) initServices() {
	app.cascade = service.NewCascadeCoordinator(
		app.logger,
		app.tx,
		app.showroomRepo,
		app.showroomSeatRepo,
		app.movieRepo,
		app.screeningRepo,
		app.screeningSeatRepo,
		app.ticketRepo,
		app.customerRepo,
		app.cardRepo,
		app.reviewRepo,
		app.reviewVoteRepo,
	)
	app.layout = service.NewLayoutService(
		app.logger,
		app.tx,
		app.showroomRepo,
		app.showroomSeatRepo,
		app.screeningRepo,
		app.ticketRepo,
		app.customerRepo,
		app.cascade,
	)
	app.scheduler = service.NewSchedulerService(
		app.logger,
		app.tx,
		app.movieRepo,
		app.showroomRepo,
		app.showroomSeatRepo,
		app.screeningRepo,
		app.screeningSeatRepo,
		app.ticketRepo,
		app.customerRepo,
		app.cascade,
	)
	app.booking = service.NewBookingService(
		app.logger,
		app.tx,
		app.screeningRepo,
		app.screeningSeatRepo,
		app.showroomSeatRepo,
		app.ticketRepo,
		app.customerRepo,
		app.cardRepo,
		app.cascade,
		app.notifier,
	)
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
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

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) run() error {
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

		shutdownError <- srv.Shutdown(ctx)
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownError; err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}
