package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/horizonmart/auction-BE/api"
	"github.com/horizonmart/auction-BE/internal/cache"
	db "github.com/horizonmart/auction-BE/internal/db/sqlc"
	"github.com/horizonmart/auction-BE/internal/event"
	"github.com/horizonmart/auction-BE/internal/ledger"
	"github.com/horizonmart/auction-BE/internal/lifecycle"
	"github.com/horizonmart/auction-BE/internal/mailer"
	"github.com/horizonmart/auction-BE/internal/notification"
	"github.com/horizonmart/auction-BE/internal/queue"
	"github.com/horizonmart/auction-BE/internal/realtime"
	"github.com/horizonmart/auction-BE/internal/timer"
	"github.com/horizonmart/auction-BE/internal/util"
	"github.com/horizonmart/auction-BE/internal/worker"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/horizonmart/auction-BE/docs"
)

//	@title			HorizonMart Auction API
//	@version		1.0.0
//	@description	API documentation for the HorizonMart live auction service

//	@host		localhost:8080
//	@BasePath	/v1
//	@schemes	http https
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configurations
	config, err := util.LoadConfig("./app.env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config file")
	}
	log.Info().Msg("configurations loaded successfully ✅")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create connection pool
	connPool, err := pgxpool.New(ctx, config.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to validate db connection string")
	}
	if err = connPool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to db")
	}
	log.Info().Msg("connected to db ✅")

	store := db.NewStore(connPool)

	redisDb := redis.NewClient(&redis.Options{
		Addr:     config.RedisServerAddress,
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	redisOpt := asynq.RedisClientOpt{Addr: config.RedisServerAddress}
	taskDistributor := worker.NewTaskDistributor(redisOpt)

	var mailService mailer.EmailSender
	if config.GmailSMTPUsername != "" && config.GmailSMTPPassword != "" {
		gmailSender, err := mailer.NewGmailSender(config.GmailSMTPUsername, config.GmailSMTPPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create mailer service")
		}
		mailService = gmailSender
		log.Info().Msg("mailer service created successfully ✅")
	} else {
		log.Warn().Msg("SMTP credentials not configured, auction emails disabled")
	}

	taskProcessor := worker.NewRedisTaskProcessor(redisOpt, store, mailService)
	go func() {
		if err := taskProcessor.Start(); err != nil {
			log.Fatal().Err(err).Msg("failed to start task processor")
		}
	}()
	defer taskProcessor.Shutdown()

	var publisher *queue.Publisher
	if config.RabbitMQURL != "" {
		publisher, err = queue.NewPublisher(config.RabbitMQURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to rabbitmq")
		}
		defer publisher.Close()
		log.Info().Msg("lifecycle queue publisher created successfully ✅")
	} else {
		log.Warn().Msg("RABBITMQ_URL not configured, lifecycle queue disabled")
	}

	eventSender := event.NewSSEServer()
	go eventSender.Run()

	clock := clockwork.NewRealClock()
	registry := timer.NewRegistry(clock)
	defer registry.Shutdown()

	bidLedger := ledger.New(store, clock)

	engine := lifecycle.NewEngine(store, bidLedger, registry, eventSender, clock, lifecycle.Config{
		InactivityTimeout: config.InactivityTimeout,
		FinalCountdown:    config.FinalCountdown,
		CountdownTick:     time.Second,
	})
	notifier := notification.NewNotifier(taskDistributor, publisher)
	engine.SetNotifier(notifier)
	auctionCache := cache.NewAuctionCache(redisDb, config.AuctionCacheTTL)
	engine.SetCacheInvalidator(auctionCache)

	if err = engine.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start lifecycle engine")
	}
	log.Info().Msg("lifecycle engine started ✅")

	sweeper, err := lifecycle.NewSweeper(engine, config.SweepInterval)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create sweeper")
	}
	if err = sweeper.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start sweeper")
	}
	defer sweeper.Stop()
	log.Info().Msg("inactivity sweeper started ✅")

	hub := realtime.NewHub(eventSender, realtime.DefaultConfig())

	server := api.NewServer(store, &config, eventSender, bidLedger, engine, hub, auctionCache, notifier)

	go func() {
		log.Info().Str("address", config.HTTPServerAddress).Msg("starting HTTP server")
		if err := server.Start(config.HTTPServerAddress); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shut down HTTP server")
	}
}
