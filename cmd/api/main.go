package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/abdulrafay1716/shopflow-automation/internal/client"
	"github.com/abdulrafay1716/shopflow-automation/internal/config"
	"github.com/abdulrafay1716/shopflow-automation/internal/logger"
	"github.com/abdulrafay1716/shopflow-automation/internal/pkg/clock"
	"github.com/abdulrafay1716/shopflow-automation/internal/repository"
	"github.com/abdulrafay1716/shopflow-automation/internal/server"
	"github.com/abdulrafay1716/shopflow-automation/internal/service"
)

const leaseKey = "shopflow:automation:lease"

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log, "shopflow-automation")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	db, err := client.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("database init failed")
	}

	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	orderCodeRepo := repository.NewOrderCodeRepository(db)

	if err := settingsRepo.EnsureDefaults(ctx); err != nil {
		log.Fatal().Err(err).Msg("settings init failed")
	}
	if cfg.Database.Seed {
		if err := productRepo.Seed(ctx); err != nil {
			log.Fatal().Err(err).Msg("product seed failed")
		}
	}

	clk := clock.NewRealClock()
	rng := service.NewRand(cfg.Automation.RandomSeed)

	var lease service.Lease
	rdb, err := client.InitRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("redis init failed")
	}
	if rdb != nil {
		defer rdb.Close()
		lease = service.NewRedisLease(rdb, leaseKey)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis lease")
	} else {
		lease = service.NewMemoryLease(clk)
	}

	// validated by config.Load
	syncLoc, _ := time.LoadLocation(cfg.Sync.Timezone)
	webhookClient := client.NewWebhookClient(cfg.Sync.WebhookURL, cfg.Sync.Timeout)
	sinks := []service.SyncSink{
		service.NewWebhookSink(webhookClient, cfg.Sync.PayloadVersion, syncLoc),
	}
	if writer := client.NewKafkaWriter(cfg.Kafka); writer != nil {
		defer writer.Close()
		sinks = append(sinks, service.NewKafkaSink(writer, cfg.Sync.PayloadVersion, syncLoc))
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publishing orders to kafka")
	}
	notifier := service.NewSyncNotifier(sinks, cfg.Sync.QueueSize, cfg.Sync.Timeout, log)

	maxTotal, _ := decimal.NewFromString(cfg.Automation.MaxOrderTotal)
	generator := service.NewOrderGenerator(
		productRepo,
		orderRepo,
		settingsRepo,
		service.NewSequenceCodeProvider(orderCodeRepo, cfg.Automation.OrderPrefix),
		notifier,
		rng,
		clk,
		service.GeneratorOptions{
			MaxOrderTotal: maxTotal,
			OrderPrefix:   cfg.Automation.OrderPrefix,
		},
		log,
	)

	scheduler := service.NewScheduler(
		generator,
		settingsRepo,
		lease,
		rng,
		clk,
		service.ContextSleep,
		service.SchedulerOptions{
			BatchMin:    cfg.Automation.BatchMin,
			BatchMax:    cfg.Automation.BatchMax,
			DelayMin:    cfg.Automation.DelayMin,
			DelayMax:    cfg.Automation.DelayMax,
			CallTimeout: cfg.Automation.CallTimeout,
			LeaseTTL:    cfg.Automation.LeaseTTL,
		},
		log,
	)

	adminService := service.NewAdminService(productRepo, orderRepo, settingsRepo, notifier, clk, log)
	authService := service.NewAuthService(cfg.Admin.PasswordHash, cfg.Admin.JWTSecret, cfg.Admin.TokenTTL, clk)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		notifier.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		service.RunPeriodically(ctx, scheduler, cfg.Automation.Interval, log)
	}()

	// Init HTTP server
	srv := server.NewServer(cfg.HTTP, cfg.Admin.JWTSecret, scheduler, generator, adminService, authService, log)

	log.Info().Str("addr", cfg.HTTP.Host+":"+cfg.HTTP.Port).Msg("starting HTTP server")
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info().Msg("signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// stops the ticker between calls and flushes the sync queue
	stop()
	wg.Wait()
	log.Info().Msg("shutdown complete")
}
