package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contact-sms-relay/config"
	v1 "contact-sms-relay/internal/delivery/http/v1"
	"contact-sms-relay/internal/domain"
	"contact-sms-relay/internal/usecase"
	"contact-sms-relay/pkg/logger"
	"contact-sms-relay/pkg/metrics"
	"contact-sms-relay/pkg/ratelimit"
	redisclient "contact-sms-relay/pkg/redis"
	"contact-sms-relay/pkg/security"
	"contact-sms-relay/pkg/sms"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
)

const serviceName = "contact-sms-relay"

// @title           Contact SMS Relay API
// @version         1.0
// @description     Relays contact form submissions to a phone number as SMS.
// @host            localhost:5000
// @BasePath        /
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 2. Setup Loggers
	logCloser := logger.Init(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer logCloser.Close()
	secLog := security.NewProductionLogger(serviceName)
	defer func() { _ = secLog.Sync() }()

	logger.Log.Info("Starting SMS relay", "port", cfg.Port)
	for _, key := range cfg.MissingProviderSettings() {
		logger.Log.Warn("SMS provider setting missing - /send-sms will be unavailable", "key", key)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Setup Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// 4. Setup Rate Limiter
	limitCfg := ratelimit.Config{
		Limit:     cfg.RateLimitMax,
		Window:    cfg.RateLimitWindow,
		KeyPrefix: ratelimit.DefaultConfig().KeyPrefix,
	}
	memoryLimiter := ratelimit.NewMemoryLimiter(limitCfg)
	memoryLimiter.StartJanitor(ctx, 5*time.Minute)

	var limiter ratelimit.Limiter = memoryLimiter
	limiterMode := "memory"
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redisclient.Connect(ctx, redisclient.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			logger.Log.Warn("Redis unavailable, rate limiting is per-process", "error", err)
		} else {
			defer redisClient.Close()
			limiter = ratelimit.NewFallbackLimiter(ratelimit.NewRedisLimiter(redisClient, limitCfg), memoryLimiter, logger.Log)
			limiterMode = "redis"
		}
	}

	// 5. Setup SMS Provider
	var sender domain.SMSSender
	if cfg.ProviderConfigured() {
		twilioSender := sms.NewTwilioSender(sms.TwilioConfig{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			Timeout:    cfg.SMSTimeout,
		})
		sender = sms.WithThrottle(twilioSender, cfg.SMSRatePerSecond, cfg.SMSBurst, cfg.SMSTimeout)
	}

	// 6. Setup UseCases
	contactUC := usecase.NewContactUsecase(sender, validator.New(), usecase.ContactConfig{
		From:       cfg.TwilioPhoneNumber,
		To:         cfg.TargetPhone,
		Header:     cfg.SMSMessageHeader,
		Configured: cfg.ProviderConfigured(),
	}, m)
	healthUC := usecase.NewHealthUsecase(map[string]usecase.ReadinessProbe{
		"rate_limiter": func(ctx context.Context) string {
			if redisClient == nil {
				return limiterMode
			}
			if err := redisClient.Ping(ctx).Err(); err != nil {
				return "redis_unreachable"
			}
			return limiterMode
		},
		"sms_provider": func(context.Context) string {
			if contactUC.Ready() {
				return "configured"
			}
			return "not_configured"
		},
	})

	// 7. Setup Router
	router, err := v1.NewRouter(v1.RouterDeps{
		ContactUC:      contactUC,
		HealthUC:       healthUC,
		Limiter:        limiter,
		Security:       secLog,
		Metrics:        m,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Logger:         logger.Log,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		TrustedProxies: cfg.TrustedProxies,
	})
	if err != nil {
		logger.Log.Error("Failed to build router", "error", err)
		os.Exit(1)
	}

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Server running", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
