package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/common/auth"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/common/logger"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/common/middleware"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/consumer"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/controllers"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/database"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/kafka"
	awspkg "github.com/puneetkushwaha/Mom-sKitchen-Backend/pkg/aws"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/realtime"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/repository"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/routes"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/sender"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/services"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const serviceName = "kitchen-api"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := LoadConfig(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	// --- AWS setup (non-fatal; every AWS feature is optional) ---
	awsCfg, awsErr := awspkg.LoadAWSConfig(ctx, cfg.AWS)

	var cwWriter *awspkg.CloudWatchLogsClient
	if cfg.CloudWatchEnabled && awsErr == nil {
		cwWriter, err = awspkg.NewCloudWatchLogsClient(ctx, awsCfg, cfg.CloudWatchLogGroup, serviceName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "CloudWatch logs disabled: %v\n", err)
		}
	}

	var log *zap.Logger
	if cwWriter != nil {
		log, err = logger.New(cfg.AppEnv, cwWriter)
	} else {
		log, err = logger.New(cfg.AppEnv, nil)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if awsErr != nil {
		log.Warn("AWS config unavailable, AWS integrations disabled", zap.Error(awsErr))
	}

	if err := controllers.RegisterValidators(); err != nil {
		log.Fatal("Validator registration failed", zap.Error(err))
	}

	// --- Stores ---
	db, err := database.Connect(cfg.DB, log)
	if err != nil {
		log.Fatal("DB connection failed", zap.Error(err))
	}

	var marker repository.NotificationMarker
	if cfg.RedisURL != "" {
		rdb, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("Redis unavailable, notification dedup disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			marker = repository.NewRedisNotificationMarker(rdb, cfg.NotifyDedupTTL)
		}
	}

	orderRepo := repository.NewGormOrderRepository(db)
	userRepo := repository.NewGormUserRepository(db)
	menuRepo := repository.NewGormMenuRepository(db)
	couponRepo := repository.NewGormCouponRepository(db)
	settingsRepo := repository.NewGormSettingsRepository(db)
	paymentRepo := repository.NewGormPaymentRepository(db)
	dispatchRepo := repository.NewGormDispatchRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// --- Outbound integrations ---
	var metricsClient *awspkg.MetricsClient
	var metrics services.MetricsRecorder
	if awsErr == nil {
		metricsClient = awspkg.NewMetricsClient(awsCfg, cfg.CloudWatchNamespace, cfg.CloudWatchEnabled)
		metrics = metricsClient
	}

	publisher, eventsTopic, closePublisher := newEventPublisher(cfg, awsCfg, awsErr, log)
	defer closePublisher()

	senders := sender.NewSenders(cfg.SMTP, cfg.Twilio, log)

	var gateway services.PaymentGateway
	if cfg.StripeSecretKey != "" {
		gateway = services.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	} else {
		log.Warn("STRIPE_SECRET_KEY not set, online payments disabled")
	}

	hub := realtime.NewHub(log)
	defer hub.Close()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	// --- Dependency injection ---
	policy := services.DefaultTransitionPolicy()
	if cfg.StrictTransitions {
		policy.Admin = services.ForwardOnlyAdminTransitions()
	}

	settingsService := services.NewSettingsService(settingsRepo, log)
	couponService := services.NewCouponService(couponRepo, log)
	notificationService := services.NewNotificationService(notificationRepo, marker, senders, services.NotificationOptions{
		Timeout:     cfg.NotifyTimeout,
		KitchenName: cfg.KitchenName,
		FrontendURL: cfg.FrontendURL,
	}, log)

	orderService := services.NewOrderService(services.OrderServiceDeps{
		Orders:      orderRepo,
		Users:       userRepo,
		Settings:    settingsService,
		Prices:      services.NewPriceResolver(menuRepo, log),
		Coupons:     couponService,
		Customers:   services.NewCustomerTracker(userRepo),
		Notifier:    notificationService,
		Broadcaster: realtime.NewBroadcaster(hub, log),
		Policy:      policy,
		Events:      publisher,
		EventsTopic: eventsTopic,
		Metrics:     metrics,
		AdminPhone:  cfg.AdminPhone,
		Logger:      log,
	})
	paymentService := services.NewPaymentService(paymentRepo, orderService, gateway, log)

	handlers := routes.Controllers{
		Auth:         controllers.NewAuthController(services.NewAuthService(userRepo, senders.SMS, tokens, cfg.ExposeDebugOTP(), log)),
		User:         controllers.NewUserController(services.NewUserService(userRepo, log)),
		Menu:         controllers.NewMenuController(services.NewMenuService(menuRepo, log)),
		Order:        controllers.NewOrderController(orderService),
		Coupon:       controllers.NewCouponController(couponService),
		Settings:     controllers.NewSettingsController(settingsService),
		Payment:      controllers.NewPaymentController(paymentService),
		Dispatch:     controllers.NewDispatchController(services.NewDispatchService(dispatchRepo, orderService, log)),
		Notification: controllers.NewNotificationController(notificationService, log),
		Realtime:     controllers.NewRealtimeController(hub, orderService, log),
	}

	// --- HTTP router ---
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	limiter := middleware.NewRateLimiter(rate.Every(time.Minute/time.Duration(cfg.RateLimitPerMinute)), cfg.RateLimitBurst, 5*time.Minute)
	defer limiter.Stop()

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Metrics(metricsClient, serviceName),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.RateLimit(limiter),
		middleware.Timeout(30*time.Second),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": serviceName})
	})
	routes.RegisterRoutes(r, handlers, tokens)

	// --- Run ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Kitchen API started", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	startPaymentConsumer(gctx, g, cfg, awsCfg, awsErr, paymentService, log)

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Initiating graceful shutdown...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown error", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Kitchen API stopped with error", zap.Error(err))
	}

	if err := database.Close(db); err != nil {
		log.Error("Database close error", zap.Error(err))
	}
	log.Info("Kitchen API stopped gracefully")
}

// newEventPublisher picks Kafka when brokers are configured, then SNS. The
// returned topic is empty when events are disabled.
func newEventPublisher(cfg *Config, awsCfg sdkaws.Config, awsErr error, log *zap.Logger) (services.EventPublisher, string, func()) {
	switch {
	case len(cfg.KafkaBrokers) > 0:
		producer := kafka.NewProducer(cfg.KafkaBrokers, log)
		return producer, cfg.KafkaOrderTopic, func() {
			if err := producer.Close(); err != nil {
				log.Warn("Kafka producer close failed", zap.Error(err))
			}
		}
	case cfg.OrderSNSTopicARN != "" && awsErr == nil:
		return awspkg.NewSNSClient(awsCfg, log), cfg.OrderSNSTopicARN, func() {}
	default:
		log.Info("No order event publisher configured")
		return nil, "", func() {}
	}
}

// startPaymentConsumer runs the payment event consumer in g, preferring SQS.
func startPaymentConsumer(ctx context.Context, g *errgroup.Group, cfg *Config, awsCfg sdkaws.Config, awsErr error, payments services.PaymentService, log *zap.Logger) {
	queueURL := cfg.PaymentQueueURL
	if queueURL == "" && cfg.PaymentQueueName != "" && awsErr == nil {
		url, err := awspkg.GetQueueURL(ctx, awsCfg, cfg.PaymentQueueName)
		if err != nil {
			log.Warn("Payment queue lookup failed", zap.String("queue", cfg.PaymentQueueName), zap.Error(err))
		}
		queueURL = url
	}

	switch {
	case queueURL != "" && awsErr == nil:
		c := consumer.NewSQSPaymentConsumer(awspkg.NewSQSConsumer(awsCfg, queueURL, log), payments, log)
		g.Go(func() error { return ignoreCanceled(c.Start(ctx)) })
	case len(cfg.KafkaBrokers) > 0 && cfg.KafkaPaymentTopic != "":
		c := consumer.NewKafkaPaymentConsumer(cfg.KafkaBrokers, cfg.KafkaPaymentTopic, cfg.KafkaGroupID, payments, log)
		g.Go(func() error {
			defer c.Close()
			return ignoreCanceled(c.Start(ctx))
		})
	default:
		log.Info("No payment event consumer configured")
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
