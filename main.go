package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashrajoria/storefront-backend/config"
	"github.com/yashrajoria/storefront-backend/controllers"
	"github.com/yashrajoria/storefront-backend/database"
	"github.com/yashrajoria/storefront-backend/middleware"
	"github.com/yashrajoria/storefront-backend/pkg/apperrors"
	"github.com/yashrajoria/storefront-backend/pkg/aws"
	"github.com/yashrajoria/storefront-backend/pkg/logger"
	"github.com/yashrajoria/storefront-backend/repository"
	"github.com/yashrajoria/storefront-backend/routes"
	"github.com/yashrajoria/storefront-backend/services"
)

const cartTTL = 7 * 24 * time.Hour

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[Storefront] Failed to load config: ", err)
	}

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	ctx := context.Background()

	mongoClient, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Log.Fatal("Failed to connect to Mongo", zap.Error(err))
	}
	defer mongoClient.Disconnect(ctx)

	db := mongoClient.Database(cfg.MongoDB)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		logger.Log.Fatal("Failed to ensure indexes", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// SNS is optional in local dev: events are skipped when unconfigured.
	var snsPublisher aws.SNSPublisher
	if awsCfg, err := aws.LoadAWSConfig(ctx); err != nil {
		logger.Log.Warn("AWS config unavailable, events disabled", zap.Error(err))
	} else {
		snsPublisher = aws.NewSNSClient(awsCfg)
	}

	if cfg.RazorpayKeySecret == "" || cfg.RazorpayWebhookSecret == "" {
		logger.Log.Warn("Gateway secrets not fully configured; payment endpoints will fail closed")
	}

	// Repositories
	productRepo := repository.NewMongoProductRepository(db)
	couponRepo := repository.NewMongoCouponRepository(db)
	orderRepo := repository.NewMongoOrderRepository(db)
	ledgerRepo := repository.NewMongoLedgerRepository(db)
	cartRepo := repository.NewCartRepository(redisClient, cartTTL)

	// Services
	pricing := services.NewPricingService(productRepo, logger.Log)
	coupons := services.NewCouponService(couponRepo, logger.Log)
	verifier := services.NewOrderVerifier(pricing, coupons, logger.Log)
	signatures := services.NewSignatureVerifier(cfg.RazorpayKeySecret, cfg.RazorpayWebhookSecret)
	router := services.NewWebhookRouter(orderRepo, snsPublisher, cfg.OrderEventsTopicARN, logger.Log)
	shipping := services.NewShippingClient(cfg.ShippingBaseURL, cfg.ShippingEmail, cfg.ShippingPassword, logger.Log)

	var gateway services.GatewayClient
	if cfg.RazorpayKeyID != "" && cfg.RazorpayKeySecret != "" {
		gateway = services.NewRazorpayClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, logger.Log)
	}

	// Controllers
	cartCtrl := controllers.NewCartController(cartRepo, logger.Log)
	checkoutCtrl := &controllers.CheckoutController{
		Verifier: verifier,
		Orders:   orderRepo,
		Carts:    cartRepo,
		Coupons:  couponRepo,
		Gateway:  gateway,
		KeyID:    cfg.RazorpayKeyID,
		Logger:   logger.Log,
	}
	orderCtrl := &controllers.OrderController{
		Orders:   orderRepo,
		Shipping: shipping,
		Logger:   logger.Log,
	}
	paymentCtrl := &controllers.PaymentController{
		Signatures: signatures,
		Ledger:     ledgerRepo,
		Orders:     orderRepo,
		SNS:        snsPublisher,
		TopicArn:   cfg.OrderEventsTopicARN,
		Logger:     logger.Log,
	}
	webhookCtrl := &controllers.WebhookController{
		Signatures: signatures,
		Ledger:     ledgerRepo,
		Router:     router,
		Logger:     logger.Log,
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(apperrors.ErrorMiddleware())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.OriginCheck(cfg.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware())

	routes.Register(r, cfg.JWTSecret, cartCtrl, checkoutCtrl, orderCtrl, paymentCtrl, webhookCtrl)

	logger.Log.Info("Storefront backend running", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Log.Fatal("Server failed", zap.Error(err))
	}
}
