package main

import (
	"context"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/spirolink/SpiroLink-website-sub000/cache"
	"github.com/spirolink/SpiroLink-website-sub000/config"
	"github.com/spirolink/SpiroLink-website-sub000/controller"
	kafkax "github.com/spirolink/SpiroLink-website-sub000/kafka"
	"github.com/spirolink/SpiroLink-website-sub000/middleware"
	"github.com/spirolink/SpiroLink-website-sub000/model"
	"github.com/spirolink/SpiroLink-website-sub000/routes"
	"github.com/spirolink/SpiroLink-website-sub000/service"
	"github.com/spirolink/SpiroLink-website-sub000/store"
)

func initDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect db:", err)
	}

	if err := db.AutoMigrate(&model.Payment{}, &model.User{}); err != nil {
		log.Fatal(err)
	}
	return db
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db := initDB(cfg)
	rdb := cache.NewRedis(cfg.RedisAddr)
	producer := kafkax.NewProducer(cfg.KafkaBroker)

	smtpPort, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		log.Fatal("invalid SMTP_PORT:", err)
	}
	mailer := service.NewSMTPMailer(cfg.SMTPHost, smtpPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	paymentController := &controller.PaymentController{
		Store:         store.NewGormPaymentStore(db),
		Checkout:      service.NewStripeCheckout(cfg.StripeSecretKey, cfg.FrontendURL),
		Events:        producer,
		Cache:         cache.NewStatusCache(rdb),
		WebhookSecret: cfg.StripeWebhookSecret,
	}
	authController := &controller.AuthController{
		Users:     store.NewGormUserStore(db),
		JWTSecret: cfg.JWTSecret,
	}
	chatController := &controller.ChatController{
		Chat: service.NewChatService(cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMModel),
	}

	app := fiber.New()
	app.Use(logger.New())

	routes.RegisterPaymentRoutes(app, paymentController)
	routes.RegisterAuthRoutes(app, authController, middleware.AuthRequired(cfg.JWTSecret))
	routes.RegisterChatRoutes(app, chatController)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	consumer := kafkax.NewConsumer(cfg.KafkaBroker)
	consumer.Consume(ctx, kafkax.TopicPaymentSucceeded, kafkax.PaymentSucceededHandler(mailer))

	log.Println("HTTP server running on port " + cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("fiber error:", err)
	}
}
