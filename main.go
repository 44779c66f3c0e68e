package main

import (
	"context"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/mentorhive/mentor-scheduler/controllers"
	"github.com/mentorhive/mentor-scheduler/cron"
	"github.com/mentorhive/mentor-scheduler/db"
	"github.com/mentorhive/mentor-scheduler/middleware"
	"github.com/mentorhive/mentor-scheduler/notify"
	"github.com/mentorhive/mentor-scheduler/redis"
	"github.com/mentorhive/mentor-scheduler/routes"
	"github.com/mentorhive/mentor-scheduler/scheduler"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to build logger: ", err)
	}
	defer logger.Sync()

	db.Init()
	db.Migrate()
	redis.InitRedis(logger)

	engine := scheduler.NewEngine(
		scheduler.WithStore(db.NewGormStore(db.DB)),
		scheduler.WithNotifier(notify.New(db.DB, logger)),
		scheduler.WithLogger(logger),
	)
	if err := engine.Load(context.Background()); err != nil {
		logger.Fatal("failed to load scheduling state", zap.Error(err))
	}
	controllers.SetEngine(engine)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(middleware.RequestLogger(logger))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Hello, World!")
	})
	routes.SetupAvailabilityRoutes(app)
	routes.SetupSlotRoutes(app)
	routes.SetupServiceTypeRoutes(app)
	routes.SetupBookingRoutes(app)

	cron.StartCronJobs(engine, logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	if err := app.Listen(":" + port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
