package main

import (
	"tweeshirt-backend/configs"
	"tweeshirt-backend/metrics"
	"tweeshirt-backend/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

func main() {
	app := fiber.New()

	configs.ConnectDB()

	routes.UserRoute(app)
	routes.OrderRoutes(app)

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	app.Listen(":3000")
}
