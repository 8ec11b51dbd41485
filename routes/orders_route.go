package routes

import (
	orderController "tweeshirt-backend/controllers/orders"
	"tweeshirt-backend/middlewares"

	"github.com/gofiber/fiber/v2"
)

func OrderRoutes(app *fiber.App) {
	app.Post("/api/order/start", middlewares.AuthMiddleware, orderController.StartDraft)
	app.Get("/api/order/draft", middlewares.AuthMiddleware, orderController.GetDraft)
	app.Post("/api/order/confirm-design", middlewares.AuthMiddleware, orderController.ConfirmDesign)
	app.Post("/api/order/confirm-position", middlewares.AuthMiddleware, orderController.ConfirmPosition)
	app.Post("/api/order/confirm-garment", middlewares.AuthMiddleware, orderController.ConfirmGarment)
	app.Post("/api/order/confirm-shipping", middlewares.AuthMiddleware, orderController.ConfirmShipping)
	app.Post("/api/order/back", middlewares.AuthMiddleware, orderController.GoBack)
	app.Post("/api/order/confirm-payment", middlewares.AuthMiddleware, orderController.ConfirmPayment)
	app.Post("/api/create-payment", middlewares.AuthMiddleware, orderController.CreatePayment)
	app.Post("/api/verify-payment", middlewares.AuthMiddleware, orderController.VerifyPayment)
	app.Post("/api/submit-order", middlewares.AuthMiddleware, orderController.SubmitOrder)
	app.Get("/api/get-orders", middlewares.AuthMiddleware, orderController.GetOrders)
	app.Get("/api/get-order", middlewares.AuthMiddleware, orderController.GetOrderById)
}
