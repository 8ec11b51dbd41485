package routes

import (
	userController "tweeshirt-backend/controllers/user"

	"github.com/gofiber/fiber/v2"
)

func UserRoute(app *fiber.App) {
	app.Post("/api/signup", userController.UserSignUp)
	app.Post("/api/signin", userController.UserSignIn)
	app.Post("/api/signout", userController.UserSignOut)
}
