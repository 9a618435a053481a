package routes

import (
	"github.com/gofiber/fiber/v2"

	paymentController "github.com/Ayushpcode/Project/controllers/payment"
)

func PaymentRoutes(app *fiber.App, auth fiber.Handler, pc *paymentController.PaymentController) {
	app.Post("/api/payment/create-order", auth, pc.CreateOrder)
	app.Post("/api/payment/verify-payment", auth, pc.VerifyPayment)
	app.Get("/api/payment/check-discount", auth, pc.CheckDiscount)
}
