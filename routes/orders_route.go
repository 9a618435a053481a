package routes

import (
	"github.com/gofiber/fiber/v2"

	ordersController "github.com/Ayushpcode/Project/controllers/orders"
)

func OrderRoutes(app *fiber.App, auth fiber.Handler, oc *ordersController.OrderController) {
	app.Post("/api/orders/shippingAddress", auth, oc.SaveShippingAddress)
	app.Post("/api/orders/cod", auth, oc.PlaceCODOrder)
	app.Get("/api/orders/my-orders", auth, oc.GetMyOrders)
}
