package routes

import (
	"github.com/gofiber/fiber/v2"

	cartController "github.com/Ayushpcode/Project/controllers/cart"
)

func CartRoutes(app *fiber.App, auth fiber.Handler, cc *cartController.CartController) {
	app.Post("/api/cart/add", auth, cc.AddToCart)
	app.Get("/api/cart", auth, cc.GetCart)
	app.Post("/api/cart/remove", auth, cc.RemoveFromCart)
	app.Post("/api/cart/update-quantity", auth, cc.UpdateQuantity)
}
