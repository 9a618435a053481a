package routes

import (
	"github.com/gofiber/fiber/v2"

	controllers "github.com/Ayushpcode/Project/controllers/products"
)

// Browsing is public; catalog writes are registered under the admin group.
func ProductsRoutes(app *fiber.App, pc *controllers.ProductController) {
	app.Get("/api/products", pc.GetAllProducts)
	app.Get("/api/products/check/:id", pc.CheckProductExists)
	app.Get("/api/products/:id", pc.GetProductById)
}
