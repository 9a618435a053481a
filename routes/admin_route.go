package routes

import (
	"github.com/gofiber/fiber/v2"

	customerController "github.com/Ayushpcode/Project/controllers/customers"
	ordersController "github.com/Ayushpcode/Project/controllers/orders"
	controllers "github.com/Ayushpcode/Project/controllers/products"
	"github.com/Ayushpcode/Project/middlewares"
)

func AdminRoutes(app *fiber.App, auth fiber.Handler,
	cc *customerController.CustomerController,
	oc *ordersController.OrderController,
	pc *controllers.ProductController,
) {
	admin := app.Group("/api/admin", auth, middlewares.AdminOnly)

	admin.Get("/allCustomer", cc.GetAllCustomers)
	admin.Get("/getCustomer/:id", cc.GetCustomerById)
	admin.Delete("/deleteCustomer/:id", cc.DeleteCustomer)

	admin.Get("/orders", oc.GetAllOrders)
	admin.Put("/orders/:id/status", oc.UpdateOrderStatus)

	admin.Post("/products", pc.AddProduct)
	admin.Put("/products/:id", pc.UpdateProduct)
	admin.Delete("/products/:id", pc.DeleteProduct)
}
