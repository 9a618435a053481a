package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Ayushpcode/Project/configs"
	cartController "github.com/Ayushpcode/Project/controllers/cart"
	customerController "github.com/Ayushpcode/Project/controllers/customers"
	ordersController "github.com/Ayushpcode/Project/controllers/orders"
	paymentController "github.com/Ayushpcode/Project/controllers/payment"
	productsController "github.com/Ayushpcode/Project/controllers/products"
	"github.com/Ayushpcode/Project/logging"
	"github.com/Ayushpcode/Project/middlewares"
	"github.com/Ayushpcode/Project/routes"
	"github.com/Ayushpcode/Project/services/checkout"
	"github.com/Ayushpcode/Project/services/customers"
	"github.com/Ayushpcode/Project/services/payments"
	"github.com/Ayushpcode/Project/stores/mongostore"
)

func main() {
	configs.LoadEnv()

	log := logging.New()
	defer log.Sync()

	client := configs.ConnectDB(configs.EnvMongoURI())

	productsCol := configs.GetCollection(client, "products")
	cartsCol := configs.GetCollection(client, "carts")
	ordersCol := configs.GetCollection(client, "orders")
	usersCol := configs.GetCollection(client, "users")

	productStore := mongostore.NewProductStore(productsCol)
	cartStore := mongostore.NewCartStore(cartsCol)
	orderStore := mongostore.NewOrderStore(ordersCol)
	userStore := mongostore.NewUserStore(usersCol)

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 10*time.Second)
	if err := orderStore.EnsureIndexes(indexCtx); err != nil {
		log.Fatal("failed to create order indexes", zap.Error(err))
	}
	cancelIndex()

	checkoutSvc := checkout.New(productStore, cartStore, orderStore, userStore,
		configs.EnvRazorpayKeySecret(), log)
	customersSvc := customers.New(userStore, orderStore, log)
	gateway := payments.NewRazorpayGateway(configs.EnvRazorpayKeyId(), configs.EnvRazorpayKeySecret())

	orderCtl := ordersController.NewOrderController(checkoutSvc, log)
	paymentCtl := paymentController.NewPaymentController(checkoutSvc, gateway, configs.EnvRazorpayKeyId(), log)
	customerCtl := customerController.NewCustomerController(customersSvc, log)
	productCtl := productsController.NewProductController(productsCol, log)
	cartCtl := cartController.NewCartController(cartsCol, productsCol, log)

	auth := middlewares.NewAuthMiddleware(configs.EnvJWTSecret())

	app := fiber.New()

	routes.ProductsRoutes(app, productCtl)
	routes.CartRoutes(app, auth, cartCtl)
	routes.OrderRoutes(app, auth, orderCtl)
	routes.PaymentRoutes(app, auth, paymentCtl)
	routes.AdminRoutes(app, auth, customerCtl, orderCtl, productCtl)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	if err := app.Listen(":" + configs.EnvPort()); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
