package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wichananm65/food-order-backend/internal/auth"
	"github.com/wichananm65/food-order-backend/internal/cache"
	"github.com/wichananm65/food-order-backend/internal/cart"
	"github.com/wichananm65/food-order-backend/internal/category"
	"github.com/wichananm65/food-order-backend/internal/config"
	"github.com/wichananm65/food-order-backend/internal/contact"
	"github.com/wichananm65/food-order-backend/internal/httpx"
	"github.com/wichananm65/food-order-backend/internal/logging"
	"github.com/wichananm65/food-order-backend/internal/offer"
	"github.com/wichananm65/food-order-backend/internal/order"
	"github.com/wichananm65/food-order-backend/internal/product"
	"github.com/wichananm65/food-order-backend/internal/user"
)

func main() {
	cfg := config.Load()

	log, err := logging.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("open store", zap.String("store", cfg.Store), zap.Error(err))
	}
	defer st.Close()

	var products product.Repository = st.products
	if rdb := openRedis(ctx, cfg, log); rdb != nil {
		defer rdb.Close()
		products = cache.NewCachedProductRepository(st.products, rdb, cfg.CacheTTL, log)
	}

	app := fiber.New(fiber.Config{
		AppName:      "food-order-backend",
		ErrorHandler: httpx.ErrorHandler(log, cfg.Production()),
	})
	app.Use(httpx.RequestID(), httpx.Logger(log), recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + httpx.HeaderRequestID,
	}))

	app.Get("/healthz", healthHandler(st.db))

	productService := product.NewService(products)
	categoryService := category.NewService(st.categories)
	cartService := cart.NewService(st.carts, products, log.Named("cart"))
	orderService := order.NewService(st.orders, products, cartService, log.Named("order"),
		order.Config{Reprice: cfg.CheckoutReprice})
	userService := user.NewService(st.users)
	offerService := offer.NewService(st.offers)
	contactService := contact.NewService(st.contacts, log.Named("contact"))

	productHandler := product.NewHandler(productService)
	categoryHandler := category.NewHandler(categoryService)
	cartHandler := cart.NewHandler(cartService)
	orderHandler := order.NewHandler(orderService)
	userHandler := user.NewHandler(userService, auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL), cartService)
	offerHandler := offer.NewHandler(offerService)
	contactHandler := contact.NewHandler(contactService)

	api := app.Group("/api/v1")

	// public routes must be registered before the protected group's middleware
	userHandler.RegisterPublicRoutes(api)
	categoryHandler.RegisterPublicRoutes(api)
	productHandler.RegisterPublicRoutes(api)
	offerHandler.RegisterPublicRoutes(api)
	contactHandler.RegisterPublicRoutes(api)

	current := auth.Current(userService)

	admin := api.Group("/admin", auth.Protected(cfg.JWTSecret), current, auth.RequireAdmin)
	userHandler.RegisterAdminRoutes(admin)
	categoryHandler.RegisterAdminRoutes(admin)
	productHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterAdminRoutes(admin)
	offerHandler.RegisterAdminRoutes(admin)
	contactHandler.RegisterAdminRoutes(admin)

	protected := api.Group("", auth.Protected(cfg.JWTSecret), current)
	userHandler.RegisterProtectedRoutes(protected)
	cartHandler.RegisterProtectedRoutes(protected)
	orderHandler.RegisterProtectedRoutes(protected)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}()

	log.Info("starting server", zap.String("addr", cfg.Addr), zap.String("store", cfg.Store), zap.String("env", cfg.Env))
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
	log.Info("server stopped")
}

// openRedis returns nil when caching is disabled or Redis is unreachable.
func openRedis(ctx context.Context, cfg config.Config, log *zap.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Warn("invalid REDIS_URL, product cache disabled", zap.Error(err))
		return nil
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}
	if cfg.RedisDB != 0 {
		opts.DB = cfg.RedisDB
	}

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable, product cache disabled", zap.Error(err))
		_ = rdb.Close()
		return nil
	}
	log.Info("product cache enabled", zap.Duration("ttl", cfg.CacheTTL))
	return rdb
}

func healthHandler(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			if err := db.PingContext(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(httpx.Envelope{Message: "database unavailable"})
			}
		}
		return httpx.OK(c, fiber.Map{"status": "ok"})
	}
}
