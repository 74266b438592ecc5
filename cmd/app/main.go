package main

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/shopease/shopease-backend/internal/address"
	"github.com/shopease/shopease-backend/internal/cart"
	"github.com/shopease/shopease-backend/internal/config"
	"github.com/shopease/shopease-backend/internal/notification"
	"github.com/shopease/shopease-backend/internal/order"
	"github.com/shopease/shopease-backend/internal/product"
	"github.com/shopease/shopease-backend/internal/user"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is not set")
		os.Exit(1)
	}

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()
	bootstrapSchema(db)

	app := fiber.New()
	setupCORS(app)

	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService, cfg.JWTSecret)

	productRepo := product.NewPostgresRepository(db)
	productService := product.NewService(productRepo)
	productHandler := product.NewHandler(productService)

	addressRepo := address.NewPostgresRepository(db)
	addressService := address.NewService(addressRepo)
	addressHandler := address.NewHandler(addressService)

	cartRepo := cart.NewPostgresRepository(db)
	cartService := cart.NewService(cartRepo, productService)
	cartHandler := cart.NewHandler(cartService)

	notifier := notification.New(cfg, logger)
	orderService := order.NewService(order.NewPostgresRepository(db), productService, cartRepo, addressService, userService, notifier, logger)
	orderHandler := order.NewHandler(orderService)

	// public routes go first; everything registered after the jwt
	// middleware requires a valid token
	userHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	userHandler.RegisterProtectedRoutes(app)
	addressHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)

	admin := app.Group("/api/v1/admin", user.RequireAdmin)
	productHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterAdminRoutes(admin)

	logger.Info("listening", "addr", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func mustOpenDB(dbURL string) *sql.DB {
	if dbURL == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	return db
}

func bootstrapSchema(db *sql.DB) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id SERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			first_name TEXT,
			last_name TEXT,
			phone TEXT,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS product (
			product_id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			category TEXT,
			price DOUBLE PRECISION NOT NULL DEFAULT 0,
			stock_quantity INT NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			thumbnail TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS address (
			address_id SERIAL PRIMARY KEY,
			user_id INT NOT NULL,
			full_name TEXT,
			phone TEXT,
			address_line1 TEXT,
			address_line2 TEXT,
			landmark TEXT,
			city TEXT,
			state TEXT,
			pincode TEXT,
			country TEXT,
			is_default BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS carts (
			user_id INT PRIMARY KEY,
			items JSONB NOT NULL DEFAULT '{}',
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id SERIAL PRIMARY KEY,
			order_number TEXT NOT NULL UNIQUE,
			user_id INT NOT NULL,
			items JSONB NOT NULL DEFAULT '[]',
			shipping_address JSONB NOT NULL DEFAULT '{}',
			status TEXT NOT NULL,
			payment_method TEXT NOT NULL,
			payment_status TEXT NOT NULL,
			transaction_id TEXT,
			subtotal DOUBLE PRECISION NOT NULL DEFAULT 0,
			shipping_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			discount DOUBLE PRECISION NOT NULL DEFAULT 0,
			total DOUBLE PRECISION NOT NULL DEFAULT 0,
			notes TEXT,
			estimated_delivery TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS orders_user_id_idx ON orders (user_id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			panic(err)
		}
	}
}
