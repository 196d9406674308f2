package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/mealforge/nutriplan/internal/catalog"
	"github.com/mealforge/nutriplan/internal/config"
	"github.com/mealforge/nutriplan/internal/database"
	"github.com/mealforge/nutriplan/internal/handlers"
	"github.com/mealforge/nutriplan/internal/planner"
	"github.com/mealforge/nutriplan/internal/services"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Load catalogs from their backing CSV files
	foods, err := catalog.LoadFoodCatalog(cfg.FoodsFile)
	if err != nil {
		log.Fatalf("Failed to load food catalog: %v", err)
	}
	recipes, err := catalog.LoadRecipeCatalog(cfg.RecipesFile)
	if err != nil {
		log.Fatalf("Failed to load recipe catalog: %v", err)
	}

	// Plan history store is optional: without DATABASE_URL the service
	// runs planning-only and history endpoints report unavailable.
	var store *database.DB
	if cfg.DatabaseURL != "" {
		store, err = database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Printf("Warning: plan history disabled, could not connect: %v", err)
		} else {
			defer store.Close()
			if err := database.RunMigrations(store); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
		}
	} else {
		log.Println("DATABASE_URL not set, plan history disabled")
	}

	// Planning core
	plates := planner.NewPlateBuilder(foods, recipes, nil)
	weeks := planner.NewWeekPlanner(plates, foods)

	// External food sources, consulted in fixed order
	sources := []services.FoodSource{
		services.NewUSDASource(cfg.USDAAPIKey, cfg.USDABaseURL, cfg.SourceTimeout),
		services.NewOFFSource(cfg.OFFBaseURL, cfg.SourceTimeout),
	}
	finder := services.NewProductFinder(foods, sources, cfg.ConfidenceFloor)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	// Create handler with dependencies
	h := handlers.New(cfg, foods, recipes, plates, weeks, finder, store)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// API routes
	api := app.Group("/api")

	// Plan routes
	plans := api.Group("/plans")
	plans.Post("/daily", h.CreateDailyPlan)
	plans.Post("/weekly", h.CreateWeeklyPlan)
	plans.Get("/", h.ListPlans)
	plans.Get("/:id", h.GetPlan)

	// Food catalog routes
	foodsGroup := api.Group("/foods")
	foodsGroup.Get("/", h.ListFoods)
	foodsGroup.Get("/search", h.SearchFoods)
	foodsGroup.Get("/:name", h.GetFood)

	// Recipe catalog routes
	recipesGroup := api.Group("/recipes")
	recipesGroup.Get("/", h.ListRecipes)
	recipesGroup.Get("/:name", h.GetRecipe)

	// Product resolution routes
	products := api.Group("/products")
	products.Post("/search", h.SearchProduct)
	products.Post("/missing", h.MissingProducts)
	products.Post("/expand", h.ExpandCatalog)

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
