package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mealforge/nutriplan/internal/catalog"
	"github.com/mealforge/nutriplan/internal/config"
	"github.com/mealforge/nutriplan/internal/services"
)

func main() {
	// Command line flags
	listFile := flag.String("file", "", "Ingredient list file, one name per line")
	dryRun := flag.Bool("dry-run", false, "Preview missing ingredients without querying sources")
	flag.Parse()

	if *listFile == "" {
		log.Fatal("Usage: seeder -file <ingredient-list> [-dry-run]")
	}

	// Load .env
	godotenv.Load()

	// Load config
	cfg := config.Load()

	// Load the food catalog the seeder will enrich
	foods, err := catalog.LoadFoodCatalog(cfg.FoodsFile)
	if err != nil {
		log.Fatalf("Failed to load food catalog: %v", err)
	}

	ingredients, err := readIngredientList(*listFile)
	if err != nil {
		log.Fatalf("Failed to read ingredient list: %v", err)
	}
	log.Printf("Read %d ingredient names from %s", len(ingredients), *listFile)

	sources := []services.FoodSource{
		services.NewUSDASource(cfg.USDAAPIKey, cfg.USDABaseURL, cfg.SourceTimeout),
		services.NewOFFSource(cfg.OFFBaseURL, cfg.SourceTimeout),
	}
	finder := services.NewProductFinder(foods, sources, cfg.ConfidenceFloor)

	missing := finder.FindMissingProducts(ingredients)
	log.Printf("Found %d ingredients missing from the catalog", len(missing))

	if *dryRun {
		log.Println("DRY RUN - No changes will be made")
		printPreview(missing, 20)
		return
	}

	report := finder.AutoExpandDatabase(context.Background(), missing)

	added, failed := 0, 0
	for _, outcome := range report.Outcomes {
		if outcome.Added {
			added++
			log.Printf("Added %q from %s (confidence %.2f)", outcome.Product, outcome.Source, outcome.Confidence)
		} else {
			failed++
			log.Printf("Could not resolve %q: %s", outcome.Product, outcome.Reason)
		}
	}

	log.Printf("Seeding complete: %d added, %d unresolved, catalog now has %d foods", added, failed, foods.Len())
}

// readIngredientList reads one ingredient name per line, skipping blanks
// and # comments.
func readIngredientList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var ingredients []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ingredients = append(ingredients, line)
	}
	return ingredients, scanner.Err()
}

// printPreview shows a sample of the missing ingredients.
func printPreview(missing []string, limit int) {
	fmt.Println("\n=== Missing ingredients ===")
	fmt.Printf("Total: %d\n\n", len(missing))
	for i, name := range missing {
		if i >= limit {
			fmt.Printf("  ... and %d more\n", len(missing)-limit)
			break
		}
		fmt.Printf("  %s\n", name)
	}
}
