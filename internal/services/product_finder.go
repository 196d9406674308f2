package services

import (
	"context"
	"log"
	"strings"

	"github.com/mealforge/nutriplan/internal/catalog"
	"github.com/mealforge/nutriplan/internal/models"
)

// defaultConfidenceFloor is the minimum match confidence a source
// candidate must reach to be considered resolved.
const defaultConfidenceFloor = 0.3

// FoodSource is an external food database adapter. Normalize returns the
// source's records in the canonical per-100g shape; a failing or stalled
// source returns an error and is treated as yielding nothing.
type FoodSource interface {
	Name() string
	Normalize(ctx context.Context) ([]models.ExternalFoodRecord, error)
}

// ProductFinder resolves free-text ingredient names against external food
// sources and can persist newly resolved foods into the local catalog.
// Source order is fixed: the first source with a confident match wins.
type ProductFinder struct {
	foods           *catalog.FoodCatalog
	sources         []FoodSource
	confidenceFloor float64
}

// NewProductFinder creates a finder over the given sources, consulted in
// order. A non-positive floor falls back to the default.
func NewProductFinder(foods *catalog.FoodCatalog, sources []FoodSource, confidenceFloor float64) *ProductFinder {
	if confidenceFloor <= 0 {
		confidenceFloor = defaultConfidenceFloor
	}
	return &ProductFinder{
		foods:           foods,
		sources:         sources,
		confidenceFloor: confidenceFloor,
	}
}

// FindMissingProducts returns the ingredients that match no catalog food
// by substring containment or word overlap, in input order, duplicates
// included.
func (f *ProductFinder) FindMissingProducts(ingredientNames []string) []string {
	catalogNames := f.foods.Names()
	lowered := make([]string, len(catalogNames))
	for i, name := range catalogNames {
		lowered[i] = strings.ToLower(name)
	}

	var missing []string
	for _, ingredient := range ingredientNames {
		candidate := strings.ToLower(strings.TrimSpace(ingredient))
		if candidate == "" {
			continue
		}

		found := false
		for _, name := range lowered {
			if strings.Contains(name, candidate) || strings.Contains(candidate, name) || similarNames(candidate, name) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, ingredient)
		}
	}
	return missing
}

// similarNames is a cheap two-stage heuristic: containment after stripping
// spaces and underscores, or a non-empty intersection of whitespace
// tokens. Not edit-distance matching.
func similarNames(a, b string) bool {
	strippedA := stripped(a)
	strippedB := stripped(b)
	if strippedA != "" && strippedB != "" &&
		(strings.Contains(strippedA, strippedB) || strings.Contains(strippedB, strippedA)) {
		return true
	}

	wordsA := strings.Fields(strings.ToLower(a))
	wordsB := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(b)) {
		wordsB[word] = true
	}
	for _, word := range wordsA {
		if wordsB[word] {
			return true
		}
	}
	return false
}

func stripped(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "_", "")
}

// SearchProduct resolves name against the sources in their fixed order,
// returning the first confident match. Source failures are logged and
// treated as empty results; the search only fails once every source is
// exhausted.
func (f *ProductFinder) SearchProduct(ctx context.Context, name string) models.ProductSearchResult {
	for _, source := range f.sources {
		records, err := source.Normalize(ctx)
		if err != nil {
			log.Printf("Warning: source %s failed for %q: %v", source.Name(), name, err)
			continue
		}

		best, confidence := f.bestMatch(records, name)
		if best == nil {
			continue
		}

		return models.ProductSearchResult{
			ProductName: name,
			Found:       true,
			Source:      source.Name(),
			Resolved:    best,
			Confidence:  confidence,
		}
	}

	return models.ProductSearchResult{
		ProductName:  name,
		Found:        false,
		ErrorMessage: "product not found in any source",
	}
}

// bestMatch scores every candidate record and returns the one with the
// highest confidence above the floor. Iteration order is the source's
// stable record order, so ties resolve to the earliest candidate.
func (f *ProductFinder) bestMatch(records []models.ExternalFoodRecord, name string) (*models.ExternalFoodRecord, float64) {
	var best *models.ExternalFoodRecord
	bestConfidence := 0.0

	for i := range records {
		confidence := calculateConfidence(name, records[i].Name)
		if confidence > f.confidenceFloor && confidence > bestConfidence {
			best = &records[i]
			bestConfidence = confidence
		}
	}
	return best, bestConfidence
}

// calculateConfidence scores how well foundName matches searchName:
// exact normalized match 1.0, substring containment either direction 0.8,
// otherwise word overlap |common| / max(|words_a|, |words_b|), else 0.
// Always in [0, 1].
func calculateConfidence(searchName, foundName string) float64 {
	a := stripped(searchName)
	b := stripped(foundName)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.8
	}

	wordsA := strings.Fields(strings.ToLower(searchName))
	wordsB := strings.Fields(strings.ToLower(foundName))
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	setB := make(map[string]bool, len(wordsB))
	for _, word := range wordsB {
		setB[word] = true
	}
	common := 0
	for _, word := range wordsA {
		if setB[word] {
			common++
		}
	}
	if common == 0 {
		return 0
	}

	larger := len(wordsA)
	if len(wordsB) > larger {
		larger = len(wordsB)
	}
	return float64(common) / float64(larger)
}

// AddProductToDatabase converts a resolved search result into a catalog
// record (price defaulted to 0, flags empty) and appends it to the food
// catalog's backing store. Returns false, never an error, on failure.
func (f *ProductFinder) AddProductToDatabase(result models.ProductSearchResult) bool {
	if !result.Found || result.Resolved == nil {
		return false
	}

	record := result.Resolved.ToFoodRecord()
	if err := f.foods.Append(record); err != nil {
		log.Printf("Warning: failed to persist %q to food catalog: %v", record.Name, err)
		return false
	}
	return true
}

// AutoExpandDatabase finds catalog-missing ingredients, resolves each
// against the sources and persists successful resolutions. The batch is
// best effort with per-item isolation: one item's failure never aborts
// the rest.
func (f *ProductFinder) AutoExpandDatabase(ctx context.Context, ingredientNames []string) models.ExpandReport {
	report := models.ExpandReport{}

	for _, missing := range f.FindMissingProducts(ingredientNames) {
		result := f.SearchProduct(ctx, missing)
		outcome := models.ExpandOutcome{
			Product:    missing,
			Source:     result.Source,
			Confidence: result.Confidence,
		}

		switch {
		case !result.Found:
			outcome.Reason = result.ErrorMessage
		case !f.AddProductToDatabase(result):
			outcome.Reason = "failed to persist resolved record"
		default:
			outcome.Added = true
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	return report
}
