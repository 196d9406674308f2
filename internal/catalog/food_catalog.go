package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/mealforge/nutriplan/internal/models"
)

var (
	ErrFoodNotFound = errors.New("food not found")
)

// foodHeader is the column layout of the foods CSV. Append writes it only
// when the backing file does not exist yet.
var foodHeader = append(append([]string{"name"}, models.NutrientKeys...), "price_per_unit", "flags")

// FoodCatalog holds per-100g nutrient records keyed by food name and
// persists appends back to its backing CSV file. Lookups are read-only;
// Append is serialized by a single mutex so concurrent enrichment batches
// cannot interleave partial writes.
type FoodCatalog struct {
	path string

	mu      sync.RWMutex
	foods   map[string]models.FoodRecord
	order   []string
	skipped int
}

// LoadFoodCatalog reads the foods CSV at path. A missing file yields an
// empty catalog (fresh installs are seeded later); malformed rows are
// skipped with a logged reason, never aborting the load.
func LoadFoodCatalog(path string) (*FoodCatalog, error) {
	c := &FoodCatalog{
		path:  path,
		foods: make(map[string]models.FoodRecord),
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Foods file %s does not exist yet, starting with empty catalog", path)
			return c, nil
		}
		return nil, fmt.Errorf("failed to open foods file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read foods header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.TrimSpace(col)] = i
	}
	nameCol, ok := colMap["name"]
	if !ok {
		return nil, fmt.Errorf("foods file %s has no name column", path)
	}

	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			log.Printf("Warning: skipping foods row %d: %v", rowNum, err)
			c.skipped++
			continue
		}

		food, perr := parseFoodRow(record, colMap, nameCol)
		if perr != nil {
			log.Printf("Warning: skipping foods row %d: %v", rowNum, perr)
			c.skipped++
			continue
		}
		c.put(food)
	}

	log.Printf("Loaded %d foods from %s (%d rows skipped)", len(c.foods), path, c.skipped)
	return c, nil
}

// parseFoodRow converts one CSV record into a FoodRecord. A row is rejected
// when the name is empty or any present nutrient field is non-numeric;
// absent columns contribute zero.
func parseFoodRow(record []string, colMap map[string]int, nameCol int) (models.FoodRecord, error) {
	if nameCol >= len(record) {
		return models.FoodRecord{}, fmt.Errorf("row too short")
	}
	name := strings.TrimSpace(record[nameCol])
	if name == "" {
		return models.FoodRecord{}, fmt.Errorf("empty name")
	}

	per100g := make(models.NutrientVector, len(models.NutrientKeys))
	for _, key := range models.NutrientKeys {
		col, ok := colMap[key]
		if !ok || col >= len(record) || strings.TrimSpace(record[col]) == "" {
			per100g[key] = 0
			continue
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
		if err != nil {
			return models.FoodRecord{}, fmt.Errorf("bad %s value %q", key, record[col])
		}
		if amount < 0 {
			return models.FoodRecord{}, fmt.Errorf("negative %s value %q", key, record[col])
		}
		per100g[key] = amount
	}

	var price float64
	if col, ok := colMap["price_per_unit"]; ok && col < len(record) && strings.TrimSpace(record[col]) != "" {
		price, _ = strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
		if price < 0 {
			price = 0
		}
	}

	var flags []string
	if col, ok := colMap["flags"]; ok && col < len(record) {
		flags = SplitFlags(record[col])
	}

	return models.FoodRecord{
		Name:         name,
		Per100g:      per100g,
		PricePerUnit: price,
		Flags:        flags,
	}, nil
}

// SplitFlags splits a semicolon- or comma-delimited flags column into a
// trimmed flag list.
func SplitFlags(raw string) []string {
	var flags []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == ','
	}) {
		if flag := strings.TrimSpace(part); flag != "" {
			flags = append(flags, flag)
		}
	}
	return flags
}

// put inserts or overwrites the entry for food.Name. Callers hold mu when
// the catalog is shared.
func (c *FoodCatalog) put(food models.FoodRecord) {
	key := strings.ToLower(food.Name)
	if _, exists := c.foods[key]; !exists {
		c.order = append(c.order, food.Name)
	}
	c.foods[key] = food
}

// Lookup returns the record for name. Matching is case-insensitive.
func (c *FoodCatalog) Lookup(name string) (models.FoodRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	food, ok := c.foods[strings.ToLower(name)]
	if !ok {
		return models.FoodRecord{}, ErrFoodNotFound
	}
	return food, nil
}

// NutrientAmount returns the amount of nutrientKey in grams of food:
// per-100g value scaled linearly. Unknown keys return 0 so partial source
// data never cascades into failures.
func (c *FoodCatalog) NutrientAmount(food models.FoodRecord, nutrientKey string, grams float64) float64 {
	return food.Per100g.Get(nutrientKey) * grams / 100.0
}

// Names returns all food names in load/append order.
func (c *FoodCatalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// All returns every record in load/append order.
func (c *FoodCatalog) All() []models.FoodRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.FoodRecord, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.foods[strings.ToLower(name)])
	}
	return out
}

// Len returns the number of foods in the catalog.
func (c *FoodCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.foods)
}

// SkippedRows reports how many rows were rejected during the initial load.
func (c *FoodCatalog) SkippedRows() int {
	return c.skipped
}

// Append adds or overwrites the entry for food.Name and durably appends it
// to the backing file, writing the header first when the file is new. The
// write is at-least-once: overwrites append a fresh row and the latest row
// wins on the next load.
func (c *FoodCatalog) Append(food models.FoodRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, statErr := os.Stat(c.path)
	writeHeader := os.IsNotExist(statErr)

	file, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open foods file for append: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if writeHeader {
		if err := writer.Write(foodHeader); err != nil {
			return fmt.Errorf("failed to write foods header: %w", err)
		}
	}
	if err := writer.Write(foodRow(food)); err != nil {
		return fmt.Errorf("failed to append food %s: %w", food.Name, err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush foods file: %w", err)
	}

	c.put(food)
	return nil
}

// foodRow renders a record in foodHeader column order.
func foodRow(food models.FoodRecord) []string {
	row := make([]string, 0, len(foodHeader))
	row = append(row, food.Name)
	for _, key := range models.NutrientKeys {
		row = append(row, strconv.FormatFloat(food.Per100g.Get(key), 'f', -1, 64))
	}
	row = append(row, strconv.FormatFloat(food.PricePerUnit, 'f', -1, 64))
	row = append(row, strings.Join(food.Flags, ";"))
	return row
}
