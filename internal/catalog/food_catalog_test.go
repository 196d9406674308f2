package catalog

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mealforge/nutriplan/internal/models"
)

const foodsCSVHeader = "name,protein_g,fat_g,carbs_g,fiber_g,Fe_mg,Ca_mg,VitD_IU,B12_ug,Folate_ug,Iodine_ug,K_mg,Mg_mg,price_per_unit,flags"

func writeFoodsFile(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "foods.csv")
	content := foodsCSVHeader + "\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write foods fixture: %v", err)
	}
	return path
}

func TestLoadFoodCatalogAndNutrientAmount(t *testing.T) {
	path := writeFoodsFile(t,
		"oats,13,7,68,10,4.7,54,0,0,56,0,429,177,0.5,VEG;GF",
	)

	c, err := LoadFoodCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 food, got %d", c.Len())
	}

	oats, err := c.Lookup("oats")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}

	got := c.NutrientAmount(oats, "protein_g", 50)
	if math.Abs(got-6.5) > 1e-9 {
		t.Fatalf("expected 6.5g protein in 50g oats, got %v", got)
	}
}

func TestNutrientAmountUnknownKeyIsZero(t *testing.T) {
	path := writeFoodsFile(t, "oats,13,7,68,10,4.7,54,0,0,56,0,429,177,0.5,")

	c, err := LoadFoodCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	oats, err := c.Lookup("oats")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}

	if got := c.NutrientAmount(oats, "unobtainium_mg", 100); got != 0 {
		t.Fatalf("unknown nutrient key should yield 0, got %v", got)
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	path := writeFoodsFile(t, "Greek Yogurt,10,0.4,3.6,0,0,110,0,0.5,7,0,141,11,1.2,VEG")

	c, err := LoadFoodCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Lookup("greek yogurt"); err != nil {
		t.Fatalf("expected case-insensitive match, got %v", err)
	}
}

func TestLookupMissingFood(t *testing.T) {
	path := writeFoodsFile(t, "oats,13,7,68,10,4.7,54,0,0,56,0,429,177,0.5,")

	c, err := LoadFoodCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Lookup("banana"); err != ErrFoodNotFound {
		t.Fatalf("expected ErrFoodNotFound, got %v", err)
	}
}

func TestLoadSkipsMalformedRows(t *testing.T) {
	path := writeFoodsFile(t,
		"oats,13,7,68,10,4.7,54,0,0,56,0,429,177,0.5,",
		"broken,not-a-number,7,68,10,4.7,54,0,0,56,0,429,177,0.5,",
		",1,1,1,1,1,1,1,1,1,1,1,1,1,",
		"banana,1.1,0.3,23,2.6,0.3,5,0,0,20,0,358,27,0.3,VEG",
	)

	c, err := LoadFoodCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 foods after skipping bad rows, got %d", c.Len())
	}
	if c.SkippedRows() != 2 {
		t.Fatalf("expected 2 skipped rows, got %d", c.SkippedRows())
	}
}

func TestLoadContinuesPastUnparseableRow(t *testing.T) {
	path := writeFoodsFile(t,
		"oats,13,7,68,10,4.7,54,0,0,56,0,429,177,0.5,",
		`br"oken,1,1,1,1,1,1,1,1,1,1,1,1,1,`,
		"banana,1.1,0.3,23,2.6,0.3,5,0,0,20,0,358,27,0.3,VEG",
	)

	c, err := LoadFoodCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 foods around the unparseable row, got %d", c.Len())
	}
	if c.SkippedRows() != 1 {
		t.Fatalf("expected 1 skipped row, got %d", c.SkippedRows())
	}
	if _, err := c.Lookup("banana"); err != nil {
		t.Fatalf("row after the unparseable one must still load: %v", err)
	}
}

func TestLoadMissingFileYieldsEmptyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foods.csv")

	c, err := LoadFoodCatalog(path)
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty catalog, got %d foods", c.Len())
	}
}

func TestAppendWritesHeaderOnceAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foods.csv")

	c, err := LoadFoodCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record := models.FoodRecord{
		Name:         "spinach",
		Per100g:      models.NutrientVector{"protein_g": 2.9, "Fe_mg": 2.7, "Folate_ug": 194},
		PricePerUnit: 0.8,
		Flags:        []string{"VEG", "GF"},
	}
	if err := c.Append(record); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := c.Append(models.FoodRecord{Name: "lentils", Per100g: models.NutrientVector{"Fe_mg": 6.5}}); err != nil {
		t.Fatalf("second append failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read backing file: %v", err)
	}
	if got := strings.Count(string(data), "name,protein_g"); got != 1 {
		t.Fatalf("expected exactly one header row, found %d", got)
	}

	reloaded, err := LoadFoodCatalog(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Len() != 2 {
		t.Fatalf("expected 2 foods after reload, got %d", reloaded.Len())
	}

	spinach, err := reloaded.Lookup("spinach")
	if err != nil {
		t.Fatalf("lookup after reload failed: %v", err)
	}
	if spinach.Per100g.Get("Fe_mg") != 2.7 {
		t.Fatalf("expected 2.7mg iron per 100g, got %v", spinach.Per100g.Get("Fe_mg"))
	}
	if !spinach.HasFlag("veg") {
		t.Fatalf("expected VEG flag to survive the roundtrip")
	}
}

func TestAppendOverwriteLastRowWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foods.csv")

	c, err := LoadFoodCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := c.Append(models.FoodRecord{Name: "tofu", Per100g: models.NutrientVector{"Ca_mg": 100}}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := c.Append(models.FoodRecord{Name: "tofu", Per100g: models.NutrientVector{"Ca_mg": 350}}); err != nil {
		t.Fatalf("overwrite append failed: %v", err)
	}

	if c.Len() != 1 {
		t.Fatalf("overwrite should not grow the catalog, got %d entries", c.Len())
	}

	reloaded, err := LoadFoodCatalog(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	tofu, err := reloaded.Lookup("tofu")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if tofu.Per100g.Get("Ca_mg") != 350 {
		t.Fatalf("expected latest row to win on reload, got %v", tofu.Per100g.Get("Ca_mg"))
	}
}
