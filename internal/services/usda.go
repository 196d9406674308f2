package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/mealforge/nutriplan/internal/models"
)

const (
	usdaSourceName   = "USDA"
	usdaListPageSize = 200
)

var (
	ErrSourceUnavailable = errors.New("food source unavailable")
	ErrMissingAPIKey     = errors.New("missing api key")
)

// USDASource adapts the USDA FoodData Central API to the normalized
// external-record contract. Results are cached in memory after the first
// fetch; the periodic refresh of external databases is handled outside
// this service.
type USDASource struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	mu     sync.Mutex
	cached []models.ExternalFoodRecord
}

// NewUSDASource creates a USDA adapter. timeout bounds every exchange so a
// stalled call degrades into a failed source instead of hanging a search.
func NewUSDASource(apiKey, baseURL string, timeout time.Duration) *USDASource {
	return &USDASource{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name identifies the source in search results.
func (s *USDASource) Name() string {
	return usdaSourceName
}

// usdaFood is the subset of a FoodData Central list entry we consume.
type usdaFood struct {
	Description   string `json:"description"`
	FoodNutrients []struct {
		Number   string  `json:"number"`
		UnitName string  `json:"unitName"`
		Amount   float64 `json:"amount"`
	} `json:"foodNutrients"`
}

// usdaNutrientNumbers maps FoodData Central nutrient numbers to our fixed
// nutrient keys. Units already match the key suffixes for these numbers.
var usdaNutrientNumbers = map[string]string{
	"203": "protein_g",
	"204": "fat_g",
	"205": "carbs_g",
	"291": "fiber_g",
	"303": "Fe_mg",
	"301": "Ca_mg",
	"324": "VitD_IU",
	"418": "B12_ug",
	"417": "Folate_ug",
	"314": "Iodine_ug",
	"306": "K_mg",
	"304": "Mg_mg",
}

// Normalize returns the source's food records in the canonical per-100g
// shape, fetching once and serving the cached list afterwards.
func (s *USDASource) Normalize(ctx context.Context) ([]models.ExternalFoodRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return s.cached, nil
	}
	if s.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	reqURL, err := url.Parse(s.baseURL + "/foods/list")
	if err != nil {
		return nil, fmt.Errorf("failed to parse USDA URL: %w", err)
	}
	params := reqURL.Query()
	params.Add("api_key", s.apiKey)
	params.Add("pageSize", fmt.Sprintf("%d", usdaListPageSize))
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create USDA request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: USDA returned status %d", ErrSourceUnavailable, resp.StatusCode)
	}

	var foods []usdaFood
	if err := json.NewDecoder(resp.Body).Decode(&foods); err != nil {
		return nil, fmt.Errorf("failed to decode USDA response: %w", err)
	}

	records := make([]models.ExternalFoodRecord, 0, len(foods))
	for _, food := range foods {
		if food.Description == "" {
			continue
		}
		record := models.ExternalFoodRecord{Name: food.Description}
		for _, nutrient := range food.FoodNutrients {
			key, ok := usdaNutrientNumbers[nutrient.Number]
			if !ok || nutrient.Amount < 0 {
				continue
			}
			setNutrient(&record, key, nutrient.Amount)
		}
		records = append(records, record)
	}

	s.cached = records
	return records, nil
}

// setNutrient writes amount into the record field matching key.
func setNutrient(record *models.ExternalFoodRecord, key string, amount float64) {
	switch key {
	case "protein_g":
		record.ProteinG = amount
	case "fat_g":
		record.FatG = amount
	case "carbs_g":
		record.CarbsG = amount
	case "fiber_g":
		record.FiberG = amount
	case "Fe_mg":
		record.FeMg = amount
	case "Ca_mg":
		record.CaMg = amount
	case "VitD_IU":
		record.VitDIU = amount
	case "B12_ug":
		record.B12Ug = amount
	case "Folate_ug":
		record.FolateUg = amount
	case "Iodine_ug":
		record.IodineUg = amount
	case "K_mg":
		record.KMg = amount
	case "Mg_mg":
		record.MgMg = amount
	}
}
