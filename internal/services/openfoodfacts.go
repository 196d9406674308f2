package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/mealforge/nutriplan/internal/models"
)

const (
	offSourceName = "OFF"
	offPageSize   = 100
)

// OFFSource adapts the Open Food Facts search API to the normalized
// external-record contract. Like the USDA adapter it caches its record
// list after the first successful fetch.
type OFFSource struct {
	baseURL    string
	httpClient *http.Client

	mu     sync.Mutex
	cached []models.ExternalFoodRecord
}

// NewOFFSource creates an Open Food Facts adapter.
func NewOFFSource(baseURL string, timeout time.Duration) *OFFSource {
	return &OFFSource{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name identifies the source in search results.
func (s *OFFSource) Name() string {
	return offSourceName
}

// offProduct is the minimal subset of an Open Food Facts record.
type offProduct struct {
	ProductName string         `json:"product_name"`
	GenericName string         `json:"generic_name"`
	Nutriments  map[string]any `json:"nutriments"`
}

func (p *offProduct) name() string {
	if p.ProductName != "" {
		return p.ProductName
	}
	return p.GenericName
}

// offNutrimentKeys maps OFF nutriment fields to our fixed nutrient keys
// with the factor converting OFF's unit (grams for minerals and vitamins)
// into the key's unit.
var offNutrimentKeys = []struct {
	offKey string
	key    string
	factor float64
}{
	{"proteins_100g", "protein_g", 1},
	{"fat_100g", "fat_g", 1},
	{"carbohydrates_100g", "carbs_g", 1},
	{"fiber_100g", "fiber_g", 1},
	{"iron_100g", "Fe_mg", 1000},
	{"calcium_100g", "Ca_mg", 1000},
	{"vitamin-d_100g", "VitD_IU", 40e6}, // g -> µg -> IU (40 IU per µg)
	{"vitamin-b12_100g", "B12_ug", 1e6},
	{"folates_100g", "Folate_ug", 1e6},
	{"iodine_100g", "Iodine_ug", 1e6},
	{"potassium_100g", "K_mg", 1000},
	{"magnesium_100g", "Mg_mg", 1000},
}

// Normalize returns the source's records in the canonical per-100g shape.
func (s *OFFSource) Normalize(ctx context.Context) ([]models.ExternalFoodRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return s.cached, nil
	}

	reqURL, err := url.Parse(s.baseURL + "/api/v2/search")
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFF URL: %w", err)
	}
	params := reqURL.Query()
	params.Add("fields", "product_name,generic_name,nutriments")
	params.Add("page_size", fmt.Sprintf("%d", offPageSize))
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create OFF request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: OFF returned status %d", ErrSourceUnavailable, resp.StatusCode)
	}

	var payload struct {
		Products []offProduct `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode OFF response: %w", err)
	}

	records := make([]models.ExternalFoodRecord, 0, len(payload.Products))
	for i := range payload.Products {
		product := &payload.Products[i]
		name := product.name()
		if name == "" {
			continue
		}
		record := models.ExternalFoodRecord{Name: name}
		for _, mapping := range offNutrimentKeys {
			if v, ok := extractFloat(product.Nutriments, mapping.offKey); ok && v >= 0 {
				setNutrient(&record, mapping.key, v*mapping.factor)
			}
		}
		records = append(records, record)
	}

	s.cached = records
	return records, nil
}

// extractFloat coerces a nutriments map value to float64.
func extractFloat(m map[string]any, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		var f float64
		if _, err := fmt.Sscanf(x, "%f", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}
