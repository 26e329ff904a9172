package customer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"aircare/models"
)

const placesDetailsURL = "https://maps.googleapis.com/maps/api/place/details/json"

// PlaceResolver turns an autocomplete place id into its address components.
type PlaceResolver interface {
	PlaceDetails(ctx context.Context, placeID string) (models.PlaceResult, error)
}

// PlacesClient calls the Google Place Details API.
type PlacesClient struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

func NewPlacesClient(apiKey string) *PlacesClient {
	return &PlacesClient{
		APIKey:  apiKey,
		BaseURL: placesDetailsURL,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

type placeDetailsResponse struct {
	Result       models.PlaceResult `json:"result"`
	Status       string             `json:"status"`
	ErrorMessage string             `json:"error_message"`
}

func (c *PlacesClient) PlaceDetails(ctx context.Context, placeID string) (models.PlaceResult, error) {
	if c.APIKey == "" {
		return models.PlaceResult{}, ErrPlacesUnavailable
	}
	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", "address_component,formatted_address,place_id")
	q.Set("region", "sg")
	q.Set("key", c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return models.PlaceResult{}, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return models.PlaceResult{}, fmt.Errorf("place details request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.PlaceResult{}, fmt.Errorf("place details returned HTTP %d", resp.StatusCode)
	}
	var body placeDetailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.PlaceResult{}, fmt.Errorf("failed to decode place details: %w", err)
	}
	if body.Status != "OK" {
		return models.PlaceResult{}, fmt.Errorf("place details status %s: %s", body.Status, body.ErrorMessage)
	}
	if body.Result.PlaceID == "" {
		body.Result.PlaceID = placeID
	}
	return body.Result, nil
}
