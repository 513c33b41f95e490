// Package ati is the ATI.su marketplace client: listing create/update/
// withdraw, reference dictionaries, and the city/contact lookups the
// listing transformer needs.
package ati

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SKR-SG/ASP/pkg/errorutil"
	"github.com/SKR-SG/ASP/pkg/logger"
)

// Unresolvable-reference sentinels. The affected order is skipped for the
// run and retried on the next one.
var (
	ErrCityNotFound    = errors.New("city not found")
	ErrContactNotFound = errors.New("contact not found")
)

// Client talks to the ATI.su API.
type Client struct {
	baseURL string
	token   string
	boardID string
	httpc   *http.Client
	logger  logger.Logger
}

// NewClient creates an ATI client.
func NewClient(baseURL, token, boardID string, log logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		boardID: boardID,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		logger:  log,
	}
}

// BoardID returns the configured publication board.
func (c *Client) BoardID() string {
	return c.boardID
}

// Dictionaries fetches the car-type and loading/unloading-method reference
// tables. Labels are lower-cased for containment matching.
func (c *Client) Dictionaries(ctx context.Context) (*Dictionaries, error) {
	carTypes, err := c.fetchDictionary(ctx, "/v1.0/dictionaries/carTypes", "TypeId")
	if err != nil {
		return nil, fmt.Errorf("carTypes: %w", err)
	}
	loadingTypes, err := c.fetchDictionary(ctx, "/v1.0/dictionaries/loadingTypes", "Id")
	if err != nil {
		return nil, fmt.Errorf("loadingTypes: %w", err)
	}
	unloadingTypes, err := c.fetchDictionary(ctx, "/v1.0/dictionaries/unloadingTypes", "Id")
	if err != nil {
		return nil, fmt.Errorf("unloadingTypes: %w", err)
	}

	return &Dictionaries{
		CarTypes:       carTypes,
		LoadingTypes:   loadingTypes,
		UnloadingTypes: unloadingTypes,
	}, nil
}

func (c *Client) fetchDictionary(ctx context.Context, path, idKey string) (map[string]int, error) {
	var items []map[string]interface{}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}

	dict := make(map[string]int, len(items))
	for _, item := range items {
		name, _ := item["Name"].(string)
		id, ok := item[idKey].(float64)
		if name == "" || !ok {
			continue
		}
		dict[strings.ToLower(name)] = int(id)
	}
	return dict, nil
}

// CityID resolves a free-text city name to the marketplace city identifier.
func (c *Client) CityID(ctx context.Context, cityName string) (int64, error) {
	payload := map[string]interface{}{
		"prefix":           cityName,
		"suggestion_types": 1,
		"limit":            1,
		"country_id":       1,
	}

	var out struct {
		Suggestions []struct {
			City struct {
				ID int64 `json:"id"`
			} `json:"city"`
		} `json:"suggestions"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/gw/gis-dict/v1/autocomplete/suggestions", payload, &out); err != nil {
		return 0, err
	}
	if len(out.Suggestions) == 0 || out.Suggestions[0].City.ID == 0 {
		return 0, fmt.Errorf("%w: %s", ErrCityNotFound, cityName)
	}
	return out.Suggestions[0].City.ID, nil
}

// Contacts fetches the firm contact list.
func (c *Client) Contacts(ctx context.Context) ([]Contact, error) {
	var contacts []Contact
	if err := c.doJSON(ctx, http.MethodGet, "/v1.0/firms/contacts", nil, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// CreateCargo publishes a new listing and returns its marketplace reference.
func (c *Client) CreateCargo(ctx context.Context, app *CargoApplication) (*CargoRef, error) {
	var out struct {
		CargoApplication struct {
			CargoID     json.Number `json:"cargo_id"`
			CargoNumber json.Number `json:"cargo_number"`
		} `json:"cargo_application"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/v2/cargos", &Payload{CargoApplication: *app}, &out)
	if err != nil {
		return nil, err
	}
	return &CargoRef{
		CargoID:     out.CargoApplication.CargoID.String(),
		CargoNumber: out.CargoApplication.CargoNumber.String(),
	}, nil
}

// UpdateCargo replaces an existing listing's content.
func (c *Client) UpdateCargo(ctx context.Context, cargoID string, app *CargoApplication) error {
	path := fmt.Sprintf("/v2/cargos/%s", cargoID)
	return c.doJSON(ctx, http.MethodPut, path, &Payload{CargoApplication: *app}, nil)
}

// WithdrawCargo takes a listing off the marketplace.
func (c *Client) WithdrawCargo(ctx context.Context, cargoID string) error {
	path := fmt.Sprintf("/v1.0/loads/%s", cargoID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// doJSON performs one authorized JSON round trip. HTTP 429 maps to the
// distinct rate-limit error class; other non-200 statuses are retriable on
// a later run.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return errorutil.Retriable(fmt.Sprintf("ati %s %s failed: %v", method, path, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errorutil.Retriable(fmt.Sprintf("ati %s %s read failed: %v", method, path, err))
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return errorutil.RateLimit(fmt.Sprintf("ati daily request quota exceeded on %s", path))
	case resp.StatusCode != http.StatusOK:
		return errorutil.Retriable(fmt.Sprintf("ati %s %s returned %d: %s", method, path, resp.StatusCode, raw))
	}

	if out == nil {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("ati %s response malformed: %w", path, err)
	}
	return nil
}
