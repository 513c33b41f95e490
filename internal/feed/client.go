// Package feed pulls freight orders from the Transport2 carrier GraphQL API
// and filters them down to reconciliation candidates.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/SKR-SG/ASP/pkg/errorutil"
	"github.com/SKR-SG/ASP/pkg/logger"
)

const (
	opAssigned = "assignedOrders"
	opAuction  = "auctionNewOrders"
	opFree     = "freeOrders"
)

const assignedQuery = `
	query {
		assignedOrders {
			id
			externalNo
			loadingPlaces { storagePoint { settlement address } }
			unloadingPlaces { storagePoint { settlement address } }
			loadingDatetime
			unloadingDatetime
			weight
			volume
			loadingTypes
			comment
			price
			status
			vehicleRequirements { name }
		}
	}`

const auctionQuery = `
	query {
		auctionOrders {
			id
			externalNo
			loadingPlaces { storagePoint { settlement address } }
			unloadingPlaces { storagePoint { settlement address } }
			loadingDatetime
			unloadingDatetime
			weight
			volume
			loadingTypes
			comment
			status
			lot { auctionStatus startPrice lastBet }
			vehicleRequirements { name }
		}
	}`

const freeQuery = `
	query {
		freeOrders {
			id
			externalNo
			loadingPlaces { storagePoint { settlement address } }
			unloadingPlaces { storagePoint { settlement address } }
			loadingDatetime
			unloadingDatetime
			weight
			volume
			loadingTypes
			comment
			price
			status
			vehicleRequirements { name }
		}
	}`

// Client talks to the Transport2 carrier API.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	logger  logger.Logger
}

// NewClient creates a feed client.
func NewClient(baseURL, token string, log logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		logger:  log,
	}
}

// Fetch pulls all three order categories and runs the intake filter. A
// failed category is logged and skipped; the snapshot is marked incomplete
// so the caller knows deletion cannot be trusted this run.
func (c *Client) Fetch(ctx context.Context) (*Snapshot, error) {
	now := time.Now().UTC()
	snapshot := &Snapshot{Complete: true}

	categories := []struct {
		operation string
		query     string
		field     string
		orderType string
	}{
		{opAssigned, assignedQuery, "assignedOrders", "ASSIGNED"},
		{opAuction, auctionQuery, "auctionOrders", "AUCTION"},
		{opFree, freeQuery, "freeOrders", "FREE"},
	}

	for _, cat := range categories {
		orders, err := c.fetchCategory(ctx, cat.operation, cat.query, cat.field)
		if err != nil {
			c.logger.Warnf(ctx, "[Feed] %s fetch failed, skipping category: %v", cat.field, err)
			snapshot.Complete = false
			continue
		}

		for _, order := range orders {
			if order.ExternalNo == "" {
				continue
			}
			snapshot.ExternalNos = append(snapshot.ExternalNos, order.ExternalNo)

			cand, ok := Qualify(ctx, &order, cat.orderType, now, c.logger)
			if ok {
				snapshot.Candidates = append(snapshot.Candidates, *cand)
			}
		}
	}

	return snapshot, nil
}

// fetchCategory runs one GraphQL operation.
func (c *Client) fetchCategory(ctx context.Context, operation, query, field string) ([]FeedOrder, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/carrier/graphql?operation=%s", c.baseURL, operation)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errorutil.Retriable(fmt.Sprintf("feed request failed: %v", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errorutil.Retriable(fmt.Sprintf("feed read failed: %v", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errorutil.Retriable(fmt.Sprintf("feed returned %d: %s", resp.StatusCode, raw))
	}

	var envelope struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("feed response is not valid JSON: %w", err)
	}

	var orders []FeedOrder
	if err := json.Unmarshal(envelope.Data[field], &orders); err != nil {
		return nil, fmt.Errorf("feed %s block malformed: %w", field, err)
	}

	return orders, nil
}
