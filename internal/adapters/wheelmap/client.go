// Package wheelmap looks up accessibility-tagged places from the Wheelmap API.
package wheelmap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/samirrijal/accessroute/internal/core/domain"
	"github.com/samirrijal/accessroute/internal/core/poi"
	"github.com/samirrijal/accessroute/internal/pkg/httpclient"
)

// Doer performs outbound requests; *httpclient.Client satisfies it.
type Doer interface {
	Do(ctx context.Context, r httpclient.Request) ([]byte, error)
}

// Client queries the Wheelmap node endpoint.
type Client struct {
	http    Doer
	baseURL string
	apiKey  string
	limit   int
}

// NewClient creates a client for baseURL (e.g. https://wheelmap.org/api).
// limit <= 0 uses the default page size.
func NewClient(doer Doer, baseURL, apiKey string, limit int) *Client {
	if limit <= 0 {
		limit = poi.WheelmapLimit
	}
	return &Client{http: doer, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, limit: limit}
}

type nodesResponse struct {
	Nodes []node `json:"nodes"`
}

type node struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	Lat              float64         `json:"lat"`
	Lon              float64         `json:"lon"`
	Wheelchair       string          `json:"wheelchair"`
	WheelchairToilet string          `json:"wheelchair_toilet"`
	Category         json.RawMessage `json:"category"`
	Type             json.RawMessage `json:"node_type"`
	Website          string          `json:"website"`
	Phone            string          `json:"phone"`
}

// Nodes returns the places inside the search box of q.
func (c *Client) Nodes(ctx context.Context, q domain.POIQuery) ([]domain.Place, error) {
	params, err := poi.WheelmapParams(q)
	if err != nil {
		return nil, err
	}
	params.Set("limit", strconv.Itoa(c.limit))
	params.Set("api_key", c.apiKey)

	data, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		URL:    c.baseURL + "/nodes?" + params.Encode(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPOIProviderUnavailable, err)
	}

	var resp nodesResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode wheelmap response: %w", domain.ErrPOIProviderUnavailable, err)
	}

	places := make([]domain.Place, 0, len(resp.Nodes))
	for _, n := range resp.Nodes {
		places = append(places, domain.Place{
			ID:               strconv.FormatInt(n.ID, 10),
			Name:             n.Name,
			Location:         domain.Coordinate{Lat: n.Lat, Lon: n.Lon},
			Category:         identifier(n.Category),
			Type:             identifier(n.Type),
			Wheelchair:       wheelchair(n.Wheelchair),
			WheelchairToilet: toilet(n.WheelchairToilet),
			Website:          n.Website,
			Phone:            n.Phone,
		})
	}
	return places, nil
}

// identifier accepts either a plain string or an {"identifier": ...} object.
func identifier(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Identifier string `json:"identifier"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Identifier
	}
	return ""
}

func wheelchair(v string) domain.Wheelchair {
	switch w := domain.Wheelchair(v); w {
	case domain.WheelchairYes, domain.WheelchairLimited, domain.WheelchairNo:
		return w
	}
	return domain.WheelchairUnknown
}

func toilet(v string) domain.Wheelchair {
	switch w := domain.Wheelchair(v); w {
	case domain.WheelchairYes, domain.WheelchairNo:
		return w
	}
	return ""
}
