// Package overpass queries the OpenStreetMap Overpass API for places.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/paulmach/osm"

	"github.com/samirrijal/accessroute/internal/core/domain"
	"github.com/samirrijal/accessroute/internal/pkg/httpclient"
)

// Doer performs outbound requests; *httpclient.Client satisfies it.
type Doer interface {
	Do(ctx context.Context, r httpclient.Request) ([]byte, error)
}

// Client posts Overpass QL queries to an interpreter endpoint.
type Client struct {
	http Doer
	url  string
}

// NewClient creates a client for the interpreter at endpoint
// (e.g. https://overpass-api.de/api/interpreter).
func NewClient(doer Doer, endpoint string) *Client {
	return &Client{http: doer, url: endpoint}
}

// element is one Overpass result. Nodes carry lat/lon; ways and relations
// carry the bounds of "out geom" or the center of "out center".
type element struct {
	Type   string   `json:"type"`
	ID     int64    `json:"id"`
	Lat    *float64 `json:"lat"`
	Lon    *float64 `json:"lon"`
	Tags   osm.Tags `json:"tags"`
	Bounds *struct {
		MinLat float64 `json:"minlat"`
		MinLon float64 `json:"minlon"`
		MaxLat float64 `json:"maxlat"`
		MaxLon float64 `json:"maxlon"`
	} `json:"bounds"`
	Center *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"center"`
}

// QueryPlaces runs query and converts every element with a position into a place.
func (c *Client) QueryPlaces(ctx context.Context, query string) ([]domain.Place, error) {
	data, err := c.http.Do(ctx, httpclient.Request{
		Method:      http.MethodPost,
		URL:         c.url,
		ContentType: "application/x-www-form-urlencoded",
		Body:        []byte(url.Values{"data": {query}}.Encode()),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPOIProviderUnavailable, err)
	}

	var doc struct {
		Elements []json.RawMessage `json:"elements"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode overpass response: %w", domain.ErrPOIProviderUnavailable, err)
	}

	places := make([]domain.Place, 0, len(doc.Elements))
	for _, rawEl := range doc.Elements {
		var el element
		if err := json.Unmarshal(rawEl, &el); err != nil {
			return nil, fmt.Errorf("%w: decode overpass element: %w", domain.ErrPOIProviderUnavailable, err)
		}
		fid, ok := el.featureID()
		if !ok {
			continue
		}
		pos, ok := el.position()
		if !ok {
			continue
		}
		places = append(places, toPlace(fid, pos, el.Tags))
	}
	return places, nil
}

func (e element) featureID() (osm.FeatureID, bool) {
	switch osm.Type(e.Type) {
	case osm.TypeNode:
		return osm.NodeID(e.ID).FeatureID(), true
	case osm.TypeWay:
		return osm.WayID(e.ID).FeatureID(), true
	case osm.TypeRelation:
		return osm.RelationID(e.ID).FeatureID(), true
	}
	return 0, false
}

func (e element) position() (domain.Coordinate, bool) {
	switch {
	case e.Lat != nil && e.Lon != nil:
		return domain.Coordinate{Lat: *e.Lat, Lon: *e.Lon}, true
	case e.Center != nil:
		return domain.Coordinate{Lat: e.Center.Lat, Lon: e.Center.Lon}, true
	case e.Bounds != nil:
		return domain.Coordinate{
			Lat: (e.Bounds.MinLat + e.Bounds.MaxLat) / 2,
			Lon: (e.Bounds.MinLon + e.Bounds.MaxLon) / 2,
		}, true
	}
	return domain.Coordinate{}, false
}

func toPlace(fid osm.FeatureID, pos domain.Coordinate, tags osm.Tags) domain.Place {
	p := domain.Place{
		ID:               fid.String(),
		Name:             tags.Find("name"),
		Location:         pos,
		Category:         tags.Find("amenity"),
		Type:             string(fid.Type()),
		Wheelchair:       wheelchairTag(tags.Find("wheelchair")),
		WheelchairToilet: wheelchairTag(tags.Find("toilets:wheelchair")),
		Website:          tags.Find("website"),
		Phone:            tags.Find("phone"),
	}
	if p.Name == "" {
		p.Name = p.Category
	}
	if p.WheelchairToilet == domain.WheelchairUnknown {
		p.WheelchairToilet = ""
	}
	return p
}

func wheelchairTag(v string) domain.Wheelchair {
	switch w := domain.Wheelchair(v); w {
	case domain.WheelchairYes, domain.WheelchairLimited, domain.WheelchairNo:
		return w
	}
	return domain.WheelchairUnknown
}
