// Package ors is the openrouteservice client for directions and isochrones.
package ors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/accessroute/internal/core/domain"
	"github.com/samirrijal/accessroute/internal/pkg/geospatial"
	"github.com/samirrijal/accessroute/internal/pkg/httpclient"
)

// API docs: https://giscience.github.io/openrouteservice/api-reference/
const (
	providerName    = "openrouteservice"
	typeGoal        = 10
	maxAlternatives = 3
)

// Doer performs outbound requests; *httpclient.Client satisfies it.
type Doer interface {
	Do(ctx context.Context, r httpclient.Request) ([]byte, error)
}

// Client talks to an openrouteservice instance.
type Client struct {
	http    Doer
	baseURL string
	apiKey  string
}

// NewClient creates a client for baseURL (e.g. https://api.openrouteservice.org/v2).
func NewClient(doer Doer, baseURL, apiKey string) *Client {
	return &Client{http: doer, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}
}

// Directions requests up to three alternative routes and maps every step,
// with its extra info, onto domain maneuvers.
func (c *Client) Directions(ctx context.Context, req domain.DirectionsRequest) (domain.DirectionsResponse, error) {
	body := directionsBody{
		Coordinates:  make([][2]float64, len(req.Coordinates)),
		ExtraInfo:    req.ExtraInfo,
		Instructions: true,
		AlternativeRoutes: &alternativeRoutes{
			TargetCount:  maxAlternatives,
			ShareFactor:  0.6,
			WeightFactor: 1.4,
		},
	}
	for i, co := range req.Coordinates {
		body.Coordinates[i] = [2]float64{co.Lon, co.Lat}
	}
	if len(req.AvoidFeatures) > 0 || len(req.SurfaceTypes) > 0 {
		body.Options = &routeOptions{AvoidFeatures: req.AvoidFeatures, SurfaceType: req.SurfaceTypes}
	}

	var resp directionsResponse
	if err := c.post(ctx, "/directions/"+string(req.Profile)+"/geojson", body, &resp); err != nil {
		return domain.DirectionsResponse{}, err
	}

	out := domain.DirectionsResponse{Routes: make([]domain.ProviderRoute, 0, len(resp.Features))}
	for _, f := range resp.Features {
		out.Routes = append(out.Routes, toRoute(f))
	}
	return out, nil
}

func toRoute(f routeFeature) domain.ProviderRoute {
	r := domain.ProviderRoute{
		DistanceMeters:  f.Properties.Summary.Distance,
		DurationSeconds: f.Properties.Summary.Duration,
	}
	if ls, ok := f.Geometry.Coordinates.(orb.LineString); ok {
		r.Geometry = ls
	}
	for _, seg := range f.Properties.Segments {
		for _, st := range seg.Steps {
			if st.Type == typeGoal {
				continue
			}
			r.Maneuvers = append(r.Maneuvers, domain.Maneuver{
				Instruction:     st.Instruction,
				DistanceMeters:  st.Distance,
				DurationSeconds: st.Duration,
				TypeCode:        st.Type,
				Segment:         segmentFor(f.Properties.Extras, st.WayPoints[0], st.WayPoints[1], st.Distance),
			})
		}
	}
	return r
}

// Isochrone returns the polygon reachable from center within rangeSeconds.
func (c *Client) Isochrone(ctx context.Context, center domain.Coordinate, profile domain.Profile, rangeSeconds int) (*domain.Isochrone, error) {
	body := isochroneBody{
		Locations: [][2]float64{{center.Lon, center.Lat}},
		Range:     []int{rangeSeconds},
		RangeType: "time",
	}

	var fc geojson.FeatureCollection
	if err := c.post(ctx, "/isochrones/"+string(profile), body, &fc); err != nil {
		return nil, err
	}

	for _, f := range fc.Features {
		if poly, ok := f.Geometry.(orb.Polygon); ok {
			return &domain.Isochrone{
				Center:           center,
				RangeSeconds:     rangeSeconds,
				Polygon:          poly,
				AreaSquareMeters: geospatial.PolygonArea(poly),
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: isochrone response has no polygon", domain.ErrRouteProviderUnavailable)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}

	data, err := c.http.Do(ctx, httpclient.Request{
		Method:      http.MethodPost,
		URL:         c.baseURL + path,
		ContentType: "application/json",
		Body:        payload,
		Headers:     map[string]string{"Authorization": c.apiKey},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRouteProviderUnavailable, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", domain.ErrRouteProviderUnavailable, providerName, err)
	}
	return nil
}
