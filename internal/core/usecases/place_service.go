package usecases

import (
	"context"
	"fmt"

	"github.com/samirrijal/accessroute/internal/core/domain"
	"github.com/samirrijal/accessroute/internal/core/poi"
	"github.com/samirrijal/accessroute/internal/core/ports"
)

// PlaceService finds accessible places around a point.
type PlaceService struct {
	lookup ports.PlaceLookupProvider
	pois   ports.POIProvider
	cache  ports.CacheService
}

// NewPlaceService creates a new PlaceService.
func NewPlaceService(lookup ports.PlaceLookupProvider, pois ports.POIProvider, cache ports.CacheService) *PlaceService {
	return &PlaceService{lookup: lookup, pois: pois, cache: cache}
}

// Nearby returns places inside the search box of q, filtered and sorted by f.
func (s *PlaceService) Nearby(ctx context.Context, q domain.POIQuery, f domain.PlaceFilter) ([]domain.Place, error) {
	if err := poi.Validate(q); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("places:nearby:%.4f:%.4f:%.0f:%s", q.Center.Lat, q.Center.Lon, q.RadiusMeters, q.Wheelchair)
	raw, err := readThrough(ctx, s.cache, "places_nearby", key, placesTTL, func() ([]domain.Place, error) {
		places, err := s.lookup.Nodes(ctx, q)
		if err != nil {
			return nil, providerError(domain.ErrPOIProviderUnavailable, err)
		}
		return places, nil
	})
	if err != nil {
		return nil, err
	}
	return poi.Rank(raw, q.Center, f), nil
}

// AccessiblePOIs returns wheelchair-accessible amenities within the radius of q.
func (s *PlaceService) AccessiblePOIs(ctx context.Context, q domain.POIQuery) ([]domain.Place, error) {
	return s.overpass(ctx, q, poi.AnyAmenity, "places_pois")
}

// AccessibleToilets returns wheelchair-accessible toilets within the radius of q.
func (s *PlaceService) AccessibleToilets(ctx context.Context, q domain.POIQuery) ([]domain.Place, error) {
	return s.overpass(ctx, q, poi.Toilets, "places_toilets")
}

func (s *PlaceService) overpass(ctx context.Context, q domain.POIQuery, amenity poi.Amenity, op string) ([]domain.Place, error) {
	query, err := poi.OverpassQuery(q, amenity)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("places:overpass:%s:%.4f:%.4f:%.0f:%s", amenity, q.Center.Lat, q.Center.Lon, q.RadiusMeters, q.Wheelchair)
	raw, err := readThrough(ctx, s.cache, op, key, placesTTL, func() ([]domain.Place, error) {
		places, err := s.pois.QueryPlaces(ctx, query)
		if err != nil {
			return nil, providerError(domain.ErrPOIProviderUnavailable, err)
		}
		return places, nil
	})
	if err != nil {
		return nil, err
	}
	return poi.Rank(raw, q.Center, domain.PlaceFilter{}), nil
}

// SearchArea returns the bounding box of q and its provider parameter form.
func (s *PlaceService) SearchArea(q domain.POIQuery) (domain.BoundingBox, string, error) {
	box, err := poi.BoundingBox(q)
	if err != nil {
		return domain.BoundingBox{}, "", err
	}
	return box, poi.BBoxParam(box), nil
}
