package http

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/accessroute/internal/core/domain"
	"github.com/samirrijal/accessroute/internal/core/poi"
	"github.com/samirrijal/accessroute/internal/core/usecases"
)

const (
	maxSearchRadius     = 10000
	defaultReachMinutes = 15
	maxPlaceLimit       = 200
)

func floatQuery(c *fiber.Ctx, key string, def *float64) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		if def != nil {
			return *def, nil
		}
		return 0, fmt.Errorf("%w: %s is required", domain.ErrInvalidRequest, key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidRequest, key)
	}
	return v, nil
}

func intQuery(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidRequest, key)
	}
	return v, nil
}

// poiQuery reads lat, lon, radius and wheelchair from the query string.
func poiQuery(c *fiber.Ctx, defaultRadius float64) (domain.POIQuery, error) {
	lat, err := floatQuery(c, "lat", nil)
	if err != nil {
		return domain.POIQuery{}, err
	}
	lon, err := floatQuery(c, "lon", nil)
	if err != nil {
		return domain.POIQuery{}, err
	}
	radius, err := floatQuery(c, "radius", &defaultRadius)
	if err != nil {
		return domain.POIQuery{}, err
	}
	if radius > maxSearchRadius {
		return domain.POIQuery{}, fmt.Errorf("%w: radius must be at most %d meters", domain.ErrInvalidRequest, maxSearchRadius)
	}
	return domain.POIQuery{
		Center:       domain.Coordinate{Lat: lat, Lon: lon},
		RadiusMeters: radius,
		Wheelchair:   domain.Wheelchair(c.Query("wheelchair")),
	}, nil
}

// ---- Routes ----

type planBody struct {
	Origin                *domain.Coordinate      `json:"origin"`
	Destination           *domain.Coordinate      `json:"destination"`
	Preferences           domain.RoutePreferences `json:"preferences"`
	DestinationWheelchair domain.Wheelchair       `json:"destination_wheelchair"`
}

// PlanRouteHandler plans accessible, fastest and scenic options between two points.
func PlanRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body planBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if body.Origin == nil || body.Destination == nil {
			return errBadRequest(c, "origin and destination are required")
		}

		plan, err := deps.Routes.Plan(c.UserContext(), usecases.PlanRequest{
			Origin:                *body.Origin,
			Destination:           *body.Destination,
			Preferences:           body.Preferences,
			DestinationWheelchair: body.DestinationWheelchair,
		})
		if err != nil {
			return respondError(c, err)
		}

		c.Set("Cache-Control", "no-store")
		return c.JSON(plan)
	}
}

// ReachableHandler returns the area reachable by wheelchair within ?minutes.
func ReachableHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, err := floatQuery(c, "lat", nil)
		if err != nil {
			return respondError(c, err)
		}
		lon, err := floatQuery(c, "lon", nil)
		if err != nil {
			return respondError(c, err)
		}
		minutes, err := intQuery(c, "minutes", defaultReachMinutes)
		if err != nil {
			return respondError(c, err)
		}

		iso, err := deps.Routes.Reachable(c.UserContext(), domain.Coordinate{Lat: lat, Lon: lon}, minutes)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(iso)
	}
}

// ---- Places ----

// NearbyPlacesHandler returns places around a point with accessibility scores.
func NearbyPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := poiQuery(c, poi.DefaultPOIRadius)
		if err != nil {
			return respondError(c, err)
		}

		sortBy := domain.PlaceSort(c.Query("sort_by"))
		switch sortBy {
		case "", domain.SortByDistance, domain.SortByAccessibility:
		default:
			return errBadRequest(c, "sort_by must be distance or accessibility")
		}
		limit, err := intQuery(c, "limit", 0)
		if err != nil {
			return respondError(c, err)
		}
		if limit < 0 || limit > maxPlaceLimit {
			return errBadRequest(c, fmt.Sprintf("limit must be between 0 and %d", maxPlaceLimit))
		}

		places, err := deps.Places.Nearby(c.UserContext(), q, domain.PlaceFilter{
			Category: c.Query("category"),
			Search:   c.Query("search"),
			SortBy:   sortBy,
			Limit:    limit,
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(places)
	}
}

// AccessiblePOIsHandler returns wheelchair-accessible amenities.
func AccessiblePOIsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := poiQuery(c, poi.DefaultPOIRadius)
		if err != nil {
			return respondError(c, err)
		}
		places, err := deps.Places.AccessiblePOIs(c.UserContext(), q)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(places)
	}
}

// AccessibleToiletsHandler returns wheelchair-accessible toilets.
func AccessibleToiletsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := poiQuery(c, poi.DefaultToiletRadius)
		if err != nil {
			return respondError(c, err)
		}
		places, err := deps.Places.AccessibleToilets(c.UserContext(), q)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(places)
	}
}

// BoundingBoxHandler returns the search box used for a place lookup.
func BoundingBoxHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := poiQuery(c, poi.DefaultPOIRadius)
		if err != nil {
			return respondError(c, err)
		}
		box, param, err := deps.Places.SearchArea(q)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"bbox": box, "param": param})
	}
}

// ---- Hazard reports ----

type hazardBody struct {
	Location    string              `json:"location"`
	Issue       string              `json:"issue"`
	Description *string             `json:"description"`
	Status      domain.HazardStatus `json:"status"`
	ReportedBy  string              `json:"reported_by"`
	Latitude    *float64            `json:"latitude"`
	Longitude   *float64            `json:"longitude"`
}

// ListHazardsHandler returns hazard reports newest first, paginated.
func ListHazardsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reports, err := deps.Hazards.List(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return paginate(c, reports)
	}
}

// CreateHazardHandler stores a new hazard report.
func CreateHazardHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body hazardBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		report := &domain.HazardReport{
			Location:    body.Location,
			Issue:       body.Issue,
			Description: body.Description,
			Status:      body.Status,
			ReportedBy:  body.ReportedBy,
			Latitude:    body.Latitude,
			Longitude:   body.Longitude,
		}
		if err := deps.Hazards.Create(c.UserContext(), report); err != nil {
			return respondError(c, err)
		}

		c.Location("/v1/hazards/" + report.ID)
		return c.Status(fiber.StatusCreated).JSON(report)
	}
}

// UpdateHazardStatusHandler moves a report to a new status.
func UpdateHazardStatusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Status domain.HazardStatus `json:"status"`
		}
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		report, err := deps.Hazards.UpdateStatus(c.UserContext(), c.Params("id"), body.Status)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(report)
	}
}

// UpvoteHazardHandler confirms a report once more.
func UpvoteHazardHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		report, err := deps.Hazards.Upvote(c.UserContext(), c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(report)
	}
}

// ---- Forum ----

type forumBody struct {
	Title    string               `json:"title"`
	Content  string               `json:"content"`
	Author   string               `json:"author"`
	Category domain.ForumCategory `json:"category"`
}

// ListForumPostsHandler returns forum posts, optionally by ?category.
func ListForumPostsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		posts, err := deps.Forum.List(c.UserContext(), domain.ForumCategory(c.Query("category")))
		if err != nil {
			return respondError(c, err)
		}
		return paginate(c, posts)
	}
}

// CreateForumPostHandler stores a new forum post.
func CreateForumPostHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body forumBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		post := &domain.ForumPost{
			Title:    body.Title,
			Content:  body.Content,
			Author:   body.Author,
			Category: body.Category,
		}
		if err := deps.Forum.Create(c.UserContext(), post); err != nil {
			return respondError(c, err)
		}

		c.Location("/v1/forum/posts/" + post.ID)
		return c.Status(fiber.StatusCreated).JSON(post)
	}
}

// LikeForumPostHandler adds one like to a post.
func LikeForumPostHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		post, err := deps.Forum.Like(c.UserContext(), c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(post)
	}
}
