package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	handler "github.com/samirrijal/accessroute/internal/adapters/http"
	"github.com/samirrijal/accessroute/internal/adapters/fixture"
	"github.com/samirrijal/accessroute/internal/core/domain"
	"github.com/samirrijal/accessroute/internal/core/usecases"
)

// ---- Mock repositories and providers ----

type mockHazardRepo struct {
	listFn         func(ctx context.Context, limit int) ([]domain.HazardReport, error)
	updateStatusFn func(ctx context.Context, id string, status domain.HazardStatus) (*domain.HazardReport, error)
	upvoteFn       func(ctx context.Context, id string) (*domain.HazardReport, error)
}

func (m *mockHazardRepo) List(ctx context.Context, limit int) ([]domain.HazardReport, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit)
	}
	return nil, nil
}
func (m *mockHazardRepo) GetByID(ctx context.Context, id string) (*domain.HazardReport, error) {
	return nil, domain.ErrNotFound
}
func (m *mockHazardRepo) Create(ctx context.Context, r *domain.HazardReport) error {
	r.ID = "hazard-1"
	return nil
}
func (m *mockHazardRepo) UpdateStatus(ctx context.Context, id string, status domain.HazardStatus) (*domain.HazardReport, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return &domain.HazardReport{ID: id, Status: status}, nil
}
func (m *mockHazardRepo) IncrementUpvotes(ctx context.Context, id string) (*domain.HazardReport, error) {
	if m.upvoteFn != nil {
		return m.upvoteFn(ctx, id)
	}
	return &domain.HazardReport{ID: id, Status: domain.HazardActive, Upvotes: 1}, nil
}

type mockForumRepo struct {
	listFn func(ctx context.Context, category domain.ForumCategory, limit int) ([]domain.ForumPost, error)
}

func (m *mockForumRepo) List(ctx context.Context, category domain.ForumCategory, limit int) ([]domain.ForumPost, error) {
	if m.listFn != nil {
		return m.listFn(ctx, category, limit)
	}
	return nil, nil
}
func (m *mockForumRepo) Create(ctx context.Context, p *domain.ForumPost) error {
	p.ID = "post-1"
	return nil
}
func (m *mockForumRepo) IncrementLikes(ctx context.Context, id string) (*domain.ForumPost, error) {
	return &domain.ForumPost{ID: id, Likes: 1, Category: domain.ForumGeneral}, nil
}

type failingDirections struct{}

func (failingDirections) Directions(ctx context.Context, req domain.DirectionsRequest) (domain.DirectionsResponse, error) {
	return domain.DirectionsResponse{}, fmt.Errorf("%w: status 502", domain.ErrRouteProviderUnavailable)
}

// ---- Test helpers ----

var (
	origin      = domain.Coordinate{Lat: 43.2630, Lon: -2.9350}
	destination = domain.Coordinate{Lat: 43.2700, Lon: -2.9350}
)

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(opts ...func(*handler.Dependencies)) *handler.Dependencies {
	fx := fixture.New()
	d := &handler.Dependencies{
		Routes:  usecases.NewRouteService(fx, fx, nil),
		Places:  usecases.NewPlaceService(fx, fx, nil),
		Hazards: usecases.NewHazardService(&mockHazardRepo{}, nil, nil, nil),
		Forum:   usecases.NewForumService(&mockForumRepo{}, nil, nil),
		Offline: true,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func readBody(t *testing.T, body io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return b
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, []byte, map[string]string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	headers := map[string]string{}
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}
	return resp.StatusCode, readBody(t, resp.Body), headers
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var apiErr handler.APIError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, body)
	}
	return apiErr.Code
}

func planBody(from, to domain.Coordinate) string {
	return fmt.Sprintf(`{"origin":{"lat":%v,"lon":%v},"destination":{"lat":%v,"lon":%v}}`, from.Lat, from.Lon, to.Lat, to.Lon)
}

// ---- Route handler tests ----

func TestPlanRoute_Success(t *testing.T) {
	app := setupApp(makeDeps())

	status, body, headers := do(t, app, "POST", "/v1/routes/plan", planBody(origin, destination))
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if headers["Cache-Control"] != "no-store" {
		t.Errorf("expected no-store, got %q", headers["Cache-Control"])
	}

	var plan domain.RoutePlan
	if err := json.Unmarshal(body, &plan); err != nil {
		t.Fatal(err)
	}
	if len(plan.Options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(plan.Options))
	}
	for i, kind := range domain.RouteKinds {
		if plan.Options[i].Kind != kind {
			t.Errorf("option %d: expected %s, got %s", i, kind, plan.Options[i].Kind)
		}
	}
	if plan.Options[0].AccessibilityScore != 100 {
		t.Errorf("expected score 100 on a paved level route, got %d", plan.Options[0].AccessibilityScore)
	}
	if !plan.Options[1].Estimated || !plan.Options[2].Estimated {
		t.Error("fastest and scenic should be estimated from a single route")
	}

	steps := plan.Steps[domain.RouteAccessible]
	if len(steps) == 0 || steps[len(steps)-1].Instruction != "Arrive at destination" {
		t.Errorf("expected arrival as last step, got %+v", steps)
	}
}

func TestPlanRoute_BadInput(t *testing.T) {
	app := setupApp(makeDeps())

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"origin":`},
		{"missing destination", `{"origin":{"lat":43.26,"lon":-2.93}}`},
		{"same point", planBody(origin, origin)},
		{"out of range", planBody(domain.Coordinate{Lat: 95, Lon: 0}, destination)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body, _ := do(t, app, "POST", "/v1/routes/plan", tt.body)
			if status != 400 {
				t.Fatalf("expected 400, got %d", status)
			}
			if code := errorCode(t, body); code != "bad_request" {
				t.Errorf("expected bad_request, got %s", code)
			}
		})
	}
}

func TestPlanRoute_ProviderUnavailable(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Routes = usecases.NewRouteService(failingDirections{}, fixture.New(), nil)
	})
	app := setupApp(deps)

	status, body, _ := do(t, app, "POST", "/v1/routes/plan", planBody(origin, destination))
	if status != 503 {
		t.Fatalf("expected 503, got %d", status)
	}
	if code := errorCode(t, body); code != "provider_unavailable" {
		t.Errorf("expected provider_unavailable, got %s", code)
	}
	if strings.Contains(string(body), "502") {
		t.Errorf("provider details leaked: %s", body)
	}
}

func TestReachable(t *testing.T) {
	app := setupApp(makeDeps())

	status, body, _ := do(t, app, "GET", "/v1/routes/reachable?lat=43.263&lon=-2.935&minutes=10", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var iso domain.Isochrone
	if err := json.Unmarshal(body, &iso); err != nil {
		t.Fatal(err)
	}
	if iso.RangeSeconds != 600 {
		t.Errorf("expected 600s, got %d", iso.RangeSeconds)
	}
	if iso.AreaSquareMeters <= 0 {
		t.Errorf("expected positive area, got %f", iso.AreaSquareMeters)
	}

	for _, q := range []string{"minutes=0", "minutes=61", "minutes=ten"} {
		status, _, _ := do(t, app, "GET", "/v1/routes/reachable?lat=43.263&lon=-2.935&"+q, "")
		if status != 400 {
			t.Errorf("%s: expected 400, got %d", q, status)
		}
	}
}

// ---- Place handler tests ----

func TestNearbyPlaces_SortByAccessibility(t *testing.T) {
	app := setupApp(makeDeps())

	status, body, headers := do(t, app, "GET", "/v1/places/nearby?lat=43.263&lon=-2.935&sort_by=accessibility", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if headers["Cache-Control"] != "public, max-age=300" {
		t.Errorf("expected 5 min Cache-Control, got %q", headers["Cache-Control"])
	}

	var places []domain.Place
	if err := json.Unmarshal(body, &places); err != nil {
		t.Fatal(err)
	}
	if len(places) != 6 {
		t.Fatalf("expected 6 places, got %d", len(places))
	}
	if places[0].ID != "fixture-1" || places[0].AccessibilityScore != 100 {
		t.Errorf("expected closest fully accessible place first, got %+v", places[0])
	}
	for i := 1; i < len(places); i++ {
		if places[i].AccessibilityScore > places[i-1].AccessibilityScore {
			t.Errorf("places not sorted by score at %d", i)
		}
	}
}

func TestNearbyPlaces_BadParams(t *testing.T) {
	app := setupApp(makeDeps())

	for _, q := range []string{
		"lon=-2.935",
		"lat=north&lon=-2.935",
		"lat=43.263&lon=-2.935&radius=50000",
		"lat=43.263&lon=-2.935&radius=-5",
		"lat=43.263&lon=-2.935&sort_by=name",
		"lat=43.263&lon=-2.935&wheelchair=no",
		"lat=43.263&lon=-2.935&limit=500",
	} {
		status, body, headers := do(t, app, "GET", "/v1/places/nearby?"+q, "")
		if status != 400 {
			t.Errorf("%s: expected 400, got %d", q, status)
			continue
		}
		if code := errorCode(t, body); code != "bad_request" {
			t.Errorf("%s: expected bad_request, got %s", q, code)
		}
		if headers["Cache-Control"] != "no-store" {
			t.Errorf("%s: error responses must not be cached, got %q", q, headers["Cache-Control"])
		}
	}
}

func TestAccessibleToilets(t *testing.T) {
	app := setupApp(makeDeps())

	status, body, _ := do(t, app, "GET", "/v1/places/toilets?lat=43.263&lon=-2.935&wheelchair=limited", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var places []domain.Place
	if err := json.Unmarshal(body, &places); err != nil {
		t.Fatal(err)
	}
	if len(places) != 2 {
		t.Fatalf("expected 2 toilets, got %d", len(places))
	}
	for _, p := range places {
		if p.Category != "toilets" {
			t.Errorf("unexpected category %q", p.Category)
		}
	}
}

func TestBoundingBox_ETag(t *testing.T) {
	app := setupApp(makeDeps())

	status, body, headers := do(t, app, "GET", "/v1/places/bbox?lat=43.263&lon=-2.935&radius=500", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var out struct {
		BBox  domain.BoundingBox `json:"bbox"`
		Param string             `json:"param"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if parts := strings.Split(out.Param, ","); len(parts) != 4 {
		t.Errorf("expected minLon,minLat,maxLon,maxLat, got %q", out.Param)
	}
	if !(out.BBox.MinLat < 43.263 && 43.263 < out.BBox.MaxLat) {
		t.Errorf("box does not contain center: %+v", out.BBox)
	}

	etag := headers["Etag"]
	if etag == "" {
		t.Fatal("expected ETag header")
	}
	req := httptest.NewRequest("GET", "/v1/places/bbox?lat=43.263&lon=-2.935&radius=500", nil)
	req.Header.Set("If-None-Match", etag)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 304 {
		t.Errorf("expected 304, got %d", resp.StatusCode)
	}
}

// ---- Community handler tests ----

func TestListHazards_Pagination(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Hazards = usecases.NewHazardService(&mockHazardRepo{
			listFn: func(ctx context.Context, limit int) ([]domain.HazardReport, error) {
				reports := make([]domain.HazardReport, 5)
				for i := range reports {
					reports[i] = domain.HazardReport{ID: fmt.Sprintf("h%d", i), Status: domain.HazardActive}
				}
				return reports, nil
			},
		}, nil, nil, nil)
	})
	app := setupApp(deps)

	status, body, headers := do(t, app, "GET", "/v1/hazards?offset=2&limit=2", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var result struct {
		Data       []domain.HazardReport `json:"data"`
		Pagination handler.Pagination    `json:"pagination"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatal(err)
	}
	if result.Pagination.Total != 5 || len(result.Data) != 2 || result.Data[0].ID != "h2" {
		t.Errorf("unexpected page: %+v", result)
	}

	link := headers["Link"]
	for _, rel := range []string{`rel="first"`, `rel="prev"`, `rel="next"`, `rel="last"`} {
		if !strings.Contains(link, rel) {
			t.Errorf("expected %s in Link header, got %s", rel, link)
		}
	}
}

func TestCreateHazard(t *testing.T) {
	app := setupApp(makeDeps())

	status, body, headers := do(t, app, "POST", "/v1/hazards",
		`{"location":"Calle Mayor 3","issue":"Broken curb ramp","reported_by":"ane","latitude":43.26,"longitude":-2.93}`)
	if status != 201 {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}
	if headers["Location"] != "/v1/hazards/hazard-1" {
		t.Errorf("unexpected Location %q", headers["Location"])
	}
	var report domain.HazardReport
	if err := json.Unmarshal(body, &report); err != nil {
		t.Fatal(err)
	}
	if report.Status != domain.HazardActive || report.Upvotes != 0 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestCreateHazard_Invalid(t *testing.T) {
	app := setupApp(makeDeps())

	for _, body := range []string{
		`{"location":"Calle Mayor 3","reported_by":"ane"}`,
		`{"location":"Calle Mayor 3","issue":"Steps","reported_by":"ane","latitude":43.26}`,
		`{"location":"Calle Mayor 3","issue":"Steps","reported_by":"ane","status":"closed"}`,
	} {
		status, _, _ := do(t, app, "POST", "/v1/hazards", body)
		if status != 400 {
			t.Errorf("%s: expected 400, got %d", body, status)
		}
	}
}

func TestUpdateHazardStatus_NotFound(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Hazards = usecases.NewHazardService(&mockHazardRepo{
			updateStatusFn: func(ctx context.Context, id string, status domain.HazardStatus) (*domain.HazardReport, error) {
				return nil, domain.ErrNotFound
			},
		}, nil, nil, nil)
	})
	app := setupApp(deps)

	status, body, _ := do(t, app, "PATCH", "/v1/hazards/missing/status", `{"status":"resolved"}`)
	if status != 404 {
		t.Fatalf("expected 404, got %d", status)
	}
	if code := errorCode(t, body); code != "not_found" {
		t.Errorf("expected not_found, got %s", code)
	}
}

func TestUpvoteHazard_LegacyPathDeprecated(t *testing.T) {
	app := setupApp(makeDeps())

	status, _, headers := do(t, app, "POST", "/v1/hazards/h1/upvote", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if headers["Deprecation"] != "true" {
		t.Errorf("expected Deprecation header, got %q", headers["Deprecation"])
	}
	if !strings.Contains(headers["Link"], "/v1/hazards/{id}/upvotes") {
		t.Errorf("expected successor link, got %q", headers["Link"])
	}

	status, _, headers = do(t, app, "POST", "/v1/hazards/h1/upvotes", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if headers["Deprecation"] != "" {
		t.Error("current path must not be marked deprecated")
	}
}

func TestUpvoteHazard_StoreFailure(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Hazards = usecases.NewHazardService(&mockHazardRepo{
			upvoteFn: func(ctx context.Context, id string) (*domain.HazardReport, error) {
				return nil, errors.New("connection reset by peer")
			},
		}, nil, nil, nil)
	})
	app := setupApp(deps)

	status, body, _ := do(t, app, "POST", "/v1/hazards/h1/upvotes", "")
	if status != 500 {
		t.Fatalf("expected 500, got %d", status)
	}
	if strings.Contains(string(body), "connection reset") {
		t.Errorf("internal error leaked: %s", body)
	}
}

func TestForumPosts(t *testing.T) {
	var gotCategory domain.ForumCategory
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Forum = usecases.NewForumService(&mockForumRepo{
			listFn: func(ctx context.Context, category domain.ForumCategory, limit int) ([]domain.ForumPost, error) {
				gotCategory = category
				return []domain.ForumPost{{ID: "p1", Category: category}}, nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	status, _, _ := do(t, app, "GET", "/v1/forum/posts?category=equipment", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if gotCategory != domain.ForumEquipment {
		t.Errorf("expected equipment, got %q", gotCategory)
	}

	status, _, _ = do(t, app, "GET", "/v1/forum/posts?category=gossip", "")
	if status != 400 {
		t.Errorf("expected 400 for unknown category, got %d", status)
	}

	status, body, _ := do(t, app, "POST", "/v1/forum/posts", `{"title":"Ramps in Casco Viejo","content":"Which streets are step-free?","author":"mikel"}`)
	if status != 201 {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}
	var post domain.ForumPost
	if err := json.Unmarshal(body, &post); err != nil {
		t.Fatal(err)
	}
	if post.Category != domain.ForumGeneral {
		t.Errorf("expected default category general, got %q", post.Category)
	}

	status, _, _ = do(t, app, "POST", "/v1/forum/posts/p1/likes", "")
	if status != 200 {
		t.Errorf("expected 200, got %d", status)
	}
}

// ---- GraphQL ----

func TestGraphQL_PlanRoute(t *testing.T) {
	app := setupApp(makeDeps())

	query := fmt.Sprintf(`{"query":"{ planRoute(originLat: %v, originLon: %v, destinationLat: %v, destinationLon: %v, avoidStairs: true) { profile options { kind accessibility_score estimated } steps { kind steps { instruction } } } }"}`,
		origin.Lat, origin.Lon, destination.Lat, destination.Lon)
	status, body, _ := do(t, app, "POST", "/graphql", query)
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}

	var result struct {
		Data struct {
			PlanRoute struct {
				Profile string `json:"profile"`
				Options []struct {
					Kind string `json:"kind"`
				} `json:"options"`
				Steps []struct {
					Kind string `json:"kind"`
				} `json:"steps"`
			} `json:"planRoute"`
		} `json:"data"`
		Errors []interface{} `json:"errors"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) > 0 {
		t.Fatalf("graphql errors: %v", result.Errors)
	}
	plan := result.Data.PlanRoute
	if plan.Profile != "wheelchair" {
		t.Errorf("expected wheelchair profile, got %q", plan.Profile)
	}
	if len(plan.Options) != 3 || len(plan.Steps) != 3 {
		t.Fatalf("expected 3 options and 3 step lists, got %d/%d", len(plan.Options), len(plan.Steps))
	}
	if plan.Steps[0].Kind != "accessible" || plan.Steps[2].Kind != "scenic" {
		t.Errorf("steps not in option order: %+v", plan.Steps)
	}
}

// ---- System ----

func TestHealth_Returns200(t *testing.T) {
	app := setupApp(makeDeps())

	status, body, _ := do(t, app, "GET", "/v1/health", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var out map[string]string
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if out["providers"] != "offline" {
		t.Errorf("expected offline providers, got %q", out["providers"])
	}
}

func TestReady_NoDB(t *testing.T) {
	app := setupApp(makeDeps())

	status, _, _ := do(t, app, "GET", "/v1/ready", "")
	if status != 503 {
		t.Fatalf("expected 503 without a database, got %d", status)
	}
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func TestReady_AllUp(t *testing.T) {
	app := setupApp(makeDeps(func(d *handler.Dependencies) {
		d.DB = okPinger{}
		d.Cache = okPinger{}
	}))

	status, body, _ := do(t, app, "GET", "/v1/ready", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
}

func TestAPIVersionHeader(t *testing.T) {
	app := setupApp(makeDeps())

	_, _, headers := do(t, app, "GET", "/v1/health", "")
	if v := headers["X-Api-Version"]; v != "1.0.0" {
		t.Errorf("expected X-API-Version 1.0.0, got %q", v)
	}
}

// TestAccessLogMiddleware verifies structured access logging passes responses through.
func TestAccessLogMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(handler.AccessLogMiddleware())
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.ErrTeapot
	})

	status, body, _ := do(t, app, "GET", "/test", "")
	if status != fiber.StatusOK {
		t.Errorf("expected 200, got %d", status)
	}
	if !strings.Contains(string(body), "ok") {
		t.Errorf("expected response body to contain 'ok', got %s", body)
	}

	status, _, _ = do(t, app, "GET", "/boom", "")
	if status != fiber.StatusTeapot {
		t.Errorf("expected handler error status to survive logging, got %d", status)
	}
}
