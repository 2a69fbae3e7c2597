//go:build integration
// +build integration

package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	handler "github.com/samirrijal/accessroute/internal/adapters/http"
	"github.com/samirrijal/accessroute/internal/adapters/fixture"
	"github.com/samirrijal/accessroute/internal/adapters/postgres"
	"github.com/samirrijal/accessroute/internal/core/domain"
	"github.com/samirrijal/accessroute/internal/core/usecases"
	"github.com/samirrijal/accessroute/internal/pkg/config"
)

// setupTestDB connects to the test database and applies the schema.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("accessroute-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	if _, err := db.Migrate(ctx); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// setupTestDeps creates dependencies with the real community store, no cache.
func setupTestDeps(db *postgres.DB) *handler.Dependencies {
	fx := fixture.New()
	return &handler.Dependencies{
		Routes:  usecases.NewRouteService(fx, fx, nil),
		Places:  usecases.NewPlaceService(fx, fx, nil),
		Hazards: usecases.NewHazardService(postgres.NewHazardRepo(db), nil, nil, nil),
		Forum:   usecases.NewForumService(postgres.NewForumRepo(db), nil, nil),
		DB:      db,
		Offline: true,
	}
}

func TestHazardLifecycle_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Close()
	app := setupApp(setupTestDeps(db))

	issue := "Lift out of service " + time.Now().Format("20060102150405")
	body := fmt.Sprintf(`{"location":"Abando station","issue":%q,"reported_by":"integration"}`, issue)
	req := httptest.NewRequest("POST", "/v1/hazards", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var created domain.HazardReport
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	resp, err = app.Test(httptest.NewRequest("POST", "/v1/hazards/"+created.ID+"/upvotes", nil), -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	var upvoted domain.HazardReport
	if err := json.NewDecoder(resp.Body).Decode(&upvoted); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if upvoted.Upvotes != 1 {
		t.Errorf("expected 1 upvote, got %d", upvoted.Upvotes)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/v1/hazards?limit=100", nil), -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	var result struct {
		Data []domain.HazardReport `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	found := false
	for _, h := range result.Data {
		if h.ID == created.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("created hazard %s missing from list", created.ID)
	}
}

func TestUpdateUnknownHazard_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Close()
	app := setupApp(setupTestDeps(db))

	req := httptest.NewRequest("PATCH", "/v1/hazards/00000000-0000-0000-0000-000000000000/status", strings.NewReader(`{"status":"resolved"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestForumByCategory_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Close()
	app := setupApp(setupTestDeps(db))

	req := httptest.NewRequest("POST", "/v1/forum/posts", strings.NewReader(
		`{"title":"Best folding ramp?","content":"Looking for something under 5kg","author":"integration","category":"equipment"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/v1/forum/posts?category=equipment", nil), -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	var result struct {
		Data []domain.ForumPost `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(result.Data) == 0 {
		t.Fatal("expected at least one equipment post")
	}
	for _, p := range result.Data {
		if p.Category != domain.ForumEquipment {
			t.Errorf("unexpected category %q", p.Category)
		}
	}
}
