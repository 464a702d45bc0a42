package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"

	"brieflinks/internal/config"
	"brieflinks/internal/db"
	"brieflinks/internal/email"
	"brieflinks/internal/testutil"
	"brieflinks/internal/webhook"
)

func newBriefApp(t *testing.T, hookURL string) (*fiber.App, *db.DB, func()) {
	t.Helper()
	if os.Getenv("TEST_DATABASE_URL") == "" && os.Getenv("RUN_INTEGRATION_TESTS") == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	database, cleanup := testutil.TestDB(t)

	cfg := &config.Config{AppBaseURL: "https://app.example.com", SiteTitle: "Leaders Brief"}
	h := NewBriefHandler(database, cfg, email.NewTemplates(cfg), webhook.New(hookURL))

	app := fiber.New()
	app.Get("/api/briefs/:token", h.Get)
	app.Post("/api/briefs/:token/submit", h.Submit)

	return app, database, cleanup
}

func TestBriefGet(t *testing.T) {
	app, database, cleanup := newBriefApp(t, "")
	defer cleanup()

	creatorID := testutil.CreateTestUser(t, database, "sub-get", "creator@example.com", "Creator")
	testutil.CreateTestBrief(t, database, creatorID, "tok-get", "client@example.com", time.Now())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/briefs/tok-get", nil))
	if err != nil {
		t.Fatalf("app.Test error = %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["status"] != "pending" {
		t.Errorf("status = %v, want pending", body["status"])
	}
	if body["language"] != "he" {
		t.Errorf("language = %v, want he", body["language"])
	}
	if body["creator_name"] != "Creator" {
		t.Errorf("creator_name = %v", body["creator_name"])
	}
	if _, ok := body["creator_email"]; ok {
		t.Error("creator_email must not be exposed to the client")
	}
}

func TestBriefGet_NotFound(t *testing.T) {
	app, _, cleanup := newBriefApp(t, "")
	defer cleanup()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/briefs/no-such-token", nil))
	if err != nil {
		t.Fatalf("app.Test error = %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func submitRequest(token, payload string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/briefs/"+token+"/submit", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestBriefSubmit_CompletesOnce(t *testing.T) {
	var received map[string]any
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusOK)
	}))
	defer hook.Close()

	app, database, cleanup := newBriefApp(t, hook.URL)
	defer cleanup()

	creatorID := testutil.CreateTestUser(t, database, "sub-submit", "creator@example.com", "Creator")
	testutil.CreateTestBrief(t, database, creatorID, "tok-submit", "client@example.com", time.Now())

	resp, err := app.Test(submitRequest("tok-submit", `{"company":"Acme","goal":"rebrand"}`))
	if err != nil {
		t.Fatalf("app.Test error = %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	if received["_type"] != webhook.TypeBriefCompleted {
		t.Errorf("_type = %v", received["_type"])
	}
	answers, _ := received["answers"].(map[string]any)
	if answers["company"] != "Acme" {
		t.Errorf("answers = %v", received["answers"])
	}

	brief, err := database.GetBriefByToken(t.Context(), "tok-submit")
	if err != nil {
		t.Fatalf("GetBriefByToken() error = %v", err)
	}
	if brief.Status != "completed" {
		t.Errorf("status = %q, want completed", brief.Status)
	}

	// Second submission conflicts.
	resp, err = app.Test(submitRequest("tok-submit", `{"company":"Acme"}`))
	if err != nil {
		t.Fatalf("app.Test error = %v", err)
	}
	if resp.StatusCode != fiber.StatusConflict {
		t.Errorf("second submit status = %d, want 409", resp.StatusCode)
	}
}

func TestBriefSubmit_WebhookFailureKeepsPending(t *testing.T) {
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer hook.Close()

	app, database, cleanup := newBriefApp(t, hook.URL)
	defer cleanup()

	creatorID := testutil.CreateTestUser(t, database, "sub-fail", "creator@example.com", "Creator")
	testutil.CreateTestBrief(t, database, creatorID, "tok-fail", "client@example.com", time.Now())

	resp, err := app.Test(submitRequest("tok-fail", `{"company":"Acme"}`))
	if err != nil {
		t.Fatalf("app.Test error = %v", err)
	}
	if resp.StatusCode != fiber.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}

	brief, err := database.GetBriefByToken(t.Context(), "tok-fail")
	if err != nil {
		t.Fatalf("GetBriefByToken() error = %v", err)
	}
	if brief.Status != "pending" {
		t.Errorf("status = %q, want pending after webhook failure", brief.Status)
	}
}
