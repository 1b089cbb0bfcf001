package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vecindario/internal/model"
	"vecindario/internal/recommend"
	"vecindario/internal/signals"
)

type fakeLister struct {
	list []model.Neighborhood
	err  error
}

func (f fakeLister) ListNeighborhoods(ctx context.Context) ([]model.Neighborhood, error) {
	return f.list, f.err
}

type failingRanker struct{}

func (failingRanker) Recommend(ctx context.Context, p model.UserProfile, ns []model.Neighborhood) (*model.RecommendationResponse, error) {
	return nil, errors.New("boom")
}

func sig(v float64, tier model.SalaryTier) model.NeighborhoodSignals {
	return model.NeighborhoodSignals{
		Values: model.CategoryValues{Security: v, Shops: v, Walkability: v, PublicTransport: v},
		Extras: model.LifestyleExtras{GreenZones: v, Noise: v, AirQuality: v, SalaryTier: tier},
	}
}

func newTestServer(lister NeighborhoodLister) *Server {
	provider := signals.NewStaticProvider(map[string]model.NeighborhoodSignals{
		"Centro":   sig(80, model.SalaryHigh),
		"Norte":    sig(60, model.SalaryMedium),
		"Sur":      sig(40, model.SalaryLow),
		"Poniente": sig(20, model.SalaryLow),
	})
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := recommend.New(provider, recommend.Options{
		Now:      func() time.Time { return fixed },
		NewRunID: func() string { return "run-1" },
	})
	return NewServer(r, lister, 0)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(nil).Routes(), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
}

func TestWeightsEndpoint(t *testing.T) {
	rec := do(t, newTestServer(nil).Routes(), http.MethodPost, "/api/weights",
		`{"profile":{"environment":"naturaleza"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d body=%s", rec.Code, rec.Body.String())
	}
	var out WeightsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Weights[model.GreenZones] != 100 {
		t.Fatalf("GreenZones weight: %d", out.Weights[model.GreenZones])
	}
	if len(out.Contributions) == 0 {
		t.Fatalf("expected contributions")
	}
}

func TestRecommendWithInlineNeighborhoods(t *testing.T) {
	body := `{"profile":{"budget":"bajo"},"neighborhoods":[
		{"name":"Centro","lat":40.4,"lon":-3.7},
		{"name":"Sur","lat":40.3,"lon":-3.7},
		{"name":"Poniente","lat":40.4,"lon":-3.8}]}`
	rec := do(t, newTestServer(nil).Routes(), http.MethodPost, "/api/recommendations", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d body=%s", rec.Code, rec.Body.String())
	}
	var out model.RecommendationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Recommendations) != 2 {
		t.Fatalf("want 2 low-tier results, got %d", len(out.Recommendations))
	}
	for _, r := range out.Recommendations {
		if r.LifestyleExtras.SalaryTier != model.SalaryLow {
			t.Fatalf("unexpected tier for %s: %s", r.Name, r.LifestyleExtras.SalaryTier)
		}
	}
	if out.Metadata.RunID != "run-1" || out.Metadata.TotalNeighborhoods != 3 {
		t.Fatalf("metadata: %+v", out.Metadata)
	}
}

func TestRecommendFallsBackToStoredList(t *testing.T) {
	lister := fakeLister{list: []model.Neighborhood{{Name: "Centro"}, {Name: "Norte"}, {Name: "Sur"}, {Name: "Poniente"}}}
	rec := do(t, newTestServer(lister).Routes(), http.MethodPost, "/api/recommendations?limit=2", `{"profile":{}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d body=%s", rec.Code, rec.Body.String())
	}
	var out model.RecommendationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Recommendations) != 2 {
		t.Fatalf("limit not applied: %d", len(out.Recommendations))
	}
	if out.Metadata.TotalNeighborhoods != 4 {
		t.Fatalf("total: %d", out.Metadata.TotalNeighborhoods)
	}
	if out.Recommendations[0].FinalScore < out.Recommendations[1].FinalScore {
		t.Fatalf("not sorted: %+v", out.Recommendations)
	}
}

func TestRecommendRejectsBadInput(t *testing.T) {
	h := newTestServer(nil).Routes()
	rec := do(t, h, http.MethodPost, "/api/recommendations", `{"profile":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad json status: %d", rec.Code)
	}
	rec = do(t, h, http.MethodPost, "/api/recommendations",
		`{"profile":{},"neighborhoods":[{"name":"","lat":40,"lon":-3}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing name status: %d", rec.Code)
	}
	rec = do(t, h, http.MethodPost, "/api/recommendations",
		`{"profile":{},"neighborhoods":[{"name":"Centro","lat":120,"lon":-3}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad latitude status: %d", rec.Code)
	}
	var body errorBody
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Error != "validation_error" {
		t.Fatalf("error code: %+v", body)
	}
}

func TestRecommendRunFailure(t *testing.T) {
	s := NewServer(failingRanker{}, nil, 0)
	rec := do(t, s.Routes(), http.MethodPost, "/api/recommendations",
		`{"profile":{},"neighborhoods":[{"name":"Centro","lat":40,"lon":-3}]}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: %d", rec.Code)
	}
}

func TestNeighborhoodsEndpoint(t *testing.T) {
	lister := fakeLister{list: []model.Neighborhood{{Name: "Centro", Lat: 40.4, Lon: -3.7}}}
	rec := do(t, newTestServer(lister).Routes(), http.MethodGet, "/api/neighborhoods", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	var out []model.Neighborhood
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil || len(out) != 1 {
		t.Fatalf("decode: %v %+v", err, out)
	}

	rec = do(t, newTestServer(fakeLister{err: errors.New("disk")}).Routes(), http.MethodGet, "/api/neighborhoods", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("store failure status: %d", rec.Code)
	}
}

func TestRecommendRejectsBadLimit(t *testing.T) {
	h := newTestServer(fakeLister{list: []model.Neighborhood{{Name: "Centro"}}}).Routes()
	for _, q := range []string{"abc", "-1", "1.5"} {
		rec := do(t, h, http.MethodPost, "/api/recommendations?limit="+q, `{"profile":{}}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("limit=%s status: %d", q, rec.Code)
		}
		var body errorBody
		_ = json.Unmarshal(rec.Body.Bytes(), &body)
		if body.Error != "validation_error" {
			t.Fatalf("limit=%s error code: %+v", q, body)
		}
	}
}
