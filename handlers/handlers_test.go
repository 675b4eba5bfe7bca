package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"personalization_api/models"
	"personalization_api/services"
)

const testKey = "test-api-key"

type stubStore struct {
	posts []models.Post
}

func (s *stubStore) QueryEligible(ctx context.Context, eligibleOnly bool) ([]models.Post, error) {
	var out []models.Post
	for _, p := range s.posts {
		if !p.IsPublished() {
			continue
		}
		if eligibleOnly && !p.HasTargeting() {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *stubStore) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	for _, p := range s.posts {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubStore) ListTargeted(ctx context.Context) ([]models.Post, error) {
	var out []models.Post
	for _, p := range s.posts {
		if p.HasTargeting() {
			out = append(out, p)
		}
	}
	return out, nil
}

type stubAnalytics struct {
	impressions map[int64]int64
	clicks      map[int64]int64
}

func newStubAnalytics() *stubAnalytics {
	return &stubAnalytics{impressions: map[int64]int64{}, clicks: map[int64]int64{}}
}

func (s *stubAnalytics) RecordImpressions(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		s.impressions[id]++
	}
	return nil
}

func (s *stubAnalytics) RecordClick(ctx context.Context, id int64) error {
	s.clicks[id]++
	return nil
}

func (s *stubAnalytics) GetImpressions(ctx context.Context, id int64) (int64, error) {
	return s.impressions[id], nil
}

func (s *stubAnalytics) GetClicks(ctx context.Context, id int64) (int64, error) {
	return s.clicks[id], nil
}

func (s *stubAnalytics) ListCounters(ctx context.Context) ([]models.PostStats, error) {
	var stats []models.PostStats
	for id, imp := range s.impressions {
		stats = append(stats, models.PostStats{PostID: id, Impressions: imp, Clicks: s.clicks[id]})
	}
	return stats, nil
}

func newTestRouter(t *testing.T) (*chi.Mux, *stubAnalytics) {
	t.Helper()

	store := &stubStore{posts: []models.Post{
		{ID: 1, Title: "Fintech trends", Excerpt: "trends", URL: "https://example.com/1",
			Status: models.StatusPublish, Industry: "Finance", PublishedAt: time.Now()},
		{ID: 2, Title: "Draft piece", Status: models.StatusDraft, Industry: "finance"},
	}}
	analytics := newStubAnalytics()

	cache := services.NewRecommendationCache(time.Minute)
	keys := services.NewAPIKeyService(context.Background(), testKey, nil, cache)
	api := &API{
		Recommendations: services.NewRecommendationService(store, analytics, cache, 10, 50),
		Analytics:       services.NewAnalyticsService(analytics),
		Keys:            keys,
		Store:           store,
	}

	r := chi.NewRouter()
	RegisterRoutes(r, api)
	return r, analytics
}

func doRequest(r http.Handler, method, target, key, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRecommendationsRequiresAPIKey(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/recommendations", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	var resp models.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.Code != models.CodeUnauthorized {
		t.Fatalf("expected code %d, got %d", models.CodeUnauthorized, resp.Code)
	}
}

func TestRecommendationsWrongKeyRejected(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doRequest(r, http.MethodGet, "/recommendations", "wrong", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRecommendationsWithQueryParamKey(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doRequest(r, http.MethodGet, "/recommendations?api_key="+testKey, "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRecommendationsEndToEnd(t *testing.T) {
	r, analytics := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/recommendations?industry=tech,finance", testKey, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp models.RecommendationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.Total != 1 || len(resp.Posts) != 1 {
		t.Fatalf("expected the published finance post only, got %+v", resp)
	}
	// Finance 对 tech,finance 的大小写不敏感匹配
	if resp.Posts[0].ID != 1 || resp.Posts[0].MatchScore != 1.0 {
		t.Fatalf("expected post 1 with match_score 1.0, got %+v", resp.Posts[0])
	}
	if resp.Page != 1 || resp.PerPage != 10 {
		t.Fatalf("expected default pagination 1/10, got %d/%d", resp.Page, resp.PerPage)
	}
	if analytics.impressions[1] != 1 {
		t.Fatalf("expected 1 impression recorded, got %d", analytics.impressions[1])
	}
}

func TestRecordClickUnpublished(t *testing.T) {
	r, analytics := newTestRouter(t)

	w := doRequest(r, http.MethodPost, "/record-click", testKey, `{"post_id":2}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp models.ClickResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.Success {
		t.Fatal("expected success=false")
	}
	if len(analytics.clicks) != 0 {
		t.Fatal("rejected click must not increment counters")
	}
}

func TestRecordClickPublished(t *testing.T) {
	r, analytics := newTestRouter(t)

	w := doRequest(r, http.MethodPost, "/record-click", testKey, `{"post_id":1}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp models.ClickResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success=true")
	}
	if analytics.clicks[1] != 1 {
		t.Fatalf("expected 1 click, got %d", analytics.clicks[1])
	}
}

func TestRotateAPIKeyInvalidatesOldKey(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodPost, "/admin/api-key/rotate", testKey, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Code int                   `json:"code"`
		Data models.APIKeyResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if !regexp.MustCompile(`^[0-9a-f]{64}$`).MatchString(resp.Data.APIKey) {
		t.Fatalf("expected 64 hex chars, got %q", resp.Data.APIKey)
	}

	// 旧密钥立即失效
	if w := doRequest(r, http.MethodGet, "/recommendations", testKey, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected old key rejected with 401, got %d", w.Code)
	}
	// 新密钥可用
	if w := doRequest(r, http.MethodGet, "/recommendations", resp.Data.APIKey, ""); w.Code != http.StatusOK {
		t.Fatalf("expected new key accepted, got %d", w.Code)
	}
}

func TestAdminAnalyticsListing(t *testing.T) {
	r, _ := newTestRouter(t)

	// 先制造一次曝光和一次点击
	doRequest(r, http.MethodGet, "/recommendations?industry=finance", testKey, "")
	doRequest(r, http.MethodPost, "/record-click", testKey, `{"post_id":1}`)

	w := doRequest(r, http.MethodGet, "/admin/analytics/1", testKey, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Code int              `json:"code"`
		Data models.PostStats `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.Data.Impressions != 1 || resp.Data.Clicks != 1 {
		t.Fatalf("unexpected stats: %+v", resp.Data)
	}
	if resp.Data.CTR == nil || *resp.Data.CTR != 1.0 {
		t.Fatalf("expected CTR 1.0, got %v", resp.Data.CTR)
	}
}

func TestAdminAudienceListing(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/admin/audience", testKey, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Code int                   `json:"code"`
		Data []models.AudiencePost `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	// 两篇文章都带定向属性（含草稿）
	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 targeted posts, got %d", len(resp.Data))
	}
}
