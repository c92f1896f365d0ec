package scanner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newsDataServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("apikey"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestScanner_Scan_DeduplicatesByHeadline(t *testing.T) {
	server := newsDataServer(t, `{
		"status": "success",
		"results": [
			{"title": "Earthquake reported", "link": "https://a.example", "description": "First report", "source_id": "outlet_a"},
			{"title": "Earthquake reported", "link": "https://b.example", "description": "Duplicate report", "source_id": "outlet_b"},
			{"title": "Markets rally", "link": "https://c.example", "description": "", "source_id": "outlet_c"}
		]
	}`, http.StatusOK)
	defer server.Close()

	s := NewScanner("test-key")
	s.baseURL = server.URL

	claims := s.Scan(context.Background(), "")

	require.Len(t, claims, 2)
	seen := map[string]bool{}
	for _, c := range claims {
		assert.False(t, seen[c.Text], "headline %q appears twice", c.Text)
		seen[c.Text] = true
	}

	assert.Equal(t, "Earthquake reported", claims[0].Text)
	assert.Equal(t, "outlet_a", claims[0].Source)
	require.Len(t, claims[0].Evidence, 1)
	assert.Equal(t, "First report", claims[0].Evidence[0].Content)

	// Description missing: headline backs the evidence content
	assert.Equal(t, "Markets rally", claims[1].Evidence[0].Content)
}

func TestScanner_Scan_NoAPIKeyFallsBack(t *testing.T) {
	s := NewScanner("")

	claims := s.Scan(context.Background(), "")

	require.Len(t, claims, 1)
	assert.Equal(t, "Breaking: Major earthquake reported in Japan.", claims[0].Text)
	assert.Equal(t, "social_media_mock", claims[0].Source)
}

func TestScanner_Scan_FeedErrorFallsBack(t *testing.T) {
	server := newsDataServer(t, `{"status":"error"}`, http.StatusUnauthorized)
	defer server.Close()

	s := NewScanner("bad-key")
	s.baseURL = server.URL

	claims := s.Scan(context.Background(), "")

	require.Len(t, claims, 1)
	assert.Equal(t, "social_media_mock", claims[0].Source)
}

func TestScanner_Scan_MalformedResponseFallsBack(t *testing.T) {
	server := newsDataServer(t, `not json at all`, http.StatusOK)
	defer server.Close()

	s := NewScanner("test-key")
	s.baseURL = server.URL

	claims := s.Scan(context.Background(), "")

	require.Len(t, claims, 1)
	assert.Equal(t, "social_media_mock", claims[0].Source)
}

func TestScanner_ScanByCategory_MapsKnownCategories(t *testing.T) {
	var gotCategory string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCategory = r.URL.Query().Get("category")
		w.Write([]byte(`{"status":"success","results":[{"title":"Budget vote passes","source_id":"wire"}]}`))
	}))
	defer server.Close()

	s := NewScanner("test-key")
	s.baseURL = server.URL

	claims := s.ScanByCategory(context.Background(), "finance")

	assert.Equal(t, "business", gotCategory)
	require.Len(t, claims, 1)
	assert.Equal(t, "Budget vote passes", claims[0].Text)
}

func TestScanner_ScanByCategory_UnknownCategoryUsesDefault(t *testing.T) {
	var gotCategory string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCategory = r.URL.Query().Get("category")
		w.Write([]byte(`{"status":"success","results":[]}`))
	}))
	defer server.Close()

	s := NewScanner("test-key")
	s.baseURL = server.URL

	claims := s.ScanByCategory(context.Background(), "made-up-topic")

	assert.Equal(t, "top", gotCategory)
	// Empty result set still yields one fallback claim
	require.Len(t, claims, 1)
	assert.Equal(t, "mock_data", claims[0].Source)
	assert.Equal(t, "Latest news update.", claims[0].Text)
}

func TestScanner_ScanByCategory_NoKeyUsesCannedClaim(t *testing.T) {
	s := NewScanner("")

	claims := s.ScanByCategory(context.Background(), "health")

	require.Len(t, claims, 1)
	assert.Equal(t, "New health guidelines announced by WHO.", claims[0].Text)
	assert.Equal(t, "mock_data", claims[0].Source)
}

func TestScanner_Scan_RSSFeedSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(`<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Wire Service</title>
    <item><title>Storm approaches coast</title><link>https://wire.example/1</link><description>Forecasters warn of landfall</description></item>
    <item><title>Storm approaches coast</title><link>https://wire.example/2</link><description>Duplicate headline</description></item>
  </channel>
</rss>`))
	}))
	defer server.Close()

	s := NewScanner("")

	claims := s.Scan(context.Background(), server.URL)

	require.Len(t, claims, 1)
	assert.Equal(t, "Storm approaches coast", claims[0].Text)
	assert.Equal(t, "Wire Service", claims[0].Source)
	require.Len(t, claims[0].Evidence, 1)
	assert.Equal(t, "https://wire.example/1", claims[0].Evidence[0].URL)
}
