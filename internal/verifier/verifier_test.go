package verifier

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cruxlabs/cruxd/internal/models"
	"github.com/cruxlabs/cruxd/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSearcher returns canned results or a canned error
type stubSearcher struct {
	results []search.Result
	err     error
}

func (s *stubSearcher) Search(_ context.Context, _ string, maxResults int) ([]search.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.results) > maxResults {
		return s.results[:maxResults], nil
	}
	return s.results, nil
}

func TestVerifier_Verify_LinkSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Article Title</title><style>p{color:red}</style></head>` +
			`<body><p>Visible article body text.</p><script>ignored()</script></body></html>`))
	}))
	defer server.Close()

	v := NewVerifier(&stubSearcher{})
	claim := models.NewClaim("", "")

	claim = v.Verify(context.Background(), claim, server.URL, nil)

	require.NotEmpty(t, claim.Evidence)
	ev := claim.Evidence[0]
	assert.Equal(t, "User Link: Article Title", ev.Source)
	assert.Contains(t, ev.Content, "Visible article body text.")
	assert.NotContains(t, ev.Content, "ignored()")
	assert.NotContains(t, ev.Content, "color:red")
	assert.Equal(t, server.URL, ev.URL)

	// Empty claim text is synthesized from the link
	assert.Equal(t, "Check content from "+server.URL, claim.Text)
}

func TestVerifier_Verify_LinkFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	v := NewVerifier(&stubSearcher{})
	claim := models.NewClaim("Some claim", "")

	claim = v.Verify(context.Background(), claim, server.URL, nil)

	require.NotEmpty(t, claim.Evidence)
	ev := claim.Evidence[0]
	assert.Equal(t, "User Link", ev.Source)
	assert.Contains(t, ev.Content, "Failed to fetch content")
	assert.Equal(t, server.URL, ev.URL)
}

func TestVerifier_Verify_UnreachableLinkNeverRaises(t *testing.T) {
	v := NewVerifier(&stubSearcher{})
	claim := models.NewClaim("Some claim", "")
	link := "http://127.0.0.1:1/nothing-here"

	claim = v.Verify(context.Background(), claim, link, nil)

	require.NotEmpty(t, claim.Evidence)
	assert.Equal(t, link, claim.Evidence[0].URL)
	assert.Contains(t, claim.Evidence[0].Content, "Failed to fetch content")
}

func TestVerifier_Verify_EvidenceOrdering(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Page</title></head><body>content</body></html>`))
	}))
	defer server.Close()

	v := NewVerifier(&stubSearcher{results: []search.Result{
		{Title: "Result One", Snippet: "snippet", URL: "https://one.example"},
	}})
	claim := models.NewClaim("A claim with text", "")

	claim = v.Verify(context.Background(), claim, server.URL, []byte{0x89, 0x50})

	require.Len(t, claim.Evidence, 3)
	assert.True(t, strings.HasPrefix(claim.Evidence[0].Source, "User Link"))
	assert.Equal(t, "User Image", claim.Evidence[1].Source)
	assert.Equal(t, "Result One", claim.Evidence[2].Source)
}

func TestVerifier_Verify_ImageOnly(t *testing.T) {
	v := NewVerifier(&stubSearcher{})
	claim := models.NewClaim("", "")

	claim = v.Verify(context.Background(), claim, "", []byte{1, 2, 3})

	assert.Equal(t, "Verify uploaded image content", claim.Text)
	// Synthesized text triggers the search stage afterward; with no stub
	// results the evidence list holds just the image receipt
	require.NotEmpty(t, claim.Evidence)
	assert.Equal(t, "User Image", claim.Evidence[0].Source)
}

func TestVerifier_Verify_SearchResultsBecomeEvidence(t *testing.T) {
	v := NewVerifier(&stubSearcher{results: []search.Result{
		{Title: "First", Snippet: "first snippet", URL: "https://1.example"},
		{Title: "", Snippet: "second snippet", URL: "https://2.example"},
		{Title: "Third", Snippet: "third snippet", URL: "https://3.example"},
		{Title: "Fourth", Snippet: "never returned", URL: "https://4.example"},
	}})
	claim := models.NewClaim("Checkable claim", "")

	claim = v.Verify(context.Background(), claim, "", nil)

	require.Len(t, claim.Evidence, 3)
	assert.Equal(t, "First", claim.Evidence[0].Source)
	// Missing result titles degrade to Unknown
	assert.Equal(t, "Unknown", claim.Evidence[1].Source)
	assert.Equal(t, "https://3.example", claim.Evidence[2].URL)
}

func TestVerifier_Verify_SearchFailureBecomesEvidence(t *testing.T) {
	v := NewVerifier(&stubSearcher{err: errors.New("rate limited")})
	claim := models.NewClaim("Checkable claim", "")

	claim = v.Verify(context.Background(), claim, "", nil)

	require.Len(t, claim.Evidence, 1)
	assert.Equal(t, "Search Error", claim.Evidence[0].Source)
	assert.Contains(t, claim.Evidence[0].Content, "rate limited")
	assert.Empty(t, claim.Evidence[0].URL)
}

func TestVerifier_Verify_NoTextSkipsSearch(t *testing.T) {
	v := NewVerifier(&stubSearcher{err: errors.New("should not be called")})
	claim := models.NewClaim("", "")

	claim = v.Verify(context.Background(), claim, "", nil)

	assert.Empty(t, claim.Evidence)
}
