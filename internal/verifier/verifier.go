package verifier

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cruxlabs/cruxd/internal/models"
	"github.com/cruxlabs/cruxd/internal/search"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const (
	linkFetchTimeout = 10 * time.Second
	maxExtractChars  = 1000
	maxSearchResults = 3
)

// Searcher issues web searches for claim text
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]search.Result, error)
}

// Verifier enriches a claim with evidence from a user-supplied link, an
// uploaded image, and a web search on the claim text. Evidence is always
// appended in that order: link, image, search. No failure of an external
// collaborator ever surfaces as an error; each is recorded as evidence.
type Verifier struct {
	client *resty.Client
	search Searcher
}

// NewVerifier creates a new verifier
func NewVerifier(searchClient Searcher) *Verifier {
	return &Verifier{
		client: resty.New().
			SetTimeout(linkFetchTimeout).
			SetHeader("User-Agent", "cruxd/1.0"),
		search: searchClient,
	}
}

// Verify extends the claim's evidence in place and returns the same claim
func (v *Verifier) Verify(ctx context.Context, claim models.Claim, link string, imageData []byte) models.Claim {
	logrus.Infof("Verifying claim: %s", claim.Text)

	if link != "" {
		v.verifyLink(ctx, &claim, link)
	}

	if len(imageData) > 0 {
		logrus.Infof("Received image upload (%d bytes)", len(imageData))
		claim.AddEvidence("User Image", "Image received. (Vision analysis handled separately)", "Uploaded Image")
		if claim.Text == "" {
			claim.Text = "Verify uploaded image content"
		}
	}

	if claim.Text != "" {
		v.verifySearch(ctx, &claim)
	}

	return claim
}

// verifyLink fetches the link and extracts the page title and the first
// portion of visible text as one evidence entry. Fetch or parse failures
// are recorded as evidence instead of raised.
func (v *Verifier) verifyLink(ctx context.Context, claim *models.Claim, link string) {
	logrus.Infof("Fetching content from link: %s", link)

	resp, err := v.client.R().SetContext(ctx).Get(link)
	if err != nil {
		logrus.Errorf("Failed to fetch link %s: %v", link, err)
		claim.AddEvidence("User Link", fmt.Sprintf("Failed to fetch content from %s: %v", link, err), link)
		return
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		logrus.Errorf("Link %s returned status %d", link, resp.StatusCode())
		claim.AddEvidence("User Link", fmt.Sprintf("Failed to fetch content from %s: status %d", link, resp.StatusCode()), link)
		return
	}

	title, text, err := extractPage(resp.Body())
	if err != nil {
		logrus.Errorf("Failed to parse link %s: %v", link, err)
		claim.AddEvidence("User Link", fmt.Sprintf("Error processing link: %v", err), link)
		return
	}
	if title == "" {
		title = link
	}

	claim.AddEvidence(
		fmt.Sprintf("User Link: %s", title),
		fmt.Sprintf("Extracted content: %s...", text),
		link,
	)
	if claim.Text == "" {
		claim.Text = fmt.Sprintf("Check content from %s", link)
	}
	logrus.Info("Successfully extracted content from link")
}

// verifySearch issues a web search on the claim text and appends one
// evidence entry per result. A search failure appends a single entry
// describing the error.
func (v *Verifier) verifySearch(ctx context.Context, claim *models.Claim) {
	logrus.Infof("Searching DuckDuckGo for: %s", claim.Text)

	results, err := v.search.Search(ctx, claim.Text, maxSearchResults)
	if err != nil {
		logrus.Errorf("DuckDuckGo search failed: %v", err)
		claim.AddEvidence("Search Error", fmt.Sprintf("Failed to perform web search: %v", err), "")
		return
	}

	for _, r := range results {
		source := r.Title
		if source == "" {
			source = "Unknown"
		}
		claim.AddEvidence(source, r.Snippet, r.URL)
	}
	logrus.Infof("Found %d search results", len(results))
}

// extractPage pulls the document title and the first maxExtractChars of
// visible text out of an HTML body
func extractPage(body []byte) (title, text string, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("script, style, noscript").Remove()
	visible := strings.Join(strings.Fields(doc.Text()), " ")
	if len(visible) > maxExtractChars {
		visible = visible[:maxExtractChars]
	}
	return title, visible, nil
}
