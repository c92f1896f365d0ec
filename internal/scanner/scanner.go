package scanner

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cruxlabs/cruxd/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://newsdata.io/api/1"

// crisisQuery drives the unfiltered scan toward breaking-news topics
const crisisQuery = "crisis OR war OR disaster OR emergency OR earthquake OR attack"

// categoryMapping maps frontend topic labels to the NewsData API's own
// category vocabulary. Unknown labels fall back to "top".
var categoryMapping = map[string]string{
	"general-news":  "top",
	"politics":      "politics",
	"health":        "health",
	"crisis":        "world",
	"finance":       "business",
	"tech-ai":       "technology",
	"science":       "science",
	"crime":         "crime",
	"international": "world",
	"social":        "entertainment",
}

// mockNewsByCategory backs the per-category fallback when the feed is
// unavailable or returns nothing
var mockNewsByCategory = map[string]string{
	"general-news":  "Breaking: Major developments in global affairs.",
	"politics":      "Election results show surprising turnout.",
	"health":        "New health guidelines announced by WHO.",
	"crisis":        "Emergency response teams deployed to affected areas.",
	"finance":       "Stock markets show mixed signals amid economic uncertainty.",
	"tech-ai":       "AI breakthrough announced by leading tech company.",
	"science":       "Scientists discover new insights into climate patterns.",
	"crime":         "Law enforcement reports decrease in crime rates.",
	"international": "International summit addresses global challenges.",
	"social":        "Viral social media trend sparks global conversation.",
}

// Scanner fetches candidate claims from a news feed
type Scanner struct {
	client  *resty.Client
	parser  *gofeed.Parser
	apiKey  string
	baseURL string
}

type newsDataResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		Description string `json:"description"`
		SourceID    string `json:"source_id"`
	} `json:"results"`
}

// NewScanner creates a new scanner. An empty apiKey disables the NewsData
// API and selects the canned fallback claims.
func NewScanner(apiKey string) *Scanner {
	return &Scanner{
		client: resty.New().
			SetTimeout(30 * time.Second).
			SetHeader("User-Agent", "cruxd/1.0"),
		parser:  gofeed.NewParser(),
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
	}
}

// Scan fetches the latest claims. A non-empty sourceURL is treated as an
// RSS/Atom feed; otherwise the NewsData API is queried for crisis topics.
// Any failure is logged and yields the single canned crisis claim, never
// an error and never an empty sequence.
func (s *Scanner) Scan(ctx context.Context, sourceURL string) []models.Claim {
	var claims []models.Claim

	switch {
	case sourceURL != "":
		claims = s.scanFeed(ctx, sourceURL)
	case s.apiKey != "":
		claims = s.scanNewsData(ctx, map[string]string{
			"q":        crisisQuery,
			"language": "en",
			"country":  "us",
		})
	default:
		logrus.Debug("No NEWSDATA_API_KEY configured, using mock data")
	}

	if len(claims) == 0 {
		logrus.Info("Scan returned no articles, falling back to mock crisis data")
		claims = append(claims, models.NewClaim("Breaking: Major earthquake reported in Japan.", "social_media_mock"))
	}
	return claims
}

// ScanByCategory fetches claims for one topic label. Failures fall back to
// a single canned claim for the category.
func (s *Scanner) ScanByCategory(ctx context.Context, category string) []models.Claim {
	apiCategory, ok := categoryMapping[category]
	if !ok {
		apiCategory = "top"
	}

	var claims []models.Claim
	if s.apiKey != "" {
		logrus.Infof("Fetching %s news (API category: %s)", category, apiCategory)
		claims = s.scanNewsData(ctx, map[string]string{
			"category": apiCategory,
			"language": "en",
		})
	} else {
		logrus.Debugf("Using mock data for %s (no NEWSDATA_API_KEY)", category)
	}

	if len(claims) == 0 {
		text, ok := mockNewsByCategory[category]
		if !ok {
			text = "Latest news update."
		}
		claims = append(claims, models.NewClaim(text, "mock_data"))
	}
	return claims
}

// scanNewsData queries the NewsData API and converts articles to claims,
// deduplicating strictly by exact headline text within the call
func (s *Scanner) scanNewsData(ctx context.Context, params map[string]string) []models.Claim {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("apikey", s.apiKey).
		SetQueryParams(params).
		Get(s.baseURL + "/news")

	if err != nil {
		logrus.Errorf("NewsData request failed: %v", err)
		return nil
	}
	if resp.StatusCode() != 200 {
		logrus.Errorf("NewsData API returned status %d", resp.StatusCode())
		return nil
	}

	var body newsDataResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		logrus.Errorf("Failed to parse NewsData response: %v", err)
		return nil
	}

	var claims []models.Claim
	seenTitles := make(map[string]bool)
	for _, article := range body.Results {
		title := article.Title
		if title == "" {
			title = "No title"
		}
		if seenTitles[title] {
			continue
		}
		seenTitles[title] = true

		source := article.SourceID
		if source == "" {
			source = "newsdata"
		}
		content := article.Description
		if content == "" {
			content = title
		}

		claim := models.NewClaim(title, source)
		claim.AddEvidence(source, content, article.Link)
		claims = append(claims, claim)
	}

	logrus.Infof("Fetched %d articles from NewsData", len(claims))
	return claims
}

// scanFeed parses an RSS/Atom feed and converts its items to claims with
// the same headline dedup rules as the API path
func (s *Scanner) scanFeed(ctx context.Context, feedURL string) []models.Claim {
	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		logrus.Errorf("Failed to parse feed %s: %v", feedURL, err)
		return nil
	}

	source := feed.Title
	if source == "" {
		source = feedURL
	}

	var claims []models.Claim
	seenTitles := make(map[string]bool)
	for _, item := range feed.Items {
		title := item.Title
		if title == "" {
			title = "No title"
		}
		if seenTitles[title] {
			continue
		}
		seenTitles[title] = true

		content := item.Description
		if content == "" {
			content = title
		}

		claim := models.NewClaim(title, source)
		claim.AddEvidence(source, content, item.Link)
		claims = append(claims, claim)
	}

	logrus.Infof("Fetched %d items from feed %s", len(claims), feedURL)
	return claims
}
