package search

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://html.duckduckgo.com/html/"

// Result is one web search hit
type Result struct {
	Title   string
	Snippet string
	URL     string
}

// Client performs web searches against the DuckDuckGo HTML endpoint,
// which requires no API key
type Client struct {
	client  *resty.Client
	baseURL string
}

// NewClient creates a new search client
func NewClient() *Client {
	return &Client{
		client: resty.New().
			SetTimeout(15 * time.Second).
			SetHeader("User-Agent", "cruxd/1.0"),
		baseURL: defaultBaseURL,
	}
}

// Search returns up to maxResults hits for the query
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		Get(c.baseURL)

	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse search results: %w", err)
	}

	var results []Result
	doc.Find("div.result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		link := sel.Find("a.result__a").First()
		href, _ := link.Attr("href")
		results = append(results, Result{
			Title:   strings.TrimSpace(link.Text()),
			Snippet: strings.TrimSpace(sel.Find(".result__snippet").First().Text()),
			URL:     resolveRedirect(href),
		})
		return len(results) < maxResults
	})

	return results, nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links to the
// target URL when present
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
