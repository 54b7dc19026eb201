package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// defaultEndpoint is DuckDuckGo's javascript-free frontend. Emulating a
// browser for the full site is slow and expensive; the lite HTML is stable
// enough to parse directly.
const defaultEndpoint = "https://lite.duckduckgo.com/lite"

// Result is one search hit.
type Result struct {
	Title   string
	Snippet string
	URL     string
}

// Searcher queries the lite frontend and scrapes its result table.
type Searcher struct {
	client   *http.Client
	endpoint string
}

func NewSearcher() *Searcher {
	return &Searcher{
		client:   &http.Client{Timeout: 15 * time.Second},
		endpoint: defaultEndpoint,
	}
}

// Search posts the query and parses the response.
func (s *Searcher) Search(ctx context.Context, query string) ([]Result, error) {
	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("web: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("web: search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("web: search: unexpected status %s", resp.Status)
	}
	return parseResults(resp.Body)
}

// parseResults walks the lite HTML. Results come in row triples: a titled
// link, a snippet cell, and the display URL span.
func parseResults(r io.Reader) ([]Result, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("web: parse response: %w", err)
	}

	var results []Result
	var current Result
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result-link"):
				if current.Title != "" {
					results = append(results, current)
				}
				current = Result{Title: clean(text(n)), URL: attr(n, "href")}
			case n.Data == "td" && hasClass(n, "result-snippet"):
				current.Snippet = clean(text(n))
			case n.Data == "span" && hasClass(n, "link-text"):
				// The display URL is more readable than the redirect href.
				current.URL = clean(text(n))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	if current.Title != "" {
		results = append(results, current)
	}
	return results, nil
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// text flattens all text content under n.
func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

var cleaner = strings.NewReplacer(
	" ", " ",
	"–", "-",
	"—", "-",
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
)

func clean(s string) string {
	return strings.Trim(cleaner.Replace(s), "\n\t\r. ")
}
