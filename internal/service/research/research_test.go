package research

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proposalgen/internal/config"
)

func newApifyServer(t *testing.T, items []map[string]any, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Contains(t, r.URL.Path, "/v2/acts/")
		require.Contains(t, r.URL.Path, "run-sync-get-dataset-items")
		require.NotEmpty(t, r.URL.Query().Get("token"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var input map[string]any
		require.NoError(t, json.Unmarshal(body, &input))
		require.Contains(t, input, "startUrls")

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		json.NewEncoder(w).Encode(items)
	}))
}

func TestProfileLookupReturnsFirstItem(t *testing.T) {
	server := newApifyServer(t, []map[string]any{
		{"fullName": "Jane Roe", "company": "Roe Industries"},
		{"fullName": "Someone Else"},
	}, http.StatusOK)
	defer server.Close()

	svc := NewService(config.ProviderConfig{BaseURL: server.URL, APIKey: "tok", ActorID: "actor"})
	profile := svc.ProfileLookup(context.Background(), "https://linkedin.com/in/janeroe")
	assert.Equal(t, "Jane Roe", profile["fullName"])
	assert.Equal(t, "Roe Industries", profile["company"])
}

func TestProfileLookupSwallowsFailures(t *testing.T) {
	server := newApifyServer(t, nil, http.StatusInternalServerError)
	defer server.Close()

	svc := NewService(config.ProviderConfig{BaseURL: server.URL, APIKey: "tok", ActorID: "actor"})
	profile := svc.ProfileLookup(context.Background(), "https://linkedin.com/in/janeroe")
	require.NotNil(t, profile)
	assert.Empty(t, profile)
}

func TestProfileLookupEmptyDataset(t *testing.T) {
	server := newApifyServer(t, []map[string]any{}, http.StatusOK)
	defer server.Close()

	svc := NewService(config.ProviderConfig{BaseURL: server.URL, APIKey: "tok", ActorID: "actor"})
	profile := svc.ProfileLookup(context.Background(), "https://linkedin.com/in/janeroe")
	require.NotNil(t, profile)
	assert.Empty(t, profile)
}

func TestResearchSkipsSiteScrapeWithoutWebsite(t *testing.T) {
	var siteHits atomic.Int64
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siteHits.Add(1)
	}))
	defer site.Close()

	apify := newApifyServer(t, []map[string]any{{"fullName": "Jane Roe"}}, http.StatusOK)
	defer apify.Close()

	svc := NewService(config.ProviderConfig{BaseURL: apify.URL, APIKey: "tok", ActorID: "actor"})
	bundle := svc.Research(context.Background(), "https://linkedin.com/in/janeroe")

	assert.Equal(t, int64(0), siteHits.Load(), "site scrape must not run without a website field")
	assert.Equal(t, "", bundle.Site.HomepageText)
	assert.Equal(t, "", bundle.Site.AboutText)
}

func TestResearchScrapesSiteWhenWebsitePresent(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html><head><meta name="description" content="We automate sales."></head>`+
			`<body><h1>Roe Industries</h1><h2>Scale faster</h2></body></html>`)
	}))
	defer site.Close()

	apify := newApifyServer(t, []map[string]any{{"fullName": "Jane Roe", "website": site.URL}}, http.StatusOK)
	defer apify.Close()

	svc := NewService(config.ProviderConfig{BaseURL: apify.URL, APIKey: "tok", ActorID: "actor"})
	bundle := svc.Research(context.Background(), "https://linkedin.com/in/janeroe")

	assert.Contains(t, bundle.Site.HomepageText, "Roe Industries")
	assert.Contains(t, bundle.Site.HomepageText, "Scale faster")
	assert.Contains(t, bundle.Site.HomepageText, "We automate sales.")
}

func TestWebsiteScrapeAboutFailureKeepsHomepage(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/about" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, `<html><body><h1>Homepage Heading</h1></body></html>`)
	}))
	defer site.Close()

	svc := NewService(config.ProviderConfig{BaseURL: "http://unused", APIKey: "tok", ActorID: "actor"})
	data := svc.WebsiteScrape(context.Background(), site.URL)

	assert.Contains(t, data.HomepageText, "Homepage Heading")
	assert.Equal(t, "", data.AboutText)
}

func TestWebsiteScrapeHomepageFailureKeepsAbout(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/about" {
			io.WriteString(w, `<html><body><h1>About Us</h1><p>Founded in 2010.</p></body></html>`)
			return
		}
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer site.Close()

	svc := NewService(config.ProviderConfig{BaseURL: "http://unused", APIKey: "tok", ActorID: "actor"})
	data := svc.WebsiteScrape(context.Background(), site.URL)

	assert.Equal(t, "", data.HomepageText)
	assert.Contains(t, data.AboutText, "About Us")
	assert.Contains(t, data.AboutText, "Founded in 2010.")
}

func TestWebsiteScrapeAboutTakesFirstFiveElements(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/about" {
			io.WriteString(w, `<html><body>`+
				`<h1>one</h1><p>two</p><p>three</p><p>four</p><p>five</p><p>six</p>`+
				`</body></html>`)
			return
		}
		http.NotFound(w, r)
	}))
	defer site.Close()

	svc := NewService(config.ProviderConfig{BaseURL: "http://unused", APIKey: "tok", ActorID: "actor"})
	data := svc.WebsiteScrape(context.Background(), site.URL)

	assert.Equal(t, "one two three four five", data.AboutText)
}

func TestFixedResearcherBundle(t *testing.T) {
	bundle := NewFixed().Research(context.Background(), "https://linkedin.com/in/any")
	assert.Equal(t, "Acme Corp", bundle.Profile["company"])
	assert.Equal(t, "https://example.com", bundle.Website())
	assert.NotEmpty(t, bundle.Site.HomepageText)
}
