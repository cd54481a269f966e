package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"proposalgen/internal/config"
	"proposalgen/internal/models"
	"proposalgen/internal/reqid"
)

const (
	fetchTimeout = 10 * time.Second
	browserUA    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Service performs best-effort prospect research: a profile scrape job via
// Apify, and a homepage/about scrape of the prospect's website. No failure
// in here ever propagates to the caller; everything degrades to empty data.
type Service struct {
	client    *http.Client
	limiter   *rate.Limiter
	apifyBase string
	token     string
	actorID   string
}

// NewService builds a researcher from the apify provider block.
func NewService(prov config.ProviderConfig) *Service {
	base := prov.BaseURL
	if base == "" {
		base = "https://api.apify.com"
	}
	return &Service{
		client:    &http.Client{Timeout: fetchTimeout},
		limiter:   rate.NewLimiter(rate.Limit(2), 1),
		apifyBase: strings.TrimRight(base, "/"),
		token:     prov.APIKey,
		actorID:   prov.ActorID,
	}
}

// Research runs the profile lookup and, only when the profile carries a
// truthy website field, the website scrape.
func (s *Service) Research(ctx context.Context, profileURL string) models.ResearchBundle {
	bundle := models.ResearchBundle{Profile: s.ProfileLookup(ctx, profileURL)}
	if site := bundle.Website(); site != "" {
		bundle.Site = s.WebsiteScrape(ctx, site)
	}
	return bundle
}

// ProfileLookup runs one Apify actor call for the profile URL and returns the
// first dataset item. Errors are swallowed and logged; research is
// enrichment, not a hard requirement.
func (s *Service) ProfileLookup(ctx context.Context, profileURL string) map[string]any {
	log.Printf("[research %s] scraping profile: %s", reqid.From(ctx), profileURL)

	input := map[string]any{
		"startUrls": []map[string]string{{"url": profileURL}},
		"minDelay":  1,
		"maxDelay":  10,
		"proxy": map[string]any{
			"useApifyProxy":    true,
			"apifyProxyGroups": []string{"RESIDENTIAL"},
		},
	}
	payload, err := json.Marshal(input)
	if err != nil {
		log.Printf("[research %s] profile lookup failed: %v", reqid.From(ctx), err)
		return map[string]any{}
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		s.apifyBase, url.PathEscape(s.actorID), url.QueryEscape(s.token))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		log.Printf("[research %s] profile lookup failed: %v", reqid.From(ctx), err)
		return map[string]any{}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[research %s] profile lookup failed: %v", reqid.From(ctx), err)
		return map[string]any{}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[research %s] profile lookup failed with status %d", reqid.From(ctx), resp.StatusCode)
		return map[string]any{}
	}

	var items []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		log.Printf("[research %s] decode profile result: %v", reqid.From(ctx), err)
		return map[string]any{}
	}
	if len(items) == 0 {
		return map[string]any{}
	}
	return items[0]
}

// WebsiteScrape pulls heading text and the meta description from the
// homepage, and the first few headings/paragraphs from a guessed /about
// page. Each fetch fails independently; partial data is acceptable.
func (s *Service) WebsiteScrape(ctx context.Context, siteURL string) models.SiteData {
	data := models.SiteData{URL: siteURL}

	log.Printf("[research %s] scraping homepage: %s", reqid.From(ctx), siteURL)
	if doc, err := s.fetch(ctx, siteURL); err != nil {
		log.Printf("[research %s] homepage scrape failed: %v", reqid.From(ctx), err)
	} else {
		var parts []string
		doc.Find("h1, h2").Each(func(_ int, sel *goquery.Selection) {
			if text := strings.TrimSpace(sel.Text()); text != "" {
				parts = append(parts, text)
			}
		})
		if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok && desc != "" {
			parts = append(parts, strings.TrimSpace(desc))
		}
		data.HomepageText = strings.Join(parts, " ")
	}

	aboutURL := strings.TrimRight(siteURL, "/") + "/about"
	log.Printf("[research %s] scraping about page: %s", reqid.From(ctx), aboutURL)
	if doc, err := s.fetch(ctx, aboutURL); err != nil {
		log.Printf("[research %s] about scrape failed: %v", reqid.From(ctx), err)
	} else {
		var parts []string
		doc.Find("h1, h2, p").EachWithBreak(func(i int, sel *goquery.Selection) bool {
			if i >= 5 {
				return false
			}
			if text := strings.TrimSpace(sel.Text()); text != "" {
				parts = append(parts, text)
			}
			return true
		})
		data.AboutText = strings.Join(parts, " ")
	}

	return data
}

func (s *Service) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUA)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received status code %d for URL: %s", resp.StatusCode, pageURL)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}
