package models

// SiteData holds the best-effort text pulled from a prospect's website.
// Failed fetches leave the corresponding field empty rather than erroring.
type SiteData struct {
	URL          string `json:"url,omitempty"`
	HomepageText string `json:"homepage_text"`
	AboutText    string `json:"about_text"`
}

// ResearchBundle merges the profile lookup with the optional website scrape.
// Absent data is represented as empty structures, never nil maps handed to
// the strategy prompt.
type ResearchBundle struct {
	Profile map[string]any `json:"linkedin"`
	Site    SiteData       `json:"website"`
}

// EmptyResearchBundle returns a bundle with no findings.
func EmptyResearchBundle() ResearchBundle {
	return ResearchBundle{Profile: map[string]any{}}
}

// Website returns the profile's website field when present and truthy.
func (b ResearchBundle) Website() string {
	if b.Profile == nil {
		return ""
	}
	site, _ := b.Profile["website"].(string)
	return site
}
