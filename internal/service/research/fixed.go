package research

import (
	"context"

	"proposalgen/internal/models"
)

// FixedResearcher returns a deterministic research bundle without touching
// the network. Used in dry-run mode and in tests.
type FixedResearcher struct{}

func NewFixed() *FixedResearcher { return &FixedResearcher{} }

func (*FixedResearcher) Research(ctx context.Context, profileURL string) models.ResearchBundle {
	return models.ResearchBundle{
		Profile: map[string]any{
			"fullName":   "John Doe",
			"occupation": "CEO",
			"company":    "Acme Corp",
			"website":    "https://example.com",
		},
		Site: models.SiteData{
			HomepageText: "We help companies scale with manual labor.",
			AboutText:    "Founded in 2010 to provide manual services.",
		},
	}
}
