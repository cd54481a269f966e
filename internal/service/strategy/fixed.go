package strategy

import (
	"context"

	"proposalgen/internal/models"
)

// FixedStrategist returns a deterministic proposal payload without calling
// any model. Used in dry-run mode and in tests.
type FixedStrategist struct{}

func NewFixed() *FixedStrategist { return &FixedStrategist{} }

func (*FixedStrategist) Synthesize(ctx context.Context, transcript string, research models.ResearchBundle) models.ProposalPayload {
	return models.ProposalPayload{
		CompanyName:      "Acme Corp",
		ProspectName:     "John Doe",
		Date:             "2023-10-27",
		ExecutiveSummary: "Acme Corp is struggling to scale outreach. We propose automating the sales pipeline.",
		DiagnosisText:    "Current manual processes are bottlenecking growth.",
		PainPoints:       []string{"Low conversion", "Manual data entry", "Inconsistent content"},
		Systems: []models.System{
			{Title: "The Sales Sniper", Description: "Automated outreach system.", Impact: "10x Leads"},
			{Title: "The Content Engine", Description: "Auto-generate LinkedIn posts.", Impact: "Thought Leadership"},
		},
		ROIMetrics: []models.ROIMetric{
			{Value: "10h+", Label: "Saved Weekly"},
			{Value: "3x", Label: "Lead Volume"},
		},
		EfficiencyCharts: []models.EfficiencyChart{
			{Label: "Current Efficiency", Percentage: 20},
			{Label: "With AI Systems", Percentage: 95},
		},
		PricingItems: []models.PricingItem{
			{Name: "The Sales Sniper", SetupPrice: "$2,500", MonthlyPrice: "$500"},
			{Name: "The Content Engine", SetupPrice: "$3,000", MonthlyPrice: "$750"},
		},
		TotalSetup:   "$5,500",
		TotalMonthly: "$1,250",
		CTALink:      "https://calendly.com/example",
	}
}
