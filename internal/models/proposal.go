package models

// System is one proposed automation system inside a proposal.
type System struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

// ROIMetric is a headline figure shown on the proposal.
type ROIMetric struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// EfficiencyChart is a labelled percentage bar, 0-100.
type EfficiencyChart struct {
	Label      string  `json:"label"`
	Percentage float64 `json:"percentage"`
}

// PricingItem is a single line of the pricing table.
type PricingItem struct {
	Name         string `json:"name"`
	SetupPrice   string `json:"setup_price"`
	MonthlyPrice string `json:"monthly_price"`
}

// ProposalPayload is the fixed-shape document payload produced by the
// strategy stage and consumed by the rendering stage.
type ProposalPayload struct {
	CompanyName      string            `json:"company_name"`
	ProspectName     string            `json:"prospect_name"`
	Date             string            `json:"date"`
	ExecutiveSummary string            `json:"executive_summary"`
	DiagnosisText    string            `json:"diagnosis_text"`
	PainPoints       []string          `json:"pain_points"`
	Systems          []System          `json:"systems"`
	ROIMetrics       []ROIMetric       `json:"roi_metrics"`
	EfficiencyCharts []EfficiencyChart `json:"efficiency_charts"`
	PricingItems     []PricingItem     `json:"pricing_items"`
	TotalSetup       string            `json:"total_setup"`
	TotalMonthly     string            `json:"total_monthly"`
	CTALink          string            `json:"cta_link"`
}

// Normalize replaces nil slices with empty ones so the rendering template
// always receives every field.
func (p *ProposalPayload) Normalize() {
	if p.PainPoints == nil {
		p.PainPoints = []string{}
	}
	if p.Systems == nil {
		p.Systems = []System{}
	}
	if p.ROIMetrics == nil {
		p.ROIMetrics = []ROIMetric{}
	}
	if p.EfficiencyCharts == nil {
		p.EfficiencyCharts = []EfficiencyChart{}
	}
	if p.PricingItems == nil {
		p.PricingItems = []PricingItem{}
	}
}

// FallbackPayload is the minimal safe payload substituted when strategy
// generation fails, so rendering can still be attempted.
func FallbackPayload() ProposalPayload {
	p := ProposalPayload{
		CompanyName:      "Unknown",
		ProspectName:     "Valued Client",
		ExecutiveSummary: "Error generating strategy.",
	}
	p.Normalize()
	return p
}
