package models

// DataUsed echoes back what the pipeline worked from.
type DataUsed struct {
	TranscriptSnippet string `json:"transcript_snippet"`
	CompanyDetected   string `json:"company_detected"`
}

// ProposalResult is the terminal artifact of one request.
type ProposalResult struct {
	Status   string   `json:"status"`
	PDFURL   string   `json:"pdf_url"`
	DataUsed DataUsed `json:"data_used"`
}
