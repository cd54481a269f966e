package render

import (
	"context"

	"proposalgen/internal/models"
)

// MockDownloadURL is the document URL returned in dry-run mode.
const MockDownloadURL = "https://pdfmonkey.io/mock-download-url.pdf"

// FixedRenderer returns a deterministic document URL without touching the
// network. Used in dry-run mode and in tests.
type FixedRenderer struct{}

func NewFixed() *FixedRenderer { return &FixedRenderer{} }

func (*FixedRenderer) Render(ctx context.Context, payload models.ProposalPayload) (string, error) {
	return MockDownloadURL, nil
}
