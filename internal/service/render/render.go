package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"proposalgen/internal/config"
	"proposalgen/internal/models"
	"proposalgen/internal/reqid"
)

// PDFMonkeyClient renders a proposal payload through PDFMonkey against a
// pre-registered template. Render failures are fatal for the pipeline; the
// caller decides that, not this client.
type PDFMonkeyClient struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	templateID string
}

// NewPDFMonkeyClient builds a client from the pdfmonkey provider block.
func NewPDFMonkeyClient(prov config.ProviderConfig) *PDFMonkeyClient {
	base := prov.BaseURL
	if base == "" {
		base = "https://api.pdfmonkey.io"
	}
	return &PDFMonkeyClient{
		client:     &http.Client{Timeout: 60 * time.Second},
		baseURL:    strings.TrimRight(base, "/"),
		apiKey:     prov.APIKey,
		templateID: prov.TemplateID,
	}
}

type documentRequest struct {
	Document documentBody `json:"document"`
}

type documentBody struct {
	DocumentTemplateID string                 `json:"document_template_id"`
	Payload            models.ProposalPayload `json:"payload"`
	Status             string                 `json:"status"`
}

type documentResponse struct {
	Document struct {
		ID string `json:"id"`
	} `json:"document"`
}

// Render submits the payload and returns the download URL for the created
// document.
func (c *PDFMonkeyClient) Render(ctx context.Context, payload models.ProposalPayload) (string, error) {
	body, err := json.Marshal(documentRequest{Document: documentBody{
		DocumentTemplateID: c.templateID,
		Payload:            payload,
		Status:             "pending",
	}})
	if err != nil {
		return "", fmt.Errorf("marshal document request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/documents", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build document request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	log.Printf("[render %s] generating PDF with template %s", reqid.From(ctx), c.templateID)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("document call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("document creation failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out documentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode document response: %w", err)
	}
	if out.Document.ID == "" {
		return "", fmt.Errorf("document response missing id")
	}
	return fmt.Sprintf("https://dashboard.pdfmonkey.io/documents/%s/download", out.Document.ID), nil
}
