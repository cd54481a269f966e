package render

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proposalgen/internal/config"
	"proposalgen/internal/models"
)

func TestRenderSuccess(t *testing.T) {
	var gotAuth string
	var gotReq documentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/documents", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"document": map[string]any{"id": "doc-123"}})
	}))
	defer server.Close()

	client := NewPDFMonkeyClient(config.ProviderConfig{BaseURL: server.URL, APIKey: "pk", TemplateID: "tpl-9"})
	payload := models.ProposalPayload{CompanyName: "Acme Corp", ProspectName: "John Doe"}
	payload.Normalize()

	url, err := client.Render(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "https://dashboard.pdfmonkey.io/documents/doc-123/download", url)
	assert.Equal(t, "Bearer pk", gotAuth)
	assert.Equal(t, "tpl-9", gotReq.Document.DocumentTemplateID)
	assert.Equal(t, "pending", gotReq.Document.Status)
	assert.Equal(t, "Acme Corp", gotReq.Document.Payload.CompanyName)
}

func TestRenderRemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":["template not found"]}`, http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewPDFMonkeyClient(config.ProviderConfig{BaseURL: server.URL, APIKey: "pk", TemplateID: "tpl-9"})
	url, err := client.Render(context.Background(), models.FallbackPayload())
	require.Error(t, err)
	assert.Empty(t, url)
	assert.Contains(t, err.Error(), "422")
}

func TestRenderMissingDocumentID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"document": map[string]any{}})
	}))
	defer server.Close()

	client := NewPDFMonkeyClient(config.ProviderConfig{BaseURL: server.URL, APIKey: "pk", TemplateID: "tpl-9"})
	_, err := client.Render(context.Background(), models.FallbackPayload())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id")
}

func TestFixedRendererURL(t *testing.T) {
	url, err := NewFixed().Render(context.Background(), models.FallbackPayload())
	require.NoError(t, err)
	assert.Equal(t, MockDownloadURL, url)
}
