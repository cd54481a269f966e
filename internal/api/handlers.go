package api

import (
	"context"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"proposalgen/internal/models"
	"proposalgen/internal/pipeline"
)

// ProposalRunner runs the full proposal pipeline for one request.
type ProposalRunner interface {
	Run(ctx context.Context, req pipeline.Request) (*models.ProposalResult, error)
}

// Handler wires HTTP routes to the proposal pipeline.
type Handler struct {
	pipeline    ProposalRunner
	serviceName string
}

// NewHandler constructs a Handler instance.
func NewHandler(runner ProposalRunner, serviceName string) *Handler {
	return &Handler{
		pipeline:    runner,
		serviceName: serviceName,
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())
	router.GET("/", h.health)
	router.POST("/api/generate-proposal", h.generateProposal)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.serviceName,
	})
}

const maxUploadBytes = 25 << 20 // 25 MB, Groq's per-file limit

// audio formats the transcription provider accepts
var allowedAudioExtensions = []string{
	".flac", ".mp3", ".mp4", ".mpeg", ".mpga", ".m4a", ".ogg", ".opus", ".wav", ".webm",
}

func isAllowedAudioFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range allowedAudioExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func (h *Handler) generateProposal(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadBytes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid multipart form"})
		return
	}
	linkedinURL := strings.TrimSpace(c.PostForm("linkedin_url"))
	if linkedinURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "linkedin_url is required"})
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "file is required"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"detail": "file too large"})
		return
	}
	if !isAllowedAudioFile(fileHeader.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "unsupported audio format"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "open uploaded file failed"})
		return
	}
	defer f.Close()

	result, err := h.pipeline.Run(c.Request.Context(), pipeline.Request{
		LinkedInURL: linkedinURL,
		FileName:    fileHeader.Filename,
		Audio:       f,
	})
	if err != nil {
		log.Printf("[api] generate proposal failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
