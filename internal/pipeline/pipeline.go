package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/google/uuid"

	"proposalgen/internal/ingest"
	"proposalgen/internal/models"
	"proposalgen/internal/reqid"
	"proposalgen/internal/worker"
)

// Transcriber produces a plain-text transcript from a stored audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Researcher gathers best-effort prospect research. It never fails; missing
// data comes back as empty structures.
type Researcher interface {
	Research(ctx context.Context, profileURL string) models.ResearchBundle
}

// Strategist converts a transcript and research into a proposal payload.
// It never fails; generation errors yield a fallback payload.
type Strategist interface {
	Synthesize(ctx context.Context, transcript string, research models.ResearchBundle) models.ProposalPayload
}

// Renderer turns a proposal payload into a downloadable document URL.
type Renderer interface {
	Render(ctx context.Context, payload models.ProposalPayload) (string, error)
}

// State names one step of the per-request state machine.
type State string

const (
	StateReceived     State = "received"
	StateIngested     State = "ingested"
	StateTranscribing State = "transcribing"
	StateResearching  State = "researching"
	StateStrategizing State = "strategizing"
	StateRendering    State = "rendering"
	StateCompleted    State = "completed"
	StateFailed       State = "failed"
)

// Stage identifies where a fatal pipeline error originated.
type Stage string

const (
	StageIngest     Stage = "ingest"
	StageDispatch   Stage = "dispatch"
	StageTranscribe Stage = "transcribe"
	StageRender     Stage = "render"
)

// StageError is a fatal, request-aborting pipeline failure.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// Request is one proposal-generation request.
type Request struct {
	LinkedInURL string
	FileName    string
	Audio       io.Reader
}

// Options wires the pipeline's collaborators.
type Options struct {
	Files       *ingest.Store
	Transcriber Transcriber
	Researcher  Researcher
	Strategist  Strategist
	Renderer    Renderer
	Pool        *worker.Pool
	// Parallel runs transcription and research as a fan-out on the pool.
	// When false (or no pool is provided) the stages run sequentially.
	Parallel bool
}

// Pipeline orchestrates one proposal generation per Run call. Instances are
// safe for concurrent use; all per-request state lives on the stack.
type Pipeline struct {
	files       *ingest.Store
	transcriber Transcriber
	researcher  Researcher
	strategist  Strategist
	renderer    Renderer
	pool        *worker.Pool
	parallel    bool
}

func New(opts Options) *Pipeline {
	return &Pipeline{
		files:       opts.Files,
		transcriber: opts.Transcriber,
		researcher:  opts.Researcher,
		strategist:  opts.Strategist,
		renderer:    opts.Renderer,
		pool:        opts.Pool,
		parallel:    opts.Parallel && opts.Pool != nil,
	}
}

// Run drives the state machine:
//
//	received -> ingested -> {transcribing || researching} -> strategizing -> rendering -> completed
//
// with an error exit to failed from every state. The temporary audio file is
// removed on every path.
func (p *Pipeline) Run(ctx context.Context, req Request) (*models.ProposalResult, error) {
	id := uuid.NewString()[:8]
	ctx = reqid.With(ctx, id)
	p.transition(id, StateReceived)

	path, cleanup, err := p.files.Save(req.FileName, req.Audio)
	if err != nil {
		p.transition(id, StateFailed)
		return nil, &StageError{Stage: StageIngest, Err: err}
	}
	defer cleanup()
	p.transition(id, StateIngested)

	transcript, bundle, err := p.gather(ctx, id, path, req.LinkedInURL)
	if err != nil {
		p.transition(id, StateFailed)
		return nil, err
	}

	p.transition(id, StateStrategizing)
	payload := p.strategist.Synthesize(ctx, transcript, bundle)

	p.transition(id, StateRendering)
	pdfURL, err := p.renderer.Render(ctx, payload)
	if err != nil || pdfURL == "" {
		if err == nil {
			err = errors.New("renderer returned no document URL")
		}
		log.Printf("[pipeline %s] render failed: %v", id, err)
		p.transition(id, StateFailed)
		return nil, &StageError{Stage: StageRender, Err: err}
	}

	p.transition(id, StateCompleted)
	company := payload.CompanyName
	if company == "" {
		company = "N/A"
	}
	return &models.ProposalResult{
		Status: "success",
		PDFURL: pdfURL,
		DataUsed: models.DataUsed{
			TranscriptSnippet: snippet(transcript),
			CompanyDetected:   company,
		},
	}, nil
}

// gather runs transcription and research, concurrently when configured, and
// joins on both. Research never blocks the join or fails the request;
// transcription is mandatory.
func (p *Pipeline) gather(ctx context.Context, id, path, profileURL string) (string, models.ResearchBundle, error) {
	var (
		transcript string
		terr       error
		bundle     models.ResearchBundle
	)

	if p.parallel {
		p.transition(id, StateTranscribing)
		p.transition(id, StateResearching)
		var wg sync.WaitGroup
		wg.Add(2)
		tasks := []worker.Task{
			func() {
				defer wg.Done()
				transcript, terr = p.transcriber.Transcribe(ctx, path)
			},
			func() {
				defer wg.Done()
				bundle = p.researcher.Research(ctx, profileURL)
			},
		}
		var submitErr error
		for _, task := range tasks {
			if err := p.pool.Submit(task); err != nil {
				// account for the task that will never run
				wg.Done()
				submitErr = err
			}
		}
		wg.Wait()
		if submitErr != nil {
			return "", bundle, &StageError{Stage: StageDispatch, Err: submitErr}
		}
	} else {
		p.transition(id, StateTranscribing)
		transcript, terr = p.transcriber.Transcribe(ctx, path)
		p.transition(id, StateResearching)
		if terr == nil {
			bundle = p.researcher.Research(ctx, profileURL)
		}
	}

	if terr != nil {
		return "", bundle, &StageError{Stage: StageTranscribe, Err: terr}
	}
	if bundle.Profile == nil {
		bundle = models.EmptyResearchBundle()
	}
	return transcript, bundle, nil
}

func (p *Pipeline) transition(id string, state State) {
	log.Printf("[pipeline %s] state -> %s", id, state)
}

// snippet returns the first 100 characters of the transcript for the
// response echo.
func snippet(transcript string) string {
	runes := []rune(transcript)
	if len(runes) > 100 {
		runes = runes[:100]
	}
	return string(runes) + "..."
}
