package transcribe

import "context"

// MockTranscript is the deterministic transcript returned in dry-run mode.
const MockTranscript = "This is a mock transcription of a sales call where the client expressed interest in the Sales Sniper system and mentioned a budget of $2000 for setup. They are currently struggling with manual prospecting and low conversion rates."

// FixedTranscriber returns a deterministic transcript without touching the
// network. Used in dry-run mode and in tests.
type FixedTranscriber struct{}

func NewFixed() *FixedTranscriber { return &FixedTranscriber{} }

func (*FixedTranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	return MockTranscript, nil
}
