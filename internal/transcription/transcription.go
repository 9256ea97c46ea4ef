package transcription

import (
	"context"
	"errors"

	"interview-coach-go/internal/types"
)

// ErrUndecodable marks audio whose container could not be demuxed by the
// transcription service. The boundary layer maps it to a rejected request
// rather than a server fault.
var ErrUndecodable = errors.New("could not decode audio")

// Transcriber converts raw audio bytes into timed text spans. The suffix is
// a container hint taken from the uploaded filename (".webm", ".wav", ...).
// Implementations own any temporary files they create and must remove them
// on every exit path.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, suffix string) ([]types.Segment, error)
}
