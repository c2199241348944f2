package dispatchy

import "context"

// Recorder captures audio from an input device. Device mechanics live in the
// implementation; the runner only drives the start/stop lifecycle.
type Recorder interface {
	// Start begins capturing audio.
	Start() error
	// Stop ends the capture and returns the recorded audio (WAV).
	Stop() ([]byte, error)
}

// Transcriber converts recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Synthesizer converts text into spoken audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// AudioSink plays synthesized audio. Implementations own the output device.
type AudioSink interface {
	Play(audio []byte) error
}
