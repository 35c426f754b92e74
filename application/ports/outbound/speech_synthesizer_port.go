package outbound

import "context"

type SynthesizeRequest struct {
	Text    string
	VoiceID string
}

// SpeechSynthesizerPort is the speech-synthesis collaborator. It returns
// the encoded audio bytes; duration is measured from the written file.
type SpeechSynthesizerPort interface {
	Synthesize(ctx context.Context, req SynthesizeRequest) ([]byte, error)
}
