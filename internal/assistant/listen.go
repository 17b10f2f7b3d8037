package assistant

import (
	"context"
	"strings"
	"time"

	log "log/slog"

	"zen/internal/audio"
	"zen/pkg/stt"
)

// Listener turns one stretch of attention into recognized text. An
// empty string means nothing intelligible was heard.
type Listener interface {
	Listen(ctx context.Context) (string, error)
}

// VoiceListener records from the microphone and transcribes with
// whisper.cpp.
type VoiceListener struct {
	rec         *audio.Recorder
	transcriber *stt.Transcriber

	listenTimeout time.Duration
	phraseLimit   time.Duration
}

func NewVoiceListener(rec *audio.Recorder, tr *stt.Transcriber, listenTimeout, phraseLimit time.Duration) *VoiceListener {
	return &VoiceListener{
		rec:           rec,
		transcriber:   tr,
		listenTimeout: listenTimeout,
		phraseLimit:   phraseLimit,
	}
}

func (l *VoiceListener) Listen(ctx context.Context) (string, error) {
	pcm, err := l.rec.Record(l.listenTimeout, l.phraseLimit)
	if err != nil {
		return "", err
	}
	if len(pcm) == 0 {
		return "", nil
	}

	log.Debug("Recorded", "samples", len(pcm))
	return l.transcribe(ctx, pcm)
}

func (l *VoiceListener) transcribe(ctx context.Context, pcm []float32) (string, error) {
	res, err := l.transcriber.TranscribePCM(ctx, pcm, stt.Options{
		Language: "en",
		Threads:  0,
	})
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(res.Text)
	if text != "" {
		log.Info("Recognized", "text", text)
	}
	return text, nil
}

// TranscribePCM exposes transcription for pre-decoded audio files.
func (l *VoiceListener) TranscribePCM(ctx context.Context, pcm []float32) (string, error) {
	return l.transcribe(ctx, pcm)
}
