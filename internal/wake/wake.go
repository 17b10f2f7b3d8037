// Package wake gates the assistant pipeline on a configured trigger
// word. Short transcripts are scored against the wake word and an
// activation fires once the confidence clears the sensitivity threshold.
package wake

import (
	"context"
	"strings"
	"sync"
	"time"

	log "log/slog"

	"github.com/xrash/smetrics"
)

// Source produces one short transcript per call, e.g. record-and-
// transcribe over the microphone. An empty string means nothing heard.
type Source func(ctx context.Context) (string, error)

// Detector listens passively and emits on Activations() when the wake
// word is heard with confidence >= sensitivity.
type Detector struct {
	word        string
	sensitivity float64
	source      Source

	activations chan string

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

func NewDetector(word string, sensitivity float64, source Source) *Detector {
	return &Detector{
		word:        strings.ToLower(strings.TrimSpace(word)),
		sensitivity: sensitivity,
		source:      source,
		activations: make(chan string, 1),
	}
}

// Activations delivers the transcript that triggered each activation.
func (d *Detector) Activations() <-chan string { return d.activations }

// Score returns the confidence in [0,1] that text contains the wake
// word. Tokens are compared with Jaro-Winkler similarity so near-misses
// like "zenn" still score high; an exact token is 1.0.
func (d *Detector) Score(text string) float64 {
	best := 0.0
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,!?;:")
		if tok == "" {
			continue
		}
		if tok == d.word {
			return 1.0
		}
		if s := smetrics.JaroWinkler(tok, d.word, 0.7, 4); s > best {
			best = s
		}
	}
	return best
}

// Detected reports whether text clears the sensitivity threshold.
func (d *Detector) Detected(text string) bool {
	return d.Score(text) >= d.sensitivity
}

// Start begins passive listening on a background goroutine.
func (d *Detector) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		log.Warn("Wake word detection already running")
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.done = make(chan struct{})
	d.running = true

	go d.loop(ctx)
	log.Info("Wake word detection started", "word", d.word, "sensitivity", d.sensitivity)
}

// Stop halts passive listening and waits for the loop to exit.
func (d *Detector) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.cancel()
	done := d.done
	d.mu.Unlock()

	<-done
	log.Info("Wake word detection stopped")
}

func (d *Detector) loop(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		text, err := d.source(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error("Wake word listen failed", "err", err)
			time.Sleep(time.Second)
			continue
		}
		if text == "" {
			continue
		}

		if score := d.Score(text); score >= d.sensitivity {
			log.Info("Wake word detected", "text", text, "score", score)
			select {
			case d.activations <- text:
			default:
				// Activation already pending, drop this one.
			}
		} else {
			log.Debug("Heard", "text", text, "score", score)
		}
	}
}
