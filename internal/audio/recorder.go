package audio

import (
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	sampleRate       = 16000
	frameSize        = 320 // 20ms
	silenceThreshRMS = 0.015
	silenceDuration  = 600 * time.Millisecond
)

// Recorder captures mono 16 kHz PCM from the default input device.
type Recorder struct{}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Record captures one utterance. It waits up to listenTimeout for speech
// to start and stops after silenceDuration of quiet or once phraseLimit
// of speech is captured. An empty slice means nothing was heard.
func (r *Recorder) Record(listenTimeout, phraseLimit time.Duration) ([]float32, error) {
	if listenTimeout <= 0 {
		listenTimeout = 5 * time.Second
	}
	if phraseLimit <= 0 {
		phraseLimit = 10 * time.Second
	}

	buf := make([]float32, frameSize)
	out := make([]float32, 0, sampleRate*3)

	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	var (
		speaking      bool
		silenceFrames int
	)

	frameDur := 20 * time.Millisecond
	waitFrames := int(listenTimeout / frameDur)
	maxFrames := int(phraseLimit / frameDur)
	stopFrames := int(silenceDuration / frameDur)

	for i := 0; ; i++ {
		if !speaking && i >= waitFrames {
			// Listen timeout, no speech started.
			return nil, nil
		}
		if speaking && len(out) >= maxFrames*frameSize {
			break
		}

		if err := stream.Read(); err != nil {
			return nil, err
		}

		rms := frameRMS(buf)

		if rms > silenceThreshRMS {
			speaking = true
			silenceFrames = 0
			out = append(out, buf...)
		} else if speaking {
			silenceFrames++
			if silenceFrames >= stopFrames {
				break
			}
			out = append(out, buf...)
		}
	}

	return out, nil
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
