package tts

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <espeak-ng/speak_lib.h>

int
espeak_say(const char *text, int rate, int volume)
{
	if (!text)
	{ return -1; }

	espeak_Initialize(AUDIO_OUTPUT_SYNCH_PLAYBACK, 500, NULL, 0);
	espeak_VOICE specs = { .languages = "en" };
	espeak_SetVoiceByProperties(&specs);
	espeak_SetParameter(espeakRATE, rate, 0);
	espeak_SetParameter(espeakVOLUME, volume, 0);

	espeak_Synth(text, 500, 0, 0, 0, espeakCHARS_AUTO, NULL, NULL);
	espeak_Synchronize();
	espeak_Terminate();

	return 0;
}
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"

	log "log/slog"
)

// Speaker voices text via espeak-ng. Utterances are serialized; with
// async enabled Say returns immediately while playback continues, so the
// daemon can keep listening while speaking.
type Speaker struct {
	rate   int // words per minute
	volume int // 0..200, 100 = normal
	async  bool

	mu sync.Mutex // one utterance at a time
	wg sync.WaitGroup
}

// NewSpeaker converts the configured 0..1 volume to espeak's 0..200
// scale.
func NewSpeaker(rate int, volume float64, async bool) *Speaker {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	return &Speaker{
		rate:   rate,
		volume: int(volume * 200),
		async:  async,
	}
}

// Say voices text. Blocking unless async speech is enabled.
func (s *Speaker) Say(text string) error {
	if text == "" {
		return nil
	}
	if !s.async {
		return s.say(text)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.say(text); err != nil {
			log.Error("Failed to voice out", "err", err)
		}
	}()
	return nil
}

// Wait blocks until pending async utterances finish.
func (s *Speaker) Wait() { s.wg.Wait() }

func (s *Speaker) say(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))

	rc := C.espeak_say(ctext, C.int(s.rate), C.int(s.volume))
	if rc != 0 {
		return fmt.Errorf("espeak_say failed: %d", int(rc))
	}
	return nil
}
