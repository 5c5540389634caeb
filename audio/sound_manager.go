package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"
)

const (
	sampleRate = beep.SampleRate(44100)

	eatFreq      = 880
	eatLength    = 60 * time.Millisecond
	gameOverFreq = 110
	gameOverLen  = 400 * time.Millisecond
)

// SoundManager plays the game's sound effects through one mixer. A manager
// that was never initialised stays silent.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

func NewSoundManager() *SoundManager {
	return &SoundManager{
		mixer: &beep.Mixer{},
	}
}

// Initialize opens the speaker. Callers should treat failure as non-fatal.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return errors.Wrap(err, "init speaker")
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup silences pending sounds and closes the speaker.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	sm.initialized = false
}

// PlayEat plays a short high blip.
func (sm *SoundManager) PlayEat() {
	sm.play(eatTone())
}

// PlayGameOver plays a low falling tone.
func (sm *SoundManager) PlayGameOver() {
	sm.play(gameOverTone())
}

func (sm *SoundManager) play(s beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || s == nil {
		return
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

func eatTone() beep.Streamer {
	sine, err := generators.SineTone(sampleRate, eatFreq)
	if err != nil {
		return nil
	}
	return beep.Take(sampleRate.N(eatLength), quieter(sine))
}

func gameOverTone() beep.Streamer {
	sine, err := generators.SineTone(sampleRate, gameOverFreq)
	if err != nil {
		return nil
	}
	second, err := generators.SineTone(sampleRate, gameOverFreq*3/4)
	if err != nil {
		return nil
	}
	half := gameOverLen / 2
	return beep.Seq(
		beep.Take(sampleRate.N(half), quieter(sine)),
		beep.Take(sampleRate.N(half), quieter(second)),
	)
}

func quieter(s beep.Streamer) beep.Streamer {
	return &effects.Volume{Streamer: s, Base: 2, Volume: -1}
}
