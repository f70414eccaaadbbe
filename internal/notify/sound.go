package notify

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"

	"github.com/grovetools/chime/util/pathutil"
)

const sampleRate = beep.SampleRate(44100)

// BeepPlayer plays the notification chime through the default audio
// device. With no sound_file configured it synthesizes a short two-tone
// chime, so no audio asset ships with the binary.
type BeepPlayer struct {
	soundFile string

	initOnce sync.Once
	initErr  error
}

// NewPlayer creates a player. soundFile may be empty or point to an
// mp3/wav file that replaces the built-in chime.
func NewPlayer(soundFile string) *BeepPlayer {
	return &BeepPlayer{soundFile: soundFile}
}

// SetSoundFile swaps the configured sound on config reload.
func (p *BeepPlayer) SetSoundFile(path string) {
	p.soundFile = path
}

// Play renders the chime at the given volume. The speaker mixes, so
// overlapping notifications are fine. Volume 0 is silence.
func (p *BeepPlayer) Play(volume float64) error {
	if volume <= 0 {
		return nil
	}
	if volume > 1 {
		volume = 1
	}

	p.initOnce.Do(func() {
		p.initErr = speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	})
	if p.initErr != nil {
		return fmt.Errorf("audio device unavailable: %w", p.initErr)
	}

	streamer, err := p.chime()
	if err != nil {
		return err
	}

	speaker.Play(&effects.Volume{
		Streamer: streamer,
		Base:     2,
		Volume:   math.Log2(volume),
	})
	return nil
}

// chime returns the configured sound file stream, or the synthesized
// two-tone fallback.
func (p *BeepPlayer) chime() (beep.Streamer, error) {
	if p.soundFile == "" {
		return synthChime()
	}

	// sound_file comes straight from chime.yml, so ~ and env vars are
	// still unexpanded here.
	path, err := pathutil.Expand(p.soundFile)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sound file %q: %w", p.soundFile, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound file: %w", err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported sound file %q, want .mp3 or .wav", path)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode sound file: %w", err)
	}

	var out beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		out = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}
	return beep.Seq(out, beep.Callback(func() { streamer.Close() })), nil
}

// synthChime builds a two-tone ding with a linear decay per tone.
func synthChime() (beep.Streamer, error) {
	high, err := tone(1318.5, 160*time.Millisecond) // E6
	if err != nil {
		return nil, err
	}
	low, err := tone(1046.5, 220*time.Millisecond) // C6
	if err != nil {
		return nil, err
	}
	return beep.Seq(high, low), nil
}

func tone(freq float64, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil, err
	}
	n := sampleRate.N(d)
	return effects.Transition(beep.Take(n, sine), n, 1.0, 0.0, effects.TransitionEqualPower), nil
}
