// Package mixer is the beep-backed audio.Service. Music and effects are
// read from WAV files under the asset directory; anything missing is
// replaced by a synthesized tone so the game always has sound cues.
package mixer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/nathoo/antidote/audio"
	"github.com/nathoo/antidote/logging"
)

// SampleRate is the device rate; files at other rates are resampled.
const SampleRate = beep.SampleRate(44100)

// Options configures a Mixer.
type Options struct {
	Dir         string // asset root; files live under Dir/sounds
	MusicVolume float64
	SFXVolume   float64
	Logger      *slog.Logger
}

// Mixer plays music and effects through one beep.Mixer.
type Mixer struct {
	mu     sync.Mutex
	dir    string
	log    *slog.Logger
	once   logging.Once
	mixer  *beep.Mixer
	format beep.Format
	cache  map[string]*beep.Buffer
	device bool

	music     *beep.Ctrl
	musicFade *fader
	musicVol  *effects.Volume
	current   string

	musicOn     bool
	sfxOn       bool
	musicVolume float64
	sfxVolume   float64
}

var _ audio.Service = (*Mixer)(nil)

// New opens the speaker and starts the mixer. Callers fall back to
// audio.NewSilent when it fails.
func New(opts Options) (*Mixer, error) {
	m := newMixer(opts)
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("initializing speaker: %w", err)
	}
	speaker.Play(m.mixer)
	m.device = true
	m.log.Info("audio ready", "rate", int(SampleRate))
	return m, nil
}

// newMixer builds a mixer that is not attached to a device.
func newMixer(opts Options) *Mixer {
	log := opts.Logger
	if log == nil {
		log = logging.For("audio")
	}
	return &Mixer{
		dir:         opts.Dir,
		log:         log,
		mixer:       &beep.Mixer{},
		format:      beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2},
		cache:       map[string]*beep.Buffer{},
		musicOn:     true,
		sfxOn:       true,
		musicVolume: clamp(opts.MusicVolume),
		sfxVolume:   clamp(opts.SFXVolume),
	}
}

// PlayMusic replaces the current track with mode, fading it in.
func (m *Mixer) PlayMusic(mode string, loop bool, fadeIn time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = mode
	if !m.musicOn {
		return
	}
	buf, ok := m.buffer("music", mode, func() (beep.Streamer, bool) { return synthMusic(SampleRate, mode) })
	if !ok {
		return
	}

	var s beep.Streamer = buf.Streamer(0, buf.Len())
	if loop {
		s = beep.Loop(-1, buf.Streamer(0, buf.Len()))
	}
	fade := newFader(s, 0)
	fade.fadeTo(1, SampleRate.N(fadeIn), false)
	vol := newVolume(fade, m.musicVolume)
	ctrl := &beep.Ctrl{Streamer: vol}

	speaker.Lock()
	m.stopLocked(0)
	m.music, m.musicFade, m.musicVol = ctrl, fade, vol
	m.mixer.Add(ctrl)
	speaker.Unlock()
}

// StopMusic fades out and drops the current track.
func (m *Mixer) StopMusic(fadeOut time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	speaker.Lock()
	m.stopLocked(SampleRate.N(fadeOut))
	speaker.Unlock()
}

// stopLocked runs with both locks held.
func (m *Mixer) stopLocked(n int) {
	if m.music == nil {
		return
	}
	if n > 0 {
		m.musicFade.fadeTo(0, n, true)
	} else {
		m.music.Streamer = nil
	}
	m.music, m.musicFade, m.musicVol = nil, nil, nil
}

// PlaySFX plays one effect over the music.
func (m *Mixer) PlaySFX(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.sfxOn {
		return
	}
	buf, ok := m.buffer("sfx", name, func() (beep.Streamer, bool) { return synthSFX(SampleRate, name) })
	if !ok {
		return
	}
	vol := newVolume(buf.Streamer(0, buf.Len()), m.sfxVolume)

	speaker.Lock()
	m.mixer.Add(vol)
	speaker.Unlock()
}

// SetMusicVolume sets the music volume in [0, 1], applied immediately.
func (m *Mixer) SetMusicVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.musicVolume = clamp(v)
	if m.musicVol != nil {
		speaker.Lock()
		setVolume(m.musicVol, m.musicVolume)
		speaker.Unlock()
	}
}

// SetSFXVolume sets the effect volume in [0, 1] for later effects.
func (m *Mixer) SetSFXVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfxVolume = clamp(v)
}

// ToggleMusic flips music on or off. Turning it off silences the current
// track; the caller restarts music when turning it back on.
func (m *Mixer) ToggleMusic() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.musicOn = !m.musicOn
	if !m.musicOn {
		speaker.Lock()
		m.stopLocked(0)
		speaker.Unlock()
	}
	return m.musicOn
}

// ToggleSFX flips effects on or off.
func (m *Mixer) ToggleSFX() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfxOn = !m.sfxOn
	return m.sfxOn
}

func (m *Mixer) MusicEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.musicOn
}

func (m *Mixer) SFXEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sfxOn
}

// Current returns the last requested music mode.
func (m *Mixer) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Close stops everything and releases the device.
func (m *Mixer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	speaker.Lock()
	m.stopLocked(0)
	m.mixer.Clear()
	speaker.Unlock()

	if m.device {
		speaker.Close()
		m.device = false
	}
	return nil
}

// buffer returns the decoded clip for kind/name, loading the WAV file on
// first use and falling back to synth when the file is missing or bad.
func (m *Mixer) buffer(kind, name string, synth func() (beep.Streamer, bool)) (*beep.Buffer, bool) {
	key := kind + "/" + name
	if buf, ok := m.cache[key]; ok {
		return buf, true
	}

	buf := beep.NewBuffer(m.format)
	path := filepath.Join(m.dir, "sounds", kind, name+".wav")
	if err := m.decode(path, buf); err != nil {
		m.once.Warn(m.log, key, "sound file unavailable, using synthesized tone", "path", path, "err", err)
		s, ok := synth()
		if !ok {
			m.once.Warn(m.log, key+"#synth", "unknown sound", "kind", kind, "name", name)
			return nil, false
		}
		buf.Append(s)
	}
	m.cache[key] = buf
	return buf, true
}

func (m *Mixer) decode(path string, buf *beep.Buffer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	s, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	defer s.Close()

	var src beep.Streamer = s
	if format.SampleRate != SampleRate {
		src = beep.Resample(4, format.SampleRate, SampleRate, s)
	}
	buf.Append(src)
	return nil
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
