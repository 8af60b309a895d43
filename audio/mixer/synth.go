package mixer

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates a raw tone of fixed length.
type oscillator struct {
	freq     float64
	phase    float64
	length   int
	position int
	wave     Wave
	rate     beep.SampleRate
	seed     uint32
}

func newOscillator(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &oscillator{freq: freq, length: rate.N(d), wave: wave, rate: rate, seed: 0x2545f491}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.length {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			val = 1
			if o.phase >= 0.5 {
				val = -1
			}
		case WaveSaw:
			val = 2 * (o.phase - 0.5)
		case WaveNoise:
			// xorshift keeps the noise deterministic and off the game RNG.
			o.seed ^= o.seed << 13
			o.seed ^= o.seed >> 17
			o.seed ^= o.seed << 5
			val = float64(o.seed)/float64(math.MaxUint32)*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release to a stream.
type envelope struct {
	s        beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newEnvelope(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{s: s, attack: rate.N(attack), release: rate.N(release), total: rate.N(d)}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.s.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}
		vol := 1.0
		if e.attack > 0 && e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if left := e.total - e.position; e.release > 0 && left < e.release {
			vol = math.Min(vol, float64(left)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

// fader ramps its gain linearly toward a target. A fade out to zero ends
// the stream once it completes.
type fader struct {
	s         beep.Streamer
	gain      float64
	step      float64
	target    float64
	remaining int
	finish    bool
}

func newFader(s beep.Streamer, from float64) *fader {
	return &fader{s: s, gain: from, target: from}
}

// fadeTo moves the gain to target over n samples.
func (f *fader) fadeTo(target float64, n int, finish bool) {
	f.target = target
	f.finish = finish
	if n <= 0 {
		f.gain = target
		f.remaining = 0
		return
	}
	f.step = (target - f.gain) / float64(n)
	f.remaining = n
}

func (f *fader) Stream(samples [][2]float64) (n int, ok bool) {
	if f.finish && f.remaining == 0 && f.gain <= 0 {
		return 0, false
	}
	n, ok = f.s.Stream(samples)
	for i := 0; i < n; i++ {
		samples[i][0] *= f.gain
		samples[i][1] *= f.gain
		if f.remaining > 0 {
			f.gain += f.step
			f.remaining--
			if f.remaining == 0 {
				f.gain = f.target
			}
		}
	}
	return n, ok
}

func (f *fader) Err() error { return f.s.Err() }

// newVolume wraps s in a linear volume in [0, 1].
func newVolume(s beep.Streamer, vol float64) *effects.Volume {
	v := &effects.Volume{Streamer: s, Base: 2}
	setVolume(v, vol)
	return v
}

// setVolume maps a linear volume onto the logarithmic effects.Volume.
// Log2(0) is -Inf, so zero is expressed as Silent.
func setVolume(v *effects.Volume, vol float64) {
	if vol <= 0 {
		v.Volume, v.Silent = 0, true
		return
	}
	v.Volume, v.Silent = math.Log2(vol), false
}

type note struct {
	freq float64
	d    time.Duration
	wave Wave
}

// tone renders a sequence of enveloped notes.
func tone(rate beep.SampleRate, notes ...note) beep.Streamer {
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		osc := newOscillator(n.freq, n.d, n.wave, rate)
		parts = append(parts, newEnvelope(osc, n.d, n.d/10, n.d/3, rate))
	}
	return beep.Seq(parts...)
}

// sfxNotes are the synthesized fallbacks for each effect name.
var sfxNotes = map[string][]note{
	"move":          {{440, 40 * time.Millisecond, WaveSine}},
	"interact":      {{660, 80 * time.Millisecond, WaveSine}},
	"collect_item":  {{880, 70 * time.Millisecond, WaveSquare}, {1320, 90 * time.Millisecond, WaveSquare}},
	"combat_hit":    {{0, 120 * time.Millisecond, WaveNoise}},
	"combat_defend": {{220, 120 * time.Millisecond, WaveSquare}},
	"level_up": {
		{523, 90 * time.Millisecond, WaveSine}, {659, 90 * time.Millisecond, WaveSine},
		{784, 90 * time.Millisecond, WaveSine}, {1047, 180 * time.Millisecond, WaveSine},
	},
	"dialogue_beep": {{1000, 30 * time.Millisecond, WaveSine}},
	"error":         {{100, 150 * time.Millisecond, WaveSaw}},
	"success":       {{660, 80 * time.Millisecond, WaveSine}, {880, 120 * time.Millisecond, WaveSine}},
	"stairs":        {{330, 90 * time.Millisecond, WaveSine}, {262, 120 * time.Millisecond, WaveSine}},
	"door":          {{0, 250 * time.Millisecond, WaveNoise}},
}

// musicNotes are short looping motifs for each music mode.
var musicNotes = map[string][]float64{
	"intro":            {262, 330, 392, 330},
	"character_select": {392, 440, 494, 440},
	"exploration":      {220, 262, 330, 262, 196, 247},
	"combat":           {147, 147, 175, 147, 196, 175},
	"dialogue":         {330, 392, 349, 294},
	"victory":          {523, 659, 784, 1047},
	"game_over":        {196, 185, 175, 165},
}

const musicNote = 250 * time.Millisecond

func synthSFX(rate beep.SampleRate, name string) (beep.Streamer, bool) {
	notes, ok := sfxNotes[name]
	if !ok {
		return nil, false
	}
	return tone(rate, notes...), true
}

func synthMusic(rate beep.SampleRate, mode string) (beep.Streamer, bool) {
	freqs, ok := musicNotes[mode]
	if !ok {
		return nil, false
	}
	notes := make([]note, len(freqs))
	for i, f := range freqs {
		notes[i] = note{f, musicNote, WaveSine}
	}
	return newVolume(tone(rate, notes...), 0.3), true
}
