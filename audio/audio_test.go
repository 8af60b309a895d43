package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSilent_Toggles(t *testing.T) {
	s := NewSilent()
	assert.True(t, s.MusicEnabled())
	assert.False(t, s.ToggleMusic())
	assert.False(t, s.MusicEnabled())
	assert.True(t, s.ToggleMusic())

	assert.False(t, s.ToggleSFX())
	assert.False(t, s.SFXEnabled())

	// No-ops must not panic.
	s.PlayMusic("nope", true, 0)
	s.PlaySFX("nope")
	s.StopMusic(0)
	assert.NoError(t, s.Close())
}

func TestForMode(t *testing.T) {
	tests := map[string]string{
		"intro":       MusicIntro,
		"exploration": MusicExploration,
		"dialogue":    MusicDialogue,
		"combat":      MusicCombat,
		"victory":     MusicVictory,
		"game_over":   MusicGameOver,
		"unknown":     MusicExploration,
	}
	for in, want := range tests {
		assert.Equal(t, want, ForMode(in), in)
	}
}

func TestNames(t *testing.T) {
	assert.Len(t, MusicModes, 7)
	assert.Len(t, SFXNames, 11)
}
