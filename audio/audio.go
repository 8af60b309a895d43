// Package audio defines the sound service contract used by the game and a
// silent implementation for headless runs and device failures. The beep
// backed implementation lives in audio/mixer.
package audio

import "time"

//go:generate mockgen -destination=mock/mock_service.go -package=audiomock github.com/nathoo/antidote/audio Service

// Music modes.
const (
	MusicIntro           = "intro"
	MusicCharacterSelect = "character_select"
	MusicExploration     = "exploration"
	MusicCombat          = "combat"
	MusicDialogue        = "dialogue"
	MusicVictory         = "victory"
	MusicGameOver        = "game_over"
)

// MusicModes lists every music mode.
var MusicModes = []string{
	MusicIntro, MusicCharacterSelect, MusicExploration, MusicCombat,
	MusicDialogue, MusicVictory, MusicGameOver,
}

// Sound effect names.
const (
	SFXMove         = "move"
	SFXInteract     = "interact"
	SFXCollectItem  = "collect_item"
	SFXCombatHit    = "combat_hit"
	SFXCombatDefend = "combat_defend"
	SFXLevelUp      = "level_up"
	SFXDialogueBeep = "dialogue_beep"
	SFXError        = "error"
	SFXSuccess      = "success"
	SFXStairs       = "stairs"
	SFXDoor         = "door"
)

// SFXNames lists every sound effect.
var SFXNames = []string{
	SFXMove, SFXInteract, SFXCollectItem, SFXCombatHit, SFXCombatDefend,
	SFXLevelUp, SFXDialogueBeep, SFXError, SFXSuccess, SFXStairs, SFXDoor,
}

// Service plays music and sound effects. Every call is best-effort:
// unknown names and device problems are absorbed, never returned.
type Service interface {
	PlayMusic(mode string, loop bool, fadeIn time.Duration)
	StopMusic(fadeOut time.Duration)
	PlaySFX(name string)
	SetMusicVolume(v float64)
	SetSFXVolume(v float64)
	ToggleMusic() bool
	ToggleSFX() bool
	MusicEnabled() bool
	SFXEnabled() bool
	Close() error
}

// Silent is a Service that plays nothing but keeps the toggle state, so the
// HUD still reports what the player chose.
type Silent struct {
	music bool
	sfx   bool
}

// NewSilent creates a silent service with both channels enabled.
func NewSilent() *Silent {
	return &Silent{music: true, sfx: true}
}

var _ Service = (*Silent)(nil)

func (s *Silent) PlayMusic(string, bool, time.Duration) {}
func (s *Silent) StopMusic(time.Duration)               {}
func (s *Silent) PlaySFX(string)                        {}
func (s *Silent) SetMusicVolume(float64)                {}
func (s *Silent) SetSFXVolume(float64)                  {}
func (s *Silent) Close() error                          { return nil }

func (s *Silent) ToggleMusic() bool {
	s.music = !s.music
	return s.music
}

func (s *Silent) ToggleSFX() bool {
	s.sfx = !s.sfx
	return s.sfx
}

func (s *Silent) MusicEnabled() bool { return s.music }
func (s *Silent) SFXEnabled() bool   { return s.sfx }

// ForMode maps a game mode name to its music mode.
func ForMode(mode string) string {
	switch mode {
	case "intro":
		return MusicIntro
	case "dialogue":
		return MusicDialogue
	case "combat":
		return MusicCombat
	case "victory":
		return MusicVictory
	case "game_over":
		return MusicGameOver
	}
	return MusicExploration
}
