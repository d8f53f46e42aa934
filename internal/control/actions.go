// Package control turns key input into changes of the per-frame render state.
package control

import (
	"fmt"
	"sort"
	"strings"
)

// Action is a user command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionToggleWireframe
	ActionReloadShaders
	ActionLightPitchUp
	ActionLightPitchDown
	ActionLightYawLeft
	ActionLightYawRight
	ActionHeightUp
	ActionHeightDown
	ActionToggleLODMode
	ActionToggleTessellation
	ActionScreenshot
	ActionQuit
	ActionPanForward
	ActionPanBack
	ActionPanLeft
	ActionPanRight
	actionCount
)

var actionNames = [actionCount]string{
	ActionNone:               "none",
	ActionToggleWireframe:    "toggle_wireframe",
	ActionReloadShaders:      "reload_shaders",
	ActionLightPitchUp:       "light_pitch_up",
	ActionLightPitchDown:     "light_pitch_down",
	ActionLightYawLeft:       "light_yaw_left",
	ActionLightYawRight:      "light_yaw_right",
	ActionHeightUp:           "height_up",
	ActionHeightDown:         "height_down",
	ActionToggleLODMode:      "toggle_lod_mode",
	ActionToggleTessellation: "toggle_tessellation",
	ActionScreenshot:         "screenshot",
	ActionQuit:               "quit",
	ActionPanForward:         "pan_forward",
	ActionPanBack:            "pan_back",
	ActionPanLeft:            "pan_left",
	ActionPanRight:           "pan_right",
}

func (a Action) String() string {
	if a >= 0 && a < actionCount {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ParseAction looks up an action by its config name.
func ParseAction(name string) (Action, error) {
	for a, n := range actionNames {
		if n == name && Action(a) != ActionNone {
			return Action(a), nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", name)
}

// DefaultKeys maps each action to its SDL key name.
func DefaultKeys() map[string]string {
	return map[string]string{
		"toggle_wireframe":    "Space",
		"reload_shaders":      "R",
		"light_pitch_up":      "W",
		"light_pitch_down":    "S",
		"light_yaw_left":      "A",
		"light_yaw_right":     "D",
		"height_up":           "T",
		"height_down":         "G",
		"toggle_lod_mode":     "L",
		"toggle_tessellation": "F",
		"screenshot":          "F12",
		"quit":                "Escape",
		"pan_forward":         "Up",
		"pan_back":            "Down",
		"pan_left":            "Left",
		"pan_right":           "Right",
	}
}

// Bindings maps key names (case-insensitive) to actions.
type Bindings struct {
	byKey map[string]Action
}

// NewBindings builds bindings from an action name -> key name table. Actions
// missing from keys keep their default key.
func NewBindings(keys map[string]string) (*Bindings, error) {
	merged := DefaultKeys()
	for action, key := range keys {
		merged[action] = key
	}

	// Sorted so duplicate-key errors are deterministic.
	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	b := &Bindings{byKey: make(map[string]Action, len(merged))}
	for _, name := range names {
		a, err := ParseAction(name)
		if err != nil {
			return nil, err
		}
		key := normalizeKey(merged[name])
		if key == "" {
			continue
		}
		if prev, ok := b.byKey[key]; ok {
			return nil, fmt.Errorf("key %q bound to both %s and %s", merged[name], prev, a)
		}
		b.byKey[key] = a
	}
	return b, nil
}

// DefaultBindings returns the stock key layout.
func DefaultBindings() *Bindings {
	b, err := NewBindings(nil)
	if err != nil {
		panic(err)
	}
	return b
}

// Lookup returns the action bound to a key name.
func (b *Bindings) Lookup(key string) Action {
	return b.byKey[normalizeKey(key)]
}

// Resolve converts the frame's pressed and held key names into an ActionSet.
func (b *Bindings) Resolve(pressed, held []string) ActionSet {
	var s ActionSet
	for _, k := range pressed {
		if a := b.Lookup(k); a != ActionNone {
			s.pressed[a] = true
		}
	}
	for _, k := range held {
		if a := b.Lookup(k); a != ActionNone {
			s.held[a] = true
		}
	}
	return s
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

// ActionSet is the input of one frame. Pressed actions fire once on the key's
// down edge; held actions fire every frame the key stays down.
type ActionSet struct {
	pressed [actionCount]bool
	held    [actionCount]bool
}

// Press marks a as pressed this frame. A press also counts as held.
func (s *ActionSet) Press(a Action) {
	if a > ActionNone && a < actionCount {
		s.pressed[a] = true
		s.held[a] = true
	}
}

// Hold marks a as held this frame.
func (s *ActionSet) Hold(a Action) {
	if a > ActionNone && a < actionCount {
		s.held[a] = true
	}
}

// Pressed reports whether a was pressed this frame.
func (s ActionSet) Pressed(a Action) bool {
	return a > ActionNone && a < actionCount && s.pressed[a]
}

// Held reports whether a is down this frame.
func (s ActionSet) Held(a Action) bool {
	return a > ActionNone && a < actionCount && (s.held[a] || s.pressed[a])
}

// Axis returns +1, -1 or 0 from a pair of held actions.
func (s ActionSet) Axis(pos, neg Action) float32 {
	var v float32
	if s.Held(pos) {
		v++
	}
	if s.Held(neg) {
		v--
	}
	return v
}
