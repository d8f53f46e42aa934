// Package input handles SDL2 input events.
package input

import (
	"sort"

	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies processed events.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Repeat bool
	Width  int
	Height int
	MouseX int
	MouseY int
	RelX   int
	RelY   int
	Wheel  float32
	Button uint8
}

// Input turns the SDL event queue into per-frame key and mouse state.
type Input struct {
	events []Event
	held   map[sdl.Scancode]bool

	dragging bool
	dragX    float32
	dragY    float32
	clicked  bool
	clickX   float32
	clickY   float32
	wheel    float32
	resized  bool
	width    int
	height   int
	quit     bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		held:   make(map[sdl.Scancode]bool),
	}
}

// Update polls SDL events for one frame.
// Returns true if the window was closed.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	i.dragX, i.dragY, i.wheel = 0, 0, 0
	i.clicked = false
	i.resized = false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			i.quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.resized = true
				i.width, i.height = int(e.Data1), int(e.Data2)
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  i.width,
					Height: i.height,
				})
			}

		case *sdl.KeyboardEvent:
			code := e.Keysym.Scancode
			if e.Type == sdl.KEYDOWN {
				i.held[code] = true
				i.events = append(i.events, Event{
					Type:   EventKeyDown,
					Key:    code,
					Repeat: e.Repeat != 0,
				})
			} else if e.Type == sdl.KEYUP {
				delete(i.held, code)
				i.events = append(i.events, Event{
					Type: EventKeyUp,
					Key:  code,
				})
			}

		case *sdl.MouseMotionEvent:
			if i.dragging {
				i.dragX += float32(e.XRel)
				i.dragY += float32(e.YRel)
			}
			i.events = append(i.events, Event{
				Type:   EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				RelX:   int(e.XRel),
				RelY:   int(e.YRel),
			})

		case *sdl.MouseButtonEvent:
			if e.Button == sdl.BUTTON_RIGHT {
				i.dragging = e.Type == sdl.MOUSEBUTTONDOWN
			}
			if e.Button == sdl.BUTTON_LEFT && e.Type == sdl.MOUSEBUTTONDOWN {
				i.clicked = true
				i.clickX, i.clickY = float32(e.X), float32(e.Y)
			}
			t := EventMouseUp
			if e.Type == sdl.MOUSEBUTTONDOWN {
				t = EventMouseDown
			}
			i.events = append(i.events, Event{
				Type:   t,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			})

		case *sdl.MouseWheelEvent:
			dy := float32(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				dy = -dy
			}
			i.wheel += dy
			i.events = append(i.events, Event{Type: EventMouseWheel, Wheel: dy})
		}
	}

	return i.quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key went down this frame, ignoring auto-repeat.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && !e.Repeat && e.Key == scancode {
			return true
		}
	}
	return false
}

// Pressed returns the names of keys that went down this frame, ignoring
// auto-repeat.
func (i *Input) Pressed() []string {
	var names []string
	for _, e := range i.events {
		if e.Type == EventKeyDown && !e.Repeat {
			names = append(names, sdl.GetScancodeName(e.Key))
		}
	}
	return names
}

// Held returns the names of keys currently down, sorted.
func (i *Input) Held() []string {
	names := make([]string, 0, len(i.held))
	for code := range i.held {
		names = append(names, sdl.GetScancodeName(code))
	}
	sort.Strings(names)
	return names
}

// Drag returns the right-button drag distance this frame in pixels.
func (i *Input) Drag() (float32, float32) {
	return i.dragX, i.dragY
}

// Click returns the last left-button press this frame in window coordinates.
func (i *Input) Click() (bool, float32, float32) {
	return i.clicked, i.clickX, i.clickY
}

// Wheel returns the scroll amount this frame. Positive scrolls away from the user.
func (i *Input) Wheel() float32 {
	return i.wheel
}

// Resized reports a window size change this frame and the new size.
func (i *Input) Resized() (bool, int, int) {
	return i.resized, i.width, i.height
}
