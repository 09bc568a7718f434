// Package playback holds the player's transport state and the policy that
// decides which queue entry plays next.
package playback

import "fmt"

// NoIndex marks a state with nothing selected in the queue.
const NoIndex = -1

// LoopMode defines queue repeat behavior
type LoopMode int

const (
	LoopNone LoopMode = iota // stop at the end of the current item
	LoopAll                  // repeat the whole queue
	LoopOne                  // repeat the current item
)

// Next cycles None -> All -> One -> None.
func (m LoopMode) Next() LoopMode {
	return (m + 1) % 3
}

func (m LoopMode) String() string {
	switch m {
	case LoopAll:
		return "all"
	case LoopOne:
		return "one"
	default:
		return "off"
	}
}

// ParseLoopMode converts "off", "all" or "one" to a LoopMode.
func ParseLoopMode(s string) (LoopMode, error) {
	switch s {
	case "off", "none", "":
		return LoopNone, nil
	case "all":
		return LoopAll, nil
	case "one":
		return LoopOne, nil
	}
	return LoopNone, fmt.Errorf("unknown loop mode %q", s)
}

// State is the single playback state of a player instance. It is created
// once at start-up and shared by pointer with the components that need it.
type State struct {
	CurrentPath  string
	Queue        []string
	CurrentIndex int

	Loop    LoopMode
	Shuffle bool

	Paused  bool
	Stopped bool
}

// NewState returns a state with an empty queue and nothing selected.
func NewState() *State {
	return &State{CurrentIndex: NoIndex}
}

// Reset puts the state back to its initial values.
func (s *State) Reset() {
	*s = State{CurrentIndex: NoIndex}
}

// SetQueue replaces the queue with a copy of paths and selects index.
// NoIndex leaves nothing selected.
func (s *State) SetQueue(paths []string, index int) error {
	if index != NoIndex && (index < 0 || index >= len(paths)) {
		return fmt.Errorf("queue index %d out of range [0,%d)", index, len(paths))
	}
	s.Queue = append([]string(nil), paths...)
	s.CurrentIndex = NoIndex
	s.CurrentPath = ""
	if index != NoIndex {
		return s.Select(index)
	}
	return nil
}

// Select makes queue entry index the current item.
func (s *State) Select(index int) error {
	if index < 0 || index >= len(s.Queue) {
		return fmt.Errorf("queue index %d out of range [0,%d)", index, len(s.Queue))
	}
	s.CurrentIndex = index
	s.CurrentPath = s.Queue[index]
	return nil
}

// HasCurrent reports whether an item is selected.
func (s *State) HasCurrent() bool {
	return s.CurrentIndex >= 0 && s.CurrentIndex < len(s.Queue)
}
