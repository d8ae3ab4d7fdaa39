package config

import (
	"fmt"
	"strconv"
	"strings"
)

// PhysicsMode selects the step strategy of the physics world. The numeric
// values are stable and may appear in config files.
type PhysicsMode int

const (
	// ModeOriginal runs full dynamics: integrate, respond to every contact,
	// integrate again. Nothing is rolled back.
	ModeOriginal PhysicsMode = iota
	// ModePoseTryOne is the default pose-mode protocol with one correction
	// attempt and whole-world rollback.
	ModePoseTryOne
	// ModeBinarySearch halves the applied forces until the move is collision
	// free.
	ModeBinarySearch
	// ModePosePCA is pose mode with the contact-patch PCA correction force.
	ModePosePCA
)

var modeNames = [...]string{
	ModeOriginal:     "original",
	ModePoseTryOne:   "pose-try-one",
	ModeBinarySearch: "binary-search",
	ModePosePCA:      "pose-pca",
}

// Modes lists every mode in numeric order.
func Modes() []PhysicsMode {
	return []PhysicsMode{ModeOriginal, ModePoseTryOne, ModeBinarySearch, ModePosePCA}
}

func (m PhysicsMode) Valid() bool {
	return m >= ModeOriginal && m <= ModePosePCA
}

func (m PhysicsMode) String() string {
	if !m.Valid() {
		return "PhysicsMode(" + strconv.Itoa(int(m)) + ")"
	}
	return modeNames[m]
}

// ParseMode accepts a mode name or its number. Names are case-insensitive and
// "pose" and "pca" are accepted as short forms.
func ParseMode(s string) (PhysicsMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "pose":
		return ModePoseTryOne, nil
	case "pca":
		return ModePosePCA, nil
	case "binary":
		return ModeBinarySearch, nil
	}
	for i, n := range modeNames {
		if n == name {
			return PhysicsMode(i), nil
		}
	}
	if n, err := strconv.Atoi(name); err == nil && PhysicsMode(n).Valid() {
		return PhysicsMode(n), nil
	}
	return 0, fmt.Errorf("unknown physics mode %q", s)
}

func (m PhysicsMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid physics mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *PhysicsMode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
