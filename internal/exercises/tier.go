package exercises

import (
	"fmt"
	"strings"
)

// Tier is an exercise difficulty level.
type Tier string

const (
	Beginner     Tier = "beginner"
	Intermediate Tier = "intermediate"
	Advanced     Tier = "advanced"
)

// Tiers lists every tier from easiest to hardest.
func Tiers() []Tier {
	return []Tier{Beginner, Intermediate, Advanced}
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	switch t {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

// Initial returns the first letter of the tier name, used as the prefix of
// generated exercise ids.
func (t Tier) Initial() string {
	if t == "" {
		return ""
	}
	return string(t[0])
}

// Title returns the capitalized tier name.
func (t Tier) Title() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[0])) + string(t[1:])
}

func (t Tier) String() string { return string(t) }

// ParseTier accepts a tier name, its initial, or its menu number (1-3).
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner", "b", "1":
		return Beginner, nil
	case "intermediate", "i", "2":
		return Intermediate, nil
	case "advanced", "a", "3":
		return Advanced, nil
	}
	return "", fmt.Errorf("unknown tier %q (choose beginner, intermediate or advanced)", s)
}
