package cards

import (
	"fmt"
	"strings"
)

// Kind discriminates the card variants.
type Kind int

const (
	KindMoney Kind = iota
	KindProperty
	KindRent
	KindAction
)

var kindNames = map[Kind]string{
	KindMoney:    "MONEY",
	KindProperty: "PROPERTY",
	KindRent:     "RENT",
	KindAction:   "ACTION",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND_%d", int(k))
}

// Colour identifies a property colour. Wild is a sentinel that never owns a
// board slot.
type Colour int

const (
	DarkBlue Colour = iota
	Brown
	LightGreen
	Green
	LightBlue
	Red
	Yellow
	Orange
	Pink
	Black
	Wild
)

// NumColours is the number of board colours (Wild excluded).
const NumColours = 10

var colourNames = map[Colour]string{
	DarkBlue:   "Dark Blue",
	Brown:      "Brown",
	LightGreen: "Light Green",
	Green:      "Green",
	LightBlue:  "Light Blue",
	Red:        "Red",
	Yellow:     "Yellow",
	Orange:     "Orange",
	Pink:       "Pink",
	Black:      "Black",
	Wild:       "Wild",
}

func (c Colour) String() string {
	if name, ok := colourNames[c]; ok {
		return name
	}
	return fmt.Sprintf("COLOUR_%d", int(c))
}

// Valid reports whether c addresses a board colour.
func (c Colour) Valid() bool {
	return c >= DarkBlue && c < Wild
}

// Capacity returns the number of cards that completes a set of colour c.
// Wild has no completion state and reports 0.
func (c Colour) Capacity() int {
	switch c {
	case DarkBlue, Brown, LightGreen:
		return 2
	case Green, LightBlue, Red, Yellow, Orange, Pink:
		return 3
	case Black:
		return 4
	default:
		return 0
	}
}

// BoardColours lists the colours in slot order.
func BoardColours() []Colour {
	out := make([]Colour, 0, NumColours)
	for c := DarkBlue; c < Wild; c++ {
		out = append(out, c)
	}
	return out
}

// Card is an immutable card value. Colours is only populated for property
// and rent cards.
type Card struct {
	ID      int
	Name    string
	Value   int
	Kind    Kind
	Colours []Colour
}

func (c Card) String() string {
	return c.Name
}

// IsWild reports whether the card fits any colour.
func (c Card) IsWild() bool {
	return len(c.Colours) > 0 && c.Colours[0] == Wild
}

// HasColour reports whether the card's affinity includes colour.
func (c Card) HasColour(colour Colour) bool {
	for _, own := range c.Colours {
		if own == colour {
			return true
		}
	}
	return false
}

// Fits reports whether the card may sit in a set of the given colour,
// ignoring the set's contents.
func (c Card) Fits(colour Colour) bool {
	switch c.Kind {
	case KindProperty:
		return c.IsWild() || c.HasColour(colour)
	case KindMoney, KindRent, KindAction:
		return false
	default:
		return false
	}
}

// Describe renders a verbose one-line description.
func (c Card) Describe() string {
	switch c.Kind {
	case KindProperty, KindRent:
		names := make([]string, len(c.Colours))
		for i, colour := range c.Colours {
			names[i] = colour.String()
		}
		return fmt.Sprintf("%s [%s] %dM (%s)", c.Name, c.Kind, c.Value, strings.Join(names, "/"))
	case KindMoney, KindAction:
		return fmt.Sprintf("%s [%s] %dM", c.Name, c.Kind, c.Value)
	default:
		return c.Name
	}
}
