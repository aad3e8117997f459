package property

import "github.com/magefree/deal-server-go/internal/game/cards"

const (
	houseBonus = 3
	hotelBonus = 4
)

// baseRent returns the rent owed for size cards of colour, before bonuses.
func baseRent(colour cards.Colour, size int) int {
	if size <= 0 {
		return 0
	}
	switch colour {
	case cards.DarkBlue:
		if size == 1 {
			return 3
		}
		return 8
	case cards.Brown, cards.LightGreen, cards.LightBlue, cards.Black:
		return size
	case cards.Green:
		if size <= 2 {
			return 2 * size
		}
		return 7
	case cards.Red:
		if size <= 2 {
			return size + 1
		}
		return 6
	case cards.Yellow:
		return 2 * size
	case cards.Orange:
		return 2*size - 1
	case cards.Pink:
		return 1 << (size - 1)
	case cards.Wild:
		return 0
	default:
		return 0
	}
}

// Rent returns the rent value of the set including house and hotel bonuses.
func (s *Set) Rent() int {
	rent := baseRent(s.Colour, s.Size())
	if s.House {
		rent += houseBonus
	}
	if s.Hotel {
		rent += hotelBonus
	}
	return rent
}
