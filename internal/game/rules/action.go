package rules

import (
	"fmt"

	"github.com/magefree/deal-server-go/internal/game/cards"
)

// ActionKind identifies what the actor is doing with the current action.
type ActionKind int

const (
	ActionNone ActionKind = iota - 1
	ActionSkip
	ActionMoveProperty
	ActionPlayMoney
	ActionPlayProperty
	ActionPlayWild
	ActionSlyDeal
	ActionForcedDeal
	ActionDebtCollector
	ActionBirthday
	ActionDealBreaker
	ActionRentRedYellow
	ActionRentGreenDarkBlue
	ActionRentPinkOrange
	ActionRentBlackLightGreen
	ActionRentBrownLightBlue
	ActionRentWild
	ActionCounter
)

// NumActions is the size of the action-kind space, Counter included.
const NumActions = 17

// Amounts owed for the fixed-value debt actions.
const (
	DebtCollectorAmount = 5
	BirthdayAmount      = 2
)

var actionNames = map[ActionKind]string{
	ActionNone:                "NONE",
	ActionSkip:                "SKIP",
	ActionMoveProperty:        "MOVE_PROPERTY",
	ActionPlayMoney:           "PLAY_MONEY",
	ActionPlayProperty:        "PLAY_PROPERTY",
	ActionPlayWild:            "PLAY_WILD",
	ActionSlyDeal:             "SLY_DEAL",
	ActionForcedDeal:          "FORCED_DEAL",
	ActionDebtCollector:       "DEBT_COLLECTOR",
	ActionBirthday:            "BIRTHDAY",
	ActionDealBreaker:         "DEAL_BREAKER",
	ActionRentRedYellow:       "RENT_RED_YELLOW",
	ActionRentGreenDarkBlue:   "RENT_GREEN_DARK_BLUE",
	ActionRentPinkOrange:      "RENT_PINK_ORANGE",
	ActionRentBlackLightGreen: "RENT_BLACK_LIGHT_GREEN",
	ActionRentBrownLightBlue:  "RENT_BROWN_LIGHT_BLUE",
	ActionRentWild:            "RENT_WILD",
	ActionCounter:             "COUNTER",
}

func (k ActionKind) String() string {
	if name, ok := actionNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ACTION_%d", int(k))
}

// Valid reports whether k is inside the action-kind space.
func (k ActionKind) Valid() bool {
	return k >= ActionSkip && k < NumActions
}

// requiredCards maps kinds that are played from a specific card id.
var requiredCards = map[ActionKind]int{
	ActionPlayWild:            cards.IDWildProperty,
	ActionSlyDeal:             cards.IDSlyDeal,
	ActionForcedDeal:          cards.IDForcedDeal,
	ActionDebtCollector:       cards.IDDebtCollector,
	ActionBirthday:            cards.IDBirthday,
	ActionDealBreaker:         cards.IDDealBreaker,
	ActionRentRedYellow:       cards.IDRentRedYellow,
	ActionRentGreenDarkBlue:   cards.IDRentGreenBlue,
	ActionRentPinkOrange:      cards.IDRentPinkOrange,
	ActionRentBlackLightGreen: cards.IDRentBlackGreen,
	ActionRentBrownLightBlue:  cards.IDRentBrownBlue,
	ActionRentWild:            cards.IDRentWild,
	ActionCounter:             cards.IDJustSayNo,
}

// RequiredCard returns the card id the kind must be played from.
func (k ActionKind) RequiredCard() (int, bool) {
	id, ok := requiredCards[k]
	return id, ok
}

// IsRent reports whether k charges rent.
func (k ActionKind) IsRent() bool {
	return k >= ActionRentRedYellow && k <= ActionRentWild
}

// RentColours returns the colours a rent kind may charge for. Wild rent
// returns every board colour.
func (k ActionKind) RentColours() []cards.Colour {
	if !k.IsRent() {
		return nil
	}
	id := requiredCards[k]
	card := cards.MustByID(id)
	if card.IsWild() {
		return cards.BoardColours()
	}
	return card.Colours
}

// ChargesAll reports whether every opponent pays, rather than a chosen one.
func (k ActionKind) ChargesAll() bool {
	return k == ActionBirthday || (k.IsRent() && k != ActionRentWild)
}

// DiscardsCard reports whether the played hand card goes to the discard
// pile at commit.
func (k ActionKind) DiscardsCard() bool {
	switch k {
	case ActionSlyDeal, ActionForcedDeal, ActionDebtCollector, ActionBirthday, ActionDealBreaker,
		ActionRentRedYellow, ActionRentGreenDarkBlue, ActionRentPinkOrange,
		ActionRentBlackLightGreen, ActionRentBrownLightBlue, ActionRentWild:
		return true
	default:
		return false
	}
}
