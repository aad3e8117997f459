package rules

import (
	"fmt"

	"github.com/magefree/deal-server-go/internal/game/cards"
)

// NoSelection marks an unset choice field.
const NoSelection = -1

// PropertySelector addresses one property card: colour, set index and card
// id. During CHOOSE_PAYMENT a money card is addressed with Colour and
// SetIndex set to NoSelection.
type PropertySelector struct {
	Colour   cards.Colour
	SetIndex int
	CardID   int
}

// SetSelector addresses one property set slot.
type SetSelector struct {
	Colour   cards.Colour
	SetIndex int
}

// NoProperty is a PropertySelector with every field unset.
var NoProperty = PropertySelector{Colour: NoSelection, SetIndex: NoSelection, CardID: NoSelection}

// NoSet is a SetSelector with every field unset.
var NoSet = SetSelector{Colour: NoSelection, SetIndex: NoSelection}

// IsMoney reports whether the selector addresses a money pile card.
func (s PropertySelector) IsMoney() bool {
	return s.Colour == NoSelection && s.CardID != NoSelection
}

// Slot returns the set part of the selector.
func (s PropertySelector) Slot() SetSelector {
	return SetSelector{Colour: s.Colour, SetIndex: s.SetIndex}
}

func (s PropertySelector) String() string {
	if s.IsMoney() {
		return fmt.Sprintf("money:%d", s.CardID)
	}
	return fmt.Sprintf("%s[%d]:%d", s.Colour, s.SetIndex, s.CardID)
}

func (s SetSelector) String() string {
	return fmt.Sprintf("%s[%d]", s.Colour, s.SetIndex)
}

// Choice is the per-step input record. Only the field relevant to the open
// stage is consulted.
type Choice struct {
	Action   ActionKind
	HandCard int
	Opponent int
	Property PropertySelector
	Set      SetSelector
}

// EmptyChoice returns a Choice with every field unset.
func EmptyChoice() Choice {
	return Choice{
		Action:   ActionNone,
		HandCard: NoSelection,
		Opponent: NoSelection,
		Property: NoProperty,
		Set:      NoSet,
	}
}

// ChooseAction builds a CHOOSE_ACTION input.
func ChooseAction(kind ActionKind) Choice {
	c := EmptyChoice()
	c.Action = kind
	return c
}

// ChooseHandCard builds a CHOOSE_HAND_CARD input.
func ChooseHandCard(id int) Choice {
	c := EmptyChoice()
	c.HandCard = id
	return c
}

// ChooseOpponent builds a CHOOSE_OPPONENT input.
func ChooseOpponent(seat int) Choice {
	c := EmptyChoice()
	c.Opponent = seat
	return c
}

// ChooseProperty builds an input for the source and payment stages.
func ChooseProperty(colour cards.Colour, setIndex, cardID int) Choice {
	c := EmptyChoice()
	c.Property = PropertySelector{Colour: colour, SetIndex: setIndex, CardID: cardID}
	return c
}

// ChooseMoney builds a CHOOSE_PAYMENT input for a money pile card.
func ChooseMoney(cardID int) Choice {
	c := EmptyChoice()
	c.Property = PropertySelector{Colour: NoSelection, SetIndex: NoSelection, CardID: cardID}
	return c
}

// ChooseSet builds an input for the destination stages.
func ChooseSet(colour cards.Colour, setIndex int) Choice {
	c := EmptyChoice()
	c.Set = SetSelector{Colour: colour, SetIndex: setIndex}
	return c
}

// ActionContext is the in-flight action: the choices made so far and the
// stage that is open.
type ActionContext struct {
	Kind     ActionKind
	Actor    int
	Stage    Stage
	Side     Side
	Step     int
	HandCard int
	Opponent int
	Source   [2]PropertySelector
	Dest     [2]SetSelector

	Debts     []Debt
	DebtIndex int
}

// NewActionContext returns a fresh context for actor at CHOOSE_ACTION.
func NewActionContext(actor int) ActionContext {
	return ActionContext{
		Kind:     ActionNone,
		Actor:    actor,
		Stage:    StageChooseAction,
		Side:     SideActor,
		HandCard: NoSelection,
		Opponent: NoSelection,
		Source:   [2]PropertySelector{NoProperty, NoProperty},
		Dest:     [2]SetSelector{NoSet, NoSet},
	}
}

// Clone deep-copies the context.
func (c ActionContext) Clone() ActionContext {
	out := c
	if c.Debts != nil {
		out.Debts = make([]Debt, len(c.Debts))
		for i, d := range c.Debts {
			out.Debts[i] = d.Clone()
		}
	}
	return out
}

// SideSeat returns the seat addressed by side.
func (c ActionContext) SideSeat(side Side) int {
	if side == SideActor {
		return c.Actor
	}
	return c.Opponent
}

// CurrentDebt returns the debt being settled during CHOOSE_PAYMENT.
func (c *ActionContext) CurrentDebt() (*Debt, bool) {
	if c.DebtIndex < 0 || c.DebtIndex >= len(c.Debts) {
		return nil, false
	}
	return &c.Debts[c.DebtIndex], true
}
