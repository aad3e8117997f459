package rules

import (
	"slices"

	"github.com/magefree/deal-server-go/internal/game/cards"
	"github.com/magefree/deal-server-go/internal/game/player"
	"github.com/magefree/deal-server-go/internal/game/property"
)

// Mask is the legality of every candidate value for the open stage. Only
// the fields of that stage are populated.
type Mask struct {
	Stage      Stage
	Side       Side
	Seat       int
	Actions    [NumActions]bool
	HandCards  [cards.NumIDs]bool
	Opponents  []bool
	Colours    [cards.NumColours]bool
	SetIndexes []bool
	Cards      [cards.NumIDs]bool
	Payments   []PropertySelector
}

// ComputeMask derives the legal choices for the open stage from the state
// and its action context. It does not modify s.
//
// A value is legal only if at least one complete continuation exists from
// it, so a caller sampling from the mask never reaches a stage with nothing
// to choose.
func ComputeMask(s *GameState) Mask {
	ctx := s.Context
	m := Mask{
		Stage:     ctx.Stage,
		Side:      ctx.Side,
		Seat:      s.DecidingSeat(),
		Opponents: make([]bool, len(s.Players)),
	}
	if s.Over() {
		return m
	}

	l := legality{s: s, ctx: ctx}
	switch ctx.Stage {
	case StageChooseAction:
		for k := ActionSkip; k < NumActions; k++ {
			m.Actions[k] = l.withKind(k).actionLegal()
		}

	case StageChooseHandCard:
		for _, card := range l.handCandidates() {
			m.HandCards[card.ID] = true
		}

	case StageChooseOpponent:
		for _, seat := range l.opponentCandidates() {
			m.Opponents[seat] = true
		}

	case StageChooseSourceColour, StageChooseSourceSet, StageChooseSourceCard:
		chosen := ctx.Source[ctx.Side]
		m.SetIndexes = make([]bool, s.Players[ctx.SideSeat(ctx.Side)].MaxSlots())
		for _, sel := range l.sourceCandidates(ctx.Side) {
			switch ctx.Stage {
			case StageChooseSourceColour:
				m.Colours[sel.Colour] = true
			case StageChooseSourceSet:
				if sel.Colour == chosen.Colour {
					m.SetIndexes[sel.SetIndex] = true
				}
			default:
				if sel.Colour == chosen.Colour && sel.SetIndex == chosen.SetIndex {
					m.Cards[sel.CardID] = true
				}
			}
		}

	case StageChooseDestColour, StageChooseDestSet:
		chosen := ctx.Dest[ctx.Side]
		m.SetIndexes = make([]bool, s.Players[ctx.SideSeat(ctx.Side)].MaxSlots())
		for _, sel := range l.destCandidates(ctx.Side) {
			if ctx.Stage == StageChooseDestColour {
				m.Colours[sel.Colour] = true
			} else if sel.Colour == chosen.Colour {
				m.SetIndexes[sel.SetIndex] = true
			}
		}

	case StageChoosePayment:
		if debt, ok := ctx.CurrentDebt(); ok {
			m.Payments = PaymentOptions(s.Players[debt.From], *debt)
		}

	case StageRespond, StageCommit:
	}
	return m
}

func inRange(v, n int) bool {
	return v >= 0 && v < n
}

// Allows reports whether the choice's field for the open stage is legal.
func (m Mask) Allows(c Choice) bool {
	switch m.Stage {
	case StageChooseAction:
		return c.Action.Valid() && m.Actions[c.Action]
	case StageChooseHandCard:
		return inRange(c.HandCard, cards.NumIDs) && m.HandCards[c.HandCard]
	case StageChooseOpponent:
		return inRange(c.Opponent, len(m.Opponents)) && m.Opponents[c.Opponent]
	case StageChooseSourceColour:
		return c.Property.Colour.Valid() && m.Colours[c.Property.Colour]
	case StageChooseSourceSet:
		return inRange(c.Property.SetIndex, len(m.SetIndexes)) && m.SetIndexes[c.Property.SetIndex]
	case StageChooseSourceCard:
		return inRange(c.Property.CardID, cards.NumIDs) && m.Cards[c.Property.CardID]
	case StageChooseDestColour:
		return c.Set.Colour.Valid() && m.Colours[c.Set.Colour]
	case StageChooseDestSet:
		return inRange(c.Set.SetIndex, len(m.SetIndexes)) && m.SetIndexes[c.Set.SetIndex]
	case StageChoosePayment:
		for _, sel := range m.Payments {
			if sel == c.Property {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Choices enumerates one Choice per legal value of the open stage, with
// only the consulted field set.
func (m Mask) Choices() []Choice {
	var out []Choice
	switch m.Stage {
	case StageChooseAction:
		for k, ok := range m.Actions {
			if ok {
				out = append(out, ChooseAction(ActionKind(k)))
			}
		}
	case StageChooseHandCard:
		for id, ok := range m.HandCards {
			if ok {
				out = append(out, ChooseHandCard(id))
			}
		}
	case StageChooseOpponent:
		for seat, ok := range m.Opponents {
			if ok {
				out = append(out, ChooseOpponent(seat))
			}
		}
	case StageChooseSourceColour:
		for colour, ok := range m.Colours {
			if ok {
				out = append(out, ChooseProperty(cards.Colour(colour), NoSelection, NoSelection))
			}
		}
	case StageChooseSourceSet:
		for idx, ok := range m.SetIndexes {
			if ok {
				out = append(out, ChooseProperty(NoSelection, idx, NoSelection))
			}
		}
	case StageChooseSourceCard:
		for id, ok := range m.Cards {
			if ok {
				out = append(out, ChooseProperty(NoSelection, NoSelection, id))
			}
		}
	case StageChooseDestColour:
		for colour, ok := range m.Colours {
			if ok {
				out = append(out, ChooseSet(cards.Colour(colour), NoSelection))
			}
		}
	case StageChooseDestSet:
		for idx, ok := range m.SetIndexes {
			if ok {
				out = append(out, ChooseSet(NoSelection, idx))
			}
		}
	case StageChoosePayment:
		for _, sel := range m.Payments {
			c := EmptyChoice()
			c.Property = sel
			out = append(out, c)
		}
	case StageRespond, StageCommit:
	}
	return out
}

// legality answers continuation questions for one state and context.
type legality struct {
	s   *GameState
	ctx ActionContext
}

func (l legality) withKind(kind ActionKind) legality {
	l.ctx.Kind = kind
	return l
}

func (l legality) actor() *player.State {
	return l.s.Players[l.ctx.Actor]
}

func (l legality) opponent() *player.State {
	return l.s.Players[l.ctx.Opponent]
}

func (l legality) anyOpponentHasMoney() bool {
	for _, seat := range l.s.Opponents() {
		if l.s.Players[seat].HasMoney() {
			return true
		}
	}
	return false
}

func (l legality) actionLegal() bool {
	kind := l.ctx.Kind
	if id, ok := kind.RequiredCard(); ok && !l.actor().HasCard(id) {
		return false
	}

	switch kind {
	case ActionSkip:
		return true
	case ActionMoveProperty:
		return l.actor().HasStealable() && len(l.sourceCandidates(SideActor)) > 0
	case ActionPlayMoney, ActionPlayProperty:
		return len(l.handCandidates()) > 0
	case ActionPlayWild:
		wild := cards.MustByID(cards.IDWildProperty)
		return len(destinations(l.actor(), wild, nil, NoSet)) > 0
	case ActionForcedDeal:
		return l.actor().HasStealable() && len(l.opponentCandidates()) > 0
	case ActionSlyDeal, ActionDebtCollector, ActionDealBreaker:
		return len(l.opponentCandidates()) > 0
	case ActionBirthday:
		return l.anyOpponentHasMoney()
	case ActionRentRedYellow, ActionRentGreenDarkBlue, ActionRentPinkOrange,
		ActionRentBlackLightGreen, ActionRentBrownLightBlue, ActionRentWild:
		return chargesFor(l.actor(), kind) && l.anyOpponentHasMoney()
	case ActionCounter, ActionNone:
		return false
	default:
		return false
	}
}

func (l legality) handCandidates() []cards.Card {
	actor := l.actor()
	switch l.ctx.Kind {
	case ActionPlayMoney:
		return actor.HandOfKind(cards.KindMoney)
	case ActionPlayProperty:
		var out []cards.Card
		for _, card := range actor.HandOfKind(cards.KindProperty) {
			if len(destinations(actor, card, nil, NoSet)) > 0 {
				out = append(out, card)
			}
		}
		return out
	default:
		id, ok := l.ctx.Kind.RequiredCard()
		if !ok || !actor.HasCard(id) {
			return nil
		}
		return []cards.Card{cards.MustByID(id)}
	}
}

func (l legality) opponentCandidates() []int {
	var out []int
	for _, seat := range l.s.Opponents() {
		opp := l.s.Players[seat]
		ok := false
		switch l.ctx.Kind {
		case ActionSlyDeal, ActionForcedDeal:
			if !opp.HasStealable() {
				break
			}
			next := l
			next.ctx.Opponent = seat
			ok = len(next.sourceCandidates(SideOpponent)) > 0
		case ActionDealBreaker:
			ok = opp.HasCompletedSet()
		case ActionDebtCollector, ActionRentWild:
			ok = opp.HasMoney()
		default:
			ok = false
		}
		if ok {
			out = append(out, seat)
		}
	}
	return out
}

func (l legality) sourceCandidates(side Side) []PropertySelector {
	actor := l.actor()
	var out []PropertySelector
	switch l.ctx.Kind {
	case ActionMoveProperty:
		for _, sel := range stealable(actor) {
			card := cards.MustByID(sel.CardID)
			if len(destinations(actor, card, []PropertySelector{sel}, sel.Slot())) > 0 {
				out = append(out, sel)
			}
		}

	case ActionSlyDeal:
		for _, sel := range stealable(l.opponent()) {
			if len(destinations(actor, cards.MustByID(sel.CardID), nil, NoSet)) > 0 {
				out = append(out, sel)
			}
		}

	case ActionForcedDeal:
		opp := l.opponent()
		if side == SideOpponent {
			own := stealable(actor)
			for _, x := range stealable(opp) {
				for _, y := range own {
					if swapFeasible(actor, opp, x, y) {
						out = append(out, x)
						break
					}
				}
			}
			return out
		}
		x := l.ctx.Source[SideOpponent]
		for _, y := range stealable(actor) {
			if swapFeasible(actor, opp, x, y) {
				out = append(out, y)
			}
		}

	case ActionDealBreaker:
		opp := l.opponent()
		for _, colour := range cards.BoardColours() {
			for i, set := range opp.Sets[colour] {
				if set.IsCompleted() {
					out = append(out, PropertySelector{Colour: colour, SetIndex: i, CardID: NoSelection})
				}
			}
		}

	default:
	}
	return out
}

func (l legality) destCandidates(side Side) []SetSelector {
	ctx := l.ctx
	actor := l.actor()
	switch ctx.Kind {
	case ActionPlayProperty, ActionPlayWild:
		return destinations(actor, cards.MustByID(ctx.HandCard), nil, NoSet)
	case ActionMoveProperty:
		src := ctx.Source[SideActor]
		return destinations(actor, cards.MustByID(src.CardID), []PropertySelector{src}, src.Slot())
	case ActionSlyDeal:
		return destinations(actor, cards.MustByID(ctx.Source[SideOpponent].CardID), nil, NoSet)
	case ActionForcedDeal:
		x, y := ctx.Source[SideOpponent], ctx.Source[SideActor]
		if side == SideActor {
			return destinations(actor, cards.MustByID(x.CardID), []PropertySelector{y}, NoSet)
		}
		return destinations(l.opponent(), cards.MustByID(y.CardID), []PropertySelector{x}, NoSet)
	default:
		if ctx.Kind.IsRent() {
			return rentSlots(actor, ctx.Kind)
		}
		return nil
	}
}

// swapFeasible reports whether opponent card x and actor card y can trade
// places, each landing on the other board after the other card has left.
func swapFeasible(actor, opp *player.State, x, y PropertySelector) bool {
	cx, cy := cards.MustByID(x.CardID), cards.MustByID(y.CardID)
	return len(destinations(actor, cx, []PropertySelector{y}, NoSet)) > 0 &&
		len(destinations(opp, cy, []PropertySelector{x}, NoSet)) > 0
}

// stealable lists every card of board sets that hold a natural card.
func stealable(board *player.State) []PropertySelector {
	var out []PropertySelector
	for _, colour := range cards.BoardColours() {
		for i, set := range board.Sets[colour] {
			if !set.HasNatural() {
				continue
			}
			for _, card := range set.Cards {
				out = append(out, PropertySelector{Colour: colour, SetIndex: i, CardID: card.ID})
			}
		}
	}
	return out
}

// chargesFor reports whether board holds a colour kind may charge rent for.
func chargesFor(board *player.State, kind ActionKind) bool {
	colours := kind.RentColours()
	for _, colour := range board.ColoursOnBoard() {
		if slices.Contains(colours, colour) {
			return true
		}
	}
	return false
}

// rentSlots lists the actor's sets a rent kind may charge for.
func rentSlots(board *player.State, kind ActionKind) []SetSelector {
	var out []SetSelector
	for _, colour := range kind.RentColours() {
		for i, set := range board.Sets[colour] {
			if set.HasNatural() {
				out = append(out, SetSelector{Colour: colour, SetIndex: i})
			}
		}
	}
	return out
}

// destinations lists the slots of board that would accept card once the
// removed cards have left their sets. The exclude slot is never offered.
func destinations(board *player.State, card cards.Card, removed []PropertySelector, exclude SetSelector) []SetSelector {
	var out []SetSelector
	for _, colour := range cards.BoardColours() {
		if !card.Fits(colour) {
			continue
		}
		for i := range board.Sets[colour] {
			if colour == exclude.Colour && i == exclude.SetIndex {
				continue
			}
			if projectedSlot(board, colour, i, removed).CanAdd(card) {
				out = append(out, SetSelector{Colour: colour, SetIndex: i})
			}
		}
	}
	return out
}

func projectedSlot(board *player.State, colour cards.Colour, idx int, removed []PropertySelector) *property.Set {
	set := board.Sets[colour][idx]
	var out *property.Set
	for _, r := range removed {
		if r.Colour != colour || r.SetIndex != idx {
			continue
		}
		if out == nil {
			out = set.Clone()
		}
		out.Remove(r.CardID)
	}
	if out == nil {
		return set
	}
	return out
}
