package game

import (
	"fmt"
	"strconv"

	"github.com/magefree/deal-server-go/internal/game/cards"
	"github.com/magefree/deal-server-go/internal/game/player"
	"github.com/magefree/deal-server-go/internal/game/property"
	"github.com/magefree/deal-server-go/internal/game/rules"
)

// advance validates choice against the open stage of s, writes it into the
// action context and opens the next stage. When the kind's path is
// complete the action is committed. s is mutated in place; callers pass a
// clone and discard it on error.
func advance(s *rules.GameState, choice rules.Choice) ([]rules.Event, error) {
	ctx := &s.Context
	if !rules.ComputeMask(s).Allows(choice) {
		return nil, fmt.Errorf("%w: %s for seat %d", rules.ErrIllegalChoice, ctx.Stage, s.DecidingSeat())
	}

	side := ctx.Side
	switch ctx.Stage {
	case rules.StageChooseAction:
		ctx.Kind = choice.Action
		ctx.Step = 0
		return openStage(s)
	case rules.StageChooseHandCard:
		ctx.HandCard = choice.HandCard
	case rules.StageChooseOpponent:
		ctx.Opponent = choice.Opponent
	case rules.StageChooseSourceColour:
		ctx.Source[side] = rules.PropertySelector{
			Colour:   choice.Property.Colour,
			SetIndex: rules.NoSelection,
			CardID:   rules.NoSelection,
		}
	case rules.StageChooseSourceSet:
		ctx.Source[side].SetIndex = choice.Property.SetIndex
	case rules.StageChooseSourceCard:
		ctx.Source[side].CardID = choice.Property.CardID
	case rules.StageChooseDestColour:
		ctx.Dest[side] = rules.SetSelector{Colour: choice.Set.Colour, SetIndex: rules.NoSelection}
	case rules.StageChooseDestSet:
		ctx.Dest[side].SetIndex = choice.Set.SetIndex
	case rules.StageChoosePayment:
		debt, _ := ctx.CurrentDebt()
		debt.Selected = append(debt.Selected, choice.Property)
		return settle(s)
	default:
		return nil, fmt.Errorf("%w: stage %s takes no input", rules.ErrIllegalChoice, ctx.Stage)
	}
	ctx.Step++
	return openStage(s)
}

// openStage moves the context to the stage at its step cursor, or past the
// end of the path into settlement and commit.
func openStage(s *rules.GameState) ([]rules.Event, error) {
	ctx := &s.Context
	path := rules.Path(ctx.Kind)
	if ctx.Step < len(path) {
		ctx.Stage = path[ctx.Step].Stage
		ctx.Side = path[ctx.Step].Side
		return nil, nil
	}

	debts, err := queueDebts(s)
	if err != nil {
		return nil, err
	}
	ctx.Debts = debts
	ctx.DebtIndex = 0

	if s.Settings.Settlement == rules.SettlementInteractive && len(debts) > 0 {
		ctx.Stage = rules.StageChoosePayment
		ctx.Side = rules.SideOpponent
		return settle(s)
	}
	for i := range ctx.Debts {
		debt := &ctx.Debts[i]
		debt.Selected = rules.AutoSettle(s.Players[debt.From], debt.Amount)
	}
	return commit(s)
}

// settle walks the debt queue, skipping debts that need no choice, and
// commits once every debt is settled.
func settle(s *rules.GameState) ([]rules.Event, error) {
	ctx := &s.Context
	for ; ctx.DebtIndex < len(ctx.Debts); ctx.DebtIndex++ {
		debt := &ctx.Debts[ctx.DebtIndex]
		if !debt.Resolve(s.Players[debt.From]) {
			return nil, nil
		}
	}
	return commit(s)
}

// queueDebts lists what the completed action charges, in seating order
// after the actor.
func queueDebts(s *rules.GameState) ([]rules.Debt, error) {
	ctx := s.Context
	switch {
	case ctx.Kind == rules.ActionDebtCollector:
		return []rules.Debt{{From: ctx.Opponent, To: ctx.Actor, Amount: rules.DebtCollectorAmount}}, nil
	case ctx.Kind == rules.ActionBirthday:
		return chargeAll(s, rules.BirthdayAmount), nil
	case ctx.Kind.IsRent():
		dest := ctx.Dest[rules.SideActor]
		set, err := slotOf(s.Actor(), dest.Colour, dest.SetIndex)
		if err != nil {
			return nil, err
		}
		if ctx.Kind.ChargesAll() {
			return chargeAll(s, set.Rent()), nil
		}
		return []rules.Debt{{From: ctx.Opponent, To: ctx.Actor, Amount: set.Rent()}}, nil
	default:
		return nil, nil
	}
}

func chargeAll(s *rules.GameState, amount int) []rules.Debt {
	var out []rules.Debt
	for _, seat := range s.Opponents() {
		out = append(out, rules.Debt{From: seat, To: s.Context.Actor, Amount: amount})
	}
	return out
}

// resolution applies one committed action.
type resolution struct {
	s      *rules.GameState
	ctx    rules.ActionContext
	actor  *player.State
	events []rules.Event
}

func (r *resolution) emit(evt rules.Event) {
	evt.Kind = r.ctx.Kind
	evt.Turn = r.s.Order.Turn
	r.events = append(r.events, evt)
}

// commit performs the effect of the context's action, spends one action and
// either reopens CHOOSE_ACTION for the actor or passes the turn.
func commit(s *rules.GameState) ([]rules.Event, error) {
	s.Context.Stage = rules.StageCommit
	ctx := s.Context
	actor, err := s.Player(ctx.Actor)
	if err != nil {
		return nil, err
	}

	r := &resolution{s: s, ctx: ctx, actor: actor}
	if err := r.apply(); err != nil {
		return nil, fmt.Errorf("commit %s for seat %d: %w", ctx.Kind, ctx.Actor, err)
	}
	r.emit(rules.NewEvent(rules.EventActionCommitted, ctx.Actor, ctx.Opponent))

	s.ActionsLeft[ctx.Actor]--
	s.Context = rules.NewActionContext(ctx.Actor)
	if r.checkWinner() {
		return r.events, nil
	}
	if s.ActionsLeft[ctx.Actor] <= 0 {
		if err := r.nextSeat(); err != nil {
			return nil, err
		}
	}
	return r.events, nil
}

func (r *resolution) apply() error {
	ctx := r.ctx

	var played cards.Card
	if ctx.HandCard != rules.NoSelection {
		card, ok := r.actor.TakeFromHand(ctx.HandCard)
		if !ok {
			return fmt.Errorf("%w: seat %d does not hold card %d", rules.ErrMissingTarget, ctx.Actor, ctx.HandCard)
		}
		played = card
		if ctx.Kind.DiscardsCard() {
			r.s.Deck.PutDiscard(card)
			r.emit(rules.NewCardEvent(rules.EventCardDiscarded, ctx.Actor, rules.NoSelection, card.ID))
		}
	}

	switch ctx.Kind {
	case rules.ActionSkip:
		return nil
	case rules.ActionMoveProperty:
		return r.moveProperty()
	case rules.ActionPlayMoney:
		r.actor.AddMoney(played)
		evt := rules.NewCardEvent(rules.EventMoneyBanked, ctx.Actor, rules.NoSelection, played.ID)
		evt.Amount = played.Value
		r.emit(evt)
		return nil
	case rules.ActionPlayProperty, rules.ActionPlayWild:
		dest := ctx.Dest[rules.SideActor]
		if err := put(r.actor, dest, played); err != nil {
			return err
		}
		evt := rules.NewCardEvent(rules.EventPropertyPlayed, ctx.Actor, rules.NoSelection, played.ID)
		evt.Colour = dest.Colour
		r.emit(evt)
		return nil
	case rules.ActionSlyDeal:
		return r.slyDeal()
	case rules.ActionForcedDeal:
		return r.forcedDeal()
	case rules.ActionDealBreaker:
		return r.dealBreaker()
	case rules.ActionDebtCollector, rules.ActionBirthday,
		rules.ActionRentRedYellow, rules.ActionRentGreenDarkBlue, rules.ActionRentPinkOrange,
		rules.ActionRentBlackLightGreen, rules.ActionRentBrownLightBlue, rules.ActionRentWild:
		return r.collectDebts()
	default:
		return fmt.Errorf("%w: %s has no effect", rules.ErrMissingTarget, ctx.Kind)
	}
}

func (r *resolution) opponent() (*player.State, error) {
	return r.s.Player(r.ctx.Opponent)
}

func (r *resolution) moveProperty() error {
	src, dest := r.ctx.Source[rules.SideActor], r.ctx.Dest[rules.SideActor]
	card, err := take(r.actor, src)
	if err != nil {
		return err
	}
	if err := put(r.actor, dest, card); err != nil {
		return err
	}
	evt := rules.NewCardEvent(rules.EventPropertyMoved, r.ctx.Actor, rules.NoSelection, card.ID)
	evt.Colour = dest.Colour
	evt.Metadata["from"] = src.Slot().String()
	r.emit(evt)
	return nil
}

func (r *resolution) slyDeal() error {
	opp, err := r.opponent()
	if err != nil {
		return err
	}
	dest := r.ctx.Dest[rules.SideActor]
	card, err := take(opp, r.ctx.Source[rules.SideOpponent])
	if err != nil {
		return err
	}
	if err := put(r.actor, dest, card); err != nil {
		return err
	}
	evt := rules.NewCardEvent(rules.EventPropertyStolen, r.ctx.Actor, opp.Seat, card.ID)
	evt.Colour = dest.Colour
	r.emit(evt)
	return nil
}

// forcedDeal lifts both cards before placing either, matching the
// projected boards the destination masks were computed on.
func (r *resolution) forcedDeal() error {
	opp, err := r.opponent()
	if err != nil {
		return err
	}
	theirs, err := take(opp, r.ctx.Source[rules.SideOpponent])
	if err != nil {
		return err
	}
	ours, err := take(r.actor, r.ctx.Source[rules.SideActor])
	if err != nil {
		return err
	}
	if err := put(r.actor, r.ctx.Dest[rules.SideActor], theirs); err != nil {
		return err
	}
	if err := put(opp, r.ctx.Dest[rules.SideOpponent], ours); err != nil {
		return err
	}
	evt := rules.NewCardEvent(rules.EventPropertiesSwapped, r.ctx.Actor, opp.Seat, theirs.ID)
	evt.Colour = r.ctx.Dest[rules.SideActor].Colour
	evt.Metadata["given"] = strconv.Itoa(ours.ID)
	r.emit(evt)
	return nil
}

// dealBreaker moves the chosen completed set, improvements included, into
// the actor's first empty slot of that colour. The slot is addressed through
// the owning slice so the new holdings are visible on the board; a slot is
// appended when every existing one is occupied.
func (r *resolution) dealBreaker() error {
	opp, err := r.opponent()
	if err != nil {
		return err
	}
	src := r.ctx.Source[rules.SideOpponent]
	donor, err := slotOf(opp, src.Colour, src.SetIndex)
	if err != nil {
		return err
	}
	if !donor.IsCompleted() {
		return fmt.Errorf("%w: %s set %d of seat %d is not completed", rules.ErrMissingTarget, src.Colour, src.SetIndex, opp.Seat)
	}

	house, hotel := donor.House, donor.Hotel
	taken := donor.Clear()

	slots := r.actor.Sets[src.Colour]
	idx := rules.NoSelection
	for i, set := range slots {
		if set.IsEmpty() {
			idx = i
			break
		}
	}
	if idx == rules.NoSelection {
		idx = r.actor.AppendSlot(src.Colour)
	}
	dest := r.actor.Sets[src.Colour][idx]
	dest.Cards = append(dest.Cards, taken...)
	dest.House, dest.Hotel = house, hotel

	evt := rules.NewEventWithAmount(rules.EventSetStolen, r.ctx.Actor, opp.Seat, len(taken))
	evt.Colour = src.Colour
	evt.Metadata["slot"] = strconv.Itoa(idx)
	r.emit(evt)
	return nil
}

func (r *resolution) collectDebts() error {
	for _, debt := range r.ctx.Debts {
		payer, err := r.s.Player(debt.From)
		if err != nil {
			return err
		}
		payee, err := r.s.Player(debt.To)
		if err != nil {
			return err
		}
		if r.ctx.Kind.IsRent() {
			evt := rules.NewEventWithAmount(rules.EventRentCharged, debt.To, debt.From, debt.Amount)
			evt.Colour = r.ctx.Dest[rules.SideActor].Colour
			r.emit(evt)
		}

		paid := 0
		for _, sel := range debt.Selected {
			card, err := rules.Transfer(payer, payee, sel)
			if err != nil {
				return err
			}
			paid += card.Value
		}
		if paid > 0 {
			r.emit(rules.NewEventWithAmount(rules.EventDebtPaid, debt.From, debt.To, paid))
		}
	}
	return nil
}

// checkWinner ends the game when a seat, checked from the actor onwards,
// holds enough completed sets of distinct colours.
func (r *resolution) checkWinner() bool {
	need := r.s.Settings.SetsToWin
	if need <= 0 {
		return false
	}
	seats := append([]int{r.ctx.Actor}, r.s.Order.After(r.ctx.Actor)...)
	for _, seat := range seats {
		if n := r.s.Players[seat].CompletedColours(); n >= need {
			r.s.Winner = seat
			r.emit(rules.NewEventWithAmount(rules.EventGameWon, seat, rules.NoSelection, n))
			return true
		}
	}
	return false
}

func (r *resolution) nextSeat() error {
	next := r.s.Order.Advance()
	r.s.ActionsLeft[next] = r.s.Settings.ActionsPerTurn
	r.s.Context = rules.NewActionContext(next)
	r.emit(rules.NewEvent(rules.EventTurnAdvanced, next, r.ctx.Actor))

	drawn, err := drawInto(r.s, r.s.Players[next], r.s.Settings.DrawPerTurn)
	r.events = append(r.events, drawn...)
	if err != nil {
		return fmt.Errorf("seat %d turn draw: %w", next, err)
	}
	return nil
}

// drawInto draws n cards into p's hand and returns the draw events.
func drawInto(s *rules.GameState, p *player.State, n int) ([]rules.Event, error) {
	drawn, refills, err := s.Deck.DrawN(n)
	p.AddToHand(drawn...)

	events := make([]rules.Event, 0, len(drawn)+refills)
	for i := 0; i < refills; i++ {
		evt := rules.NewEvent(rules.EventDeckReshuffled, p.Seat, rules.NoSelection)
		evt.Turn = s.Order.Turn
		events = append(events, evt)
	}
	for _, card := range drawn {
		evt := rules.NewCardEvent(rules.EventCardDrawn, p.Seat, rules.NoSelection, card.ID)
		evt.Turn = s.Order.Turn
		events = append(events, evt)
	}
	return events, err
}

func slotOf(p *player.State, colour cards.Colour, idx int) (*property.Set, error) {
	set, err := p.Slot(colour, idx)
	if err != nil {
		return nil, fmt.Errorf("%w: seat %d: %v", rules.ErrMissingTarget, p.Seat, err)
	}
	return set, nil
}

func take(p *player.State, sel rules.PropertySelector) (cards.Card, error) {
	set, err := slotOf(p, sel.Colour, sel.SetIndex)
	if err != nil {
		return cards.Card{}, err
	}
	card, ok := set.Remove(sel.CardID)
	if !ok {
		return cards.Card{}, fmt.Errorf("%w: seat %d has no card at %s", rules.ErrMissingTarget, p.Seat, sel)
	}
	return card, nil
}

func put(p *player.State, dest rules.SetSelector, card cards.Card) error {
	set, err := slotOf(p, dest.Colour, dest.SetIndex)
	if err != nil {
		return err
	}
	if err := set.Add(card); err != nil {
		return fmt.Errorf("%w: seat %d: %v", rules.ErrMissingTarget, p.Seat, err)
	}
	return nil
}
