package game

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/magefree/deal-server-go/internal/game/cards"
	"github.com/magefree/deal-server-go/internal/game/rules"
	"github.com/magefree/deal-server-go/internal/game/watchers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestNewEngineDealsOpeningHands(t *testing.T) {
	opts := DefaultOptions()
	opts.Seed = 42
	e, err := NewEngine(opts, zaptest.NewLogger(t))
	require.NoError(t, err)

	snap := e.Snapshot()
	require.Len(t, snap.Players, 4)
	assert.Len(t, snap.Players[0].Hand, 7)
	for _, p := range snap.Players[1:] {
		assert.Len(t, p.Hand, 5)
	}
	assert.Equal(t, 40-22, snap.DrawPile)
	assert.Equal(t, 40, snap.CardCount())
	assert.Equal(t, 1, snap.Turn)
	assert.Equal(t, []int{3, 3, 3, 3}, snap.ActionsLeft)

	assert.Equal(t, 0, e.DecidingSeat())
	assert.Equal(t, rules.StageChooseAction, e.Stage())
	assert.True(t, e.Mask().Actions[rules.ActionSkip])
	assert.False(t, e.Mask().Actions[rules.ActionCounter])
	assert.NotEmpty(t, e.GameID())
}

func TestNewEngineRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"one player", func(o *Options) { o.Players = 1 }},
		{"six players", func(o *Options) { o.Players = 6 }},
		{"no actions", func(o *Options) { o.ActionsPerTurn = 0 }},
		{"name count", func(o *Options) { o.Names = []string{"a"} }},
		{"catalog", func(o *Options) { o.Catalog = "tiny" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			_, err := NewEngine(opts, zaptest.NewLogger(t))
			assert.Error(t, err)
		})
	}
}

func TestNewEngineRecordsRandomSeed(t *testing.T) {
	e, err := NewEngine(DefaultOptions(), zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.NotZero(t, e.Options().Seed)
}

func TestSameSeedSameGame(t *testing.T) {
	opts := DefaultOptions()
	opts.Seed = 99
	a, err := NewEngine(opts, zaptest.NewLogger(t))
	require.NoError(t, err)
	b, err := NewEngine(opts, zaptest.NewLogger(t))
	require.NoError(t, err)

	sumA, err := a.Checksum()
	require.NoError(t, err)
	sumB, err := b.Checksum()
	require.NoError(t, err)
	assert.Equal(t, sumA, sumB)
	assert.NotEqual(t, a.GameID(), b.GameID())
}

func TestSkipBudgetAdvancesSeat(t *testing.T) {
	opts := DefaultOptions()
	opts.Seed = 5
	e, err := NewEngine(opts, zaptest.NewLogger(t))
	require.NoError(t, err)
	events := collectEvents(e)

	submitAll(t, e, rules.ChooseAction(rules.ActionSkip), rules.ChooseAction(rules.ActionSkip))
	snap := e.Snapshot()
	assert.Equal(t, 1, snap.ActionsLeft[0])
	assert.Equal(t, 0, snap.ActiveSeat)

	submitAll(t, e, rules.ChooseAction(rules.ActionSkip))
	snap = e.Snapshot()
	assert.Equal(t, 1, snap.ActiveSeat)
	assert.Equal(t, 2, snap.Turn)
	assert.Equal(t, 3, snap.ActionsLeft[1])
	assert.Len(t, snap.Players[1].Hand, 7)
	assert.Equal(t, 1, e.DecidingSeat())

	assert.Equal(t, 3, countEvents(*events, rules.EventActionCommitted))
	assert.Equal(t, 1, countEvents(*events, rules.EventTurnAdvanced))
	assert.Equal(t, 2, countEvents(*events, rules.EventCardDrawn))

	actions := e.Watchers().GetWatcher("ActionsWatcher").(*watchers.ActionsWatcher)
	assert.Equal(t, 3, actions.GetCount(0, rules.ActionSkip))
}

func TestTurnOrderWrapsAround(t *testing.T) {
	opts := DefaultOptions()
	opts.Players = 2
	opts.Seed = 3
	e, err := NewEngine(opts, zaptest.NewLogger(t))
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		submitAll(t, e, rules.ChooseAction(rules.ActionSkip))
	}
	snap := e.Snapshot()
	assert.Equal(t, 0, snap.ActiveSeat)
	assert.Equal(t, 3, snap.Turn)
	assert.Len(t, snap.Players[0].Hand, 9)
}

func TestIllegalChoiceLeavesStateUnchanged(t *testing.T) {
	h := newHarness(t, 2, cards.Standard()).hand(0, cards.IDMoney1)
	e := h.engine()
	before, err := e.Checksum()
	require.NoError(t, err)

	tests := []struct {
		name   string
		choice rules.Choice
	}{
		{"card not held", rules.ChooseAction(rules.ActionSlyDeal)},
		{"counter", rules.ChooseAction(rules.ActionCounter)},
		{"unset", rules.EmptyChoice()},
		{"out of range", rules.ChooseAction(rules.NumActions)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.Submit(tt.choice)
			require.Error(t, err)
			assert.True(t, errors.Is(err, rules.ErrIllegalChoice))
			assert.True(t, IsIllegal(err))
		})
	}

	after, err := e.Checksum()
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, rules.StageChooseAction, e.Stage())
	assert.Empty(t, e.Accepted())
	assert.NoError(t, e.Err())

	// A rejected value mid-path keeps the same stage open.
	submitAll(t, e, rules.ChooseAction(rules.ActionPlayMoney))
	err = e.Submit(rules.ChooseHandCard(cards.IDMoney10))
	assert.ErrorIs(t, err, rules.ErrIllegalChoice)
	assert.Equal(t, rules.StageChooseHandCard, e.Stage())
	submitAll(t, e, rules.ChooseHandCard(cards.IDMoney1))
	assert.Equal(t, 1, e.Snapshot().Players[0].MoneyTotal())
}

func TestPlayMoneyBanksCard(t *testing.T) {
	e := newHarness(t, 2, cards.Standard()).hand(0, cards.IDMoney5, cards.IDSlyDeal).engine()
	events := collectEvents(e)

	submitAll(t, e, rules.ChooseAction(rules.ActionPlayMoney))
	mask := e.Mask()
	assert.True(t, mask.HandCards[cards.IDMoney5])
	assert.False(t, mask.HandCards[cards.IDSlyDeal])

	submitAll(t, e, rules.ChooseHandCard(cards.IDMoney5))
	snap := e.Snapshot()
	assert.Equal(t, 5, snap.Players[0].MoneyTotal())
	assert.Len(t, snap.Players[0].Hand, 1)
	assert.Equal(t, 2, snap.ActionsLeft[0])
	assert.Equal(t, 1, countEvents(*events, rules.EventMoneyBanked))
}

func TestLoneDarkBlueScenario(t *testing.T) {
	e := newHarness(t, 2, cards.Standard()).hand(0, cards.IDDarkBlue).engine()

	require.True(t, e.Mask().Actions[rules.ActionPlayProperty])
	submitAll(t, e, rules.ChooseAction(rules.ActionPlayProperty))
	require.True(t, e.Mask().HandCards[cards.IDDarkBlue])
	submitAll(t, e, rules.ChooseHandCard(cards.IDDarkBlue))

	mask := e.Mask()
	require.Equal(t, rules.StageChooseDestColour, mask.Stage)
	for colour, ok := range mask.Colours {
		assert.Equal(t, cards.Colour(colour) == cards.DarkBlue, ok, "colour %s", cards.Colour(colour))
	}

	submitAll(t, e, rules.ChooseSet(cards.DarkBlue, rules.NoSelection))
	mask = e.Mask()
	require.Equal(t, rules.StageChooseDestSet, mask.Stage)
	assert.Equal(t, []bool{true, true}, mask.SetIndexes)

	submitAll(t, e, rules.ChooseSet(rules.NoSelection, 0))
	snap := e.Snapshot()
	set := snap.Players[0].Sets[cards.DarkBlue][0]
	assert.Equal(t, 1, set.Size())
	assert.False(t, set.IsCompleted())
	assert.Empty(t, snap.Players[0].Hand)
	assert.Equal(t, rules.StageChooseAction, snap.Stage)
	assert.Equal(t, 2, snap.ActionsLeft[0])
}

func TestRedYellowRentScenario(t *testing.T) {
	e := newHarness(t, 3, cards.Standard()).
		hand(0, cards.IDRentRedYellow).
		place(0, cards.Red, 0, cards.IDRed, cards.IDRedYellow).
		bank(1, cards.IDMoney3).
		bank(2, cards.IDMoney1, cards.IDMoney2).
		engine()
	events := collectEvents(e)

	require.True(t, e.Mask().Actions[rules.ActionRentRedYellow])
	submitAll(t, e,
		rules.ChooseAction(rules.ActionRentRedYellow),
		rules.ChooseHandCard(cards.IDRentRedYellow),
	)

	mask := e.Mask()
	assert.True(t, mask.Colours[cards.Red])
	assert.False(t, mask.Colours[cards.Yellow])

	submitAll(t, e,
		rules.ChooseSet(cards.Red, rules.NoSelection),
		rules.ChooseSet(rules.NoSelection, 0),
	)

	snap := e.Snapshot()
	assert.Equal(t, 6, snap.Players[0].MoneyTotal())
	assert.Equal(t, 0, snap.Players[1].MoneyTotal())
	assert.Equal(t, 0, snap.Players[2].MoneyTotal())
	require.Len(t, snap.Discard, 1)
	assert.Equal(t, cards.IDRentRedYellow, snap.Discard[0].ID)
	assert.Equal(t, 40, snap.CardCount())

	assert.Equal(t, 2, countEvents(*events, rules.EventRentCharged))
	assert.Equal(t, 2, countEvents(*events, rules.EventDebtPaid))
	rent := e.Watchers().GetWatcher("RentWatcher").(*watchers.RentWatcher)
	assert.Equal(t, 6, rent.Collected(0))
	assert.Equal(t, 3, rent.Paid(1))
	assert.Equal(t, 3, rent.Paid(2))
}

func TestWildRentChargesChosenOpponentOnly(t *testing.T) {
	e := newHarness(t, 3, cards.Standard()).
		hand(0, cards.IDRentWild).
		place(0, cards.Pink, 0, cards.IDPink, cards.IDPinkOrange).
		bank(1, cards.IDMoney3).
		bank(2, cards.IDMoney1, cards.IDMoney2).
		engine()
	events := collectEvents(e)

	require.True(t, e.Mask().Actions[rules.ActionRentWild])
	submitAll(t, e,
		rules.ChooseAction(rules.ActionRentWild),
		rules.ChooseHandCard(cards.IDRentWild),
		rules.ChooseSet(cards.Pink, rules.NoSelection),
		rules.ChooseSet(rules.NoSelection, 0),
	)

	require.Equal(t, rules.StageChooseOpponent, e.Stage())
	mask := e.Mask()
	assert.True(t, mask.Opponents[1])
	assert.True(t, mask.Opponents[2])
	submitAll(t, e, rules.ChooseOpponent(2))

	snap := e.Snapshot()
	assert.Equal(t, 2, snap.Players[0].MoneyTotal())
	assert.Equal(t, 3, snap.Players[1].MoneyTotal())
	assert.Equal(t, 1, snap.Players[2].MoneyTotal())
	require.Len(t, snap.Discard, 1)
	assert.Equal(t, cards.IDRentWild, snap.Discard[0].ID)
	assert.Equal(t, 40, snap.CardCount())
	assert.Equal(t, 2, snap.ActionsLeft[0])

	assert.Equal(t, 1, countEvents(*events, rules.EventRentCharged))
	assert.Equal(t, 1, countEvents(*events, rules.EventDebtPaid))
	rent := e.Watchers().GetWatcher("RentWatcher").(*watchers.RentWatcher)
	assert.Equal(t, 0, rent.Paid(1))
	assert.Equal(t, 2, rent.Paid(2))
}

func TestDealBreakerMovesCompletedSet(t *testing.T) {
	h := newHarness(t, 2, cards.Standard()).
		hand(0, cards.IDDealBreaker).
		place(1, cards.DarkBlue, 1, cards.IDDarkBlue, cards.IDGreenDarkBlue)
	h.slot(1, cards.DarkBlue, 1).House = true
	e := h.engine()
	events := collectEvents(e)

	submitAll(t, e,
		rules.ChooseAction(rules.ActionDealBreaker),
		rules.ChooseHandCard(cards.IDDealBreaker),
		rules.ChooseOpponent(1),
	)
	mask := e.Mask()
	assert.True(t, mask.Colours[cards.DarkBlue])
	submitAll(t, e, rules.ChooseProperty(cards.DarkBlue, rules.NoSelection, rules.NoSelection))
	assert.Equal(t, []bool{false, true}, e.Mask().SetIndexes)
	submitAll(t, e, rules.ChooseProperty(rules.NoSelection, 1, rules.NoSelection))

	snap := e.Snapshot()
	got := snap.Players[0].Sets[cards.DarkBlue][0]
	assert.Equal(t, []int{cards.IDDarkBlue, cards.IDGreenDarkBlue}, got.IDs())
	assert.True(t, got.IsCompleted())
	assert.True(t, got.House)

	donor := snap.Players[1].Sets[cards.DarkBlue][1]
	assert.True(t, donor.IsEmpty())
	assert.False(t, donor.House)
	assert.Equal(t, 40, snap.CardCount())
	assert.Equal(t, 1, countEvents(*events, rules.EventSetStolen))

	steals := e.Watchers().GetWatcher("StealWatcher").(*watchers.StealWatcher)
	assert.Equal(t, 1, steals.SetsTaken(0))
	assert.Equal(t, 2, steals.Lost(1))
}

func TestDealBreakerAppendsSlotWhenNoneIsEmpty(t *testing.T) {
	e := newHarness(t, 2, cards.Full()).
		hand(0, cards.IDDealBreaker).
		place(0, cards.Black, 0, cards.IDLightGreenBlack).
		place(0, cards.Black, 1, cards.IDBlackLightBlue).
		place(1, cards.Black, 0, cards.IDBlack, cards.IDBlack, cards.IDBlack, cards.IDBlack).
		engine()

	submitAll(t, e,
		rules.ChooseAction(rules.ActionDealBreaker),
		rules.ChooseHandCard(cards.IDDealBreaker),
		rules.ChooseOpponent(1),
		rules.ChooseProperty(cards.Black, rules.NoSelection, rules.NoSelection),
		rules.ChooseProperty(rules.NoSelection, 0, rules.NoSelection),
	)

	snap := e.Snapshot()
	slots := snap.Players[0].Sets[cards.Black]
	require.Len(t, slots, 3)
	assert.Equal(t, []int{cards.IDLightGreenBlack}, slots[0].IDs())
	assert.Equal(t, []int{cards.IDBlackLightBlue}, slots[1].IDs())
	assert.Len(t, slots[2].Cards, 4)
	assert.True(t, slots[2].IsCompleted())
	assert.Equal(t, 104, snap.CardCount())
}

func TestSlyDealStealsOneProperty(t *testing.T) {
	e := newHarness(t, 2, cards.Standard()).
		hand(0, cards.IDSlyDeal).
		place(1, cards.Green, 0, cards.IDGreen, cards.IDGreenBlack).
		engine()

	submitAll(t, e,
		rules.ChooseAction(rules.ActionSlyDeal),
		rules.ChooseHandCard(cards.IDSlyDeal),
		rules.ChooseOpponent(1),
		rules.ChooseProperty(cards.Green, rules.NoSelection, rules.NoSelection),
		rules.ChooseProperty(rules.NoSelection, 0, rules.NoSelection),
	)
	mask := e.Mask()
	assert.True(t, mask.Cards[cards.IDGreen])
	assert.True(t, mask.Cards[cards.IDGreenBlack])

	submitAll(t, e,
		rules.ChooseProperty(rules.NoSelection, rules.NoSelection, cards.IDGreenBlack),
		rules.ChooseSet(cards.Black, rules.NoSelection),
		rules.ChooseSet(rules.NoSelection, 0),
	)

	snap := e.Snapshot()
	assert.Equal(t, []int{cards.IDGreenBlack}, snap.Players[0].Sets[cards.Black][0].IDs())
	assert.Equal(t, []int{cards.IDGreen}, snap.Players[1].Sets[cards.Green][0].IDs())
	assert.Equal(t, 40, snap.CardCount())
}

func TestForcedDealSwapsTwoCards(t *testing.T) {
	e := newHarness(t, 2, cards.Standard()).
		hand(0, cards.IDForcedDeal).
		place(0, cards.Red, 0, cards.IDRed).
		place(1, cards.Green, 0, cards.IDGreen).
		engine()
	events := collectEvents(e)

	submitAll(t, e,
		rules.ChooseAction(rules.ActionForcedDeal),
		rules.ChooseHandCard(cards.IDForcedDeal),
		rules.ChooseOpponent(1),
		rules.ChooseProperty(cards.Green, rules.NoSelection, rules.NoSelection),
		rules.ChooseProperty(rules.NoSelection, 0, rules.NoSelection),
		rules.ChooseProperty(rules.NoSelection, rules.NoSelection, cards.IDGreen),
	)
	mask := e.Mask()
	require.Equal(t, rules.StageChooseSourceColour, mask.Stage)
	require.Equal(t, rules.SideActor, mask.Side)
	assert.True(t, mask.Colours[cards.Red])

	submitAll(t, e,
		rules.ChooseProperty(cards.Red, rules.NoSelection, rules.NoSelection),
		rules.ChooseProperty(rules.NoSelection, 0, rules.NoSelection),
		rules.ChooseProperty(rules.NoSelection, rules.NoSelection, cards.IDRed),
		rules.ChooseSet(cards.Green, rules.NoSelection),
		rules.ChooseSet(rules.NoSelection, 0),
	)
	mask = e.Mask()
	require.Equal(t, rules.StageChooseDestColour, mask.Stage)
	require.Equal(t, rules.SideOpponent, mask.Side)
	submitAll(t, e,
		rules.ChooseSet(cards.Red, rules.NoSelection),
		rules.ChooseSet(rules.NoSelection, 0),
	)

	snap := e.Snapshot()
	assert.Equal(t, []int{cards.IDGreen}, snap.Players[0].Sets[cards.Green][0].IDs())
	assert.True(t, snap.Players[0].Sets[cards.Red][0].IsEmpty())
	assert.Equal(t, []int{cards.IDRed}, snap.Players[1].Sets[cards.Red][0].IDs())
	assert.True(t, snap.Players[1].Sets[cards.Green][0].IsEmpty())
	assert.Equal(t, 1, snap.Players[0].PropertyCount())
	assert.Equal(t, 1, snap.Players[1].PropertyCount())
	assert.Equal(t, 1, countEvents(*events, rules.EventPropertiesSwapped))
}

func TestMovePropertyBetweenOwnSets(t *testing.T) {
	e := newHarness(t, 2, cards.Standard()).
		place(0, cards.Green, 0, cards.IDGreen).
		place(0, cards.Green, 1, cards.IDGreenDarkBlue).
		engine()

	submitAll(t, e,
		rules.ChooseAction(rules.ActionMoveProperty),
		rules.ChooseProperty(cards.Green, rules.NoSelection, rules.NoSelection),
		rules.ChooseProperty(rules.NoSelection, 1, rules.NoSelection),
		rules.ChooseProperty(rules.NoSelection, rules.NoSelection, cards.IDGreenDarkBlue),
		rules.ChooseSet(cards.Green, rules.NoSelection),
	)
	assert.Equal(t, []bool{true, false}, e.Mask().SetIndexes)
	submitAll(t, e, rules.ChooseSet(rules.NoSelection, 0))

	snap := e.Snapshot()
	assert.Equal(t, []int{cards.IDGreen, cards.IDGreenDarkBlue}, snap.Players[0].Sets[cards.Green][0].IDs())
	assert.True(t, snap.Players[0].Sets[cards.Green][1].IsEmpty())
}

func TestBirthdayChargesEveryOpponent(t *testing.T) {
	e := newHarness(t, 3, cards.Standard()).
		hand(0, cards.IDBirthday).
		bank(1, cards.IDMoney5).
		bank(2, cards.IDMoney1).
		engine()

	submitAll(t, e,
		rules.ChooseAction(rules.ActionBirthday),
		rules.ChooseHandCard(cards.IDBirthday),
	)

	snap := e.Snapshot()
	assert.Equal(t, 6, snap.Players[0].MoneyTotal())
	assert.Equal(t, 0, snap.Players[1].MoneyTotal())
	assert.Equal(t, 0, snap.Players[2].MoneyTotal())
}

func TestDebtCollectorPaysWithPropertyWhenMoneyRunsOut(t *testing.T) {
	e := newHarness(t, 2, cards.Standard()).
		hand(0, cards.IDDebtCollector).
		bank(1, cards.IDMoney1).
		place(1, cards.Yellow, 0, cards.IDYellow).
		place(1, cards.Green, 0, cards.IDGreen).
		engine()

	submitAll(t, e,
		rules.ChooseAction(rules.ActionDebtCollector),
		rules.ChooseHandCard(cards.IDDebtCollector),
		rules.ChooseOpponent(1),
	)

	snap := e.Snapshot()
	assert.Equal(t, 1, snap.Players[0].MoneyTotal())
	assert.Equal(t, []int{cards.IDYellow}, snap.Players[0].Sets[cards.Yellow][0].IDs())
	assert.Equal(t, []int{cards.IDGreen}, snap.Players[0].Sets[cards.Green][0].IDs())
	assert.Equal(t, 0, snap.Players[1].PropertyCount())
	assert.Equal(t, 40, snap.CardCount())
}

func TestInteractivePayment(t *testing.T) {
	e := newHarness(t, 2, cards.Standard()).
		with(func(o *Options) { o.Settlement = rules.SettlementInteractive }).
		hand(0, cards.IDDebtCollector).
		bank(1, cards.IDMoney1, cards.IDMoney2, cards.IDMoney3, cards.IDMoney4).
		engine()

	submitAll(t, e,
		rules.ChooseAction(rules.ActionDebtCollector),
		rules.ChooseHandCard(cards.IDDebtCollector),
		rules.ChooseOpponent(1),
	)
	require.Equal(t, rules.StageChoosePayment, e.Stage())
	assert.Equal(t, 1, e.DecidingSeat())
	assert.Len(t, e.Mask().Payments, 4)

	assert.ErrorIs(t, e.Submit(rules.ChooseMoney(cards.IDMoney5)), rules.ErrIllegalChoice)

	submitAll(t, e, rules.ChooseMoney(cards.IDMoney4))
	require.Equal(t, rules.StageChoosePayment, e.Stage())
	assert.Len(t, e.Mask().Payments, 3)

	submitAll(t, e, rules.ChooseMoney(cards.IDMoney1))
	assert.Equal(t, rules.StageChooseAction, e.Stage())
	assert.Equal(t, 0, e.DecidingSeat())

	snap := e.Snapshot()
	assert.Equal(t, 5, snap.Players[0].MoneyTotal())
	assert.Equal(t, 5, snap.Players[1].MoneyTotal())
	assert.Equal(t, 2, snap.ActionsLeft[0])
}

func TestInteractivePaymentAutoSelectsWhenPayerCannotCover(t *testing.T) {
	e := newHarness(t, 2, cards.Standard()).
		with(func(o *Options) { o.Settlement = rules.SettlementInteractive }).
		hand(0, cards.IDDebtCollector).
		bank(1, cards.IDMoney1, cards.IDMoney2).
		engine()

	submitAll(t, e,
		rules.ChooseAction(rules.ActionDebtCollector),
		rules.ChooseHandCard(cards.IDDebtCollector),
		rules.ChooseOpponent(1),
	)
	assert.Equal(t, rules.StageChooseAction, e.Stage())
	snap := e.Snapshot()
	assert.Equal(t, 3, snap.Players[0].MoneyTotal())
	assert.Equal(t, 0, snap.Players[1].MoneyTotal())
}

func TestCompletingThirdSetWinsGame(t *testing.T) {
	e := newHarness(t, 2, cards.Standard()).
		hand(0, cards.IDLightGreen).
		place(0, cards.DarkBlue, 0, cards.IDDarkBlue, cards.IDGreenDarkBlue).
		place(0, cards.Brown, 0, cards.IDBrown, cards.IDBrownLightBlue).
		place(0, cards.LightGreen, 0, cards.IDLightGreenBlack).
		engine()
	events := collectEvents(e)

	submitAll(t, e,
		rules.ChooseAction(rules.ActionPlayProperty),
		rules.ChooseHandCard(cards.IDLightGreen),
		rules.ChooseSet(cards.LightGreen, rules.NoSelection),
		rules.ChooseSet(rules.NoSelection, 0),
	)

	winner, over := e.GameOver()
	assert.True(t, over)
	assert.Equal(t, 0, winner)
	assert.Equal(t, 1, countEvents(*events, rules.EventGameWon))
	assert.ErrorIs(t, e.Submit(rules.ChooseAction(rules.ActionSkip)), rules.ErrGameOver)
	assert.Empty(t, e.Mask().Choices())
}

func TestSetsToWinZeroDisablesWinning(t *testing.T) {
	e := newHarness(t, 2, cards.Standard()).
		with(func(o *Options) { o.SetsToWin = 0 }).
		place(0, cards.DarkBlue, 0, cards.IDDarkBlue, cards.IDGreenDarkBlue).
		engine()

	submitAll(t, e, rules.ChooseAction(rules.ActionSkip))
	_, over := e.GameOver()
	assert.False(t, over)
}

func TestDeckExhaustionPoisonsEngine(t *testing.T) {
	h := newHarness(t, 2, cards.Standard())
	var ids []int
	for _, card := range h.state.Deck.Draw {
		ids = append(ids, card.ID)
	}
	h.hand(1, ids...)
	e := h.engine()

	submitAll(t, e, rules.ChooseAction(rules.ActionSkip), rules.ChooseAction(rules.ActionSkip))
	err := e.Submit(rules.ChooseAction(rules.ActionSkip))
	require.Error(t, err)
	assert.ErrorIs(t, err, rules.ErrDeckExhausted)
	assert.True(t, rules.IsFatal(err))

	// The failed commit is not applied and every later call fails the same way.
	assert.Equal(t, 1, e.Snapshot().ActionsLeft[0])
	assert.ErrorIs(t, e.Submit(rules.ChooseAction(rules.ActionSkip)), rules.ErrDeckExhausted)
	assert.ErrorIs(t, e.Err(), rules.ErrDeckExhausted)
}

func TestObserveHidesOpponentHands(t *testing.T) {
	e := newHarness(t, 3, cards.Standard()).
		hand(0, cards.IDMoney1).
		hand(1, cards.IDSlyDeal, cards.IDMoney2).
		bank(2, cards.IDMoney5).
		place(2, cards.Pink, 0, cards.IDPink).
		engine()

	obs, err := e.Observe(0)
	require.NoError(t, err)
	assert.Equal(t, 1, obs.Hand[cards.IDMoney1])
	assert.Equal(t, 3, obs.ActionsLeft)
	require.NotNil(t, obs.Mask)
	require.Len(t, obs.Opponents, 2)
	assert.Equal(t, 1, obs.Opponents[0].Seat)
	assert.Equal(t, 2, obs.Opponents[0].HandSize)
	assert.Equal(t, 5, obs.Opponents[1].MoneyTotal)
	pink, ok := obs.Opponents[1].Set(cards.Pink, 0)
	require.True(t, ok)
	assert.Equal(t, []int{cards.IDPink}, pink.CardIDs)
	assert.Equal(t, 1, pink.Rent)

	other, err := e.Observe(1)
	require.NoError(t, err)
	assert.Nil(t, other.Mask)
	assert.Equal(t, 1, other.Hand[cards.IDSlyDeal])

	_, err = e.Observe(7)
	assert.ErrorIs(t, err, rules.ErrMissingTarget)
}

func TestRendererReceivesSnapshots(t *testing.T) {
	e := newHarness(t, 2, cards.Standard()).engine()
	var seen []Snapshot
	e.SetRenderer(RendererFunc(func(s Snapshot) {
		seen = append(seen, s)
	}))

	submitAll(t, e, rules.ChooseAction(rules.ActionSkip))
	require.Len(t, seen, 1)
	assert.Equal(t, 2, seen[0].ActionsLeft[0])
	assert.NotEmpty(t, seen[0].String())

	e.SetRenderer(NewLogRenderer(zaptest.NewLogger(t)))
	submitAll(t, e, rules.ChooseAction(rules.ActionSkip))
	assert.Len(t, seen, 1)
}

// playRandomly samples uniformly from the mask, the way the self-play
// driver does, and checks conservation after every accepted choice.
func playRandomly(t *testing.T, e *Engine, rng *rand.Rand, steps int) {
	t.Helper()
	size := e.Snapshot().CardCount()
	for i := 0; i < steps; i++ {
		if _, over := e.GameOver(); over {
			return
		}
		choices := e.Mask().Choices()
		require.NotEmpty(t, choices, "dead end at stage %s", e.Stage())
		err := e.Submit(choices[rng.IntN(len(choices))])
		if errors.Is(err, rules.ErrDeckExhausted) {
			return
		}
		require.NoError(t, err)
		require.Equal(t, size, e.Snapshot().CardCount(), "step %d", i)
	}
}

func TestRandomPlayConservesCards(t *testing.T) {
	for _, catalog := range []string{cards.CatalogStandard, cards.CatalogFull} {
		for _, mode := range []rules.SettlementMode{rules.SettlementAuto, rules.SettlementInteractive} {
			for seed := uint64(1); seed <= 4; seed++ {
				opts := DefaultOptions()
				opts.Catalog = catalog
				opts.Settlement = mode
				opts.Seed = seed
				opts.Players = 2 + int(seed%4)

				e, err := NewEngine(opts, zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel)))
				require.NoError(t, err)
				playRandomly(t, e, rand.New(rand.NewPCG(seed, 11)), 1500)
			}
		}
	}
}
