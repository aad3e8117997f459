package rules

import (
	"fmt"
	"sort"

	"github.com/magefree/deal-server-go/internal/game/cards"
	"github.com/magefree/deal-server-go/internal/game/player"
)

// Debt is an amount one seat owes another, plus the assets chosen so far to
// pay it.
type Debt struct {
	From     int
	To       int
	Amount   int
	Selected []PropertySelector
}

// Clone deep-copies the debt.
func (d Debt) Clone() Debt {
	out := d
	out.Selected = append([]PropertySelector(nil), d.Selected...)
	return out
}

// Paid sums the value of the selected assets.
func (d Debt) Paid() int {
	return assetsValue(d.Selected)
}

// Owed returns what is still unpaid, never negative.
func (d Debt) Owed() int {
	if owed := d.Amount - d.Paid(); owed > 0 {
		return owed
	}
	return 0
}

// Resolve reports whether d needs no further choice from its payer p. When
// the payer's remaining assets cannot exceed what is owed they are all
// selected first.
func (d *Debt) Resolve(p *player.State) bool {
	if d.Owed() == 0 {
		return true
	}
	remaining := RemainingAssets(p, d.Selected)
	if assetsValue(remaining) <= d.Owed() {
		d.Selected = append(d.Selected, remaining...)
		return true
	}
	return false
}

func assetValue(sel PropertySelector) int {
	card, err := cards.ByID(sel.CardID)
	if err != nil {
		return 0
	}
	return card.Value
}

func assetsValue(sels []PropertySelector) int {
	total := 0
	for _, sel := range sels {
		total += assetValue(sel)
	}
	return total
}

// PayableAssets lists every card the player could hand over for a debt:
// each money pile card, then each property card with a value above zero in
// board order. Duplicates appear once per physical card.
func PayableAssets(p *player.State) []PropertySelector {
	out := make([]PropertySelector, 0, len(p.Money)+p.PropertyCount())
	for _, card := range p.Money {
		out = append(out, PropertySelector{Colour: NoSelection, SetIndex: NoSelection, CardID: card.ID})
	}
	for _, colour := range cards.BoardColours() {
		for i, set := range p.Sets[colour] {
			for _, card := range set.Cards {
				if card.Value > 0 {
					out = append(out, PropertySelector{Colour: colour, SetIndex: i, CardID: card.ID})
				}
			}
		}
	}
	return out
}

// RemainingAssets returns the payable assets not yet consumed by selected.
func RemainingAssets(p *player.State, selected []PropertySelector) []PropertySelector {
	used := make(map[PropertySelector]int, len(selected))
	for _, sel := range selected {
		used[sel]++
	}
	all := PayableAssets(p)
	out := all[:0]
	for _, sel := range all {
		if used[sel] > 0 {
			used[sel]--
			continue
		}
		out = append(out, sel)
	}
	return out
}

// PaymentOptions returns the distinct selectors the payer may pick next.
func PaymentOptions(p *player.State, d Debt) []PropertySelector {
	if d.Owed() == 0 {
		return nil
	}
	seen := make(map[PropertySelector]bool)
	var out []PropertySelector
	for _, sel := range RemainingAssets(p, d.Selected) {
		if seen[sel] {
			continue
		}
		seen[sel] = true
		out = append(out, sel)
	}
	return out
}

// AutoSettle chooses the assets that pay amount. If the money pile covers
// the debt, the money subset with the least overpay is used. Otherwise all
// money is paid, then properties from incomplete sets in ascending value,
// then properties from completed sets, until the debt is covered or the
// payer runs out.
func AutoSettle(p *player.State, amount int) []PropertySelector {
	if amount <= 0 {
		return nil
	}

	var money, loose, complete []PropertySelector
	for _, sel := range PayableAssets(p) {
		if sel.IsMoney() {
			money = append(money, sel)
			continue
		}
		if p.Sets[sel.Colour][sel.SetIndex].IsCompleted() {
			complete = append(complete, sel)
		} else {
			loose = append(loose, sel)
		}
	}

	if assetsValue(money) >= amount {
		return leastOverpay(money, amount)
	}

	out := append([]PropertySelector(nil), money...)
	owed := amount - assetsValue(money)
	for _, group := range [][]PropertySelector{loose, complete} {
		sort.SliceStable(group, func(i, j int) bool {
			return assetValue(group[i]) < assetValue(group[j])
		})
		for _, sel := range group {
			if owed <= 0 {
				return out
			}
			out = append(out, sel)
			owed -= assetValue(sel)
		}
	}
	return out
}

// leastOverpay finds the subset of assets whose total is the smallest value
// at or above amount. The caller guarantees the full set covers amount.
func leastOverpay(assets []PropertySelector, amount int) []PropertySelector {
	total := assetsValue(assets)
	reached := make([]bool, total+1)
	used := make([]int, total+1)
	prev := make([]int, total+1)
	reached[0] = true

	for i, sel := range assets {
		v := assetValue(sel)
		for s := total - v; s >= 0; s-- {
			if reached[s] && !reached[s+v] {
				reached[s+v] = true
				used[s+v] = i
				prev[s+v] = s
			}
		}
	}

	for target := amount; target <= total; target++ {
		if !reached[target] {
			continue
		}
		var out []PropertySelector
		for s := target; s > 0; s = prev[s] {
			out = append(out, assets[used[s]])
		}
		return out
	}
	return append([]PropertySelector(nil), assets...)
}

// Transfer moves one asset from payer to payee. Money lands on the payee's
// money pile; a property goes to the first payee slot that accepts it.
func Transfer(payer, payee *player.State, sel PropertySelector) (cards.Card, error) {
	if sel.IsMoney() {
		card, ok := payer.TakeMoney(sel.CardID)
		if !ok {
			return cards.Card{}, fmt.Errorf("%w: seat %d has no money card %d", ErrMissingTarget, payer.Seat, sel.CardID)
		}
		payee.AddMoney(card)
		return card, nil
	}

	set, err := payer.Slot(sel.Colour, sel.SetIndex)
	if err != nil {
		return cards.Card{}, fmt.Errorf("%w: %v", ErrMissingTarget, err)
	}
	card, ok := set.Remove(sel.CardID)
	if !ok {
		return cards.Card{}, fmt.Errorf("%w: seat %d has no card %s", ErrMissingTarget, payer.Seat, sel)
	}
	if _, _, err := payee.PlaceProperty(card); err != nil {
		return cards.Card{}, fmt.Errorf("%w: %v", ErrMissingTarget, err)
	}
	return card, nil
}
