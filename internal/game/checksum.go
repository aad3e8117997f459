package game

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/magefree/deal-server-go/internal/game/cards"
	"github.com/magefree/deal-server-go/internal/game/rules"
)

// Checksum returns a SHA-256 digest of the game state. Two engines built
// from the same options and fed the same choices report the same checksum;
// the game id is not part of it.
func (e *Engine) Checksum() (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return computeChecksum(e.state)
}

func computeChecksum(s *rules.GameState) (string, error) {
	hash := sha256.New()
	if _, err := hash.Write([]byte(deterministicRepresentation(s))); err != nil {
		return "", fmt.Errorf("failed to compute hash: %w", err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// deterministicRepresentation writes every piece of state in a fixed order.
// Slices keep their order since it is part of the state.
func deterministicRepresentation(s *rules.GameState) string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "GAME:%d|%d|%d|%d|%d|%d|%d|%s\n",
		s.Order.Turn,
		s.Order.Cursor,
		s.Winner,
		s.CatalogSize,
		s.Settings.ActionsPerTurn,
		s.Settings.DrawPerTurn,
		s.Settings.SetsToWin,
		s.Settings.Settlement,
	)
	buf.WriteString("ACTIONS:")
	buf.WriteString(joinInts(s.ActionsLeft))
	buf.WriteString("\n")

	ctx := s.Context
	fmt.Fprintf(&buf, "CONTEXT:%d|%d|%d|%d|%d|%d|%d|%s|%s|%s|%s|%d\n",
		ctx.Kind, ctx.Actor, ctx.Stage, ctx.Side, ctx.Step, ctx.HandCard, ctx.Opponent,
		ctx.Source[rules.SideOpponent], ctx.Source[rules.SideActor],
		ctx.Dest[rules.SideOpponent], ctx.Dest[rules.SideActor],
		ctx.DebtIndex,
	)
	for _, debt := range ctx.Debts {
		fmt.Fprintf(&buf, "  DEBT:%d|%d|%d|%v\n", debt.From, debt.To, debt.Amount, debt.Selected)
	}

	for _, p := range s.Players {
		fmt.Fprintf(&buf, "PLAYER:%d|%s\n", p.Seat, p.Name)
		buf.WriteString("  HAND:" + joinCards(p.Hand) + "\n")
		buf.WriteString("  MONEY:" + joinCards(p.Money) + "\n")
		for _, colour := range cards.BoardColours() {
			for i, set := range p.Sets[colour] {
				fmt.Fprintf(&buf, "  SET:%d|%d|%s|%t|%t\n", colour, i, joinCards(set.Cards), set.House, set.Hotel)
			}
		}
	}

	buf.WriteString("DRAW:" + joinCards(s.Deck.Draw) + "\n")
	buf.WriteString("DISCARD:" + joinCards(s.Deck.Discard) + "\n")
	return buf.String()
}

func joinCards(in []cards.Card) string {
	ids := make([]int, len(in))
	for i, card := range in {
		ids[i] = card.ID
	}
	return joinInts(ids)
}

func joinInts(in []int) string {
	parts := make([]string, len(in))
	for i, v := range in {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ",")
}
