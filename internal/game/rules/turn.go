package rules

// TurnOrder is the fixed seating cycle with a wraparound cursor.
type TurnOrder struct {
	Seats  []int
	Cursor int
	Turn   int
}

// NewTurnOrder seats players 0..n-1, starting at seat 0 on turn 1.
func NewTurnOrder(n int) TurnOrder {
	seats := make([]int, n)
	for i := range seats {
		seats[i] = i
	}
	return TurnOrder{Seats: seats, Turn: 1}
}

// Active returns the seat whose turn it is.
func (t TurnOrder) Active() int {
	if len(t.Seats) == 0 {
		return NoSelection
	}
	return t.Seats[t.Cursor]
}

// Advance moves the cursor one seat, wrapping at the end of the cycle, and
// returns the new active seat.
func (t *TurnOrder) Advance() int {
	t.Cursor++
	if t.Cursor >= len(t.Seats) {
		t.Cursor = 0
	}
	t.Turn++
	return t.Active()
}

// After returns every other seat in seating order, starting with the seat
// after seat.
func (t TurnOrder) After(seat int) []int {
	start := -1
	for i, s := range t.Seats {
		if s == seat {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}
	out := make([]int, 0, len(t.Seats)-1)
	for i := 1; i < len(t.Seats); i++ {
		out = append(out, t.Seats[(start+i)%len(t.Seats)])
	}
	return out
}

// Clone copies the order.
func (t TurnOrder) Clone() TurnOrder {
	out := t
	out.Seats = append([]int(nil), t.Seats...)
	return out
}
