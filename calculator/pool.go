package calculator

import "github.com/shopspring/decimal"

// section104Pool is the average-cost holding bucket for one ticker.
// Shares enter the pool once their own same-day and bed-and-breakfast
// eligibility has lapsed; from then on they lose their identity and
// carry the pool's average cost.
//
// Invariant: quantity >= 0 and cost >= 0 at all times.
type section104Pool struct {
	quantity decimal.Decimal
	cost     decimal.Decimal
}

// add absorbs shares at the given total cost.
func (p *section104Pool) add(quantity, cost decimal.Decimal) {
	p.quantity = p.quantity.Add(quantity)
	p.cost = p.cost.Add(cost)
}

// scale multiplies the share quantity by ratio, leaving cost untouched.
// Used for splits (ratio > 1) and consolidations (ratio < 1).
func (p *section104Pool) scale(ratio decimal.Decimal) {
	if ratio.IsZero() {
		return
	}
	p.quantity = p.quantity.Mul(ratio)
}

// sell removes quantity shares and returns their proportional cost.
// Cost is reduced pro rata so the average cost of the remainder is
// preserved; removing the full quantity removes the full cost exactly.
// A zero-quantity pool yields no match (ok false) rather than a
// division by zero.
func (p *section104Pool) sell(quantity decimal.Decimal) (decimal.Decimal, bool) {
	if !p.quantity.IsPositive() || !quantity.IsPositive() {
		return decimal.Decimal{}, false
	}
	if quantity.GreaterThan(p.quantity) {
		return decimal.Decimal{}, false
	}

	var cost decimal.Decimal
	if quantity.Equal(p.quantity) {
		cost = p.cost
	} else {
		cost = p.cost.Mul(quantity).Div(p.quantity)
	}

	p.quantity = p.quantity.Sub(quantity)
	p.cost = p.cost.Sub(cost)
	return cost, true
}
