package auction

import "github.com/shopspring/decimal"

// ledger maps each bidder to their highest accepted bid and tracks the leader.
// Accepted amounts only ever increase, so the leader always holds the maximum.
type ledger struct {
	bids   map[string]decimal.Decimal
	leader string
}

func newLedger() *ledger {
	return &ledger{bids: make(map[string]decimal.Decimal)}
}

func (l *ledger) bidOf(bidder string) (decimal.Decimal, bool) {
	amount, ok := l.bids[bidder]
	return amount, ok
}

func (l *ledger) highest() (string, decimal.Decimal, bool) {
	if len(l.bids) == 0 {
		return "", decimal.Zero, false
	}
	return l.leader, l.bids[l.leader], true
}

func (l *ledger) record(bidder string, amount decimal.Decimal) {
	if top, ok := l.bids[l.leader]; !ok || amount.GreaterThan(top) {
		l.leader = bidder
	}
	l.bids[bidder] = amount
}

func (l *ledger) snapshot() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(l.bids))
	for bidder, amount := range l.bids {
		out[bidder] = amount
	}
	return out
}
