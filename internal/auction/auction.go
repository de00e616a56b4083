package auction

import (
	"fmt"

	"auction-house/internal/biddingerrors"
	model "auction-house/internal/models"

	"github.com/shopspring/decimal"
)

// gridTolerance bounds the rounding error accepted when checking that a bid
// sits a whole number of increments above the start price.
var gridTolerance = decimal.New(1, -9)

// Auction is one item's bidding round. It is not safe for concurrent use;
// the orchestrator serializes every call.
type Auction struct {
	item            model.Item
	durationSeconds int
	open            bool
	closed          bool
	ledger          *ledger
}

// New creates a closed, never-opened auction for item
func New(item model.Item, durationSeconds int) *Auction {
	return &Auction{
		item:            item,
		durationSeconds: durationSeconds,
		ledger:          newLedger(),
	}
}

func (a *Auction) Item() model.Item     { return a.item }
func (a *Auction) DurationSeconds() int { return a.durationSeconds }
func (a *Auction) IsOpen() bool         { return a.open }

// Open starts the round. A closed auction is never reopened.
func (a *Auction) Open() error {
	if a.open {
		return fmt.Errorf("open %q: %w", a.item.Description, biddingerrors.ErrAlreadyOpen)
	}
	if a.closed {
		return fmt.Errorf("open %q: %w", a.item.Description, biddingerrors.ErrAlreadyClosed)
	}
	a.open = true
	return nil
}

// Close ends the round
func (a *Auction) Close() error {
	if !a.open {
		return fmt.Errorf("close %q: %w", a.item.Description, biddingerrors.ErrAlreadyClosed)
	}
	a.open = false
	a.closed = true
	return nil
}

// CurrentHighestBid returns the highest recorded bid; ok is false when nobody has bid
func (a *Auction) CurrentHighestBid() (amount decimal.Decimal, ok bool) {
	_, amount, ok = a.ledger.highest()
	return amount, ok
}

// CurrentHighestBidder returns the bidder holding the highest bid
func (a *Auction) CurrentHighestBidder() (bidder string, ok bool) {
	bidder, _, ok = a.ledger.highest()
	return bidder, ok
}

// MinimumNextBid is the start price until someone bids, then highest + increment
func (a *Auction) MinimumNextBid() decimal.Decimal {
	if top, ok := a.CurrentHighestBid(); ok {
		return top.Add(a.item.MinIncrement)
	}
	return a.item.StartPrice
}

// IsBidValid reports whether amount sits on the start/increment grid and beats
// the current price. Every bid after the first must be strictly above the
// highest bid. The opening bid is the exception: it may equal the start price,
// which is the "Minimum bid" announced when the auction opens, rather than
// having to exceed it. This keeps IsBidValid in step with MinimumNextBid.
func (a *Auction) IsBidValid(amount decimal.Decimal) bool {
	if amount.LessThan(a.item.StartPrice) || !a.onGrid(amount) {
		return false
	}
	if top, ok := a.CurrentHighestBid(); ok {
		return amount.GreaterThan(top)
	}
	return true
}

func (a *Auction) onGrid(amount decimal.Decimal) bool {
	if !a.item.MinIncrement.IsPositive() {
		return false
	}
	steps := amount.Sub(a.item.StartPrice).Div(a.item.MinIncrement)
	return steps.Sub(steps.Round(0)).Abs().LessThan(gridTolerance)
}

// AcceptBid records amount for bidder if it is valid and raises the bidder's
// own bid. It returns false, leaving the ledger untouched, otherwise.
func (a *Auction) AcceptBid(bidder string, amount decimal.Decimal) bool {
	if !a.open || !a.IsBidValid(amount) {
		return false
	}
	if own, ok := a.ledger.bidOf(bidder); ok && own.GreaterThanOrEqual(amount) {
		return false
	}
	a.ledger.record(bidder, amount)
	return true
}

// Bids returns a copy of the ledger
func (a *Auction) Bids() map[string]decimal.Decimal {
	return a.ledger.snapshot()
}
