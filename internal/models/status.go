package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// NoActiveAuction is the text of a status report taken while no auction is open
const NoActiveAuction = "no active auction"

// StatusReport is a snapshot of the active auction
type StatusReport struct {
	Active           bool            `json:"active"`
	AuctionIndex     int             `json:"auction_index"`
	Item             string          `json:"item,omitempty"`
	StartPrice       decimal.Decimal `json:"start_price"`
	MinIncrement     decimal.Decimal `json:"min_increment"`
	MinimumNextBid   decimal.Decimal `json:"minimum_next_bid"`
	HasBids          bool            `json:"has_bids"`
	HighestBid       decimal.Decimal `json:"highest_bid"`
	HighestBidder    string          `json:"highest_bidder,omitempty"`
	RemainingSeconds int             `json:"remaining_seconds"`
}

// InactiveStatus returns the fixed report used while Idle or Finished
func InactiveStatus() StatusReport {
	return StatusReport{AuctionIndex: -1}
}

// String renders the report the way clients print it
func (s StatusReport) String() string {
	if !s.Active {
		return NoActiveAuction
	}

	var b strings.Builder
	fmt.Fprintf(&b, "=== Auction: %s ===\n", s.Item)
	fmt.Fprintf(&b, "Starting price: %s\n", s.StartPrice)
	fmt.Fprintf(&b, "Minimum increment: %s\n", s.MinIncrement)
	fmt.Fprintf(&b, "Minimum next bid: %s\n", s.MinimumNextBid)
	fmt.Fprintf(&b, "Remaining time: %s\n", FormatDuration(s.RemainingSeconds))
	if s.HasBids {
		fmt.Fprintf(&b, "Current bid: %s\n", s.HighestBid)
		fmt.Fprintf(&b, "Highest bidder: %s\n", s.HighestBidder)
	} else {
		b.WriteString("No bids yet\n")
	}
	return b.String()
}

// FormatDuration renders seconds as "1 hour, 2 minutes, 3 seconds"
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	var parts []string
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if minutes > 0 {
		parts = append(parts, plural(minutes, "minute"))
	}
	if secs > 0 || len(parts) == 0 {
		parts = append(parts, plural(secs, "second"))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
