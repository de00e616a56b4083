package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item represents an auctioned item. Items are never mutated after load.
type Item struct {
	Description  string          `json:"description"`
	StartPrice   decimal.Decimal `json:"start_price"`
	MinIncrement decimal.Decimal `json:"min_increment"`
}

// AuctionDefinition is one entry of the auction schedule
type AuctionDefinition struct {
	Item            Item `json:"item"`
	DurationSeconds int  `json:"duration_seconds"`
}

// Bid represents an accepted bid on one auction of the schedule
type Bid struct {
	BidID        string          `json:"bid_id"`
	AuctionIndex int             `json:"auction_index"`
	Item         string          `json:"item"`
	UserID       string          `json:"user_id"`
	Amount       decimal.Decimal `json:"amount"`
	CreatedAt    time.Time       `json:"created_at"`
}

// AuctionResult is the outcome of a closed auction
type AuctionResult struct {
	AuctionIndex int             `json:"auction_index"`
	Item         string          `json:"item"`
	HasWinner    bool            `json:"has_winner"`
	Winner       string          `json:"winner,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	ClosedAt     time.Time       `json:"closed_at"`
}
