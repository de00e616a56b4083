package helpers

import (
	model "auction-house/internal/models"

	"github.com/shopspring/decimal"
)

// Request/Response DTOs
type RegisterUserRequest struct {
	Username string `json:"username" binding:"required,username"`
}

type PlaceBidRequest struct {
	UserID string          `json:"user_id" binding:"required"`
	Amount decimal.Decimal `json:"amount"`
}

type MessageRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Text   string `json:"text" binding:"required,max=512"`
}

type UserResponse struct {
	UserID string `json:"user_id"`
}

type BidResponse struct {
	BidID        string          `json:"bid_id"`
	AuctionIndex int             `json:"auction_index"`
	Item         string          `json:"item"`
	UserID       string          `json:"user_id"`
	Amount       decimal.Decimal `json:"amount"`
	CreatedAt    string          `json:"created_at"`
}

// StatusResponse carries the report both structured and as printable text
type StatusResponse struct {
	model.StatusReport
	Text string `json:"text"`
}
