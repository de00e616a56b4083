package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"auction-house/internal/biddingerrors"
	model "auction-house/internal/models"
	"auction-house/services/bidding/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=bidding_handler.go -destination=mock_bidding_service.go -package=handler

type BiddingServiceInterface interface {
	RegisterUser(userID string) error
	RemoveUser(userID string) error
	IsRegistered(userID string) bool
	PlaceBid(userID string, amount decimal.Decimal) (model.Bid, error)
	SendMessage(userID, text string) error
	GetStatus() model.StatusReport
	GetBidsForAuction(index int) ([]model.Bid, error)
	GetWinningBid(index int) (model.Bid, error)
	GetItemsByUser(userID string) ([]model.Item, error)
	GetResults() ([]model.AuctionResult, error)
}

type BiddingHandler struct {
	service BiddingServiceInterface
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	helpers.RegisterValidators()
	return &BiddingHandler{service: service}
}

// respondError maps err to a status code and writes the error envelope
func respondError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := helpers.MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)

	fields["handler"] = handlerName
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
		return
	}
	utils.Warn(handlerName+": request rejected", fields)
}

// auctionIndex parses the :index path parameter
func auctionIndex(c *gin.Context) (int, bool) {
	raw := c.Param("index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, fmt.Errorf("invalid auction index %q: %w", raw, err), "invalid auction index")
		return 0, false
	}
	return index, true
}

// RegisterUserHandler handles POST /users
func (h *BiddingHandler) RegisterUserHandler(c *gin.Context) {
	var req helpers.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RegisterUserHandler", err)
		return
	}

	if err := h.service.RegisterUser(req.Username); err != nil {
		respondError(c, "RegisterUserHandler", err, map[string]any{"user_id": req.Username})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.UserResponse{UserID: req.Username}, "user registered successfully")
	helpers.LogSuccess("RegisterUserHandler", "user registered successfully", map[string]any{"user_id": req.Username})
}

// RemoveUserHandler handles DELETE /users/:user_id
func (h *BiddingHandler) RemoveUserHandler(c *gin.Context) {
	userID := c.Param("user_id")
	if err := h.service.RemoveUser(userID); err != nil {
		// an unknown name is a missing resource here, not a forbidden action
		if errors.Is(err, biddingerrors.ErrUserNotRegistered) {
			utils.JSONError(c, http.StatusNotFound, err, "user not found")
			utils.Info("RemoveUserHandler: user not found", map[string]any{"user_id": userID})
			return
		}
		respondError(c, "RemoveUserHandler", err, map[string]any{"user_id": userID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.UserResponse{UserID: userID}, "user removed successfully")
	helpers.LogSuccess("RemoveUserHandler", "user removed successfully", map[string]any{"user_id": userID})
}

// RecordBidHandler handles POST /bids
func (h *BiddingHandler) RecordBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RecordBidHandler", err)
		return
	}
	if !req.Amount.IsPositive() {
		helpers.HandleBindError(c, "RecordBidHandler", fmt.Errorf("amount must be positive, got %s", req.Amount))
		return
	}

	bid, err := h.service.PlaceBid(req.UserID, req.Amount)
	if err != nil {
		respondError(c, "RecordBidHandler", err, map[string]any{
			"user_id": req.UserID,
			"amount":  req.Amount.String(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToBidResponse(bid), "bid recorded successfully")
	helpers.LogSuccess("RecordBidHandler", "bid recorded successfully", map[string]any{
		"bid_id":        bid.BidID,
		"auction_index": bid.AuctionIndex,
		"user_id":       req.UserID,
		"amount":        bid.Amount.String(),
	})
}

// StatusHandler handles GET /status
func (h *BiddingHandler) StatusHandler(c *gin.Context) {
	report := h.service.GetStatus()
	utils.JSONResponse(c, http.StatusOK, helpers.StatusResponse{StatusReport: report, Text: report.String()}, "status retrieved successfully")
}

// SendMessageHandler handles POST /messages
func (h *BiddingHandler) SendMessageHandler(c *gin.Context) {
	var req helpers.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SendMessageHandler", err)
		return
	}

	if err := h.service.SendMessage(req.UserID, req.Text); err != nil {
		respondError(c, "SendMessageHandler", err, map[string]any{"user_id": req.UserID})
		return
	}

	utils.JSONResponse(c, http.StatusAccepted, nil, "message sent")
	helpers.LogSuccess("SendMessageHandler", "message sent", map[string]any{"user_id": req.UserID})
}

// GetBidsByAuctionHandler handles GET /auctions/:index/bids
func (h *BiddingHandler) GetBidsByAuctionHandler(c *gin.Context) {
	index, ok := auctionIndex(c)
	if !ok {
		return
	}

	bids, err := h.service.GetBidsForAuction(index)
	if err != nil && !errors.Is(err, biddingerrors.ErrNoBids) {
		respondError(c, "GetBidsByAuctionHandler", err, map[string]any{"auction_index": index})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, b := range bids {
		resp = append(resp, helpers.ToBidResponse(b))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved successfully")
	helpers.LogSuccess("GetBidsByAuctionHandler", "bids retrieved successfully", map[string]any{
		"auction_index": index,
		"count":         len(resp),
	})
}

// GetWinningBidHandler handles GET /auctions/:index/winning
func (h *BiddingHandler) GetWinningBidHandler(c *gin.Context) {
	index, ok := auctionIndex(c)
	if !ok {
		return
	}

	bid, err := h.service.GetWinningBid(index)
	if err != nil {
		if errors.Is(err, biddingerrors.ErrNoBids) {
			utils.JSONError(c, http.StatusNotFound, err, "no winning bid found")
			utils.Info("GetWinningBidHandler: no winning bid found", map[string]any{"auction_index": index})
			return
		}
		respondError(c, "GetWinningBidHandler", err, map[string]any{"auction_index": index})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponse(bid), "winning bid retrieved successfully")
	helpers.LogSuccess("GetWinningBidHandler", "winning bid retrieved successfully", map[string]any{
		"bid_id":        bid.BidID,
		"auction_index": index,
		"user_id":       bid.UserID,
		"amount":        bid.Amount.String(),
	})
}

// GetItemsByUserHandler handles GET /users/:user_id/items
func (h *BiddingHandler) GetItemsByUserHandler(c *gin.Context) {
	userID := c.Param("user_id")
	items, err := h.service.GetItemsByUser(userID)
	if err != nil && !errors.Is(err, biddingerrors.ErrUserNoBids) {
		respondError(c, "GetItemsByUserHandler", err, map[string]any{"user_id": userID})
		return
	}

	if items == nil {
		items = []model.Item{}
	}

	utils.JSONResponse(c, http.StatusOK, items, "items retrieved successfully")
	helpers.LogSuccess("GetItemsByUserHandler", "items retrieved successfully", map[string]any{
		"user_id":     userID,
		"items_count": len(items),
	})
}

// GetResultsHandler handles GET /results
func (h *BiddingHandler) GetResultsHandler(c *gin.Context) {
	results, err := h.service.GetResults()
	if err != nil && !errors.Is(err, biddingerrors.ErrNoResults) {
		respondError(c, "GetResultsHandler", err, map[string]any{})
		return
	}

	if results == nil {
		results = []model.AuctionResult{}
	}

	utils.JSONResponse(c, http.StatusOK, results, "results retrieved successfully")
}
