package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"auction-house/internal/biddingerrors"
	model "auction-house/internal/models"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by the request DTOs
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			utils.Fatal("unexpected binding validator engine", map[string]any{
				"engine": fmt.Sprintf("%T", binding.Validator.Engine()),
			})
			return
		}
		if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return model.IsValidUsername(fl.Field().String())
		}); err != nil {
			utils.Fatal("failed to register username validator", map[string]any{"error": err.Error()})
		}
	})
}

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, biddingerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, biddingerrors.ErrInvalidBid):
		return http.StatusBadRequest, "bid rejected"
	case errors.Is(err, biddingerrors.ErrInvalidUsername):
		return http.StatusBadRequest, "invalid username"
	case errors.Is(err, biddingerrors.ErrInvalidMessage):
		return http.StatusBadRequest, "invalid message"
	case errors.Is(err, biddingerrors.ErrUserNotRegistered):
		return http.StatusForbidden, "user not registered"
	case errors.Is(err, biddingerrors.ErrDuplicateUser):
		return http.StatusConflict, "username already taken"
	case errors.Is(err, biddingerrors.ErrNoActiveAuction):
		return http.StatusConflict, "no active auction"
	case errors.Is(err, biddingerrors.ErrNoBids):
		return http.StatusOK, "no bids found for auction"
	case errors.Is(err, biddingerrors.ErrUserNoBids):
		return http.StatusOK, "no items found for user"
	case errors.Is(err, biddingerrors.ErrNoResults):
		return http.StatusOK, "no auction closed yet"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// ToBidResponse converts a stored bid into its wire form
func ToBidResponse(bid model.Bid) BidResponse {
	return BidResponse{
		BidID:        bid.BidID,
		AuctionIndex: bid.AuctionIndex,
		Item:         bid.Item,
		UserID:       bid.UserID,
		Amount:       bid.Amount,
		CreatedAt:    bid.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
