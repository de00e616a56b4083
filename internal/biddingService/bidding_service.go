package bidding

import (
	"auction-house/internal/biddingerrors"
	"auction-house/internal/models"
	"auction-house/internal/repository"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=bidding_service.go -destination=mock_engine.go -package=bidding

// AuctionEngine is the lifecycle core the service drives
type AuctionEngine interface {
	RegisterUser(userID string) error
	RemoveUser(userID string) bool
	IsRegistered(userID string) bool
	PlaceBid(userID string, amount decimal.Decimal) (models.Bid, error)
	SendMessage(userID, text string) error
	StatusReport() models.StatusReport
}

// BiddingService defines the business logic for auction bidding
type BiddingService struct {
	engine AuctionEngine
	repo   repository.AuctionDB
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(engine AuctionEngine, repo repository.AuctionDB) *BiddingService {
	return &BiddingService{
		engine: engine,
		repo:   repo,
	}
}

// RegisterUser claims a display name for a new participant
func (s *BiddingService) RegisterUser(userID string) error {
	if !models.IsValidUsername(userID) {
		return fmt.Errorf("service: %w - %q must be 3-16 letters, digits or underscores", biddingerrors.ErrInvalidUsername, userID)
	}
	if err := s.engine.RegisterUser(userID); err != nil {
		return fmt.Errorf("service: failed to register user %s: %w", userID, err)
	}
	return nil
}

// RemoveUser releases a display name when its participant leaves
func (s *BiddingService) RemoveUser(userID string) error {
	if userID == "" {
		return fmt.Errorf("service: %w - empty user ID", biddingerrors.ErrInvalidUsername)
	}
	if !s.engine.RemoveUser(userID) {
		return fmt.Errorf("service: remove user %s: %w", userID, biddingerrors.ErrUserNotRegistered)
	}
	return nil
}

// IsRegistered reports whether userID currently holds a display name
func (s *BiddingService) IsRegistered(userID string) bool {
	return userID != "" && s.engine.IsRegistered(userID)
}

// PlaceBid validates and offers a user's bid on the active auction
func (s *BiddingService) PlaceBid(userID string, amount decimal.Decimal) (models.Bid, error) {
	if err := validateBid(userID, amount); err != nil {
		return models.Bid{}, err
	}

	bid, err := s.engine.PlaceBid(userID, amount)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to place bid of %s by user %s: %w", amount, userID, err)
	}

	return bid, nil
}

// validateBid checks input validity before the engine applies the auction rules
func validateBid(userID string, amount decimal.Decimal) error {
	if userID == "" {
		return fmt.Errorf("service: %w - missing userID", biddingerrors.ErrInvalidBid)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("service: %w - non-positive bid amount", biddingerrors.ErrInvalidBid)
	}
	return nil
}

// SendMessage broadcasts a chat line to every participant
func (s *BiddingService) SendMessage(userID, text string) error {
	if userID == "" {
		return fmt.Errorf("service: %w - missing userID", biddingerrors.ErrInvalidMessage)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("service: %w - empty message", biddingerrors.ErrInvalidMessage)
	}
	if err := s.engine.SendMessage(userID, text); err != nil {
		return fmt.Errorf("service: failed to send message from %s: %w", userID, err)
	}
	return nil
}

// GetStatus returns a snapshot of the active auction
func (s *BiddingService) GetStatus() models.StatusReport {
	return s.engine.StatusReport()
}

// GetBidsForAuction returns all accepted bids of one auction of the schedule
func (s *BiddingService) GetBidsForAuction(index int) ([]models.Bid, error) {
	if index < 0 {
		return nil, fmt.Errorf("service: %w - negative auction index", biddingerrors.ErrAuctionNotFound)
	}

	bids, err := s.repo.GetBidsByAuction(index)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for auction %d: %w", index, err)
	}

	return bids, nil
}

// GetWinningBid returns the highest bid of one auction
func (s *BiddingService) GetWinningBid(index int) (models.Bid, error) {
	if index < 0 {
		return models.Bid{}, fmt.Errorf("service: %w - negative auction index", biddingerrors.ErrAuctionNotFound)
	}

	winningBid, err := s.repo.GetWinningBid(index)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get winning bid for auction %d: %w", index, err)
	}

	return winningBid, nil
}

// GetItemsByUser returns all items a user has placed bids on
func (s *BiddingService) GetItemsByUser(userID string) ([]models.Item, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", biddingerrors.ErrInvalidUsername)
	}

	items, err := s.repo.GetItemsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get items for user %s: %w", userID, err)
	}

	return items, nil
}

// GetResults returns the outcome of every closed auction
func (s *BiddingService) GetResults() ([]models.AuctionResult, error) {
	results, err := s.repo.GetResults()
	if err != nil {
		return nil, fmt.Errorf("service: failed to get results: %w", err)
	}
	return results, nil
}
