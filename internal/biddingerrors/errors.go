package biddingerrors

import "errors"

// Repository-level errors
var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrNoBids          = errors.New("no bids found for auction")
	ErrUserNoBids      = errors.New("user has not placed any bids")
	ErrNoResults       = errors.New("no auction has closed yet")
)

// Auction lifecycle errors
var (
	ErrAlreadyOpen     = errors.New("auction already open")
	ErrAlreadyClosed   = errors.New("auction already closed")
	ErrEmptySchedule   = errors.New("auction schedule is empty")
	ErrInvalidSchedule = errors.New("invalid auction definition")
	ErrScheduleLoaded  = errors.New("auction schedule already loaded")
	ErrNoActiveAuction = errors.New("no active auction")
)

// business logic errors
var (
	ErrInvalidBid        = errors.New("invalid bid")
	ErrDuplicateUser     = errors.New("username already taken")
	ErrUserNotRegistered = errors.New("user not registered")
	ErrInvalidUsername   = errors.New("invalid username")
	ErrInvalidMessage    = errors.New("invalid message")
)
