package orchestrator

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"auction-house/internal/auction"
	"auction-house/internal/auctiontimer"
	"auction-house/internal/biddingerrors"
	"auction-house/internal/metrics"
	model "auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/utils"

	"github.com/benbjohnson/clock"
	"github.com/shopspring/decimal"
)

// State of the whole schedule
type State int

const (
	StateIdle State = iota
	StateRunning
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// BroadcastFunc delivers a message to every connected participant. It runs
// with the orchestrator lock held, so it must hand the message off without
// blocking.
type BroadcastFunc func(message string)

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithClock drives the auction timer from clk instead of wall-clock time
func WithClock(clk clock.Clock) Option {
	return func(o *Orchestrator) { o.clock = clk }
}

// WithBroadcast registers the callback invoked on every transition, accepted bid and chat message
func WithBroadcast(fn BroadcastFunc) Option {
	return func(o *Orchestrator) { o.broadcast = fn }
}

// WithRepository records bids and results into repo
func WithRepository(repo repository.AuctionDB) Option {
	return func(o *Orchestrator) { o.repo = repo }
}

// WithMetrics counts bids, closed auctions and users on rec
func WithMetrics(rec *metrics.Recorder) Option {
	return func(o *Orchestrator) { o.metrics = rec }
}

// Orchestrator runs the schedule one auction at a time. Every operation that
// reads or mutates the schedule, the active auction or the registered users
// holds mu for its whole duration.
type Orchestrator struct {
	clock     clock.Clock
	timer     *auctiontimer.Timer
	broadcast BroadcastFunc
	repo      repository.AuctionDB
	metrics   *metrics.Recorder

	mu          sync.Mutex
	auctions    []*auction.Auction
	activeIndex int
	state       State
	users       map[string]struct{}
}

// New creates an idle orchestrator
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		activeIndex: -1,
		state:       StateIdle,
		users:       make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.repo == nil {
		o.repo = repository.NewMemoryRepo()
	}
	if o.broadcast == nil {
		o.broadcast = func(message string) {
			utils.Debug("orchestrator: broadcast without listeners", map[string]any{"message": message})
		}
	}
	o.timer = auctiontimer.New(o.clock)
	return o
}

// LoadAuctions builds the schedule and opens its first auction
func (o *Orchestrator) LoadAuctions(defs []model.AuctionDefinition) error {
	if len(defs) == 0 {
		return fmt.Errorf("orchestrator: load auctions: %w", biddingerrors.ErrEmptySchedule)
	}
	for i, def := range defs {
		if err := validateDefinition(def); err != nil {
			return fmt.Errorf("orchestrator: load auctions: entry %d: %w", i, err)
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateIdle {
		return fmt.Errorf("orchestrator: load auctions: %w", biddingerrors.ErrScheduleLoaded)
	}

	o.auctions = make([]*auction.Auction, 0, len(defs))
	for i, def := range defs {
		o.auctions = append(o.auctions, auction.New(def.Item, def.DurationSeconds))
		if err := o.repo.RegisterAuction(i, def.Item); err != nil {
			o.auctions = nil
			return fmt.Errorf("orchestrator: load auctions: %w", err)
		}
	}

	utils.Info("orchestrator: schedule loaded", map[string]any{"auctions": len(defs)})
	o.advanceLocked()
	return nil
}

func validateDefinition(def model.AuctionDefinition) error {
	switch {
	case strings.TrimSpace(def.Item.Description) == "":
		return fmt.Errorf("%w: empty description", biddingerrors.ErrInvalidSchedule)
	case !def.Item.StartPrice.IsPositive():
		return fmt.Errorf("%w: start price must be positive", biddingerrors.ErrInvalidSchedule)
	case !def.Item.MinIncrement.IsPositive():
		return fmt.Errorf("%w: minimum increment must be positive", biddingerrors.ErrInvalidSchedule)
	case def.DurationSeconds <= 0:
		return fmt.Errorf("%w: duration must be positive", biddingerrors.ErrInvalidSchedule)
	}
	return nil
}

// Advance closes the active auction and opens the next one, or finishes the
// schedule. It does nothing unless the schedule is running.
func (o *Orchestrator) Advance() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateRunning {
		return
	}
	o.advanceLocked()
}

// expire is the timer callback for the auction at index. A fire that arrives
// after that auction was already closed is ignored.
func (o *Orchestrator) expire(index int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateRunning || o.activeIndex != index {
		utils.Debug("orchestrator: ignoring stale timer", map[string]any{
			"expected_index": index,
			"active_index":   o.activeIndex,
			"state":          o.state.String(),
		})
		return
	}
	o.advanceLocked()
}

func (o *Orchestrator) advanceLocked() {
	if o.activeIndex >= 0 {
		o.closeActiveLocked()
	}

	next := o.activeIndex + 1
	if next >= len(o.auctions) {
		o.timer.Cancel()
		o.activeIndex = -1
		o.state = StateFinished
		utils.Info("orchestrator: schedule finished", map[string]any{"auctions": len(o.auctions)})
		o.broadcast("All auctions are terminated")
		return
	}

	current := o.auctions[next]
	if err := current.Open(); err != nil {
		// auctions open in order exactly once, so this means corrupted state
		utils.Fatal("orchestrator: cannot open next auction", map[string]any{"index": next, "error": err.Error()})
		return
	}
	o.activeIndex = next
	o.state = StateRunning

	item := current.Item()
	duration := time.Duration(current.DurationSeconds()) * time.Second
	utils.Info("orchestrator: auction opened", map[string]any{
		"index":       next,
		"item":        item.Description,
		"start_price": item.StartPrice.String(),
		"duration":    duration.String(),
	})
	o.broadcast(fmt.Sprintf("Auction %d of %d opened: %s. Minimum bid %s, increment %s, closes in %s",
		next+1, len(o.auctions), item.Description, current.MinimumNextBid(), item.MinIncrement,
		model.FormatDuration(current.DurationSeconds())))

	o.timer.Start(duration, func() { o.expire(next) })
}

func (o *Orchestrator) closeActiveLocked() {
	index := o.activeIndex
	current := o.auctions[index]
	if !current.IsOpen() {
		return
	}

	o.timer.Cancel()
	if err := current.Close(); err != nil {
		utils.Error("orchestrator: close auction", map[string]any{"index": index, "error": err.Error()})
		return
	}

	result := model.AuctionResult{
		AuctionIndex: index,
		Item:         current.Item().Description,
		ClosedAt:     o.clock.Now().UTC(),
	}
	if winner, ok := current.CurrentHighestBidder(); ok {
		amount, _ := current.CurrentHighestBid()
		result.HasWinner = true
		result.Winner = winner
		result.Amount = amount
	}

	if err := o.repo.RecordResult(result); err != nil {
		utils.Error("orchestrator: record result", map[string]any{"index": index, "error": err.Error()})
	}

	fields := map[string]any{"index": index, "item": result.Item, "has_winner": result.HasWinner}
	if result.HasWinner {
		fields["winner"] = result.Winner
		fields["amount"] = result.Amount.String()
	}
	utils.Info("orchestrator: auction closed", fields)
	o.metrics.BumpSum("auctions.closed", 1, "has_winner", fmt.Sprint(result.HasWinner))
	o.broadcast(closeMessage(result))
}

func closeMessage(result model.AuctionResult) string {
	if !result.HasWinner {
		return fmt.Sprintf("Auction %s closed with no winning bidder", result.Item)
	}
	return fmt.Sprintf("Auction %s closed: %s wins with a bid of %s", result.Item, result.Winner, result.Amount)
}

// PlaceBid offers amount on the active auction for a registered bidder. The
// bid was accepted if and only if the returned error is nil.
func (o *Orchestrator) PlaceBid(bidderID string, amount decimal.Decimal) (model.Bid, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateRunning {
		o.metrics.BumpSum("bids.rejected", 1, "reason", "no_active_auction")
		return model.Bid{}, fmt.Errorf("orchestrator: place bid: %w", biddingerrors.ErrNoActiveAuction)
	}
	if _, ok := o.users[bidderID]; !ok {
		o.metrics.BumpSum("bids.rejected", 1, "reason", "not_registered")
		return model.Bid{}, fmt.Errorf("orchestrator: place bid by %s: %w", bidderID, biddingerrors.ErrUserNotRegistered)
	}

	current := o.auctions[o.activeIndex]
	item := current.Item()
	if !current.AcceptBid(bidderID, amount) {
		o.metrics.BumpSum("bids.rejected", 1, "reason", "invalid_amount")
		return model.Bid{}, fmt.Errorf("orchestrator: bid of %s on %s rejected, minimum next bid is %s on increments of %s: %w",
			amount, item.Description, current.MinimumNextBid(), item.MinIncrement, biddingerrors.ErrInvalidBid)
	}

	bid := model.Bid{
		BidID:        utils.GenerateID(),
		AuctionIndex: o.activeIndex,
		Item:         item.Description,
		UserID:       bidderID,
		Amount:       amount,
		CreatedAt:    o.clock.Now().UTC(),
	}
	if err := o.repo.RecordBid(bid); err != nil {
		utils.Error("orchestrator: record bid", map[string]any{"bid_id": bid.BidID, "error": err.Error()})
	}

	utils.Info("orchestrator: bid accepted", map[string]any{
		"bid_id":  bid.BidID,
		"index":   bid.AuctionIndex,
		"user_id": bidderID,
		"amount":  amount.String(),
	})
	o.metrics.BumpSum("bids.accepted", 1)
	o.broadcast(fmt.Sprintf("%s places a bid of %s on %s", bidderID, amount, item.Description))
	return bid, nil
}

// RegisterUser adds a unique bidder name. Names are case-sensitive.
func (o *Orchestrator) RegisterUser(userID string) error {
	if userID == "" {
		return fmt.Errorf("orchestrator: register user: %w", biddingerrors.ErrInvalidUsername)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.users[userID]; ok {
		return fmt.Errorf("orchestrator: register user %s: %w", userID, biddingerrors.ErrDuplicateUser)
	}
	o.users[userID] = struct{}{}
	utils.Info("orchestrator: user registered", map[string]any{"user_id": userID, "users": len(o.users)})
	o.metrics.Gauge("users.count", float64(len(o.users)))
	return nil
}

// RemoveUser forgets a bidder; it reports whether the user was registered
func (o *Orchestrator) RemoveUser(userID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.users[userID]; !ok {
		return false
	}
	delete(o.users, userID)
	utils.Info("orchestrator: user removed", map[string]any{"user_id": userID, "users": len(o.users)})
	o.metrics.Gauge("users.count", float64(len(o.users)))
	return true
}

// IsRegistered reports whether userID is a registered user
func (o *Orchestrator) IsRegistered(userID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.users[userID]
	return ok
}

// Users returns the registered users in alphabetical order
func (o *Orchestrator) Users() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	users := make([]string, 0, len(o.users))
	for u := range o.users {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}

// SendMessage broadcasts a chat line from a registered user
func (o *Orchestrator) SendMessage(userID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("orchestrator: send message: %w", biddingerrors.ErrInvalidMessage)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.users[userID]; !ok {
		return fmt.Errorf("orchestrator: send message from %s: %w", userID, biddingerrors.ErrUserNotRegistered)
	}
	o.metrics.BumpSum("messages.sent", 1)
	o.broadcast(fmt.Sprintf("-> %s: %s", userID, text))
	return nil
}

// StatusReport describes the active auction, or returns the inactive report
// while the schedule is idle or finished
func (o *Orchestrator) StatusReport() model.StatusReport {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateRunning {
		return model.InactiveStatus()
	}

	current := o.auctions[o.activeIndex]
	item := current.Item()
	report := model.StatusReport{
		Active:           true,
		AuctionIndex:     o.activeIndex,
		Item:             item.Description,
		StartPrice:       item.StartPrice,
		MinIncrement:     item.MinIncrement,
		MinimumNextBid:   current.MinimumNextBid(),
		RemainingSeconds: o.timer.RemainingSeconds(),
	}
	if bidder, ok := current.CurrentHighestBidder(); ok {
		report.HasBids = true
		report.HighestBidder = bidder
		report.HighestBid, _ = current.CurrentHighestBid()
	}
	return report
}

// State returns the current schedule state
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// ActiveIndex returns the index of the open auction, or -1
func (o *Orchestrator) ActiveIndex() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.activeIndex
}

// Shutdown stops the pending timer so the active auction never expires
func (o *Orchestrator) Shutdown() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.timer.Cancel()
	utils.Info("orchestrator: shut down", map[string]any{"state": o.state.String(), "active_index": o.activeIndex})
}
