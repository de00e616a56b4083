package integrationtests

import (
	bidding "auction-house/internal/biddingService"
	"auction-house/internal/hub"
	model "auction-house/internal/models"
	"auction-house/internal/orchestrator"
	"auction-house/internal/repository"
	"auction-house/internal/server"
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// testEnv bundles a router with the pieces tests drive directly
type testEnv struct {
	router *gin.Engine
	orch   *orchestrator.Orchestrator
	clock  *clock.Mock
	hub    *hub.Hub
}

// SetupTestRouter wires the full stack around a mock clock without loading a schedule
func SetupTestRouter(t *testing.T) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)
	clk := clock.NewMock()
	h := hub.New(hub.DefaultQueueSize)
	repo := repository.NewMemoryRepo()
	orch := orchestrator.New(
		orchestrator.WithClock(clk),
		orchestrator.WithBroadcast(h.Broadcast),
		orchestrator.WithRepository(repo),
	)
	t.Cleanup(func() {
		orch.Shutdown()
		h.Close()
	})

	service := bidding.NewBiddingService(orch, repo)
	return &testEnv{
		router: server.SetupRouter(service, h, nil),
		orch:   orch,
		clock:  clk,
		hub:    h,
	}
}

// SetupTestRouterWithAuctions wires the stack and starts the given schedule
func SetupTestRouterWithAuctions(t *testing.T, defs ...model.AuctionDefinition) *testEnv {
	t.Helper()

	env := SetupTestRouter(t)
	if err := env.orch.LoadAuctions(defs); err != nil {
		t.Fatalf("failed to load auctions: %v", err)
	}
	return env
}

// Auction builds a schedule entry
func Auction(name string, start, increment int64, seconds int) model.AuctionDefinition {
	return model.AuctionDefinition{
		Item: model.Item{
			Description:  name,
			StartPrice:   decimal.NewFromInt(start),
			MinIncrement: decimal.NewFromInt(increment),
		},
		DurationSeconds: seconds,
	}
}

// ExecuteRequest executes an HTTP request and returns the response recorder.
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := ExecuteRequest(t, router, method, url, reqBody)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		if err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}

	return resp, w
}

// Register claims a username and fails the test if the server refuses
func Register(t *testing.T, router *gin.Engine, username string) {
	t.Helper()

	_, w := ExecuteRequestAndParse(t, router, "POST", "/users", map[string]string{"username": username})
	if w.Code != 201 {
		t.Fatalf("register %s: got status %d: %s", username, w.Code, w.Body.String())
	}
}
