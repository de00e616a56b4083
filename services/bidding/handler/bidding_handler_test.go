package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"auction-house/internal/biddingerrors"
	model "auction-house/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// Test RegisterUserHandler
func TestRegisterUserHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockBiddingServiceInterface(ctrl)
	handler := NewBiddingHandler(mockService)

	// Initialize Gin in test mode
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/users", handler.RegisterUserHandler)

	tests := []struct {
		name           string
		requestBody    string
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:        "success",
			requestBody: `{"username":"alice"}`,
			mockSetup: func() {
				mockService.EXPECT().RegisterUser("alice").Return(nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "user registered successfully",
		},
		{
			name:        "duplicate",
			requestBody: `{"username":"bobby"}`,
			mockSetup: func() {
				mockService.EXPECT().RegisterUser("bobby").
					Return(fmt.Errorf("service: %w", biddingerrors.ErrDuplicateUser))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "username already taken",
		},
		{
			name:           "invalid_characters",
			requestBody:    `{"username":"bad name"}`,
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "too_short",
			requestBody:    `{"username":"ab"}`,
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "missing_username",
			requestBody:    `{}`,
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "invalid_json",
			requestBody:    `{invalid json}`,
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tc.mockSetup()

			req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(tc.requestBody))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, decodeBody(t, w)["message"], tc.expectedMsg)
		})
	}
}

// Test RemoveUserHandler
func TestRemoveUserHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockBiddingServiceInterface(ctrl)
	handler := NewBiddingHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.DELETE("/users/:user_id", handler.RemoveUserHandler)

	mockService.EXPECT().RemoveUser("alice").Return(nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/users/alice", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "user removed successfully", decodeBody(t, w)["message"])

	mockService.EXPECT().RemoveUser("ghost").
		Return(fmt.Errorf("service: %w", biddingerrors.ErrUserNotRegistered))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/users/ghost", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "user not found", decodeBody(t, w)["message"])
}

// Test RecordBidHandler
func TestRecordBidHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockBiddingServiceInterface(ctrl)
	handler := NewBiddingHandler(mockService)

	// Initialize Gin in test mode
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/bids", handler.RecordBidHandler)

	now := time.Now().UTC()

	tests := []struct {
		name           string
		requestBody    string
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name:        "success_valid_bid",
			requestBody: `{"user_id":"user1","amount":110}`,
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("user1", dec("110")).
					Return(model.Bid{
						BidID:        uuid.NewString(),
						AuctionIndex: 0,
						Item:         "Painting",
						UserID:       "user1",
						Amount:       dec("110"),
						CreatedAt:    now,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "bid recorded successfully",
			validateData: func(t *testing.T, data map[string]any) {
				bidID := data["bid_id"].(string)
				require.NotEmpty(t, bidID)
				_, parseErr := uuid.Parse(bidID)
				require.NoError(t, parseErr, "BidID should be a valid UUID")
				require.Equal(t, "Painting", data["item"])
				require.Equal(t, "user1", data["user_id"])
				require.Equal(t, "110", data["amount"])
			},
		},
		{
			name:        "amount_as_string",
			requestBody: `{"user_id":"user2","amount":"12.5"}`,
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("user2", dec("12.5")).
					Return(model.Bid{BidID: uuid.NewString(), UserID: "user2", Amount: dec("12.5"), CreatedAt: now}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "bid recorded successfully",
			validateData: func(t *testing.T, data map[string]any) {
				require.Equal(t, "12.5", data["amount"])
			},
		},
		{
			name:           "invalid_json",
			requestBody:    `{invalid json}`,
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "missing_user_id",
			requestBody:    `{"amount":50}`,
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "missing_amount",
			requestBody:    `{"user_id":"user1"}`,
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "invalid_amount_zero",
			requestBody:    `{"user_id":"user1","amount":0}`,
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "negative_amount",
			requestBody:    `{"user_id":"user1","amount":-10}`,
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "service_bid_rejected",
			requestBody: `{"user_id":"user3","amount":105}`,
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("user3", dec("105")).
					Return(model.Bid{}, fmt.Errorf("service: %w", biddingerrors.ErrInvalidBid))
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "bid rejected",
		},
		{
			name:        "service_user_not_registered",
			requestBody: `{"user_id":"user4","amount":100}`,
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("user4", dec("100")).
					Return(model.Bid{}, fmt.Errorf("service: %w", biddingerrors.ErrUserNotRegistered))
			},
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "user not registered",
		},
		{
			name:        "service_no_active_auction",
			requestBody: `{"user_id":"user5","amount":100}`,
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("user5", dec("100")).
					Return(model.Bid{}, fmt.Errorf("service: %w", biddingerrors.ErrNoActiveAuction))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "no active auction",
		},
		{
			name:        "service_generic_error",
			requestBody: `{"user_id":"user6","amount":100}`,
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("user6", dec("100")).
					Return(model.Bid{}, errors.New("database failure"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tc.mockSetup()

			req := httptest.NewRequest(http.MethodPost, "/bids", bytes.NewBufferString(tc.requestBody))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)

			resp := decodeBody(t, w)
			require.Contains(t, resp["message"], tc.expectedMsg)

			if tc.validateData != nil && w.Code == http.StatusCreated {
				data := resp["data"].(map[string]any)
				tc.validateData(t, data)
			}
		})
	}
}

// Test StatusHandler
func TestStatusHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockBiddingServiceInterface(ctrl)
	handler := NewBiddingHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/status", handler.StatusHandler)

	mockService.EXPECT().GetStatus().Return(model.StatusReport{
		Active:           true,
		AuctionIndex:     1,
		Item:             "Vase",
		StartPrice:       dec("50"),
		MinIncrement:     dec("5"),
		MinimumNextBid:   dec("55"),
		HasBids:          true,
		HighestBid:       dec("50"),
		HighestBidder:    "bob",
		RemainingSeconds: 62,
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]any)
	require.Equal(t, true, data["active"])
	require.Equal(t, "Vase", data["item"])
	require.Equal(t, "55", data["minimum_next_bid"])
	require.Equal(t, "bob", data["highest_bidder"])
	require.Contains(t, data["text"], "=== Auction: Vase ===")
	require.Contains(t, data["text"], "1 minute, 2 seconds")

	mockService.EXPECT().GetStatus().Return(model.InactiveStatus())
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	data = decodeBody(t, w)["data"].(map[string]any)
	require.Equal(t, false, data["active"])
	require.Equal(t, model.NoActiveAuction, data["text"])
}

// Test SendMessageHandler
func TestSendMessageHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockBiddingServiceInterface(ctrl)
	handler := NewBiddingHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/messages", handler.SendMessageHandler)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	mockService.EXPECT().SendMessage("alice", "hello all").Return(nil)
	require.Equal(t, http.StatusAccepted, post(`{"user_id":"alice","text":"hello all"}`).Code)

	require.Equal(t, http.StatusBadRequest, post(`{"user_id":"alice"}`).Code)

	mockService.EXPECT().SendMessage("ghost", "hi").
		Return(fmt.Errorf("service: %w", biddingerrors.ErrUserNotRegistered))
	require.Equal(t, http.StatusForbidden, post(`{"user_id":"ghost","text":"hi"}`).Code)
}

// Test GetBidsByAuctionHandler
func TestGetBidsByAuctionHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockBiddingServiceInterface(ctrl)
	handler := NewBiddingHandler(mockService)

	// Initialize Gin in test mode
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/auctions/:index/bids", handler.GetBidsByAuctionHandler)

	now := time.Now().UTC()

	tests := []struct {
		name           string
		index          string
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data []any)
	}{
		{
			name:  "success_multiple_bids",
			index: "0",
			mockSetup: func() {
				mockService.EXPECT().
					GetBidsForAuction(0).
					Return([]model.Bid{
						{BidID: uuid.NewString(), AuctionIndex: 0, Item: "Painting", UserID: "user1", Amount: dec("100"), CreatedAt: now},
						{BidID: uuid.NewString(), AuctionIndex: 0, Item: "Painting", UserID: "user2", Amount: dec("150"), CreatedAt: now},
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "bids retrieved successfully",
			validateData: func(t *testing.T, data []any) {
				require.Len(t, data, 2)
				require.Equal(t, "Painting", data[0].(map[string]any)["item"])
				require.Equal(t, "150", data[1].(map[string]any)["amount"])
			},
		},
		{
			name:  "service_no_bids_error",
			index: "1",
			mockSetup: func() {
				mockService.EXPECT().
					GetBidsForAuction(1).
					Return(nil, biddingerrors.ErrNoBids)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "bids retrieved successfully",
			validateData: func(t *testing.T, data []any) {
				require.Len(t, data, 0)
			},
		},
		{
			name:  "auction_not_found",
			index: "-1",
			mockSetup: func() {
				mockService.EXPECT().
					GetBidsForAuction(-1).
					Return(nil, fmt.Errorf("service: %w", biddingerrors.ErrAuctionNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "auction not found",
		},
		{
			name:           "non_numeric_index",
			index:          "abc",
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid auction index",
		},
		{
			name:  "service_generic_error",
			index: "4",
			mockSetup: func() {
				mockService.EXPECT().
					GetBidsForAuction(4).
					Return(nil, errors.New("database failure"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
		{
			name:  "extremely_large_number_of_bids",
			index: "6",
			mockSetup: func() {
				bids := make([]model.Bid, 1000)
				for i := range bids {
					bids[i] = model.Bid{
						BidID:        uuid.NewString(),
						AuctionIndex: 6,
						UserID:       fmt.Sprintf("user%d", i),
						Amount:       decimal.NewFromInt(int64(i + 1)),
						CreatedAt:    now,
					}
				}
				mockService.EXPECT().GetBidsForAuction(6).Return(bids, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "bids retrieved successfully",
			validateData: func(t *testing.T, data []any) {
				require.Len(t, data, 1000)
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tc.mockSetup()

			req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/auctions/%s/bids", tc.index), nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)

			resp := decodeBody(t, w)
			require.Contains(t, resp["message"], tc.expectedMsg)

			if tc.validateData != nil && w.Code == http.StatusOK {
				tc.validateData(t, resp["data"].([]any))
			}
		})
	}
}

// Test WinningBidHandler
func TestGetWinningBidHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockBiddingServiceInterface(ctrl)
	handler := NewBiddingHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/auctions/:index/winning", handler.GetWinningBidHandler)

	tests := []struct {
		name           string
		index          string
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:  "success",
			index: "0",
			mockSetup: func() {
				mockService.EXPECT().GetWinningBid(0).
					Return(model.Bid{BidID: uuid.NewString(), UserID: "alice", Amount: dec("110")}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "winning bid retrieved successfully",
		},
		{
			name:  "no_bids",
			index: "1",
			mockSetup: func() {
				mockService.EXPECT().GetWinningBid(1).Return(model.Bid{}, biddingerrors.ErrNoBids)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "no winning bid found",
		},
		{
			name:           "bad_index",
			index:          "x",
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid auction index",
		},
		{
			name:  "service_error",
			index: "2",
			mockSetup: func() {
				mockService.EXPECT().GetWinningBid(2).Return(model.Bid{}, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tc.mockSetup()

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/auctions/%s/winning", tc.index), nil))

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, decodeBody(t, w)["message"], tc.expectedMsg)
		})
	}
}

// Test GetItemsByUserHandler
func TestGetItemsByUserHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockBiddingServiceInterface(ctrl)
	handler := NewBiddingHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/users/:user_id/items", handler.GetItemsByUserHandler)

	mockService.EXPECT().GetItemsByUser("alice").Return([]model.Item{
		{Description: "Painting", StartPrice: dec("100"), MinIncrement: dec("10")},
	}, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/alice/items", nil))
	require.Equal(t, http.StatusOK, w.Code)
	items := decodeBody(t, w)["data"].([]any)
	require.Len(t, items, 1)
	require.Equal(t, "Painting", items[0].(map[string]any)["description"])

	mockService.EXPECT().GetItemsByUser("bob").Return(nil, biddingerrors.ErrUserNoBids)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/bob/items", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeBody(t, w)["data"].([]any), 0)

	mockService.EXPECT().GetItemsByUser("carol").Return(nil, errors.New("boom"))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/carol/items", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

// Test GetResultsHandler
func TestGetResultsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockBiddingServiceInterface(ctrl)
	handler := NewBiddingHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/results", handler.GetResultsHandler)

	mockService.EXPECT().GetResults().Return(nil, biddingerrors.ErrNoResults)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/results", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeBody(t, w)["data"].([]any), 0)

	mockService.EXPECT().GetResults().Return([]model.AuctionResult{
		{AuctionIndex: 0, Item: "Painting", HasWinner: true, Winner: "alice", Amount: dec("110")},
		{AuctionIndex: 1, Item: "Vase"},
	}, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/results", nil))
	require.Equal(t, http.StatusOK, w.Code)

	results := decodeBody(t, w)["data"].([]any)
	require.Len(t, results, 2)
	first := results[0].(map[string]any)
	require.Equal(t, "alice", first["winner"])
	require.Equal(t, true, first["has_winner"])
	require.Equal(t, false, results[1].(map[string]any)["has_winner"])
}
