// Package client talks to the auction server on behalf of one participant.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"auction-house/utils"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

// APIError is a non-2xx reply from the server
type APIError struct {
	Status  int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Message, e.Detail)
}

// Client is bound to a single server and, after Register, a single user
type Client struct {
	baseURL string
	http    *http.Client
	userID  string
}

// New creates a client for the server at baseURL, e.g. http://localhost:8080
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// UserID returns the registered name, empty before Register succeeds
func (c *Client) UserID() string { return c.userID }

// Register claims username on the server
func (c *Client) Register(ctx context.Context, username string) error {
	if err := c.do(ctx, http.MethodPost, "/users", map[string]string{"username": username}, nil); err != nil {
		return fmt.Errorf("register %s: %w", username, err)
	}
	c.userID = username
	return nil
}

// Leave releases the registered name
func (c *Client) Leave(ctx context.Context) error {
	if c.userID == "" {
		return nil
	}
	if err := c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(c.userID), nil, nil); err != nil {
		return fmt.Errorf("leave: %w", err)
	}
	c.userID = ""
	return nil
}

// BidReceipt is the server's confirmation of an accepted bid
type BidReceipt struct {
	BidID        string          `json:"bid_id"`
	AuctionIndex int             `json:"auction_index"`
	Item         string          `json:"item"`
	Amount       decimal.Decimal `json:"amount"`
}

// Bid offers amount on the active auction
func (c *Client) Bid(ctx context.Context, amount decimal.Decimal) (BidReceipt, error) {
	var receipt BidReceipt
	body := map[string]any{"user_id": c.userID, "amount": amount}
	if err := c.do(ctx, http.MethodPost, "/bids", body, &receipt); err != nil {
		return BidReceipt{}, fmt.Errorf("bid %s: %w", amount, err)
	}
	return receipt, nil
}

// Status returns the printable status of the active auction
func (c *Client) Status(ctx context.Context) (string, error) {
	var status struct {
		Text string `json:"text"`
	}
	if err := c.do(ctx, http.MethodGet, "/status", nil, &status); err != nil {
		return "", fmt.Errorf("status: %w", err)
	}
	return status.Text, nil
}

// Message sends a chat line to every participant
func (c *Client) Message(ctx context.Context, text string) error {
	body := map[string]string{"user_id": c.userID, "text": text}
	if err := c.do(ctx, http.MethodPost, "/messages", body, nil); err != nil {
		return fmt.Errorf("message: %w", err)
	}
	return nil
}

// Listen streams broadcasts to onMessage until ctx is cancelled or the
// server closes the stream
func (c *Client) Listen(ctx context.Context, onMessage func(string)) error {
	wsURL, err := c.streamURL()
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("listen: dial %s: %w", wsURL, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		conn.Close()
	})
	defer stop()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("listen: %w", err)
		}
		onMessage(string(payload))
	}
}

func (c *Client) streamURL() (string, error) {
	u, err := url.Parse(c.baseURL + "/ws")
	if err != nil {
		return "", fmt.Errorf("listen: parse server url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.RawQuery = url.Values{"user_id": {c.userID}}.Encode()
	return u.String(), nil
}

// do sends body as JSON and decodes the envelope's data into out
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	var env utils.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response (%d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{Status: resp.StatusCode, Message: env.Message, Detail: env.Error}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

// IsStatus reports whether err is an APIError with the given HTTP status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
