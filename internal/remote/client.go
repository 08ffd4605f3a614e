// Package remote talks to the ledger HTTP API on behalf of the sync controller.
//
// Every method translates transport and HTTP failures into the domain error
// taxonomy: 401 becomes domain.ErrUnauthenticated, any other failure a
// *domain.SyncError, and a payload that does not match the transaction
// contract a *domain.MalformedDataError.
package remote

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

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/util"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultTimeout bounds a single API round trip
	DefaultTimeout = 10 * time.Second

	// maxBodySize caps how much of a response body is read
	maxBodySize = 4 << 20

	headerRequestID = "X-Request-ID"
)

// Client is an HTTP client for the ledger API
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NewClient creates a Client for the API rooted at baseURL
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url scheme %q: must be http or https", u.Scheme)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// createTransactionRequest is the body of POST /api/transactions
type createTransactionRequest struct {
	Text   string      `json:"text"`
	Amount json.Number `json:"amount"`
	Type   string      `json:"type"`
	Date   string      `json:"date"`
}

type createTransactionResponse struct {
	Message     string              `json:"message"`
	Transaction *domain.Transaction `json:"transaction"`
}

// AuthResponse is returned by login and registration
type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    AccountInfo `json:"user"`
}

// AccountInfo is the public part of a user account
type AccountInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// errorBody covers both problem+json bodies and the plain {message} form
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// ListTransactions fetches every transaction of the token's owner
func (c *Client) ListTransactions(ctx context.Context, token string) ([]domain.Transaction, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/transactions", token, nil)
	if err != nil {
		return nil, err
	}
	return decodeTransactions(body)
}

// CreateTransaction submits a validated draft and returns the stored record
func (c *Client) CreateTransaction(ctx context.Context, token string, input domain.NewTransactionInput) (*domain.Transaction, error) {
	req := createTransactionRequest{
		Text:   input.Text,
		Amount: json.Number(input.Amount.String()),
		Type:   string(input.Type),
		Date:   util.FormatDate(input.Date),
	}

	body, err := c.do(ctx, http.MethodPost, "/api/transactions", token, req)
	if err != nil {
		return nil, err
	}

	var resp createTransactionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &domain.MalformedDataError{Reason: "create response is not a JSON object"}
	}
	return resp.Transaction, nil
}

// DeleteTransaction removes a transaction by id
func (c *Client) DeleteTransaction(ctx context.Context, token string, id domain.TransactionID) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/transactions/"+url.PathEscape(id.String()), token, nil)
	return err
}

// Login exchanges credentials for a token
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	return c.authenticate(ctx, "/api/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Register creates an account and returns its first token
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	return c.authenticate(ctx, "/api/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
}

func (c *Client) authenticate(ctx context.Context, path string, payload map[string]string) (*AuthResponse, error) {
	body, err := c.do(ctx, http.MethodPost, path, "", payload)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	var resp AuthResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Token == "" {
		return nil, &domain.MalformedDataError{Reason: "authentication response carries no token"}
	}
	return &resp, nil
}

// do performs one request and returns the body of a 2xx response
func (c *Client) do(ctx context.Context, method, path, token string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := uuid.New().String()
	req.Header.Set(headerRequestID, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("method", method).Str("path", path).Str("request_id", requestID).Msg("Remote call failed")
		return nil, &domain.SyncError{Message: "could not reach the ledger service", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &domain.SyncError{Status: resp.StatusCode, Message: "could not read the ledger service response", Err: err}
	}

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Str("request_id", requestID).
		Msg("Remote call")

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, domain.ErrUnauthenticated
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &domain.SyncError{Status: resp.StatusCode, Message: errorMessage(body)}
	}
	return body, nil
}

// errorMessage extracts the server's message, or "" to use the default
func errorMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if eb.Detail != "" {
		return eb.Detail
	}
	return eb.Message
}

// decodeTransactions enforces that the payload is a list of transaction objects
func decodeTransactions(body []byte) ([]domain.Transaction, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, &domain.MalformedDataError{Reason: "expected a list of transactions"}
	}

	out := make([]domain.Transaction, 0, len(raw))
	for i, item := range raw {
		var tx domain.Transaction
		if err := json.Unmarshal(item, &tx); err != nil {
			return nil, &domain.MalformedDataError{Reason: fmt.Sprintf("record %d is not a transaction: %v", i, err)}
		}
		out = append(out, tx)
	}
	return out, nil
}
