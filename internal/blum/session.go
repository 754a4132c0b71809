package blum

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/proxy"

	"jordanella.com/blum-go/internal/accounts"
	"jordanella.com/blum-go/internal/logging"
)

const (
	DefaultBaseURL = "https://game-domain.blum.codes"
	DefaultTimeout = 30 * time.Second

	balancePath = "/api/v1/user/balance"
	playPath    = "/api/v1/game/play"
	claimPath   = "/api/v1/game/claim"
)

// Options configure a Session
type Options struct {
	BaseURL string
	Timeout time.Duration
	Logger  *logging.Logger
}

// Session is the HTTP channel for one account run. It carries the account's
// token and platform headers on every request and must be closed when the run ends.
type Session struct {
	baseURL   string
	headers   http.Header
	client    *http.Client
	transport *http.Transport
	logger    *logging.Logger
}

// NewSession builds a session for account
func NewSession(account *accounts.AccountConfig, opts Options) (*Session, error) {
	if err := account.Validate(); err != nil {
		return nil, err
	}

	headers, err := BuildHeaders(account.Platform, account.AuthorizationToken)
	if err != nil {
		return nil, err
	}

	transport, err := newTransport(account)
	if err != nil {
		return nil, err
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	return &Session{
		baseURL:   strings.TrimRight(baseURL, "/"),
		headers:   headers,
		client:    &http.Client{Transport: transport, Timeout: timeout},
		transport: transport,
		logger:    logger,
	}, nil
}

func newTransport(account *accounts.AccountConfig) (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	proxyURL, err := account.ProxyURL()
	if err != nil {
		return nil, err
	}
	if proxyURL == nil {
		return transport, nil
	}

	switch proxyURL.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(proxyURL)
	default:
		dialer, err := proxy.FromURL(proxyURL, proxy.Direct)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create proxy dialer")
		}
		transport.Proxy = nil
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
	}

	return transport, nil
}

// Close releases the session's pooled connections
func (s *Session) Close() error {
	s.transport.CloseIdleConnections()
	return nil
}

// do sends one request and returns the body of a 200 response.
// Cancellation of ctx does not interrupt a request already started.
func (s *Session) do(ctx context.Context, op, method, path string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: failed to encode payload", op)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), method, s.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: failed to build request", op)
	}
	req.Header = s.headers.Clone()
	if payload != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	s.logger.Debugf("%s %s", method, path)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, errors.Wrap(ErrAuthenticationRejected, op)
	default:
		return nil, &StatusError{Op: op, Code: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	return data, nil
}

type balanceResponse struct {
	PlayPasses *uint32 `json:"playPasses"`
}

// GetBalance returns the number of play passes available
func (s *Session) GetBalance(ctx context.Context) (uint32, error) {
	data, err := s.do(ctx, "balance", http.MethodGet, balancePath, nil)
	if err != nil {
		return 0, err
	}

	var res balanceResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return 0, errors.Wrapf(ErrMalformedResponse, "balance: %v", err)
	}
	if res.PlayPasses == nil {
		return 0, errors.Wrap(ErrMalformedResponse, "balance: playPasses missing")
	}

	return *res.PlayPasses, nil
}

type playResponse struct {
	GameID *string `json:"gameId"`
}

// StartGame starts a round and returns its game id
func (s *Session) StartGame(ctx context.Context) (string, error) {
	data, err := s.do(ctx, "play", http.MethodPost, playPath, nil)
	if err != nil {
		return "", err
	}

	var res playResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return "", errors.Wrapf(ErrMalformedResponse, "play: %v", err)
	}
	if res.GameID == nil || strings.TrimSpace(*res.GameID) == "" {
		return "", errors.Wrap(ErrEmptyIdentifier, "play")
	}

	return *res.GameID, nil
}

type claimRequest struct {
	GameID string `json:"gameId"`
	Points int    `json:"points"`
}

// ClaimPoints submits the score for a started round
func (s *Session) ClaimPoints(ctx context.Context, gameID string, points int) error {
	_, err := s.do(ctx, "claim", http.MethodPost, claimPath, claimRequest{GameID: gameID, Points: points})
	return err
}
