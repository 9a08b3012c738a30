// Package backend é o cliente tipado da API REST de reservas. Cada método
// corresponde a exatamente um verbo+caminho do backend, sem retentativas.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mateusmacedo/go-bff/internal/metrics"
	"github.com/mateusmacedo/go-bff/internal/session"
	pkgApp "github.com/mateusmacedo/go-bff/pkg/application"
)

const maxBodySize = 4 << 20

// ErrMalformedResponse indica uma resposta 2xx que não pôde ser decodificada
// ou que viola os enums do modelo.
var ErrMalformedResponse = errors.New("malformed backend response")

// APIError representa qualquer resposta não-2xx do backend.
type APIError struct {
	StatusCode int
	Message    string
	Operation  string
}

func (e *APIError) Error() string {
	return e.Message
}

// StatusOf devolve o status HTTP de um APIError na cadeia, ou zero.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  pkgApp.AppLogger
	metrics *metrics.Metrics
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func NewClient(baseURL string, timeout time.Duration, logger pkgApp.AppLogger, opts ...Option) *Client {
	if logger == nil {
		logger = pkgApp.NopLogger{}
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type idempotencyKey struct{}

// WithIdempotencyKey faz as chamadas de escrita enviarem o cabeçalho
// Idempotency-Key com o valor informado.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, idempotencyKey{}, key)
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) (err error) {
	started := time.Now()
	defer func() { c.metrics.ObserveBackend(op, started, err) }()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s, ok := session.FromContext(ctx); ok && s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}
	if rid := pkgApp.RequestIDFrom(ctx); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}
	if key, ok := ctx.Value(idempotencyKey{}).(string); ok && key != "" && method != http.MethodGet {
		req.Header.Set("Idempotency-Key", key)
	}

	pkgApp.LogDebug(ctx, c.logger, "backend request", map[string]interface{}{
		"operation": op,
		"method":    method,
		"path":      path,
	})

	resp, err := c.http.Do(req)
	if err != nil {
		pkgApp.LogError(ctx, c.logger, "backend request failed", err, map[string]interface{}{"operation": op})
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Operation:  op,
			Message:    fmt.Sprintf("%s failed with status %d", op, resp.StatusCode),
		}
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil {
			if eb.Message != "" {
				apiErr.Message = eb.Message
			} else if eb.Error != "" {
				apiErr.Message = eb.Error
			}
		}
		pkgApp.LogError(ctx, c.logger, "backend returned error", apiErr, map[string]interface{}{
			"operation": op,
			"status":    resp.StatusCode,
		})
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrMalformedResponse, err)
	}
	return nil
}

type enumChecker interface {
	CheckEnums() error
}

func checkAll[T enumChecker](op string, items []T) error {
	for _, it := range items {
		if err := it.CheckEnums(); err != nil {
			return fmt.Errorf("%s: %w: %v", op, ErrMalformedResponse, err)
		}
	}
	return nil
}

func checkOne(op string, it enumChecker) error {
	if err := it.CheckEnums(); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrMalformedResponse, err)
	}
	return nil
}
