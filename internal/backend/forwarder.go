// Package backend forwards classified drafts to the downstream transactions API.
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

	"fjacquet/ia-financiera/internal/logging"
	"fjacquet/ia-financiera/internal/models"
)

// Defaults used when the configuration leaves them empty.
const (
	DefaultURL     = "https://api-firebase-auth.onrender.com/api/transactions"
	DefaultTimeout = 15 * time.Second
)

// maxErrorBody caps how much of a failed response is kept in Error.
const maxErrorBody = 4 << 10

// ErrMissingAuthorization is returned when no authorization header value is given.
var ErrMissingAuthorization = errors.New("authorization is required to forward a draft")

// Error is a non-success answer from the backend.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Body)
}

// Forwarder posts drafts to the backend.
type Forwarder struct {
	url        string
	httpClient *http.Client
	logger     logging.Logger
}

// NewForwarder creates a Forwarder. An empty url uses DefaultURL and a
// non-positive timeout uses DefaultTimeout.
func NewForwarder(url string, timeout time.Duration, logger logging.Logger) *Forwarder {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Forwarder{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// URL returns the endpoint drafts are posted to.
func (f *Forwarder) URL() string {
	return f.url
}

// Forward posts the draft JSON. authorization is sent unchanged as the
// Authorization header (it already carries its scheme, e.g. "Bearer ...").
// 200 and 201 are success; any other status is returned as *Error.
func (f *Forwarder) Forward(ctx context.Context, draft models.Draft, authorization string) error {
	if strings.TrimSpace(authorization) == "" {
		return ErrMissingAuthorization
	}

	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("error marshaling draft: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("error creating backend request: %w", err)
	}
	req.Header.Set("Authorization", authorization)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.logger.WithError(err).WithField(logging.FieldOutput, f.url).Warn("Backend unreachable")
		return fmt.Errorf("error contacting backend: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	log := f.logger.WithFields(
		logging.Field{Key: logging.FieldStatus, Value: resp.StatusCode},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).String()},
	)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Warn("Backend rejected draft")
		return &Error{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	log.Info("Draft forwarded")
	return nil
}
