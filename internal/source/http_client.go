package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"briefdesk/internal/model"
)

// HTTPSource reads messages from a remote integrations service. A single
// attempt per call; failures surface to the caller, which applies its own
// per-item error handling.
type HTTPSource struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewHTTPSource(baseURL, token string) *HTTPSource {
	return &HTTPSource{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *HTTPSource) List(ctx context.Context, f Filter) ([]model.Message, error) {
	q := url.Values{}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	q.Set("limit", strconv.Itoa(limit))
	if f.Channel != "" {
		q.Set("channel", f.Channel)
	}
	if f.Sender != "" {
		q.Set("sender", f.Sender)
	}

	var messages []model.Message
	if err := s.get(ctx, "/messages?"+q.Encode(), &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *HTTPSource) GetByID(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	var msg model.Message
	err := s.get(ctx, "/messages/"+id.String(), &msg)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.code == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	if e.code >= 500 {
		return fmt.Sprintf("message source 5xx: %d", e.code)
	}
	return fmt.Sprintf("message source error: %d", e.code)
}

func (s *HTTPSource) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return err
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
