package util

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestIsRetryableError(t *testing.T) {
	jsonErr := json.Unmarshal([]byte("{"), &struct{}{})

	tests := []struct {
		name          string
		err           error
		wantRetryable bool
		wantType      string
	}{
		{"nil", nil, false, ""},
		{"json syntax", jsonErr, false, "json_decode_error"},
		{"no rows", pgx.ErrNoRows, false, "row_not_found"},
		{"wrapped no rows", fmt.Errorf("load: %w", pgx.ErrNoRows), false, "row_not_found"},
		{"duplicate key", errors.New(`duplicate key value violates unique constraint "x"`), false, "duplicate_key"},
		{"connection refused", errors.New("dial tcp: connection refused"), true, "db_connection_error"},
		{"timeout string", errors.New("i/o timeout"), true, "db_connection_error"},
		// context.DeadlineExceeded satisfies net.Error, so it is caught by
		// the network branch before the context one.
		{"deadline exceeded", context.DeadlineExceeded, true, "network_timeout"},
		{"canceled", context.Canceled, false, "context_canceled"},
		{"unknown", errors.New("something odd"), false, "unknown_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retryable, errType := IsRetryableError(tt.err)
			if retryable != tt.wantRetryable {
				t.Errorf("retryable = %v, want %v", retryable, tt.wantRetryable)
			}
			if errType != tt.wantType {
				t.Errorf("type = %q, want %q", errType, tt.wantType)
			}
		})
	}
}
