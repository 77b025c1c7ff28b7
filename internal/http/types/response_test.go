// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestWriteResponse(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		data     any
		message  string
		expected Response
	}{
		{
			name:     "default message",
			status:   http.StatusCreated,
			data:     map[string]any{"code": "acme"},
			expected: Response{Data: map[string]any{"code": "acme"}, Message: "Created", Status: http.StatusCreated},
		},
		{
			name:     "explicit message without data",
			status:   http.StatusNotFound,
			message:  "tenant not found: ghost",
			expected: Response{Message: "tenant not found: ghost", Status: http.StatusNotFound},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rr := httptest.NewRecorder()

			WriteResponse(rr, test.status, test.data, test.message)

			if rr.Code != test.status {
				t.Errorf("expected status %d, got %d", test.status, rr.Code)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("unexpected content type %q", ct)
			}

			var result Response
			if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}

			if !reflect.DeepEqual(result, test.expected) {
				t.Errorf("expected result: %v, got: %v", test.expected, result)
			}
		})
	}
}
