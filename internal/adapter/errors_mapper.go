// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	return &RemoteError{StatusCode: resp.StatusCode(), Message: readErrorMessage(resp)}
}

// readErrorMessage prefers the JSON {"error": "..."} body, then any non-empty
// body, then the status text.
func readErrorMessage(resp *resty.Response) string {
	body := strings.TrimSpace(string(resp.Body()))

	if strings.Contains(resp.Header().Get("Content-Type"), "application/json") && body != "" {
		var payload struct {
			Error *string `json:"error"`
		}
		if err := json.Unmarshal(resp.Body(), &payload); err == nil && payload.Error != nil && *payload.Error != "" {
			return *payload.Error
		}
	}

	if body != "" {
		return body
	}

	if text := http.StatusText(resp.StatusCode()); text != "" {
		return text
	}
	return "request failed"
}

func mapTransportError(op string, err error) error {
	return &transportError{op: op, err: err}
}
