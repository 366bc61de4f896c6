// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/MKhiriev/scribe-keeper/internal/config"
	"github.com/MKhiriev/scribe-keeper/internal/logger"
	"github.com/MKhiriev/scribe-keeper/internal/utils"
	"github.com/MKhiriev/scribe-keeper/models"
	"github.com/go-resty/resty/v2"
)

const (
	registerPath        = "/api/auth/register"
	loginPath           = "/api/auth/login"
	entriesPath         = "/api/entries"
	entryByPathPath     = "/api/entries/by-path"
	analysisPath        = "/api/analysis"
	recommendationsPath = "/api/recommendations"
	pingPath            = "/"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs the HTTP/REST implementation of
// [ServerAdapter]. The base URL is normalised from adapterCfg.HTTPAddress and
// every request is bounded by adapterCfg.RequestTimeout.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout)

	return &httpServerAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. A "Bearer " prefix is accepted and
// stripped.
func (h *httpServerAdapter) SetToken(token string) {
	token = strings.TrimSpace(token)
	if parsed, err := utils.ParseBearerToken(token); err == nil {
		token = parsed
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = token
}

// Token implements [ServerAdapter].
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Register implements [ServerAdapter]. POST /api/auth/register.
func (h *httpServerAdapter) Register(ctx context.Context, creds models.Credentials) (models.AuthTokenResponse, error) {
	return h.authenticate(ctx, "register", registerPath, creds)
}

// Login implements [ServerAdapter]. POST /api/auth/login.
func (h *httpServerAdapter) Login(ctx context.Context, creds models.Credentials) (models.AuthTokenResponse, error) {
	return h.authenticate(ctx, "login", loginPath, creds)
}

func (h *httpServerAdapter) authenticate(ctx context.Context, op, path string, creds models.Credentials) (models.AuthTokenResponse, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(creds).
		Post(path)
	if err != nil {
		return models.AuthTokenResponse{}, mapTransportError(op+" request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.AuthTokenResponse{}, err
	}

	var out models.AuthTokenResponse
	if err = decodeJSON(resp, &out); err != nil {
		return models.AuthTokenResponse{}, fmt.Errorf("decode %s response: %w", op, err)
	}
	if out.AccessToken == "" {
		return models.AuthTokenResponse{}, fmt.Errorf("%s response: %w", op, ErrEmptyToken)
	}

	return out, nil
}

// ListEntries implements [ServerAdapter]. GET /api/entries.
func (h *httpServerAdapter) ListEntries(ctx context.Context) ([]models.EntrySummary, error) {
	resp, err := h.authedRequest(ctx).Get(entriesPath)
	if err != nil {
		return nil, mapTransportError("list entries request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var items []models.EntrySummary
	if err = decodeJSON(resp, &items); err != nil {
		return nil, fmt.Errorf("decode list entries response: %w", err)
	}

	return items, nil
}

// GetEntryByPath implements [ServerAdapter]. GET /api/entries/by-path?path=.
func (h *httpServerAdapter) GetEntryByPath(ctx context.Context, storagePath string) (models.EntryResponse, error) {
	resp, err := h.authedRequest(ctx).
		SetQueryParam("path", storagePath).
		Get(entryByPathPath)
	if err != nil {
		return models.EntryResponse{}, mapTransportError("get entry request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.EntryResponse{}, err
	}

	var entry models.EntryResponse
	if err = decodeJSON(resp, &entry); err != nil {
		return models.EntryResponse{}, fmt.Errorf("decode get entry response: %w", err)
	}

	return entry, nil
}

// CreateEntry implements [ServerAdapter]. POST /api/entries.
func (h *httpServerAdapter) CreateEntry(ctx context.Context, req models.EntryRequest) (models.EntryResponse, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(entriesPath)
	if err != nil {
		return models.EntryResponse{}, mapTransportError("create entry request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.EntryResponse{}, err
	}

	var entry models.EntryResponse
	if err = decodeJSON(resp, &entry); err != nil {
		return models.EntryResponse{}, fmt.Errorf("decode create entry response: %w", err)
	}

	return entry, nil
}

// UpdateEntry implements [ServerAdapter]. PUT /api/entries.
func (h *httpServerAdapter) UpdateEntry(ctx context.Context, req models.EntryRequest) (models.EntryResponse, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Put(entriesPath)
	if err != nil {
		return models.EntryResponse{}, mapTransportError("update entry request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.EntryResponse{}, err
	}

	var entry models.EntryResponse
	if err = decodeJSON(resp, &entry); err != nil {
		return models.EntryResponse{}, fmt.Errorf("decode update entry response: %w", err)
	}

	return entry, nil
}

// DeleteEntry implements [ServerAdapter]. DELETE /api/entries?path=.
func (h *httpServerAdapter) DeleteEntry(ctx context.Context, storagePath string) (models.DeleteResponse, error) {
	resp, err := h.authedRequest(ctx).
		SetQueryParam("path", storagePath).
		Delete(entriesPath)
	if err != nil {
		return models.DeleteResponse{}, mapTransportError("delete entry request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.DeleteResponse{}, err
	}

	out := models.DeleteResponse{Deleted: true, StoragePath: storagePath}
	if len(resp.Body()) == 0 {
		return out, nil
	}
	if err = decodeJSON(resp, &out); err != nil {
		return models.DeleteResponse{}, fmt.Errorf("decode delete entry response: %w", err)
	}

	return out, nil
}

// AnalyzeText implements [ServerAdapter]. POST /api/analysis.
func (h *httpServerAdapter) AnalyzeText(ctx context.Context, text string) (models.AnalysisResponse, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.AnalysisRequest{Text: text}).
		Post(analysisPath)
	if err != nil {
		return models.AnalysisResponse{}, mapTransportError("analysis request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.AnalysisResponse{}, err
	}

	var out models.AnalysisResponse
	if err = decodeJSON(resp, &out); err != nil {
		return models.AnalysisResponse{}, fmt.Errorf("decode analysis response: %w", err)
	}

	return out, nil
}

// GetRecommendations implements [ServerAdapter]. POST /api/recommendations.
func (h *httpServerAdapter) GetRecommendations(ctx context.Context, text string) (models.RecommendationResponse, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.RecommendationRequest{Text: text}).
		Post(recommendationsPath)
	if err != nil {
		return models.RecommendationResponse{}, mapTransportError("recommendations request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RecommendationResponse{}, err
	}

	var out models.RecommendationResponse
	if err = decodeJSON(resp, &out); err != nil {
		return models.RecommendationResponse{}, fmt.Errorf("decode recommendations response: %w", err)
	}

	return out, nil
}

// Ping implements [ServerAdapter]. GET /; the status code is ignored.
func (h *httpServerAdapter) Ping(ctx context.Context) error {
	_, err := h.client.R().SetContext(ctx).Get(pingPath)
	if err != nil {
		h.logger.Debug().Err(err).Str("func", "httpServerAdapter.Ping").Msg("diary api unreachable")
		return mapTransportError("ping", err)
	}
	return nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func decodeJSON(resp *resty.Response, out any) error {
	return json.Unmarshal(resp.Body(), out)
}
