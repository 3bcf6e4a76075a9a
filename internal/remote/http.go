package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dalkommatt/ai-writer/internal/journal"
)

// wireRecord is the JSON shape the hosted store speaks. Timestamps travel as
// strings because the store's format ("+00:00" offsets, variable fractional
// digits) does not match our canonical encoding byte-for-byte.
type wireRecord struct {
	Identity  string `json:"identity"`
	MutatedAt string `json:"mutated_at"`
	Title     string `json:"title"`
	Body      string `json:"body"`
}

func toWire(r journal.Record) wireRecord {
	return wireRecord{
		Identity:  r.Identity,
		MutatedAt: r.MutatedAt.UTC().Format(time.RFC3339Nano),
		Title:     r.Title,
		Body:      r.Body,
	}
}

func fromWire(w wireRecord) (journal.Record, error) {
	mutatedAt, err := journal.NormalizeInstant(w.MutatedAt)
	if err != nil {
		return journal.Record{}, fmt.Errorf("record %s: %w", w.Identity, err)
	}
	return journal.Record{
		Identity:  w.Identity,
		MutatedAt: mutatedAt,
		Title:     w.Title,
		Body:      w.Body,
	}, nil
}

// HTTPStore talks to the hosted record store over its REST interface.
//
// All failures map into the closed StoreError taxonomy: connection and 5xx
// failures are transient, 404 is not-found, 409 is conflict. Anything else
// unexpected is treated as transient so the session keeps working offline.
type HTTPStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPStore creates a store client for the given base URL.
// Pass nil to use a default client with a 10-second timeout.
func NewHTTPStore(baseURL, apiKey string, client *http.Client) *HTTPStore {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPStore{baseURL: baseURL, apiKey: apiKey, client: client}
}

// ReadAll fetches every record visible to this API key.
func (s *HTTPStore) ReadAll(ctx context.Context) ([]journal.Record, error) {
	req, err := s.newRequest(ctx, http.MethodGet, "/records", nil)
	if err != nil {
		return nil, NewTransientError("read_all", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, NewTransientError("read_all", err)
	}
	defer resp.Body.Close()

	if err := statusError("read_all", "", resp); err != nil {
		return nil, err
	}

	var wire []wireRecord
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, NewTransientError("read_all", fmt.Errorf("decode response: %w", err))
	}

	records := make([]journal.Record, 0, len(wire))
	for _, w := range wire {
		r, err := fromWire(w)
		if err != nil {
			return nil, NewTransientError("read_all", err)
		}
		records = append(records, r)
	}

	slog.Debug("remote read complete", "count", len(records))
	return records, nil
}

// Upsert sends the full record list as an insert-or-replace keyed by identity.
func (s *HTTPStore) Upsert(ctx context.Context, records []journal.Record) error {
	wire := make([]wireRecord, len(records))
	for i, r := range records {
		wire[i] = toWire(r)
	}

	body, err := json.Marshal(wire)
	if err != nil {
		return NewTransientError("upsert", fmt.Errorf("encode request: %w", err))
	}

	req, err := s.newRequest(ctx, http.MethodPost, "/records?on_conflict=identity", bytes.NewReader(body))
	if err != nil {
		return NewTransientError("upsert", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "resolution=merge-duplicates")

	resp, err := s.client.Do(req)
	if err != nil {
		return NewTransientError("upsert", err)
	}
	defer drain(resp)

	return statusError("upsert", "", resp)
}

// Delete removes one record by identity.
func (s *HTTPStore) Delete(ctx context.Context, identity string) error {
	path := "/records/" + url.PathEscape(identity)
	req, err := s.newRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return NewTransientError("delete", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return NewTransientError("delete", err)
	}
	defer drain(resp)

	return statusError("delete", identity, resp)
}

func (s *HTTPStore) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	return req, nil
}

// statusError maps a non-2xx response into the StoreError taxonomy.
func statusError(op, identity string, resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return NewNotFoundError(op, identity)
	case resp.StatusCode == http.StatusConflict:
		return NewConflictError(op, fmt.Errorf("status %d", resp.StatusCode))
	default:
		return NewTransientError(op, fmt.Errorf("status %d", resp.StatusCode))
	}
}

// drain discards the body so the connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}

var _ Store = (*HTTPStore)(nil)
