// Package directory talks to the employee directory service, the
// authoritative store of username/password-hash/role records.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spec-kit/auth-service/internal/domain"
)

// Lookup failures. A 404 from the directory and a transport failure are
// distinct outcomes: conflating them would let infra outages read as bad
// credentials and leak account existence through error shape.
var (
	ErrNotFound    = errors.New("directory: record not found")
	ErrUnavailable = errors.New("directory: service unavailable")
)

// Directory is the read/register surface the auth flows depend on.
type Directory interface {
	FindByUsername(ctx context.Context, username string) (*domain.EmployeeRecord, error)
	Register(ctx context.Context, record *domain.EmployeeRecord) (*domain.EmployeeRecord, error)
}

// Client is the HTTP directory client with a bounded per-call timeout.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the directory at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// FindByUsername fetches the record for a username, or ErrNotFound.
func (c *Client) FindByUsername(ctx context.Context, username string) (*domain.EmployeeRecord, error) {
	endpoint := c.baseURL + "/api/employee/employee-username/" + url.PathEscape(username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// Register forwards a new employee record to the directory.
func (c *Client) Register(ctx context.Context, record *domain.EmployeeRecord) (*domain.EmployeeRecord, error) {
	body, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/api/employee/register-employee"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*domain.EmployeeRecord, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= http.StatusMultipleChoices:
		return nil, fmt.Errorf("directory: unexpected status %d", resp.StatusCode)
	}

	var record domain.EmployeeRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("directory: decode response: %w", err)
	}
	return &record, nil
}
