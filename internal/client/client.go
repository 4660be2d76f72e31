// Package client calls the contacts REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gitlab.com/dirk.krummacker/contact-directory/internal/model"
)

// TotalCountHeader carries the number of contacts that match the filters of a list request.
const TotalCountHeader = "X-Total-Count"

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
}

// Page is one page of a list request.
type Page struct {
	Contacts []model.Contact
	Total    int
}

// Client talks to a contacts service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the service at baseURL, e.g. "http://localhost:4000". A nil
// httpClient selects a client with a 30 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// EncodeQuery builds the list query: one '<field>_like' parameter per non-empty filter plus the
// '_page' and '_limit' markers. A page below 1 leaves out the paging markers.
func EncodeQuery(filters map[string]string, page int, limit int) url.Values {
	values := url.Values{}
	for field, value := range filters {
		if value != "" {
			values.Set(field+"_like", value)
		}
	}
	if page > 0 {
		values.Set("_page", strconv.Itoa(page))
		if limit > 0 {
			values.Set("_limit", strconv.Itoa(limit))
		}
	}
	return values
}

// List fetches one page of contacts matching the filters.
func (c *Client) List(ctx context.Context, filters map[string]string, page int, limit int) (Page, error) {
	requestURL := c.baseURL + "/contacts"
	if query := EncodeQuery(filters, page, limit).Encode(); query != "" {
		requestURL += "?" + query
	}
	var contacts []model.Contact
	res, err := c.do(ctx, http.MethodGet, requestURL, nil, &contacts)
	if err != nil {
		return Page{}, errors.Wrap(err, "list contacts")
	}
	total := len(contacts)
	if header := res.Header.Get(TotalCountHeader); header != "" {
		total, err = strconv.Atoi(header)
		if err != nil {
			return Page{}, errors.Wrapf(err, "invalid %s header", TotalCountHeader)
		}
	}
	return Page{Contacts: contacts, Total: total}, nil
}

// Get fetches a single contact.
func (c *Client) Get(ctx context.Context, id int64) (model.Contact, error) {
	var contact model.Contact
	_, err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/contacts/%d", c.baseURL, id), nil, &contact)
	return contact, errors.Wrapf(err, "get contact %d", id)
}

// Update sends the fields present on patch and returns the record the service answered with.
func (c *Client) Update(ctx context.Context, id int64, patch model.Contact) (model.Contact, error) {
	body, err := json.Marshal(patch)
	if err != nil {
		return model.Contact{}, errors.Wrap(err, "encode patch")
	}
	var contact model.Contact
	_, err = c.do(ctx, http.MethodPatch, fmt.Sprintf("%s/contacts/%d", c.baseURL, id), body, &contact)
	return contact, errors.Wrapf(err, "update contact %d", id)
}

// Ping checks that the service answers the list endpoint with OK.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, c.baseURL+"/contacts?_page=1&_limit=1", nil, nil)
	return err
}

// do sends a request and decodes a JSON response into out unless out is nil.
func (c *Client) do(ctx context.Context, method string, requestURL string, body []byte, out interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		var msg struct {
			Message string `json:"message"`
		}
		// A body that is not the usual {"message": ...} leaves the message empty.
		_ = json.Unmarshal(resBody, &msg)
		return res, &StatusError{StatusCode: res.StatusCode, Message: msg.Message}
	}
	if out != nil {
		if err := json.Unmarshal(resBody, out); err != nil {
			return res, errors.Wrap(err, "decode response")
		}
	}
	return res, nil
}
