package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anujdalvisuperk/calling-assistant/internal/config"
)

// Dispatcher sends the fixed follow-up template message to one recipient.
//
// Contract: Notify never returns an error; every failure mode (missing
// credential, non-2xx status, network fault) is folded into the Result so
// callers can log the attempt and move on. No retries.
type Dispatcher interface {
	Notify(ctx context.Context, phoneNumber string) Result
}

type Result struct {
	Success bool   `json:"success"`
	Detail  string `json:"detail,omitempty"`
}

// templatePayload is the exact body shape WATI expects. All three values are
// static deployment configuration, never per-call parameters.
type templatePayload struct {
	TemplateName  string `json:"template_name"`
	BroadcastName string `json:"broadcast_name"`
	ChannelNumber string `json:"channel_number"`
}

// Client talks to the WATI sendTemplateMessage endpoint.
type Client struct {
	cfg  config.WatiConfig
	http *http.Client
}

func NewClient(cfg config.WatiConfig) *Client {
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// maxDetailBytes caps how much of a provider response body is kept as detail.
const maxDetailBytes = 2048

func (c *Client) Notify(ctx context.Context, phoneNumber string) Result {
	if strings.TrimSpace(c.cfg.AccessToken) == "" {
		// Local failure: no network call is made without a credential.
		return Result{Success: false, Detail: "whatsapp access token is not configured"}
	}

	endpoint := fmt.Sprintf(
		"%s/%s/api/v1/sendTemplateMessage?whatsappNumber=%s",
		strings.TrimRight(c.cfg.BaseURL, "/"),
		c.cfg.TenantID,
		url.QueryEscape(phoneNumber),
	)

	body, err := json.Marshal(templatePayload{
		TemplateName:  c.cfg.TemplateName,
		BroadcastName: c.cfg.BroadcastName,
		ChannelNumber: c.cfg.ChannelNumber,
	})
	if err != nil {
		return Result{Success: false, Detail: "failed to encode template payload"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{Success: false, Detail: "failed to build request"}
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// Do not leak transport internals to end users.
		return Result{Success: false, Detail: "network failure while contacting whatsapp provider"}
	}
	defer resp.Body.Close()

	detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxDetailBytes))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{Success: false, Detail: strings.TrimSpace(string(detail))}
	}
	return Result{Success: true, Detail: strings.TrimSpace(string(detail))}
}

// Mock records notify calls for tests.
type Mock struct {
	Results []Result
	Calls   []string

	next int
}

func (m *Mock) Notify(ctx context.Context, phoneNumber string) Result {
	m.Calls = append(m.Calls, phoneNumber)
	if m.next < len(m.Results) {
		r := m.Results[m.next]
		m.next++
		return r
	}
	return Result{Success: true}
}
