// Package crm delivers leads to Follow Up Boss as person events.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/blueoakrealty/website-backend/internal/leads"
	"github.com/blueoakrealty/website-backend/internal/pipeline"
	"github.com/blueoakrealty/website-backend/pkg/logging"
)

const (
	defaultEndpoint = "https://api.followupboss.com/v1/events"
	defaultTimeout  = 20 * time.Second

	// eventSource identifies this system to Follow Up Boss on every event.
	eventSource = "Blue Oak Realty Website"

	maxErrorBody = 2048
)

// Event is the Follow Up Boss events payload.
type Event struct {
	Source      string `json:"source"`
	Type        string `json:"type"`
	Person      Person `json:"person"`
	Description string `json:"description,omitempty"`
}

// Person is the contact record embedded in an Event.
type Person struct {
	FirstName string       `json:"firstName"`
	LastName  string       `json:"lastName"`
	Emails    []ValueEntry `json:"emails"`
	Phones    []ValueEntry `json:"phones,omitempty"`
	Tags      []string     `json:"tags,omitempty"`
}

// ValueEntry wraps a single email or phone value.
type ValueEntry struct {
	Value string `json:"value"`
}

// Ensure interface compliance
var _ pipeline.Channel = (*Client)(nil)

// Client posts lead events to the Follow Up Boss API.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a Follow Up Boss client. Returns nil when no API key is
// configured; callers wire a disabled channel in that case.
func NewClient(apiKey string, logger *logging.Logger) *Client {
	if apiKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		endpoint: defaultEndpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// Name implements pipeline.Channel.
func (c *Client) Name() string { return pipeline.ChannelCRM }

// Deliver posts the lead as an event. All transport and API failures are
// reported in the ChannelResult, never returned or panicked.
func (c *Client) Deliver(ctx context.Context, lead *leads.Lead) pipeline.ChannelResult {
	body, err := json.Marshal(EventForLead(lead))
	if err != nil {
		return pipeline.ChannelResult{Success: false, Error: fmt.Sprintf("encode event: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return pipeline.ChannelResult{Success: false, Error: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	// Follow Up Boss authenticates with the API key as the basic-auth
	// username and an empty password.
	req.SetBasicAuth(c.apiKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("follow up boss request failed", "error", err)
		return pipeline.ChannelResult{Success: false, Error: fmt.Sprintf("follow up boss request: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Error("follow up boss rejected event", "status", resp.StatusCode, "body", string(respBody))
		return pipeline.ChannelResult{
			Success: false,
			Error:   fmt.Sprintf("follow up boss returned %d: %s", resp.StatusCode, string(respBody)),
		}
	}

	c.logger.Info("lead event sent to follow up boss", "type", EventTypeForLead(lead), "email", lead.Email)
	return pipeline.ChannelResult{Success: true}
}

// EventTypeForLead maps the lead type onto the human-readable event label
// shown to agents in Follow Up Boss.
func EventTypeForLead(lead *leads.Lead) string {
	switch leads.NormalizeLeadType(lead.LeadType) {
	case leads.TypeBuyer:
		return "Property Inquiry"
	case leads.TypeSeller:
		return "Seller Inquiry"
	case leads.TypeRelocation:
		return "Relocation Inquiry"
	case leads.TypeCMA:
		return "CMA Request"
	default:
		return "General Inquiry"
	}
}

// EventForLead builds the events payload for one lead.
func EventForLead(lead *leads.Lead) Event {
	person := Person{
		FirstName: lead.FirstName,
		LastName:  lead.LastName,
		Emails:    []ValueEntry{{Value: lead.Email}},
	}
	if lead.Phone != "" {
		person.Phones = []ValueEntry{{Value: lead.Phone}}
	}
	if lead.Source != "" {
		person.Tags = append(person.Tags, "source:"+lead.Source)
	}
	person.Tags = append(person.Tags, lead.Tags...)

	return Event{
		Source:      eventSource,
		Type:        EventTypeForLead(lead),
		Person:      person,
		Description: lead.Message,
	}
}
