// Package pipeline fans one validated lead out to the CRM, spreadsheet,
// and email channels concurrently, isolating failures per channel.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/blueoakrealty/website-backend/internal/leads"
	"github.com/blueoakrealty/website-backend/internal/observability/metrics"
	"github.com/blueoakrealty/website-backend/pkg/logging"
)

// Channel names used in logs, metrics, and the aggregate result.
const (
	ChannelCRM    = "fub"
	ChannelSheets = "sheets"
	ChannelEmail  = "email"
)

// ChannelResult is one channel's outcome for one lead.
type ChannelResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ChannelResults holds the per-channel outcomes keyed by channel name.
type ChannelResults struct {
	CRM    ChannelResult `json:"fub"`
	Sheets ChannelResult `json:"sheets"`
	Email  ChannelResult `json:"email"`
}

// AggregateResult is the combined report for one lead. Success is true when
// at least one business-critical channel (CRM or email) delivered; the
// spreadsheet is an audit log and does not count toward it.
type AggregateResult struct {
	Success bool           `json:"success"`
	Results ChannelResults `json:"results"`
}

// Channel delivers one lead to one external system. Implementations must
// catch their own errors and report them in the ChannelResult instead of
// panicking; Process still defends against that contract being broken.
type Channel interface {
	Name() string
	Deliver(ctx context.Context, lead *leads.Lead) ChannelResult
}

// Disabled returns a Channel standing in for an integration whose
// credentials are absent. The choice is made once at wiring time; every
// delivery reports a not-configured failure instead of reaching the
// network.
func Disabled(name, reason string) Channel {
	return disabledChannel{name: name, reason: reason}
}

type disabledChannel struct {
	name   string
	reason string
}

func (d disabledChannel) Name() string { return d.name }

func (d disabledChannel) Deliver(ctx context.Context, lead *leads.Lead) ChannelResult {
	return ChannelResult{Success: false, Error: d.reason}
}

// Pipeline dispatches leads to its three channels. Channels are injected
// at construction and shared across requests; they must be safe for
// concurrent use.
type Pipeline struct {
	crm     Channel
	sheets  Channel
	email   Channel
	metrics *metrics.LeadMetrics
	logger  *logging.Logger
}

// New creates a pipeline over the three delivery channels.
func New(crm, sheets, email Channel, m *metrics.LeadMetrics, logger *logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.Default()
	}
	return &Pipeline{
		crm:     crm,
		sheets:  sheets,
		email:   email,
		metrics: m,
		logger:  logger,
	}
}

// Process dispatches one lead to all three channels concurrently and waits
// for every channel to settle. It never returns an error: each channel's
// failure, including a panic, becomes a failed ChannelResult. Each call is
// a single best-effort attempt; there is no retry or queueing.
func (p *Pipeline) Process(ctx context.Context, lead *leads.Lead) AggregateResult {
	start := time.Now()
	p.metrics.ObserveReceived()
	p.logger.Info("processing lead",
		"name", lead.FullName(),
		"email", lead.Email,
		"lead_type", lead.LeadType,
		"source", lead.Source,
		"received_at", start.UTC().Format(time.RFC3339),
	)

	var wg sync.WaitGroup
	var crmRes, sheetsRes, emailRes ChannelResult
	wg.Add(3)
	go p.deliver(ctx, p.crm, lead, &crmRes, &wg)
	go p.deliver(ctx, p.sheets, lead, &sheetsRes, &wg)
	go p.deliver(ctx, p.email, lead, &emailRes, &wg)
	wg.Wait()

	result := AggregateResult{
		Success: crmRes.Success || emailRes.Success,
		Results: ChannelResults{
			CRM:    crmRes,
			Sheets: sheetsRes,
			Email:  emailRes,
		},
	}

	p.report(p.crm.Name(), crmRes)
	p.report(p.sheets.Name(), sheetsRes)
	p.report(p.email.Name(), emailRes)
	p.metrics.ObserveProcessing(time.Since(start).Seconds())

	return result
}

// deliver runs one channel and stores its result. A panicking channel is
// converted into a failed result so the other channels still settle and
// report.
func (p *Pipeline) deliver(ctx context.Context, ch Channel, lead *leads.Lead, out *ChannelResult, wg *sync.WaitGroup) {
	defer wg.Done()
	defer func() {
		if r := recover(); r != nil {
			*out = ChannelResult{Success: false, Error: fmt.Sprintf("channel panic: %v", r)}
		}
	}()
	*out = ch.Deliver(ctx, lead)
}

func (p *Pipeline) report(name string, res ChannelResult) {
	p.metrics.ObserveDelivery(name, res.Success)
	if res.Success {
		p.logger.Info("channel delivery OK", "channel", name)
		return
	}
	p.logger.Warn("channel delivery FAILED", "channel", name, "error", res.Error)
}
