// Package notify renders and sends the two lead emails: the owner
// notification and the lead's confirmation.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blueoakrealty/website-backend/internal/leads"
	"github.com/blueoakrealty/website-backend/internal/pipeline"
	"github.com/blueoakrealty/website-backend/pkg/logging"
)

const (
	// Same zone convention as the spreadsheet log, rendered long-form.
	businessTimeZone = "America/Chicago"
	ownerTimeLayout  = "Monday, January 2, 2006 at 3:04 PM"

	confirmationSubject = "Thank you for contacting Blue Oak Realty"
)

// Ensure interface compliance
var _ pipeline.Channel = (*LeadMailer)(nil)

// LeadMailer delivers one lead as two emails: a notification to the
// brokerage inbox and a confirmation to the lead.
type LeadMailer struct {
	sender            EmailSender
	notificationEmail string
	logger            *logging.Logger
	loc               *time.Location
	now               func() time.Time
}

// NewLeadMailer creates the email channel. Returns nil when no sender is
// configured; callers wire a disabled channel in that case.
func NewLeadMailer(sender EmailSender, notificationEmail string, logger *logging.Logger) *LeadMailer {
	if sender == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	loc, err := time.LoadLocation(businessTimeZone)
	if err != nil {
		logger.Warn("failed to load business time zone, falling back to UTC", "error", err)
		loc = time.UTC
	}
	return &LeadMailer{
		sender:            sender,
		notificationEmail: notificationEmail,
		logger:            logger,
		loc:               loc,
		now:               time.Now,
	}
}

// Name implements pipeline.Channel.
func (m *LeadMailer) Name() string { return pipeline.ChannelEmail }

// Deliver sends both emails. Each send is attempted independently; any
// failure makes the channel result failed with the messages preserved.
func (m *LeadMailer) Deliver(ctx context.Context, lead *leads.Lead) pipeline.ChannelResult {
	var errs []string

	owner := EmailMessage{
		To:      m.notificationEmail,
		Subject: OwnerSubject(lead),
		Body:    fmt.Sprintf("New lead from %s (%s)", lead.FullName(), lead.Email),
		HTML:    m.renderOwnerNotification(lead),
	}
	if err := m.sender.Send(ctx, owner); err != nil {
		m.logger.Error("owner notification failed", "error", err, "lead_email", lead.Email)
		errs = append(errs, fmt.Sprintf("owner notification: %v", err))
	}

	confirmation := EmailMessage{
		To:      lead.Email,
		ToName:  lead.FullName(),
		Subject: confirmationSubject,
		Body:    fmt.Sprintf("Hi %s, thanks for reaching out. One of our agents will be in touch shortly.", lead.FirstName),
		HTML:    renderLeadConfirmation(lead),
	}
	if err := m.sender.Send(ctx, confirmation); err != nil {
		m.logger.Error("lead confirmation failed", "error", err, "lead_email", lead.Email)
		errs = append(errs, fmt.Sprintf("lead confirmation: %v", err))
	}

	if len(errs) > 0 {
		return pipeline.ChannelResult{Success: false, Error: strings.Join(errs, "; ")}
	}
	return pipeline.ChannelResult{Success: true}
}

// OwnerSubject summarizes the lead type and name for the brokerage inbox.
func OwnerSubject(lead *leads.Lead) string {
	var label string
	switch leads.NormalizeLeadType(lead.LeadType) {
	case leads.TypeCMA:
		label = "CMA Request"
	case leads.TypeRelocation:
		label = "Relocation Inquiry"
	case leads.TypeSeller:
		label = "Seller Inquiry"
	default:
		if lead.PropertyType != "" {
			label = lead.PropertyType
		} else {
			label = "General"
		}
	}
	return fmt.Sprintf("New %s Lead: %s", label, lead.FullName())
}

func (m *LeadMailer) renderOwnerNotification(lead *leads.Lead) string {
	receivedAt := m.now().In(m.loc).Format(ownerTimeLayout)

	var b strings.Builder
	b.WriteString(`<div style="font-family: sans-serif; max-width: 600px;">`)
	b.WriteString(fmt.Sprintf("<h2>New Lead: %s</h2>", lead.FullName()))
	b.WriteString(`<table style="border-collapse: collapse;">`)
	b.WriteString(detailRow("Email", fmt.Sprintf(`<a href="mailto:%s">%s</a>`, lead.Email, lead.Email)))
	if lead.Phone != "" {
		b.WriteString(detailRow("Phone", fmt.Sprintf(`<a href="tel:%s">%s</a>`, lead.Phone, lead.Phone)))
	}
	if lead.PreferredContact != "" {
		b.WriteString(detailRow("Preferred Contact", lead.PreferredContact))
	}
	b.WriteString(detailRow("Lead Type", leads.NormalizeLeadType(lead.LeadType)))
	if lead.PropertyInterest != "" {
		b.WriteString(detailRow("Property Interest", lead.PropertyInterest))
	}
	if lead.PropertyType != "" {
		b.WriteString(detailRow("Property Type", lead.PropertyType))
	}
	if lead.PriceRange != "" {
		b.WriteString(detailRow("Price Range", lead.PriceRange))
	}
	if lead.Address != "" {
		b.WriteString(detailRow("Address", lead.Address))
	}
	if lead.CurrentCity != "" {
		b.WriteString(detailRow("Moving From", lead.CurrentCity))
	}
	if lead.Timeline != "" {
		b.WriteString(detailRow("Timeline", lead.Timeline))
	}
	if lead.Budget != "" {
		b.WriteString(detailRow("Budget", lead.Budget))
	}
	if lead.Source != "" {
		b.WriteString(detailRow("Source", lead.Source))
	}
	b.WriteString(detailRow("Received", receivedAt))
	b.WriteString(`</table>`)
	if lead.Message != "" {
		b.WriteString(fmt.Sprintf(`<p style="background: #f9fafb; padding: 12px; border-radius: 8px;">%s</p>`, lead.Message))
	}
	b.WriteString(`</div>`)
	return b.String()
}

func renderLeadConfirmation(lead *leads.Lead) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: sans-serif; max-width: 600px;">`)
	b.WriteString(fmt.Sprintf("<h2>Thanks for reaching out, %s!</h2>", lead.FirstName))
	b.WriteString("<p>We received your inquiry and one of our agents will be in touch shortly.</p>")

	var details []string
	if lead.PropertyInterest != "" {
		details = append(details, fmt.Sprintf("Property: %s", lead.PropertyInterest))
	}
	if lead.PropertyType != "" {
		details = append(details, fmt.Sprintf("Type: %s", lead.PropertyType))
	}
	if lead.PriceRange != "" {
		details = append(details, fmt.Sprintf("Price Range: %s", lead.PriceRange))
	}
	if len(details) > 0 {
		b.WriteString(fmt.Sprintf("<p>What you told us: %s.</p>", strings.Join(details, " · ")))
	}
	b.WriteString(`<p style="color: #6b7280; font-size: 12px;">— The Blue Oak Realty Team</p>`)
	b.WriteString(`</div>`)
	return b.String()
}

func detailRow(label, value string) string {
	return fmt.Sprintf(`<tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>%s:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>`, label, value)
}
