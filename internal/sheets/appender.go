// Package sheets appends every lead to a Google Sheets audit log,
// independent of the CRM.
package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/blueoakrealty/website-backend/internal/leads"
	"github.com/blueoakrealty/website-backend/internal/pipeline"
	"github.com/blueoakrealty/website-backend/pkg/logging"
)

const (
	appendRange     = "Leads!A:H"
	timestampLayout = "2006-01-02 15:04:05"

	// The brokerage operates in one region; the sheet is read by humans
	// there, so timestamps are local, not UTC.
	businessTimeZone = "America/Chicago"
)

// rowAppender is the one Sheets API call the adapter needs. The concrete
// service hides behind it so tests can fake the append.
type rowAppender interface {
	Append(ctx context.Context, row []interface{}) error
}

// Ensure interface compliance
var _ pipeline.Channel = (*Appender)(nil)

// Appender writes one row per lead to the configured spreadsheet. The
// underlying Sheets service is built once on first use and reused; it is
// immutable afterward and safe for concurrent deliveries.
type Appender struct {
	serviceAccountEmail string
	privateKey          string
	spreadsheetID       string
	logger              *logging.Logger
	loc                 *time.Location
	now                 func() time.Time

	initOnce sync.Once
	initErr  error
	api      rowAppender
}

// NewAppender creates a Sheets appender. Returns nil when any of the three
// credentials is missing; callers wire a disabled channel in that case.
func NewAppender(serviceAccountEmail, privateKey, spreadsheetID string, logger *logging.Logger) *Appender {
	if serviceAccountEmail == "" || privateKey == "" || spreadsheetID == "" {
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
	return &Appender{
		serviceAccountEmail: serviceAccountEmail,
		privateKey:          privateKey,
		spreadsheetID:       spreadsheetID,
		logger:              logger,
		loc:                 loc,
		now:                 time.Now,
	}
}

// Name implements pipeline.Channel.
func (a *Appender) Name() string { return pipeline.ChannelSheets }

// Deliver appends the lead row. Every failure, from auth to quota, is
// reported in the ChannelResult and never propagated.
func (a *Appender) Deliver(ctx context.Context, lead *leads.Lead) pipeline.ChannelResult {
	a.initOnce.Do(a.init)
	if a.initErr != nil {
		return pipeline.ChannelResult{Success: false, Error: fmt.Sprintf("google sheets init: %v", a.initErr)}
	}

	row := a.rowForLead(lead)
	if err := a.api.Append(ctx, row); err != nil {
		a.logger.Error("sheets append failed", "error", err)
		return pipeline.ChannelResult{Success: false, Error: fmt.Sprintf("sheets append: %v", err)}
	}

	a.logger.Info("lead appended to sheet", "email", lead.Email, "range", appendRange)
	return pipeline.ChannelResult{Success: true}
}

// init authenticates as the service account and builds the Sheets service.
// Runs once per process; the token source refreshes itself afterward.
func (a *Appender) init() {
	conf := &jwt.Config{
		Email: a.serviceAccountEmail,
		// Keys arrive through env vars with literal \n sequences.
		PrivateKey: []byte(strings.ReplaceAll(a.privateKey, `\n`, "\n")),
		Scopes:     []string{sheetsapi.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	svc, err := sheetsapi.NewService(context.Background(), option.WithHTTPClient(conf.Client(context.Background())))
	if err != nil {
		a.initErr = err
		return
	}
	a.api = &valuesAppender{svc: svc, spreadsheetID: a.spreadsheetID}
}

// rowForLead builds the flat audit row: timestamp, names, contact, type,
// source, message.
func (a *Appender) rowForLead(lead *leads.Lead) []interface{} {
	source := lead.Source
	if source == "" {
		source = "website"
	}
	return []interface{}{
		a.now().In(a.loc).Format(timestampLayout),
		lead.FirstName,
		lead.LastName,
		lead.Email,
		lead.Phone,
		leads.NormalizeLeadType(lead.LeadType),
		source,
		lead.Message,
	}
}

type valuesAppender struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

func (v *valuesAppender) Append(ctx context.Context, row []interface{}) error {
	vr := &sheetsapi.ValueRange{Values: [][]interface{}{row}}
	_, err := v.svc.Spreadsheets.Values.Append(v.spreadsheetID, appendRange, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}
