package pipeline

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blueoakrealty/website-backend/internal/leads"
	"github.com/blueoakrealty/website-backend/pkg/logging"
)

type fakeChannel struct {
	name   string
	result ChannelResult
	panics bool
	mu     sync.Mutex
	leads  []*leads.Lead
}

func (f *fakeChannel) Name() string { return f.name }

func (f *fakeChannel) Deliver(ctx context.Context, lead *leads.Lead) ChannelResult {
	f.mu.Lock()
	f.leads = append(f.leads, lead)
	f.mu.Unlock()
	if f.panics {
		panic("broken channel")
	}
	return f.result
}

func ok(name string) *fakeChannel {
	return &fakeChannel{name: name, result: ChannelResult{Success: true}}
}

func failed(name, msg string) *fakeChannel {
	return &fakeChannel{name: name, result: ChannelResult{Success: false, Error: msg}}
}

func testLead() *leads.Lead {
	return &leads.Lead{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Source:    "contact-page",
	}
}

func newPipeline(crm, sheets, email Channel) *Pipeline {
	return New(crm, sheets, email, nil, logging.New("error"))
}

func TestProcess_AllChannelsSettle(t *testing.T) {
	p := newPipeline(ok(ChannelCRM), ok(ChannelSheets), ok(ChannelEmail))

	res := p.Process(context.Background(), testLead())

	assert.True(t, res.Success)
	assert.True(t, res.Results.CRM.Success)
	assert.True(t, res.Results.Sheets.Success)
	assert.True(t, res.Results.Email.Success)
}

func TestProcess_NothingConfigured(t *testing.T) {
	p := newPipeline(
		failed(ChannelCRM, "follow up boss not configured"),
		failed(ChannelSheets, "google sheets not configured"),
		failed(ChannelEmail, "sendgrid not configured"),
	)

	res := p.Process(context.Background(), testLead())

	assert.False(t, res.Success)
	assert.False(t, res.Results.CRM.Success)
	assert.False(t, res.Results.Sheets.Success)
	assert.False(t, res.Results.Email.Success)
	assert.Equal(t, "follow up boss not configured", res.Results.CRM.Error)
}

func TestProcess_CRMAloneSucceeds(t *testing.T) {
	p := newPipeline(ok(ChannelCRM), failed(ChannelSheets, "quota"), failed(ChannelEmail, "down"))

	res := p.Process(context.Background(), testLead())

	assert.True(t, res.Success)
}

func TestProcess_EmailAloneSucceeds(t *testing.T) {
	p := newPipeline(failed(ChannelCRM, "401"), failed(ChannelSheets, "quota"), ok(ChannelEmail))

	res := p.Process(context.Background(), testLead())

	assert.True(t, res.Success)
}

func TestProcess_SheetsAloneIsNotEnough(t *testing.T) {
	p := newPipeline(failed(ChannelCRM, "401"), ok(ChannelSheets), failed(ChannelEmail, "down"))

	res := p.Process(context.Background(), testLead())

	assert.False(t, res.Success)
	assert.True(t, res.Results.Sheets.Success)
}

func TestProcess_PanickingChannelIsIsolated(t *testing.T) {
	broken := &fakeChannel{name: ChannelSheets, panics: true}
	p := newPipeline(ok(ChannelCRM), broken, ok(ChannelEmail))

	res := p.Process(context.Background(), testLead())

	assert.True(t, res.Success)
	assert.True(t, res.Results.CRM.Success)
	assert.True(t, res.Results.Email.Success)
	require.False(t, res.Results.Sheets.Success)
	assert.Contains(t, res.Results.Sheets.Error, "channel panic")
	assert.Contains(t, res.Results.Sheets.Error, "broken channel")
}

func TestProcess_ConcurrentCallsDoNotInterfere(t *testing.T) {
	crm := ok(ChannelCRM)
	p := newPipeline(crm, ok(ChannelSheets), ok(ChannelEmail))

	leadA := testLead()
	leadB := &leads.Lead{FirstName: "Bob", LastName: "Smith", Email: "bob@example.com"}

	var wg sync.WaitGroup
	var resA, resB AggregateResult
	wg.Add(2)
	go func() {
		defer wg.Done()
		resA = p.Process(context.Background(), leadA)
	}()
	go func() {
		defer wg.Done()
		resB = p.Process(context.Background(), leadB)
	}()
	wg.Wait()

	assert.True(t, resA.Success)
	assert.True(t, resB.Success)

	crm.mu.Lock()
	defer crm.mu.Unlock()
	require.Len(t, crm.leads, 2)
	seen := map[string]bool{}
	for _, l := range crm.leads {
		seen[l.Email] = true
	}
	assert.True(t, seen["jane@example.com"])
	assert.True(t, seen["bob@example.com"])
}
