package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blueoakrealty/website-backend/internal/leads"
	"github.com/blueoakrealty/website-backend/pkg/logging"
)

func testLead() *leads.Lead {
	return &leads.Lead{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Phone:     "+1 512 555 0123",
		Message:   "Interested in the Maple St listing.",
		Source:    "contact-page",
		LeadType:  "buyer",
		Tags:      []string{"open-house"},
	}
}

func newTestClient(url string) *Client {
	c := NewClient("test-key", logging.New("error"))
	c.endpoint = url
	return c
}

func TestNewClient_NilWithoutAPIKey(t *testing.T) {
	if NewClient("", nil) != nil {
		t.Error("expected nil client when API key is empty")
	}
}

func TestEventTypeForLead(t *testing.T) {
	cases := map[string]string{
		"buyer":      "Property Inquiry",
		"seller":     "Seller Inquiry",
		"relocation": "Relocation Inquiry",
		"cma":        "CMA Request",
		"general":    "General Inquiry",
		"investor":   "General Inquiry",
		"":           "General Inquiry",
	}
	for leadType, want := range cases {
		lead := testLead()
		lead.LeadType = leadType
		assert.Equal(t, want, EventTypeForLead(lead), "lead type %q", leadType)
	}
}

func TestEventForLead_Payload(t *testing.T) {
	evt := EventForLead(testLead())

	assert.Equal(t, "Blue Oak Realty Website", evt.Source)
	assert.Equal(t, "Property Inquiry", evt.Type)
	assert.Equal(t, "Jane", evt.Person.FirstName)
	assert.Equal(t, "Doe", evt.Person.LastName)
	require.Len(t, evt.Person.Emails, 1)
	assert.Equal(t, "jane@example.com", evt.Person.Emails[0].Value)
	require.Len(t, evt.Person.Phones, 1)
	assert.Contains(t, evt.Person.Tags, "source:contact-page")
	assert.Contains(t, evt.Person.Tags, "open-house")
	assert.Equal(t, "Interested in the Maple St listing.", evt.Description)
}

func TestEventForLead_OmitsEmptyOptionalFields(t *testing.T) {
	lead := &leads.Lead{FirstName: "Bob", LastName: "Smith", Email: "bob@example.com"}

	evt := EventForLead(lead)

	assert.Nil(t, evt.Person.Phones)
	assert.Nil(t, evt.Person.Tags)
	assert.Empty(t, evt.Description)
}

func TestDeliver_Success(t *testing.T) {
	var got Event
	var authUser, authPass string
	var authOK bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authUser, authPass, authOK = r.BasicAuth()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	res := newTestClient(srv.URL).Deliver(context.Background(), testLead())

	require.True(t, res.Success)
	assert.Empty(t, res.Error)
	assert.True(t, authOK)
	assert.Equal(t, "test-key", authUser)
	assert.Empty(t, authPass)
	assert.Contains(t, got.Person.Tags, "source:contact-page")
}

func TestDeliver_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorMessage":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	res := newTestClient(srv.URL).Deliver(context.Background(), testLead())

	require.False(t, res.Success)
	assert.Contains(t, res.Error, "401")
	assert.Contains(t, res.Error, "invalid api key")
}

func TestDeliver_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	res := newTestClient(srv.URL).Deliver(context.Background(), testLead())

	require.False(t, res.Success)
	assert.Contains(t, res.Error, "follow up boss request")
}
