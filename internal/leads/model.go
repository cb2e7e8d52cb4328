package leads

import "strings"

// Lead types recognized by the intake forms. Anything else is treated as
// a general inquiry by adapters that need a default.
const (
	TypeBuyer      = "buyer"
	TypeSeller     = "seller"
	TypeGeneral    = "general"
	TypeRelocation = "relocation"
	TypeCMA        = "cma"
)

// Lead is a normalized contact submission from a site form. It lives for
// one request: the pipeline dispatches it and discards it; durable storage
// belongs to the downstream channels.
type Lead struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone,omitempty"`
	Message   string   `json:"message,omitempty"`
	Source    string   `json:"source,omitempty"`
	LeadType  string   `json:"lead_type,omitempty"`
	Tags      []string `json:"tags,omitempty"`

	// Type-specific optional fields carried through from the forms.
	PropertyInterest string `json:"property_interest,omitempty"`
	PropertyType     string `json:"property_type,omitempty"`
	PriceRange       string `json:"price_range,omitempty"`
	PreferredContact string `json:"preferred_contact,omitempty"`
	Address          string `json:"address,omitempty"`
	CurrentCity      string `json:"current_city,omitempty"`
	Timeline         string `json:"timeline,omitempty"`
	Budget           string `json:"budget,omitempty"`
}

// FullName returns the lead's display name.
func (l *Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// NormalizeLeadType maps an arbitrary lead-type string onto the closed set,
// defaulting to general.
func NormalizeLeadType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case TypeBuyer:
		return TypeBuyer
	case TypeSeller:
		return TypeSeller
	case TypeRelocation:
		return TypeRelocation
	case TypeCMA:
		return TypeCMA
	default:
		return TypeGeneral
	}
}

// Submission is the untrusted request body posted by a site form.
type Submission struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Message   string   `json:"message"`
	Source    string   `json:"source"`
	LeadType  string   `json:"lead_type"`
	Tags      []string `json:"tags"`

	PropertyInterest string `json:"property_interest"`
	PropertyType     string `json:"property_type"`
	PriceRange       string `json:"price_range"`
	PreferredContact string `json:"preferred_contact"`
	Address          string `json:"address"`
	CurrentCity      string `json:"current_city"`
	Timeline         string `json:"timeline"`
	Budget           string `json:"budget"`
}
