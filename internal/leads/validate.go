package leads

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	minNameLen    = 2
	maxNameLen    = 100
	maxMessageLen = 2000
	maxFieldLen   = 500
)

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)
	phoneRe = regexp.MustCompile(`^[0-9+\-().\s]+$`)
)

// FieldErrors maps a submission field name to a validation message.
type FieldErrors map[string]string

// ValidateSubmission checks an untrusted submission and, if acceptable,
// returns the normalized Lead. It is pure: no I/O, no logging. On failure
// it returns nil and one message per invalid field; the caller surfaces
// those to the form and must not invoke the pipeline.
func ValidateSubmission(sub Submission) (*Lead, FieldErrors) {
	errs := FieldErrors{}

	firstName := strings.TrimSpace(sub.FirstName)
	if err := checkName(firstName); err != "" {
		errs["first_name"] = err
	}
	lastName := strings.TrimSpace(sub.LastName)
	if err := checkName(lastName); err != "" {
		errs["last_name"] = err
	}

	email := strings.TrimSpace(sub.Email)
	if email == "" {
		errs["email"] = "email is required"
	} else if !emailRe.MatchString(email) {
		errs["email"] = "email address is not valid"
	}

	phone := strings.TrimSpace(sub.Phone)
	if phone != "" && !phoneRe.MatchString(phone) {
		errs["phone"] = "phone may contain only digits, spaces, and + - ( ) ."
	}

	if len(sub.Message) > maxMessageLen {
		errs["message"] = fmt.Sprintf("message must be at most %d characters", maxMessageLen)
	}

	for field, value := range map[string]string{
		"source":            sub.Source,
		"property_interest": sub.PropertyInterest,
		"property_type":     sub.PropertyType,
		"price_range":       sub.PriceRange,
		"preferred_contact": sub.PreferredContact,
		"address":           sub.Address,
		"current_city":      sub.CurrentCity,
		"timeline":          sub.Timeline,
		"budget":            sub.Budget,
	} {
		if len(value) > maxFieldLen {
			errs[field] = fmt.Sprintf("%s must be at most %d characters", field, maxFieldLen)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &Lead{
		FirstName:        firstName,
		LastName:         lastName,
		Email:            email,
		Phone:            phone,
		Message:          strings.TrimSpace(sub.Message),
		Source:           strings.TrimSpace(sub.Source),
		LeadType:         strings.ToLower(strings.TrimSpace(sub.LeadType)),
		Tags:             sub.Tags,
		PropertyInterest: strings.TrimSpace(sub.PropertyInterest),
		PropertyType:     strings.TrimSpace(sub.PropertyType),
		PriceRange:       strings.TrimSpace(sub.PriceRange),
		PreferredContact: strings.TrimSpace(sub.PreferredContact),
		Address:          strings.TrimSpace(sub.Address),
		CurrentCity:      strings.TrimSpace(sub.CurrentCity),
		Timeline:         strings.TrimSpace(sub.Timeline),
		Budget:           strings.TrimSpace(sub.Budget),
	}, nil
}

func checkName(name string) string {
	switch {
	case name == "":
		return "name is required"
	case len(name) < minNameLen:
		return fmt.Sprintf("name must be at least %d characters", minNameLen)
	case len(name) > maxNameLen:
		return fmt.Sprintf("name must be at most %d characters", maxNameLen)
	default:
		return ""
	}
}
