package api

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// QueryParams is the validated and normalized form of a /weather query.
// Every check runs independently so a single response can enumerate every
// violation at once.
type QueryParams struct {
	City  string
	From  string
	To    string
	Page  int
	Limit int

	violations []string
}

// IsValid is true iff validation collected zero violations.
func (p *QueryParams) IsValid() bool {
	return len(p.violations) == 0
}

// ErrorMessage joins all collected violation messages in order.
func (p *QueryParams) ErrorMessage() string {
	return strings.Join(p.violations, " ")
}

// Violations returns the collected messages, mainly for tests.
func (p *QueryParams) Violations() []string {
	return p.violations
}

// ValidateQueryParams checks a raw /weather query against required-ness,
// type and ordering constraints. No check short-circuits another. Dates are
// compared lexicographically, which is ordering-correct for YYYY-MM-DD.
func ValidateQueryParams(values url.Values) QueryParams {
	p := QueryParams{Page: defaultPage, Limit: defaultLimit}

	p.City = strings.TrimSpace(values.Get("city"))
	if p.City == "" {
		p.violations = append(p.violations, `"city" parameter is required.`)
	}

	p.From = strings.TrimSpace(values.Get("from"))
	if p.From == "" {
		p.violations = append(p.violations, `"from" parameter is required.`)
	}

	p.To = strings.TrimSpace(values.Get("to"))
	if p.To == "" {
		p.violations = append(p.violations, `"to" parameter is required.`)
	}

	if p.From > p.To {
		p.violations = append(p.violations, `"from" date needs to be before the "to" date.`)
	}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			p.violations = append(p.violations, `"page" parameter needs to be an integer.`)
		} else {
			// Non-positive values clamp to 1 rather than failing.
			p.Page = max(1, page)
		}
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			p.violations = append(p.violations, `"limit" parameter needs to be an integer.`)
		} else {
			p.Limit = max(1, limit)
		}
	}

	return p
}
