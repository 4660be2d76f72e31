// Package search holds the state of the search filter panel: a draft of filter texts that is
// validated and handed to a search callback on submit.
package search

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"gitlab.com/dirk.krummacker/contact-directory/internal/model"
	"gitlab.com/dirk.krummacker/contact-directory/internal/validation"
)

// Alert messages shown when a submitted filter is malformed.
const (
	InvalidEmail = "Invalid email address!"
	InvalidPhone = "Invalid phone number!"
	InvalidDob   = "Invalid birthdate format! Use YYYY-MM-DD."
)

// rules lists the validated fields in the order they are checked.
var rules = []struct {
	field   string
	tag     string
	message string
}{
	{model.Email, "contact_email", InvalidEmail},
	{model.Phone, "contact_phone", InvalidPhone},
	{model.Dob, "iso_date", InvalidDob},
}

// Params maps a field name to its filter text. Missing and empty entries do not filter.
type Params map[string]string

// Empty returns params with every recognized field set to "".
func Empty() Params {
	p := make(Params, len(model.Fields))
	for _, field := range model.Fields {
		p[field] = ""
	}
	return p
}

// Clone returns a copy that can be changed independently.
func (p Params) Clone() Params {
	clone := make(Params, len(p))
	for k, v := range p {
		clone[k] = v
	}
	return clone
}

// Active reports whether at least one filter text is non-empty.
func (p Params) Active() bool {
	for _, v := range p {
		if v != "" {
			return true
		}
	}
	return false
}

// Panel is the search filter panel.
type Panel struct {
	onSearch func(Params)
	alert    func(string)
	validate *validator.Validate

	mu          sync.Mutex
	draft       Params
	moreFilters bool
}

// NewPanel returns a panel with an empty draft. onSearch receives a copy of the draft whenever a
// search is submitted or the filters are reset; alert receives validation failures.
func NewPanel(onSearch func(Params), alert func(string)) *Panel {
	return &Panel{
		onSearch: onSearch,
		alert:    alert,
		validate: validation.New(),
		draft:    Params{},
	}
}

// Set changes the draft text of a field.
func (p *Panel) Set(field string, value string) error {
	if !model.IsField(field) {
		return fmt.Errorf("unknown field %q", field)
	}
	p.mu.Lock()
	p.draft[field] = value
	p.mu.Unlock()
	return nil
}

// Load replaces the whole draft.
func (p *Panel) Load(params Params) error {
	for field := range params {
		if !model.IsField(field) {
			return fmt.Errorf("unknown field %q", field)
		}
	}
	p.mu.Lock()
	p.draft = params.Clone()
	p.mu.Unlock()
	return nil
}

// Value returns the draft text of a field.
func (p *Panel) Value(field string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draft[field]
}

// Draft returns a copy of the draft.
func (p *Panel) Draft() Params {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draft.Clone()
}

// Check returns the alert message for the first malformed field of params, or "" if all
// fields are acceptable.
func (p *Panel) Check(params Params) string {
	for _, rule := range rules {
		value := params[rule.field]
		if value != "" && p.validate.Var(value, rule.tag) != nil {
			return rule.message
		}
	}
	return ""
}

// Submit validates the draft. On the first malformed field it alerts and returns false without
// searching; otherwise it calls the search callback once and returns true.
func (p *Panel) Submit() bool {
	draft := p.Draft()
	if msg := p.Check(draft); msg != "" {
		p.alert(msg)
		return false
	}
	p.onSearch(draft)
	return true
}

// Reset clears every field and then searches with the cleared params.
func (p *Panel) Reset() {
	p.mu.Lock()
	p.draft = Empty()
	draft := p.draft.Clone()
	p.mu.Unlock()
	p.onSearch(draft)
}

// HasActiveFilter reports whether any draft text is non-empty.
func (p *Panel) HasActiveFilter() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draft.Active()
}

// ToggleMoreFilters shows or hides the secondary fields and returns the new visibility. The
// draft is not touched.
func (p *Panel) ToggleMoreFilters() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.moreFilters = !p.moreFilters
	return p.moreFilters
}

// VisibleFields returns the fields to render.
func (p *Panel) VisibleFields() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	fields := append([]string{}, model.PrimaryFields...)
	if p.moreFilters {
		fields = append(fields, model.SecondaryFields...)
	}
	return fields
}
