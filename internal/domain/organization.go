package domain

import (
	"time"

	"github.com/google/uuid"
)

// Organization represents a known company in the directory. The engine only
// reads organizations; the company-management subsystem owns them.
type Organization struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Aliases     []string  `json:"aliases,omitempty"`
	Identifiers []string  `json:"identifiers,omitempty"`
	Keywords    []string  `json:"keywords,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewOrganization creates a new organization with immutable pattern
func NewOrganization(name string, aliases, identifiers []string) Organization {
	now := time.Now()
	return Organization{
		ID:          uuid.New(),
		Name:        name,
		Aliases:     append([]string(nil), aliases...),
		Identifiers: append([]string(nil), identifiers...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// WithAliases returns a new organization with updated aliases
func (o Organization) WithAliases(aliases []string) Organization {
	updated := o
	updated.Aliases = append([]string(nil), aliases...)
	updated.UpdatedAt = time.Now()
	return updated
}

// WithKeywords returns a new organization with derived keywords attached
func (o Organization) WithKeywords(keywords []string) Organization {
	updated := o
	updated.Keywords = append([]string(nil), keywords...)
	return updated
}
