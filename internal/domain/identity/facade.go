// Package identity resolves who owns a request: the operator and, when the
// operation needs it, the operator's company profile.
package identity

import (
	"context"

	"docengine/internal/core/apperror"
	"docengine/internal/core/id"
	"docengine/internal/core/tenant"
	"docengine/internal/domain/catalogs/company"
)

// ProfileLookup finds the profile of the operator in ctx.
type ProfileLookup interface {
	GetByOwner(ctx context.Context) (*company.Profile, error)
}

// Facade is the single entry point for tenant resolution.
type Facade struct {
	profiles ProfileLookup
}

// NewFacade creates a facade backed by the company profile store.
func NewFacade(profiles ProfileLookup) *Facade {
	return &Facade{profiles: profiles}
}

// Owner returns the authenticated operator or AuthRequired.
func (f *Facade) Owner(ctx context.Context) (id.ID, error) {
	return tenant.RequireOwner(ctx)
}

// Company returns the operator's profile, or nil when none exists yet.
func (f *Facade) Company(ctx context.Context) (*company.Profile, error) {
	if _, err := tenant.RequireOwner(ctx); err != nil {
		return nil, err
	}
	p, err := f.profiles.GetByOwner(ctx)
	if apperror.IsNotFound(err) {
		return nil, nil
	}
	return p, err
}

// RequireCompany returns the operator's profile or PreconditionMissing.
func (f *Facade) RequireCompany(ctx context.Context) (*company.Profile, error) {
	p, err := f.Company(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NewPreconditionMissing("company profile").
			WithDetail("setup", "/api/v1/company")
	}
	return p, nil
}
