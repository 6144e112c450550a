package company

import (
	"context"
	"fmt"

	"docengine/internal/core/apperror"
	"docengine/internal/core/entity"
	"docengine/internal/core/tenant"
	"docengine/internal/core/tx"
	"docengine/pkg/logger"
	"docengine/pkg/smartnum"
)

// Input carries the editable profile fields. Monetary defaults are free-form.
type Input struct {
	Name               string
	Email              string
	Phone              string
	Address            string
	Website            string
	LogoPath           *string
	SignaturePath      *string
	DefaultTax         string
	DefaultDiscount    string
	DefaultShippingFee string
	CustomCharges      map[string]string
	CurrencyCode       string
	CurrencySymbol     string
}

// Service manages the company profile.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new company profile service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Get returns the caller's profile.
func (s *Service) Get(ctx context.Context) (*Profile, error) {
	if _, err := tenant.RequireOwner(ctx); err != nil {
		return nil, err
	}
	return s.repo.GetByOwner(ctx)
}

// Save creates the profile on first call and updates it afterwards.
func (s *Service) Save(ctx context.Context, in Input) (*Profile, error) {
	owner, err := tenant.RequireOwner(ctx)
	if err != nil {
		return nil, err
	}

	var profile *Profile
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByOwner(ctx)
		switch {
		case err == nil:
			profile = existing
			profile.Touch()
		case apperror.IsNotFound(err):
			profile = NewProfile(owner)
		default:
			return err
		}

		in.applyTo(profile)
		if err := profile.Validate(ctx); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, profile); err != nil {
			return fmt.Errorf("save company profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "company profile saved", "profile_id", profile.ID)
	return profile, nil
}

func (in Input) applyTo(p *Profile) {
	p.Name = in.Name
	p.Email = in.Email
	p.Phone = in.Phone
	p.Address = in.Address
	p.Website = in.Website
	p.LogoPath = in.LogoPath
	p.SignaturePath = in.SignaturePath
	p.DefaultTax = smartnum.Parse(in.DefaultTax)
	p.DefaultDiscount = smartnum.Parse(in.DefaultDiscount)
	p.DefaultShippingFee = smartnum.Parse(in.DefaultShippingFee)

	charges := entity.Attributes{}
	for label, amount := range in.CustomCharges {
		charges[label] = smartnum.Parse(amount).StringFixed(2)
	}
	p.CustomCharges = charges

	if in.CurrencyCode != "" {
		p.CurrencyCode = in.CurrencyCode
	}
	if in.CurrencySymbol != "" {
		p.CurrencySymbol = in.CurrencySymbol
	}
}
