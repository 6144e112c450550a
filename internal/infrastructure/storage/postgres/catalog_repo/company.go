package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"docengine/internal/core/apperror"
	"docengine/internal/domain/catalogs/company"
	"docengine/internal/infrastructure/storage/postgres"
)

// CompanyRepo implements company.Repository.
type CompanyRepo struct {
	*BaseOwnedRepo[*company.Profile]
}

// NewCompanyRepo creates a new company profile repository.
func NewCompanyRepo(txm *postgres.TxManager) *CompanyRepo {
	return &CompanyRepo{
		BaseOwnedRepo: NewBaseOwnedRepo(txm, "company_profiles", "company profile",
			func() *company.Profile { return &company.Profile{} }),
	}
}

// GetByOwner returns the profile of the operator in ctx.
func (r *CompanyRepo) GetByOwner(ctx context.Context) (*company.Profile, error) {
	return r.GetOne(ctx, squirrel.Expr("TRUE"), "owner")
}

// Save updates the profile row, inserting it on first save.
func (r *CompanyRepo) Save(ctx context.Context, p *company.Profile) error {
	err := r.UpdateRow(ctx, p, p.ID, p.Name)
	if apperror.IsNotFound(err) {
		return r.Insert(ctx, p, p.Name)
	}
	return err
}

var _ company.Repository = (*CompanyRepo)(nil)
