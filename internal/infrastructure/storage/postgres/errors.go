package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"docengine/internal/core/apperror"
	"docengine/internal/core/numerator"
)

// Postgres SQLSTATE codes handled by the repositories.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Constraint names declared in db/migrations.
const (
	ConstraintDocumentNumber    = "documents_owner_type_number_key"
	ConstraintTemplateName      = "templates_owner_type_name_key"
	ConstraintTemplateDefault   = "templates_one_default_idx"
	ConstraintBankAccountNumber = "bank_accounts_company_number_key"
	ConstraintBankDefault       = "bank_accounts_one_default_idx"
	ConstraintUserEmail         = "users_email_key"
	ConstraintCompanyOwner      = "company_profiles_owner_key"
)

// UniqueViolation returns the violated constraint name, if err is a 23505.
func UniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// IsForeignKeyViolation reports whether err is a 23503.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation
}

// MapError translates driver errors into the domain taxonomy.
// entity and key describe the row for NotFound and duplicate messages.
func MapError(err error, entity, key string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NewNotFound(entity, key)
	}
	if constraint, ok := UniqueViolation(err); ok {
		switch constraint {
		case ConstraintDocumentNumber:
			return fmt.Errorf("%w: %s", numerator.ErrCollision, key)
		case ConstraintTemplateName:
			return apperror.NewDuplicateName(entity, key).WithCause(err)
		case ConstraintBankAccountNumber:
			return apperror.NewDuplicateAccountNumber(key).WithCause(err)
		case ConstraintUserEmail:
			return apperror.NewFieldError("email", "email already registered").WithCause(err)
		case ConstraintTemplateDefault, ConstraintBankDefault, ConstraintCompanyOwner:
			return apperror.NewConflict("concurrent update, please retry").
				WithDetail("constraint", constraint).
				WithCause(err)
		}
		return apperror.NewConflict(entity + " already exists").WithCause(err)
	}
	if IsForeignKeyViolation(err) {
		return apperror.NewConflict(entity + " is referenced by other records").WithCause(err)
	}
	return fmt.Errorf("%s: %w", entity, err)
}
