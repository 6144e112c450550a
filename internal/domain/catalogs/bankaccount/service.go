package bankaccount

import (
	"context"
	"fmt"

	"docengine/internal/core/id"
	"docengine/internal/core/tx"
	"docengine/internal/domain/identity"
	"docengine/pkg/logger"
)

// Input carries the editable account fields.
type Input struct {
	BankName      string
	AccountName   string
	AccountNumber string
	IsDefault     bool
}

// Service manages bank accounts and the single-default rule.
type Service struct {
	repo      Repository
	identity  *identity.Facade
	txManager tx.Manager
}

// NewService creates a new bank account service.
func NewService(repo Repository, identity *identity.Facade, txManager tx.Manager) *Service {
	return &Service{repo: repo, identity: identity, txManager: txManager}
}

// Create adds an account to the caller's company. The first account of a
// company becomes its default.
func (s *Service) Create(ctx context.Context, in Input) (*BankAccount, error) {
	profile, err := s.identity.RequireCompany(ctx)
	if err != nil {
		return nil, err
	}

	acc := NewBankAccount(profile.OwnerID, profile.ID)
	in.applyTo(acc)
	if err := acc.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.ListByCompany(ctx, profile.ID)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			acc.IsDefault = true
		}
		if acc.IsDefault {
			if err := s.repo.ClearDefault(ctx, profile.ID, acc.ID); err != nil {
				return fmt.Errorf("clear default bank account: %w", err)
			}
		}
		return s.repo.Create(ctx, acc)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "bank account created", "account_id", acc.ID, "is_default", acc.IsDefault)
	return acc, nil
}

// Update edits an account; setting IsDefault clears the previous default.
func (s *Service) Update(ctx context.Context, accountID id.ID, in Input) (*BankAccount, error) {
	var acc *BankAccount
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		acc, err = s.repo.GetByID(ctx, accountID)
		if err != nil {
			return err
		}
		in.applyTo(acc)
		if err := acc.Validate(ctx); err != nil {
			return err
		}
		acc.Touch()
		if acc.IsDefault {
			if err := s.repo.ClearDefault(ctx, acc.CompanyID, acc.ID); err != nil {
				return fmt.Errorf("clear default bank account: %w", err)
			}
		}
		return s.repo.Update(ctx, acc)
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// SetDefault makes accountID the company's only default account.
func (s *Service) SetDefault(ctx context.Context, accountID id.ID) (*BankAccount, error) {
	var acc *BankAccount
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		acc, err = s.repo.GetByID(ctx, accountID)
		if err != nil {
			return err
		}
		if err := s.repo.ClearDefault(ctx, acc.CompanyID, acc.ID); err != nil {
			return err
		}
		acc.IsDefault = true
		acc.Touch()
		return s.repo.Update(ctx, acc)
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// GetByID returns one of the caller's accounts.
func (s *Service) GetByID(ctx context.Context, accountID id.ID) (*BankAccount, error) {
	return s.repo.GetByID(ctx, accountID)
}

// Delete removes an account. No other account is promoted automatically.
func (s *Service) Delete(ctx context.Context, accountID id.ID) error {
	return s.repo.Delete(ctx, accountID)
}

// List returns the accounts of the caller's company; empty without a profile.
func (s *Service) List(ctx context.Context) ([]*BankAccount, error) {
	profile, err := s.identity.Company(ctx)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return []*BankAccount{}, nil
	}
	return s.repo.ListByCompany(ctx, profile.ID)
}

func (in Input) applyTo(b *BankAccount) {
	b.BankName = in.BankName
	b.AccountName = in.AccountName
	b.AccountNumber = in.AccountNumber
	b.IsDefault = in.IsDefault
}
