package client

import (
	"context"

	"docengine/internal/core/id"
	"docengine/internal/core/tx"
	"docengine/internal/domain/identity"
	"docengine/pkg/logger"
)

// Input carries the editable client fields.
type Input struct {
	Name          string
	Email         string
	Phone         string
	Address       string
	ContactPerson string
	Notes         string
}

// Service provides business logic for clients.
type Service struct {
	repo      Repository
	identity  *identity.Facade
	txManager tx.Manager
}

// NewService creates a new client service.
func NewService(repo Repository, identity *identity.Facade, txManager tx.Manager) *Service {
	return &Service{repo: repo, identity: identity, txManager: txManager}
}

// Create adds a client; the caller must have a company profile.
func (s *Service) Create(ctx context.Context, in Input) (*Client, error) {
	profile, err := s.identity.RequireCompany(ctx)
	if err != nil {
		return nil, err
	}

	c := NewClient(profile.OwnerID, profile.ID)
	in.applyTo(c)
	if err := c.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	logger.Info(ctx, "client created", "client_id", c.ID)
	return c, nil
}

// Update edits one of the caller's clients.
func (s *Service) Update(ctx context.Context, clientID id.ID, in Input) (*Client, error) {
	var c *Client
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		c, err = s.repo.GetByID(ctx, clientID)
		if err != nil {
			return err
		}
		in.applyTo(c)
		if err := c.Validate(ctx); err != nil {
			return err
		}
		c.Touch()
		return s.repo.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID returns one of the caller's clients.
func (s *Service) GetByID(ctx context.Context, clientID id.ID) (*Client, error) {
	return s.repo.GetByID(ctx, clientID)
}

// Delete removes a client. Documents keep their inline client fields.
func (s *Service) Delete(ctx context.Context, clientID id.ID) error {
	return s.repo.Delete(ctx, clientID)
}

// List searches the caller's clients.
func (s *Service) List(ctx context.Context, search string) ([]*Client, error) {
	if _, err := s.identity.Owner(ctx); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, search)
}

func (in Input) applyTo(c *Client) {
	c.Name = in.Name
	c.Email = in.Email
	c.Phone = in.Phone
	c.Address = in.Address
	c.ContactPerson = in.ContactPerson
	c.Notes = in.Notes
}
