// Package client provides the customer directory of a company.
package client

import (
	"context"
	"net/mail"
	"strings"

	"docengine/internal/core/apperror"
	"docengine/internal/core/entity"
	"docengine/internal/core/id"
)

// Client is a customer documents are addressed to.
type Client struct {
	entity.OwnedEntity

	CompanyID     id.ID  `db:"company_id" json:"companyId"`
	Name          string `db:"name" json:"name"`
	Email         string `db:"email" json:"email"`
	Phone         string `db:"phone" json:"phone"`
	Address       string `db:"address" json:"address"`
	ContactPerson string `db:"contact_person" json:"contactPerson"`
	Notes         string `db:"notes" json:"notes"`
	CreatedBy     id.ID  `db:"created_by" json:"createdBy"`
}

// NewClient creates a client of the given company.
func NewClient(owner, companyID id.ID) *Client {
	return &Client{
		OwnedEntity: entity.NewOwnedEntity(owner),
		CompanyID:   companyID,
		CreatedBy:   owner,
	}
}

// Validate implements entity.Validatable.
func (c *Client) Validate(_ context.Context) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)

	fields := map[string]string{}
	if c.Name == "" {
		fields["name"] = "name is required"
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			fields["email"] = "invalid email address"
		}
	}
	if len(fields) > 0 {
		return apperror.NewFieldValidation(fields)
	}
	return nil
}
