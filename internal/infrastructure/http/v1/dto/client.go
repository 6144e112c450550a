package dto

import (
	"docengine/internal/domain/catalogs/client"
)

// ClientRequest creates or edits a client.
type ClientRequest struct {
	Name          string `json:"name" form:"name" validate:"required,max=200"`
	Email         string `json:"email" form:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" form:"phone" validate:"max=50"`
	Address       string `json:"address" form:"address"`
	ContactPerson string `json:"contactPerson" form:"contactPerson" validate:"max=200"`
	Notes         string `json:"notes" form:"notes"`
}

// ToInput converts to the domain input.
func (r *ClientRequest) ToInput() client.Input {
	return client.Input{
		Name:          r.Name,
		Email:         r.Email,
		Phone:         r.Phone,
		Address:       r.Address,
		ContactPerson: r.ContactPerson,
		Notes:         r.Notes,
	}
}
