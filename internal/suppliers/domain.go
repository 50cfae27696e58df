package suppliers

import (
	"errors"
	"time"
)

// Supplier is a vendor the bakery buys raw material from. Adjustments
// reference suppliers by ID; deleting a supplier leaves those references
// dangling on purpose, history is append-only.
type Supplier struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateSupplierInput describes a new vendor registration.
type CreateSupplierInput struct {
	Name          string
	ContactPerson string
	Phone         string
	Email         string
}

// ErrSupplierNotFound indicates the requested supplier does not exist.
var ErrSupplierNotFound = errors.New("suppliers: supplier not found")
