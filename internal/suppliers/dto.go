package suppliers

// SupplierRequest carries a supplier create or full-replace payload.
type SupplierRequest struct {
	Name          string `json:"name" validate:"required,max=120"`
	ContactPerson string `json:"contact_person" validate:"max=120"`
	Phone         string `json:"phone" validate:"max=40"`
	Email         string `json:"email" validate:"omitempty,email"`
}
