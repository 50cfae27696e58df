package suppliers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/padoca-erp/padoca-erp/internal/shared"
)

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service coordinates supplier operations.
type Service struct {
	repo  Repository
	audit AuditPort
}

// NewService builds Service.
func NewService(repo Repository, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit}
}

// Create registers a new supplier.
func (s *Service) Create(ctx context.Context, input CreateSupplierInput) (Supplier, error) {
	if strings.TrimSpace(input.Name) == "" {
		return Supplier{}, fmt.Errorf("suppliers: name required")
	}
	now := time.Now().UTC()
	supplier := Supplier{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(input.Name),
		ContactPerson: input.ContactPerson,
		Phone:         input.Phone,
		Email:         input.Email,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Insert(ctx, supplier); err != nil {
		return Supplier{}, err
	}
	s.recordAudit(ctx, "suppliers:created", supplier.ID, map[string]any{"name": supplier.Name})
	return supplier, nil
}

// Update replaces the stored record matching supplier.ID in full.
func (s *Service) Update(ctx context.Context, supplier Supplier) (Supplier, error) {
	if strings.TrimSpace(supplier.Name) == "" {
		return Supplier{}, fmt.Errorf("suppliers: name required")
	}
	current, err := s.repo.Get(ctx, supplier.ID)
	if err != nil {
		return Supplier{}, err
	}
	supplier.CreatedAt = current.CreatedAt
	supplier.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, supplier); err != nil {
		return Supplier{}, err
	}
	s.recordAudit(ctx, "suppliers:updated", supplier.ID, map[string]any{"name": supplier.Name})
	return supplier, nil
}

// Delete removes a supplier. Adjustment history keeps its supplier IDs;
// lookups against a deleted supplier simply miss.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, "suppliers:deleted", id, nil)
	return nil
}

// List returns suppliers, newest first.
func (s *Service) List(ctx context.Context) ([]Supplier, error) {
	return s.repo.List(ctx)
}

// Get fetches one supplier by ID.
func (s *Service) Get(ctx context.Context, id string) (Supplier, error) {
	if id == "" {
		return Supplier{}, ErrSupplierNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) recordAudit(ctx context.Context, action, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		Action:   action,
		Entity:   "supplier",
		EntityID: entityID,
		Meta:     meta,
	})
}
