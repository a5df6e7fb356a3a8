// Package institute contains the branding singleton printed on every
// financial document. It is a read-only input to document rendering, owned
// by the settings collaborator.
package institute

import (
	"context"
	"strings"
	"time"

	"github.com/sansa-learn/fee-ledger/internal/domain/shared"
)

// Branding holds the institute identity printed on receipts and demand bills.
type Branding struct {
	// Name is the institute display name, e.g. "SANSA LEARN".
	Name string

	// Address is the postal address line.
	Address string

	// Contact is the contact line (phone numbers).
	Contact string

	// LogoPath is the stored logo file reference (may be empty).
	LogoPath string

	// SignaturePath is the stored signature image reference (may be empty).
	SignaturePath string

	UpdatedAt time.Time
}

// Validate checks that the printable fields are present.
func (b *Branding) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return shared.NewDomainError("institute", "Validate", shared.ErrEmptyValue, "institute name is required")
	}
	return nil
}

// Repository defines persistence for the branding singleton.
type Repository interface {
	// Get returns the branding record, or shared.ErrBrandingNotFound if it
	// was never configured.
	Get(ctx context.Context) (*Branding, error)

	// Update replaces the branding record.
	Update(ctx context.Context, b *Branding) error
}
