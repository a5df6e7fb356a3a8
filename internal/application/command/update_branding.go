package command

import (
	"context"

	"github.com/sansa-learn/fee-ledger/internal/domain/institute"
	"github.com/sansa-learn/fee-ledger/pkg/timeutil"
)

// UpdateBrandingCommand replaces the institute branding record. Documents
// already issued are unaffected: their branding was frozen into the
// snapshot at render time.
type UpdateBrandingCommand struct {
	Name          string
	Address       string
	Contact       string
	LogoPath      string
	SignaturePath string
}

// UpdateBrandingHandler handles the UpdateBrandingCommand.
type UpdateBrandingHandler struct {
	branding institute.Repository
}

// NewUpdateBrandingHandler creates a new UpdateBrandingHandler.
func NewUpdateBrandingHandler(branding institute.Repository) *UpdateBrandingHandler {
	return &UpdateBrandingHandler{branding: branding}
}

// Handle applies the branding update.
func (h *UpdateBrandingHandler) Handle(ctx context.Context, cmd UpdateBrandingCommand) (*institute.Branding, error) {
	b := &institute.Branding{
		Name:          cmd.Name,
		Address:       cmd.Address,
		Contact:       cmd.Contact,
		LogoPath:      cmd.LogoPath,
		SignaturePath: cmd.SignaturePath,
		UpdatedAt:     timeutil.Now(),
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	if err := h.branding.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}
