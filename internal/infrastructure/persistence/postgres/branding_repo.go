package postgres

import (
	"context"

	"github.com/sansa-learn/fee-ledger/internal/domain/institute"
	"github.com/sansa-learn/fee-ledger/internal/domain/shared"
)

// BrandingRepository implements institute.Repository on the single-row
// institute_info table. The id = 1 check constraint keeps it a singleton.
type BrandingRepository struct {
	conn *Connection
}

// NewBrandingRepository creates a new branding repository.
func NewBrandingRepository(conn *Connection) *BrandingRepository {
	return &BrandingRepository{conn: conn}
}

// Get returns the branding record.
func (r *BrandingRepository) Get(ctx context.Context) (*institute.Branding, error) {
	var b institute.Branding
	err := r.conn.QueryRow(ctx, `
		SELECT name, address, contact, logo_path, signature_path, updated_at
		FROM institute_info WHERE id = 1`).
		Scan(&b.Name, &b.Address, &b.Contact, &b.LogoPath, &b.SignaturePath, &b.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrBrandingNotFound
		}
		return nil, storageErr("get branding", err)
	}
	return &b, nil
}

// Update replaces the branding record, creating it if missing.
func (r *BrandingRepository) Update(ctx context.Context, b *institute.Branding) error {
	_, err := r.conn.Exec(ctx, `
		INSERT INTO institute_info (id, name, address, contact, logo_path, signature_path, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			contact = EXCLUDED.contact,
			logo_path = EXCLUDED.logo_path,
			signature_path = EXCLUDED.signature_path,
			updated_at = EXCLUDED.updated_at`,
		b.Name, b.Address, b.Contact, b.LogoPath, b.SignaturePath, b.UpdatedAt)
	if err != nil {
		return storageErr("update branding", err)
	}
	return nil
}
