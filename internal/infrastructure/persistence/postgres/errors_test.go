package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"github.com/sansa-learn/fee-ledger/internal/domain/shared"
)

func TestStorageErr_MatchesTaxonomy(t *testing.T) {
	err := storageErr("record payment", errors.New("connection refused"))

	assert.True(t, shared.IsStorageUnavailable(err))
	assert.ErrorIs(t, err, shared.ErrStorageUnavailable)
	assert.Contains(t, err.Error(), "record payment")
	assert.Contains(t, err.Error(), "connection refused")

	// Domain outcomes never carry the storage tag.
	assert.False(t, shared.IsStorageUnavailable(shared.ErrObligationNotFound))
	assert.False(t, shared.IsStorageUnavailable(shared.ErrDuplicateObligation))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, IsNoRows(pgx.ErrNoRows))
	assert.False(t, IsNoRows(errors.New("other failure")))
}
