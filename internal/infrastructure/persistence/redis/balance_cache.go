package redis

import (
	"context"
	"fmt"

	"github.com/sansa-learn/fee-ledger/internal/domain/ledger"
	"github.com/sansa-learn/fee-ledger/internal/domain/student"
	"github.com/sansa-learn/fee-ledger/pkg/logger"
)

// BalanceCache caches aggregate totals keyed by the ledger version. Keys
// embed the version they were computed against, so bumping the version
// orphans every older entry in one INCR; the TTL garbage-collects them.
//
// It implements both the read side (query.BalanceCache) and the write side
// (ledger.VersionStore). Every method degrades to a miss or a no-op when
// Redis is down or never configured (nil inner cache): callers recompute from
// PostgreSQL and get the same answer.
type BalanceCache struct {
	cache *Cache
	log   *logger.Logger
}

// NewBalanceCache creates a new BalanceCache.
func NewBalanceCache(cache *Cache, log *logger.Logger) *BalanceCache {
	return &BalanceCache{cache: cache, log: log}
}

// Version returns the current ledger version, or 0 when Redis is
// unreachable. Version 0 entries are written with the same best-effort
// semantics, so a flapping connection only costs recomputation.
func (b *BalanceCache) Version(ctx context.Context) int64 {
	if b.cache == nil {
		return 0
	}

	val, err := b.cache.GetString(ctx, KeyLedgerVersion)
	if err != nil {
		return 0
	}

	var version int64
	if _, err := fmt.Sscanf(val, "%d", &version); err != nil {
		return 0
	}
	return version
}

// Current implements ledger.VersionStore.
func (b *BalanceCache) Current(ctx context.Context) (int64, error) {
	return b.Version(ctx), nil
}

// Bump increments and returns the ledger version, invalidating every cached
// aggregate at once.
func (b *BalanceCache) Bump(ctx context.Context) (int64, error) {
	if b.cache == nil {
		return 0, nil
	}

	version, err := b.cache.Incr(ctx, KeyLedgerVersion)
	if err != nil {
		return 0, fmt.Errorf("failed to bump ledger version: %w", err)
	}
	return version, nil
}

// StudentTotals returns cached totals for (version, student), if any.
func (b *BalanceCache) StudentTotals(ctx context.Context, version int64, no student.AdmissionNumber) (ledger.StudentTotals, bool) {
	if b.cache == nil {
		return ledger.StudentTotals{}, false
	}

	var totals ledger.StudentTotals
	if err := b.cache.Get(ctx, studentTotalsKey(version, no), &totals); err != nil {
		return ledger.StudentTotals{}, false
	}
	return totals, true
}

// PutStudentTotals caches totals for (version, student). Best effort.
func (b *BalanceCache) PutStudentTotals(ctx context.Context, version int64, no student.AdmissionNumber, totals ledger.StudentTotals) {
	if b.cache == nil {
		return
	}
	if err := b.cache.Set(ctx, studentTotalsKey(version, no), totals, TTLBalance); err != nil {
		b.log.Debug("balance cache write skipped",
			logger.Component("balance_cache"),
			logger.AdmissionNo(no.String()),
			logger.Err(err))
	}
}

// Summary returns a cached institute-wide summary for (version, key).
func (b *BalanceCache) Summary(ctx context.Context, version int64, key string) (ledger.Summary, bool) {
	if b.cache == nil {
		return ledger.Summary{}, false
	}

	var summary ledger.Summary
	if err := b.cache.Get(ctx, summaryKey(version, key), &summary); err != nil {
		return ledger.Summary{}, false
	}
	return summary, true
}

// PutSummary caches a summary for (version, key). Best effort.
func (b *BalanceCache) PutSummary(ctx context.Context, version int64, key string, s ledger.Summary) {
	if b.cache == nil {
		return
	}
	if err := b.cache.Set(ctx, summaryKey(version, key), s, TTLBalance); err != nil {
		b.log.Debug("summary cache write skipped",
			logger.Component("balance_cache"),
			logger.Err(err))
	}
}

func studentTotalsKey(version int64, no student.AdmissionNumber) string {
	return fmt.Sprintf("%sv%d:student:%s", PrefixBalance, version, no)
}

func summaryKey(version int64, key string) string {
	return fmt.Sprintf("%sv%d:%s", PrefixBalance, version, key)
}
