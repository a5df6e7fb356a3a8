package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/sansa-learn/fee-ledger/internal/domain/ledger"
	"github.com/sansa-learn/fee-ledger/internal/domain/shared"
	"github.com/sansa-learn/fee-ledger/internal/domain/student"
)

const obligationColumns = `
	id, admission_no, month, year, amount_due::text,
	paid, payment_date, payment_mode, remarks,
	created_at, updated_at`

// LedgerRepository implements ledger.Repository using PostgreSQL. The
// uq_fee_obligations_period constraint carries the one-obligation-per-period
// invariant; paid-state transitions are compare-and-set UPDATEs so two racing
// payment recordings can never both succeed.
type LedgerRepository struct {
	conn *Connection
}

// NewLedgerRepository creates a new ledger repository.
func NewLedgerRepository(conn *Connection) *LedgerRepository {
	return &LedgerRepository{conn: conn}
}

// Create stores a new obligation.
func (r *LedgerRepository) Create(ctx context.Context, o *ledger.Obligation) error {
	_, err := r.conn.Exec(ctx, insertObligationSQL, insertObligationArgs(o)...)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrDuplicateObligation
		}
		if IsForeignKeyViolation(err) {
			return shared.ErrStudentNotFound
		}
		return storageErr("create obligation", err)
	}
	return nil
}

// CreateMissing stores the given obligations in one transaction, skipping any
// whose (student, month, year) slot is already taken. Returns the number
// actually created.
func (r *LedgerRepository) CreateMissing(ctx context.Context, obligations []*ledger.Obligation) (int, error) {
	created := 0
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		for _, o := range obligations {
			tag, err := tx.Exec(ctx, insertObligationSkipSQL, insertObligationArgs(o)...)
			if err != nil {
				if IsForeignKeyViolation(err) {
					return shared.ErrStudentNotFound
				}
				return storageErr(fmt.Sprintf("create obligation for %s %d-%02d",
					o.AdmissionNo, o.Period.Year, o.Period.Month), err)
			}
			created += int(tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// GetByID returns the obligation with the given identifier.
func (r *LedgerRepository) GetByID(ctx context.Context, id uuid.UUID) (*ledger.Obligation, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT `+obligationColumns+` FROM fee_obligations WHERE id = $1`, id)

	o, err := scanObligation(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrObligationNotFound
		}
		return nil, storageErr("get obligation", err)
	}
	return o, nil
}

// GetByPeriod returns the student's obligation for the period.
func (r *LedgerRepository) GetByPeriod(ctx context.Context, no student.AdmissionNumber, p ledger.Period) (*ledger.Obligation, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT `+obligationColumns+` FROM fee_obligations
		 WHERE admission_no = $1 AND year = $2 AND month = $3`,
		no.String(), p.Year, p.Month)

	o, err := scanObligation(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrObligationNotFound
		}
		return nil, storageErr("get obligation", err)
	}
	return o, nil
}

// ListByStudent returns the student's obligations ordered by (year, month).
func (r *LedgerRepository) ListByStudent(ctx context.Context, no student.AdmissionNumber) ([]*ledger.Obligation, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT `+obligationColumns+` FROM fee_obligations
		 WHERE admission_no = $1 ORDER BY year, month`,
		no.String())
	if err != nil {
		return nil, storageErr("list obligations", err)
	}
	defer rows.Close()

	return scanObligations(rows)
}

// ListUnpaidByStudent returns the student's unpaid obligations ordered by
// (year, month).
func (r *LedgerRepository) ListUnpaidByStudent(ctx context.Context, no student.AdmissionNumber) ([]*ledger.Obligation, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT `+obligationColumns+` FROM fee_obligations
		 WHERE admission_no = $1 AND NOT paid ORDER BY year, month`,
		no.String())
	if err != nil {
		return nil, storageErr("list unpaid obligations", err)
	}
	defer rows.Close()

	return scanObligations(rows)
}

// RecordPayment transitions the obligation from unpaid to paid. The UPDATE
// matches only unpaid rows, so of two racing calls exactly one sees a row and
// the loser falls through to the state check below.
func (r *LedgerRepository) RecordPayment(ctx context.Context, id uuid.UUID, details ledger.PaymentDetails, at time.Time) (*ledger.Obligation, error) {
	row := r.conn.QueryRow(ctx, `
		UPDATE fee_obligations
		SET paid = TRUE, payment_date = $2, payment_mode = $3,
		    remarks = CASE WHEN $4 <> '' THEN $4 ELSE remarks END,
		    updated_at = $5
		WHERE id = $1 AND NOT paid
		RETURNING `+obligationColumns,
		id, details.Date, details.Mode, details.Remarks, at)

	o, err := scanObligation(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, r.paidStateError(ctx, id, shared.ErrAlreadyPaid)
		}
		return nil, storageErr("record payment", err)
	}
	return o, nil
}

// ReversePayment clears the paid state and payment metadata.
func (r *LedgerRepository) ReversePayment(ctx context.Context, id uuid.UUID, at time.Time) (*ledger.Obligation, error) {
	row := r.conn.QueryRow(ctx, `
		UPDATE fee_obligations
		SET paid = FALSE, payment_date = NULL, payment_mode = NULL, updated_at = $2
		WHERE id = $1 AND paid
		RETURNING `+obligationColumns,
		id, at)

	o, err := scanObligation(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, r.paidStateError(ctx, id, shared.ErrNotPaid)
		}
		return nil, storageErr("reverse payment", err)
	}
	return o, nil
}

// paidStateError distinguishes "row missing" from "row in the other paid
// state" after a compare-and-set UPDATE matched nothing.
func (r *LedgerRepository) paidStateError(ctx context.Context, id uuid.UUID, stateErr error) error {
	var paid bool
	err := r.conn.QueryRow(ctx,
		`SELECT paid FROM fee_obligations WHERE id = $1`, id).Scan(&paid)
	if err != nil {
		if IsNoRows(err) {
			return shared.ErrObligationNotFound
		}
		return storageErr("check obligation state", err)
	}
	return stateErr
}

// UpdateRemarks replaces the obligation's remarks.
func (r *LedgerRepository) UpdateRemarks(ctx context.Context, id uuid.UUID, remarks string, at time.Time) error {
	tag, err := r.conn.Exec(ctx,
		`UPDATE fee_obligations SET remarks = $2, updated_at = $3 WHERE id = $1`,
		id, remarks, at)
	if err != nil {
		return storageErr("update remarks", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrObligationNotFound
	}
	return nil
}

// TotalsByStudent sums AmountDue over the student's obligations split by
// paid state.
func (r *LedgerRepository) TotalsByStudent(ctx context.Context, no student.AdmissionNumber) (ledger.StudentTotals, error) {
	var paidStr, pendingStr string
	err := r.conn.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount_due) FILTER (WHERE paid), 0)::text,
			COALESCE(SUM(amount_due) FILTER (WHERE NOT paid), 0)::text
		FROM fee_obligations
		WHERE admission_no = $1`,
		no.String()).Scan(&paidStr, &pendingStr)
	if err != nil {
		return ledger.StudentTotals{}, storageErr("total student obligations", err)
	}

	totals := ledger.StudentTotals{}
	if totals.Paid, err = decimal.NewFromString(paidStr); err != nil {
		return ledger.StudentTotals{}, fmt.Errorf("invalid paid total %q: %w", paidStr, err)
	}
	if totals.Pending, err = decimal.NewFromString(pendingStr); err != nil {
		return ledger.StudentTotals{}, fmt.Errorf("invalid pending total %q: %w", pendingStr, err)
	}
	return totals, nil
}

// InstituteTotals sums AmountDue across all students split by paid state.
func (r *LedgerRepository) InstituteTotals(ctx context.Context) (ledger.Summary, error) {
	return r.summarize(ctx, `
		SELECT
			COALESCE(SUM(amount_due) FILTER (WHERE paid), 0)::text,
			COALESCE(SUM(amount_due) FILTER (WHERE NOT paid), 0)::text,
			COUNT(*) FILTER (WHERE paid),
			COUNT(*) FILTER (WHERE NOT paid)
		FROM fee_obligations`)
}

// PeriodTotals sums AmountDue for one calendar period split by paid state.
func (r *LedgerRepository) PeriodTotals(ctx context.Context, p ledger.Period) (ledger.Summary, error) {
	return r.summarize(ctx, `
		SELECT
			COALESCE(SUM(amount_due) FILTER (WHERE paid), 0)::text,
			COALESCE(SUM(amount_due) FILTER (WHERE NOT paid), 0)::text,
			COUNT(*) FILTER (WHERE paid),
			COUNT(*) FILTER (WHERE NOT paid)
		FROM fee_obligations
		WHERE year = $1 AND month = $2`,
		p.Year, p.Month)
}

func (r *LedgerRepository) summarize(ctx context.Context, sql string, args ...interface{}) (ledger.Summary, error) {
	var (
		collectedStr, pendingStr string
		paidCount, pendingCount  int64
	)
	err := r.conn.QueryRow(ctx, sql, args...).
		Scan(&collectedStr, &pendingStr, &paidCount, &pendingCount)
	if err != nil {
		return ledger.Summary{}, storageErr("summarize ledger", err)
	}

	summary := ledger.Summary{
		PaidCount:    int(paidCount),
		PendingCount: int(pendingCount),
	}
	if summary.TotalCollected, err = decimal.NewFromString(collectedStr); err != nil {
		return ledger.Summary{}, fmt.Errorf("invalid collected total %q: %w", collectedStr, err)
	}
	if summary.TotalPending, err = decimal.NewFromString(pendingStr); err != nil {
		return ledger.Summary{}, fmt.Errorf("invalid pending total %q: %w", pendingStr, err)
	}
	return summary, nil
}

// ExportRows returns every obligation joined with student identity, ordered
// by (admission number, year, month).
func (r *LedgerRepository) ExportRows(ctx context.Context) ([]ledger.ExportRow, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT
			o.admission_no, s.name, o.month, o.year, o.amount_due::text, o.paid,
			COALESCE(to_char(o.payment_date, 'YYYY-MM-DD'), ''),
			COALESCE(o.payment_mode, ''),
			o.remarks
		FROM fee_obligations o
		JOIN students s ON s.admission_no = o.admission_no
		ORDER BY o.admission_no, o.year, o.month`)
	if err != nil {
		return nil, storageErr("query export rows", err)
	}
	defer rows.Close()

	var result []ledger.ExportRow
	for rows.Next() {
		var (
			row       ledger.ExportRow
			amountStr string
		)
		err := rows.Scan(
			&row.AdmissionNo, &row.StudentName, &row.Month, &row.Year,
			&amountStr, &row.Paid, &row.PaymentDate, &row.PaymentMode, &row.Remarks,
		)
		if err != nil {
			return nil, storageErr("scan export row", err)
		}
		if row.AmountDue, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", amountStr, err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate export rows", err)
	}
	return result, nil
}

const insertObligationSQL = `
	INSERT INTO fee_obligations (
		id, admission_no, month, year, amount_due,
		paid, payment_date, payment_mode, remarks,
		created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9, $10, $11)`

const insertObligationSkipSQL = insertObligationSQL + `
	ON CONFLICT (admission_no, year, month) DO NOTHING`

func insertObligationArgs(o *ledger.Obligation) []interface{} {
	var (
		paymentDate *time.Time
		paymentMode *string
	)
	if o.Payment != nil {
		paymentDate = &o.Payment.Date
		paymentMode = &o.Payment.Mode
	}
	return []interface{}{
		o.ID, o.AdmissionNo.String(), o.Period.Month, o.Period.Year,
		o.AmountDue.String(), o.Paid(), paymentDate, paymentMode, o.Remarks,
		o.CreatedAt, o.UpdatedAt,
	}
}

func scanObligation(row pgx.Row) (*ledger.Obligation, error) {
	var (
		o           ledger.Obligation
		admissionNo string
		amountStr   string
		paid        bool
		paymentDate *time.Time
		paymentMode *string
	)
	err := row.Scan(
		&o.ID, &admissionNo, &o.Period.Month, &o.Period.Year, &amountStr,
		&paid, &paymentDate, &paymentMode, &o.Remarks,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.AdmissionNo = student.AdmissionNumber(admissionNo)
	if o.AmountDue, err = decimal.NewFromString(amountStr); err != nil {
		return nil, fmt.Errorf("invalid amount_due %q: %w", amountStr, err)
	}
	if paid {
		o.Payment = &ledger.PaymentDetails{Date: *paymentDate, Mode: *paymentMode}
	}
	return &o, nil
}

func scanObligations(rows pgx.Rows) ([]*ledger.Obligation, error) {
	var obligations []*ledger.Obligation
	for rows.Next() {
		o, err := scanObligation(rows)
		if err != nil {
			return nil, storageErr("scan obligation", err)
		}
		obligations = append(obligations, o)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate obligations", err)
	}
	return obligations, nil
}
