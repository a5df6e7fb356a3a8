// Package document renders frozen ledger snapshots into fixed-layout PDF
// documents (payment receipts and demand bills). Rendering is a pure function
// of a snapshot: it never reads the live ledger, and two renders of the same
// snapshot produce byte-identical output.
package document

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sansa-learn/fee-ledger/internal/domain/institute"
	"github.com/sansa-learn/fee-ledger/internal/domain/ledger"
	"github.com/sansa-learn/fee-ledger/internal/domain/shared"
	"github.com/sansa-learn/fee-ledger/internal/domain/student"
)

// StudentInfo is the frozen student identity printed on a document.
type StudentInfo struct {
	AdmissionNo string
	Name        string
	FatherName  string
	Class       string
}

// BrandingInfo is the frozen institute identity printed on a document.
// Image bytes are captured at snapshot time so later logo changes never
// alter an already-issued document.
type BrandingInfo struct {
	Name    string
	Address string
	Contact string

	// LogoPNG is the institute logo, PNG-encoded (nil to omit).
	LogoPNG []byte

	// SignatureJPEG is the management signature image, JPEG-encoded
	// (nil to fall back to the printed signature placeholder).
	SignatureJPEG []byte
}

// ObligationLine is one frozen ledger row on a document.
type ObligationLine struct {
	Month  int
	Year   int
	Amount decimal.Decimal
}

// ReceiptSnapshot is the immutable input for rendering a payment receipt:
// exactly one paid obligation plus branding, frozen at snapshot time.
type ReceiptSnapshot struct {
	Student   StudentInfo
	Branding  BrandingInfo
	ReceiptNo string
	Line      ObligationLine

	PaymentDate time.Time
	PaymentMode string
	Remarks     string

	// GeneratedAt is part of the frozen inputs; it becomes the document's
	// creation date.
	GeneratedAt time.Time
}

// DemandBillSnapshot is the immutable input for rendering a demand bill:
// a student's unpaid obligations in (year, month) order plus branding.
type DemandBillSnapshot struct {
	Student     StudentInfo
	Branding    BrandingInfo
	Outstanding []ObligationLine
	TotalDue    decimal.Decimal
	GeneratedAt time.Time
}

// NewReceiptSnapshot freezes a paid obligation into a receipt snapshot.
// Fails with shared.ErrReceiptUnpaid for an unpaid obligation: receipts are
// proof of payment and must never be generatable for money not received.
func NewReceiptSnapshot(stu *student.Student, o *ledger.Obligation, b *institute.Branding, logoPNG, signatureJPEG []byte, generatedAt time.Time) (*ReceiptSnapshot, error) {
	if !o.Paid() {
		return nil, shared.ErrReceiptUnpaid
	}

	return &ReceiptSnapshot{
		Student:   freezeStudent(stu),
		Branding:  freezeBranding(b, logoPNG, signatureJPEG),
		ReceiptNo: o.ReceiptNumber(),
		Line: ObligationLine{
			Month:  o.Period.Month,
			Year:   o.Period.Year,
			Amount: o.AmountDue,
		},
		PaymentDate: o.Payment.Date,
		PaymentMode: o.Payment.Mode,
		Remarks:     o.Remarks,
		GeneratedAt: generatedAt,
	}, nil
}

// NewDemandBillSnapshot freezes a student's unpaid obligations into a demand
// bill snapshot. Fails with shared.ErrNoOutstandingBalance if there is
// nothing outstanding rather than emitting an empty document.
func NewDemandBillSnapshot(stu *student.Student, unpaid []*ledger.Obligation, b *institute.Branding, logoPNG, signatureJPEG []byte, generatedAt time.Time) (*DemandBillSnapshot, error) {
	if len(unpaid) == 0 {
		return nil, shared.ErrNoOutstandingBalance
	}

	lines := make([]ObligationLine, 0, len(unpaid))
	total := decimal.Zero
	for _, o := range unpaid {
		if o.Paid() {
			continue
		}
		lines = append(lines, ObligationLine{
			Month:  o.Period.Month,
			Year:   o.Period.Year,
			Amount: o.AmountDue,
		})
		total = total.Add(o.AmountDue)
	}
	if len(lines) == 0 {
		return nil, shared.ErrNoOutstandingBalance
	}

	return &DemandBillSnapshot{
		Student:     freezeStudent(stu),
		Branding:    freezeBranding(b, logoPNG, signatureJPEG),
		Outstanding: lines,
		TotalDue:    total,
		GeneratedAt: generatedAt,
	}, nil
}

func freezeStudent(stu *student.Student) StudentInfo {
	return StudentInfo{
		AdmissionNo: stu.AdmissionNo.String(),
		Name:        stu.Name,
		FatherName:  stu.FatherName,
		Class:       stu.Class,
	}
}

func freezeBranding(b *institute.Branding, logoPNG, signatureJPEG []byte) BrandingInfo {
	info := BrandingInfo{
		Name:    b.Name,
		Address: b.Address,
		Contact: b.Contact,
	}
	if len(logoPNG) > 0 {
		info.LogoPNG = append([]byte(nil), logoPNG...)
	}
	if len(signatureJPEG) > 0 {
		info.SignatureJPEG = append([]byte(nil), signatureJPEG...)
	}
	return info
}
