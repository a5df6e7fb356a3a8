package document

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/sansa-learn/fee-ledger/pkg/timeutil"
)

// Page layout constants (A4, millimetres).
const (
	pageMargin  = 18.0
	logoSize    = 28.0
	lineHeight  = 6.0
	sigImgW     = 50.0
	sigImgH     = 16.0
	sigBlockTop = 245.0
)

// RenderReceipt renders a receipt snapshot into PDF bytes.
func RenderReceipt(s *ReceiptSnapshot) ([]byte, error) {
	pdf := newPage(s.GeneratedAt, "Fee Receipt")

	drawHeader(pdf, s.Branding, "FEE RECEIPT")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, lineHeight, "Receipt No: "+s.ReceiptNo, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, lineHeight, "Date: "+timeutil.FormatDate(s.PaymentDate), "", 1, "R", false, 0, "")
	drawRule(pdf)

	drawStudentBlock(pdf, s.Student)
	drawRule(pdf)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, lineHeight, "Payment Details:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	indent(pdf)
	pdf.CellFormat(0, lineHeight, fmt.Sprintf("Fee Month: %s %d", timeutil.MonthName(s.Line.Month), s.Line.Year), "", 1, "L", false, 0, "")
	indent(pdf)
	pdf.CellFormat(0, lineHeight, "Amount Paid: Rs. "+s.Line.Amount.StringFixed(2), "", 1, "L", false, 0, "")
	indent(pdf)
	pdf.CellFormat(0, lineHeight, "Payment Mode: "+s.PaymentMode, "", 1, "L", false, 0, "")
	if s.Remarks != "" {
		indent(pdf)
		pdf.CellFormat(0, lineHeight, "Remarks: "+s.Remarks, "", 1, "L", false, 0, "")
	}
	drawRule(pdf)

	drawSignatureBlock(pdf, s.Branding)

	return output(pdf)
}

// RenderDemandBill renders a demand bill snapshot into PDF bytes.
func RenderDemandBill(s *DemandBillSnapshot) ([]byte, error) {
	pdf := newPage(s.GeneratedAt, "Fee Demand Notice")

	drawHeader(pdf, s.Branding, "FEE DEMAND NOTICE")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, lineHeight, "Date: "+timeutil.FormatDate(s.GeneratedAt), "", 1, "R", false, 0, "")
	drawRule(pdf)

	drawStudentBlock(pdf, s.Student)
	drawRule(pdf)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, lineHeight, "Pending Fee Details:", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pageW, _ := pdf.GetPageSize()
	usable := pageW - 2*pageMargin

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(usable*0.4, lineHeight, "Month", "B", 0, "L", false, 0, "")
	pdf.CellFormat(usable*0.3, lineHeight, "Year", "B", 0, "L", false, 0, "")
	pdf.CellFormat(usable*0.3, lineHeight, "Amount (Rs.)", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range s.Outstanding {
		pdf.CellFormat(usable*0.4, lineHeight, timeutil.MonthName(line.Month), "", 0, "L", false, 0, "")
		pdf.CellFormat(usable*0.3, lineHeight, fmt.Sprintf("%d", line.Year), "", 0, "L", false, 0, "")
		pdf.CellFormat(usable*0.3, lineHeight, line.Amount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(usable*0.7, lineHeight, "Total Pending:", "T", 0, "L", false, 0, "")
	pdf.CellFormat(usable*0.3, lineHeight, "Rs. "+s.TotalDue.StringFixed(2), "T", 1, "R", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, lineHeight, "Kindly clear the above pending fees at the earliest.", "", 1, "L", false, 0, "")

	drawSignatureBlock(pdf, s.Branding)

	return output(pdf)
}

// newPage builds the document shell. Both document dates come from the
// snapshot and the catalog is emitted in sorted order; the library defaults
// (wall-clock ModDate, map-order font resources) make byte output vary
// between renders of the same snapshot. Content streams stay uncompressed
// so receipt text is extractable downstream.
func newPage(generatedAt time.Time, title string) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(generatedAt.UTC())
	pdf.SetModificationDate(generatedAt.UTC())
	pdf.SetCatalogSort(true)
	pdf.SetCompression(false)
	pdf.SetTitle(title, false)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()
	return pdf
}

// drawHeader draws the branding block: logo, institute name, address,
// contact, and the document title.
func drawHeader(pdf *fpdf.Fpdf, b BrandingInfo, title string) {
	pageW, _ := pdf.GetPageSize()

	if len(b.LogoPNG) > 0 {
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("branding-logo", opts, bytes.NewReader(b.LogoPNG))
		pdf.ImageOptions("branding-logo", (pageW-logoSize)/2, pageMargin, logoSize, logoSize, false, opts, 0, "")
		pdf.SetY(pageMargin + logoSize + 4)
	}

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, b.Name, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, b.Address, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, "Contact: "+b.Contact, "", 1, "C", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 8, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

// drawStudentBlock draws the student identity section.
func drawStudentBlock(pdf *fpdf.Fpdf, s StudentInfo) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, lineHeight, "Student Details:", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{
		"Admission No: " + s.AdmissionNo,
		"Name: " + s.Name,
		"Father's Name: " + s.FatherName,
		"Class: " + s.Class,
	} {
		indent(pdf)
		pdf.CellFormat(0, lineHeight, line, "", 1, "L", false, 0, "")
	}
}

// drawSignatureBlock draws the fixed-position signature area at the bottom.
func drawSignatureBlock(pdf *fpdf.Fpdf, b BrandingInfo) {
	pdf.SetY(sigBlockTop)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, lineHeight, "For "+b.Name, "", 1, "L", false, 0, "")

	if len(b.SignatureJPEG) > 0 {
		opts := fpdf.ImageOptions{ImageType: "JPG"}
		pdf.RegisterImageOptionsReader("branding-signature", opts, bytes.NewReader(b.SignatureJPEG))
		pdf.ImageOptions("branding-signature", pageMargin, sigBlockTop+lineHeight+2, sigImgW, sigImgH, false, opts, 0, "")
	}

	pdf.SetY(sigBlockTop + lineHeight + sigImgH + 4)
	pdf.CellFormat(0, lineHeight, "Management Signature", "", 1, "L", false, 0, "")
}

// drawRule draws a horizontal separator across the content width.
func drawRule(pdf *fpdf.Fpdf) {
	pdf.Ln(3)
	pageW, _ := pdf.GetPageSize()
	y := pdf.GetY()
	pdf.Line(pageMargin, y, pageW-pageMargin, y)
	pdf.Ln(4)
}

// indent shifts the cursor for detail lines under a section heading.
func indent(pdf *fpdf.Fpdf) {
	pdf.SetX(pageMargin + 6)
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("document: render failed: %w", err)
	}
	return buf.Bytes(), nil
}
