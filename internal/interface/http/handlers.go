package http

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/sansa-learn/fee-ledger/internal/application/command"
	"github.com/sansa-learn/fee-ledger/internal/application/query"
	"github.com/sansa-learn/fee-ledger/internal/document"
	"github.com/sansa-learn/fee-ledger/internal/domain/ledger"
	"github.com/sansa-learn/fee-ledger/internal/domain/student"
	"github.com/sansa-learn/fee-ledger/pkg/logger"
	"github.com/sansa-learn/fee-ledger/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// DTOs
// ══════════════════════════════════════════════════════════════════════════════

type studentDTO struct {
	AdmissionNo   string          `json:"admission_no"`
	Name          string          `json:"name"`
	FatherName    string          `json:"father_name"`
	Class         string          `json:"class"`
	Mobile        string          `json:"mobile"`
	FeePerMonth   decimal.Decimal `json:"fee_per_month"`
	Discount      decimal.Decimal `json:"discount"`
	AdmissionDate string          `json:"admission_date"`
	Active        bool            `json:"active"`
}

func toStudentDTO(s *student.Student) studentDTO {
	return studentDTO{
		AdmissionNo:   s.AdmissionNo.String(),
		Name:          s.Name,
		FatherName:    s.FatherName,
		Class:         s.Class,
		Mobile:        s.Mobile,
		FeePerMonth:   s.FeePerMonth,
		Discount:      s.Discount,
		AdmissionDate: timeutil.FormatDate(s.AdmissionDate),
		Active:        s.Active,
	}
}

type obligationDTO struct {
	ID          string          `json:"id"`
	AdmissionNo string          `json:"admission_no"`
	Month       int             `json:"month"`
	MonthName   string          `json:"month_name"`
	Year        int             `json:"year"`
	AmountDue   decimal.Decimal `json:"amount_due"`
	Paid        bool            `json:"paid"`
	PaymentDate string          `json:"payment_date,omitempty"`
	PaymentMode string          `json:"payment_mode,omitempty"`
	Remarks     string          `json:"remarks,omitempty"`
}

func toObligationDTO(o *ledger.Obligation) obligationDTO {
	dto := obligationDTO{
		ID:          o.ID.String(),
		AdmissionNo: o.AdmissionNo.String(),
		Month:       o.Period.Month,
		MonthName:   timeutil.MonthName(o.Period.Month),
		Year:        o.Period.Year,
		AmountDue:   o.AmountDue,
		Paid:        o.Paid(),
		Remarks:     o.Remarks,
	}
	if o.Payment != nil {
		dto.PaymentDate = timeutil.FormatDate(o.Payment.Date)
		dto.PaymentMode = o.Payment.Mode
	}
	return dto
}

type totalsDTO struct {
	Paid    decimal.Decimal `json:"paid"`
	Pending decimal.Decimal `json:"pending"`
}

type summaryDTO struct {
	TotalCollected decimal.Decimal `json:"total_collected"`
	TotalPending   decimal.Decimal `json:"total_pending"`
	PaidCount      int             `json:"paid_count"`
	PendingCount   int             `json:"pending_count"`
}

func toSummaryDTO(s ledger.Summary) summaryDTO {
	return summaryDTO{
		TotalCollected: s.TotalCollected,
		TotalPending:   s.TotalPending,
		PaidCount:      s.PaidCount,
		PendingCount:   s.PendingCount,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}
	healthy := true

	if s.deps.Database != nil {
		if err := s.deps.Database.Ping(r.Context()); err != nil {
			checks["database"] = err.Error()
			healthy = false
		} else {
			checks["database"] = "ok"
		}
	}
	// Cache is optional: report but never fail readiness on it.
	if s.deps.Cache != nil {
		if err := s.deps.Cache.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded: " + err.Error()
		} else {
			checks["cache"] = "ok"
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, checks)
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	if s.config.AdminPasswordHash == "" {
		writeJSONError(w, http.StatusNotFound, "auth_disabled", "Authentication is not configured")
		return
	}

	if req.Username != s.config.AdminUsername ||
		bcrypt.CompareHashAndPassword([]byte(s.config.AdminPasswordHash), []byte(req.Password)) != nil {
		writeJSONError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
		return
	}

	token, err := s.deps.Sessions.Create(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_in"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		s.deps.Sessions.Destroy(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// ══════════════════════════════════════════════════════════════════════════════
// DASHBOARD
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := s.deps.Dashboard.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"student_count": summary.StudentCount,
		"current_month": toSummaryDTO(summary.CurrentMonth),
		"all_time":      toSummaryDTO(summary.AllTime),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")

	students, err := s.deps.ListStudents.Handle(r.Context(), search)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	type item struct {
		studentDTO
		Totals totalsDTO `json:"totals"`
	}
	items := make([]item, 0, len(students))
	for _, sw := range students {
		items = append(items, item{
			studentDTO: toStudentDTO(sw.Student),
			Totals:     totalsDTO{Paid: sw.Totals.Paid, Pending: sw.Totals.Pending},
		})
	}
	writeJSON(w, http.StatusOK, items)
}

type studentRequest struct {
	Name          string          `json:"name"`
	FatherName    string          `json:"father_name"`
	Class         string          `json:"class"`
	Mobile        string          `json:"mobile"`
	FeePerMonth   decimal.Decimal `json:"fee_per_month"`
	Discount      decimal.Decimal `json:"discount"`
	AdmissionDate string          `json:"admission_date"`
	Active        *bool           `json:"active,omitempty"`
}

func (s *Server) handleRegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req studentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	admissionDate, err := parseDate(req.AdmissionDate)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "admission_date must be YYYY-MM-DD")
		return
	}

	result, err := s.deps.RegisterStudent.Handle(r.Context(), command.RegisterStudentCommand{
		Name:          req.Name,
		FatherName:    req.FatherName,
		Class:         req.Class,
		Mobile:        req.Mobile,
		FeePerMonth:   req.FeePerMonth,
		Discount:      req.Discount,
		AdmissionDate: admissionDate,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"student":            toStudentDTO(result.Student),
		"obligations_seeded": result.ObligationsSeeded,
	})
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	no := student.AdmissionNumber(r.PathValue("no"))

	history, err := s.deps.FeeHistory.Handle(r.Context(), query.FeeHistoryQuery{AdmissionNo: no})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"student": toStudentDTO(history.Student),
		"totals":  totalsDTO{Paid: history.Totals.Paid, Pending: history.Totals.Pending},
	})
}

func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	no := student.AdmissionNumber(r.PathValue("no"))

	var req studentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	stu, err := s.deps.UpdateStudent.Handle(r.Context(), command.UpdateStudentCommand{
		AdmissionNo: no,
		Name:        req.Name,
		FatherName:  req.FatherName,
		Class:       req.Class,
		Mobile:      req.Mobile,
		FeePerMonth: req.FeePerMonth,
		Discount:    req.Discount,
		Active:      active,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toStudentDTO(stu))
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	no := student.AdmissionNumber(r.PathValue("no"))

	if err := s.deps.DeleteStudent.Handle(r.Context(), command.DeleteStudentCommand{AdmissionNo: no}); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ══════════════════════════════════════════════════════════════════════════════
// FEE LEDGER
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleFeeHistory(w http.ResponseWriter, r *http.Request) {
	no := student.AdmissionNumber(r.PathValue("no"))

	history, err := s.deps.FeeHistory.Handle(r.Context(), query.FeeHistoryQuery{AdmissionNo: no})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	obligations := make([]obligationDTO, 0, len(history.Obligations))
	for _, o := range history.Obligations {
		obligations = append(obligations, toObligationDTO(o))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"student":     toStudentDTO(history.Student),
		"obligations": obligations,
		"totals":      totalsDTO{Paid: history.Totals.Paid, Pending: history.Totals.Pending},
	})
}

func (s *Server) handleEnsureObligations(w http.ResponseWriter, r *http.Request) {
	no := student.AdmissionNumber(r.PathValue("no"))

	created, err := s.deps.EnsureObligations.Handle(r.Context(), command.EnsureObligationsCommand{AdmissionNo: no})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"created": created})
}

func (s *Server) handleCreateObligation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AdmissionNo string `json:"admission_no"`
		Month       int    `json:"month"`
		Year        int    `json:"year"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	o, err := s.deps.CreateObligation.Handle(r.Context(), command.CreateObligationCommand{
		AdmissionNo: student.AdmissionNumber(req.AdmissionNo),
		Month:       req.Month,
		Year:        req.Year,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toObligationDTO(o))
}

func (s *Server) handleBulkGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Month int `json:"month"`
		Year  int `json:"year"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	result, err := s.deps.BulkGenerate.Handle(r.Context(), command.BulkGenerateCommand{
		Month: req.Month,
		Year:  req.Year,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"created":         result.Created,
		"active_students": result.ActiveStudents,
	})
}

func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid obligation id")
		return
	}

	var req struct {
		PaymentDate string `json:"payment_date"`
		PaymentMode string `json:"payment_mode"`
		Remarks     string `json:"remarks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "payment_date must be YYYY-MM-DD")
		return
	}

	o, err := s.deps.RecordPayment.Handle(r.Context(), command.RecordPaymentCommand{
		ObligationID: id,
		PaymentDate:  paymentDate,
		PaymentMode:  req.PaymentMode,
		Remarks:      req.Remarks,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.logger.Info("payment recorded",
		logger.ObligationID(o.ID.String()),
		logger.AdmissionNo(o.AdmissionNo.String()),
		logger.Amount(o.AmountDue.StringFixed(2)),
		logger.PaymentMode(o.Payment.Mode),
	)
	writeJSON(w, http.StatusOK, toObligationDTO(o))
}

func (s *Server) handleReversePayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid obligation id")
		return
	}

	o, err := s.deps.ReversePayment.Handle(r.Context(), command.ReversePaymentCommand{ObligationID: id})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.logger.Info("payment reversed",
		logger.ObligationID(o.ID.String()),
		logger.AdmissionNo(o.AdmissionNo.String()),
	)
	writeJSON(w, http.StatusOK, toObligationDTO(o))
}

func (s *Server) handleUpdateRemarks(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid obligation id")
		return
	}

	var req struct {
		Remarks string `json:"remarks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	if err := s.deps.UpdateRemarks.Handle(r.Context(), command.UpdateRemarksCommand{
		ObligationID: id,
		Remarks:      req.Remarks,
	}); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// ══════════════════════════════════════════════════════════════════════════════
// DOCUMENTS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleReceiptPDF(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid obligation id")
		return
	}

	snapshot, err := s.deps.Documents.Receipt(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	pdf, err := document.RenderReceipt(snapshot)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.logger.Info("receipt issued",
		logger.Document("receipt"),
		logger.ObligationID(id.String()),
		logger.AdmissionNo(snapshot.Student.AdmissionNo),
	)
	writePDF(w, fmt.Sprintf("receipt_%s.pdf", snapshot.ReceiptNo), pdf)
}

func (s *Server) handleDemandBillPDF(w http.ResponseWriter, r *http.Request) {
	no := student.AdmissionNumber(r.PathValue("no"))
	s.serveDemandBill(w, r, no)
}

func (s *Server) handleShareDemandBill(w http.ResponseWriter, r *http.Request) {
	no := student.AdmissionNumber(r.PathValue("no"))

	token, err := s.deps.Tokens.Sign(no, time.Now())
	if err != nil {
		writeJSONError(w, http.StatusServiceUnavailable, "sharing_disabled", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token": token,
		"url":   path.Join("/public/demand-bill", token),
	})
}

func (s *Server) handlePublicDemandBill(w http.ResponseWriter, r *http.Request) {
	no, err := s.deps.Tokens.Verify(r.PathValue("token"), time.Now())
	if err != nil {
		status := http.StatusForbidden
		code := "invalid_token"
		if errors.Is(err, ErrTokenExpired) {
			status = http.StatusGone
			code = "token_expired"
		}
		writeJSONError(w, status, code, err.Error())
		return
	}

	s.serveDemandBill(w, r, no)
}

func (s *Server) serveDemandBill(w http.ResponseWriter, r *http.Request, no student.AdmissionNumber) {
	snapshot, err := s.deps.Documents.DemandBill(r.Context(), no)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	pdf, err := document.RenderDemandBill(snapshot)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.logger.Info("demand bill issued",
		logger.Document("demand_bill"),
		logger.AdmissionNo(snapshot.Student.AdmissionNo),
		logger.Amount(snapshot.TotalDue.StringFixed(2)),
	)
	writePDF(w, fmt.Sprintf("demand_bill_%s.pdf", no), pdf)
}

func writePDF(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

// ══════════════════════════════════════════════════════════════════════════════
// EXPORT
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := s.deps.ExportRows.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="fee_records.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{
		"Admission No", "Student Name", "Month", "Year",
		"Amount", "Status", "Payment Date", "Payment Mode", "Remarks",
	})
	for _, row := range rows {
		status := "Pending"
		if row.Paid {
			status = "Paid"
		}
		_ = cw.Write([]string{
			row.AdmissionNo,
			row.StudentName,
			timeutil.MonthName(row.Month),
			strconv.Itoa(row.Year),
			row.AmountDue.StringFixed(2),
			status,
			row.PaymentDate,
			row.PaymentMode,
			row.Remarks,
		})
	}
	cw.Flush()
}

// ══════════════════════════════════════════════════════════════════════════════
// SETTINGS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetBranding(w http.ResponseWriter, r *http.Request) {
	b, err := s.deps.Branding.Get(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"name":           b.Name,
		"address":        b.Address,
		"contact":        b.Contact,
		"logo_path":      b.LogoPath,
		"signature_path": b.SignaturePath,
	})
}

func (s *Server) handleUpdateBranding(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Address string `json:"address"`
		Contact string `json:"contact"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	// Image paths are managed by the upload endpoints; carry them over.
	current, err := s.deps.Branding.Get(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	b, err := s.deps.UpdateBranding.Handle(r.Context(), command.UpdateBrandingCommand{
		Name:          req.Name,
		Address:       req.Address,
		Contact:       req.Contact,
		LogoPath:      current.LogoPath,
		SignaturePath: current.SignaturePath,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"name":    b.Name,
		"address": b.Address,
		"contact": b.Contact,
	})
}

func (s *Server) handleUploadLogo(w http.ResponseWriter, r *http.Request) {
	s.handleBrandingUpload(w, r, "logo.png", func(cmd *command.UpdateBrandingCommand, stored string) {
		cmd.LogoPath = stored
	})
}

func (s *Server) handleUploadSignature(w http.ResponseWriter, r *http.Request) {
	s.handleBrandingUpload(w, r, "signature.jpg", func(cmd *command.UpdateBrandingCommand, stored string) {
		cmd.SignaturePath = stored
	})
}

// handleBrandingUpload stores an uploaded branding image and points the
// branding record at it.
func (s *Server) handleBrandingUpload(w http.ResponseWriter, r *http.Request, filename string, apply func(*command.UpdateBrandingCommand, string)) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSONError(w, http.StatusRequestEntityTooLarge, "upload_too_large", "Image exceeds the upload size limit")
		return
	}
	if len(data) == 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Empty upload")
		return
	}

	stored, err := s.deps.Assets.Save(r.Context(), filename, data)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	current, err := s.deps.Branding.Get(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	cmd := command.UpdateBrandingCommand{
		Name:          current.Name,
		Address:       current.Address,
		Contact:       current.Contact,
		LogoPath:      current.LogoPath,
		SignaturePath: current.SignaturePath,
	}
	apply(&cmd, stored)

	if _, err := s.deps.UpdateBranding.Handle(r.Context(), cmd); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"path": stored})
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// parseDate parses a YYYY-MM-DD date in institute-local time.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	return time.ParseInLocation("2006-01-02", s, timeutil.InstituteTZ)
}
