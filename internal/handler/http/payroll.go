package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aurelhr/payroll-backend-go/internal/domain/payroll"
	"github.com/aurelhr/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

type PayrollHandler interface {
	UploadRoster(w http.ResponseWriter, r *http.Request)
	SetPolicy(w http.ResponseWriter, r *http.Request)
	GetPolicy(w http.ResponseWriter, r *http.Request)
	Generate(w http.ResponseWriter, r *http.Request)
	RegenerateSlip(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	BatchStatus(w http.ResponseWriter, r *http.Request)
	CurrentBatch(w http.ResponseWriter, r *http.Request)
	ListEmployees(w http.ResponseWriter, r *http.Request)
	ListPayslips(w http.ResponseWriter, r *http.Request)
	DownloadPayslip(w http.ResponseWriter, r *http.Request)
	MyPayslip(w http.ResponseWriter, r *http.Request)
	MyPayslipDownload(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &PayrollHandlerImpl{payrollService: payrollService}
}

// UploadRoster implements PayrollHandler.
func (h *PayrollHandlerImpl) UploadRoster(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Error("UploadRoster parse form error", "error", err)
		response.BadRequest(w, "Invalid multipart form", nil)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Roster file is required", nil)
		return
	}
	defer file.Close()

	var uploadReq payroll.UploadRosterRequest
	uploadReq.Month = r.FormValue("month")
	if raw := r.FormValue("cycle_days"); raw != "" {
		cycleDays, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "cycle_days must be a number", nil)
			return
		}
		uploadReq.CycleDays = cycleDays
	}

	uploadResponse, err := h.payrollService.UploadRoster(r.Context(), file, uploadReq)
	if err != nil {
		slog.Error("UploadRoster service error", "error", err, "filename", fileHeader.Filename)
		response.HandleError(w, err)
		return
	}

	slog.Info("Roster uploaded",
		"batch_id", uploadResponse.BatchID,
		"employees", uploadResponse.TotalEmployees,
		"warnings", len(uploadResponse.Warnings),
	)
	response.Created(w, "Roster uploaded successfully", uploadResponse)
}

// SetPolicy implements PayrollHandler.
func (h *PayrollHandlerImpl) SetPolicy(w http.ResponseWriter, r *http.Request) {
	var policyReq payroll.SetPolicyRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&policyReq); err != nil {
		slog.Error("SetPolicy decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	policyResponse, err := h.payrollService.SetPolicy(r.Context(), policyReq)
	if err != nil {
		slog.Error("SetPolicy service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Payroll policy updated", "policy_id", policyResponse.ID)
	response.SuccessWithMessage(w, "Policy updated successfully", policyResponse)
}

// GetPolicy implements PayrollHandler.
func (h *PayrollHandlerImpl) GetPolicy(w http.ResponseWriter, r *http.Request) {
	policyResponse, err := h.payrollService.GetPolicy(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, policyResponse)
}

// Generate implements PayrollHandler.
func (h *PayrollHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")

	generateResponse, err := h.payrollService.Generate(r.Context(), batchID)
	if err != nil {
		slog.Error("Generate service error", "error", err, "batch_id", batchID)
		response.HandleError(w, err)
		return
	}

	slog.Info("Payroll generated",
		"batch_id", batchID,
		"payslips", generateResponse.PayslipsGenerated,
		"anomalies", len(generateResponse.Anomalies),
	)
	response.SuccessWithMessage(w, "Payroll generated successfully", generateResponse)
}

// RegenerateSlip implements PayrollHandler.
func (h *PayrollHandlerImpl) RegenerateSlip(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")
	empID := chi.URLParam(r, "empID")

	payslipResponse, err := h.payrollService.RegenerateSlip(r.Context(), batchID, empID)
	if err != nil {
		slog.Error("RegenerateSlip service error", "error", err, "batch_id", batchID, "emp_id", empID)
		response.HandleError(w, err)
		return
	}

	slog.Info("Payslip regenerated", "batch_id", batchID, "emp_id", empID)
	response.SuccessWithMessage(w, "Payslip regenerated successfully", payslipResponse)
}

// Approve implements PayrollHandler.
func (h *PayrollHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")

	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}
	approverID, _ := claims["user_id"].(string)

	approveResponse, err := h.payrollService.Approve(r.Context(), batchID, approverID)
	if err != nil {
		slog.Error("Approve service error", "error", err, "batch_id", batchID)
		response.HandleError(w, err)
		return
	}

	slog.Info("Payroll approved", "batch_id", batchID, "approved_by", approverID)
	response.SuccessWithMessage(w, "Payroll approved successfully", approveResponse)
}

// BatchStatus implements PayrollHandler.
func (h *PayrollHandlerImpl) BatchStatus(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")

	statusResponse, err := h.payrollService.BatchStatus(r.Context(), batchID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, statusResponse)
}

// CurrentBatch implements PayrollHandler.
func (h *PayrollHandlerImpl) CurrentBatch(w http.ResponseWriter, r *http.Request) {
	statusResponse, err := h.payrollService.CurrentBatch(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, statusResponse)
}

// ListPayslips implements PayrollHandler.
func (h *PayrollHandlerImpl) ListPayslips(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")

	payslips, err := h.payrollService.ListPayslips(r.Context(), batchID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, payslips)
}

// MyPayslip implements PayrollHandler. Employees see only their own latest
// approved payslip; the employee id comes from the token, never the URL.
func (h *PayrollHandlerImpl) MyPayslip(w http.ResponseWriter, r *http.Request) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	empID, _ := claims["emp_id"].(string)
	if empID == "" {
		response.Forbidden(w, "No employee profile linked to this account")
		return
	}

	payslipResponse, err := h.payrollService.EmployeePayslip(r.Context(), empID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, payslipResponse)
}

// ListEmployees implements PayrollHandler. Without a batch_id query
// parameter the most recent batch's roster is listed.
func (h *PayrollHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	batchID := r.URL.Query().Get("batch_id")

	listResponse, err := h.payrollService.ListEmployees(r.Context(), batchID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, listResponse)
}

// DownloadPayslip implements PayrollHandler. Streams the rendered PDF of
// one payslip in a batch.
func (h *PayrollHandlerImpl) DownloadPayslip(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")
	empID := chi.URLParam(r, "empID")

	doc, err := h.payrollService.DownloadPayslip(r.Context(), batchID, empID)
	if err != nil {
		slog.Error("DownloadPayslip service error", "error", err, "batch_id", batchID, "emp_id", empID)
		response.HandleError(w, err)
		return
	}
	h.streamDocument(w, doc)
}

// MyPayslipDownload implements PayrollHandler. Streams the caller's own
// latest approved payslip PDF; the employee id comes from the token.
func (h *PayrollHandlerImpl) MyPayslipDownload(w http.ResponseWriter, r *http.Request) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	empID, _ := claims["emp_id"].(string)
	if empID == "" {
		response.Forbidden(w, "No employee profile linked to this account")
		return
	}

	doc, err := h.payrollService.DownloadEmployeePayslip(r.Context(), empID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	h.streamDocument(w, doc)
}

func (h *PayrollHandlerImpl) streamDocument(w http.ResponseWriter, doc payroll.PayslipDocument) {
	defer doc.Content.Close()

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	if _, err := io.Copy(w, doc.Content); err != nil {
		slog.Error("payslip stream interrupted", "error", err, "filename", doc.FileName)
	}
}
