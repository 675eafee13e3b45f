package payroll

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/aurelhr/payroll-backend-go/internal/domain/employee"
	"github.com/aurelhr/payroll-backend-go/internal/domain/payroll"
	"github.com/aurelhr/payroll-backend-go/internal/domain/roster"
	"github.com/aurelhr/payroll-backend-go/internal/domain/user"
	"github.com/aurelhr/payroll-backend-go/internal/pkg/database"
	"github.com/aurelhr/payroll-backend-go/internal/pkg/storage"
	"github.com/aurelhr/payroll-backend-go/internal/pkg/validator"
	"github.com/aurelhr/payroll-backend-go/internal/repository/postgresql"
	policyService "github.com/aurelhr/payroll-backend-go/internal/service/policy"
	rosterService "github.com/aurelhr/payroll-backend-go/internal/service/roster"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const monthLayout = "January 2006"

type PayrollServiceImpl struct {
	db           *database.DB
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	userRepo     user.UserRepository

	loader       roster.Loader
	fileStorage  storage.FileStorage
	renderer     payroll.DocumentRenderer

	ingestor     *rosterService.Ingestor
	resolver     *policyService.Resolver
	orchestrator *Orchestrator
}

func NewPayrollService(
	db *database.DB,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	userRepo user.UserRepository,
	loader roster.Loader,
	fileStorage storage.FileStorage,
	renderer payroll.DocumentRenderer,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		db:           db,
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		userRepo:     userRepo,
		loader:       loader,
		fileStorage:  fileStorage,
		renderer:     renderer,
		ingestor:     rosterService.NewIngestor(),
		resolver:     policyService.NewResolver(),
		orchestrator: NewOrchestrator(NewCalculator()),
	}
}

// ========== ROSTER UPLOAD ==========

func (s *PayrollServiceImpl) UploadRoster(ctx context.Context, file io.Reader, req payroll.UploadRosterRequest) (payroll.UploadRosterResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.UploadRosterResponse{}, err
	}

	month, cycleDays, err := resolveCycle(req.Month, req.CycleDays)
	if err != nil {
		return payroll.UploadRosterResponse{}, err
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		return payroll.UploadRosterResponse{}, fmt.Errorf("failed to read upload: %w", err)
	}

	wb, err := s.loader.Load(bytes.NewReader(raw))
	if err != nil {
		return payroll.UploadRosterResponse{}, err
	}

	records, warnings, err := s.ingestor.Parse(wb, cycleDays)
	if err != nil {
		return payroll.UploadRosterResponse{}, err
	}

	batchID := uuid.NewString()
	sourcePath, err := s.fileStorage.Upload(ctx,
		bytes.NewReader(raw),
		fmt.Sprintf("rosters/%s.xlsx", batchID),
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	)
	if err != nil {
		return payroll.UploadRosterResponse{}, fmt.Errorf("failed to store roster: %w", err)
	}

	batch := payroll.PayrollBatch{
		ID:             batchID,
		Month:          month,
		CycleDays:      cycleDays,
		Status:         payroll.BatchStatusDraft,
		SourcePath:     &sourcePath,
		TotalEmployees: len(records),
		TotalAmount:    decimal.Zero,
	}

	employees := make([]employee.Employee, 0, len(records))
	for _, rec := range records {
		emp := employee.FromRecord(batchID, rec)
		emp.ID = uuid.NewString()
		employees = append(employees, emp)
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		if _, err := s.payrollRepo.CreateBatch(txCtx, batch); err != nil {
			return err
		}
		if _, err := s.employeeRepo.InsertForBatch(txCtx, batchID, employees); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return payroll.UploadRosterResponse{}, err
	}

	return payroll.UploadRosterResponse{
		BatchID:        batchID,
		Month:          month,
		CycleDays:      cycleDays,
		TotalEmployees: len(records),
		Warnings:       warnings,
	}, nil
}

// ========== POLICY ==========

func (s *PayrollServiceImpl) SetPolicy(ctx context.Context, req payroll.SetPolicyRequest) (payroll.PolicyResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PolicyResponse{}, err
	}

	resolved, err := s.resolver.Resolve(req)
	if err != nil {
		return payroll.PolicyResponse{}, err
	}
	resolved.ID = uuid.NewString()
	resolved.IsActive = true

	stored, err := s.payrollRepo.ReplaceActivePolicy(ctx, resolved)
	if err != nil {
		return payroll.PolicyResponse{}, err
	}

	return mapToPolicyResponse(stored), nil
}

func (s *PayrollServiceImpl) GetPolicy(ctx context.Context) (payroll.PolicyResponse, error) {
	pol, err := s.activePolicy(ctx)
	if err != nil {
		return payroll.PolicyResponse{}, err
	}
	return mapToPolicyResponse(pol), nil
}

// activePolicy returns the stored active policy, or the documented
// defaults when HR has not set one yet.
func (s *PayrollServiceImpl) activePolicy(ctx context.Context) (payroll.PayrollPolicy, error) {
	pol, err := s.payrollRepo.GetActivePolicy(ctx)
	if err != nil {
		if errors.Is(err, payroll.ErrPolicyNotFound) {
			return policyService.Defaults(), nil
		}
		return payroll.PayrollPolicy{}, err
	}
	return pol, nil
}

// ========== GENERATION ==========

func (s *PayrollServiceImpl) Generate(ctx context.Context, batchID string) (payroll.GenerateResponse, error) {
	batch, err := s.payrollRepo.GetBatchByID(ctx, batchID)
	if err != nil {
		return payroll.GenerateResponse{}, err
	}
	if err := batch.CanGenerate(); err != nil {
		return payroll.GenerateResponse{}, err
	}

	employees, err := s.employeeRepo.GetByBatchID(ctx, batchID)
	if err != nil {
		return payroll.GenerateResponse{}, err
	}
	if len(employees) == 0 {
		return payroll.GenerateResponse{}, roster.ErrEmptyRoster
	}

	pol, err := s.activePolicy(ctx)
	if err != nil {
		return payroll.GenerateResponse{}, err
	}

	records := make([]roster.EmployeeRecord, 0, len(employees))
	for _, emp := range employees {
		records = append(records, emp.Record())
	}

	// All employees compute before anything is persisted; a failure leaves
	// the batch in draft with its previous payslips intact.
	results, err := s.orchestrator.GenerateAll(records, pol, batch.CycleDays)
	if err != nil {
		return payroll.GenerateResponse{}, err
	}

	totalAmount := decimal.Zero
	var anomalies []string
	slips := make([]payroll.Payslip, 0, len(results))
	for i, res := range results {
		emp := employees[i]
		slips = append(slips, payroll.Payslip{
			ID:          uuid.NewString(),
			BatchID:     batchID,
			EmployeeID:  emp.ID,
			EmpID:       emp.EmpID,
			Name:        emp.Name,
			Designation: emp.Designation,
			Month:       batch.Month,
			Result:      res,
		})
		totalAmount = totalAmount.Add(res.NetPay)
		if res.Anomaly {
			anomalies = append(anomalies, emp.EmpID)
		}
	}

	var stored []payroll.Payslip
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		stored, err = s.payrollRepo.ReplacePayslips(txCtx, batchID, slips)
		if err != nil {
			return err
		}
		return s.payrollRepo.MarkBatchGenerated(txCtx, batchID, totalAmount)
	})
	if err != nil {
		return payroll.GenerateResponse{}, err
	}

	s.renderDocuments(ctx, stored)

	return payroll.GenerateResponse{
		BatchID:           batchID,
		PayslipsGenerated: len(stored),
		TotalAmount:       totalAmount,
		Anomalies:         anomalies,
	}, nil
}

func (s *PayrollServiceImpl) RegenerateSlip(ctx context.Context, batchID, empID string) (payroll.PayslipResponse, error) {
	batch, err := s.payrollRepo.GetBatchByID(ctx, batchID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	// Regeneration is allowed on an approved batch as a supported
	// correction path; it replaces only this employee's payslip and does
	// not move batch state.

	employees, err := s.employeeRepo.GetByBatchID(ctx, batchID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	records := make([]roster.EmployeeRecord, 0, len(employees))
	for _, emp := range employees {
		records = append(records, emp.Record())
	}

	pol, err := s.activePolicy(ctx)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	result, err := s.orchestrator.GenerateOne(records, pol, batch.CycleDays, empID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	source, err := s.employeeRepo.GetByBatchAndEmpID(ctx, batchID, empID)
	if err != nil {
		if !errors.Is(err, employee.ErrEmployeeNotFound) {
			return payroll.PayslipResponse{}, err
		}
		// The exact lookup missed; match punctuation-insensitively, so
		// "emp001" still resolves the stored "EMP-001" row.
		want := roster.NormalizeID(empID)
		for _, emp := range employees {
			if roster.NormalizeID(emp.EmpID) == want {
				source = emp
				break
			}
		}
	}

	slip := payroll.Payslip{
		ID:          uuid.NewString(),
		BatchID:     batchID,
		EmployeeID:  source.ID,
		EmpID:       source.EmpID,
		Name:        source.Name,
		Designation: source.Designation,
		Month:       batch.Month,
		Result:      result,
	}

	stored, err := s.payrollRepo.UpsertPayslip(ctx, slip)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	s.renderDocuments(ctx, []payroll.Payslip{stored})

	refreshed, err := s.payrollRepo.GetPayslip(ctx, batchID, source.EmpID)
	if err != nil {
		// Document path is cosmetic; fall back to what we stored.
		refreshed = stored
	}
	return mapToPayslipResponse(refreshed), nil
}

// renderDocuments produces payslip PDFs after the arithmetic results are
// committed. Rendering failures are logged and never affect the stored
// figures.
func (s *PayrollServiceImpl) renderDocuments(ctx context.Context, slips []payroll.Payslip) {
	if s.renderer == nil {
		return
	}
	for _, slip := range slips {
		path, err := s.renderer.RenderPayslip(ctx, slip)
		if err != nil {
			slog.Warn("payslip document rendering failed",
				slog.String("batch_id", slip.BatchID),
				slog.String("emp_id", slip.EmpID),
				slog.Any("error", err),
			)
			continue
		}
		if err := s.payrollRepo.SetPayslipDocument(ctx, slip.ID, path); err != nil {
			slog.Warn("failed to record payslip document path",
				slog.String("payslip_id", slip.ID),
				slog.Any("error", err),
			)
		}
	}
}

// ========== APPROVAL ==========

func (s *PayrollServiceImpl) Approve(ctx context.Context, batchID, approverID string) (payroll.ApproveResponse, error) {
	batch, err := s.payrollRepo.GetBatchByID(ctx, batchID)
	if err != nil {
		return payroll.ApproveResponse{}, err
	}

	count, err := s.payrollRepo.CountPayslips(ctx, batchID)
	if err != nil {
		return payroll.ApproveResponse{}, err
	}
	if err := batch.CanApprove(count); err != nil {
		return payroll.ApproveResponse{}, err
	}

	employees, err := s.employeeRepo.GetByBatchID(ctx, batchID)
	if err != nil {
		return payroll.ApproveResponse{}, err
	}

	enabled := 0
	var approvedAt time.Time
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		approvedAt, err = s.payrollRepo.MarkBatchApproved(txCtx, batchID, approverID)
		if err != nil {
			return err
		}
		for _, emp := range employees {
			if err := s.enableEmployeeAccount(txCtx, emp); err != nil {
				return err
			}
			enabled++
		}
		return nil
	})
	if err != nil {
		return payroll.ApproveResponse{}, err
	}

	// The response carries the database's approval stamp, so it always
	// agrees with what BatchStatus reads back.
	return mapToApproveResponse(batchID, approvedAt, enabled), nil
}

// enableEmployeeAccount creates the employee's portal account on first
// approval, or re-enables an existing one. The initial password is the
// employee id, to be changed on first login.
func (s *PayrollServiceImpl) enableEmployeeAccount(ctx context.Context, emp employee.Employee) error {
	existing, err := s.userRepo.GetByEmpID(ctx, emp.EmpID)
	if err == nil {
		return s.userRepo.SetCanLogin(ctx, existing.ID, true)
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return err
	}

	email := fmt.Sprintf("%s@payroll.local", strings.ToLower(emp.EmpID))
	if emp.Email != nil && validator.IsValidEmail(*emp.Email) {
		email = *emp.Email
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(emp.EmpID), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash default password: %w", err)
	}

	empID := emp.EmpID
	_, err = s.userRepo.Create(ctx, user.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         emp.Name,
		Role:         user.RoleEmployee,
		EmpID:        &empID,
		CanLogin:     true,
	})
	return err
}

// ========== QUERIES ==========

func (s *PayrollServiceImpl) BatchStatus(ctx context.Context, batchID string) (payroll.BatchStatusResponse, error) {
	batch, err := s.payrollRepo.GetBatchByID(ctx, batchID)
	if err != nil {
		return payroll.BatchStatusResponse{}, err
	}
	return mapToBatchStatus(batch), nil
}

func (s *PayrollServiceImpl) CurrentBatch(ctx context.Context) (payroll.BatchStatusResponse, error) {
	batch, err := s.payrollRepo.GetCurrentBatch(ctx)
	if err != nil {
		return payroll.BatchStatusResponse{}, err
	}
	return mapToBatchStatus(batch), nil
}

func (s *PayrollServiceImpl) ListEmployees(ctx context.Context, batchID string) (payroll.EmployeeListResponse, error) {
	if batchID == "" {
		batch, err := s.payrollRepo.GetCurrentBatch(ctx)
		if err != nil {
			return payroll.EmployeeListResponse{}, err
		}
		batchID = batch.ID
	}

	employees, err := s.employeeRepo.GetByBatchID(ctx, batchID)
	if err != nil {
		return payroll.EmployeeListResponse{}, err
	}

	result := payroll.EmployeeListResponse{
		BatchID:   batchID,
		Employees: make([]payroll.EmployeeResponse, 0, len(employees)),
		Total:     len(employees),
	}
	for _, emp := range employees {
		result.Employees = append(result.Employees, mapToEmployeeResponse(emp))
	}
	return result, nil
}

func (s *PayrollServiceImpl) ListPayslips(ctx context.Context, batchID string) ([]payroll.PayslipResponse, error) {
	slips, err := s.payrollRepo.ListPayslipsByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	result := make([]payroll.PayslipResponse, 0, len(slips))
	for _, slip := range slips {
		result = append(result, mapToPayslipResponse(slip))
	}
	return result, nil
}

func (s *PayrollServiceImpl) EmployeePayslip(ctx context.Context, empID string) (payroll.PayslipResponse, error) {
	slip, err := s.payrollRepo.GetLatestApprovedPayslip(ctx, empID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	return mapToPayslipResponse(slip), nil
}

func (s *PayrollServiceImpl) DownloadPayslip(ctx context.Context, batchID, empID string) (payroll.PayslipDocument, error) {
	slip, err := s.payrollRepo.GetPayslip(ctx, batchID, empID)
	if err != nil {
		return payroll.PayslipDocument{}, err
	}
	return s.openDocument(ctx, slip)
}

func (s *PayrollServiceImpl) DownloadEmployeePayslip(ctx context.Context, empID string) (payroll.PayslipDocument, error) {
	slip, err := s.payrollRepo.GetLatestApprovedPayslip(ctx, empID)
	if err != nil {
		return payroll.PayslipDocument{}, err
	}
	return s.openDocument(ctx, slip)
}

// openDocument streams the payslip's stored PDF. Rendering is best-effort
// at generation time, so a slip can legitimately have no document yet.
func (s *PayrollServiceImpl) openDocument(ctx context.Context, slip payroll.Payslip) (payroll.PayslipDocument, error) {
	if slip.DocumentPath == nil || *slip.DocumentPath == "" {
		return payroll.PayslipDocument{}, payroll.ErrDocumentNotRendered
	}

	content, err := s.fileStorage.Download(ctx, *slip.DocumentPath)
	if err != nil {
		return payroll.PayslipDocument{}, fmt.Errorf("failed to open payslip document: %w", err)
	}

	return payroll.PayslipDocument{
		FileName:    filepath.Base(*slip.DocumentPath),
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

// ========== HELPERS ==========

// resolveCycle fills in the month label and cycle length, defaulting to
// the current calendar month.
func resolveCycle(month string, cycleDays int) (string, int, error) {
	now := time.Now()
	if month == "" {
		month = now.Format(monthLayout)
	}
	start, err := time.Parse(monthLayout, month)
	if err != nil {
		return "", 0, validator.ValidationErrors{{Field: "month", Message: `must look like "January 2006"`}}
	}
	if cycleDays == 0 {
		// Day 0 of the next month is the last day of this one.
		cycleDays = time.Date(start.Year(), start.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	}
	return month, cycleDays, nil
}

func mapToPolicyResponse(p payroll.PayrollPolicy) payroll.PolicyResponse {
	return payroll.PolicyResponse{
		ID:                     p.ID,
		PFRate:                 p.PFRate,
		PFCap:                  p.PFCap,
		ESIEmployeeRate:        p.ESIEmployeeRate,
		ESIThreshold:           p.ESIThreshold,
		PTAmount:               p.PTAmount,
		LeaveEncashmentEnabled: p.LeaveEncashmentEnabled,
		EncashMaxDays:          p.EncashMaxDays,
		TDSAmount:              p.TDSAmount,
		PolicyText:             p.PolicyText,
	}
}

func mapToApproveResponse(batchID string, approvedAt time.Time, enabled int) payroll.ApproveResponse {
	return payroll.ApproveResponse{
		BatchID:          batchID,
		ApprovedAt:       approvedAt.UTC().Format(time.RFC3339),
		EmployeesEnabled: enabled,
	}
}

func mapToEmployeeResponse(e employee.Employee) payroll.EmployeeResponse {
	return payroll.EmployeeResponse{
		EmpID:           e.EmpID,
		Name:            e.Name,
		Designation:     e.Designation,
		Department:      e.Department,
		Email:           e.Email,
		BasicDA:         e.BasicDA,
		HRA:             e.HRA,
		OtherAllowances: e.OtherAllowances,
		HasAttendance:   e.HasAttendance,
	}
}

func mapToBatchStatus(b payroll.PayrollBatch) payroll.BatchStatusResponse {
	var approvedAt *string
	if b.ApprovedAt != nil {
		str := b.ApprovedAt.Format(time.RFC3339)
		approvedAt = &str
	}
	return payroll.BatchStatusResponse{
		BatchID:        b.ID,
		Month:          b.Month,
		Status:         string(b.Status),
		TotalEmployees: b.TotalEmployees,
		TotalAmount:    b.TotalAmount,
		ApprovedAt:     approvedAt,
	}
}

func mapToPayslipResponse(slip payroll.Payslip) payroll.PayslipResponse {
	r := slip.Result
	return payroll.PayslipResponse{
		ID:          slip.ID,
		BatchID:     slip.BatchID,
		EmpID:       slip.EmpID,
		Name:        slip.Name,
		Designation: slip.Designation,
		Month:       slip.Month,

		PayableDays:           r.PayableDays,
		PresentDays:           r.PresentDays,
		ApprovedPaidLeaves:    r.ApprovedPaidLeaves,
		LOPDays:               r.LOPDays,
		RemainingLeaveBalance: r.RemainingLeaveBalance,

		BasicDA:         r.BasicDA,
		HRA:             r.HRA,
		OtherAllowances: r.OtherAllowances,
		Encashment:      r.Encashment,
		Gross:           r.Gross,

		PF:              r.PF,
		ESI:             r.ESI,
		PT:              r.PT,
		TDS:             r.TDS,
		TotalDeductions: r.TotalDeductions,
		NetPay:          r.NetPay,

		Anomaly:      r.Anomaly,
		DocumentPath: slip.DocumentPath,
	}
}
