package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/exam-portal/registration-service/internal/models"
	"github.com/exam-portal/registration-service/internal/repositories"
)

// Roster column order, shared by the CSV and XLSX renderers.
var exportHeader = []string{
	"registration_id",
	"user_id",
	"user_name",
	"email",
	"mobile",
	"registration_status",
	"enrollment_status",
	"payment_status",
	"paid_at",
	"enrolled_at",
	"registered_at",
}

const exportTimeLayout = time.RFC3339

type exportService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

func (s *exportService) ExportRegistrationsCSV(ctx context.Context, examID uuid.UUID, actorID uuid.UUID, actorRole models.UserRole) (*ExportResult, error) {
	rows, err := s.buildRoster(ctx, examID, actorID, actorRole)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	s.logger.Info("Exported registrations as CSV", "exam_id", examID, "rows", len(rows))

	return &ExportResult{
		Filename:    fmt.Sprintf("registrations_%s.csv", examID),
		ContentType: "text/csv",
		Data:        buf.Bytes(),
	}, nil
}

func (s *exportService) ExportRegistrationsXLSX(ctx context.Context, examID uuid.UUID, actorID uuid.UUID, actorRole models.UserRole) (*ExportResult, error) {
	rows, err := s.buildRoster(ctx, examID, actorID, actorRole)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Registrations"
	index, err := file.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	header := make([]interface{}, len(exportHeader))
	for i, col := range exportHeader {
		header[i] = col
	}
	if err := file.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, value := range row {
			cells[j] = value
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := file.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info("Exported registrations as XLSX", "exam_id", examID, "rows", len(rows))

	return &ExportResult{
		Filename:    fmt.Sprintf("registrations_%s.xlsx", examID),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}

// buildRoster loads every registration for the exam with its user and renders
// the shared column set. Registrations whose user row has been removed are
// skipped rather than failing the whole export.
func (s *exportService) buildRoster(ctx context.Context, examID uuid.UUID, actorID uuid.UUID, actorRole models.UserRole) ([][]string, error) {
	if actorRole != models.RoleAdmin {
		return nil, NewPermissionError(actorID, "registration", "export", "admin role required")
	}

	if _, err := s.repo.Exam().GetByID(ctx, s.db, examID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	registrations, _, err := s.repo.Registration().GetByExam(ctx, s.db, examID, repositories.RegistrationFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load registrations: %w", err)
	}

	rows := make([][]string, 0, len(registrations))
	for _, registration := range registrations {
		if registration.User.ID == uuid.Nil {
			s.logger.Warn("Skipping registration with missing user",
				"registration_id", registration.ID, "user_id", registration.UserID)
			continue
		}
		rows = append(rows, renderRosterRow(registration))
	}

	return rows, nil
}

func renderRosterRow(registration *models.ExamRegistration) []string {
	mobile := ""
	if registration.User.Mobile != nil {
		mobile = *registration.User.Mobile
	}

	enrollmentStatus := "NOT_ENROLLED"
	enrolledAt := ""
	if registration.Status == models.RegistrationEnrolled {
		enrollmentStatus = "ENROLLED"
		// The store keeps a single updated_at; for a terminal-state row it is
		// the enrollment time.
		enrolledAt = registration.UpdatedAt.UTC().Format(exportTimeLayout)
	}

	paymentStatus, paidAt := derivePayment(registration)

	return []string{
		registration.ID.String(),
		registration.UserID.String(),
		registration.User.Name,
		registration.User.Email,
		mobile,
		string(registration.Status),
		enrollmentStatus,
		paymentStatus,
		paidAt,
		enrolledAt,
		registration.CreatedAt.UTC().Format(exportTimeLayout),
	}
}

// derivePayment folds the lifecycle status into the roster's payment view.
// ENROLLED does not imply payment: an admin may enroll an unpaid registration.
func derivePayment(registration *models.ExamRegistration) (status, paidAt string) {
	switch registration.Status {
	case models.RegistrationPaid:
		return "PAID", registration.UpdatedAt.UTC().Format(exportTimeLayout)
	case models.RegistrationPaymentPending:
		return "PENDING", ""
	default:
		return "NOT_PAID", ""
	}
}
