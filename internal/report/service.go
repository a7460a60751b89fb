package report

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/xuri/excelize/v2"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// EmployeeExport returns a workbook of every employee profile. The caller closes it.
func (s *Service) EmployeeExport(ctx context.Context) (*excelize.File, error) {
	rows, err := s.repo.EmployeeRows(ctx)
	if err != nil {
		s.logger.Error("failed to load employee report rows", "error", err)
		return nil, internal.NewInternalError("failed to load employee report", err)
	}

	f, err := EmployeeWorkbook(rows)
	if err != nil {
		s.logger.Error("failed to build employee workbook", "error", err)
		return nil, internal.NewInternalError("failed to build employee report", err)
	}

	s.logger.Info("employee report generated", "rows", len(rows))
	return f, nil
}

// LeaveExport returns a workbook of every leave request. The caller closes it.
func (s *Service) LeaveExport(ctx context.Context) (*excelize.File, error) {
	rows, err := s.repo.LeaveRows(ctx)
	if err != nil {
		s.logger.Error("failed to load leave report rows", "error", err)
		return nil, internal.NewInternalError("failed to load leave report", err)
	}

	f, err := LeaveWorkbook(rows)
	if err != nil {
		s.logger.Error("failed to build leave workbook", "error", err)
		return nil, internal.NewInternalError("failed to build leave report", err)
	}

	s.logger.Info("leave report generated", "rows", len(rows))
	return f, nil
}

// RequestExport returns a workbook of every resource request. The caller closes it.
func (s *Service) RequestExport(ctx context.Context) (*excelize.File, error) {
	rows, err := s.repo.RequestRows(ctx)
	if err != nil {
		s.logger.Error("failed to load request report rows", "error", err)
		return nil, internal.NewInternalError("failed to load request report", err)
	}

	f, err := RequestWorkbook(rows)
	if err != nil {
		s.logger.Error("failed to build request workbook", "error", err)
		return nil, internal.NewInternalError("failed to build request report", err)
	}

	s.logger.Info("request report generated", "rows", len(rows))
	return f, nil
}
