package donor

import (
	"context"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"donor-finder/internal/domain"
	"donor-finder/internal/metrics"
	"donor-finder/internal/repository"
	"donor-finder/internal/service/archive"
)

type Service interface {
	FindByBloodGroup(ctx context.Context, group string) (*domain.QueryResult, error)
	Register(ctx context.Context, input domain.RegisterDonorInput) (*domain.Registration, error)
}

type service struct {
	repo    repository.DonorRepository
	index   *Index
	archive archive.Service
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewService(repo repository.DonorRepository, index *Index, archiveSvc archive.Service, m *metrics.Metrics, logger *zap.Logger) Service {
	return &service{
		repo:    repo,
		index:   index,
		archive: archiveSvc,
		metrics: m,
		logger:  logger,
	}
}

func (s *service) FindByBloodGroup(ctx context.Context, group string) (*domain.QueryResult, error) {
	result, err := s.findByBloodGroup(ctx, group)
	s.metrics.ObserveQuery(err)
	return result, err
}

func (s *service) findByBloodGroup(ctx context.Context, group string) (*domain.QueryResult, error) {
	normalized := domain.NormalizeBloodGroup(group)
	if normalized == "" {
		return nil, domain.NewValidationError("blood_group", "blood_group query parameter is required")
	}

	table, err := s.index.EnsureLoaded(ctx)
	if err != nil {
		return nil, err
	}

	records := table.ByBloodGroup(normalized)
	return &domain.QueryResult{
		BloodGroup: normalized,
		Count:      len(records),
		Records:    records,
		HasEmail:   table.HasEmail,
	}, nil
}

func (s *service) Register(ctx context.Context, input domain.RegisterDonorInput) (*domain.Registration, error) {
	reg, err := s.register(ctx, input)
	s.metrics.ObserveRegistration(err)
	return reg, err
}

func (s *service) register(ctx context.Context, input domain.RegisterDonorInput) (*domain.Registration, error) {
	row, err := parseRegistration(input)
	if err != nil {
		return nil, err
	}

	sno, err := s.repo.Append(ctx, row)
	if err != nil {
		s.logger.Error("donor registration write failed", zap.String("path", s.repo.Path()), zap.Error(err))
		return nil, err
	}

	// Only after the write has landed.
	s.index.Invalidate(ctx)

	s.logger.Info("donor registered", zap.Int("sno", sno), zap.String("blood_group", row.BloodGroup))

	if s.archive != nil {
		if name, err := s.archive.ArchiveWorkbook(ctx, s.repo.Path()); err != nil {
			s.logger.Warn("workbook archive failed", zap.Error(err))
		} else {
			s.logger.Debug("workbook archived", zap.String("object", name))
		}
	}

	return &domain.Registration{Sno: sno, BloodGroup: row.BloodGroup}, nil
}

// parseRegistration is strict about numbers, unlike the spreadsheet loader.
func parseRegistration(input domain.RegisterDonorInput) (domain.RegistrationRow, error) {
	age, err := strconv.Atoi(strings.TrimSpace(input.Age))
	if err != nil {
		return domain.RegistrationRow{}, domain.NewValidationError("age", "age must be a whole number")
	}
	weight, ok := parseMeasure(input.Weight)
	if !ok {
		return domain.RegistrationRow{}, domain.NewValidationError("weight", "weight must be a number")
	}
	hemoglobin, ok := parseMeasure(input.Hemoglobin)
	if !ok {
		return domain.RegistrationRow{}, domain.NewValidationError("hemoglobin", "hemoglobin must be a number")
	}

	return domain.RegistrationRow{
		Name:       input.Name,
		Age:        age,
		Gender:     input.Gender,
		Phone:      input.Phone,
		Email:      input.Email,
		BloodGroup: input.BloodGroup,
		Area:       input.Area,
		Weight:     weight,
		Hemoglobin: hemoglobin,
	}, nil
}

// parseMeasure accepts finite decimals only. NaN and Inf parse but cannot be
// served back as JSON.
func parseMeasure(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
