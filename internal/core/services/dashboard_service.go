package services

import (
	"context"
	"time"

	"sipinjam/internal/adapters/persistence/repositories"
	"sipinjam/internal/core/domain"
)

// DashboardService aggregates the numbers the role dashboards show
type DashboardService struct {
	alatRepo       *repositories.AlatRepository
	peminjamanRepo *repositories.PeminjamanRepository
	userRepo       *repositories.UserRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	alatRepo *repositories.AlatRepository,
	peminjamanRepo *repositories.PeminjamanRepository,
	userRepo *repositories.UserRepository,
) *DashboardService {
	return &DashboardService{
		alatRepo:       alatRepo,
		peminjamanRepo: peminjamanRepo,
		userRepo:       userRepo,
	}
}

// Summary represents the dashboard numbers
type Summary struct {
	TotalAlat     int64                   `json:"total_alat"`
	StokTotal     int64                   `json:"stok_total"`
	StokTersedia  int64                   `json:"stok_tersedia"`
	Peminjaman    map[domain.Status]int64 `json:"peminjaman"`
	Terlambat     int64                   `json:"terlambat"`
	TotalPeminjam int64                   `json:"total_peminjam"`
}

// GetSummary collects current counts across the system. Terlambat is
// computed against today's date, never read from a stored flag.
func (s *DashboardService) GetSummary(ctx context.Context) (*Summary, error) {
	totalAlat, err := s.alatRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	stokTotal, stokTersedia, err := s.alatRepo.StockSummary(ctx)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.peminjamanRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	terlambat, err := s.peminjamanRepo.CountOverdue(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	totalPeminjam, err := s.userRepo.CountByRole(ctx, domain.RolePeminjam)
	if err != nil {
		return nil, err
	}

	return &Summary{
		TotalAlat:     totalAlat,
		StokTotal:     stokTotal,
		StokTersedia:  stokTersedia,
		Peminjaman:    byStatus,
		Terlambat:     terlambat,
		TotalPeminjam: totalPeminjam,
	}, nil
}
