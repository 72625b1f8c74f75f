package repositories

import (
	"context"
	"time"

	"sipinjam/internal/adapters/persistence/models"
	"sipinjam/internal/core/domain"
	"sipinjam/internal/pkg/pagination"

	"gorm.io/gorm"
)

// PeminjamanRepository handles peminjaman data access
type PeminjamanRepository struct {
	db *gorm.DB
}

// NewPeminjamanRepository creates a new peminjaman repository
func NewPeminjamanRepository(db *gorm.DB) *PeminjamanRepository {
	return &PeminjamanRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *PeminjamanRepository) WithTx(tx *gorm.DB) *PeminjamanRepository {
	return &PeminjamanRepository{db: tx}
}

// Create creates a new peminjaman
func (r *PeminjamanRepository) Create(ctx context.Context, p *models.Peminjaman) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// GetByID returns a peminjaman with its relations
func (r *PeminjamanRepository) GetByID(ctx context.Context, id uint) (*models.Peminjaman, error) {
	var p models.Peminjaman
	err := r.db.WithContext(ctx).
		Preload("Peminjam").
		Preload("Alat").
		Preload("Validator").
		Preload("Pengembalian").
		First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByKode returns a peminjaman by its unique kode
func (r *PeminjamanRepository) GetByKode(ctx context.Context, kode string) (*models.Peminjaman, error) {
	var p models.Peminjaman
	err := r.db.WithContext(ctx).
		Preload("Peminjam").
		Preload("Alat").
		Preload("Pengembalian").
		Where("kode = ?", kode).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns peminjaman filtered by optional status, paginated
func (r *PeminjamanRepository) List(ctx context.Context, params *pagination.Params, status domain.Status) ([]models.Peminjaman, int64, error) {
	var (
		list  []models.Peminjaman
		total int64
	)

	query := r.db.WithContext(ctx).Model(&models.Peminjaman{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Peminjam").
		Preload("Alat").
		Preload("Validator").
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&list).Error
	return list, total, err
}

// ListByPeminjam returns all peminjaman created by a borrower
func (r *PeminjamanRepository) ListByPeminjam(ctx context.Context, peminjamID uint, params *pagination.Params) ([]models.Peminjaman, int64, error) {
	var (
		list  []models.Peminjaman
		total int64
	)

	query := r.db.WithContext(ctx).Model(&models.Peminjaman{}).Where("peminjam_id = ?", peminjamID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Alat").
		Preload("Pengembalian").
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&list).Error
	return list, total, err
}

// ListOverdue returns loans still out past their planned return date
func (r *PeminjamanRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]models.Peminjaman, error) {
	var list []models.Peminjaman
	err := r.db.WithContext(ctx).
		Preload("Peminjam").
		Preload("Alat").
		Where("status = ? AND tanggal_kembali_rencana < ?", domain.StatusDipinjam, asOf).
		Order("tanggal_kembali_rencana ASC").
		Find(&list).Error
	return list, err
}

// CountByStatus returns loan counts grouped by status
func (r *PeminjamanRepository) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	type row struct {
		Status domain.Status
		Total  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.Peminjaman{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.Status]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}

// CountOverdue returns the number of dipinjam loans past their planned return
func (r *PeminjamanRepository) CountOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Peminjaman{}).
		Where("status = ? AND tanggal_kembali_rencana < ?", domain.StatusDipinjam, asOf).
		Count(&count).Error
	return count, err
}

// UpdateStatusCAS moves a loan from one status to another with a
// compare-and-set on the current status: the WHERE clause re-checks the
// status inside the same statement that writes the new one, so two
// concurrent transitions on the same loan cannot both succeed. Returns the
// number of rows updated (0 or 1).
func (r *PeminjamanRepository) UpdateStatusCAS(ctx context.Context, id uint, from, to domain.Status, extra map[string]interface{}) (int64, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}

	res := r.db.WithContext(ctx).Model(&models.Peminjaman{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}
