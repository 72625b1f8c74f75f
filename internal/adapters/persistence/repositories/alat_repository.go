package repositories

import (
	"context"

	"sipinjam/internal/adapters/persistence/models"
	"sipinjam/internal/pkg/pagination"

	"gorm.io/gorm"
)

// AlatRepository handles alat data access, including the conditional
// stock updates the inventory ledger is built on
type AlatRepository struct {
	db *gorm.DB
}

// NewAlatRepository creates a new alat repository
func NewAlatRepository(db *gorm.DB) *AlatRepository {
	return &AlatRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *AlatRepository) WithTx(tx *gorm.DB) *AlatRepository {
	return &AlatRepository{db: tx}
}

// Create creates a new alat
func (r *AlatRepository) Create(ctx context.Context, alat *models.Alat) error {
	return r.db.WithContext(ctx).Create(alat).Error
}

// Update persists non-stock field changes
func (r *AlatRepository) Update(ctx context.Context, alat *models.Alat) error {
	return r.db.WithContext(ctx).Model(alat).
		Select("Kode", "Nama", "KategoriID", "Kondisi", "Status").
		Updates(alat).Error
}

// UpdateStatus sets the operational status (tersedia / maintenance)
func (r *AlatRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Model(&models.Alat{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// GetByID returns an alat by ID with its kategori
func (r *AlatRepository) GetByID(ctx context.Context, id uint) (*models.Alat, error) {
	var alat models.Alat
	err := r.db.WithContext(ctx).Preload("Kategori").First(&alat, id).Error
	if err != nil {
		return nil, err
	}
	return &alat, nil
}

// GetByKode returns an alat by its unique kode
func (r *AlatRepository) GetByKode(ctx context.Context, kode string) (*models.Alat, error) {
	var alat models.Alat
	err := r.db.WithContext(ctx).Preload("Kategori").Where("kode = ?", kode).First(&alat).Error
	if err != nil {
		return nil, err
	}
	return &alat, nil
}

// List returns alat filtered by optional search term and status, paginated
func (r *AlatRepository) List(ctx context.Context, params *pagination.Params, search, status string) ([]models.Alat, int64, error) {
	var (
		alat  []models.Alat
		total int64
	)

	query := r.db.WithContext(ctx).Model(&models.Alat{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("nama LIKE ? OR kode LIKE ?", like, like)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Kategori").
		Order("kode ASC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&alat).Error
	return alat, total, err
}

// Count returns how many alat are registered
func (r *AlatRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Alat{}).Count(&count).Error
	return count, err
}

// StockSummary returns the summed total and available units across all alat
func (r *AlatRepository) StockSummary(ctx context.Context) (total int64, tersedia int64, err error) {
	row := r.db.WithContext(ctx).Model(&models.Alat{}).
		Select("COALESCE(SUM(stok_total), 0), COALESCE(SUM(stok_tersedia), 0)").
		Row()
	err = row.Scan(&total, &tersedia)
	return total, tersedia, err
}

// ============================================================
// Ledger primitives
// ============================================================
// Each of these is a single conditional UPDATE so the read-validate-write
// cycle is atomic at the database: concurrent callers serialize on the row
// and a failed guard shows up as zero rows affected.

// ReserveStok atomically decrements stok_tersedia when at least qty units
// are available. Returns the number of rows updated (0 or 1).
func (r *AlatRepository) ReserveStok(ctx context.Context, alatID uint, qty int) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Alat{}).
		Where("id = ? AND stok_tersedia >= ?", alatID, qty).
		UpdateColumn("stok_tersedia", gorm.Expr("stok_tersedia - ?", qty))
	return res.RowsAffected, res.Error
}

// ReleaseStok atomically increments stok_tersedia, guarded so available
// can never exceed total. Returns the number of rows updated (0 or 1).
func (r *AlatRepository) ReleaseStok(ctx context.Context, alatID uint, qty int) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Alat{}).
		Where("id = ? AND stok_tersedia + ? <= stok_total", alatID, qty).
		UpdateColumn("stok_tersedia", gorm.Expr("stok_tersedia + ?", qty))
	return res.RowsAffected, res.Error
}

// RetireStok permanently removes qty units from stok_total without touching
// stok_tersedia (the units were already reserved out of circulation).
// Returns the number of rows updated (0 or 1).
func (r *AlatRepository) RetireStok(ctx context.Context, alatID uint, qty int) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Alat{}).
		Where("id = ? AND stok_total - ? >= stok_tersedia", alatID, qty).
		UpdateColumn("stok_total", gorm.Expr("stok_total - ?", qty))
	return res.RowsAffected, res.Error
}
