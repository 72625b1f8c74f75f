package repositories

import (
	"context"

	"sipinjam/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// PengembalianRepository handles pengembalian data access
type PengembalianRepository struct {
	db *gorm.DB
}

// NewPengembalianRepository creates a new pengembalian repository
func NewPengembalianRepository(db *gorm.DB) *PengembalianRepository {
	return &PengembalianRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *PengembalianRepository) WithTx(tx *gorm.DB) *PengembalianRepository {
	return &PengembalianRepository{db: tx}
}

// Create creates the return record finalizing a loan. The unique index on
// peminjaman_id makes a second record for the same loan a constraint error.
func (r *PengembalianRepository) Create(ctx context.Context, p *models.Pengembalian) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// GetByID returns a pengembalian by ID
func (r *PengembalianRepository) GetByID(ctx context.Context, id uint) (*models.Pengembalian, error) {
	var p models.Pengembalian
	err := r.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByPeminjamanID returns the return record for a loan, if any
func (r *PengembalianRepository) GetByPeminjamanID(ctx context.Context, peminjamanID uint) (*models.Pengembalian, error) {
	var p models.Pengembalian
	err := r.db.WithContext(ctx).Where("peminjaman_id = ?", peminjamanID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// AddDendaTambahan increments the supplemental fine in place. The unit
// split and computed denda are never touched. Returns rows updated.
func (r *PengembalianRepository) AddDendaTambahan(ctx context.Context, id uint, amount int64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Pengembalian{}).
		Where("id = ?", id).
		UpdateColumn("denda_tambahan", gorm.Expr("denda_tambahan + ?", amount))
	return res.RowsAffected, res.Error
}
