package models

import (
	"time"

	"gorm.io/gorm"

	"sipinjam/internal/core/domain"
)

// ============================================================
// Users
// ============================================================

// User represents users table (admin / petugas / peminjam)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Nama      string         `gorm:"size:100;not null" json:"nama"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      domain.Role    `gorm:"size:20;default:'peminjam';index" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint        `json:"id"`
	Username  string      `json:"username"`
	Nama      string      `json:"nama"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Nama:      u.Nama,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// ============================================================
// Master: Kategori
// ============================================================

// Kategori groups alat by type (Master)
type Kategori struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Nama      string         `gorm:"size:100;uniqueIndex;not null" json:"nama"`
	Deskripsi string         `gorm:"type:text" json:"deskripsi"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Kategori) TableName() string {
	return "kategori"
}

// ============================================================
// Alat (loanable tools)
// ============================================================

// Alat operational statuses
const (
	AlatStatusTersedia    = "tersedia"
	AlatStatusMaintenance = "maintenance"
)

// Alat represents a loanable tool. StokTotal and StokTersedia are owned
// by the inventory ledger: never written outside its conditional updates.
type Alat struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Kode         string         `gorm:"size:30;uniqueIndex;not null" json:"kode"`
	Nama         string         `gorm:"size:100;not null" json:"nama"`
	KategoriID   uint           `gorm:"not null;index" json:"kategori_id"`
	Kondisi      string         `gorm:"size:50;default:'Baik'" json:"kondisi"`
	Status       string         `gorm:"size:15;default:'tersedia';index" json:"status"`
	StokTotal    int            `gorm:"not null" json:"stok_total"`
	StokTersedia int            `gorm:"not null" json:"stok_tersedia"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Kategori     Kategori       `gorm:"foreignKey:KategoriID" json:"kategori,omitempty"`
}

func (Alat) TableName() string {
	return "alat"
}

// ============================================================
// Peminjaman (loans)
// ============================================================

// Peminjaman represents a borrow request and its lifecycle.
// Overdue ("terlambat") is derived at read time, never stored.
type Peminjaman struct {
	ID                    uint          `gorm:"primaryKey" json:"id"`
	Kode                  string        `gorm:"size:30;uniqueIndex;not null" json:"kode"`
	PeminjamID            uint          `gorm:"not null;index" json:"peminjam_id"`
	AlatID                uint          `gorm:"not null;index" json:"alat_id"`
	Jumlah                int           `gorm:"not null" json:"jumlah"`
	TanggalPinjam         time.Time     `gorm:"type:date;not null" json:"tanggal_pinjam"`
	TanggalKembaliRencana time.Time     `gorm:"type:date;not null;index" json:"tanggal_kembali_rencana"`
	Keperluan             string        `gorm:"type:text" json:"keperluan"`
	Status                domain.Status `gorm:"size:15;default:'menunggu';index" json:"status"`
	ValidatorID           *uint         `gorm:"index" json:"validator_id"`
	ValidatedAt           *time.Time    `json:"validated_at"`
	CatatanValidasi       string        `gorm:"size:255" json:"catatan_validasi"`
	CreatedAt             time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
	Peminjam              User          `gorm:"foreignKey:PeminjamID" json:"peminjam,omitempty"`
	Alat                  Alat          `gorm:"foreignKey:AlatID" json:"alat,omitempty"`
	Validator             *User         `gorm:"foreignKey:ValidatorID" json:"validator,omitempty"`
	Pengembalian          *Pengembalian `gorm:"foreignKey:PeminjamanID" json:"pengembalian,omitempty"`
}

func (Peminjaman) TableName() string {
	return "peminjaman"
}

// ============================================================
// Pengembalian (returns)
// ============================================================

// Pengembalian finalizes a Peminjaman: at most one per loan. The unit
// split is immutable once written; only DendaTambahan may grow afterward.
type Pengembalian struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	PeminjamanID   uint       `gorm:"uniqueIndex;not null" json:"peminjaman_id"`
	TanggalKembali time.Time  `gorm:"type:date;not null" json:"tanggal_kembali"`
	JumlahBaik     int        `gorm:"not null" json:"jumlah_baik"`
	JumlahRusak    int        `gorm:"not null" json:"jumlah_rusak"`
	JumlahHilang   int        `gorm:"not null" json:"jumlah_hilang"`
	Kondisi        string     `gorm:"size:100" json:"kondisi"`
	Catatan        string     `gorm:"type:text" json:"catatan"`
	HariTerlambat  int        `gorm:"not null" json:"hari_terlambat"`
	Denda          int64      `gorm:"not null" json:"denda"`
	DendaTambahan  int64      `gorm:"not null;default:0" json:"denda_tambahan"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	Peminjaman     Peminjaman `gorm:"foreignKey:PeminjamanID" json:"-"`
}

func (Pengembalian) TableName() string {
	return "pengembalian"
}

// TotalDenda returns the computed fine plus any supplemental amounts
func (p *Pengembalian) TotalDenda() int64 {
	return p.Denda + p.DendaTambahan
}

// ============================================================
// Activity log (audit trail)
// ============================================================

// ActivityLog records one row per state-changing engine operation
type ActivityLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Action      string    `gorm:"size:30;not null;index" json:"action"`
	EntityTable string    `gorm:"size:30;not null" json:"entity_table"`
	EntityID    uint      `gorm:"not null;index" json:"entity_id"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	User        User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

// Audit actions
const (
	ActionCreate     = "create"
	ActionApprove    = "approve"
	ActionReject     = "reject"
	ActionLend       = "lend"
	ActionReturn     = "return"
	ActionFineAdjust = "fine-adjust"
)

// ============================================================
// Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Kategori{},
		&Alat{},
		&Peminjaman{},
		&Pengembalian{},
		&ActivityLog{},
	)
}
