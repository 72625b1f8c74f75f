package config

import (
	"log"

	"sipinjam/internal/adapters/persistence/models"
	"sipinjam/internal/core/domain"
	"sipinjam/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedDefaultUsers(); err != nil {
		log.Printf("⚠️ User seeder skipped: %v", err)
	}
	if err := s.seedKategori(); err != nil {
		log.Printf("⚠️ Kategori seeder skipped: %v", err)
	}
	if s.cfg.IsDev() {
		if err := s.seedSampleAlat(); err != nil {
			log.Printf("⚠️ Alat seeder skipped: %v", err)
		}
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedDefaultUsers seeds the default admin and petugas accounts.
// In production, change these passwords immediately after first login.
func (s *Seeder) seedDefaultUsers() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	defaults := []struct {
		username string
		nama     string
		email    string
		role     domain.Role
	}{
		{"admin", "Administrator", "admin@sipinjam.local", domain.RoleAdmin},
		{"petugas", "Petugas Sarpras", "petugas@sipinjam.local", domain.RolePetugas},
	}

	for _, d := range defaults {
		hashed, err := password.Hash(d.username + "123456")
		if err != nil {
			return err
		}
		user := &models.User{
			Username: d.username,
			Nama:     d.nama,
			Email:    d.email,
			Password: hashed,
			Role:     d.role,
			IsActive: true,
		}
		if err := s.db.Create(user).Error; err != nil {
			return err
		}
		log.Printf("✅ Default %s user created: %s", d.role, d.username)
	}

	return nil
}

// seedKategori seeds the base tool categories
func (s *Seeder) seedKategori() error {
	var count int64
	s.db.Model(&models.Kategori{}).Count(&count)
	if count > 0 {
		return nil
	}

	kategori := []models.Kategori{
		{Nama: "Elektronik", Deskripsi: "Proyektor, laptop, sound system"},
		{Nama: "Perkakas", Deskripsi: "Bor, gergaji, obeng set"},
		{Nama: "Olahraga", Deskripsi: "Bola, net, matras"},
		{Nama: "Laboratorium", Deskripsi: "Mikroskop, gelas ukur"},
	}

	if err := s.db.Create(&kategori).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d kategori", len(kategori))
	return nil
}

// seedSampleAlat seeds sample tools for development
func (s *Seeder) seedSampleAlat() error {
	var count int64
	s.db.Model(&models.Alat{}).Count(&count)
	if count > 0 {
		return nil
	}

	var elektronik models.Kategori
	if err := s.db.Where("nama = ?", "Elektronik").First(&elektronik).Error; err != nil {
		return err
	}

	alat := []models.Alat{
		{Kode: "ALT-001", Nama: "Proyektor Epson", KategoriID: elektronik.ID, Kondisi: "Baik", Status: models.AlatStatusTersedia, StokTotal: 5, StokTersedia: 5},
		{Kode: "ALT-002", Nama: "Laptop Lenovo", KategoriID: elektronik.ID, Kondisi: "Baik", Status: models.AlatStatusTersedia, StokTotal: 10, StokTersedia: 10},
		{Kode: "ALT-003", Nama: "Sound System Portable", KategoriID: elektronik.ID, Kondisi: "Rusak Ringan", Status: models.AlatStatusMaintenance, StokTotal: 2, StokTersedia: 2},
	}

	if err := s.db.Create(&alat).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d sample alat", len(alat))
	return nil
}
