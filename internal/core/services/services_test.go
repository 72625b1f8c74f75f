package services_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"sipinjam/internal/adapters/persistence/models"
	"sipinjam/internal/adapters/persistence/repositories"
	"sipinjam/internal/config"
	"sipinjam/internal/core/domain"
	"sipinjam/internal/core/services"
	"sipinjam/internal/pkg/pagination"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type testEnv struct {
	db      *gorm.DB
	alat    *repositories.AlatRepository
	ledger  *services.LedgerService
	loans   *services.PeminjamanService
	returns *services.PengembalianService
	audit   *services.AuditService
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		Engine: config.EngineConfig{
			FineDailyRate:  5000,
			DamagedRestock: false,
		},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithConfig(t, testConfig())
}

// newTestEnvWithConfig wires the engine against a throwaway sqlite database.
// _txlock=immediate makes every transaction take the write lock up front,
// so concurrent submissions serialize the same way they do on MySQL row
// locks instead of deadlocking on a lock upgrade.
func newTestEnvWithConfig(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "sipinjam.db") + "?_busy_timeout=5000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	alatRepo := repositories.NewAlatRepository(db)
	peminjamanRepo := repositories.NewPeminjamanRepository(db)
	pengembalianRepo := repositories.NewPengembalianRepository(db)
	activityRepo := repositories.NewActivityRepository(db)

	audit := services.NewAuditService(activityRepo)
	ledger := services.NewLedgerService(alatRepo, cfg)

	env := &testEnv{
		db:      db,
		alat:    alatRepo,
		ledger:  ledger,
		loans:   services.NewPeminjamanService(db, peminjamanRepo, alatRepo, ledger, audit),
		returns: services.NewPengembalianService(db, peminjamanRepo, pengembalianRepo, ledger, audit, cfg),
		audit:   audit,
	}

	// Drain pending audit writes before the temp database goes away
	t.Cleanup(audit.Flush)

	return env
}

func (e *testEnv) createUser(t *testing.T, username string, role domain.Role) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Nama:     username,
		Email:    username + "@test.local",
		Password: "irrelevant",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createAlat(t *testing.T, kode string, stok int) *models.Alat {
	t.Helper()
	kategori := &models.Kategori{Nama: "Kategori " + kode}
	require.NoError(t, e.db.Create(kategori).Error)

	alat := &models.Alat{
		Kode:         kode,
		Nama:         "Alat " + kode,
		KategoriID:   kategori.ID,
		Kondisi:      "Baik",
		Status:       models.AlatStatusTersedia,
		StokTotal:    stok,
		StokTersedia: stok,
	}
	require.NoError(t, e.db.Create(alat).Error)
	return alat
}

func (e *testEnv) reloadAlat(t *testing.T, id uint) *models.Alat {
	t.Helper()
	alat, err := e.alat.GetByID(context.Background(), id)
	require.NoError(t, err)
	return alat
}

func (e *testEnv) reloadLoan(t *testing.T, id uint) *models.Peminjaman {
	t.Helper()
	loan, err := e.loans.GetByID(context.Background(), id)
	require.NoError(t, err)
	return loan
}

func testPageParams() *pagination.Params {
	return &pagination.Params{Page: 1, Limit: pagination.DefaultLimit}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func submitInput(alatID uint, jumlah int, pinjam, rencana time.Time) *services.SubmitInput {
	return &services.SubmitInput{
		AlatID:                alatID,
		Jumlah:                jumlah,
		TanggalPinjam:         pinjam,
		TanggalKembaliRencana: rencana,
		Keperluan:             "kegiatan",
	}
}
