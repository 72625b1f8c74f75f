package handlers

import (
	"errors"
	"strings"

	"sipinjam/internal/adapters/persistence/models"
	"sipinjam/internal/adapters/persistence/repositories"
	"sipinjam/internal/pkg/pagination"
	"sipinjam/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AlatHandler handles alat (tool) endpoints. Stock fields are set once at
// creation; afterwards only the inventory ledger moves them.
type AlatHandler struct {
	alatRepo *repositories.AlatRepository
}

// NewAlatHandler creates a new alat handler
func NewAlatHandler(alatRepo *repositories.AlatRepository) *AlatHandler {
	return &AlatHandler{alatRepo: alatRepo}
}

// AlatRequest represents create/update request body
type AlatRequest struct {
	Kode       string `json:"kode"`
	Nama       string `json:"nama"`
	KategoriID uint   `json:"kategori_id"`
	Kondisi    string `json:"kondisi"`
	StokTotal  int    `json:"stok_total"`
}

// List returns alat, searchable and paginated
func (h *AlatHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	search := c.Query("search")
	status := c.Query("status")

	alat, total, err := h.alatRepo.List(c.Context(), params, search, status)
	if err != nil {
		return response.InternalServerError(c, "Failed to list alat")
	}

	return response.Paginated(c, "Alat retrieved", alat, pagination.GetMeta(params, total))
}

// Get returns one alat by ID
func (h *AlatHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid alat ID")
	}

	alat, err := h.alatRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Alat not found")
		}
		return response.InternalServerError(c, "Failed to get alat")
	}

	return response.Success(c, "Alat retrieved", alat)
}

// Create registers a new alat with all units available
func (h *AlatHandler) Create(c *fiber.Ctx) error {
	var req AlatRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if strings.TrimSpace(req.Kode) == "" || strings.TrimSpace(req.Nama) == "" {
		return response.BadRequest(c, "Kode and nama are required")
	}
	if req.KategoriID == 0 {
		return response.BadRequest(c, "Kategori is required")
	}
	if req.StokTotal < 0 {
		return response.BadRequest(c, "Stok total cannot be negative")
	}

	kondisi := req.Kondisi
	if kondisi == "" {
		kondisi = "Baik"
	}

	alat := &models.Alat{
		Kode:         strings.TrimSpace(req.Kode),
		Nama:         strings.TrimSpace(req.Nama),
		KategoriID:   req.KategoriID,
		Kondisi:      kondisi,
		Status:       models.AlatStatusTersedia,
		StokTotal:    req.StokTotal,
		StokTersedia: req.StokTotal,
	}

	if err := h.alatRepo.Create(c.Context(), alat); err != nil {
		return response.Conflict(c, "Alat with this kode already exists")
	}

	return response.Created(c, "Alat created", alat)
}

// Update changes non-stock fields of an alat
func (h *AlatHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid alat ID")
	}

	alat, err := h.alatRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Alat not found")
		}
		return response.InternalServerError(c, "Failed to get alat")
	}

	var req AlatRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Kode != "" {
		alat.Kode = strings.TrimSpace(req.Kode)
	}
	if req.Nama != "" {
		alat.Nama = strings.TrimSpace(req.Nama)
	}
	if req.KategoriID != 0 {
		alat.KategoriID = req.KategoriID
	}
	if req.Kondisi != "" {
		alat.Kondisi = req.Kondisi
	}

	if err := h.alatRepo.Update(c.Context(), alat); err != nil {
		return response.InternalServerError(c, "Failed to update alat")
	}

	return response.Success(c, "Alat updated", alat)
}

// SetMaintenance toggles the operational status of an alat
func (h *AlatHandler) SetMaintenance(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid alat ID")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Status != models.AlatStatusTersedia && req.Status != models.AlatStatusMaintenance {
		return response.BadRequest(c, "Status must be 'tersedia' or 'maintenance'")
	}

	if err := h.alatRepo.UpdateStatus(c.Context(), uint(id), req.Status); err != nil {
		return response.InternalServerError(c, "Failed to update alat status")
	}

	return response.Success(c, "Alat status updated", fiber.Map{"id": id, "status": req.Status})
}
