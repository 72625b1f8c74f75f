package handlers

import (
	"errors"
	"time"

	"sipinjam/internal/core/domain"
	"sipinjam/internal/core/services"
	"sipinjam/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PengembalianHandler handles return reconciliation endpoints
type PengembalianHandler struct {
	pengembalianService *services.PengembalianService
}

// NewPengembalianHandler creates a new pengembalian handler
func NewPengembalianHandler(pengembalianService *services.PengembalianService) *PengembalianHandler {
	return &PengembalianHandler{pengembalianService: pengembalianService}
}

// FinalizeRequest represents a return submission body
type FinalizeRequest struct {
	TanggalKembali string `json:"tanggal_kembali"`
	JumlahBaik     int    `json:"jumlah_baik"`
	JumlahRusak    int    `json:"jumlah_rusak"`
	JumlahHilang   int    `json:"jumlah_hilang"`
	Catatan        string `json:"catatan"`
}

// FineRequest represents a supplemental fine body
type FineRequest struct {
	Jumlah int64 `json:"jumlah"`
}

// Finalize closes a dipinjam loan with a condition split
func (h *PengembalianHandler) Finalize(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid peminjaman ID")
	}

	var req FinalizeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	var tanggalKembali time.Time
	if req.TanggalKembali != "" {
		tanggalKembali, err = parseDate(req.TanggalKembali)
		if err != nil {
			return response.BadRequest(c, "Invalid tanggal_kembali (expected YYYY-MM-DD)")
		}
	}

	input := &services.FinalizeInput{
		TanggalKembali: tanggalKembali,
		JumlahBaik:     req.JumlahBaik,
		JumlahRusak:    req.JumlahRusak,
		JumlahHilang:   req.JumlahHilang,
		Catatan:        req.Catatan,
	}

	ret, err := h.pengembalianService.FinalizeReturn(c.Context(), uint(id), input, currentUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Peminjaman not found")
		case errors.Is(err, domain.ErrInvalidQuantity):
			return response.BadRequest(c, "Unit counts cannot be negative")
		case errors.Is(err, domain.ErrReconciliationMismatch):
			return response.UnprocessableEntity(c, err.Error())
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.Conflict(c, err.Error())
		case errors.Is(err, domain.ErrLedgerCorrupt):
			return response.InternalServerError(c, "Stock ledger inconsistency detected")
		default:
			return response.InternalServerError(c, "Failed to finalize pengembalian")
		}
	}

	return response.Created(c, "Pengembalian finalized", ret)
}

// AddFine adds a supplemental fine to a finalized return
func (h *PengembalianHandler) AddFine(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid pengembalian ID")
	}

	var req FineRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	ret, err := h.pengembalianService.AddSupplementalFine(c.Context(), uint(id), req.Jumlah, currentUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			return response.BadRequest(c, "Fine amount must be positive")
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Pengembalian not found")
		default:
			return response.InternalServerError(c, "Failed to add fine")
		}
	}

	return response.Success(c, "Fine added", ret)
}

// GetByPeminjaman returns the return record for a loan
func (h *PengembalianHandler) GetByPeminjaman(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid peminjaman ID")
	}

	ret, err := h.pengembalianService.GetByPeminjaman(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Pengembalian not found")
		}
		return response.InternalServerError(c, "Failed to get pengembalian")
	}

	return response.Success(c, "Pengembalian retrieved", ret)
}
