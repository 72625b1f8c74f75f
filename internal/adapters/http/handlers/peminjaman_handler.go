package handlers

import (
	"errors"
	"time"

	"sipinjam/internal/core/domain"
	"sipinjam/internal/core/services"
	"sipinjam/internal/pkg/pagination"
	"sipinjam/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PeminjamanHandler handles loan lifecycle endpoints
type PeminjamanHandler struct {
	peminjamanService *services.PeminjamanService
}

// NewPeminjamanHandler creates a new peminjaman handler
func NewPeminjamanHandler(peminjamanService *services.PeminjamanService) *PeminjamanHandler {
	return &PeminjamanHandler{peminjamanService: peminjamanService}
}

// SubmitRequest represents a borrow request body. Dates use YYYY-MM-DD.
type SubmitRequest struct {
	AlatID                uint   `json:"alat_id"`
	Jumlah                int    `json:"jumlah"`
	TanggalPinjam         string `json:"tanggal_pinjam"`
	TanggalKembaliRencana string `json:"tanggal_kembali_rencana"`
	Keperluan             string `json:"keperluan"`
}

// RejectRequest represents a rejection body
type RejectRequest struct {
	Alasan string `json:"alasan"`
}

// Submit creates a new loan request for the authenticated peminjam
func (h *PeminjamanHandler) Submit(c *fiber.Ctx) error {
	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.AlatID == 0 {
		return response.BadRequest(c, "Alat is required")
	}

	tanggalPinjam, err := parseDate(req.TanggalPinjam)
	if err != nil {
		return response.BadRequest(c, "Invalid tanggal_pinjam (expected YYYY-MM-DD)")
	}
	tanggalKembali, err := parseDate(req.TanggalKembaliRencana)
	if err != nil {
		return response.BadRequest(c, "Invalid tanggal_kembali_rencana (expected YYYY-MM-DD)")
	}

	input := &services.SubmitInput{
		AlatID:                req.AlatID,
		Jumlah:                req.Jumlah,
		TanggalPinjam:         tanggalPinjam,
		TanggalKembaliRencana: tanggalKembali,
		Keperluan:             req.Keperluan,
	}

	loan, err := h.peminjamanService.Submit(c.Context(), input, currentUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidQuantity):
			return response.BadRequest(c, "Jumlah must be positive")
		case errors.Is(err, domain.ErrInvalidDateRange):
			return response.BadRequest(c, "Planned return date cannot be before loan date")
		case errors.Is(err, domain.ErrToolUnderMaintenance):
			return response.UnprocessableEntity(c, "Alat is under maintenance")
		case errors.Is(err, domain.ErrInsufficientStock):
			return response.Conflict(c, "Not enough available stock")
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Alat not found")
		default:
			return response.InternalServerError(c, "Failed to submit peminjaman")
		}
	}

	return response.Created(c, "Peminjaman submitted", loan)
}

// List returns loans, filterable by status (petugas/admin)
func (h *PeminjamanHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	status := domain.Status(c.Query("status"))

	loans, total, err := h.peminjamanService.List(c.Context(), params, status)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, "Unknown status filter")
		}
		return response.InternalServerError(c, "Failed to list peminjaman")
	}

	return response.Paginated(c, "Peminjaman retrieved", loans, pagination.GetMeta(params, total))
}

// ListMine returns the caller's own loans
func (h *PeminjamanHandler) ListMine(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	loans, total, err := h.peminjamanService.ListMine(c.Context(), currentUserID(c), params)
	if err != nil {
		return response.InternalServerError(c, "Failed to list peminjaman")
	}

	return response.Paginated(c, "Peminjaman retrieved", loans, pagination.GetMeta(params, total))
}

// Get returns one loan with its derived overdue state
func (h *PeminjamanHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid peminjaman ID")
	}

	loan, err := h.peminjamanService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Peminjaman not found")
		}
		return response.InternalServerError(c, "Failed to get peminjaman")
	}

	return response.Success(c, "Peminjaman retrieved", services.NewPeminjamanView(*loan, time.Now()))
}

// Approve moves a pending loan to disetujui
func (h *PeminjamanHandler) Approve(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid peminjaman ID")
	}

	loan, err := h.peminjamanService.Approve(c.Context(), uint(id), currentUserID(c))
	if err != nil {
		return transitionError(c, err)
	}

	return response.Success(c, "Peminjaman approved", loan)
}

// Reject moves a pending loan to ditolak and releases its reserved stock
func (h *PeminjamanHandler) Reject(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid peminjaman ID")
	}

	var req RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.peminjamanService.Reject(c.Context(), uint(id), currentUserID(c), req.Alasan)
	if err != nil {
		if errors.Is(err, domain.ErrMissingReason) {
			return response.BadRequest(c, "Rejection reason is required")
		}
		return transitionError(c, err)
	}

	return response.Success(c, "Peminjaman rejected", loan)
}

// Lend records the physical handover of an approved loan
func (h *PeminjamanHandler) Lend(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid peminjaman ID")
	}

	loan, err := h.peminjamanService.Lend(c.Context(), uint(id), currentUserID(c))
	if err != nil {
		return transitionError(c, err)
	}

	return response.Success(c, "Alat handed over", loan)
}

// transitionError maps state machine failures to HTTP responses
func transitionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Peminjaman not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		return response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrLedgerCorrupt):
		return response.InternalServerError(c, "Stock ledger inconsistency detected")
	default:
		return response.InternalServerError(c, "Failed to update peminjaman")
	}
}

// currentUserID reads the authenticated user from Locals
func currentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// parseDate parses a YYYY-MM-DD date string
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
