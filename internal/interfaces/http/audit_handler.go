package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fiecl/barcode-inventory-management/internal/application/dto"
	"github.com/fiecl/barcode-inventory-management/internal/application/inventory"
)

// AuditHandler historial global de cambios de cantidad.
type AuditHandler struct {
	uc *inventory.AuditUseCase
}

// NewAuditHandler construye el handler de auditoría.
func NewAuditHandler(uc *inventory.AuditUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Listar historial de cambios
// @Tags         audit
// @Produce      json
// @Param        skip   query  int  false  "Desplazamiento"
// @Param        limit  query  int  false  "Máximo de registros (1-500)"
// @Success      200  {object}  dto.AuditListResponse
// @Router       /api/audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.uc.List(c.UserContext(), page.Skip, page.Limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewAuditListResponse(list, page))
}

// Delete godoc
// @Summary      Eliminar un registro del historial
// @Tags         audit
// @Security     BearerAuth
// @Param        id  path  int  true  "ID del registro"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/audit/{id} [delete]
func (h *AuditHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	if err := h.uc.Delete(c.UserContext(), int64(id)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
