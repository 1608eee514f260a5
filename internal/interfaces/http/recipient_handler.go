package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fiecl/barcode-inventory-management/internal/application/dto"
	"github.com/fiecl/barcode-inventory-management/internal/application/recipients"
)

// RecipientHandler administra los correos que reciben alertas de stock bajo.
type RecipientHandler struct {
	uc *recipients.RecipientUseCase
}

func NewRecipientHandler(uc *recipients.RecipientUseCase) *RecipientHandler {
	return &RecipientHandler{uc: uc}
}

// Create godoc
// @Summary      Agregar destinatario de alertas
// @Tags         recipients
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecipientRequest  true  "Email"
// @Success      201  {object}  dto.RecipientResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/recipients [post]
func (h *RecipientHandler) Create(c *fiber.Ctx) error {
	var in dto.RecipientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if ok, err := validate(c, in); !ok {
		return err
	}
	r, err := h.uc.Create(c.UserContext(), in.Email)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewRecipientResponse(r))
}

// List godoc
// @Summary      Listar destinatarios
// @Tags         recipients
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  dto.RecipientResponse
// @Router       /api/recipients [get]
func (h *RecipientHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.RecipientResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.NewRecipientResponse(r))
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener destinatario
// @Tags         recipients
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "ID"
// @Success      200  {object}  dto.RecipientResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recipients/{id} [get]
func (h *RecipientHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	r, err := h.uc.Get(c.UserContext(), int64(id))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewRecipientResponse(r))
}

// Update godoc
// @Summary      Cambiar email de un destinatario
// @Tags         recipients
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  int                   true  "ID"
// @Param        body  body  dto.RecipientRequest  true  "Email"
// @Success      200  {object}  dto.RecipientResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recipients/{id} [put]
func (h *RecipientHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	var in dto.RecipientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if ok, err := validate(c, in); !ok {
		return err
	}
	r, err := h.uc.Update(c.UserContext(), int64(id), in.Email)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewRecipientResponse(r))
}

// Delete godoc
// @Summary      Eliminar destinatario
// @Tags         recipients
// @Security     BearerAuth
// @Param        id  path  int  true  "ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recipients/{id} [delete]
func (h *RecipientHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	if err := h.uc.Delete(c.UserContext(), int64(id)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
