package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/fiecl/barcode-inventory-management/internal/application/dto"
	"github.com/fiecl/barcode-inventory-management/internal/application/inventory"
	"github.com/fiecl/barcode-inventory-management/internal/domain"
	"github.com/fiecl/barcode-inventory-management/pkg/validator"
)

// ItemHandler CRUD de productos, escaneos y artefactos del código de barras.
type ItemHandler struct {
	ledger *inventory.LedgerUseCase
	audits *inventory.AuditUseCase
	labels *inventory.LabelUseCase
}

// NewItemHandler construye el handler de productos.
func NewItemHandler(ledger *inventory.LedgerUseCase, audits *inventory.AuditUseCase, labels *inventory.LabelUseCase) *ItemHandler {
	return &ItemHandler{ledger: ledger, audits: audits, labels: labels}
}

// Create godoc
// @Summary      Crear producto
// @Description  Asigna un código de barras único de 8 dígitos y guarda su imagen.
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if ok, err := validate(c, in); !ok {
		return err
	}
	item, err := h.ledger.CreateItem(c.UserContext(), inventory.CreateItemInput{
		Name:            in.Name,
		Quantity:        in.Quantity,
		Threshold:       in.Threshold,
		ReorderQuantity: in.ReorderQuantity,
		Classification:  in.Classification,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewItemResponse(item))
}

// List godoc
// @Summary      Listar productos
// @Tags         items
// @Produce      json
// @Success      200  {object}  dto.ItemListResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	list, err := h.ledger.ListItems(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewItemListResponse(list))
}

// Get godoc
// @Summary      Obtener producto por código de barras
// @Tags         items
// @Produce      json
// @Param        barcode  path  string  true  "Código de barras"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{barcode} [get]
func (h *ItemHandler) Get(c *fiber.Ctx) error {
	code, ok := barcodeParam(c)
	if !ok {
		return notFoundBarcode(c)
	}
	item, err := h.ledger.GetItem(c.UserContext(), code)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewItemResponse(item))
}

// Update godoc
// @Summary      Actualizar nombre, umbral o clasificación
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        barcode  path  string                 true  "Código de barras"
// @Param        body     body  dto.UpdateItemRequest  true  "Campos a cambiar"
// @Success      200  {object}  dto.ItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{barcode} [patch]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	code, ok := barcodeParam(c)
	if !ok {
		return notFoundBarcode(c)
	}
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if ok, err := validate(c, in); !ok {
		return err
	}
	item, err := h.ledger.UpdateItem(c.UserContext(), code, inventory.UpdateItemInput{
		Name:            in.Name,
		Threshold:       in.Threshold,
		ReorderQuantity: in.ReorderQuantity,
		Classification:  in.Classification,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewItemResponse(item))
}

// Delete godoc
// @Summary      Eliminar producto y su historial
// @Tags         items
// @Security     BearerAuth
// @Param        barcode  path  string  true  "Código de barras"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{barcode} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	code, ok := barcodeParam(c)
	if !ok {
		return notFoundBarcode(c)
	}
	if err := h.ledger.DeleteItem(c.UserContext(), code); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Scan godoc
// @Summary      Registrar escaneo (descuenta unidades)
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        barcode  path  string           true  "Código de barras"
// @Param        body     body  dto.ScanRequest  false  "Cantidad a descontar (1 si se omite)"
// @Success      200  {object}  dto.MutationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/items/{barcode}/scan [post]
func (h *ItemHandler) Scan(c *fiber.Ctx) error {
	code, ok := barcodeParam(c)
	if !ok {
		return notFoundBarcode(c)
	}
	var in dto.ScanRequest
	// un lector de códigos envía el POST sin body
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	if ok, err := validate(c, in); !ok {
		return err
	}
	res, err := h.ledger.DecrementQuantity(c.UserContext(), inventory.DecrementInput{
		Barcode:   code,
		Amount:    in.AmountOrDefault(),
		Purpose:   in.Purpose,
		ScannedBy: in.ScannedBy,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(mutationResponse(res))
}

// SetQuantity godoc
// @Summary      Corregir la cantidad (valor absoluto)
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        barcode  path  string                  true  "Código de barras"
// @Param        body     body  dto.SetQuantityRequest  true  "Nueva cantidad"
// @Success      200  {object}  dto.MutationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{barcode}/quantity [put]
func (h *ItemHandler) SetQuantity(c *fiber.Ctx) error {
	code, ok := barcodeParam(c)
	if !ok {
		return notFoundBarcode(c)
	}
	var in dto.SetQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if ok, err := validate(c, in); !ok {
		return err
	}
	res, err := h.ledger.SetQuantity(c.UserContext(), inventory.SetQuantityInput{
		Barcode:   code,
		Quantity:  in.Quantity,
		Purpose:   in.Purpose,
		ScannedBy: in.ScannedBy,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(mutationResponse(res))
}

// BarcodeImage godoc
// @Summary      Imagen PNG del código de barras
// @Tags         items
// @Produce      png
// @Param        barcode  path  string  true  "Código de barras"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{barcode}/barcode.png [get]
func (h *ItemHandler) BarcodeImage(c *fiber.Ctx) error {
	code, ok := barcodeParam(c)
	if !ok {
		return notFoundBarcode(c)
	}
	png, err := h.ledger.BarcodeImage(c.UserContext(), code)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

// Label godoc
// @Summary      Etiqueta PDF imprimible
// @Tags         items
// @Produce      application/pdf
// @Param        barcode  path  string  true  "Código de barras"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{barcode}/label.pdf [get]
func (h *ItemHandler) Label(c *fiber.Ctx) error {
	code, ok := barcodeParam(c)
	if !ok {
		return notFoundBarcode(c)
	}
	pdf, err := h.labels.Label(c.UserContext(), code)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, "inline; filename=\""+code+".pdf\"")
	return c.Send(pdf)
}

// History godoc
// @Summary      Historial de cambios de un producto
// @Tags         items
// @Produce      json
// @Param        barcode  path   string  true   "Código de barras"
// @Param        skip     query  int     false  "Desplazamiento"
// @Param        limit    query  int     false  "Máximo de registros (1-500)"
// @Success      200  {object}  dto.AuditListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{barcode}/audit [get]
func (h *ItemHandler) History(c *fiber.Ctx) error {
	code, ok := barcodeParam(c)
	if !ok {
		return notFoundBarcode(c)
	}
	page, err := parsePage(c)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.audits.ListByItem(c.UserContext(), code, page.Skip, page.Limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewAuditListResponse(list, page))
}

// barcodeParam lee :barcode; false si no tiene el formato que emite el asignador.
func barcodeParam(c *fiber.Ctx) (string, bool) {
	code := c.Params("barcode")
	return code, validator.IsBarcode(code)
}

// notFoundBarcode un código mal formado nunca pudo ser asignado: 404 sin consultar el almacén.
func notFoundBarcode(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "código de barras inválido: " + c.Params("barcode")})
}

func mutationResponse(res *inventory.MutationResult) dto.MutationResponse {
	return dto.MutationResponse{
		Item:    dto.NewItemResponse(res.Item),
		Crossed: res.Crossed,
		Audit:   dto.NewAuditResponse(res.Entry),
	}
}

// parsePage lee skip/limit del query.
func parsePage(c *fiber.Ctx) (dto.SkipLimit, error) {
	var page dto.SkipLimit
	if err := c.QueryParser(&page); err != nil {
		return page, fmt.Errorf("%w: skip/limit deben ser enteros", domain.ErrInvalidInput)
	}
	page.Normalize()
	return page, nil
}
