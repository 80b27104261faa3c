package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Traslados-api/internal/application/dto"
	"github.com/jhoicas/Traslados-api/internal/application/transfer"
)

// SODHandler expone la configuración de segregación de funciones del negocio.
type SODHandler struct {
	uc *transfer.UseCase
}

// NewSODHandler construye el handler.
func NewSODHandler(uc *transfer.UseCase) *SODHandler {
	return &SODHandler{uc: uc}
}

// Get godoc
// @Summary      Configuración de segregación de funciones
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SODSettingsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/settings/sod [get]
func (h *SODHandler) Get(c *fiber.Ctx) error {
	actor, ok := Actor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.uc.GetSODSettings(c.Context(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Update godoc
// @Summary      Actualizar la configuración de segregación de funciones
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateSODSettingsRequest  true  "banderas de segregación"
// @Success      200   {object}  dto.SODSettingsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/settings/sod [put]
func (h *SODHandler) Update(c *fiber.Ctx) error {
	actor, ok := Actor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateSODSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.UpdateSODSettings(c.Context(), actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
