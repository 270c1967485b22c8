package api

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) render(c *fiber.Ctx, name string, data fiber.Map) error {
	tmpl, ok := handler.templates[name]
	if !ok {
		return c.Status(fiber.StatusInternalServerError).SendString("template not found")
	}
	if flash := handler.popFlash(c); flash.Message != "" {
		data["Flash"] = flash
	}

	var out bytes.Buffer
	if err := tmpl.ExecuteTemplate(&out, "base", data); err != nil {
		handler.logger.Error().Err(err).Str("template", name).Msg("render page")
		return c.Status(fiber.StatusInternalServerError).SendString("template render error")
	}

	c.Type("html", "utf-8")
	return c.Send(out.Bytes())
}
