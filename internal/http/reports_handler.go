package http

import (
	"errors"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	"gorm.io/gorm"

	"vihorki/internal/reports"
)

// ReportShowAction returns a previously generated comparison payload by ID.
func ReportShowAction(ctx *cartridge.Context) error {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil {
		return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid report ID"})
	}

	db := ctx.DBManager.GetConnection()
	report, err := reports.GetByID(db, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Report not found"})
		}
		ctx.Logger.Error("Failed to fetch report", slog.Any("error", err))
		return ctx.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch report"})
	}

	payload, err := report.DecodePayload()
	if err != nil {
		ctx.Logger.Error("Stored report payload unreadable", slog.Any("error", err))
		return ctx.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Stored report unreadable"})
	}

	return ctx.JSON(payload)
}
