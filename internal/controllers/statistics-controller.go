package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/AnimeshnikLeon/climate-app/internal/services"
	"github.com/AnimeshnikLeon/climate-app/pkg/utils"
)

type StatisticsController struct {
	statsService services.StatisticsServiceInterface
	logger       *zap.Logger
}

func NewStatisticsController(statsService services.StatisticsServiceInterface, logger *zap.Logger) *StatisticsController {
	return &StatisticsController{statsService: statsService, logger: logger}
}

func (c *StatisticsController) GetStatistics(ctx echo.Context) error {
	stats, err := c.statsService.GetStatistics(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, stats, "Статистика получена", http.StatusOK)
}

func (c *StatisticsController) ExportStatistics(ctx echo.Context) error {
	report, err := c.statsService.ExportStatisticsXLSX(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	filename := fmt.Sprintf("statistics_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return ctx.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", report)
}
