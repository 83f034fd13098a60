package services

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/aarondl/null/v8"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/AnimeshnikLeon/climate-app/internal/authz"
	"github.com/AnimeshnikLeon/climate-app/internal/dto"
	"github.com/AnimeshnikLeon/climate-app/internal/repositories"
	apperrors "github.com/AnimeshnikLeon/climate-app/pkg/errors"
)

type StatisticsServiceInterface interface {
	GetStatistics(ctx context.Context) (*dto.StatisticsDTO, error)
	ExportStatisticsXLSX(ctx context.Context) ([]byte, error)
}

type StatisticsService struct {
	statsRepo repositories.StatsRepositoryInterface
	userRepo  repositories.UserRepositoryInterface
	logger    *zap.Logger
}

func NewStatisticsService(
	statsRepo repositories.StatsRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	logger *zap.Logger,
) StatisticsServiceInterface {
	return &StatisticsService{
		statsRepo: statsRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// sortedGroupCounts: по убыванию количества, при равенстве — по названию.
func sortedGroupCounts(counts map[string]uint64) []dto.GroupCountDTO {
	groups := make([]dto.GroupCountDTO, 0, len(counts))
	for name, count := range counts {
		groups = append(groups, dto.GroupCountDTO{Name: name, Count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Name < groups[j].Name
	})
	return groups
}

// GetStatistics пересчитывает показатели отдела по текущему состоянию заявок.
// Средний срок ремонта считается только по завершённым заявкам с датой
// завершения; заявки с датой завершения раньше даты начала в среднее не входят.
func (s *StatisticsService) GetStatistics(ctx context.Context) (*dto.StatisticsDTO, error) {
	actor, err := currentActor(ctx, s.userRepo)
	if err != nil {
		return nil, err
	}
	if !authz.CanViewStatistics(actor) {
		return nil, apperrors.NewPermissionDeniedError(actor.RoleName, string(authz.StatisticsView))
	}

	rows, err := s.statsRepo.GetRequestRows(ctx)
	if err != nil {
		return nil, err
	}

	stats := &dto.StatisticsDTO{
		TotalRequests: uint64(len(rows)),
	}

	byEquipmentType := make(map[string]uint64)
	byIssueType := make(map[string]uint64)
	var totalDays float64
	var measured uint64

	for _, row := range rows {
		byIssueType[row.IssueTypeName]++

		if !row.StatusIsFinal {
			continue
		}
		stats.CompletedRequests++
		byEquipmentType[row.EquipmentTypeName]++

		if row.CompletionDate == nil {
			continue
		}
		days := row.CompletionDate.Sub(row.StartDate).Hours() / 24
		if days < 0 {
			continue
		}
		totalDays += days
		measured++
	}

	if measured > 0 {
		stats.AverageRepairTimeDays = null.Float64From(totalDays / float64(measured))
	}
	stats.ByEquipmentType = sortedGroupCounts(byEquipmentType)
	stats.ByIssueType = sortedGroupCounts(byIssueType)

	load, err := s.statsRepo.GetSpecialistLoad(ctx)
	if err != nil {
		return nil, err
	}
	stats.SpecialistLoad = load

	return stats, nil
}

// ExportStatisticsXLSX собирает те же показатели в виде книги Excel.
func (s *StatisticsService) ExportStatisticsXLSX(ctx context.Context) ([]byte, error) {
	stats, err := s.GetStatistics(ctx)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.Warn("не удалось закрыть файл отчёта", zap.Error(err))
		}
	}()

	const sheet = "Статистика"
	file.SetSheetName(file.GetSheetName(0), sheet)

	rows := [][]interface{}{
		{"Показатель", "Значение"},
		{"Всего заявок", stats.TotalRequests},
		{"Завершено заявок", stats.CompletedRequests},
	}
	if stats.AverageRepairTimeDays.Valid {
		rows = append(rows, []interface{}{"Средний срок ремонта, дней", fmt.Sprintf("%.1f", stats.AverageRepairTimeDays.Float64)})
	} else {
		rows = append(rows, []interface{}{"Средний срок ремонта, дней", "нет данных"})
	}
	rows = append(rows, []interface{}{})

	rows = append(rows, []interface{}{"Завершённые заявки по типам оборудования"})
	for _, g := range stats.ByEquipmentType {
		rows = append(rows, []interface{}{g.Name, g.Count})
	}
	rows = append(rows, []interface{}{})

	rows = append(rows, []interface{}{"Заявки по типам неисправностей"})
	for _, g := range stats.ByIssueType {
		rows = append(rows, []interface{}{g.Name, g.Count})
	}
	rows = append(rows, []interface{}{})

	rows = append(rows, []interface{}{"Нагрузка специалистов"})
	for _, l := range stats.SpecialistLoad {
		rows = append(rows, []interface{}{l.MasterFio, l.ActiveRequests})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("не удалось сформировать отчёт: %w", err)
	}
	return buf.Bytes(), nil
}
