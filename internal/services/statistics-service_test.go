package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AnimeshnikLeon/climate-app/internal/dto"
	"github.com/AnimeshnikLeon/climate-app/internal/entities"
	"github.com/AnimeshnikLeon/climate-app/internal/repositories"
	apperrors "github.com/AnimeshnikLeon/climate-app/pkg/errors"
)

type fakeStatsRepo struct {
	rows []repositories.StatsRequestRow
	load []dto.SpecialistLoadDTO
}

func (r *fakeStatsRepo) GetRequestRows(_ context.Context) ([]repositories.StatsRequestRow, error) {
	return r.rows, nil
}

func (r *fakeStatsRepo) GetSpecialistLoad(_ context.Context) ([]dto.SpecialistLoadDTO, error) {
	return r.load, nil
}

func day(d int) time.Time {
	return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(t time.Time) *time.Time { return &t }

func newStatsService(rows []repositories.StatsRequestRow) StatisticsServiceInterface {
	users := map[uint64]*entities.User{
		1: {ID: 1, RoleName: entities.RoleManager},
		2: {ID: 2, RoleName: entities.RoleOperator},
	}
	return NewStatisticsService(
		&fakeStatsRepo{rows: rows},
		&fakeUserRepo{users: users},
		zap.NewNop(),
	)
}

func TestStatisticsManagerOnly(t *testing.T) {
	svc := newStatsService(nil)

	_, err := svc.GetStatistics(asUser(2))
	var permErr *apperrors.PermissionDeniedError
	require.ErrorAs(t, err, &permErr)

	_, err = svc.GetStatistics(asUser(1))
	require.NoError(t, err)
}

func TestStatisticsEmpty(t *testing.T) {
	svc := newStatsService(nil)

	stats, err := svc.GetStatistics(asUser(1))
	require.NoError(t, err)
	assert.Zero(t, stats.TotalRequests)
	assert.Zero(t, stats.CompletedRequests)
	assert.False(t, stats.AverageRepairTimeDays.Valid, "без завершённых заявок среднее отсутствует, а не равно нулю")
	assert.Empty(t, stats.ByEquipmentType)
	assert.Empty(t, stats.ByIssueType)
}

func TestStatisticsAggregation(t *testing.T) {
	rows := []repositories.StatsRequestRow{
		// завершена за 4 дня
		{EquipmentTypeName: "Кондиционер", IssueTypeName: "Не охлаждает", StatusIsFinal: true,
			StartDate: day(1), CompletionDate: datePtr(day(5))},
		// завершена за 2 дня
		{EquipmentTypeName: "Холодильник", IssueTypeName: "Не охлаждает", StatusIsFinal: true,
			StartDate: day(3), CompletionDate: datePtr(day(5))},
		// завершена, но дата завершения раньше начала: в среднее не входит
		{EquipmentTypeName: "Кондиционер", IssueTypeName: "Шумит", StatusIsFinal: true,
			StartDate: day(10), CompletionDate: datePtr(day(8))},
		// завершена без даты завершения: в среднее не входит
		{EquipmentTypeName: "Кондиционер", IssueTypeName: "Шумит", StatusIsFinal: true,
			StartDate: day(1)},
		// в работе: не попадает ни в завершённые, ни в разбивку по оборудованию
		{EquipmentTypeName: "Холодильник", IssueTypeName: "Не включается", StatusIsFinal: false,
			StartDate: day(2)},
	}

	stats, err := newStatsService(rows).GetStatistics(asUser(1))
	require.NoError(t, err)

	assert.Equal(t, uint64(5), stats.TotalRequests)
	assert.Equal(t, uint64(4), stats.CompletedRequests)

	require.True(t, stats.AverageRepairTimeDays.Valid)
	assert.InDelta(t, 3.0, stats.AverageRepairTimeDays.Float64, 0.001)

	// по оборудованию считаются только завершённые
	require.Len(t, stats.ByEquipmentType, 2)
	assert.Equal(t, dto.GroupCountDTO{Name: "Кондиционер", Count: 3}, stats.ByEquipmentType[0])
	assert.Equal(t, dto.GroupCountDTO{Name: "Холодильник", Count: 1}, stats.ByEquipmentType[1])

	// по неисправностям считаются все заявки
	require.Len(t, stats.ByIssueType, 3)
	assert.Equal(t, dto.GroupCountDTO{Name: "Не охлаждает", Count: 2}, stats.ByIssueType[0])
	assert.Equal(t, dto.GroupCountDTO{Name: "Шумит", Count: 2}, stats.ByIssueType[1])
	assert.Equal(t, dto.GroupCountDTO{Name: "Не включается", Count: 1}, stats.ByIssueType[2])
}

func TestStatisticsGroupOrdering(t *testing.T) {
	counts := map[string]uint64{"Б": 2, "А": 2, "В": 5}
	groups := sortedGroupCounts(counts)

	require.Len(t, groups, 3)
	assert.Equal(t, "В", groups[0].Name)
	assert.Equal(t, "А", groups[1].Name, "при равном количестве порядок по названию")
	assert.Equal(t, "Б", groups[2].Name)
}

func TestStatisticsExportXLSX(t *testing.T) {
	rows := []repositories.StatsRequestRow{
		{EquipmentTypeName: "Кондиционер", IssueTypeName: "Не охлаждает", StatusIsFinal: true,
			StartDate: day(1), CompletionDate: datePtr(day(3))},
	}

	report, err := newStatsService(rows).ExportStatisticsXLSX(asUser(1))
	require.NoError(t, err)
	assert.NotEmpty(t, report)

	_, err = newStatsService(rows).ExportStatisticsXLSX(asUser(2))
	var permErr *apperrors.PermissionDeniedError
	require.ErrorAs(t, err, &permErr)
}
