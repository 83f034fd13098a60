package services

import (
	"context"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AnimeshnikLeon/climate-app/internal/dto"
	"github.com/AnimeshnikLeon/climate-app/internal/entities"
	apperrors "github.com/AnimeshnikLeon/climate-app/pkg/errors"
	"github.com/AnimeshnikLeon/climate-app/pkg/utils"
)

const (
	statusNewID   = 1
	statusDoneID  = 2
	managerID     = 1
	operatorID    = 2
	specialistID  = 20
	specialist2ID = 21
	clientID      = 10
	client2ID     = 11
)

type requestServiceFixture struct {
	service     RequestServiceInterface
	requestRepo *fakeRequestRepo
	commentRepo *fakeCommentRepo
	catalogSvc  *fakeCatalogService
}

func uintPtr(v uint64) *uint64 { return &v }

func newRequestServiceFixture() *requestServiceFixture {
	statuses := map[uint64]dto.StatusDTO{
		statusNewID:  {ID: statusNewID, Name: entities.StatusNew, IsFinal: false},
		statusDoneID: {ID: statusDoneID, Name: "Завершена", IsFinal: true},
	}
	users := map[uint64]*entities.User{
		managerID:     {ID: managerID, Fio: "Менеджер", RoleName: entities.RoleManager},
		operatorID:    {ID: operatorID, Fio: "Оператор", RoleName: entities.RoleOperator},
		specialistID:  {ID: specialistID, Fio: "Специалист", RoleName: entities.RoleSpecialist},
		specialist2ID: {ID: specialist2ID, Fio: "Другой специалист", RoleName: entities.RoleSpecialist},
		clientID:      {ID: clientID, Fio: "Заказчик", RoleName: entities.RoleClient},
		client2ID:     {ID: client2ID, Fio: "Другой заказчик", RoleName: entities.RoleClient},
	}

	requestRepo := &fakeRequestRepo{
		requests: make(map[uint64]*entities.RepairRequest),
		statuses: statuses,
	}
	commentRepo := &fakeCommentRepo{}
	catalogSvc := &fakeCatalogService{}

	svc := NewRequestService(
		fakeTxManager{},
		requestRepo,
		commentRepo,
		&fakeCatalogRepo{
			equipmentTypes: map[uint64]dto.EquipmentTypeDTO{1: {ID: 1, Name: "Кондиционер"}},
			issueTypes:     map[uint64]dto.IssueTypeDTO{5: {ID: 5, Name: "Не охлаждает"}},
		},
		&fakeStatusRepo{statuses: statuses},
		&fakeUserRepo{users: users},
		catalogSvc,
		zap.NewNop(),
	)
	return &requestServiceFixture{
		service:     svc,
		requestRepo: requestRepo,
		commentRepo: commentRepo,
		catalogSvc:  catalogSvc,
	}
}

func asUser(userID uint64) context.Context {
	return utils.CtxWithUserID(context.Background(), userID)
}

func validCreatePayload() dto.CreateRequestDTO {
	return dto.CreateRequestDTO{
		StartDate:          "2026-02-01",
		EquipmentTypeID:    1,
		EquipmentModelName: "Samsung AR12",
		ProblemDescription: "Не охлаждает",
	}
}

func (f *requestServiceFixture) seedRequest(statusID uint64, masterID *uint64) uint64 {
	req := &entities.RepairRequest{
		ProblemDescription: "Шумит при работе",
		StatusID:           statusID,
		MasterID:           masterID,
		ClientID:           clientID,
		EquipmentModelID:   100,
		IssueTypeID:        200,
	}
	f.requestRepo.nextID++
	req.ID = f.requestRepo.nextID
	f.requestRepo.requests[req.ID] = req
	return req.ID
}

func TestCreateRequestByClient(t *testing.T) {
	f := newRequestServiceFixture()

	payload := validCreatePayload()
	payload.ClientID = null.Uint64From(client2ID) // должен игнорироваться

	created, err := f.service.CreateRequest(asUser(clientID), payload)
	require.NoError(t, err)

	stored := f.requestRepo.requests[created.ID]
	assert.Equal(t, uint64(clientID), stored.ClientID, "заказчик создаёт заявку только на себя")
	assert.Equal(t, uint64(statusNewID), stored.StatusID, "новая заявка получает статус по умолчанию")
	assert.Equal(t, uint64(200), stored.IssueTypeID, "тип неисправности выводится из описания")
	assert.Equal(t, 1, f.catalogSvc.invalidated)
}

func TestCreateRequestClientCannotPickStatus(t *testing.T) {
	f := newRequestServiceFixture()

	payload := validCreatePayload()
	payload.StatusID = null.Uint64From(statusDoneID)

	_, err := f.service.CreateRequest(asUser(clientID), payload)
	var permErr *apperrors.PermissionDeniedError
	require.ErrorAs(t, err, &permErr)
}

func TestCreateRequestByManagerRequiresClient(t *testing.T) {
	f := newRequestServiceFixture()

	_, err := f.service.CreateRequest(asUser(managerID), validCreatePayload())
	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)

	payload := validCreatePayload()
	payload.ClientID = null.Uint64From(operatorID)
	_, err = f.service.CreateRequest(asUser(managerID), payload)
	require.ErrorAs(t, err, &validationErr, "заявку можно создать только на пользователя-заказчика")

	payload.ClientID = null.Uint64From(clientID)
	created, err := f.service.CreateRequest(asUser(managerID), payload)
	require.NoError(t, err)
	assert.Equal(t, uint64(clientID), f.requestRepo.requests[created.ID].ClientID)
}

func TestCreateRequestSpecialistDenied(t *testing.T) {
	f := newRequestServiceFixture()

	_, err := f.service.CreateRequest(asUser(specialistID), validCreatePayload())
	var permErr *apperrors.PermissionDeniedError
	require.ErrorAs(t, err, &permErr)
}

func TestCreateRequestUnknownEquipmentType(t *testing.T) {
	f := newRequestServiceFixture()

	payload := validCreatePayload()
	payload.EquipmentTypeID = 99

	_, err := f.service.CreateRequest(asUser(clientID), payload)
	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestUpdateRequestAssignMaster(t *testing.T) {
	f := newRequestServiceFixture()
	id := f.seedRequest(statusNewID, nil)

	payload := dto.UpdateRequestDTO{MasterID: null.Uint64From(specialistID)}
	_, err := f.service.UpdateRequest(asUser(operatorID), id, payload)
	require.NoError(t, err)
	require.NotNil(t, f.requestRepo.requests[id].MasterID)
	assert.Equal(t, uint64(specialistID), *f.requestRepo.requests[id].MasterID)

	// заказчику назначение исполнителя недоступно
	_, err = f.service.UpdateRequest(asUser(clientID), id, dto.UpdateRequestDTO{MasterID: null.Uint64From(specialist2ID)})
	var permErr *apperrors.PermissionDeniedError
	require.ErrorAs(t, err, &permErr)
}

func TestCreateRequestMasterMustBeSpecialist(t *testing.T) {
	f := newRequestServiceFixture()

	payload := validCreatePayload()
	payload.ClientID = null.Uint64From(clientID)
	payload.MasterID = null.Uint64From(client2ID)

	var validationErr *apperrors.ValidationError
	_, err := f.service.CreateRequest(asUser(managerID), payload)
	require.ErrorAs(t, err, &validationErr, "исполнителем может быть только специалист")

	payload.MasterID = null.Uint64From(999)
	_, err = f.service.CreateRequest(asUser(managerID), payload)
	require.ErrorAs(t, err, &validationErr, "несуществующий исполнитель")

	payload.MasterID = null.Uint64From(specialistID)
	created, err := f.service.CreateRequest(asUser(managerID), payload)
	require.NoError(t, err)
	require.NotNil(t, f.requestRepo.requests[created.ID].MasterID)
	assert.Equal(t, uint64(specialistID), *f.requestRepo.requests[created.ID].MasterID)
}

func TestUpdateRequestMasterMustBeSpecialist(t *testing.T) {
	f := newRequestServiceFixture()
	id := f.seedRequest(statusNewID, nil)

	var validationErr *apperrors.ValidationError
	_, err := f.service.UpdateRequest(asUser(operatorID), id, dto.UpdateRequestDTO{MasterID: null.Uint64From(clientID)})
	require.ErrorAs(t, err, &validationErr)
	assert.Nil(t, f.requestRepo.requests[id].MasterID, "заявка не изменилась")

	_, err = f.service.UpdateRequest(asUser(operatorID), id, dto.UpdateRequestDTO{MasterID: null.Uint64From(999)})
	require.ErrorAs(t, err, &validationErr)
}

func TestUpdateRequestSpecialistCloses(t *testing.T) {
	f := newRequestServiceFixture()
	id := f.seedRequest(statusNewID, uintPtr(specialistID))

	statusID := uint64(statusDoneID)
	_, err := f.service.UpdateRequest(asUser(specialistID), id, dto.UpdateRequestDTO{StatusID: &statusID})
	require.NoError(t, err)
	assert.Equal(t, uint64(statusDoneID), f.requestRepo.requests[id].StatusID)
}

func TestUpdateRequestSpecialistCannotReopen(t *testing.T) {
	f := newRequestServiceFixture()
	id := f.seedRequest(statusDoneID, uintPtr(specialistID))

	statusID := uint64(statusNewID)
	_, err := f.service.UpdateRequest(asUser(specialistID), id, dto.UpdateRequestDTO{StatusID: &statusID})

	var transitionErr *apperrors.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, "Завершена", transitionErr.From)
	assert.Equal(t, entities.StatusNew, transitionErr.To)
	assert.Equal(t, uint64(statusDoneID), f.requestRepo.requests[id].StatusID, "заявка не изменилась")
}

func TestUpdateRequestManagerReopens(t *testing.T) {
	f := newRequestServiceFixture()
	id := f.seedRequest(statusDoneID, uintPtr(specialistID))

	statusID := uint64(statusNewID)
	_, err := f.service.UpdateRequest(asUser(managerID), id, dto.UpdateRequestDTO{StatusID: &statusID})
	require.NoError(t, err)
	assert.Equal(t, uint64(statusNewID), f.requestRepo.requests[id].StatusID)
}

func TestUpdateRequestForeignSpecialistDenied(t *testing.T) {
	f := newRequestServiceFixture()
	id := f.seedRequest(statusNewID, uintPtr(specialistID))

	desc := "поменял диагноз"
	_, err := f.service.UpdateRequest(asUser(specialist2ID), id, dto.UpdateRequestDTO{ProblemDescription: &desc})
	var permErr *apperrors.PermissionDeniedError
	require.ErrorAs(t, err, &permErr)
}

func TestUpdateRequestClientCannotEditFinal(t *testing.T) {
	f := newRequestServiceFixture()
	id := f.seedRequest(statusDoneID, nil)

	desc := "хочу дописать"
	_, err := f.service.UpdateRequest(asUser(clientID), id, dto.UpdateRequestDTO{ProblemDescription: &desc})
	var permErr *apperrors.PermissionDeniedError
	require.ErrorAs(t, err, &permErr)
}

func TestDeleteRequestOnlyManager(t *testing.T) {
	f := newRequestServiceFixture()
	id := f.seedRequest(statusNewID, nil)

	var permErr *apperrors.PermissionDeniedError
	require.ErrorAs(t, f.service.DeleteRequest(asUser(operatorID), id), &permErr)
	require.ErrorAs(t, f.service.DeleteRequest(asUser(specialistID), id), &permErr)
	require.ErrorAs(t, f.service.DeleteRequest(asUser(clientID), id), &permErr)

	require.NoError(t, f.service.DeleteRequest(asUser(managerID), id))
	_, ok := f.requestRepo.requests[id]
	assert.False(t, ok)

	assert.ErrorIs(t, f.service.DeleteRequest(asUser(managerID), id), apperrors.ErrNotFound)
}

func TestAddCommentOnlyAssignedSpecialist(t *testing.T) {
	f := newRequestServiceFixture()
	id := f.seedRequest(statusNewID, uintPtr(specialistID))
	payload := dto.CreateCommentDTO{Message: "Заказаны запчасти"}

	comment, err := f.service.AddComment(asUser(specialistID), id, payload)
	require.NoError(t, err)
	assert.Equal(t, uint64(specialistID), comment.Master.ID)

	var permErr *apperrors.PermissionDeniedError
	_, err = f.service.AddComment(asUser(specialist2ID), id, payload)
	require.ErrorAs(t, err, &permErr, "чужой специалист не комментирует")

	_, err = f.service.AddComment(asUser(managerID), id, payload)
	require.ErrorAs(t, err, &permErr, "менеджер не комментирует")

	_, err = f.service.AddComment(asUser(clientID), id, payload)
	require.ErrorAs(t, err, &permErr, "заказчик не комментирует")
}

func TestAddCommentRejectsBlankMessage(t *testing.T) {
	f := newRequestServiceFixture()
	id := f.seedRequest(statusNewID, uintPtr(specialistID))

	var validationErr *apperrors.ValidationError
	_, err := f.service.AddComment(asUser(specialistID), id, dto.CreateCommentDTO{Message: ""})
	require.ErrorAs(t, err, &validationErr)

	_, err = f.service.AddComment(asUser(specialistID), id, dto.CreateCommentDTO{Message: "   \t"})
	require.ErrorAs(t, err, &validationErr, "пробельный комментарий тоже пустой")
}

func TestFindRequestVisibility(t *testing.T) {
	f := newRequestServiceFixture()
	id := f.seedRequest(statusNewID, uintPtr(specialistID))

	_, err := f.service.FindRequest(asUser(managerID), id)
	require.NoError(t, err)
	_, err = f.service.FindRequest(asUser(clientID), id)
	require.NoError(t, err)
	_, err = f.service.FindRequest(asUser(specialistID), id)
	require.NoError(t, err)

	var permErr *apperrors.PermissionDeniedError
	_, err = f.service.FindRequest(asUser(client2ID), id)
	require.ErrorAs(t, err, &permErr)
	_, err = f.service.FindRequest(asUser(specialist2ID), id)
	require.ErrorAs(t, err, &permErr)
}

func TestGetRequestsScopedByRole(t *testing.T) {
	f := newRequestServiceFixture()
	f.seedRequest(statusNewID, uintPtr(specialistID))
	f.seedRequest(statusNewID, nil)

	all, total, err := f.service.GetRequests(asUser(operatorID), dto.RequestFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, uint64(2), total)

	mine, _, err := f.service.GetRequests(asUser(specialistID), dto.RequestFilter{})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	own, _, err := f.service.GetRequests(asUser(clientID), dto.RequestFilter{})
	require.NoError(t, err)
	assert.Len(t, own, 2, "обе заявки принадлежат этому заказчику")

	none, _, err := f.service.GetRequests(asUser(client2ID), dto.RequestFilter{})
	require.NoError(t, err)
	assert.Empty(t, none)
}
