package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/AnimeshnikLeon/climate-app/internal/dto"
	"github.com/AnimeshnikLeon/climate-app/internal/entities"
	apperrors "github.com/AnimeshnikLeon/climate-app/pkg/errors"
)

// Фейки уровня сервисов: политика проверяется без БД,
// правила слоя целостности покрыты тестами пакета integrity.

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeUserRepo struct {
	users map[uint64]*entities.User
}

func (r *fakeUserRepo) FindUser(_ context.Context, id uint64) (*entities.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) FindUserByLogin(_ context.Context, login string) (*entities.User, error) {
	for _, user := range r.users {
		if user.Login == login {
			return user, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) GetUsers(_ context.Context, _, _ uint64) ([]dto.UserDTO, uint64, error) {
	return nil, 0, nil
}

func (r *fakeUserRepo) CreateUser(_ context.Context, payload dto.CreateUserDTO, _ string) (*dto.UserDTO, error) {
	return &dto.UserDTO{Fio: payload.Fio, Login: payload.Login, RoleID: payload.RoleID}, nil
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, id uint64, _ dto.UpdateUserDTO, _ *string) (*dto.UserDTO, error) {
	return &dto.UserDTO{ID: id}, nil
}

func (r *fakeUserRepo) GetUsersByRole(_ context.Context, roleName string) ([]dto.ShortUserDTO, error) {
	result := make([]dto.ShortUserDTO, 0)
	for _, user := range r.users {
		if user.RoleName == roleName {
			result = append(result, dto.ShortUserDTO{ID: user.ID, Fio: user.Fio})
		}
	}
	return result, nil
}

type fakeStatusRepo struct {
	statuses map[uint64]dto.StatusDTO
}

func (r *fakeStatusRepo) GetStatuses(_ context.Context) ([]dto.StatusDTO, error) {
	result := make([]dto.StatusDTO, 0, len(r.statuses))
	for _, s := range r.statuses {
		result = append(result, s)
	}
	return result, nil
}

func (r *fakeStatusRepo) FindStatus(_ context.Context, id uint64) (*dto.StatusDTO, error) {
	s, ok := r.statuses[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &s, nil
}

func (r *fakeStatusRepo) FindStatusByName(_ context.Context, name string) (*dto.StatusDTO, error) {
	for _, s := range r.statuses {
		if s.Name == name {
			status := s
			return &status, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeStatusRepo) FindDefaultStatus(ctx context.Context) (*dto.StatusDTO, error) {
	return r.FindStatusByName(ctx, entities.StatusNew)
}

type fakeCatalogRepo struct {
	equipmentTypes map[uint64]dto.EquipmentTypeDTO
	issueTypes     map[uint64]dto.IssueTypeDTO
}

func (r *fakeCatalogRepo) GetEquipmentTypes(_ context.Context) ([]dto.EquipmentTypeDTO, error) {
	return nil, nil
}

func (r *fakeCatalogRepo) FindEquipmentType(_ context.Context, id uint64) (*dto.EquipmentTypeDTO, error) {
	et, ok := r.equipmentTypes[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &et, nil
}

func (r *fakeCatalogRepo) GetIssueTypes(_ context.Context) ([]dto.IssueTypeDTO, error) {
	return nil, nil
}

func (r *fakeCatalogRepo) FindIssueType(_ context.Context, id uint64) (*dto.IssueTypeDTO, error) {
	it, ok := r.issueTypes[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &it, nil
}

func (r *fakeCatalogRepo) GetOrCreateEquipmentModelInTx(_ context.Context, _ pgx.Tx, equipmentTypeID uint64, name string) (*dto.EquipmentModelDTO, error) {
	return &dto.EquipmentModelDTO{ID: 100, EquipmentTypeID: equipmentTypeID, Name: name}, nil
}

func (r *fakeCatalogRepo) GetOrCreateIssueTypeInTx(_ context.Context, _ pgx.Tx, description string) (*dto.IssueTypeDTO, error) {
	return &dto.IssueTypeDTO{ID: 200, Name: description}, nil
}

type fakeRequestRepo struct {
	requests map[uint64]*entities.RepairRequest
	statuses map[uint64]dto.StatusDTO
	nextID   uint64
}

func (r *fakeRequestRepo) dtoFor(req *entities.RepairRequest) *dto.RequestDTO {
	status := r.statuses[req.StatusID]
	result := &dto.RequestDTO{
		ID:                 req.ID,
		StartDate:          req.StartDate.Format("2006-01-02"),
		ProblemDescription: req.ProblemDescription,
		Status:             status,
		Client:             dto.ShortUserDTO{ID: req.ClientID},
	}
	if req.MasterID != nil {
		result.Master = &dto.ShortUserDTO{ID: *req.MasterID}
	}
	return result
}

func (r *fakeRequestRepo) GetRequests(_ context.Context, actor *entities.User, _ dto.RequestFilter) ([]dto.RequestDTO, uint64, error) {
	result := make([]dto.RequestDTO, 0)
	for _, req := range r.requests {
		switch {
		case actor.IsSpecialist():
			if req.MasterID == nil || *req.MasterID != actor.ID {
				continue
			}
		case actor.IsClient():
			if req.ClientID != actor.ID {
				continue
			}
		}
		result = append(result, *r.dtoFor(req))
	}
	return result, uint64(len(result)), nil
}

func (r *fakeRequestRepo) FindRequest(_ context.Context, id uint64) (*dto.RequestDTO, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return r.dtoFor(req), nil
}

func (r *fakeRequestRepo) FindRequestForUpdateInTx(_ context.Context, _ pgx.Tx, id uint64) (*entities.RepairRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *req
	return &clone, nil
}

func (r *fakeRequestRepo) CreateRequestInTx(_ context.Context, _ pgx.Tx, req *entities.RepairRequest) error {
	r.nextID++
	req.ID = r.nextID
	now := time.Now()
	req.CreatedAt = &now
	clone := *req
	r.requests[req.ID] = &clone
	return nil
}

func (r *fakeRequestRepo) UpdateRequestInTx(_ context.Context, _ pgx.Tx, req *entities.RepairRequest) error {
	if _, ok := r.requests[req.ID]; !ok {
		return apperrors.ErrNotFound
	}
	clone := *req
	r.requests[req.ID] = &clone
	return nil
}

func (r *fakeRequestRepo) DeleteRequestInTx(_ context.Context, _ pgx.Tx, id uint64) error {
	if _, ok := r.requests[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.requests, id)
	return nil
}

type fakeCommentRepo struct {
	comments []entities.RequestComment
}

func (r *fakeCommentRepo) GetCommentsByRequest(_ context.Context, requestID uint64) ([]dto.CommentDTO, error) {
	result := make([]dto.CommentDTO, 0)
	for _, c := range r.comments {
		if c.RequestID == requestID {
			result = append(result, dto.CommentDTO{
				ID: c.ID, RequestID: c.RequestID,
				Master:  dto.ShortUserDTO{ID: c.MasterID},
				Message: c.Message,
			})
		}
	}
	return result, nil
}

func (r *fakeCommentRepo) CreateCommentInTx(_ context.Context, _ pgx.Tx, comment *entities.RequestComment) error {
	comment.ID = uint64(len(r.comments) + 1)
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	r.comments = append(r.comments, *comment)
	return nil
}

type fakeCatalogService struct {
	invalidated int
}

func (s *fakeCatalogService) GetReferenceLookups(_ context.Context) (*dto.ReferenceLookupsDTO, error) {
	return &dto.ReferenceLookupsDTO{}, nil
}

func (s *fakeCatalogService) InvalidateCache(_ context.Context) {
	s.invalidated++
}
