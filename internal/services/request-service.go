package services

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/AnimeshnikLeon/climate-app/internal/authz"
	"github.com/AnimeshnikLeon/climate-app/internal/dto"
	"github.com/AnimeshnikLeon/climate-app/internal/entities"
	"github.com/AnimeshnikLeon/climate-app/internal/repositories"
	apperrors "github.com/AnimeshnikLeon/climate-app/pkg/errors"
	"github.com/AnimeshnikLeon/climate-app/pkg/utils"
)

const dateLayout = "2006-01-02"

type RequestServiceInterface interface {
	GetRequests(ctx context.Context, filter dto.RequestFilter) ([]dto.RequestDTO, uint64, error)
	FindRequest(ctx context.Context, id uint64) (*dto.RequestDTO, error)
	CreateRequest(ctx context.Context, payload dto.CreateRequestDTO) (*dto.RequestDTO, error)
	UpdateRequest(ctx context.Context, id uint64, payload dto.UpdateRequestDTO) (*dto.RequestDTO, error)
	DeleteRequest(ctx context.Context, id uint64) error
	AddComment(ctx context.Context, requestID uint64, payload dto.CreateCommentDTO) (*dto.CommentDTO, error)
	GetComments(ctx context.Context, requestID uint64) ([]dto.CommentDTO, error)
}

type RequestService struct {
	txManager   repositories.TxManagerInterface
	requestRepo repositories.RequestRepositoryInterface
	commentRepo repositories.CommentRepositoryInterface
	catalogRepo repositories.CatalogRepositoryInterface
	statusRepo  repositories.StatusRepositoryInterface
	userRepo    repositories.UserRepositoryInterface
	catalogSvc  CatalogServiceInterface
	logger      *zap.Logger
}

func NewRequestService(
	txManager repositories.TxManagerInterface,
	requestRepo repositories.RequestRepositoryInterface,
	commentRepo repositories.CommentRepositoryInterface,
	catalogRepo repositories.CatalogRepositoryInterface,
	statusRepo repositories.StatusRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	catalogSvc CatalogServiceInterface,
	logger *zap.Logger,
) RequestServiceInterface {
	return &RequestService{
		txManager:   txManager,
		requestRepo: requestRepo,
		commentRepo: commentRepo,
		catalogRepo: catalogRepo,
		statusRepo:  statusRepo,
		userRepo:    userRepo,
		catalogSvc:  catalogSvc,
		logger:      logger,
	}
}

func stateFromEntity(req *entities.RepairRequest, statusIsFinal bool) authz.RequestState {
	return authz.RequestState{
		ClientID:      req.ClientID,
		MasterID:      req.MasterID,
		StatusIsFinal: statusIsFinal,
	}
}

func stateFromDTO(req *dto.RequestDTO) authz.RequestState {
	state := authz.RequestState{
		ClientID:      req.Client.ID,
		StatusIsFinal: req.Status.IsFinal,
	}
	if req.Master != nil {
		state.MasterID = &req.Master.ID
	}
	return state
}

// checkMasterRole проверяет, что назначаемый мастер существует и является Специалистом.
func (s *RequestService) checkMasterRole(ctx context.Context, masterID uint64) error {
	master, err := s.userRepo.FindUser(ctx, masterID)
	if err != nil {
		return apperrors.NewValidationError("специалист id=%d не найден", masterID)
	}
	if !master.IsSpecialist() {
		return apperrors.NewValidationError(
			"пользователь id=%d имеет роль «%s», мастером можно назначить только Специалиста", masterID, master.RoleName)
	}
	return nil
}

func (s *RequestService) GetRequests(ctx context.Context, filter dto.RequestFilter) ([]dto.RequestDTO, uint64, error) {
	actor, err := currentActor(ctx, s.userRepo)
	if err != nil {
		return nil, 0, err
	}
	return s.requestRepo.GetRequests(ctx, actor, filter)
}

func (s *RequestService) FindRequest(ctx context.Context, id uint64) (*dto.RequestDTO, error) {
	actor, err := currentActor(ctx, s.userRepo)
	if err != nil {
		return nil, err
	}

	req, err := s.requestRepo.FindRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanViewRequest(actor, stateFromDTO(req)) {
		return nil, apperrors.NewPermissionDeniedError(actor.RoleName, string(authz.RequestView))
	}
	return req, nil
}

// CreateRequest создаёт заявку от имени актора.
// Заказчик всегда создаёт заявку на себя, client_id из тела игнорируется;
// Менеджер и Оператор обязаны указать заказчика явно.
func (s *RequestService) CreateRequest(ctx context.Context, payload dto.CreateRequestDTO) (*dto.RequestDTO, error) {
	actor, err := currentActor(ctx, s.userRepo)
	if err != nil {
		return nil, err
	}
	if !authz.CanCreateRequest(actor) {
		return nil, apperrors.NewPermissionDeniedError(actor.RoleName, string(authz.RequestCreate))
	}

	startDate, err := time.Parse(dateLayout, payload.StartDate)
	if err != nil {
		return nil, apperrors.NewValidationError("некорректная дата начала «%s»", payload.StartDate)
	}

	var clientID uint64
	if actor.IsClient() {
		clientID = actor.ID
	} else {
		if !payload.ClientID.Valid {
			return nil, apperrors.NewValidationError("не указан заказчик заявки")
		}
		clientID = payload.ClientID.Uint64
		client, err := s.userRepo.FindUser(ctx, clientID)
		if err != nil {
			return nil, apperrors.NewValidationError("заказчик id=%d не найден", clientID)
		}
		if !client.IsClient() {
			return nil, apperrors.NewValidationError(
				"пользователь id=%d имеет роль «%s», заявку можно создать только на Заказчика", clientID, client.RoleName)
		}
	}

	if _, err := s.catalogRepo.FindEquipmentType(ctx, payload.EquipmentTypeID); err != nil {
		return nil, apperrors.NewValidationError("тип оборудования id=%d не найден", payload.EquipmentTypeID)
	}

	var statusID uint64
	if payload.StatusID.Valid {
		if actor.IsClient() {
			return nil, apperrors.NewPermissionDeniedError(actor.RoleName, string(authz.StatusChange))
		}
		status, err := s.statusRepo.FindStatus(ctx, payload.StatusID.Uint64)
		if err != nil {
			return nil, apperrors.NewValidationError("статус id=%d не найден", payload.StatusID.Uint64)
		}
		statusID = status.ID
	} else {
		status, err := s.statusRepo.FindDefaultStatus(ctx)
		if err != nil {
			return nil, err
		}
		statusID = status.ID
	}

	var masterID *uint64
	if payload.MasterID.Valid {
		if !authz.CanAssignMaster(actor) {
			return nil, apperrors.NewPermissionDeniedError(actor.RoleName, string(authz.MasterAssign))
		}
		if err := s.checkMasterRole(ctx, payload.MasterID.Uint64); err != nil {
			return nil, err
		}
		masterID = utils.ToPtr(payload.MasterID.Uint64)
	}

	req := &entities.RepairRequest{
		StartDate:          startDate,
		ProblemDescription: payload.ProblemDescription,
		StatusID:           statusID,
		RepairParts:        payload.RepairParts.Ptr(),
		MasterID:           masterID,
		ClientID:           clientID,
	}
	if payload.CompletionDate.Valid && payload.CompletionDate.String != "" {
		completion, err := time.Parse(dateLayout, payload.CompletionDate.String)
		if err != nil {
			return nil, apperrors.NewValidationError("некорректная дата завершения «%s»", payload.CompletionDate.String)
		}
		req.CompletionDate = utils.ToPtr(completion)
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		model, err := s.catalogRepo.GetOrCreateEquipmentModelInTx(ctx, tx, payload.EquipmentTypeID, payload.EquipmentModelName)
		if err != nil {
			return err
		}
		req.EquipmentModelID = model.ID

		if payload.IssueTypeID.Valid {
			issue, err := s.catalogRepo.FindIssueType(ctx, payload.IssueTypeID.Uint64)
			if err != nil {
				return apperrors.NewValidationError("тип неисправности id=%d не найден", payload.IssueTypeID.Uint64)
			}
			req.IssueTypeID = issue.ID
		} else {
			issue, err := s.catalogRepo.GetOrCreateIssueTypeInTx(ctx, tx, payload.ProblemDescription)
			if err != nil {
				return err
			}
			req.IssueTypeID = issue.ID
		}

		return s.requestRepo.CreateRequestInTx(ctx, tx, req)
	})
	if err != nil {
		return nil, err
	}

	// заявка могла породить новые записи в справочниках
	s.catalogSvc.InvalidateCache(ctx)

	s.logger.Info("создана заявка",
		zap.Uint64("id", req.ID), zap.Uint64("client_id", req.ClientID), zap.String("actor_role", actor.RoleName))
	return s.requestRepo.FindRequest(ctx, req.ID)
}

// UpdateRequest применяет частичное обновление заявки.
// Права проверяются по состоянию, прочитанному под блокировкой строки,
// поэтому параллельные изменения видят решения друг друга.
func (s *RequestService) UpdateRequest(ctx context.Context, id uint64, payload dto.UpdateRequestDTO) (*dto.RequestDTO, error) {
	actor, err := currentActor(ctx, s.userRepo)
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindRequestForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}

		fromStatus, err := s.statusRepo.FindStatus(ctx, req.StatusID)
		if err != nil {
			return err
		}

		if payload.StatusID != nil && *payload.StatusID != req.StatusID {
			toStatus, err := s.statusRepo.FindStatus(ctx, *payload.StatusID)
			if err != nil {
				return apperrors.NewValidationError("статус id=%d не найден", *payload.StatusID)
			}
			if actor.IsSpecialist() && fromStatus.IsFinal && !toStatus.IsFinal {
				return apperrors.NewInvalidTransitionError(fromStatus.Name, toStatus.Name)
			}
			if !authz.CanChangeStatus(actor, fromStatus.IsFinal, toStatus.IsFinal) {
				return apperrors.NewPermissionDeniedError(actor.RoleName, string(authz.StatusChange))
			}
			req.StatusID = toStatus.ID
		}

		if !authz.CanEditRequest(actor, stateFromEntity(req, fromStatus.IsFinal)) {
			return apperrors.NewPermissionDeniedError(actor.RoleName, string(authz.RequestEdit))
		}

		if payload.MasterID.Valid {
			if !authz.CanAssignMaster(actor) {
				return apperrors.NewPermissionDeniedError(actor.RoleName, string(authz.MasterAssign))
			}
			if payload.MasterID.Uint64 == 0 {
				req.MasterID = nil
			} else {
				if err := s.checkMasterRole(ctx, payload.MasterID.Uint64); err != nil {
					return err
				}
				req.MasterID = utils.ToPtr(payload.MasterID.Uint64)
			}
		}

		if payload.StartDate != nil {
			startDate, err := time.Parse(dateLayout, *payload.StartDate)
			if err != nil {
				return apperrors.NewValidationError("некорректная дата начала «%s»", *payload.StartDate)
			}
			req.StartDate = startDate
		}
		if payload.ProblemDescription != nil {
			req.ProblemDescription = *payload.ProblemDescription
		}
		if payload.RepairParts.Valid {
			req.RepairParts = payload.RepairParts.Ptr()
		}
		if payload.CompletionDate.Valid {
			if payload.CompletionDate.String == "" {
				req.CompletionDate = nil
			} else {
				completion, err := time.Parse(dateLayout, payload.CompletionDate.String)
				if err != nil {
					return apperrors.NewValidationError("некорректная дата завершения «%s»", payload.CompletionDate.String)
				}
				req.CompletionDate = utils.ToPtr(completion)
			}
		}

		if payload.EquipmentTypeID != nil || payload.EquipmentModelName != nil {
			if payload.EquipmentTypeID == nil || payload.EquipmentModelName == nil {
				return apperrors.NewValidationError("тип и модель оборудования меняются только вместе")
			}
			if _, err := s.catalogRepo.FindEquipmentType(ctx, *payload.EquipmentTypeID); err != nil {
				return apperrors.NewValidationError("тип оборудования id=%d не найден", *payload.EquipmentTypeID)
			}
			model, err := s.catalogRepo.GetOrCreateEquipmentModelInTx(ctx, tx, *payload.EquipmentTypeID, *payload.EquipmentModelName)
			if err != nil {
				return err
			}
			req.EquipmentModelID = model.ID
		}
		if payload.IssueTypeID != nil {
			issue, err := s.catalogRepo.FindIssueType(ctx, *payload.IssueTypeID)
			if err != nil {
				return apperrors.NewValidationError("тип неисправности id=%d не найден", *payload.IssueTypeID)
			}
			req.IssueTypeID = issue.ID
		}

		return s.requestRepo.UpdateRequestInTx(ctx, tx, req)
	})
	if err != nil {
		return nil, err
	}

	s.catalogSvc.InvalidateCache(ctx)
	return s.requestRepo.FindRequest(ctx, id)
}

func (s *RequestService) DeleteRequest(ctx context.Context, id uint64) error {
	actor, err := currentActor(ctx, s.userRepo)
	if err != nil {
		return err
	}
	if !authz.CanDeleteRequest(actor) {
		return apperrors.NewPermissionDeniedError(actor.RoleName, string(authz.RequestDelete))
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.requestRepo.FindRequestForUpdateInTx(ctx, tx, id); err != nil {
			return err
		}
		return s.requestRepo.DeleteRequestInTx(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("удалена заявка", zap.Uint64("id", id), zap.Uint64("manager_id", actor.ID))
	return nil
}

// AddComment: комментарий оставляет только назначенный на заявку специалист.
func (s *RequestService) AddComment(ctx context.Context, requestID uint64, payload dto.CreateCommentDTO) (*dto.CommentDTO, error) {
	actor, err := currentActor(ctx, s.userRepo)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(payload.Message) == "" {
		return nil, apperrors.NewValidationError("текст комментария не может быть пустым")
	}

	comment := &entities.RequestComment{
		RequestID: requestID,
		MasterID:  actor.ID,
		Message:   payload.Message,
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindRequestForUpdateInTx(ctx, tx, requestID)
		if err != nil {
			return err
		}
		status, err := s.statusRepo.FindStatus(ctx, req.StatusID)
		if err != nil {
			return err
		}
		if !authz.CanAddComment(actor, stateFromEntity(req, status.IsFinal)) {
			return apperrors.NewPermissionDeniedError(actor.RoleName, string(authz.CommentAdd))
		}
		return s.commentRepo.CreateCommentInTx(ctx, tx, comment)
	})
	if err != nil {
		return nil, err
	}

	return &dto.CommentDTO{
		ID:        comment.ID,
		RequestID: comment.RequestID,
		Master:    dto.ShortUserDTO{ID: actor.ID, Fio: actor.Fio},
		Message:   comment.Message,
		CreatedAt: comment.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (s *RequestService) GetComments(ctx context.Context, requestID uint64) ([]dto.CommentDTO, error) {
	actor, err := currentActor(ctx, s.userRepo)
	if err != nil {
		return nil, err
	}

	req, err := s.requestRepo.FindRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !authz.CanViewRequest(actor, stateFromDTO(req)) {
		return nil, apperrors.NewPermissionDeniedError(actor.RoleName, string(authz.RequestView))
	}
	return s.commentRepo.GetCommentsByRequest(ctx, requestID)
}
