package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AnimeshnikLeon/climate-app/internal/dto"
	"github.com/AnimeshnikLeon/climate-app/internal/entities"
	"github.com/AnimeshnikLeon/climate-app/internal/integrity"
)

type CommentRepositoryInterface interface {
	GetCommentsByRequest(ctx context.Context, requestID uint64) ([]dto.CommentDTO, error)
	CreateCommentInTx(ctx context.Context, tx pgx.Tx, comment *entities.RequestComment) error
}

type commentRepository struct {
	storage *pgxpool.Pool
}

func NewCommentRepository(storage *pgxpool.Pool) CommentRepositoryInterface {
	return &commentRepository{storage: storage}
}

func (r *commentRepository) GetCommentsByRequest(ctx context.Context, requestID uint64) ([]dto.CommentDTO, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT rc.id, rc.request_id, rc.master_id, u.fio, rc.message, rc.created_at
		 FROM request_comments rc
		 JOIN users u ON u.id = rc.master_id
		 WHERE rc.request_id = $1
		 ORDER BY rc.created_at, rc.id`,
		requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения комментариев заявки: %w", err)
	}
	defer rows.Close()

	comments := make([]dto.CommentDTO, 0)
	for rows.Next() {
		var (
			c         dto.CommentDTO
			createdAt time.Time
		)
		if err := rows.Scan(&c.ID, &c.RequestID, &c.Master.ID, &c.Master.Fio, &c.Message, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt = createdAt.Format(time.RFC3339)
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *commentRepository) CreateCommentInTx(ctx context.Context, tx pgx.Tx, comment *entities.RequestComment) error {
	guard := integrity.NewGuard(&pgResolver{q: tx})
	if err := guard.CheckComment(ctx, comment, time.Now()); err != nil {
		return err
	}

	err := tx.QueryRow(ctx,
		`INSERT INTO request_comments (request_id, master_id, message, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		comment.RequestID, comment.MasterID, comment.Message, comment.CreatedAt,
	).Scan(&comment.ID)
	if err != nil {
		return translatePgError(err)
	}
	return nil
}
