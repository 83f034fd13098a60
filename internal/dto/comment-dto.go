package dto

type CreateCommentDTO struct {
	Message string `json:"message" validate:"required,min=1"`
}

type CommentDTO struct {
	ID        uint64       `json:"id"`
	RequestID uint64       `json:"request_id"`
	Master    ShortUserDTO `json:"master"`
	Message   string       `json:"message"`
	CreatedAt string       `json:"created_at"`
}
