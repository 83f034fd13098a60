package errors

import "fmt"

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenIsNotAccess     = fmt.Errorf("токен не является access-токеном")

	// Авторизация
	ErrEmptyAuthHeader    = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials = fmt.Errorf("неверные учётные данные")
	ErrUnauthorized       = fmt.Errorf("неавторизован")

	// Контекст
	ErrUserIDNotFoundInContext = fmt.Errorf("UserID не найден в контексте запроса")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrConflict   = fmt.Errorf("запись с такими данными уже существует")
	ErrBadRequest = fmt.Errorf("неверный запрос")
)

// PermissionDeniedError — действие недоступно для роли актора.
type PermissionDeniedError struct {
	Role   string
	Action string
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("доступ запрещён: роль «%s» не может выполнить действие «%s»", e.Role, e.Action)
}

func NewPermissionDeniedError(role, action string) error {
	return &PermissionDeniedError{Role: role, Action: action}
}

// ValidationError — ссылка на отсутствующую запись или несоответствие роли.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// InvalidTransitionError — недопустимая смена статуса заявки,
// например повторное открытие финальной заявки специалистом.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("недопустимый переход статуса: «%s» → «%s»", e.From, e.To)
}

func NewInvalidTransitionError(from, to string) error {
	return &InvalidTransitionError{From: from, To: to}
}

// IntegrityViolationError — нарушение инвариантов данных на границе хранилища.
// Поднимается слоем целостности (приложением или триггером БД) и означает,
// что запись пыталась обойти прикладные проверки.
type IntegrityViolationError struct {
	Message string
}

func (e *IntegrityViolationError) Error() string { return e.Message }

func NewIntegrityViolationError(format string, args ...interface{}) error {
	return &IntegrityViolationError{Message: fmt.Sprintf(format, args...)}
}
