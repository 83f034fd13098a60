package entities

// Status — этап жизненного цикла заявки. После финального статуса
// работы по заявке не ожидаются.
type Status struct {
	ID      uint64 `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	IsFinal bool   `json:"is_final" db:"is_final"`
}

// StatusNew — статус по умолчанию для новой заявки.
const StatusNew = "Новая заявка"
