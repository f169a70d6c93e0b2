package domain

// EventType тип события ленты.
type EventType string

const (
	EventLike   EventType = "LIKE"
	EventReview EventType = "REVIEW"
	EventFriend EventType = "FRIEND"
)

// Operation операция события ленты.
type Operation string

const (
	OperationAdd    Operation = "ADD"
	OperationRemove Operation = "REMOVE"
	OperationUpdate Operation = "UPDATE"
)

// Event запись в ленте событий. Записи только добавляются.
type Event struct {
	ID        int64     `json:"eventId" db:"event_id"`
	Timestamp int64     `json:"timestamp" db:"time_stamp"` // epoch millis
	UserID    int64     `json:"userId" db:"user_id"`
	EntityID  int64     `json:"entityId" db:"entity_id"`
	EventType EventType `json:"eventType" db:"event_type"`
	Operation Operation `json:"operation" db:"operation"`
}
