package middlewarectx

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User имя учётной записи.
	User Key = "username"
	// Role роль учётной записи.
	Role Key = "role"
	// UserUID UID учётной записи.
	UserUID Key = "user_uid"
)
