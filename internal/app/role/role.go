package role

// Role определяет уровень доступа пользователя в системе
type Role int

const (
	Bidder    Role = iota // Поставщик - участвует в торгах
	Organizer             // Организатор - создаёт аукционы и приглашает поставщиков
	Moderator             // Модератор - утверждает/отклоняет аукционы, управляет результатами
)

func (r Role) String() string {
	switch r {
	case Bidder:
		return "bidder"
	case Organizer:
		return "organizer"
	case Moderator:
		return "moderator"
	default:
		return "unknown"
	}
}
