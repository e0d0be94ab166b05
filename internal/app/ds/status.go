package ds

// Статусы аукциона и результатов - контракт с фронтендом,
// строковые значения менять нельзя

type AuctionStatus string

const (
	StatusPending   AuctionStatus = "pending"
	StatusApproved  AuctionStatus = "approved"
	StatusRejected  AuctionStatus = "rejected"
	StatusLive      AuctionStatus = "live"
	StatusEnded     AuctionStatus = "ended"
	StatusCancelled AuctionStatus = "cancelled"
	// StatusError - только расчётный статус при некорректных данных расписания,
	// в БД не сохраняется
	StatusError AuctionStatus = "error"
)

func ValidAuctionStatus(s AuctionStatus) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusLive, StatusEnded, StatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal сообщает, может ли аукцион ещё менять статус
func (s AuctionStatus) Terminal() bool {
	switch s {
	case StatusRejected, StatusEnded, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransition проверяет допустимость перехода статуса.
// Статус движется только вперёд: pending -> approved -> live -> ended,
// ветки reject из pending и cancel из любого нетерминального состояния.
func (s AuctionStatus) CanTransition(to AuctionStatus) bool {
	switch to {
	case StatusApproved, StatusRejected:
		return s == StatusPending
	case StatusLive:
		return s == StatusApproved
	case StatusEnded:
		return s == StatusApproved || s == StatusLive
	case StatusCancelled:
		return !s.Terminal()
	default:
		return false
	}
}

type ResultStatus string

const (
	ResultShortListed    ResultStatus = "short-listed"
	ResultNotShortListed ResultStatus = "not-short-listed"
	ResultAwarded        ResultStatus = "awarded"
	ResultNotAwarded     ResultStatus = "not_awarded"
	ResultDisqualified   ResultStatus = "disqualified"
	ResultCancel         ResultStatus = "cancel"
)

func ValidResultStatus(s ResultStatus) bool {
	switch s {
	case ResultShortListed, ResultNotShortListed, ResultAwarded,
		ResultNotAwarded, ResultDisqualified, ResultCancel:
		return true
	default:
		return false
	}
}

type Currency string

const (
	CurrencyINR Currency = "INR"
	CurrencyUSD Currency = "USD"
)

func ValidCurrency(c Currency) bool {
	return c == CurrencyINR || c == CurrencyUSD
}
