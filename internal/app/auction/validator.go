package auction

import (
	"fmt"
	"math"
	"time"

	"backend/internal/app/ds"

	"github.com/shopspring/decimal"
)

// Коды отказа ставки - стабильный контракт с фронтендом,
// по ним строится UX объяснения отказа
const (
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeInvalidStepMultiple = "INVALID_STEP_MULTIPLE"
	CodeExceedsCeiling      = "EXCEEDS_CEILING_PRICE"
	CodeAuctionNotLive      = "AUCTION_NOT_LIVE"
	CodeNotInvited          = "NOT_INVITED"
)

// BidError - типизированный отказ валидации ставки.
// Для INVALID_STEP_MULTIPLE заполняются ближайшие легальные суммы
type BidError struct {
	Code          string  `json:"code"`
	Message       string  `json:"message"`
	NearestLower  float64 `json:"nearest_lower,omitempty"`
	NearestHigher float64 `json:"nearest_higher,omitempty"`
}

func (e *BidError) Error() string {
	return e.Message
}

// ValidateBid проверяет ставку по порядку: сумма, кратность шагу, потолок,
// активность торгов, приглашение. Первый провал выигрывает.
// Проверка кратности ведётся в decimal c точностью шага, чтобы двоичная
// арифметика float не давала ложных отказов (999.95 при шаге 0.05 легальна)
func ValidateBid(amount float64, a ds.Auction, invited bool, now time.Time) *BidError {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return &BidError{
			Code:    CodeInvalidAmount,
			Message: "сумма ставки должна быть положительным числом",
		}
	}

	amt := decimal.NewFromFloat(amount)
	step := decimal.NewFromFloat(a.StepAmount)
	if step.IsPositive() && !amt.Mod(step).IsZero() {
		lower := amt.Div(step).Floor().Mul(step)
		higher := lower.Add(step)
		nearestLower, _ := lower.Float64()
		nearestHigher, _ := higher.Float64()
		return &BidError{
			Code: CodeInvalidStepMultiple,
			Message: fmt.Sprintf("ставка должна быть кратна шагу %s %s: ближайшие допустимые %s или %s",
				step.String(), a.Currency, lower.String(), higher.String()),
			NearestLower:  nearestLower,
			NearestHigher: nearestHigher,
		}
	}

	ceiling := decimal.NewFromFloat(a.CeilingPrice)
	if amt.GreaterThan(ceiling) {
		return &BidError{
			Code:    CodeExceedsCeiling,
			Message: fmt.Sprintf("ставка превышает потолочную цену %s %s", ceiling.String(), a.Currency),
		}
	}

	if lv := Evaluate(a, now); !lv.IsLive {
		return &BidError{
			Code:    CodeAuctionNotLive,
			Message: notLiveMessage(lv.Calculated),
		}
	}

	if !invited {
		return &BidError{
			Code:    CodeNotInvited,
			Message: "поставщик не приглашён на этот аукцион",
		}
	}

	return nil
}

// notLiveMessage различает "ещё не начался", "уже закончился" и прочие статусы
func notLiveMessage(calculated ds.AuctionStatus) string {
	switch calculated {
	case ds.StatusApproved:
		return "торги ещё не начались"
	case ds.StatusEnded:
		return "торги уже завершены"
	default:
		return fmt.Sprintf("аукцион не принимает ставки в статусе %s", calculated)
	}
}
