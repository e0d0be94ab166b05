package dto

import "time"

// ============ Общие структуры ============

// ErrorResponse - единый формат ошибки API. Code - стабильный
// машинный код причины, Message - человекочитаемое описание
type ErrorResponse struct {
	Status  string    `json:"status"`
	Code    string    `json:"code,omitempty"`
	Message string    `json:"message"`
	Hints   *BidHints `json:"hints,omitempty"`
}

// BidHints - ближайшие легальные суммы при нарушении шага ставки
type BidHints struct {
	NearestLower  float64 `json:"nearest_lower"`
	NearestHigher float64 `json:"nearest_higher"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ============ Аукционы ============

type CreateAuctionRequest struct {
	Title           string  `json:"title" binding:"required"`
	Description     string  `json:"description"`
	Date            string  `json:"date" binding:"required"`       // YYYY-MM-DD
	StartTime       string  `json:"start_time" binding:"required"` // HH:MM:SS
	DurationMinutes int     `json:"duration_minutes" binding:"required,gt=0"`
	CeilingPrice    float64 `json:"ceiling_price" binding:"required,gt=0"`
	StepAmount      float64 `json:"step_amount" binding:"required,gt=0"`
	Currency        string  `json:"currency" binding:"required,oneof=INR USD"`
}

type UpdateAuctionRequest struct {
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	Date            *string  `json:"date"`
	StartTime       *string  `json:"start_time"`
	DurationMinutes *int     `json:"duration_minutes" binding:"omitempty,gt=0"`
	CeilingPrice    *float64 `json:"ceiling_price" binding:"omitempty,gt=0"`
	StepAmount      *float64 `json:"step_amount" binding:"omitempty,gt=0"`
}

type AuctionResponse struct {
	ID              uint      `json:"id"`
	Code            string    `json:"code"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Status          string    `json:"status"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	CeilingPrice    float64   `json:"ceiling_price"`
	StepAmount      float64   `json:"step_amount"`
	Currency        string    `json:"currency"`
	Creator         string    `json:"creator,omitempty"` // Логин создателя
	StatusReason    string    `json:"status_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type AuctionListResponse struct {
	Auctions []AuctionResponse `json:"auctions"`
	Total    int               `json:"total"`
}

// AuctionStatusResponse - сохранённый и расчётный статус на момент запроса.
// Расхождение допустимо, пока планировщик не записал расчётный статус
type AuctionStatusResponse struct {
	AuctionID        uint   `json:"auction_id"`
	PersistedStatus  string `json:"persisted_status"`
	CalculatedStatus string `json:"calculated_status"`
	IsLive           bool   `json:"is_live"`
	StartsAt         string `json:"starts_at,omitempty"`
	EndsAt           string `json:"ends_at,omitempty"`
}

type RejectAuctionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type InviteBidderRequest struct {
	BidderID uint `json:"bidder_id" binding:"required"`
}

type InvitationResponse struct {
	BidderID    uint   `json:"bidder_id"`
	Login       string `json:"login"`
	CompanyName string `json:"company_name,omitempty"`
}

// ============ Ставки и рейтинг ============

type PlaceBidRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

// PlaceBidResponse - принятая ставка и позиция поставщика,
// пересчитанная сразу после вставки
type PlaceBidResponse struct {
	BidID   uint      `json:"bid_id"`
	Amount  float64   `json:"amount"`
	BidTime time.Time `json:"bid_time"`
	Rank    int       `json:"rank"`
}

type RankingEntryResponse struct {
	BidderID    uint      `json:"bidder_id"`
	BestAmount  float64   `json:"best_amount"`
	BestBidTime time.Time `json:"best_bid_time"`
	Rank        int       `json:"rank"`
}

type RankingsResponse struct {
	AuctionID uint                   `json:"auction_id"`
	Rankings  []RankingEntryResponse `json:"rankings"`
}

type RankResponse struct {
	AuctionID  uint    `json:"auction_id"`
	BidderID   uint    `json:"bidder_id"`
	Rank       int     `json:"rank"` // 0 - ставок не было
	BestAmount float64 `json:"best_amount,omitempty"`
}

// StandingResponse - позиция в финальном протоколе по последней ставке
type StandingResponse struct {
	BidderID uint      `json:"bidder_id"`
	Amount   float64   `json:"amount"`
	BidTime  time.Time `json:"bid_time"`
}

type StandingsResponse struct {
	AuctionID uint               `json:"auction_id"`
	Standings []StandingResponse `json:"standings"`
}

// ============ Результаты ============

type ResultResponse struct {
	BidderID      uint       `json:"bidder_id"`
	Status        string     `json:"status"`
	Reason        string     `json:"reason,omitempty"`
	ShortlistedAt *time.Time `json:"shortlisted_at,omitempty"`
}

type ResultsListResponse struct {
	AuctionID uint             `json:"auction_id"`
	Results   []ResultResponse `json:"results"`
}

type DisqualifyRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type CancelAuctionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ============ Документы ============

type DocumentResponse struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	FileName string `json:"file_name"`
	URL      string `json:"url,omitempty"`
}

// ============ Пользователи ============

type UserResponse struct {
	ID          uint   `json:"id"`
	Login       string `json:"login"`
	Email       string `json:"email,omitempty"`
	FullName    string `json:"full_name"`
	CompanyName string `json:"company_name,omitempty"`
	Role        int    `json:"role"`
}

type RegisterRequest struct {
	Login       string `json:"login" binding:"required,min=3,max=50"`
	Password    string `json:"password" binding:"required,min=6"`
	Email       string `json:"email" binding:"omitempty,email"`
	FullName    string `json:"full_name" binding:"required"`
	CompanyName string `json:"company_name"`
	Role        int    `json:"role"`
}

type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateUserRequest struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email" binding:"omitempty,email"`
	CompanyName string `json:"company_name"`
	Password    string `json:"password" binding:"omitempty,min=6"`
}
