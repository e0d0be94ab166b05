package ds

import "time"

// 5. Таблица результатов (аукцион-поставщик, уникальная пара).
// Жизненный цикл: (нет) -> short-listed -> awarded | not_awarded | disqualified,
// not-short-listed для не попавших в шорт-лист, cancel при отмене аукциона.
// В аукционе одновременно не более одной записи awarded
type AuctionResult struct {
	ID            uint         `gorm:"primaryKey"`
	AuctionID     uint         `gorm:"not null;index;uniqueIndex:idx_result_auction_bidder"`
	BidderID      uint         `gorm:"not null;index;uniqueIndex:idx_result_auction_bidder"`
	Status        ResultStatus `gorm:"type:varchar(20);not null"`
	Reason        string       `gorm:"type:text"` // Причина дисквалификации/отмены
	ShortlistedAt *time.Time   `gorm:"default:null"`
	UpdatedAt     time.Time

	Auction Auction `gorm:"foreignKey:AuctionID"`
	Bidder  User    `gorm:"foreignKey:BidderID"`
}
