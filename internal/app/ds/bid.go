package ds

import "time"

// 4. Таблица ставок - только добавление, записи неизменяемы.
// "Текущая ставка" поставщика - его последняя строка, а не обновление прежней.
// ID заодно служит порядком вставки для детерминированного тай-брейка
// при полностью совпадающих сумме и времени
type Bid struct {
	ID        uint      `gorm:"primaryKey"`
	AuctionID uint      `gorm:"not null;index"`
	BidderID  uint      `gorm:"not null;index"`
	Amount    float64   `gorm:"type:decimal(14,2);not null"`
	BidTime   time.Time `gorm:"not null"` // Проставляется сервером при приёме, не клиентом

	Auction Auction `gorm:"foreignKey:AuctionID"`
	Bidder  User    `gorm:"foreignKey:BidderID"`
}
