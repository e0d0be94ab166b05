package ds

import "time"

// 1. Таблица аукционов (обратные торги - выигрывает наименьшая ставка)
type Auction struct {
	ID          uint          `gorm:"primaryKey"`
	Code        string        `gorm:"type:varchar(20);unique;not null"` // Человекочитаемый код AUC-0001
	Title       string        `gorm:"type:varchar(200);not null"`
	Description string        `gorm:"type:text"`
	Status      AuctionStatus `gorm:"type:varchar(20);not null;default:'pending'"`

	// Расписание: дата и локальное время старта в гражданском часовом поясе,
	// окно торгов [start, start+duration] включительно с обеих сторон
	Date            string `gorm:"type:varchar(10);not null"` // YYYY-MM-DD
	StartTime       string `gorm:"type:varchar(8);not null"`  // HH:MM:SS
	DurationMinutes int    `gorm:"type:int;not null"`

	// Экономика
	CeilingPrice float64  `gorm:"type:decimal(14,2);not null"` // Максимально допустимая ставка
	StepAmount   float64  `gorm:"type:decimal(14,2);not null"` // Минимальный шаг между ставками
	Currency     Currency `gorm:"type:varchar(3);not null;default:'INR'"`

	// Аудит
	CreatorID    uint       `gorm:"not null"`
	ApproverID   *uint      `gorm:"default:null"`
	ApprovedAt   *time.Time `gorm:"default:null"`
	RejectedAt   *time.Time `gorm:"default:null"`
	CancelledAt  *time.Time `gorm:"default:null"`
	StatusReason string     `gorm:"type:text"` // Причина отклонения/отмены

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time

	Creator  User  `gorm:"foreignKey:CreatorID"`
	Approver *User `gorm:"foreignKey:ApproverID"`
}

// 2. Таблица приглашений (многие-ко-многим аукцион-поставщик).
// Ставки принимаются только от приглашённых; после старта торгов список неизменяем
type Invitation struct {
	ID        uint      `gorm:"primaryKey"`
	AuctionID uint      `gorm:"not null;index;uniqueIndex:idx_auction_bidder"`
	BidderID  uint      `gorm:"not null;index;uniqueIndex:idx_auction_bidder"`
	CreatedAt time.Time `gorm:"not null"`

	Auction Auction `gorm:"foreignKey:AuctionID"`
	Bidder  User    `gorm:"foreignKey:BidderID"`
}

// 3. Документы аукциона (техзадание, спецификации), файлы лежат в MinIO
type AuctionDocument struct {
	ID         uint      `gorm:"primaryKey"`
	AuctionID  uint      `gorm:"not null;index"`
	FileName   string    `gorm:"type:varchar(255);not null"` // Имя объекта в MinIO
	Title      string    `gorm:"type:varchar(200)"`
	UploadedBy uint      `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`

	Auction Auction `gorm:"foreignKey:AuctionID"`
}
