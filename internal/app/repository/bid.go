package repository

import (
	"time"

	"backend/internal/app/ds"
)

// Методы для работы со ставками.
// Ставки только добавляются и никогда не изменяются, поэтому
// конкурентные вставки разных поставщиков не конфликтуют

// InsertBid сохраняет принятую ставку с серверной меткой времени
func (r *Repository) InsertBid(auctionID, bidderID uint, amount float64, bidTime time.Time) (*ds.Bid, error) {
	bid := ds.Bid{
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    amount,
		BidTime:   bidTime,
	}
	if err := r.db.Create(&bid).Error; err != nil {
		return nil, err
	}
	return &bid, nil
}

// ListBids возвращает полный набор ставок аукциона в порядке вставки.
// Ранжирование всегда пересчитывается по полному набору
func (r *Repository) ListBids(auctionID uint) ([]ds.Bid, error) {
	var bids []ds.Bid
	err := r.db.Where("auction_id = ?", auctionID).Order("id ASC").Find(&bids).Error
	return bids, err
}

// ListBidderIDs - поставщики, сделавшие хотя бы одну ставку
func (r *Repository) ListBidderIDs(auctionID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&ds.Bid{}).
		Where("auction_id = ?", auctionID).
		Distinct("bidder_id").
		Pluck("bidder_id", &ids).Error
	return ids, err
}
