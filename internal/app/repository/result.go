package repository

import (
	"time"

	"gorm.io/gorm"

	"backend/internal/app/ds"
)

// Методы для работы с результатами аукциона (шорт-лист и решения организатора)

// ListResults возвращает все строки результатов аукциона
func (r *Repository) ListResults(auctionID uint) ([]ds.AuctionResult, error) {
	var results []ds.AuctionResult
	err := r.db.Where("auction_id = ?", auctionID).Order("id ASC").Find(&results).Error
	return results, err
}

// GetResult - строка результата конкретного поставщика
func (r *Repository) GetResult(auctionID, bidderID uint) (*ds.AuctionResult, error) {
	result := &ds.AuctionResult{}
	err := r.db.Where("auction_id = ? AND bidder_id = ?", auctionID, bidderID).First(result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpsertResult создаёт или обновляет строку результата по ключу аукцион+поставщик
func (r *Repository) UpsertResult(auctionID, bidderID uint, status ds.ResultStatus, reason string, shortlistedAt *time.Time) error {
	existing := &ds.AuctionResult{}
	err := r.db.Where("auction_id = ? AND bidder_id = ?", auctionID, bidderID).First(existing).Error
	if err == gorm.ErrRecordNotFound {
		row := ds.AuctionResult{
			AuctionID:     auctionID,
			BidderID:      bidderID,
			Status:        status,
			Reason:        reason,
			ShortlistedAt: shortlistedAt,
		}
		return r.db.Create(&row).Error
	}
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"status": status,
		"reason": reason,
	}
	if shortlistedAt != nil {
		updates["shortlisted_at"] = shortlistedAt
	}
	return r.db.Model(existing).Updates(updates).Error
}

// AwardResult атомарно назначает победителя: целевой поставщик получает
// awarded, остальные участники шорт-листа - not_awarded. Проверка статуса
// и запись выполняются в одной транзакции, чтобы два конкурентных
// назначения не прошли оба
func (r *Repository) AwardResult(auctionID, bidderID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		target := &ds.AuctionResult{}
		err := tx.Where("auction_id = ? AND bidder_id = ?", auctionID, bidderID).First(target).Error
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if target.Status != ds.ResultShortListed {
			return ErrStatusConflict
		}

		err = tx.Model(&ds.AuctionResult{}).
			Where("auction_id = ? AND bidder_id <> ? AND status IN ?",
				auctionID, bidderID, []ds.ResultStatus{ds.ResultShortListed, ds.ResultAwarded}).
			Update("status", ds.ResultNotAwarded).Error
		if err != nil {
			return err
		}

		return tx.Model(target).Update("status", ds.ResultAwarded).Error
	})
}

// CancelAuctionWithResults переводит аукцион в cancelled и проставляет
// статус cancel каждому поставщику из списка в одной транзакции
func (r *Repository) CancelAuctionWithResults(auctionID uint, reason string, bidderIDs []uint, cancelledAt time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&ds.Auction{}).
			Where("id = ? AND status <> ?", auctionID, ds.StatusCancelled).
			Updates(map[string]interface{}{
				"status":        ds.StatusCancelled,
				"status_reason": reason,
				"cancelled_at":  cancelledAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusConflict
		}

		store := r.withTx(tx)
		for _, bidderID := range bidderIDs {
			if err := store.UpsertResult(auctionID, bidderID, ds.ResultCancel, reason, nil); err != nil {
				return err
			}
		}
		return nil
	})
}
