package repository

import (
	"errors"
	"fmt"
	"time"

	"backend/internal/app/auction"
	"backend/internal/app/ds"

	"gorm.io/gorm"
)

// Методы для работы с аукционами

// normalizeAuction приводит поля расписания к каноническому виду на границе
// хранилища: время всегда HH:MM:SS без дробной части. Ядро со входными
// форматами не разбирается
func normalizeAuction(a *ds.Auction) {
	if len(a.StartTime) == 5 { // HH:MM
		a.StartTime = a.StartTime + ":00"
	}
	if len(a.StartTime) > 8 { // HH:MM:SS.fff
		a.StartTime = a.StartTime[:8]
	}
	if len(a.Date) > 10 { // YYYY-MM-DDT...
		a.Date = a.Date[:10]
	}
}

// CreateAuction создаёт аукцион в статусе pending с очередным кодом AUC-NNNN
func (r *Repository) CreateAuction(a *ds.Auction) error {
	if a.StepAmount <= 0 || a.CeilingPrice <= 0 || a.StepAmount >= a.CeilingPrice {
		return errors.New("шаг ставки должен быть положительным и меньше потолочной цены")
	}
	if !ds.ValidCurrency(a.Currency) {
		return errors.New("неподдерживаемая валюта")
	}

	normalizeAuction(a)
	a.Status = ds.StatusPending
	a.CreatedAt = time.Now()

	// Код выдаётся монотонно от последнего существующего
	return r.db.Transaction(func(tx *gorm.DB) error {
		var maxID uint
		row := tx.Model(&ds.Auction{}).Select("COALESCE(MAX(id), 0)").Row()
		if err := row.Scan(&maxID); err != nil {
			return err
		}
		a.Code = fmt.Sprintf("AUC-%04d", maxID+1)
		return tx.Create(a).Error
	})
}

// GetAuctionByID возвращает аукцион с нормализованным расписанием
func (r *Repository) GetAuctionByID(id uint) (*ds.Auction, error) {
	var a ds.Auction
	err := r.db.Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	normalizeAuction(&a)
	return &a, nil
}

// GetAuctions возвращает список аукционов с фильтрацией по статусу и датам.
// creatorID сужает выборку до собственных аукционов организатора
func (r *Repository) GetAuctions(status string, dateFrom, dateTo *time.Time, creatorID *uint) ([]ds.Auction, error) {
	query := r.db.Preload("Creator").Order("created_at DESC")

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if dateFrom != nil {
		query = query.Where("created_at >= ?", *dateFrom)
	}
	if dateTo != nil {
		query = query.Where("created_at <= ?", *dateTo)
	}
	if creatorID != nil {
		query = query.Where("creator_id = ?", *creatorID)
	}

	var auctions []ds.Auction
	if err := query.Find(&auctions).Error; err != nil {
		return nil, err
	}
	for i := range auctions {
		normalizeAuction(&auctions[i])
	}
	return auctions, nil
}

// ListOpenAuctions - все аукционы, чей статус ещё может сменить планировщик
func (r *Repository) ListOpenAuctions() ([]ds.Auction, error) {
	var auctions []ds.Auction
	err := r.db.Where("status IN ?", []ds.AuctionStatus{ds.StatusApproved, ds.StatusLive}).Find(&auctions).Error
	if err != nil {
		return nil, err
	}
	for i := range auctions {
		normalizeAuction(&auctions[i])
	}
	return auctions, nil
}

// UpdateAuctionStatus переводит аукцион в новый статус с оптимистичной
// проверкой ожидаемого текущего. Ноль затронутых строк - конфликт:
// кто-то успел изменить статус раньше
func (r *Repository) UpdateAuctionStatus(id uint, to, expected ds.AuctionStatus) error {
	result := r.db.Model(&ds.Auction{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

// UpdateAuctionFields обновляет параметры аукциона, пока он в статусе pending
func (r *Repository) UpdateAuctionFields(id uint, title, description *string, date, startTime *string, durationMinutes *int, ceilingPrice, stepAmount *float64) error {
	updates := map[string]interface{}{}
	if title != nil {
		updates["title"] = *title
	}
	if description != nil {
		updates["description"] = *description
	}
	if date != nil {
		updates["date"] = *date
	}
	if startTime != nil {
		updates["start_time"] = *startTime
	}
	if durationMinutes != nil {
		updates["duration_minutes"] = *durationMinutes
	}
	if ceilingPrice != nil {
		updates["ceiling_price"] = *ceilingPrice
	}
	if stepAmount != nil {
		updates["step_amount"] = *stepAmount
	}
	if len(updates) == 0 {
		return nil
	}

	result := r.db.Model(&ds.Auction{}).
		Where("id = ? AND status = ?", id, ds.StatusPending).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("аукцион нельзя изменить - неверный статус или ID")
	}
	return nil
}

// ApproveAuction утверждает аукцион модератором
func (r *Repository) ApproveAuction(id uint, moderatorID uint) error {
	now := time.Now()
	result := r.db.Model(&ds.Auction{}).
		Where("id = ? AND status = ?", id, ds.StatusPending).
		Updates(map[string]interface{}{
			"status":      ds.StatusApproved,
			"approver_id": moderatorID,
			"approved_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("утвердить можно только аукцион в статусе pending")
	}
	return nil
}

// RejectAuction отклоняет аукцион модератором с указанием причины
func (r *Repository) RejectAuction(id uint, moderatorID uint, reason string) error {
	now := time.Now()
	result := r.db.Model(&ds.Auction{}).
		Where("id = ? AND status = ?", id, ds.StatusPending).
		Updates(map[string]interface{}{
			"status":        ds.StatusRejected,
			"approver_id":   moderatorID,
			"rejected_at":   now,
			"status_reason": reason,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("отклонить можно только аукцион в статусе pending")
	}
	return nil
}

// ============ Приглашения ============

// AddInvitation приглашает поставщика; после старта торгов список неизменяем.
// Проверяем расчётный статус на момент now, а не сохранённый: между стартом
// по расписанию и проходом планировщика в базе ещё может висеть approved
func (r *Repository) AddInvitation(auctionID, bidderID uint, now time.Time) error {
	a, err := r.GetAuctionByID(auctionID)
	if err != nil {
		return err
	}
	if !auction.InvitationsMutable(*a, now) {
		return errors.New("список приглашённых нельзя менять после старта торгов")
	}

	inv := ds.Invitation{
		AuctionID: auctionID,
		BidderID:  bidderID,
		CreatedAt: time.Now(),
	}
	return r.db.Create(&inv).Error
}

func (r *Repository) RemoveInvitation(auctionID, bidderID uint, now time.Time) error {
	a, err := r.GetAuctionByID(auctionID)
	if err != nil {
		return err
	}
	if !auction.InvitationsMutable(*a, now) {
		return errors.New("список приглашённых нельзя менять после старта торгов")
	}

	result := r.db.Where("auction_id = ? AND bidder_id = ?", auctionID, bidderID).Delete(&ds.Invitation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// InvitationExists проверяет, приглашён ли поставщик на аукцион
func (r *Repository) InvitationExists(auctionID, bidderID uint) (bool, error) {
	var count int64
	err := r.db.Model(&ds.Invitation{}).
		Where("auction_id = ? AND bidder_id = ?", auctionID, bidderID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) ListInvitations(auctionID uint) ([]ds.Invitation, error) {
	var invitations []ds.Invitation
	err := r.db.Preload("Bidder").Where("auction_id = ?", auctionID).Find(&invitations).Error
	return invitations, err
}

// ============ Документы ============

func (r *Repository) AddAuctionDocument(doc *ds.AuctionDocument) error {
	doc.CreatedAt = time.Now()
	return r.db.Create(doc).Error
}

func (r *Repository) GetAuctionDocument(id uint) (*ds.AuctionDocument, error) {
	var doc ds.AuctionDocument
	err := r.db.Where("id = ?", id).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *Repository) ListAuctionDocuments(auctionID uint) ([]ds.AuctionDocument, error) {
	var docs []ds.AuctionDocument
	err := r.db.Where("auction_id = ?", auctionID).Find(&docs).Error
	return docs, err
}

func (r *Repository) DeleteAuctionDocument(id uint) error {
	result := r.db.Where("id = ?", id).Delete(&ds.AuctionDocument{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
