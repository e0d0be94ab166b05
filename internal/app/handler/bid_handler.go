package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/internal/app/auction"
	"backend/internal/app/dto"
)

// ============ ДОМЕН СТАВКИ И РЕЙТИНГ ============

// PlaceBid принимает ставку поставщика
// @Summary Подача ставки
// @Description Ставка проверяется на сумму, кратность шагу, потолок, активность торгов и приглашение; при успехе возвращается свежая позиция
// @Tags Bids
// @Accept json
// @Produce json
// @Param id path int true "ID аукциона"
// @Param request body dto.PlaceBidRequest true "Сумма ставки"
// @Security BearerAuth
// @Success 201 {object} dto.PlaceBidResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/auctions/{id}/bids [post]
func (h *APIHandler) PlaceBid(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var request dto.PlaceBidRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.errorResponse(c, http.StatusBadRequest, auction.CodeInvalidAmount, "сумма ставки не передана")
		return
	}

	bidderID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, codeBadRequest, "пользователь не авторизован")
		return
	}

	a, err := h.Repository.GetAuctionByID(id)
	if err != nil {
		h.storeError(c, err, "Error getting auction")
		return
	}

	invited, err := h.Repository.InvitationExists(id, bidderID)
	if err != nil {
		h.storeError(c, err, "Error checking invitation")
		return
	}

	// метка времени ставки присваивается сервером и используется
	// и для проверки окна торгов, и для разрешения ничьих
	now := h.Clock.Now()
	if bidErr := auction.ValidateBid(request.Amount, *a, invited, now); bidErr != nil {
		resp := dto.ErrorResponse{
			Status:  "fail",
			Code:    bidErr.Code,
			Message: bidErr.Message,
		}
		if bidErr.Code == auction.CodeInvalidStepMultiple {
			resp.Hints = &dto.BidHints{
				NearestLower:  bidErr.NearestLower,
				NearestHigher: bidErr.NearestHigher,
			}
		}
		status := http.StatusBadRequest
		if bidErr.Code == auction.CodeNotInvited {
			status = http.StatusForbidden
		}
		c.JSON(status, resp)
		return
	}

	bid, err := h.Repository.InsertBid(id, bidderID, request.Amount, now)
	if err != nil {
		h.storeError(c, err, "Error inserting bid")
		return
	}

	bids, err := h.Repository.ListBids(id)
	if err != nil {
		h.storeError(c, err, "Error listing bids")
		return
	}
	entries := auction.Rank(bids)

	// рассылка свежего рейтинга подписчикам, ответ её не ждёт
	h.Broadcaster.BroadcastRankingUpdate(id, entries)

	c.JSON(http.StatusCreated, dto.PlaceBidResponse{
		BidID:   bid.ID,
		Amount:  bid.Amount,
		BidTime: bid.BidTime,
		Rank:    auction.RankOf(entries, bidderID),
	})
}

// GetRank возвращает позицию поставщика в аукционе
// @Summary Позиция поставщика
// @Description Rank равен 0, если поставщик ещё не сделал ни одной ставки
// @Tags Bids
// @Produce json
// @Param id path int true "ID аукциона"
// @Security BearerAuth
// @Success 200 {object} dto.RankResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/auctions/{id}/rank [get]
func (h *APIHandler) GetRank(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	bidderID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, codeBadRequest, "пользователь не авторизован")
		return
	}

	if _, err := h.Repository.GetAuctionByID(id); err != nil {
		h.storeError(c, err, "Error getting auction")
		return
	}

	bids, err := h.Repository.ListBids(id)
	if err != nil {
		h.storeError(c, err, "Error listing bids")
		return
	}

	entries := auction.Rank(bids)
	resp := dto.RankResponse{
		AuctionID: id,
		BidderID:  bidderID,
		Rank:      auction.RankOf(entries, bidderID),
	}
	for _, e := range entries {
		if e.BidderID == bidderID {
			resp.BestAmount = e.BestAmount
			break
		}
	}
	c.JSON(http.StatusOK, resp)
}

// GetRankings возвращает полную таблицу лидеров аукциона
// @Summary Таблица лидеров
// @Description Рейтинг по лучшей (минимальной) ставке каждого участника, пересчитывается на каждый запрос
// @Tags Bids
// @Produce json
// @Param id path int true "ID аукциона"
// @Success 200 {object} dto.RankingsResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/auctions/{id}/rankings [get]
func (h *APIHandler) GetRankings(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.Repository.GetAuctionByID(id); err != nil {
		h.storeError(c, err, "Error getting auction")
		return
	}

	bids, err := h.Repository.ListBids(id)
	if err != nil {
		h.storeError(c, err, "Error listing bids")
		return
	}

	entries := auction.Rank(bids)
	resp := dto.RankingsResponse{AuctionID: id}
	resp.Rankings = make([]dto.RankingEntryResponse, len(entries))
	for i, e := range entries {
		resp.Rankings[i] = dto.RankingEntryResponse{
			BidderID:    e.BidderID,
			BestAmount:  e.BestAmount,
			BestBidTime: e.BestBidTime,
			Rank:        e.Rank,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// GetStandings возвращает финальный протокол по последним ставкам
// @Summary Финальный протокол
// @Description В отличие от таблицы лидеров, финальная позиция каждого участника определяется его последней, а не лучшей ставкой
// @Tags Bids
// @Produce json
// @Param id path int true "ID аукциона"
// @Security BearerAuth
// @Success 200 {object} dto.StandingsResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/auctions/{id}/standings [get]
func (h *APIHandler) GetStandings(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.Repository.GetAuctionByID(id); err != nil {
		h.storeError(c, err, "Error getting auction")
		return
	}

	bids, err := h.Repository.ListBids(id)
	if err != nil {
		h.storeError(c, err, "Error listing bids")
		return
	}

	standings := auction.LastBidStandings(bids)
	resp := dto.StandingsResponse{AuctionID: id}
	resp.Standings = make([]dto.StandingResponse, len(standings))
	for i, s := range standings {
		resp.Standings[i] = dto.StandingResponse{
			BidderID: s.BidderID,
			Amount:   s.Amount,
			BidTime:  s.BidTime,
		}
	}
	c.JSON(http.StatusOK, resp)
}
