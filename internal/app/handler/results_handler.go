package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/internal/app/ds"
	"backend/internal/app/dto"
)

func toResultsResponse(auctionID uint, results []ds.AuctionResult) dto.ResultsListResponse {
	resp := dto.ResultsListResponse{AuctionID: auctionID}
	resp.Results = make([]dto.ResultResponse, len(results))
	for i, r := range results {
		resp.Results[i] = dto.ResultResponse{
			BidderID:      r.BidderID,
			Status:        string(r.Status),
			Reason:        r.Reason,
			ShortlistedAt: r.ShortlistedAt,
		}
	}
	return resp
}

// ============ ДОМЕН ИТОГИ ============

// GetAuctionResults возвращает строки результатов аукциона
// @Summary Результаты аукциона
// @Tags Results
// @Produce json
// @Param id path int true "ID аукциона"
// @Security BearerAuth
// @Success 200 {object} dto.ResultsListResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/auctions/{id}/results [get]
func (h *APIHandler) GetAuctionResults(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.Repository.GetAuctionByID(id); err != nil {
		h.storeError(c, err, "Error getting auction")
		return
	}

	results, err := h.Repository.ListResults(id)
	if err != nil {
		h.storeError(c, err, "Error listing results")
		return
	}
	c.JSON(http.StatusOK, toResultsResponse(id, results))
}

// ShortlistAuction формирует шорт-лист завершённого аукциона
// @Summary Формирование шорт-листа
// @Description Лучшие по минимальной ставке участники получают short-listed, остальные not-short-listed; повторный вызов отклоняется
// @Tags Results
// @Produce json
// @Param id path int true "ID аукциона"
// @Security BearerAuth
// @Success 200 {object} dto.ResultsListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/auctions/{id}/shortlist [post]
func (h *APIHandler) ShortlistAuction(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	results, err := h.Workflow.Shortlist(id)
	if err != nil {
		h.workflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResultsResponse(id, results))
}

// AwardBidder назначает победителя аукциона
// @Summary Назначение победителя
// @Description Победитель всегда один: остальные участники шорт-листа атомарно переводятся в not_awarded
// @Tags Results
// @Produce json
// @Param id path int true "ID аукциона"
// @Param bidder_id path int true "ID поставщика"
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/auctions/{id}/award/{bidder_id} [put]
func (h *APIHandler) AwardBidder(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	bidderID, ok := h.parseIDParam(c, "bidder_id")
	if !ok {
		return
	}

	if err := h.Workflow.Award(id, bidderID); err != nil {
		h.workflowError(c, err)
		return
	}
	h.successResponse(c, http.StatusOK, "победитель назначен", nil)
}

// NotAwardBidder отклоняет участника шорт-листа
// @Summary Отклонение участника шорт-листа
// @Tags Results
// @Produce json
// @Param id path int true "ID аукциона"
// @Param bidder_id path int true "ID поставщика"
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/auctions/{id}/not-award/{bidder_id} [put]
func (h *APIHandler) NotAwardBidder(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	bidderID, ok := h.parseIDParam(c, "bidder_id")
	if !ok {
		return
	}

	if err := h.Workflow.NotAward(id, bidderID); err != nil {
		h.workflowError(c, err)
		return
	}
	h.successResponse(c, http.StatusOK, "участник отклонён", nil)
}

// DisqualifyBidder дисквалифицирует участника с указанием причины
// @Summary Дисквалификация участника
// @Tags Results
// @Accept json
// @Produce json
// @Param id path int true "ID аукциона"
// @Param bidder_id path int true "ID поставщика"
// @Param request body dto.DisqualifyRequest true "Причина дисквалификации"
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/auctions/{id}/disqualify/{bidder_id} [put]
func (h *APIHandler) DisqualifyBidder(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	bidderID, ok := h.parseIDParam(c, "bidder_id")
	if !ok {
		return
	}

	var request dto.DisqualifyRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "REASON_REQUIRED", "требуется указать причину дисквалификации")
		return
	}

	if err := h.Workflow.Disqualify(id, bidderID, request.Reason); err != nil {
		h.workflowError(c, err)
		return
	}
	h.successResponse(c, http.StatusOK, "участник дисквалифицирован", nil)
}

// CancelAuction отменяет аукцион
// @Summary Отмена аукциона
// @Description Необратимая ручная отмена; каждый сделавший ставку поставщик получает статус результата cancel с той же причиной
// @Tags Results
// @Accept json
// @Produce json
// @Param id path int true "ID аукциона"
// @Param request body dto.CancelAuctionRequest true "Причина отмены"
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/auctions/{id}/cancel [put]
func (h *APIHandler) CancelAuction(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var request dto.CancelAuctionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "REASON_REQUIRED", "требуется указать причину отмены")
		return
	}

	if err := h.Workflow.CancelAuction(id, request.Reason); err != nil {
		h.workflowError(c, err)
		return
	}

	// уведомляем подписчиков live-канала о ручной остановке торгов
	h.Broadcaster.BroadcastStatusChange(id, ds.StatusCancelled, "Аукцион отменён организатором", h.Clock.Now())

	h.successResponse(c, http.StatusOK, "аукцион отменён", nil)
}
