package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"backend/internal/app/auction"
	"backend/internal/app/config"
	"backend/internal/app/dto"
	"backend/internal/app/notify"
	"backend/internal/app/repository"
	"backend/internal/app/role"
	"backend/internal/app/storage"
	"backend/internal/app/workflow"
	"backend/internal/app/ws"
)

// Стабильные машинные коды ошибок API поверх кодов валидатора ставок
const (
	codeNotFound       = "NOT_FOUND"
	codeBadRequest     = "BAD_REQUEST"
	codeStatusConflict = "STATUS_CONFLICT"
	codeInternal       = "INTERNAL_ERROR"
)

// APIHandler содержит обработчики REST API платформы торгов
type APIHandler struct {
	Repository  *repository.Repository
	MinIOClient *storage.MinIOClient
	AuthHandler *AuthHandler
	Workflow    *workflow.Workflow
	Hub         *ws.Hub
	Broadcaster notify.Broadcaster
	Clock       *auction.CivilClock
	Config      *config.Config
}

func NewAPIHandler(
	r *repository.Repository,
	minioClient *storage.MinIOClient,
	authHandler *AuthHandler,
	wf *workflow.Workflow,
	hub *ws.Hub,
	broadcaster notify.Broadcaster,
	clock *auction.CivilClock,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		Repository:  r,
		MinIOClient: minioClient,
		AuthHandler: authHandler,
		Workflow:    wf,
		Hub:         hub,
		Broadcaster: broadcaster,
		Clock:       clock,
		Config:      cfg,
	}
}

// Получение текущего пользователя из контекста
func (h *APIHandler) getUserFromContext(c *gin.Context) (uint, role.Role, error) {
	userID, exists := c.Get("userID")
	if !exists {
		logrus.Warn("userID not found in context")
		return 0, role.Bidder, fmt.Errorf("user not authenticated")
	}

	userRole, _ := c.Get("userRole")
	r, _ := userRole.(role.Role)

	id, ok := userID.(uint)
	if !ok {
		logrus.Errorf("getUserFromContext: invalid userID type: %T", userID)
		return 0, r, fmt.Errorf("invalid user ID")
	}

	return id, r, nil
}

func (h *APIHandler) parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, codeBadRequest, "некорректный идентификатор")
		return 0, false
	}
	return uint(id), true
}

// ============ Вспомогательные функции ============

func (h *APIHandler) errorResponse(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.ErrorResponse{
		Status:  "fail",
		Code:    code,
		Message: message,
	})
}

func (h *APIHandler) successResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := dto.SuccessResponse{
		Status:  "success",
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(statusCode, response)
}

// storeError - ошибки хранилища: 404 для отсутствующих записей,
// 409 для проигранной гонки статусов, иначе 500 без деталей
// (детали отдаются клиенту только в dev-окружении)
func (h *APIHandler) storeError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		h.errorResponse(c, http.StatusNotFound, codeNotFound, "запись не найдена")
	case errors.Is(err, repository.ErrStatusConflict):
		h.errorResponse(c, http.StatusConflict, codeStatusConflict, "статус записи уже изменён, повторите запрос")
	default:
		logrus.Error(context, ": ", err)
		message := "внутренняя ошибка сервера"
		if h.Config.Env == "dev" {
			message = err.Error()
		}
		h.errorResponse(c, http.StatusInternalServerError, codeInternal, message)
	}
}

// workflowError переводит нарушение предусловия итогов в код API
func (h *APIHandler) workflowError(c *gin.Context, err error) {
	codes := map[error]string{
		workflow.ErrAuctionNotEnded:    "AUCTION_NOT_ENDED",
		workflow.ErrAlreadyShortlisted: "ALREADY_SHORTLISTED",
		workflow.ErrNoBids:             "NO_BIDS",
		workflow.ErrNotShortListed:     "NOT_SHORT_LISTED",
		workflow.ErrResultFinal:        "RESULT_FINAL",
		workflow.ErrReasonRequired:     "REASON_REQUIRED",
		workflow.ErrAlreadyCancelled:   "ALREADY_CANCELLED",
		workflow.ErrAuctionRejected:    "AUCTION_REJECTED",
		workflow.ErrAwardDecided:       "AWARD_DECIDED",
	}
	for target, code := range codes {
		if errors.Is(err, target) {
			h.errorResponse(c, http.StatusBadRequest, code, err.Error())
			return
		}
	}
	h.storeError(c, err, "results workflow")
}
