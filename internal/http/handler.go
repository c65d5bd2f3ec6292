package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"delivery-advisor/internal/config"
	"delivery-advisor/internal/line"
	"delivery-advisor/internal/service"
)

type Handler struct {
	orderService *service.OrderService
	lineClient   *line.Client
	config       *config.Config
	log          zerolog.Logger
}

func NewHandler(
	orderService *service.OrderService,
	lineClient *line.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		orderService: orderService,
		lineClient:   lineClient,
		config:       cfg,
		log:          log,
	}
}

func (h *Handler) Register(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	// LINE webhook plus a reachability probe for the bot console.
	r.POST("/callback", h.lineCallback)
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "delivery advisor is running"})
	})

	public := r.Group("/api/v1")
	{
		public.POST("/orders/analyze", h.analyzeOrder)
		public.GET("/orders", h.listOrders)
	}

	protected := r.Group("/api/v1")
	protected.Use(authMiddleware)
	{
		protected.GET("/orders/export", h.exportOrders)
		protected.GET("/blacklist", h.listBlacklist)
		protected.POST("/blacklist", h.addBlacklistKeyword)
		protected.DELETE("/blacklist/:id", h.removeBlacklistKeyword)
	}
}

func (h *Handler) lineCallback(c *gin.Context) {
	if !h.lineClient.Enabled() {
		c.JSON(http.StatusServiceUnavailable, errorResponse("line channel is not configured"))
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("failed to read body"))
		return
	}

	if !h.lineClient.ValidateSignature(body, c.GetHeader("X-Line-Signature")) {
		h.log.Warn().Str("remote_addr", c.ClientIP()).Msg("invalid line webhook signature")
		c.JSON(http.StatusBadRequest, errorResponse("invalid signature"))
		return
	}

	events, err := line.ParseWebhook(body)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to parse line webhook")
		c.JSON(http.StatusBadRequest, errorResponse("invalid webhook payload"))
		return
	}

	for _, ev := range events {
		h.handleLineEvent(c.Request.Context(), ev)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) handleLineEvent(ctx context.Context, ev line.Event) {
	if ev.Type != "message" || ev.ReplyToken == "" {
		return
	}

	switch ev.Message.Type {
	case "image":
		image, err := h.lineClient.GetMessageContent(ctx, ev.Message.ID)
		if err != nil {
			h.log.Error().Err(err).Str("message_id", ev.Message.ID).Msg("failed to download line image")
			h.reply(ctx, ev.ReplyToken, "讀取圖片失敗，請重新傳送訂單截圖")
			return
		}

		_, report, err := h.orderService.AnalyzeImage(ctx, image)
		if err != nil {
			h.log.Error().Err(err).Str("message_id", ev.Message.ID).Msg("failed to analyze line image")
			h.reply(ctx, ev.ReplyToken, "分析失敗，請稍後再試")
			return
		}
		h.reply(ctx, ev.ReplyToken, report)

	case "text":
		// Some users paste the OCR text instead of sending a screenshot.
		_, report, err := h.orderService.AnalyzeText(ctx, ev.Message.Text, nil, nil)
		if err != nil {
			if errors.Is(err, service.ErrInvalidInput) {
				h.reply(ctx, ev.ReplyToken, "請傳送外送訂單截圖，我會幫你判斷要不要接單")
				return
			}
			h.log.Error().Err(err).Msg("failed to analyze line text message")
			h.reply(ctx, ev.ReplyToken, "分析失敗，請稍後再試")
			return
		}
		h.reply(ctx, ev.ReplyToken, report)
	}
}

func (h *Handler) reply(ctx context.Context, replyToken, text string) {
	if err := h.lineClient.ReplyText(ctx, replyToken, text); err != nil {
		h.log.Error().Err(err).Msg("failed to send line reply")
	}
}

type analyzeRequest struct {
	Text        string   `json:"text" binding:"required"`
	DistanceKm  *float64 `json:"distance_km"`
	DurationMin *float64 `json:"duration_min"`
}

func (h *Handler) analyzeOrder(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	o, report, err := h.orderService.AnalyzeText(c.Request.Context(), req.Text, req.DistanceKm, req.DurationMin)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order":  o,
		"report": report,
	})
}

func (h *Handler) listOrders(c *gin.Context) {
	platform := strings.TrimSpace(c.Query("platform"))

	limit := 50
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	offset := 0
	if o := c.Query("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), platform, limit, offset)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(orders))
}

func (h *Handler) exportOrders(c *gin.Context) {
	platform := strings.TrimSpace(c.Query("platform"))

	f, err := h.orderService.ExportOrders(c.Request.Context(), platform)
	if err != nil {
		h.handleError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", `attachment; filename="orders.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		h.log.Error().Err(err).Msg("failed to stream orders workbook")
	}
}

func (h *Handler) listBlacklist(c *gin.Context) {
	keywords, err := h.orderService.ListBlacklist(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(keywords))
}

type addKeywordRequest struct {
	Keyword string  `json:"keyword" binding:"required"`
	Note    *string `json:"note"`
}

func (h *Handler) addBlacklistKeyword(c *gin.Context) {
	var req addKeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	id, err := h.orderService.AddBlacklistKeyword(c.Request.Context(), req.Keyword, req.Note)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":     "ok",
		"keyword_id": id.String(),
		"keyword":    strings.TrimSpace(req.Keyword),
	})
}

func (h *Handler) removeBlacklistKeyword(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid keyword id"))
		return
	}

	if err := h.orderService.RemoveBlacklistKeyword(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func successResponse(data interface{}) gin.H {
	return gin.H{
		"data": data,
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}
