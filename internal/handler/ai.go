package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/GoPolymarket/yieldgate/internal/config"
	"github.com/GoPolymarket/yieldgate/internal/middleware"
	"github.com/GoPolymarket/yieldgate/internal/model"
	"github.com/GoPolymarket/yieldgate/internal/pkg/apperrors"
	"github.com/GoPolymarket/yieldgate/internal/service"
	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	recs       *service.RecommendationService
	analysis   *service.AnalysisService
	strategies *service.StrategyService
	providers  config.ProvidersConfig
}

func NewAIHandler(svcs *service.Services, providers config.ProvidersConfig) *AIHandler {
	return &AIHandler{
		recs:       svcs.Recommendations,
		analysis:   svcs.Analysis,
		strategies: svcs.Strategies,
		providers:  providers,
	}
}

// GenerateRecommendations always answers 200 on handled paths. An empty
// body is treated as an empty request; malformed JSON is rejected.
func (h *AIHandler) GenerateRecommendations(c *gin.Context) {
	var req model.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		_ = c.Error(apperrors.New(apperrors.ErrInvalidRequest, "invalid request body", err))
		return
	}

	resp := h.recs.Generate(c.Request.Context(), req)

	middleware.AddAuditContext(c, "wallet", req.WalletAddress)
	middleware.AddAuditContext(c, "ai_source", resp.Metadata.AISource)
	c.JSON(http.StatusOK, resp)
}

func (h *AIHandler) MarketAnalysis(c *gin.Context) {
	resp := h.analysis.Analyze(c.Request.Context())
	middleware.AddAuditContext(c, "ai_source", resp.DataSource)
	c.JSON(http.StatusOK, resp)
}

func (h *AIHandler) CreateStrategy(c *gin.Context) {
	var req model.CreateStrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.New(apperrors.ErrInvalidRequest, "strategy name is required", err))
		return
	}

	resp, err := h.strategies.Create(req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":             "AI Routes Active",
		"rapidapiConnected":  h.providers.RapidAPI.Active(),
		"openaiConnected":    h.providers.OpenAI.Active(),
		"anthropicConnected": h.providers.Anthropic.Active(),
		"providerOrder":      h.recs.Providers(),
		"timestamp":          time.Now().UTC(),
	})
}
