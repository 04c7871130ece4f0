package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/GoPolymarket/yieldgate/internal/model"
	"github.com/GoPolymarket/yieldgate/internal/pkg/apperrors"
	"github.com/ethereum/go-ethereum/common"
)

// StrategyService builds strategy records. Nothing is persisted.
type StrategyService struct {
	now func() time.Time
}

func NewStrategyService() *StrategyService {
	return &StrategyService{now: time.Now}
}

func (s *StrategyService) Create(req model.CreateStrategyRequest) (*model.CreateStrategyResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewInvalidRequest("strategy name is required")
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = "AI-generated strategy: " + name
	}

	now := s.now().UTC()
	return &model.CreateStrategyResponse{
		Success: true,
		Strategy: model.Strategy{
			ID:             now.UnixMilli(),
			Name:           name,
			TargetToken:    normalizeToken(req.TargetToken),
			ExpectedAPY:    strings.TrimSpace(req.ExpectedAPY),
			Description:    description,
			IsActive:       true,
			TotalDeposited: "0",
			CreatedAt:      now,
		},
		Message: fmt.Sprintf(`Strategy "%s" created successfully`, name),
	}, nil
}

// normalizeToken checksums hex addresses, defaults to the zero address and
// passes symbols such as "ETH" through.
func normalizeToken(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return common.Address{}.Hex()
	}
	if common.IsHexAddress(token) {
		return common.HexToAddress(token).Hex()
	}
	return token
}
