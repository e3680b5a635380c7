package handlers

import (
	"time"

	"github.com/Freeeeeet/slotswap/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	slotService *service.SlotService
	swapService *service.SwapService
	location    *time.Location
	logger      *zap.Logger
}

// NewHandlers создаёт новый обработчик команд. Время в сообщениях
// вводится и показывается в location.
func NewHandlers(
	slotService *service.SlotService,
	swapService *service.SwapService,
	location *time.Location,
	logger *zap.Logger,
) *Handlers {
	if location == nil {
		location = time.UTC
	}
	return &Handlers{
		slotService: slotService,
		swapService: swapService,
		location:    location,
		logger:      logger,
	}
}
