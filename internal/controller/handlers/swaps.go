package handlers

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/slotswap/internal/controller/formatting"
	"github.com/Freeeeeet/slotswap/internal/controller/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandlePropose обрабатывает команду /propose МОЙ_ID ЧУЖОЙ_ID
func (h *Handlers) HandlePropose(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID, ok := callerID(update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	ids, err := parseIDs(commandArgs(update.Message.Text), 2, "/propose МОЙ_ID ЧУЖОЙ_ID")
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	req, err := h.swapService.ProposeSwap(ctx, userID, ids[0], ids[1])
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	h.sendMessage(ctx, b, chatID, "📨 Заявка отправлена:\n\n"+formatting.FormatSwapRequest(req, h.location), nil)
}

// HandleRequests обрабатывает команду /requests.
// Каждая входящая ожидающая заявка отправляется отдельным сообщением с кнопками.
func (h *Handlers) HandleRequests(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID, ok := callerID(update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	requests, err := h.swapService.ListRequests(ctx, userID)
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	if len(requests.Incoming) == 0 && len(requests.Outgoing) == 0 {
		h.sendMessage(ctx, b, chatID, "📭 Заявок на обмен пока нет.", nil)
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("📥 Входящие: %d\n📤 Исходящие: %d",
		len(requests.Incoming), len(requests.Outgoing)), nil)

	for _, req := range requests.Incoming {
		text := "📥 " + formatting.FormatSwapRequest(req, h.location)
		if req.IsPending() {
			h.sendMessage(ctx, b, chatID, text, keyboard.SwapResponse(req.ID))
			continue
		}
		h.sendMessage(ctx, b, chatID, text, nil)
	}

	for _, req := range requests.Outgoing {
		h.sendMessage(ctx, b, chatID, "📤 "+formatting.FormatSwapRequest(req, h.location), nil)
	}
}

// HandleCallbackQuery обрабатывает нажатия "принять / отклонить"
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	query := update.CallbackQuery
	if query == nil {
		return
	}

	userID := query.From.ID
	answer := func(text string) {
		_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: query.ID,
			Text:            text,
		})
		if err != nil {
			h.logger.Error("Failed to answer callback query", zap.Error(err))
		}
	}

	requestID, accept, err := keyboard.ParseSwapResponse(query.Data)
	if err != nil {
		h.logger.Warn("Unknown callback", zap.String("data", query.Data), zap.Int64("user_id", userID))
		answer("❌ Неверный формат данных")
		return
	}

	req, err := h.swapService.RespondSwap(ctx, userID, requestID, accept)
	if err != nil {
		if !isUserError(err) {
			h.logger.Error("Failed to respond to swap", zap.Int64("request_id", requestID), zap.Error(err))
		}
		answer(ErrorMessage(err))
		return
	}

	display := formatting.GetSwapStatusDisplay(req.Status)
	answer(fmt.Sprintf("%s %s", display.Emoji, display.Text))

	// В личном чате chat_id совпадает с id пользователя
	h.sendMessage(ctx, b, userID, formatting.FormatSwapRequest(req, h.location), nil)
}
