package handlers

import (
	"context"
	"errors"

	"github.com/Freeeeeet/slotswap/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, errUsage):
		return "❌ " + err.Error()
	case errors.Is(err, model.ErrValidation):
		return "❌ Неверные данные: " + err.Error()
	case errors.Is(err, model.ErrNotFound):
		return "❌ Не найдено"
	case errors.Is(err, model.ErrForbidden):
		return "❌ У вас нет доступа к этому объекту"
	case errors.Is(err, model.ErrSelfSwap):
		return "❌ Нельзя обменяться с самим собой"
	case errors.Is(err, model.ErrSlotNotSwappable):
		return "❌ Слот недоступен для обмена"
	case errors.Is(err, model.ErrSlotLocked):
		return "❌ Слот участвует в активной заявке на обмен"
	case errors.Is(err, model.ErrAlreadyResolved):
		return "❌ На заявку уже ответили"
	case errors.Is(err, model.ErrConflict):
		return "⚠️ Данные изменились одновременно с вашим запросом. Попробуйте ещё раз."
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}

// callerID возвращает Telegram ID отправителя сообщения
func callerID(update *models.Update) (int64, bool) {
	if update.Message == nil || update.Message.From == nil {
		return 0, false
	}
	return update.Message.From.ID, true
}

// replyError отправляет сообщение об ошибке операции
func (h *Handlers) replyError(ctx context.Context, b *bot.Bot, chatID int64, err error) {
	if !isUserError(err) {
		h.logger.Error("Command failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	h.sendMessage(ctx, b, chatID, ErrorMessage(err), nil)
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

func isUserError(err error) bool {
	for _, target := range []error{
		errUsage,
		model.ErrValidation,
		model.ErrNotFound,
		model.ErrForbidden,
		model.ErrSelfSwap,
		model.ErrSlotNotSwappable,
		model.ErrSlotLocked,
		model.ErrAlreadyResolved,
		model.ErrConflict,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
