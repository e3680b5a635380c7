package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// LogUpdates пишет в debug каждое входящее обновление и отбрасывает
// сообщения от других ботов
func LogUpdates(logger *zap.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			from := updateSender(update)
			if from == nil {
				logger.Debug("Update without sender skipped", zap.Int64("update_id", update.ID))
				return
			}
			if from.IsBot {
				logger.Debug("Update from bot skipped", zap.Int64("telegram_id", from.ID))
				return
			}

			fields := []zap.Field{
				zap.Int64("update_id", update.ID),
				zap.Int64("telegram_id", from.ID),
			}
			switch {
			case update.Message != nil:
				fields = append(fields, zap.String("text", update.Message.Text))
			case update.CallbackQuery != nil:
				fields = append(fields, zap.String("callback_data", update.CallbackQuery.Data))
			}
			logger.Debug("Update received", fields...)

			next(ctx, b, update)
		}
	}
}

func updateSender(update *models.Update) *models.User {
	switch {
	case update.Message != nil:
		return update.Message.From
	case update.CallbackQuery != nil:
		return &update.CallbackQuery.From
	}
	return nil
}
