package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const helpText = "📚 Справка по командам:\n\n" +
	"Слоты:\n" +
	"/myslots - Мои слоты\n" +
	"/newslot Название; 05.11.2025 08:00; 05.11.2025 09:00 - Создать слот\n" +
	"/toggle ID - Выставить слот на обмен или снять с обмена\n" +
	"/deleteslot ID - Удалить слот\n\n" +
	"Обмен:\n" +
	"/market - Слоты других пользователей, доступные для обмена\n" +
	"/propose МОЙ_ID ЧУЖОЙ_ID - Предложить обмен\n" +
	"/requests - Входящие и исходящие заявки\n\n" +
	"/help - Показать эту справку"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	name := ""
	if update.Message.From != nil {
		name = update.Message.From.FirstName
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Здесь можно выставлять свои слоты в календаре на обмен и меняться ими с другими пользователями.\n\n%s",
		name,
		helpText,
	)

	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText, nil)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText, nil)
}
