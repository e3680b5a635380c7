package controller

import (
	"context"

	"github.com/Freeeeeet/slotswap/internal/controller/handlers"
	"github.com/Freeeeeet/slotswap/internal/controller/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(botInstance *bot.Bot, cmdHandlers *handlers.Handlers, logger *zap.Logger) *BotController {
	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)

	// Слоты
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/myslots", bot.MatchTypeExact, c.handlers.HandleMySlots)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/newslot", bot.MatchTypePrefix, c.handlers.HandleNewSlot)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/toggle", bot.MatchTypePrefix, c.handlers.HandleToggle)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/deleteslot", bot.MatchTypePrefix, c.handlers.HandleDeleteSlot)

	// Обмен
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/market", bot.MatchTypeExact, c.handlers.HandleMarket)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/propose", bot.MatchTypePrefix, c.handlers.HandlePropose)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/requests", bot.MatchTypeExact, c.handlers.HandleRequests)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, keyboard.SwapAccept, bot.MatchTypePrefix, c.handlers.HandleCallbackQuery)
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, keyboard.SwapReject, bot.MatchTypePrefix, c.handlers.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "myslots", Description: "🗓 Мои слоты"},
		{Command: "newslot", Description: "➕ Создать слот"},
		{Command: "toggle", Description: "🔄 Выставить слот на обмен / снять"},
		{Command: "deleteslot", Description: "🗑 Удалить слот"},
		{Command: "market", Description: "🛒 Слоты для обмена"},
		{Command: "propose", Description: "📨 Предложить обмен"},
		{Command: "requests", Description: "📬 Заявки на обмен"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	c.logger.Info("Bot stopped")
	return nil
}
