package handlers

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/slotswap/internal/controller/formatting"
	"github.com/Freeeeeet/slotswap/internal/model"
	"github.com/Freeeeeet/slotswap/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandleMySlots обрабатывает команду /myslots
func (h *Handlers) HandleMySlots(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID, ok := callerID(update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	slots, err := h.slotService.ListMySlots(ctx, userID)
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	h.sendMessage(ctx, b, chatID, formatting.FormatSlotList("🗓 Мои слоты:", slots, h.location), nil)
}

// HandleNewSlot обрабатывает команду /newslot Название; начало; конец
func (h *Handlers) HandleNewSlot(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID, ok := callerID(update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args, err := parseNewSlot(commandArgs(update.Message.Text), h.location)
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	slot, err := h.slotService.CreateSlot(ctx, service.CreateSlotParams{
		OwnerID:   userID,
		Title:     args.Title,
		StartTime: args.Start,
		EndTime:   args.End,
	})
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf(
		"✅ Слот создан:\n%s\n\nЧтобы выставить его на обмен: /toggle %d",
		formatting.FormatSlot(slot, h.location),
		slot.ID,
	), nil)
}

// HandleToggle обрабатывает команду /toggle ID: BUSY <-> SWAPPABLE
func (h *Handlers) HandleToggle(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID, ok := callerID(update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	ids, err := parseIDs(commandArgs(update.Message.Text), 1, "/toggle ID")
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	current, err := h.slotService.GetSlot(ctx, userID, ids[0])
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	desired := model.SlotStatusSwappable
	if current.Status == model.SlotStatusSwappable {
		desired = model.SlotStatusBusy
	}

	slot, err := h.slotService.SetSlotAvailability(ctx, userID, ids[0], desired)
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	display := formatting.GetSlotStatusDisplay(slot.Status)
	h.sendMessage(ctx, b, chatID, fmt.Sprintf("%s Слот #%d: %s", display.Emoji, slot.ID, display.Text), nil)
}

// HandleDeleteSlot обрабатывает команду /deleteslot ID
func (h *Handlers) HandleDeleteSlot(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID, ok := callerID(update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	ids, err := parseIDs(commandArgs(update.Message.Text), 1, "/deleteslot ID")
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	if err := h.slotService.DeleteSlot(ctx, userID, ids[0]); err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("🗑 Слот #%d удалён", ids[0]), nil)
}

// HandleMarket обрабатывает команду /market
func (h *Handlers) HandleMarket(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID, ok := callerID(update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	slots, err := h.slotService.ListMarketplace(ctx, userID)
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	text := formatting.FormatSlotList("🔄 Доступны для обмена:", slots, h.location)
	if len(slots) > 0 {
		text += "\n\nПредложить обмен: /propose МОЙ_ID ЧУЖОЙ_ID"
	}
	h.sendMessage(ctx, b, chatID, text, nil)
}
