package keyboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot/models"
)

// Callback data для ответа на заявку: swap_accept:123 / swap_reject:123
const (
	SwapAccept = "swap_accept:"
	SwapReject = "swap_reject:"
)

// Builder упрощает создание inline клавиатур
type Builder struct {
	rows [][]models.InlineKeyboardButton
}

// NewBuilder создаёт новый builder клавиатуры
func NewBuilder() *Builder {
	return &Builder{
		rows: make([][]models.InlineKeyboardButton, 0),
	}
}

// Row добавляет новый ряд кнопок
func (b *Builder) Row(buttons ...models.InlineKeyboardButton) *Builder {
	if len(buttons) > 0 {
		b.rows = append(b.rows, buttons)
	}
	return b
}

// Button создаёт кнопку
func Button(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// Build создаёт финальную клавиатуру
func (b *Builder) Build() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: b.rows,
	}
}

// SwapResponse клавиатура "принять / отклонить" для входящей заявки
func SwapResponse(requestID int64) *models.InlineKeyboardMarkup {
	id := strconv.FormatInt(requestID, 10)
	return NewBuilder().
		Row(
			Button("✅ Принять", SwapAccept+id),
			Button("🚫 Отклонить", SwapReject+id),
		).
		Build()
}

// ParseSwapResponse разбирает callback data ответа на заявку
func ParseSwapResponse(data string) (requestID int64, accept bool, err error) {
	var raw string
	switch {
	case strings.HasPrefix(data, SwapAccept):
		raw, accept = strings.TrimPrefix(data, SwapAccept), true
	case strings.HasPrefix(data, SwapReject):
		raw = strings.TrimPrefix(data, SwapReject)
	default:
		return 0, false, fmt.Errorf("unknown callback %q", data)
	}

	requestID, err = strconv.ParseInt(raw, 10, 64)
	if err != nil || requestID <= 0 {
		return 0, false, fmt.Errorf("invalid request id in callback %q", data)
	}
	return requestID, accept, nil
}
