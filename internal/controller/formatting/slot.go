package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/slotswap/internal/model"
)

// DateTimeLayout формат ввода и вывода даты со временем
const DateTimeLayout = "02.01.2006 15:04"

// FormatDateTime форматирует дату и время
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// FormatInterval форматирует интервал; для одного дня дата не повторяется
func FormatInterval(start, end time.Time) string {
	if start.Year() == end.Year() && start.YearDay() == end.YearDay() {
		return fmt.Sprintf("%s-%s", start.Format(DateTimeLayout), end.Format("15:04"))
	}
	return fmt.Sprintf("%s - %s", start.Format(DateTimeLayout), end.Format(DateTimeLayout))
}

// FormatSlot форматирует слот одной строкой
func FormatSlot(slot *model.Slot, loc *time.Location) string {
	if slot == nil {
		return "🗑 слот удалён"
	}
	display := GetSlotStatusDisplay(slot.Status)
	return fmt.Sprintf("%s #%d %s (%s)",
		display.Emoji,
		slot.ID,
		slot.Title,
		FormatInterval(slot.StartTime.In(loc), slot.EndTime.In(loc)),
	)
}

// FormatSlotList форматирует список слотов с заголовком
func FormatSlotList(title string, slots []*model.Slot, loc *time.Location) string {
	if len(slots) == 0 {
		return title + "\n\nПусто."
	}

	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n")
	for _, slot := range slots {
		sb.WriteString("\n")
		sb.WriteString(FormatSlot(slot, loc))
	}
	return sb.String()
}

// FormatSwapRequest форматирует заявку на обмен
func FormatSwapRequest(req *model.SwapRequest, loc *time.Location) string {
	display := GetSwapStatusDisplay(req.Status)
	return fmt.Sprintf(
		"%s Заявка #%d: %s\n"+
			"  Предлагают: %s\n"+
			"  Просят: %s\n"+
			"  Создана: %s",
		display.Emoji,
		req.ID,
		display.Text,
		FormatSlot(req.OfferedSlot, loc),
		FormatSlot(req.RequestedSlot, loc),
		FormatDateTime(req.CreatedAt.In(loc)),
	)
}
