package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/slotswap/internal/controller/formatting"
)

var errUsage = errors.New("usage")

type usageError struct {
	usage string
}

func (e *usageError) Error() string {
	return "Использование: " + e.usage
}

func (e *usageError) Is(target error) bool {
	return target == errUsage
}

// commandArgs возвращает текст после команды: "/propose 1 2" -> "1 2"
func commandArgs(text string) string {
	_, rest, _ := strings.Cut(strings.TrimSpace(text), " ")
	return strings.TrimSpace(rest)
}

// parseIDs разбирает ровно n положительных идентификаторов
func parseIDs(args string, n int, usage string) ([]int64, error) {
	fields := strings.Fields(args)
	if len(fields) != n {
		return nil, &usageError{usage: usage}
	}

	ids := make([]int64, 0, n)
	for _, f := range fields {
		id, err := strconv.ParseInt(strings.TrimPrefix(f, "#"), 10, 64)
		if err != nil || id <= 0 {
			return nil, &usageError{usage: usage}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// newSlotArgs аргументы /newslot
type newSlotArgs struct {
	Title string
	Start time.Time
	End   time.Time
}

const newSlotUsage = "/newslot Название; 05.11.2025 08:00; 05.11.2025 09:00"

// parseNewSlot разбирает "Название; начало; конец" во времени loc
func parseNewSlot(args string, loc *time.Location) (*newSlotArgs, error) {
	parts := strings.Split(args, ";")
	if len(parts) != 3 {
		return nil, &usageError{usage: newSlotUsage}
	}

	start, err := time.ParseInLocation(formatting.DateTimeLayout, strings.TrimSpace(parts[1]), loc)
	if err != nil {
		return nil, fmt.Errorf("%w (начало)", &usageError{usage: newSlotUsage})
	}
	end, err := time.ParseInLocation(formatting.DateTimeLayout, strings.TrimSpace(parts[2]), loc)
	if err != nil {
		return nil, fmt.Errorf("%w (конец)", &usageError{usage: newSlotUsage})
	}

	return &newSlotArgs{
		Title: strings.TrimSpace(parts[0]),
		Start: start,
		End:   end,
	}, nil
}
