package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/slotswap/internal/model"
	"github.com/Freeeeeet/slotswap/internal/service"
	"github.com/labstack/echo/v4"
)

type createSlotRequest struct {
	Title     string   `json:"title"`
	StartTime flexTime `json:"startTime"`
	EndTime   flexTime `json:"endTime"`
	Status    string   `json:"status"`
}

// updateSlotRequest fields are optional; absent or null fields are left unchanged.
type updateSlotRequest struct {
	Title     *string   `json:"title"`
	StartTime *flexTime `json:"startTime"`
	EndTime   *flexTime `json:"endTime"`
	Status    *string   `json:"status"`
}

type availabilityRequest struct {
	Status string `json:"status"`
}

type proposeSwapRequest struct {
	MySlotID    int64 `json:"mySlotId"`
	TheirSlotID int64 `json:"theirSlotId"`
}

type respondSwapRequest struct {
	Accept *bool `json:"accept"`
}

func (s *Server) listMySlots(c echo.Context) error {
	slots, err := s.slots.ListMySlots(c.Request().Context(), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, slots)
}

func (s *Server) createSlot(c echo.Context) error {
	var req createSlotRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	var status model.SlotStatus
	if req.Status != "" {
		parsed, err := model.ParseSlotStatus(req.Status)
		if err != nil {
			return err
		}
		status = parsed
	}

	slot, err := s.slots.CreateSlot(c.Request().Context(), service.CreateSlotParams{
		OwnerID:   callerID(c),
		Title:     req.Title,
		StartTime: req.StartTime.Time,
		EndTime:   req.EndTime.Time,
		Status:    status,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, slot)
}

func (s *Server) updateSlot(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateSlotRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	var patch model.SlotPatch
	if req.Title != nil {
		patch.Title = model.Some(*req.Title)
	}
	if req.StartTime != nil {
		patch.StartTime = model.Some(req.StartTime.Time)
	}
	if req.EndTime != nil {
		patch.EndTime = model.Some(req.EndTime.Time)
	}
	if req.Status != nil {
		status, err := model.ParseSlotStatus(*req.Status)
		if err != nil {
			return err
		}
		patch.Status = model.Some(status)
	}

	slot, err := s.slots.UpdateSlot(c.Request().Context(), callerID(c), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, slot)
}

func (s *Server) setAvailability(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req availabilityRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	status, err := model.ParseSlotStatus(req.Status)
	if err != nil {
		return err
	}

	slot, err := s.slots.SetSlotAvailability(c.Request().Context(), callerID(c), id, status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, slot)
}

func (s *Server) deleteSlot(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := s.slots.DeleteSlot(c.Request().Context(), callerID(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listMarketplace(c echo.Context) error {
	slots, err := s.slots.ListMarketplace(c.Request().Context(), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, slots)
}

func (s *Server) proposeSwap(c echo.Context) error {
	var req proposeSwapRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	swap, err := s.swaps.ProposeSwap(c.Request().Context(), callerID(c), req.MySlotID, req.TheirSlotID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, swap)
}

func (s *Server) respondSwap(c echo.Context) error {
	id, err := pathID(c, "requestId")
	if err != nil {
		return err
	}

	var req respondSwapRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Accept == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "accept is required")
	}

	swap, err := s.swaps.RespondSwap(c.Request().Context(), callerID(c), id, *req.Accept)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, swap)
}

func (s *Server) listRequests(c echo.Context) error {
	requests, err := s.swaps.ListRequests(c.Request().Context(), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, requests)
}
