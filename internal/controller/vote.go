package controller

import (
	"errors"
	"net/http"

	ctx "github.com/krakosik/guessing/internal/context"
	"github.com/krakosik/guessing/internal/dto"
	"github.com/krakosik/guessing/internal/model"
	"github.com/krakosik/guessing/internal/service"
	"github.com/labstack/echo/v4"
)

type VoteController interface {
	RecordVote(c echo.Context) error
}

type voteController struct {
	voteService service.VoteService
}

func newVoteController(voteService service.VoteService) VoteController {
	return &voteController{
		voteService: voteService,
	}
}

type voteRequest struct {
	Name   string `json:"name"`
	Choice string `json:"choice"`
}

func (v *voteController) RecordVote(c echo.Context) error {
	var request voteRequest
	if err := c.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	choice, err := model.ParseChoice(request.Choice)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	vote, err := v.voteService.RecordVote(c.Request().Context(), request.Name, choice)
	if err != nil {
		ctx.GetLoggerFromContext(c.Request().Context()).Errorf("Failed to record vote: %v", err)
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, vote)
}

func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, dto.ErrInvalidVote):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, dto.ErrWriteFailure):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "vote could not be saved, try again")
	case errors.Is(err, dto.ErrReadFailure):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "tally unavailable, try again")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, dto.ErrInternalFailure.Error())
	}
}
