package controller

import (
	"net/http"

	"github.com/krakosik/guessing/internal/dto"
	"github.com/krakosik/guessing/internal/model"
	"github.com/krakosik/guessing/internal/service"
	"github.com/labstack/echo/v4"
)

type InfoController interface {
	Info(c echo.Context) error
}

type infoController struct {
	voteService service.VoteService
}

func newInfoController(voteService service.VoteService) InfoController {
	return &infoController{
		voteService: voteService,
	}
}

type infoResponse struct {
	Service string       `json:"service"`
	Backend dto.Backend  `json:"backend"`
	Labels  model.Labels `json:"labels"`
}

func (i *infoController) Info(c echo.Context) error {
	return c.JSON(http.StatusOK, infoResponse{
		Service: "guessing",
		Backend: i.voteService.Backend(),
		Labels:  i.voteService.Labels(),
	})
}
