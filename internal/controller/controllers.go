package controller

import (
	"github.com/krakosik/guessing/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Controllers interface {
	Vote() VoteController
	Tally() TallyController
	Info() InfoController

	Route(e *echo.Echo)
}

type controllers struct {
	voteController  VoteController
	tallyController TallyController
	infoController  InfoController
}

func NewControllers(services service.Services) Controllers {
	return &controllers{
		voteController:  newVoteController(services.Vote()),
		tallyController: newTallyController(services.Vote()),
		infoController:  newInfoController(services.Vote()),
	}
}

func (c controllers) Vote() VoteController {
	return c.voteController
}

func (c controllers) Tally() TallyController {
	return c.tallyController
}

func (c controllers) Info() InfoController {
	return c.infoController
}

func (c controllers) Route(e *echo.Echo) {
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(RequestLogger())

	e.GET("/", c.infoController.Info)

	api := e.Group("/api")
	api.POST("/votes", c.voteController.RecordVote)
	api.GET("/tally", c.tallyController.Tally)
	api.GET("/tally/ws", c.tallyController.Stream)
}
