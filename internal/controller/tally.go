package controller

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	ctx "github.com/krakosik/guessing/internal/context"
	"github.com/krakosik/guessing/internal/model"
	"github.com/krakosik/guessing/internal/service"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type TallyController interface {
	Tally(c echo.Context) error
	Stream(c echo.Context) error
}

type tallyController struct {
	voteService service.VoteService
}

func newTallyController(voteService service.VoteService) TallyController {
	return &tallyController{
		voteService: voteService,
	}
}

type tallyResponse struct {
	A      int64              `json:"A"`
	B      int64              `json:"B"`
	Total  int64              `json:"total"`
	Share  map[string]float64 `json:"share"`
	Labels model.Labels       `json:"labels"`
	Error  string             `json:"error,omitempty"`
}

func (t *tallyController) response(tally model.Tally) tallyResponse {
	return tallyResponse{
		A:     tally.A,
		B:     tally.B,
		Total: tally.Total(),
		Share: map[string]float64{
			string(model.ChoiceA): tally.Share(model.ChoiceA),
			string(model.ChoiceB): tally.Share(model.ChoiceB),
		},
		Labels: t.voteService.Labels(),
	}
}

func (t *tallyController) Tally(c echo.Context) error {
	tally, err := t.voteService.CurrentTally(c.Request().Context())
	if err != nil {
		ctx.GetLoggerFromContext(c.Request().Context()).Errorf("Failed to read tally: %v", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, t.response(tally))
}

// Stream pushes the current tally over a websocket and then one message per
// change until either side goes away.
func (t *tallyController) Stream(c echo.Context) error {
	logger := ctx.GetLoggerFromContext(c.Request().Context())

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Errorf("Websocket upgrade failed: %v", err)
		return nil
	}
	defer conn.Close()

	streamCtx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	// Holds only the newest message; a slow client skips intermediate tallies.
	updates := make(chan tallyResponse, 1)
	unsubscribe := t.voteService.ObserveTallies(streamCtx, func(tally model.Tally, err error) {
		message := t.response(tally)
		if err != nil {
			message = tallyResponse{Error: err.Error(), Labels: t.voteService.Labels()}
		}
		select {
		case updates <- message:
		default:
			select {
			case <-updates:
			default:
			}
			updates <- message
		}
	})
	defer unsubscribe()

	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-streamCtx.Done():
			return nil
		case message := <-updates:
			if err := conn.WriteJSON(message); err != nil {
				logger.Infof("Tally stream closed: %v", err)
				return nil
			}
			if message.Error != "" {
				logger.Errorf("Tally stream failed: %s", message.Error)
				closing := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "tally unavailable")
				if err := conn.WriteMessage(websocket.CloseMessage, closing); err != nil {
					logger.Debugf("Tally stream close frame not sent: %v", err)
				}
				return nil
			}
		}
	}
}
