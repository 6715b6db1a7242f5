// Package httpadapter exposes the simulation over HTTP. It is a thin layer:
// all behavior lives in the game use case.
package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"dominion/internal/app/game"
	"dominion/internal/app/ports"
	"dominion/internal/domain/civ"
)

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

type Handler struct {
	Games *game.UseCase
	KPI   kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	games := s.Group("/api/games")
	games.POST("", h.createGame)
	games.POST("/:id/turns", h.stepTurns)
	games.GET("/:id", h.gameInfo)
	games.GET("/:id/reports", h.reports)
	games.GET("/:id/queues", h.queues)
	games.GET("/:id/queues/:civ", h.queueForCiv)
	games.POST("/:id/save", h.save)
	games.POST("/:id/load", h.load)

	s.GET("/ops/kpi", h.kpi)
}

type createGameRequest struct {
	Settings game.Settings `json:"settings"`
}

func (h Handler) createGame(c context.Context, ctx *app.RequestContext) {
	var body createGameRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeError(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	info, err := h.Games.Create(body.Settings)
	if err != nil {
		if errors.Is(err, game.ErrInvalidSettings) {
			writeError(ctx, consts.StatusBadRequest, "invalid_settings", err.Error())
			return
		}
		writeError(ctx, consts.StatusInternalServerError, "internal", err.Error())
		return
	}
	ctx.JSON(consts.StatusCreated, info)
}

type stepRequest struct {
	Turns int `json:"turns"`
}

type stepResponse struct {
	Reports []ports.TurnReport `json:"reports"`
}

func (h Handler) stepTurns(c context.Context, ctx *app.RequestContext) {
	var body stepRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeError(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	reports, err := h.Games.Step(c, gameID(ctx), body.Turns)
	if err != nil {
		writeGameError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, stepResponse{Reports: reports})
}

func (h Handler) gameInfo(c context.Context, ctx *app.RequestContext) {
	info, err := h.Games.Info(gameID(ctx))
	if err != nil {
		writeGameError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, info)
}

func (h Handler) reports(c context.Context, ctx *app.RequestContext) {
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	reports, err := h.Games.Reports(c, gameID(ctx), limit)
	if err != nil {
		writeGameError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"reports": reports})
}

func (h Handler) queues(c context.Context, ctx *app.RequestContext) {
	states, err := h.Games.Queues(gameID(ctx))
	if err != nil {
		writeGameError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"queues": states})
}

func (h Handler) queueForCiv(c context.Context, ctx *app.RequestContext) {
	civID, err := strconv.ParseUint(ctx.Param("civ"), 10, 32)
	if err != nil {
		writeError(ctx, consts.StatusBadRequest, "invalid_civ_id", "civ id must be numeric")
		return
	}
	state, err := h.Games.QueueFor(gameID(ctx), civ.CivID(civID))
	if err != nil {
		writeGameError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, state)
}

func (h Handler) save(c context.Context, ctx *app.RequestContext) {
	if err := h.Games.Save(c, gameID(ctx)); err != nil {
		writeGameError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"saved": true})
}

func (h Handler) load(c context.Context, ctx *app.RequestContext) {
	if err := h.Games.Load(c, gameID(ctx)); err != nil {
		writeGameError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"loaded": true})
}

func (h Handler) kpi(c context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeError(ctx, consts.StatusNotFound, "kpi_disabled", "kpi recorder not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func gameID(ctx *app.RequestContext) string {
	return ctx.Param("id")
}

func writeGameError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, game.ErrGameNotFound), errors.Is(err, ports.ErrNotFound):
		writeError(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(ctx, consts.StatusRequestTimeout, "canceled", err.Error())
	default:
		writeError(ctx, consts.StatusInternalServerError, "internal", err.Error())
	}
}

func writeError(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{"error": code, "message": message})
}
