package httpadapter

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"tutien/internal/app/breakthrough"
	"tutien/internal/app/cultivation"
	"tutien/internal/app/ports"
	"tutien/internal/app/replay"
	"tutien/internal/app/shared/playerstore"
	"tutien/internal/app/status"
	"tutien/internal/domain/realm"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// The chat front end has already authenticated the user; its id is trusted as-is.
const playerIDHeader = "X-Player-ID"

type Handler struct {
	CultivationUC  cultivation.UseCase
	BreakthroughUC breakthrough.UseCase
	StatusUC       status.UseCase
	ReplayUC       replay.UseCase
	Catalog        realm.Catalog
	KPI            kpiSnapshotProvider
	Logger         *slog.Logger
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	api := s.Group("/api")
	api.POST("/cultivation/start", h.startCultivation)
	api.POST("/cultivation/complete", h.completeCultivation)
	api.GET("/breakthrough/requirements", h.requirements)
	api.GET("/breakthrough/eligibility", h.eligibility)
	api.POST("/breakthrough/attempt", h.attempt)
	api.GET("/status", h.status)
	api.GET("/replay", h.replay)
	api.GET("/realms", h.realms)

	s.GET("/ops/kpi", h.kpi)
}

func (h Handler) startCultivation(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayer(ctx)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	resp, err := h.CultivationUC.StartSession(c, cultivation.StartRequest{PlayerID: playerID})
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) completeCultivation(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayer(ctx)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	resp, err := h.CultivationUC.CompleteSession(c, cultivation.CompleteRequest{PlayerID: playerID})
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

// requirements answers for ?realm= when given, otherwise for the caller's current realm.
func (h Handler) requirements(c context.Context, ctx *app.RequestContext) {
	if raw := strings.TrimSpace(string(ctx.Query("realm"))); raw != "" {
		idx, err := strconv.Atoi(raw)
		if err != nil {
			writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "realm must be an integer")
			return
		}
		resp, err := h.BreakthroughUC.GetRequirements(c, breakthrough.RequirementsRequest{RealmIndex: idx})
		if err != nil {
			h.fail(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, resp)
		return
	}

	playerID, err := requirePlayer(ctx)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	e, err := h.BreakthroughUC.CanAttempt(c, breakthrough.EligibilityRequest{PlayerID: playerID})
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, breakthrough.RequirementsResponse{
		Requirements: e.Requirements,
		MaxRealm:     e.Requirements == nil,
	})
}

func (h Handler) eligibility(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayer(ctx)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	resp, err := h.BreakthroughUC.CanAttempt(c, breakthrough.EligibilityRequest{PlayerID: playerID})
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) attempt(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayer(ctx)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	resp, err := h.BreakthroughUC.Attempt(c, breakthrough.AttemptRequest{PlayerID: playerID})
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) status(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayer(ctx)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	resp, err := h.StatusUC.Execute(c, status.Request{PlayerID: playerID})
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayer(ctx)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	occurredFrom, _ := strconv.ParseInt(string(ctx.Query("occurred_from")), 10, 64)
	occurredTo, _ := strconv.ParseInt(string(ctx.Query("occurred_to")), 10, 64)
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		PlayerID:     playerID,
		Limit:        limit,
		OccurredFrom: occurredFrom,
		OccurredTo:   occurredTo,
	})
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) realms(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]any{"realms": h.Catalog.All()})
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

var ErrMissingPlayerIDHeader = errors.New("missing x-player-id header")

func requirePlayer(ctx *app.RequestContext) (string, error) {
	playerID := strings.TrimSpace(string(ctx.GetHeader(playerIDHeader)))
	if playerID == "" {
		return "", ErrMissingPlayerIDHeader
	}
	return playerID, nil
}

func (h Handler) fail(ctx *app.RequestContext, err error) {
	if code := writeError(ctx, err); code >= consts.StatusInternalServerError {
		logger := h.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("request failed",
			"route", string(ctx.Path()),
			"player_id", string(ctx.GetHeader(playerIDHeader)),
			"err", err,
		)
	}
}

func writeError(ctx *app.RequestContext, err error) int {
	switch {
	case errors.Is(err, ErrMissingPlayerIDHeader):
		return writeErrorBody(ctx, consts.StatusBadRequest, "missing_player_id", err.Error())
	case errors.Is(err, cultivation.ErrInvalidRequest),
		errors.Is(err, breakthrough.ErrInvalidRequest),
		errors.Is(err, status.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest),
		errors.Is(err, playerstore.ErrMissingPlayerID):
		return writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		return writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		return writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		return writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) int {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
	return status
}
