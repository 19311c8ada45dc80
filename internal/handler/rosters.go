package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/caremesh-dev/shift-roster/internal/dataset"
	"github.com/caremesh-dev/shift-roster/internal/domain"
	"github.com/caremesh-dev/shift-roster/internal/engine"
)

const latestRosterCacheKey = "roster_latest"

func (h *Handler) RunScheduler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode              string `json:"mode" validate:"omitempty,oneof=strict lenient"`
		TimeBudgetSeconds int    `json:"time_budget_seconds" validate:"omitempty,min=1,max=600"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Mode == "" {
		req.Mode = h.config.Scheduler.Mode
	}

	ds, err := dataset.Load(h.config.Data.Dir)
	if err != nil {
		h.errorResponse(w, r, "dataset is not usable: "+err.Error())
		return
	}

	budget := time.Duration(h.config.Scheduler.TimeBudgetSeconds) * time.Second
	if req.TimeBudgetSeconds > 0 {
		budget = time.Duration(req.TimeBudgetSeconds) * time.Second
	}

	eng, err := engine.New(slog.Default(), ds.Staff, ds.Shifts, ds.Constraints, engine.Options{
		Mode:       engine.Mode(req.Mode),
		TimeBudget: budget,
	})
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	roster, err := eng.Run(r.Context())
	if err != nil {
		var cfgErr *engine.ConfigError
		switch {
		case errors.As(err, &cfgErr):
			h.errorResponse(w, r, "requirements cannot be met: "+cfgErr.Error())
		case errors.Is(err, engine.ErrNoSchedule):
			h.publishNotification("roster_failed", domain.RosterFailedMailData{
				Mode:   req.Mode,
				Reason: "no feasible roster within the time budget",
			})
			h.errorResponse(w, r, "no feasible roster could be found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.repository.InsertRoster(roster); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.cacheLatestRoster(roster)

	h.publishNotification("roster_published", domain.RosterPublishedMailData{
		RunID:         roster.RunID,
		Status:        string(roster.Status),
		ShiftCount:    len(roster.Shifts),
		Shortages:     roster.Shortages,
		SolveDuration: roster.SolveDuration.String(),
	})

	h.successResponse(w, r, "roster generated", roster)
}

func (h *Handler) ListRosters(w http.ResponseWriter, r *http.Request) {
	rosters, err := h.repository.ListRosters()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "rosters fetched", rosters)
}

func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	roster, err := h.repository.GetRosterByRunID(runID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "roster not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "roster fetched", roster)
}

func (h *Handler) GetLatestRoster(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	cached, err := h.redisClient.Get(ctx, latestRosterCacheKey).Result()
	if err == nil {
		roster := &domain.Roster{}
		if err := json.Unmarshal([]byte(cached), roster); err == nil {
			h.successResponse(w, r, "roster fetched", roster)
			return
		}
	} else if !errors.Is(err, redis.Nil) {
		slog.Warn("latest roster cache lookup failed", "error", err)
	}

	runID, err := h.repository.GetLatestRunID()
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "no roster has been generated yet")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	roster, err := h.repository.GetRosterByRunID(runID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.cacheLatestRoster(roster)

	h.successResponse(w, r, "roster fetched", roster)
}

// cacheLatestRoster is best effort. A cache miss falls back to the database,
// so failures are logged and otherwise ignored.
func (h *Handler) cacheLatestRoster(roster *domain.Roster) {
	data, err := json.Marshal(roster)
	if err != nil {
		slog.Warn("failed to marshal roster for cache", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	ttl := time.Duration(h.config.Redis.RosterCacheTTL) * time.Second
	if err := h.redisClient.Set(ctx, latestRosterCacheKey, data, ttl).Err(); err != nil {
		slog.Warn("failed to cache latest roster", "error", err)
	}
}

// publishNotification is best effort as well. The run result is already
// persisted by the time a notification goes out.
func (h *Handler) publishNotification(msgType string, data any) {
	msg := domain.NotifyMessage{
		Type: msgType,
		To:   h.config.Operator.Email,
		Data: data,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		slog.Warn("failed to marshal notification", "type", msgType, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.notifyChannel.PublishWithContext(
		ctx,
		"",
		"notify_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		slog.Warn("failed to publish notification", "type", msgType, "error", err)
	}
}
