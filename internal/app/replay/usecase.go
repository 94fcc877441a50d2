package replay

import (
	"context"
	"errors"
	"strings"
	"time"

	"tutien/internal/app/ports"
	"tutien/internal/domain/progression"
)

var ErrInvalidRequest = errors.New("invalid replay request")

type UseCase struct {
	Events ports.EventRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.PlayerID) == "" {
		return Response{}, ErrInvalidRequest
	}
	events, err := u.Events.ListByPlayerID(ctx, req.PlayerID, req.Limit)
	if err != nil {
		return Response{}, err
	}
	events = filterByTimeWindow(events, req.OccurredFrom, req.OccurredTo)
	return Response{Events: events, Summary: summarize(events)}, nil
}

func filterByTimeWindow(events []progression.DomainEvent, from, to int64) []progression.DomainEvent {
	if from <= 0 && to <= 0 {
		return events
	}
	out := make([]progression.DomainEvent, 0, len(events))
	for _, evt := range events {
		ts := evt.OccurredAt.Unix()
		if from > 0 && ts < from {
			continue
		}
		if to > 0 && ts > to {
			continue
		}
		out = append(out, evt)
	}
	return out
}

func summarize(events []progression.DomainEvent) Summary {
	s := Summary{}
	var (
		latestAt time.Time
		seen     bool
	)
	// Events arrive newest first, so among equal timestamps the first one seen wins.
	noteRealm := func(evt progression.DomainEvent) {
		if seen && !evt.OccurredAt.After(latestAt) {
			return
		}
		seen = true
		latestAt = evt.OccurredAt
		s.LatestRealm = int(num(evt.Payload["to_realm"]))
	}
	for _, evt := range events {
		switch evt.Type {
		case progression.EventCultivationStarted:
			s.SessionsStarted++
		case progression.EventCultivationCompleted:
			s.SessionsCompleted++
			s.ExperienceFromSession += int(num(evt.Payload["experience_gained"]))
		case progression.EventRealmAdvanced:
			s.RealmsAdvanced++
			noteRealm(evt)
		case progression.EventBreakthroughSuccess:
			s.BreakthroughSuccesses++
			s.RealmsAdvanced++
			noteRealm(evt)
		case progression.EventBreakthroughFailure:
			s.BreakthroughFailures++
		case progression.EventDailyCounterReset:
			s.DailyResets++
		}
	}
	return s
}

func num(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
