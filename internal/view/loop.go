package view

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"communityhub/pkg/client"
)

const PollInterval = 3 * time.Second

type Refresher interface {
	Refresh(ctx context.Context) error
}

// Poll runs r once, then on every tick of interval and on every bus event
// of one of kinds, until ctx is done. Refresh failures are logged and the
// loop keeps going. All refreshes happen on the calling goroutine.
func Poll(ctx context.Context, bus *client.Bus, r Refresher, interval time.Duration, log zerolog.Logger, kinds ...client.Kind) {
	wanted := make(map[client.Kind]bool, len(kinds))
	for _, k := range kinds {
		wanted[k] = true
	}

	var events <-chan client.Event
	if bus != nil {
		events = bus.Channel(ctx, 16)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	refresh := func(trigger string) {
		if err := r.Refresh(ctx); err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Str("trigger", trigger).Msg("refresh failed")
		}
	}

	refresh("start")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh("poll")
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if len(wanted) == 0 || wanted[ev.Kind] {
				refresh(string(ev.Kind))
			}
		}
	}
}
