package events

import (
	"context"
	"encoding/json"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

func logRuntimeEvent(ctx context.Context, name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		runtime.LogError(ctx, "events: failed to marshal "+name+": "+err.Error())
		return
	}

	line := name + " " + string(data)

	switch typeOf(payload) {
	case EventError:
		runtime.LogError(ctx, line)
	case EventWarn:
		runtime.LogWarning(ctx, line)
	default:
		runtime.LogDebug(ctx, line)
	}
}
