package composables

import (
	"context"

	"github.com/iota-uz/agentlists/pkg/constants"
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, constants.RequestID, id)
}

func UseRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(constants.RequestID).(string)
	return id, ok && id != ""
}
