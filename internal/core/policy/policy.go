package policy

import (
	"context"

	"github.com/jakeobsen/monitoring-plugins/internal/core/check"
	"github.com/jakeobsen/monitoring-plugins/internal/core/notify"
)

type Policy interface {
	Evaluate(ctx context.Context, res check.Result) (*notify.Event, error)
}
