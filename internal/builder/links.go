package builder

import (
	"context"
	"fmt"

	"github.com/vk/paramgraph/internal/ctxlog"
)

// linkNodes performs the fourth pass, connecting pins.
func (b *build) linkNodes(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting node linking pass.", "count", len(b.model.Links))

	for _, l := range b.model.Links {
		if err := b.scene.Connect(l.From, l.To); err != nil {
			b.errs = append(b.errs, fmt.Errorf("link %s -> %s: %w", l.From, l.To, err))
			continue
		}
		logger.Debug("Linked pins.", "from", l.From, "to", l.To)
	}
}
