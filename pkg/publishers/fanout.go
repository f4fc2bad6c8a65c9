package publishers

import (
	"context"
	"errors"
	"fmt"
)

// Fanout delivers each quote event to every configured publisher.
type Fanout struct {
	publishers []Publisher
	log        Logger
}

// NewFanout drops nil entries; a nil logger is replaced with a no-op.
func NewFanout(pubs []Publisher, log Logger) *Fanout {
	cp := make([]Publisher, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			cp = append(cp, p)
		}
	}
	return &Fanout{publishers: cp, log: ensureLogger(log)}
}

// Publish returns how many publishers accepted the event along with the
// joined failures of the rest. One failing sink never blocks the others.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f == nil || len(f.publishers) == 0 {
		return 0, nil
	}

	var errs []error
	delivered := 0
	for _, p := range f.publishers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := p.Publish(ctx, evt); err != nil {
			f.log.WarnObj("quote event not delivered", "publisher_failure", map[string]any{
				"publisher_id":   p.ID(),
				"publisher_type": p.Type(),
				"pair":           evt.Pair,
				"error":          err.Error(),
			})
			errs = append(errs, fmt.Errorf("%s publisher[%s]: %w", p.Type(), p.ID(), err))
			continue
		}
		delivered++
	}
	return delivered, errors.Join(errs...)
}

// Size returns the number of active publishers.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.publishers)
}
