package boost

import (
	"context"

	"github.com/mgnsk/turnitup/pkg/protocol"
)

var _ protocol.Handler = (*Engine)(nil)

// Handle answers a popup request.
func (e *Engine) Handle(ctx context.Context, req protocol.Request) (protocol.Response, error) {
	if err := req.Validate(); err != nil {
		return protocol.Response{}, err
	}

	switch req.Type {
	case protocol.SetGain:
		gain := e.SetGain(ctx, *req.Gain)
		// The popup is answered without waiting for the platform.
		go func() {
			if e.EnsureGraph() {
				e.ResumeIfSuspended(context.WithoutCancel(ctx))
			}
		}()
		return protocol.Response{Success: true, Gain: gain}, nil

	case protocol.GetGain:
		return protocol.Response{Gain: e.Gain()}, nil

	default:
		count := e.doc.MediaCount()
		return protocol.Response{
			Gain:              e.Gain(),
			AudioContextState: string(e.State()),
			MediaCount:        &count,
		}, nil
	}
}
