//go:build js && wasm

package chromeext

import (
	"context"
	"syscall/js"

	"github.com/mgnsk/turnitup/pkg/jsutil"
	"github.com/mgnsk/turnitup/pkg/protocol"
)

// Logger receives diagnostics.
type Logger interface {
	Warn(args ...any)
}

// Listen answers chrome.runtime messages with h until ctx is done.
//
// Malformed and unknown messages are logged and left unanswered. Every
// valid message is handled in its own goroutine and answered
// asynchronously.
func Listen(ctx context.Context, h protocol.Handler, log Logger) error {
	onMessage, err := api("runtime", "onMessage")
	if err != nil {
		return err
	}

	listener := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) < 3 {
			return false
		}
		message, sendResponse := args[0], args[2]

		raw, err := jsutil.Stringify(message)
		if err != nil {
			log.Warn("unreadable message:", err)
			return false
		}

		req, err := protocol.DecodeRequest([]byte(raw))
		if err != nil {
			log.Warn("ignoring message:", err, protocol.DumpMessage([]byte(raw)))
			return false
		}

		go serve(ctx, h, log, req, sendResponse)

		// Keep the channel open for the asynchronous answer.
		return true
	})

	onMessage.Call("addListener", listener)

	go func() {
		<-ctx.Done()
		onMessage.Call("removeListener", listener)
		listener.Release()
	}()

	return nil
}

func serve(ctx context.Context, h protocol.Handler, log Logger, req protocol.Request, sendResponse js.Value) {
	resp, err := h.Handle(ctx, req)
	if err != nil {
		log.Warn("request failed:", err)
		sendResponse.Invoke()
		return
	}

	b, err := resp.Encode()
	if err != nil {
		log.Warn("request failed:", err)
		sendResponse.Invoke()
		return
	}

	v, err := jsutil.Parse(string(b))
	if err != nil {
		log.Warn("request failed:", err)
		sendResponse.Invoke()
		return
	}

	if err := jsutil.Try(func() { sendResponse.Invoke(v) }); err != nil {
		// The popup closed before the answer.
		log.Warn("could not answer", req.Type, err)
	}
}
