//go:build js && wasm

package chromeext

import (
	"context"

	"github.com/joomcode/errorx"
	"github.com/mgnsk/turnitup/pkg/jsutil"
	"github.com/mgnsk/turnitup/pkg/panel"
	"github.com/mgnsk/turnitup/pkg/protocol"
)

// Tabs queries and messages browser tabs.
type Tabs struct{}

var (
	_ panel.Tabs      = Tabs{}
	_ panel.Transport = Tabs{}
)

// Active returns the active tab of the current window.
func (Tabs) Active(ctx context.Context) (panel.Tab, error) {
	tabs, err := api("tabs")
	if err != nil {
		return panel.Tab{}, err
	}

	promise, err := call(tabs, "query", map[string]any{
		"active":        true,
		"currentWindow": true,
	})
	if err != nil {
		return panel.Tab{}, err
	}

	result, err := jsutil.Await(ctx, promise)
	if err != nil {
		return panel.Tab{}, errorx.Decorate(err, "tabs.query")
	}
	if jsutil.IsNullish(result) || result.Length() == 0 {
		return panel.Tab{}, panel.ErrNoTab.New("no active tab in the current window")
	}

	tab := result.Index(0)
	t := panel.Tab{ID: tab.Get("id").Int()}
	// url is only visible with the activeTab or tabs permission.
	if url := tab.Get("url"); !jsutil.IsNullish(url) {
		t.URL = url.String()
	}
	return t, nil
}

// Send delivers req to the content script of tab tabID and waits for its
// answer.
func (Tabs) Send(ctx context.Context, tabID int, req protocol.Request) (protocol.Response, error) {
	tabs, err := api("tabs")
	if err != nil {
		return protocol.Response{}, err
	}

	b, err := req.Encode()
	if err != nil {
		return protocol.Response{}, err
	}
	message, err := jsutil.Parse(string(b))
	if err != nil {
		return protocol.Response{}, err
	}

	// Only the top frame runs a content script.
	promise, err := call(tabs, "sendMessage", tabID, message, map[string]any{"frameId": 0})
	if err != nil {
		return protocol.Response{}, err
	}

	result, err := jsutil.Await(ctx, promise)
	if err != nil {
		return protocol.Response{}, errorx.Decorate(err, "tabs.sendMessage")
	}
	if jsutil.IsNullish(result) {
		return protocol.Response{}, ErrNoResponse.New("%s to tab %d", req.Type, tabID)
	}

	raw, err := jsutil.Stringify(result)
	if err != nil {
		return protocol.Response{}, err
	}
	return protocol.DecodeResponse([]byte(raw))
}
