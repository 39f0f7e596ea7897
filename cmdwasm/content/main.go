//go:build js && wasm

// Command content is the content script. It routes the media of the page
// through a shared gain node and answers the popup.
package main

import (
	"context"

	"github.com/mgnsk/turnitup/pkg/boost"
	"github.com/mgnsk/turnitup/pkg/chromeext"
	"github.com/mgnsk/turnitup/pkg/jsdom"
	"github.com/mgnsk/turnitup/pkg/jsutil"
	"github.com/mgnsk/turnitup/pkg/webaudio"
)

func main() {
	ctx := context.Background()
	console := jsutil.NewConsole("TurnItUp:")

	engine := boost.New(
		webaudio.Backend{},
		jsdom.New(),
		boost.NewItemStore(jsdom.SessionStorage{}, "turnitup:"),
		boost.WithRegistry(jsdom.NewWeakRegistry()),
		boost.WithLogger(console),
	)

	if err := chromeext.Listen(ctx, engine, console); err != nil {
		console.Error("cannot receive messages:", err)
		return
	}

	if err := engine.Start(ctx); err != nil {
		console.Error("initialization failed:", err)
	}

	select {}
}
