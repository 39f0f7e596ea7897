//go:build js && wasm

// Command popup is the extension popup.
package main

import (
	"context"

	"github.com/mgnsk/turnitup/pkg/chromeext"
	"github.com/mgnsk/turnitup/pkg/jsutil"
	"github.com/mgnsk/turnitup/pkg/panel"
	"github.com/mgnsk/turnitup/pkg/popupview"
)

func main() {
	ctx := context.Background()
	console := jsutil.NewConsole("TurnItUp:")

	view := popupview.New()
	tabs := chromeext.Tabs{}
	p := panel.New(panel.DefaultConfig(), tabs, tabs, view, console)

	if p.Initialize(ctx) {
		view.Bind(ctx, p)
	}

	select {}
}
