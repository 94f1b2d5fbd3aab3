// Package climatewidget implements a self-refreshing climate dashboard.
//
// # Architecture
//
// The service is structured into several key packages:
//   - api: HTTP client for the climate endpoint (the widget's data source)
//     and websocket dialer for the camera
//   - page: HTML document with id-addressed text slots
//   - render: writes readings or the error state into the slots
//   - scheduler: repeating task with an injectable clock
//   - widget: the fetch-render driver tying the above together
//   - httpapi: dashboard page, climate proxy, camera relay, health-check and
//     metrics routes
//   - grpc: gRPC health service reporting the last poll outcome
//   - config, logging, metrics: ambient infrastructure
//
// Key Features
//
//   - Polling:
//     One poll runs at startup and then every interval (60s by default).
//     Each poll is independent; a failure renders "Error" / "Connection
//     failed" and the next poll proceeds as usual.
//
//   - Proxy:
//     /v1/climate/latest forwards to the sensor API and maps upstream
//     failures to 502 or 500.
//
//   - Camera relay:
//     /v1/stream/ws forwards frames from the camera websocket, retrying a
//     failed connection 3 times before giving up; /v1/stream/status reports
//     the number of connected clients.
//
// Example Usage
//
//	p, _ := page.LoadDefault()
//	r, err := render.NewSlotRenderer(p)
//	if err != nil {
//	    log.Fatal(err) // the page lacks a slot
//	}
//	w, _ := widget.NewClimateWidget(api.NewClimateFetcher(url), r)
//	task, _ := w.Start(ctx)
//	defer task.Stop()
package climatewidget
