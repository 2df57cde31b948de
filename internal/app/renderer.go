package app

import (
	"log"

	"skycast/internal/weather"
)

// Renderer is the presentation boundary. The controller pushes each
// freshly built view (or a user-facing error message) through it; how
// the view becomes pixels is not this package's concern.
type Renderer interface {
	RenderView(v weather.View)
	RenderError(msg string)
}

// LogRenderer writes a one-line summary of each render to the process
// log. It is the default presentation adapter for headless runs.
type LogRenderer struct{}

func (LogRenderer) RenderView(v weather.View) {
	log.Printf("INFO: render %s, %s: %d°%s %s, %d daily, %d hourly, air %s",
		v.Snapshot.City, v.Snapshot.Country,
		v.Snapshot.Temperature, v.Snapshot.TempSymbol,
		v.Snapshot.Condition.Description,
		len(v.Daily), len(v.Hourly), v.Air.Label)
}

func (LogRenderer) RenderError(msg string) {
	log.Printf("ERROR: render: %s", msg)
}
