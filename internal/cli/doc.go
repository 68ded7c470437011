// Package cli implements the sysmon command tree.
//
// Every viewing command builds the same pipeline: settings are loaded into a
// config.Holder, a counters.Reader and GPU source feed a sampler.Sampler, and
// the sampler publishes into a snapshot.Store. The presenters (the TUI
// dashboard, the console view, the web view, and one-shot reports) only read
// from the store.
//
// Commands:
//
//	sysmon [monitor]   full-screen dashboard (text report when stdout is not a terminal)
//	sysmon console     clear-and-redraw console view
//	sysmon snapshot    one-shot report as text, JSON, or YAML
//	sysmon serve       local web view with a websocket stream
//	sysmon config      show, init, edit, path, set
//	sysmon doctor      diagnose config, counters, GPU, and outputs
//	sysmon version     build information
package cli
