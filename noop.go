package complog

// NopConsole is a console sink that drops every entry.
type NopConsole struct{}

// Write implements ConsoleSink.
func (NopConsole) Write(Level, string, string, error) {}

var _ ConsoleSink = NopConsole{}
