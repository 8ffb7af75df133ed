package component

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/complog"
	"github.com/hyp3rd/complog/internal/constants"
	"github.com/hyp3rd/complog/internal/dispatch"
	"github.com/hyp3rd/complog/internal/output"
)

// Option customizes a Registry. Options take precedence over the Config they are
// passed with.
type Option func(*Registry)

// WithConsoleSink replaces the console sink shared by every logger of the registry.
func WithConsoleSink(sink complog.ConsoleSink) Option {
	return func(r *Registry) {
		r.console = sink
	}
}

// WithFileSinkFactory replaces the factory building each component's file sink.
// A nil factory makes every logger console-only.
func WithFileSinkFactory(factory complog.FileSinkFactory) Option {
	return func(r *Registry) {
		r.fileFactory = factory
		r.fileFactorySet = true
	}
}

// WithDispatcher runs file writes on d instead of a pool owned by the registry.
// The registry never closes an external dispatcher.
func WithDispatcher(d Dispatcher) Option {
	return func(r *Registry) {
		r.dispatcher = d
	}
}

// WithBuildContext sets the build context used when GetLogger receives none.
func WithBuildContext(build complog.BuildContext) Option {
	return func(r *Registry) {
		r.build = build
	}
}

// Registry maps component names to their loggers. A name maps to the same Logger
// for as long as the registry is not Reset.
type Registry struct {
	mu      sync.Mutex
	loggers map[string]*Logger // nil while uninitialized
	// sinks outlives Reset: a component keeps a single file sink, shared by the
	// loggers handed out for it before and after a reset.
	sinks map[string]complog.FileSink

	config         complog.Config
	console        complog.ConsoleSink
	fileFactory    complog.FileSinkFactory
	fileFactorySet bool
	dispatcher     Dispatcher
	pool           *dispatch.Pool
	build          complog.BuildContext
}

// NewRegistry validates config and builds a registry with its shared console sink,
// file sink factory and worker pool.
func NewRegistry(config complog.Config, opts ...Option) (*Registry, error) {
	err := config.Validate()
	if err != nil {
		return nil, ewrap.Wrap(err, "invalid registry configuration")
	}

	registry := &Registry{config: config}

	for _, opt := range opts {
		if opt != nil {
			opt(registry)
		}
	}

	if registry.console == nil {
		registry.console = newConsoleSink(config)
	}

	if !registry.fileFactorySet && !config.File.Disabled {
		registry.fileFactory = output.NewLineFileFactory(output.FactoryConfig{
			Dir:          config.File.Dir,
			MaxLines:     config.File.MaxLines,
			FileMode:     config.File.FileMode,
			ErrorHandler: config.ErrorHandler,
		})
	}

	if registry.dispatcher == nil {
		registry.pool = dispatch.New(dispatch.Config{
			Workers:      config.Workers,
			QueueSize:    config.QueueSize,
			PanicHandler: config.ErrorHandler,
		})
		registry.dispatcher = registry.pool
	}

	if registry.build == nil {
		registry.build = config.BuildContext()
	}

	registry.loggers = make(map[string]*Logger)
	registry.sinks = make(map[string]complog.FileSink)

	return registry, nil
}

func newConsoleSink(config complog.Config) complog.ConsoleSink {
	if config.Console.Disabled {
		return complog.NopConsole{}
	}

	return output.NewConsoleWriter(output.ConsoleConfig{
		Output:       config.Console.Output,
		Mode:         config.Console.ColorMode,
		TimeFormat:   config.Console.TimeFormat,
		Colors:       config.Console.LevelColors,
		ErrorHandler: config.ErrorHandler,
	})
}

// GetLogger returns the logger of name, creating it on first use. A nil build
// falls back to the registry's build context. Concurrent callers asking for the
// same name get the same Logger.
func (r *Registry) GetLogger(name string, build complog.BuildContext) *Logger {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loggers == nil {
		r.loggers = make(map[string]*Logger)
	}

	if logger, ok := r.loggers[name]; ok {
		return logger
	}

	if build == nil {
		build = r.build
	}

	logger := &Logger{
		name:       name,
		level:      r.initialLevel(name, build),
		policy:     r.config.ThresholdPolicy,
		fileSink:   r.newFileSink(name),
		console:    r.console,
		dispatcher: r.dispatcher,
		onError:    r.config.ErrorHandler,
	}

	r.loggers[name] = logger

	return logger
}

// Components returns the registered names in ascending order, or nil when none are.
func (r *Registry) Components() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.loggers) == 0 {
		return nil
	}

	names := make([]string, 0, len(r.loggers))
	for name := range r.loggers {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Reset forgets every logger. Loggers handed out before stay usable; the next
// GetLogger for their name creates a new instance writing to the same file sink.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.loggers = nil
}

// Flush waits for the pending file writes of every logger.
func (r *Registry) Flush(ctx context.Context) error {
	if r.pool != nil {
		return r.pool.Flush(ctx)
	}

	if flusher, ok := r.dispatcher.(interface{ Flush(ctx context.Context) error }); ok {
		return flusher.Flush(ctx)
	}

	return nil
}

// Close drains the owned pool and closes the file sinks the registry created.
// Loggers keep writing to the console afterwards; their file writes are rejected.
func (r *Registry) Close(ctx context.Context) error {
	errorGroup := ewrap.NewErrorGroup()

	if r.pool != nil {
		err := r.pool.Close(ctx)
		if err != nil {
			errorGroup.Add(err)
		}

		r.emitMetrics(ctx)
	}

	r.mu.Lock()
	sinks := r.sinks
	r.sinks = make(map[string]complog.FileSink)
	r.mu.Unlock()

	for name, sink := range sinks {
		closer, ok := sink.(io.Closer)
		if !ok {
			continue
		}

		err := closer.Close()
		if err != nil {
			errorGroup.Add(ewrap.Wrap(err, "closing file sink").WithMetadata("component", name))
		}
	}

	if errorGroup.HasErrors() {
		return errorGroup
	}

	return nil
}

// Metrics returns a snapshot of the owned pool's metrics. It is zero when the
// registry runs on an external dispatcher.
func (r *Registry) Metrics() complog.DispatchMetrics {
	if r.pool == nil {
		return complog.DispatchMetrics{}
	}

	metrics := r.pool.Metrics()

	return complog.DispatchMetrics{
		Submitted:  metrics.Submitted,
		Completed:  metrics.Completed,
		Overflowed: metrics.Overflowed,
		Panicked:   metrics.Panicked,
		QueueDepth: metrics.QueueDepth,
		Backlog:    metrics.Backlog,
		Pending:    metrics.Pending,
	}
}

// ReportMetrics sends the current metrics to the configured handler and to the
// global dispatch metrics handlers.
func (r *Registry) ReportMetrics(ctx context.Context) {
	r.emitMetrics(ctx)
}

func (r *Registry) emitMetrics(ctx context.Context) {
	metrics := r.Metrics()

	if r.config.MetricsHandler != nil {
		r.config.MetricsHandler(ctx, metrics)
	}

	complog.EmitDispatchMetrics(ctx, metrics)
}

func (r *Registry) initialLevel(name string, build complog.BuildContext) complog.Level {
	if level, ok := r.config.ComponentLevels[name]; ok {
		return level
	}

	return complog.InitialLevel(build)
}

// newFileSink returns the sink of name, building it on first use. Failures are
// reported on the console and leave the logger console-only. Called with r.mu held.
func (r *Registry) newFileSink(name string) complog.FileSink {
	if r.fileFactory == nil {
		return nil
	}

	if sink, ok := r.sinks[name]; ok {
		return sink
	}

	sink, err := r.fileFactory(name)
	if err != nil {
		r.diagnose("Failed to create file sink for component "+name, err)

		return nil
	}

	if sink == nil {
		return nil
	}

	if r.sinks == nil {
		r.sinks = make(map[string]complog.FileSink)
	}

	r.sinks[name] = sink

	return sink
}

// diagnose writes one of the registry's own errors on the console. A panicking
// console sink is reported to the ErrorHandler instead.
func (r *Registry) diagnose(message string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil && r.config.ErrorHandler != nil {
			r.config.ErrorHandler(ewrap.New("console sink panicked").
				WithMetadata("diagnostic", message).
				WithMetadata("panic", fmt.Sprint(recovered)))
		}
	}()

	r.console.Write(complog.ErrorLevel, constants.DiagnosticTag, message, err)
}
