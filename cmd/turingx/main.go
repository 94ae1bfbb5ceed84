// Command turingx runs a three-tape machine on one or more inputs.
//
//	turingx -input aabbcc
//	turingx -machine abc.cue -input - < inputs.txt
//	turingx -step -interval 200ms -listen :8080 -input aaabbbccc
//
// Exit status is 0 when every input is accepted, 1 when any is rejected and
// 2 on usage, configuration or runtime errors.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/comalice/turingx"
	"github.com/comalice/turingx/internal/config"
	"github.com/comalice/turingx/internal/core"
	"github.com/comalice/turingx/internal/extensibility"
	"github.com/comalice/turingx/internal/production"
	"github.com/comalice/turingx/realtime"
)

const (
	exitAccepted = 0
	exitRejected = 1
	exitError    = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	machine  string
	input    string
	step     bool
	interval time.Duration
	maxSteps int
	dot      bool
	history  bool
	trace    bool
	json     bool
	listen   string
	persist  string
	dataDir  string
}

func parseFlags(args []string, settings config.Settings, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("turingx", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.machine, "machine", "", "machine definition (.yaml, .yml, .json or .cue); built-in a^n b^n c^n machine when empty")
	fs.StringVar(&o.input, "input", "", `input string split across the three tapes; "-" reads one input per line from stdin`)
	fs.BoolVar(&o.step, "step", false, "pace the run one tick per step")
	fs.DurationVar(&o.interval, "interval", settings.Interval, "tick interval in -step mode")
	fs.IntVar(&o.maxSteps, "max-steps", settings.MaxSteps, "step bound per run; 0 means unbounded")
	fs.BoolVar(&o.dot, "dot", false, "print the transition graph as Graphviz DOT and exit")
	fs.BoolVar(&o.json, "json", false, "print the machine definition as JSON and exit")
	fs.BoolVar(&o.history, "history", false, "print every step of each run")
	fs.BoolVar(&o.trace, "trace", false, "print one line per step while running")
	fs.StringVar(&o.listen, "listen", settings.Listen, "serve the step stream over WebSocket at this address (path /ws)")
	fs.StringVar(&o.persist, "persist", settings.Persist, "save runs as json, yaml or sqlite")
	fs.StringVar(&o.dataDir, "data-dir", settings.DataDir, "directory for persisted runs")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments %v", fs.Args())
	}
	switch o.persist {
	case "", "json", "yaml", "sqlite":
	default:
		return o, fmt.Errorf("-persist must be json, yaml or sqlite, got %q", o.persist)
	}
	if o.maxSteps < 0 {
		return o, fmt.Errorf("-max-steps must not be negative")
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintln(stderr, "turingx:", err)
		return exitError
	}
	logger, _, err := config.NewLogger(settings, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "turingx:", err)
		return exitError
	}
	opts, err := parseFlags(args, settings, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitAccepted
		}
		fmt.Fprintln(stderr, "turingx:", err)
		return exitError
	}

	cfg, err := loadMachine(opts.machine)
	if err != nil {
		logger.Error("load machine", "path", opts.machine, "error", err)
		return exitError
	}
	if missing := cfg.UndeclaredStates(); len(missing) > 0 {
		logger.Warn("states used but not declared", "machine", cfg.ID, "states", fmt.Sprint(missing))
	}

	visualizer := &production.DefaultVisualizer{}
	if opts.dot {
		fmt.Fprint(stdout, visualizer.ExportDOT(cfg, ""))
		return exitAccepted
	}
	if opts.json {
		data, err := visualizer.ExportJSON(cfg)
		if err != nil {
			logger.Error("export json", "machine", cfg.ID, "error", err)
			return exitError
		}
		fmt.Fprintf(stdout, "%s\n", data)
		return exitAccepted
	}

	store, err := openStore(opts)
	if err != nil {
		logger.Error("open run store", "persist", opts.persist, "error", err)
		return exitError
	}
	defer store.Close()

	var publisher core.Publisher
	if opts.listen != "" {
		hub, shutdown, err := serveHub(ctx, opts.listen, logger)
		if err != nil {
			logger.Error("listen", "addr", opts.listen, "error", err)
			return exitError
		}
		defer shutdown()
		publisher = hub
	}

	var (
		source <-chan string
		lines  *extensibility.LineInputSource
	)
	if opts.input == "-" {
		lines = extensibility.NewLineInputSource(ctx, stdin)
		source = lines.Inputs()
	} else {
		single := extensibility.NewChannelInputSource(make(chan string, 1))
		_ = single.Send(context.Background(), opts.input)
		single.Close()
		source = single.Inputs()
	}

	code := exitAccepted
	for input := range source {
		accepted, err := runOne(ctx, cfg, input, opts, runDeps{
			logger:     logger,
			publisher:  publisher,
			visualizer: visualizer,
			store:      store,
			stdout:     stdout,
		})
		if err != nil {
			logger.Error("run", "machine", cfg.ID, "input", input, "error", err)
			return exitError
		}
		if !accepted {
			code = exitRejected
		}
	}
	if lines != nil {
		if err := lines.Err(); err != nil {
			logger.Error("read inputs", "error", err)
			return exitError
		}
	}
	return code
}

func loadMachine(path string) (turingx.MachineConfig, error) {
	if path == "" {
		return turingx.ReferenceConfig(), nil
	}
	return production.LoadMachineConfig(path)
}

type runDeps struct {
	logger     *slog.Logger
	publisher  core.Publisher
	visualizer core.Visualizer
	store      runStore
	stdout     io.Writer
}

func runOne(ctx context.Context, cfg turingx.MachineConfig, input string, opts options, deps runDeps) (bool, error) {
	runID := production.NewRunID()
	engineOpts := []turingx.Option{
		turingx.WithRunID(runID),
		turingx.WithLogger(deps.logger),
		turingx.WithVisualizer(deps.visualizer),
		turingx.WithObserver(extensibility.LoggingObserver(deps.logger, slog.LevelDebug, cfg.ID)),
	}
	if opts.trace {
		engineOpts = append(engineOpts, turingx.WithObserver(extensibility.TraceObserver(deps.stdout)))
	}
	if deps.publisher != nil {
		engineOpts = append(engineOpts, turingx.WithPublisher(deps.publisher))
	}

	e, err := turingx.NewMachine(cfg, input, engineOpts...)
	if err != nil {
		return false, err
	}

	start := time.Now()
	var accepted bool
	if opts.step {
		p := realtime.NewPacer(e, realtime.Config{TickRate: opts.interval, MaxSteps: opts.maxSteps})
		accepted, err = p.Run(ctx)
	} else {
		accepted, err = e.ExecuteContext(ctx, opts.maxSteps)
	}
	if err != nil {
		return false, err
	}

	if opts.history {
		fmt.Fprint(deps.stdout, production.RenderHistory(e.History().Entries()))
	}
	fmt.Fprintf(deps.stdout, "%s %q %s after %d steps\n", runID, input, e.Status(), e.Steps())
	deps.logger.Info("run finished",
		"machine", cfg.ID,
		"run", runID,
		"status", e.Status().String(),
		"steps", e.Steps(),
		"elapsed", time.Since(start),
	)

	if err := deps.store.Save(ctx, e.Snapshot()); err != nil {
		return false, fmt.Errorf("save run %s: %w", runID, err)
	}
	return accepted, nil
}

// runStore saves finished runs through a persister or the registry.
type runStore interface {
	Save(ctx context.Context, snapshot core.RunSnapshot) error
	Close() error
}

type nopStore struct{}

func (nopStore) Save(context.Context, core.RunSnapshot) error { return nil }
func (nopStore) Close() error                                 { return nil }

type persisterStore struct{ core.Persister }

func (persisterStore) Close() error { return nil }

type registryStore struct{ *production.SQLiteRegistry }

func (s registryStore) Save(ctx context.Context, snapshot core.RunSnapshot) error {
	return s.Register(ctx, snapshot)
}

func openStore(opts options) (runStore, error) {
	switch opts.persist {
	case "json":
		p, err := production.NewJSONPersister(opts.dataDir)
		if err != nil {
			return nil, err
		}
		return persisterStore{p}, nil
	case "yaml":
		p, err := production.NewYAMLPersister(opts.dataDir)
		if err != nil {
			return nil, err
		}
		return persisterStore{p}, nil
	case "sqlite":
		if err := os.MkdirAll(opts.dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", opts.dataDir, err)
		}
		r, err := production.OpenSQLiteRegistry(filepath.Join(opts.dataDir, "runs.db"))
		if err != nil {
			return nil, err
		}
		return registryStore{r}, nil
	default:
		return nopStore{}, nil
	}
}

// serveHub starts the WebSocket hub and its HTTP server. shutdown stops both.
func serveHub(ctx context.Context, addr string, logger *slog.Logger) (*production.Hub, func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}
	hub := production.NewHub(logger)
	hubCtx, cancel := context.WithCancel(ctx)
	go hub.Run(hubCtx)

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serve step stream", "error", err)
		}
	}()
	logger.Info("serving step stream", "addr", ln.Addr().String(), "path", "/ws")

	shutdown := func() {
		_ = hub.Close()
		cancel()
		sctx, scancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer scancel()
		_ = srv.Shutdown(sctx)
	}
	return hub, shutdown, nil
}
