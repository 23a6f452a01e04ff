package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/wstring"
	"github.com/wippyai/wstring/config"
)

type options struct {
	text    string
	push    string
	reserve uint
	clear   bool
	owned   bool
}

func main() {
	var (
		configFile  = flag.String("config", "", "Path to YAML config (optional)")
		backend     = flag.String("backend", "", "Override the configured backend (guest|native)")
		text        = flag.String("text", "", "Initial string contents")
		push        = flag.String("push", "", "Text to append")
		reserve     = flag.Uint("reserve", 0, "Additional capacity to reserve before pushing")
		clear       = flag.Bool("clear", false, "Clear the string before reserving and pushing")
		owned       = flag.Bool("owned", false, "Allocate on the foreign heap instead of the foreign stack")
		verbose     = flag.Bool("v", false, "Debug logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if flag.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "Usage: wstr [-config file.yaml] [-text s] [-clear] [-reserve n] [-push s] [-owned]")
		fmt.Fprintln(os.Stderr, "       wstr [-config file.yaml] -i  (interactive mode)")
		os.Exit(1)
	}

	opts := options{text: *text, push: *push, reserve: *reserve, clear: *clear, owned: *owned}
	if err := start(*configFile, *backend, *verbose, *interactive, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func start(configFile, backend string, verbose, interactive bool, opts options) error {
	ctx := context.Background()

	cfg, err := config.LoadOptional(configFile)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if backend != "" {
		cfg.Backend = config.Backend(backend)
	}
	if verbose {
		cfg.Log.Level = "debug"
		cfg.Log.Development = true
	}

	log, err := cfg.Logger()
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	wstring.SetLogger(log.Named("wstring"))

	env, err := cfg.Open(ctx, log)
	if err != nil {
		return fmt.Errorf("open %s runtime: %w", cfg.Backend, err)
	}
	defer env.Close(ctx)
	log.Debug("backend ready", zap.String("backend", string(env.Backend)))

	if interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("interactive mode needs a terminal")
		}
		return runInteractive(env, opts.text)
	}
	return run(os.Stdout, env, opts)
}

// run builds the string, applies the requested mutations and prints the
// result.
func run(w io.Writer, env *config.Env, opts options) error {
	body := func(p wstring.Pinned) error {
		if opts.clear {
			p.Clear()
		}
		if opts.reserve > 0 {
			if err := p.Reserve(opts.reserve); err != nil {
				return fmt.Errorf("reserve: %w", err)
			}
		}
		if opts.push != "" {
			if err := p.PushText(opts.push); err != nil {
				return fmt.Errorf("push: %w", err)
			}
		}
		for _, line := range inspect(env, p.Ref()).lines() {
			fmt.Fprintf(w, "%-10s %s\n", line.label+":", line.value)
		}
		return nil
	}

	if !opts.owned {
		return wstring.LetString(env.Runtime, opts.text, body)
	}
	o, err := wstring.CreateString(env.Runtime, opts.text)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer o.Close()
	return body(o.Pin())
}
