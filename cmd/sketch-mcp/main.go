package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/sketch-shapes-mcp/internal/config"
	"github.com/ironsheep/sketch-shapes-mcp/internal/detection"
	"github.com/ironsheep/sketch-shapes-mcp/internal/fusion"
	"github.com/ironsheep/sketch-shapes-mcp/internal/imaging"
	"github.com/ironsheep/sketch-shapes-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("sketch-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		case "classify":
			if err := runClassify(os.Args[2:]); err != nil {
				log.Fatalf("classify: %v", err)
			}
			return
		case "health":
			if err := runHealth(os.Args[2:]); err != nil {
				log.Fatalf("health: %v", err)
			}
			return
		}
	}

	if err := runServer(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printUsage() {
	fmt.Println("sketch-mcp - MCP server that classifies hand-drawn sketches")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sketch-mcp                      Serve MCP over stdin/stdout")
	fmt.Println("  sketch-mcp classify [options] <image>")
	fmt.Println("  sketch-mcp health [-config file]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Classify options:")
	fmt.Println("  -config file     JSON tuning file")
	fmt.Println("  -debug-out file  Write a PNG overlay of the traced geometry")
	fmt.Println("  -scale n         Overlay magnification, 1 to 16 (default 1)")
	fmt.Println("  -invert          Invert colors first (dark ink on a light page)")
	fmt.Println("  -fused           Also ask the configured model and fuse the answers")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=debug    Enable debug logging\n", config.EnvLogLevel)
	fmt.Printf("  %s=file.json    Tuning file\n", config.EnvConfigPath)
	fmt.Printf("  %s=url    Learned model endpoint\n", config.EnvModelURL)
	fmt.Println()
	fmt.Println("Without a subcommand the server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

// setup resolves the tuning configuration and enables pipeline logging when
// debug output was requested.
func setup(configPath string) (*config.Environment, *config.TuningConfig, error) {
	env := config.LoadEnvironment()
	tuning, err := env.Resolve(configPath)
	if err != nil {
		return nil, nil, err
	}

	if env.Debug() || tuning.GetDebug() {
		detection.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	return env, tuning, nil
}

// newModel returns the model adapter for the configured URL, or nil when
// none is set.
func newModel(tuning *config.TuningConfig) fusion.Predictor {
	url := tuning.GetModelURL()
	if url == "" {
		return nil
	}
	return fusion.NewModelAdapter(url, tuning.GetModelTimeout())
}

func runServer() error {
	env, tuning, err := setup("")
	if err != nil {
		return err
	}

	debug := env.Debug()
	if debug {
		log.Printf("Sketch MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server.Version = Version
	srv := server.New(
		server.WithTuning(tuning),
		server.WithModel(newModel(tuning)),
		server.WithDebug(debug),
	)
	return srv.Run(ctx)
}

func runClassify(args []string) error {
	fs := flag.NewFlagSet("classify", flag.ContinueOnError)
	configPath := fs.String("config", "", "JSON tuning file")
	debugOut := fs.String("debug-out", "", "write a PNG overlay of the traced geometry")
	scale := fs.Int("scale", 1, "overlay magnification")
	invert := fs.Bool("invert", false, "invert colors first")
	fused := fs.Bool("fused", false, "fuse with the configured model")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected one image path, got %d", fs.NArg())
	}
	path := fs.Arg(0)

	_, tuning, err := setup(*configPath)
	if err != nil {
		return err
	}

	img, err := imaging.NewImageCache().Load(path)
	if err != nil {
		return err
	}
	if *invert {
		img = imaging.Invert(img)
	}

	cfg := tuning.Detection()
	cfg.Debug = cfg.Debug || *debugOut != ""
	res := detection.Classify(imaging.ToPixelBuffer(img), cfg)

	if *debugOut != "" {
		if err := imaging.SaveOverlay(*debugOut, img, res, *scale); err != nil {
			return err
		}
	}

	var out interface{} = res
	if *fused {
		model := newModel(tuning)
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		out = fusion.Classify(ctx, model, img, res)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func runHealth(args []string) error {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	configPath := fs.String("config", "", "JSON tuning file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	_, tuning, err := setup(*configPath)
	if err != nil {
		return err
	}

	url := tuning.GetModelURL()
	if url == "" {
		return fmt.Errorf("no model URL configured (set %s or model_url)", config.EnvModelURL)
	}

	m := fusion.NewModelAdapter(url, tuning.GetModelTimeout())
	if err := m.CheckHealth(context.Background()); err != nil {
		return err
	}
	fmt.Printf("model at %s is healthy\n", m.URL())
	return nil
}
