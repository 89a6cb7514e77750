package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ironsheep/scoreboard-ocr/internal/config"
	"github.com/ironsheep/scoreboard-ocr/internal/ocr"
	"github.com/ironsheep/scoreboard-ocr/internal/pipeline"
	"github.com/ironsheep/scoreboard-ocr/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// recognizerBackend is what the CLI and the tool server recognize with.
type recognizerBackend interface {
	ocr.Recognizer
	Info() ocr.Info
}

// newRecognizer is replaced in tests.
var newRecognizer = func(tessdataPrefix string) recognizerBackend {
	return ocr.NewTesseract(tessdataPrefix)
}

func main() {
	// Configure logging to stderr (stdout carries JSON output)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

// run executes the CLI. Only JSON results and version output go to stdout;
// usage and flag errors go to stderr.
func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("scoreboard-ocr", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath  = fs.String("config", "", "profile file (YAML, TOML or JSON)")
		debugImage  = fs.String("debug-image", "", "write normalized sections here ({section} and {file} are replaced)")
		strict      = fs.Bool("strict", false, "drop lines without a full KDA triplet and separate credits")
		bySection   = fs.Bool("sections", false, "print results per section instead of merged")
		workers     = fs.Int("workers", 4, "screenshots processed at once")
		serve       = fs.Bool("serve", false, "serve JSON-RPC tools over stdin/stdout")
		showVersion = fs.Bool("version", false, "print version information")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "scoreboard-ocr - extract player stats from scoreboard screenshots")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Usage: scoreboard-ocr [options] image...")
		fmt.Fprintln(stderr, "       scoreboard-ocr -serve [options]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Environment variables:")
		fmt.Fprintln(stderr, "  SCOREBOARD_OCR_LOG_LEVEL=debug    Enable debug logging")
		fmt.Fprintln(stderr, "  SCOREBOARD_OCR_<KEY>=value        Override a profile key, e.g. SCOREBOARD_OCR_OCR_LANGUAGE")
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "scoreboard-ocr %s\n", Version)
		fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
		return nil
	}

	debug := os.Getenv("SCOREBOARD_OCR_LOG_LEVEL") == "debug"
	if debug {
		log.Printf("scoreboard-ocr v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	profile, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *debugImage != "" {
		profile.DebugImage = *debugImage
	}
	if *strict {
		profile.Strict = true
	}
	if debug {
		log.Printf("profile %s: %d sections, %d mask bands", profile.Name, len(profile.Sections), len(profile.MaskBands))
	}

	recognizer := newRecognizer(profile.OCR.TessdataPrefix)
	opts := []pipeline.Option{pipeline.WithWorkers(*workers)}
	if debug {
		opts = append(opts, pipeline.WithLogger(log.Printf))
	}
	p, err := pipeline.New(profile, recognizer, opts...)
	if err != nil {
		return err
	}

	if *serve {
		return server.New(p, recognizer.Info).Run()
	}

	paths := fs.Args()
	if len(paths) == 0 {
		fs.Usage()
		return fmt.Errorf("no screenshot given")
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")

	if len(paths) == 1 {
		report, err := p.ExtractFile(paths[0])
		if err != nil {
			return err
		}
		return encoder.Encode(reportOutput(report, *bySection))
	}

	reports, err := p.ExtractBatch(context.Background(), paths)
	if err != nil {
		return err
	}
	type fileOutput struct {
		Path   string      `json:"path"`
		Result interface{} `json:"result"`
	}
	out := make([]fileOutput, 0, len(reports))
	for _, r := range reports {
		out = append(out, fileOutput{Path: r.Path, Result: reportOutput(r.Report, *bySection)})
	}
	return encoder.Encode(out)
}

func reportOutput(report *pipeline.Report, bySection bool) interface{} {
	if bySection {
		return report.BySection()
	}
	return report.Merged()
}
