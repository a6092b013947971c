// Command scaffold materializes a saved project plan into a directory tree.
//
//	scaffold [-e] [-rules rules.yaml] <project_dir>
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"planforge/internal/logging"
	"planforge/internal/scaffold"
)

type cliOptions struct {
	dir         string
	useExisting bool
	rulesFile   string
	logLevel    string
	asJSON      bool
}

var errUsage = errors.New("usage: scaffold [-e] [-rules file] [-log-level level] [-json] <project_dir>")

// parseArgs accepts flags before or after the positional directory.
func parseArgs(args []string) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("scaffold", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&opts.useExisting, "e", false, "generate directly in the project directory")
	fs.BoolVar(&opts.useExisting, "use-existing-folder", false, "generate directly in the project directory")
	fs.StringVar(&opts.rulesFile, "rules", os.Getenv("SCAFFOLD_RULES"), "YAML synthesis rules file")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "debug|info|warn|error")
	fs.BoolVar(&opts.asJSON, "json", false, "print the run result as JSON")

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return opts, fmt.Errorf("%w: %v", errUsage, err)
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
	if len(positional) != 1 {
		return opts, errUsage
	}
	opts.dir = positional[0]
	return opts, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	_ = godotenv.Load()
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	log := logging.New(opts.logLevel, "text", stderr)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, log)

	dir, err := filepath.Abs(opts.dir)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		fmt.Fprintf(stderr, "Error: Directory not found: %s\n", dir)
		return 1
	}

	rules, err := scaffold.LoadRules(opts.rulesFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	planPath := filepath.Join(dir, rules.PlanFileName)
	if _, err := os.Stat(planPath); err != nil {
		fmt.Fprintf(stderr, "Error: Project plan not found: %s\n", planPath)
		return 1
	}

	res, err := scaffold.Generate(ctx, scaffold.Options{
		PlanDir:           dir,
		UseExistingFolder: opts.useExisting,
		Rules:             &rules,
		Logger:            log,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Failed to generate project structure: %v\n", err)
		return 1
	}

	if opts.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(res)
	} else {
		fmt.Fprintln(stdout, renderReport(res))
	}
	if !res.OK() {
		fmt.Fprintln(stderr, "Failed to generate project structure")
		return 1
	}
	return 0
}
