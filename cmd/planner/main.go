// Command planner asks the model for a project plan and saves it under a
// workspace, optionally generating the project right away.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"planforge/internal/llm"
	"planforge/internal/logging"
	"planforge/internal/planner"
	"planforge/internal/scaffold"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("planner", flag.ContinueOnError)
	fs.SetOutput(stderr)
	prompt := fs.String("prompt", "", "project requirement (defaults to the remaining arguments)")
	out := fs.String("out", ".", "workspace directory the plan folder is created in")
	fake := fs.Bool("fake", false, "use the canned plan instead of calling the model")
	model := fs.String("model", firstNonEmpty(os.Getenv("GEMINI_MODEL"), llm.DefaultGeminiModel), "Gemini model id")
	generate := fs.Bool("generate", false, "materialize the project after planning")
	logLevel := fs.String("log-level", "info", "debug|info|warn|error")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	requirement := strings.TrimSpace(*prompt)
	if requirement == "" {
		requirement = strings.TrimSpace(strings.Join(fs.Args(), " "))
	}
	if requirement == "" {
		fmt.Fprintln(stderr, "Error: a project requirement is required (-prompt or arguments)")
		return 2
	}

	log := logging.New(*logLevel, "text", stderr)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, log)

	client, err := newClient(ctx, *fake, *model)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer client.Close()

	if err := os.MkdirAll(*out, 0o755); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	p, err := planner.New(client, log).CreatePlan(ctx, requirement)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to generate project plan: %v\n", err)
		return 1
	}
	dir, err := planner.Persist(*out, p)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to save project plan: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Project plan saved to %s\n", dir)

	if !*generate {
		return 0
	}
	if !scaffold.GenerateProject(ctx, dir, false) {
		fmt.Fprintln(stderr, "Failed to generate project structure")
		return 1
	}
	fmt.Fprintln(stdout, "Project structure successfully generated")
	return 0
}

var errNoAPIKey = errors.New("GEMINI_API_KEY is not set")

func newClient(ctx context.Context, fake bool, model string) (llm.Client, error) {
	if fake {
		return llm.NewFakeClient(), nil
	}
	key := firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("AI_STUDIO_API_KEY"))
	if key == "" {
		return nil, errNoAPIKey
	}
	return llm.NewGeminiClient(ctx, llm.GeminiConfig{APIKey: key, Model: model})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
