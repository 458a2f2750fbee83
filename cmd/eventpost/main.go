// Command eventpost writes a LinkedIn post about an event from a photo and
// an optional description.
//
//	eventpost -image keynote.jpg -text "AWS Community Day" -mode agentic
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	eventpost "github.com/Eshikamahajan/AWS-Agentic-AI"
	"github.com/Eshikamahajan/AWS-Agentic-AI/config"
	"github.com/Eshikamahajan/AWS-Agentic-AI/core"
)

var (
	imagePath   = flag.String("image", "", "Path to the event photo (JPEG or PNG)")
	userText    = flag.String("text", "", "Optional description of the event")
	modeName    = flag.String("mode", string(eventpost.ModeGraph), "Orchestrator: graph or agentic")
	configPath  = flag.String("config", "", "Path to a YAML config file")
	envFile     = flag.String("env", ".env", "Path to a .env file (ignored when missing)")
	diagramPath = flag.String("diagram", "", "Write the Mermaid diagram of the selected mode to this .mmd file")
	dryRun      = flag.Bool("dry-run", false, "Use canned vision and model responses")
	jsonOut     = flag.Bool("json", false, "Print the full result as JSON")
	logLevel    = flag.String("log-level", "", "Override the configured log level")
)

type output struct {
	RunID     string                `json:"run_id"`
	Post      string                `json:"post"`
	Combined  string                `json:"combined"`
	Text      []core.Detection      `json:"detected_text"`
	Labels    []core.Detection      `json:"detected_labels"`
	Warnings  []string              `json:"warnings,omitempty"`
	ToolCalls []core.ToolCallRecord `json:"tool_calls,omitempty"`
	Writes    []map[string]any      `json:"writes"`
}

func main() {
	flag.Parse()

	mode, err := eventpost.ParseMode(*modeName)
	if err != nil {
		flag.Usage()
		log.Fatal(err)
	}

	if *imagePath == "" && strings.TrimSpace(*userText) == "" && *diagramPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, mode); err != nil {
		var budget *core.LoopBudgetExceeded
		if errors.As(err, &budget) {
			log.Fatalf("agent gave up: %v", err)
		}
		log.Fatal(err)
	}
}

func run(ctx context.Context, mode eventpost.Mode) error {
	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		return err
	}

	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	app, err := eventpost.New(ctx, cfg, func(o *eventpost.Options) {
		o.DryRun = *dryRun
	})
	if err != nil {
		return err
	}

	if *diagramPath != "" {
		src, err := app.Mermaid(mode)
		if err != nil {
			return err
		}

		if err := os.WriteFile(*diagramPath, []byte(src), 0o644); err != nil {
			return fmt.Errorf("write diagram: %w", err)
		}

		if *imagePath == "" && strings.TrimSpace(*userText) == "" {
			return nil
		}
	}

	in := core.Input{UserText: *userText}
	if *imagePath != "" {
		in.Image, err = os.ReadFile(*imagePath)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
	}

	res, err := app.Run(ctx, mode, in)
	if err != nil {
		return err
	}

	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	if !*jsonOut {
		fmt.Println(res.FinalOutput)
		return nil
	}

	out := output{
		RunID:     res.RunID,
		Post:      res.FinalOutput,
		Combined:  res.State.CombinedText(),
		Text:      res.State.DetectedText(),
		Labels:    res.State.DetectedLabels(),
		ToolCalls: res.ToolCalls,
	}

	for _, w := range res.Warnings {
		out.Warnings = append(out.Warnings, w.Error())
	}

	for _, w := range res.State.Writes() {
		out.Writes = append(out.Writes, map[string]any{"field": w.Field.String(), "writer": w.Writer, "version": w.Version})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}
