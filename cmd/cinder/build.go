package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"cinder/internal/diagfmt"
	"cinder/internal/driver"
	"cinder/internal/project"
	"cinder/internal/ui"
)

var buildCmd = &cobra.Command{
	Use:   "build [path]",
	Short: "Build a cinder project",
	Long:  "Build a cinder project using cinder.toml as the entrypoint definition.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().Bool("no-cache", false, "skip the build cache")
	buildCmd.Flags().String("ui", "auto", "interactive progress (auto|on|off)")
	buildCmd.Flags().BoolP("output", "o", true, "write the .ll file next to cinder.toml")
}

func runBuild(cmd *cobra.Command, args []string) error {
	start := "."
	if len(args) > 0 {
		start = args[0]
	}

	manifestPath, ok, err := project.FindManifest(start)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no %s found in %q or any parent directory (run `cinder init` first)", project.ManifestName, start)
	}
	manifest, err := project.Load(manifestPath)
	if err != nil {
		return err
	}
	root, _, err := project.FindProjectRoot(start)
	if err != nil {
		return err
	}

	maxDiagnostics, err := cmd.Flags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}
	writeOutput, err := cmd.Flags().GetBool("output")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return err
	}

	var cache *driver.DiskCache
	if !noCache {
		// A cache that fails to open just means a cold build.
		cache, _ = driver.OpenDiskCache("cinder")
	}

	opts := driver.CompileOptions{
		Root:           root,
		Manifest:       manifest,
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
		Cache:          cache,
		WriteOutput:    writeOutput,
	}

	var res *driver.CompileResult
	if shouldUseTUI(uiModeValue) && !quiet {
		res, err = runCompileWithUI(cmd.Context(), manifest.Package.Name, opts)
	} else {
		res, err = driver.Compile(cmd.Context(), opts)
	}
	if err != nil {
		return err
	}

	if res.Bag.Len() > 0 {
		diagfmt.Pretty(os.Stderr, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     useColor(cmd),
			ShowNotes: true,
		})
	}
	if res.HasErrors() {
		return fmt.Errorf("build failed")
	}

	if !quiet {
		suffix := ""
		if res.Cached {
			suffix = " (cached)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s%s\n", res.OutputPath, suffix)
	}
	return nil
}

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

type compileOutcome struct {
	result *driver.CompileResult
	err    error
}

// runCompileWithUI runs the pipeline in a goroutine and feeds its stage
// events to the Bubble Tea progress view.
func runCompileWithUI(ctx context.Context, title string, opts driver.CompileOptions) (*driver.CompileResult, error) {
	events := make(chan driver.StageEvent, 64)
	outcomeCh := make(chan compileOutcome, 1)

	go func() {
		opts.Observer = func(ev driver.StageEvent) { events <- ev }
		res, err := driver.Compile(ctx, opts)
		outcomeCh <- compileOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
