package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goliatone/go-geoform/internal/logging"
	"github.com/goliatone/go-geoform/pkg/address/memory"
	"github.com/goliatone/go-geoform/pkg/mapfield"
	"github.com/goliatone/go-geoform/pkg/prompt"
	"github.com/goliatone/go-geoform/pkg/render"
	"github.com/goliatone/go-geoform/pkg/territory"
)

const usage = `usage: geoform-cli <command> [flags]

commands:
  territory   build a territory tree, or walk it interactively
  map         render display fragments for map items
`

var errUsage = errors.New("invalid usage")

func main() {
	logger, _ := logging.New(logging.Options{Format: "console", Out: os.Stderr})
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, nil); err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			os.Exit(130)
		}
		if !errors.Is(err, errUsage) {
			logger.Error().Err(err).Msg("geoform-cli failed")
		}
		os.Exit(1)
	}
}

// run dispatches a subcommand. driver replaces the terminal prompts when set.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, driver prompt.Driver) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}
	switch args[0] {
	case "territory":
		return runTerritory(ctx, args[1:], stdout, stderr, driver)
	case "map":
		return runMap(ctx, args[1:], stdout, stderr)
	case "-h", "--help", "help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return errUsage
	}
}

func runTerritory(ctx context.Context, args []string, stdout, stderr io.Writer, driver prompt.Driver) error {
	fs := flag.NewFlagSet("territory", flag.ContinueOnError)
	fs.SetOutput(stderr)
	country := fs.String("country", "", "stored country code")
	required := fs.Bool("required", false, "force a country to be selected")
	interactive := fs.Bool("interactive", false, "walk the cascade on the terminal and print the chosen territory")
	parents := fs.String("parents", "territory", "comma separated element position")
	format := fs.String("format", "json", "output format for the tree: json or html")
	dataset := fs.String("dataset", "", "address dataset YAML (embedded dataset if empty)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	store, err := openDataset(*dataset)
	if err != nil {
		return err
	}
	builder, err := territory.New(store.Repositories())
	if err != nil {
		return err
	}
	initial := territory.Territory{CountryCode: strings.ToUpper(strings.TrimSpace(*country))}
	parentList := splitList(*parents)

	if *interactive {
		if driver == nil {
			driver = prompt.NewSurveyDriver(stderr)
		}
		cascade, err := prompt.NewCascade(builder, driver,
			prompt.WithParents(parentList...),
			prompt.WithRequired(*required),
		)
		if err != nil {
			return err
		}
		value, err := cascade.Run(ctx, initial)
		if err != nil {
			return err
		}
		return writeJSON(stdout, value)
	}

	result, err := builder.Build(ctx, territory.Request{
		Parents:  parentList,
		Required: *required,
		Default:  initial,
	})
	if err != nil {
		return err
	}
	switch *format {
	case "json":
		return writeJSON(stdout, result)
	case "html":
		return writeHTML(ctx, stdout, render.TerritoryView(result.Tree))
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
}

func runMap(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("map", flag.ContinueOnError)
	fs.SetOutput(stderr)
	itemPath := fs.String("item", "", "JSON file holding one map item or a list of items")
	format := fs.String("format", "json", "output format: json or html")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *itemPath == "" {
		fmt.Fprintln(stderr, "map: -item is required")
		return errUsage
	}

	items, err := readItems(*itemPath)
	if err != nil {
		return err
	}
	fragments := mapfield.NewFormatter().RenderList(items)

	switch *format {
	case "json":
		return writeJSON(stdout, map[string]any{"data": fragments})
	case "html":
		return writeHTML(ctx, stdout, render.MapDisplayView(fragments))
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
}

func readItems(path string) ([]mapfield.MapRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var items []mapfield.MapRecord
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
		return items, nil
	}
	var item mapfield.MapRecord
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	return []mapfield.MapRecord{item}, nil
}

func openDataset(path string) (*memory.Store, error) {
	if path == "" {
		return memory.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return memory.Load(f)
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func writeHTML(ctx context.Context, w io.Writer, view render.View) error {
	renderer, err := render.NewHTMLRenderer()
	if err != nil {
		return err
	}
	out, err := renderer.Render(ctx, view, render.RenderOptions{})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
