package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/fuse/internal/demo"
	"github.com/vango-dev/fuse/pkg/dom"
	"github.com/vango-dev/fuse/pkg/live"
	"github.com/vango-dev/fuse/pkg/reactive"
	"github.com/vango-dev/fuse/pkg/render"
)

func joinNames() string {
	return strings.Join(demo.Names(), ", ")
}

func dumpCmd(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dump [app]",
		Short: "Render a demo once and print its document",
		Long: `Render a demo application into a fresh document and print it.

The html format prints the body markup. The json format prints the
node tree exactly as the live server sends it in its init frame.

Available demos: ` + joinNames() + `

Examples:
  fuse dump counter
  fuse dump todo --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			name := cfg.App
			if len(args) == 1 {
				name = args[0]
			}
			app, err := demo.Lookup(name)
			if err != nil {
				return err
			}
			setupLogger(cfg, os.Stderr)
			return dump(cmd.OutOrStdout(), app, format, cfg.Reactive.MaxDepth)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "html", "Output format: html or json")

	return cmd
}

// dump renders app into a new document and writes the body in format.
func dump(w io.Writer, app demo.App, format string, maxDepth int) error {
	rt := reactive.NewRuntime(reactive.WithMaxDepth(maxDepth))
	doc := dom.NewDocument()
	r := render.New(doc, rt)
	if err := r.Render(app.Build(r), doc.Body()); err != nil {
		return err
	}
	defer r.Dispose(doc.Body())

	switch format {
	case "html":
		if err := dom.Render(w, doc.Body()); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(live.Snapshot(doc.Body()))
	default:
		return fmt.Errorf("unknown format %q: use html or json", format)
	}
}
