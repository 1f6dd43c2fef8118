package main

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jacoelho/xmlbind/pkg/container"
	"github.com/jacoelho/xmlbind/pkg/xmlstream"
	"github.com/jacoelho/xmlbind/pkg/xmltext"
)

// documentStats summarizes the event stream of one document.
type documentStats struct {
	format     container.Format
	root       string
	elements   int
	attributes int
	textBytes  int
	comments   int
	pis        int
	maxDepth   int
	names      map[string]int
}

type nameCount struct {
	name  string
	count int
}

func (s documentStats) topNames(n int) []nameCount {
	out := make([]nameCount, 0, len(s.names))
	for name, count := range s.names {
		out = append(out, nameCount{name: name, count: count})
	}
	slices.SortFunc(out, func(a, b nameCount) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func (a *app) inspectCommand() *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Report element and attribute statistics for a document",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.inspectFile(args[0])
			if err != nil {
				return err
			}
			return a.printStats(args[0], stats, top)
		},
	}
	cmd.Flags().IntVar(&top, "top", 5, "number of most frequent element names to list")
	return cmd
}

func (a *app) inspectFile(path string) (documentStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return documentStats{}, err
	}
	defer f.Close()

	rc, format, err := container.NewReader(f)
	if errors.Is(err, container.ErrArchive) {
		return documentStats{}, fmt.Errorf("%s is a zip archive, use the opc commands", path)
	}
	if err != nil {
		return documentStats{}, err
	}
	defer rc.Close()

	a.logger.Debug("inspecting document", zap.String("path", path), zap.Stringer("format", format))
	stats, err := collectStats(rc, a.cfg.MaxDepth, a.cfg.Strict)
	stats.format = format
	if err != nil {
		return stats, fmt.Errorf("%s: %w", path, err)
	}
	return stats, nil
}

func collectStats(r io.Reader, maxDepth int, strict bool) (documentStats, error) {
	opts := []xmlstream.Option{
		xmltext.EmitComments(true),
		xmltext.EmitPI(true),
		xmltext.Strict(strict),
	}
	if maxDepth > 0 {
		opts = append(opts, xmltext.MaxDepth(maxDepth))
	}
	reader, err := xmlstream.NewReader(r, opts...)
	if err != nil {
		return documentStats{}, err
	}

	stats := documentStats{names: make(map[string]int)}
	depth := 0
	for {
		ev, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			line, column := reader.CurrentPos()
			return stats, fmt.Errorf("line %d, column %d: %w", line, column, err)
		}
		switch ev.Kind {
		case xmlstream.EventStartElement:
			depth++
			stats.maxDepth = max(stats.maxDepth, depth)
			if stats.root == "" {
				stats.root = string(ev.Name)
			}
			stats.elements++
			stats.attributes += len(ev.Attrs)
			stats.names[string(ev.Name)]++
		case xmlstream.EventEndElement:
			depth--
		case xmlstream.EventCharData:
			if !xmltext.IsWhitespace(ev.Text) {
				stats.textBytes += len(ev.Text)
			}
		case xmlstream.EventComment:
			stats.comments++
		case xmlstream.EventPI:
			stats.pis++
		}
	}
}

func (a *app) printStats(path string, stats documentStats, top int) error {
	t := newTable(a.stdout, "property", "value")
	t.addRow("file", path)
	t.addRow("format", stats.format.String())
	t.addRow("root", stats.root)
	t.addRow("elements", fmt.Sprintf("%d (%d distinct)", stats.elements, len(stats.names)))
	t.addRow("attributes", strconv.Itoa(stats.attributes))
	t.addRow("text bytes", strconv.Itoa(stats.textBytes))
	t.addRow("max depth", strconv.Itoa(stats.maxDepth))
	t.addRow("comments", strconv.Itoa(stats.comments))
	t.addRow("processing instructions", strconv.Itoa(stats.pis))
	if err := t.render(); err != nil {
		return err
	}
	if top <= 0 || len(stats.names) == 0 {
		return nil
	}
	if err := writeln(a.stdout); err != nil {
		return err
	}
	names := newTable(a.stdout, "element", "count")
	for _, nc := range stats.topNames(top) {
		names.addRow(nc.name, strconv.Itoa(nc.count))
	}
	return names.render()
}
