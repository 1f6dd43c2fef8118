package main

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jacoelho/xmlbind"
	"github.com/jacoelho/xmlbind/pkg/container"
	"github.com/jacoelho/xmlbind/pkg/opc"
)

// converter decodes one document from r and re-encodes it to w.
type converter func(r io.Reader, w io.Writer, dopts xmlbind.DecodeOptions, eopts xmlbind.EncodeOptions) error

var converters = map[string]converter{
	"content-types":   convertWith(opc.ContentTypesRecord),
	"relationships":   convertWith(opc.RelationshipsRecord),
	"core-properties": convertWith(opc.CorePropertiesRecord),
}

func convertWith[T any](rec *xmlbind.Record[T]) converter {
	return func(r io.Reader, w io.Writer, dopts xmlbind.DecodeOptions, eopts xmlbind.EncodeOptions) error {
		v, err := xmlbind.DecodeWithOptions(rec, r, dopts)
		if err != nil {
			return err
		}
		return xmlbind.EncodeWithOptions(w, rec, v, eopts)
	}
}

func (a *app) convertCommand() *cobra.Command {
	kinds := slices.Sorted(maps.Keys(converters))
	cmd := &cobra.Command{
		Use:   "convert <kind> <in> <out>",
		Short: "Decode a document and write it back, optionally compressed",
		Long: fmt.Sprintf(`Decode a document with the binding for kind and write its canonical
encoding to out ("-" for standard output).

Kinds: %s`, strings.Join(kinds, ", ")),
		Args: exactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			conv, ok := converters[args[0]]
			if !ok {
				return usageError{fmt.Errorf("unknown kind %q (want one of %s)", args[0], strings.Join(kinds, ", "))}
			}
			return a.convert(conv, args[1], args[2])
		},
	}
	cmd.Flags().String("compress", "none", "output compression (none, gzip, zstd, lz4, s2)")
	cmd.Flags().Bool("declaration", true, "write an XML declaration")
	return cmd
}

func (a *app) convert(conv converter, inPath, outPath string) (err error) {
	format, err := container.ParseFormat(a.cfg.Compress)
	if err != nil {
		return usageError{err}
	}

	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()
	src, inFormat, err := container.NewReader(in)
	if err != nil {
		return err
	}
	defer src.Close()

	var out io.Writer = a.stdout
	if outPath != "-" {
		var f *os.File
		f, err = os.Create(outPath)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}()
		out = f
	}

	dst, err := container.NewWriter(out, format)
	if err != nil {
		return err
	}
	if err := conv(src, dst, a.cfg.decodeOptions(a.logger), a.cfg.encodeOptions()); err != nil {
		return errors.Join(fmt.Errorf("%s: %w", inPath, err), dst.Close())
	}
	if err := dst.Close(); err != nil {
		return err
	}
	a.logger.Info("converted document",
		zap.String("in", inPath),
		zap.Stringer("in_format", inFormat),
		zap.String("out", outPath),
		zap.Stringer("out_format", format),
	)
	return nil
}
