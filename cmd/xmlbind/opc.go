package main

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jacoelho/xmlbind/pkg/opc"
)

func (a *app) opcCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "opc",
		Short: "Read the package parts of an OOXML archive",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "types <package>",
		Short: "List the content type map",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withPackage(args[0], a.printContentTypes)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rels <package> [part]",
		Short: "List the relationships of a part, or of the package when no part is given",
		Args:  rangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			part := ""
			if len(args) == 2 {
				part = args[1]
			}
			return a.withPackage(args[0], func(p *opc.Package) error {
				return a.printRelationships(p, part)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "core <package>",
		Short: "Show the core document properties",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withPackage(args[0], a.printCoreProperties)
		},
	})
	return cmd
}

func (a *app) withPackage(path string, fn func(*opc.Package) error) (err error) {
	p, err := opc.Open(path, a.cfg.decodeOptions(a.logger))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := p.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	a.logger.Debug("opened package", zap.String("path", path), zap.Int("entries", len(p.Archive().Entries())))
	return fn(p)
}

func (a *app) printContentTypes(p *opc.Package) error {
	ct, err := p.ContentTypes()
	if err != nil {
		return err
	}
	t := newTable(a.stdout, "kind", "name", "content type")
	for _, d := range ct.Defaults {
		t.addRow("Default", d.Extension, d.ContentType)
	}
	for _, o := range ct.Overrides {
		t.addRow("Override", o.PartName, o.ContentType)
	}
	return t.render()
}

func (a *app) printRelationships(p *opc.Package, part string) error {
	rels, err := p.Relationships(part)
	if err != nil {
		return err
	}
	t := newTable(a.stdout, "id", "mode", "target", "type")
	for _, rel := range rels.Relationships {
		target := rel.Target
		if rel.TargetMode == opc.TargetInternal {
			target = opc.ResolveTarget(part, rel.Target)
			if !p.Archive().Has(target) {
				a.logger.Warn("relationship target missing", zap.String("id", rel.ID), zap.String("target", target))
			}
		}
		t.addRow(rel.ID, rel.TargetMode.String(), target, rel.Type)
	}
	return t.render()
}

func (a *app) printCoreProperties(p *opc.Package) error {
	core, err := p.CoreProperties()
	if err != nil {
		return err
	}
	t := newTable(a.stdout, "property", "value")
	addString := func(name string, v *string) {
		if v != nil {
			t.addRow(name, *v)
		}
	}
	addTime := func(name string, v *opc.Timestamp) {
		if v != nil {
			t.addRow(name, v.Value.Format(time.RFC3339))
		}
	}
	addString("title", core.Title)
	addString("subject", core.Subject)
	addString("creator", core.Creator)
	addString("keywords", core.Keywords)
	addString("description", core.Description)
	addString("lastModifiedBy", core.LastModifiedBy)
	if core.Revision != nil {
		t.addRow("revision", strconv.FormatUint(uint64(*core.Revision), 10))
	}
	addTime("created", core.Created)
	addTime("modified", core.Modified)
	return t.render()
}
