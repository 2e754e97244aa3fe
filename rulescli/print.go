package main

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/npillmayer/fontrules"
	"github.com/npillmayer/fontrules/rules"
	"github.com/pterm/pterm"
)

func classesOp(intp *Intp, op *Op) (error, bool) {
	ff := intp.sess.Features
	names := ff.ClassNames()
	pterm.Printf("%d named class(es)\n", len(names))
	if len(names) == 0 {
		return nil, false
	}
	data := [][]string{
		{"Class", "Size", "Members"},
	}
	for _, name := range names {
		glyphs := ff.NamedClasses[name]
		data = append(data, []string{
			"@" + name,
			fmt.Sprintf("%d", len(glyphs)),
			abbreviate(glyphs, 8),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func classOp(intp *Intp, op *Op) (error, bool) {
	name, ok := op.hasArg()
	if !ok {
		pterm.Error.Println("class needs a class name argument")
		return nil, false
	}
	name = strings.TrimPrefix(name, "@")
	glyphs, ok := intp.sess.Features.NamedClasses[name]
	if !ok {
		pterm.Error.Printf("no class @%s defined\n", name)
		return nil, false
	}
	pterm.Printf("@%s = [%s]\n", name, strings.Join(glyphs, " "))
	return nil, false
}

func featuresOp(intp *Intp, op *Op) (error, bool) {
	ff := intp.sess.Features
	tags := ff.FeatureTags()
	pterm.Printf("%d feature(s)\n", len(tags))
	if len(tags) == 0 {
		return nil, false
	}
	data := [][]string{
		{"Tag", "Routines"},
	}
	for _, tag := range tags {
		names := make([]string, 0, len(ff.Feature(tag)))
		for _, r := range ff.Feature(tag) {
			names = append(names, r.Name)
		}
		data = append(data, []string{tag, strings.Join(names, ", ")})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func routinesOp(intp *Intp, op *Op) (error, bool) {
	ff := intp.sess.Features
	pterm.Printf("%d routine(s)\n", len(ff.Routines))
	if len(ff.Routines) == 0 {
		return nil, false
	}
	data := [][]string{
		{"Name", "Rules", "Flags", "Languages"},
	}
	for _, r := range ff.Routines {
		data = append(data, []string{
			r.Name,
			fmt.Sprintf("%d", len(r.Rules)),
			formatRoutineFlags(r.Flags),
			formatLanguages(r.Languages),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func xmlOp(intp *Intp, op *Op) (error, bool) {
	name, ok := op.hasArg()
	if !ok {
		pterm.Error.Println("xml needs a routine name argument")
		return nil, false
	}
	r, err := intp.sess.Features.ResolveRoutine(name)
	if err != nil {
		return err, false
	}
	out, err := xml.MarshalIndent(r, "", "  ")
	if err != nil {
		return err, false
	}
	pterm.Println(string(out))
	return nil, false
}

func warningsOp(intp *Intp, op *Op) (error, bool) {
	diags := intp.sess.Diagnostics()
	pterm.Printf("%d diagnostic(s)\n", len(diags))
	for _, d := range diags {
		if d.Severity == rules.SeverityWarning {
			pterm.Warning.Println(d.Message)
		} else {
			pterm.Info.Println(d.Message)
		}
	}
	return nil, false
}

func formatRoutineFlags(flags int) string {
	if flags == 0 {
		return "-"
	}
	parts := make([]string, 0, 4)
	if flags&fontrules.RightToLeft != 0 {
		parts = append(parts, "RightToLeft")
	}
	if flags&fontrules.IgnoreBases != 0 {
		parts = append(parts, "IgnoreBases")
	}
	if flags&fontrules.IgnoreLigatures != 0 {
		parts = append(parts, "IgnoreLigatures")
	}
	if flags&fontrules.IgnoreMarks != 0 {
		parts = append(parts, "IgnoreMarks")
	}
	if flags&fontrules.UseMarkFilteringSet != 0 {
		parts = append(parts, "UseMarkFilteringSet")
	}
	return strings.Join(parts, "|")
}

func formatLanguages(langs []fontrules.LangSysPair) string {
	if len(langs) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(langs))
	for _, ls := range langs {
		parts = append(parts, ls.Lang+"/"+ls.Script)
	}
	return strings.Join(parts, " ")
}

func abbreviate(glyphs []string, limit int) string {
	if len(glyphs) <= limit {
		return strings.Join(glyphs, " ")
	}
	return strings.Join(glyphs[:limit], " ") + " ..."
}
