// Package munin renders the two line-oriented outputs a munin plugin
// emits: the graph configuration and the value readings.
package munin

import (
	"fmt"
	"io"
)

type Graph struct {
	Title    string
	VLabel   string
	Args     string
	Category string
}

type Field struct {
	Name     string
	Label    string
	Warning  string
	Critical string
}

type Value struct {
	Name  string
	Value any
}

func WriteConfig(w io.Writer, g Graph, fields []Field) {
	fmt.Fprintf(w, "graph_title %s\n", g.Title)
	if g.VLabel != "" {
		fmt.Fprintf(w, "graph_vlabel %s\n", g.VLabel)
	}
	if g.Args != "" {
		fmt.Fprintf(w, "graph_args %s\n", g.Args)
	}
	if g.Category != "" {
		fmt.Fprintf(w, "graph_category %s\n", g.Category)
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%s.label %s\n", f.Name, f.Label)
		if f.Warning != "" {
			fmt.Fprintf(w, "%s.warning %s\n", f.Name, f.Warning)
		}
		if f.Critical != "" {
			fmt.Fprintf(w, "%s.critical %s\n", f.Name, f.Critical)
		}
	}
}

func WriteValues(w io.Writer, values []Value) {
	for _, v := range values {
		fmt.Fprintf(w, "%s.value %v\n", v.Name, v.Value)
	}
}
