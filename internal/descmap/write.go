package descmap

import (
	"bufio"
	"io"
)

// Write renders descs in canonical form: one identifier per line, every
// identifier terminated by ';', fields separated by a blank line. Empty
// fields are omitted. Parsing the output yields descs again.
func Write(w io.Writer, descs []Descriptor) error {
	bw := bufio.NewWriter(w)
	for i, d := range descs {
		if i > 0 {
			bw.WriteString("\n")
		}
		bw.WriteString(d.Name + " {\n")
		first := true
		for _, f := range []struct {
			key    string
			idents []string
		}{
			{FieldFunction, d.Functions},
			{FieldVar, d.Vars},
			{FieldType, d.Types},
		} {
			if len(f.idents) == 0 {
				continue
			}
			if !first {
				bw.WriteString("\n")
			}
			first = false
			bw.WriteString(f.key + ":\n")
			for _, id := range f.idents {
				bw.WriteString(id + ";\n")
			}
		}
		bw.WriteString("};\n")
	}
	return bw.Flush()
}
