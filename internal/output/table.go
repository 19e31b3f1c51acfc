package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/jbweber/vbdctl/api/v1alpha1"
)

// TableFormatter formats resources as human-readable tables.
type TableFormatter struct {
	// NoHeaders omits the header row.
	NoHeaders bool
}

// FormatPartitions formats partitions as a table.
func (f *TableFormatter) FormatPartitions(parts []v1alpha1.Partition) (string, error) {
	if len(parts) == 0 {
		return "No partitions found\n", nil
	}

	return f.render("NAME\tDISK\tOFFSET\tSIZE", func(w *tabwriter.Writer) {
		for _, p := range parts {
			_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", p.Name, p.Extent.Disk, p.Extent.Offset, p.Extent.Size)
		}
	}), nil
}

// FormatVirtualDisks formats virtual disks as a table.
func (f *TableFormatter) FormatVirtualDisks(vds []v1alpha1.VirtualDisk) (string, error) {
	if len(vds) == 0 {
		return "No virtual disks found\n", nil
	}

	return f.render("KEY\tPARTITION\tEXTENT\tMODE\tAGE", func(w *tabwriter.Writer) {
		for _, vd := range vds {
			partition := vd.Partition
			if partition == "" {
				partition = "-"
			}

			age := "-"
			if !vd.CreationTimestamp.IsZero() {
				age = formatAge(time.Since(vd.CreationTimestamp.Time))
			}

			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", vd.Key, partition, vd.Extent, vd.Mode, age)
		}
	}), nil
}

// FormatVBDs formats VBD bindings as a table.
func (f *TableFormatter) FormatVBDs(vbds []v1alpha1.VBD) (string, error) {
	if len(vbds) == 0 {
		return "No VBDs found\n", nil
	}

	return f.render("DOMAIN\tVBD\tBACKING\tMODE", func(w *tabwriter.Writer) {
		for _, v := range vbds {
			_, _ = fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", v.Domain, v.Number, v.Backing(), v.Mode)
		}
	}), nil
}

// FormatVBD formats a single binding as a table row.
func (f *TableFormatter) FormatVBD(v v1alpha1.VBD) (string, error) {
	return f.FormatVBDs([]v1alpha1.VBD{v})
}

func (f *TableFormatter) render(header string, rows func(w *tabwriter.Writer)) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	if !f.NoHeaders {
		_, _ = fmt.Fprintln(w, header)
	}
	rows(w)

	_ = w.Flush()
	return buf.String()
}

// formatAge formats a duration as a human-readable age string.
// Examples: "5s", "2m", "3h", "4d", "2w", "1y"
func formatAge(d time.Duration) string {
	if d < 0 {
		return "unknown"
	}

	seconds := int(d.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}

	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}

	days := hours / 24
	if days < 7 {
		return fmt.Sprintf("%dd", days)
	}

	weeks := days / 7
	if weeks < 8 {
		return fmt.Sprintf("%dw", weeks)
	}

	if years := days / 365; years > 0 {
		return fmt.Sprintf("%dy", years)
	}
	return fmt.Sprintf("%dd", days)
}
