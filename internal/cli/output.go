package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/amaumene/listahan/internal/models"
	"github.com/amaumene/listahan/internal/utils"
)

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeEntries(out io.Writer, vms []models.ViewModel) {
	if len(vms) == 0 {
		fmt.Fprintln(out, "No entries found")
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tTITLE\tSTATUS\tPROGRESS\tRATING")
	for _, vm := range vms {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			vm.ID,
			models.LabelsFor(vm.Type).Noun,
			vm.Title,
			vm.StatusLabel(),
			vm.ProgressText(),
			vm.RatingText(),
		)
	}
	w.Flush()
}

func writeCounts(out io.Writer, counts map[models.MediaType]utils.TypeCounts, only models.MediaType) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, t := range models.MediaTypes {
		if only != "" && t != only {
			continue
		}
		labels := models.LabelsFor(t)
		tc := counts[t]
		fmt.Fprintf(w, "%s\tAll\t%d\n", labels.Noun, tc.All)
		for _, s := range models.Statuses {
			fmt.Fprintf(w, "\t%s\t%d\n", labels.StatusLabel(s), tc.ByStatus[s])
		}
	}
	w.Flush()
}

func formatSync(at time.Time, ok bool) string {
	if !ok {
		return "never"
	}
	return at.Local().Format("2006-01-02 15:04:05")
}
