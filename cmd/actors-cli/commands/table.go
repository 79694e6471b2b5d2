package commands

import (
	"io"
	"topactors-backend/internal/actor"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const detailsWidth = 60

func renderRecords(out io.Writer, records []actor.Record) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Rank", "Name", "Source", "External ID", "Details"})

	for _, r := range records {
		t.AppendRow(table.Row{
			r.Rank,
			r.Name,
			r.Source.String(),
			r.ExternalID,
			text.Trim(r.Details, detailsWidth),
		})
	}
	t.AppendFooter(table.Row{"", "Total", len(records)})

	t.SetStyle(table.StyleRounded)
	t.Render()
}
