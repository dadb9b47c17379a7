package ui

import (
	"testing"

	"github.com/charmbracelet/bubbles/table"
	"github.com/stretchr/testify/assert"
)

func TestNewTable(t *testing.T) {
	columns := []TableColumn{
		{Title: "NAME", Width: 16},
		{Title: "STATUS", Width: 10},
	}
	rows := []table.Row{
		{"laptop", "online"},
		{"phone", "offline"},
	}

	tbl := NewTable(columns, rows, 6)

	assert.Len(t, tbl.Rows(), 2)
	assert.Equal(t, "laptop", tbl.Rows()[0][0])
}

func TestStatusStyle(t *testing.T) {
	// Styles must differ so the indicator is distinguishable.
	assert.NotEqual(t,
		StatusStyle(true).GetForeground(),
		StatusStyle(false).GetForeground())
}
