package view

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// ListView prints the package listing as a table once Render is
// called.
type ListView struct {
	t    table.Writer
	repo string
	rows int
}

// NewListView returns a view writing to out.
func NewListView(out io.Writer) *ListView {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"REPOSITORY", "PACKAGE", "INSTALLED"})
	return &ListView{t: t}
}

// OnPkgListStart begins a repository section.
func (v *ListView) OnPkgListStart(repoID string) {
	v.repo = repoID
	if v.rows > 0 {
		v.t.AppendSeparator()
	}
}

// OnPkgShow adds one package row.
func (v *ListView) OnPkgShow(name string, installed bool) {
	mark := ""
	if installed {
		mark = "yes"
	}
	v.t.AppendRow(table.Row{v.repo, name, mark})
	v.rows++
}

// OnPkgListFinish closes the repository section.
func (v *ListView) OnPkgListFinish(string) {}

// Render writes the table.
func (v *ListView) Render() {
	v.t.Render()
}
