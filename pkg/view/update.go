// Package view renders command events on a terminal.
package view

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"

	gprogress "github.com/the-maldridge/gur/pkg/progress"
)

// Trackers run on a percent scale one short of their total so that
// go-pretty never completes one on its own: a finished tracker can't
// be marked as errored any more.
const trackerTotal = 101

// UpdateView draws one progress tracker per master repository and per
// package.  A master repository that never reports its finish is
// shown as failed, along with the package it was working on.
type UpdateView struct {
	out io.Writer
	pw  progress.Writer

	rendering chan struct{}

	master *progress.Tracker
	pkg    *progress.Tracker
	label  string

	trackers []*progress.Tracker
	errors   []string
}

// NewUpdateView returns a view writing to out.
func NewUpdateView(out io.Writer) *UpdateView {
	pw := progress.NewWriter()
	pw.SetOutputWriter(out)
	pw.SetAutoStop(false)
	pw.SetTrackerLength(40)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	pw.SetStyle(progress.StyleDefault)
	pw.Style().Visibility.ETA = false
	pw.Style().Visibility.Speed = false
	pw.Style().Visibility.Value = false

	return &UpdateView{out: out, pw: pw}
}

// Errors returns every error reported so far.
func (v *UpdateView) Errors() []string {
	return v.errors
}

func (v *UpdateView) track(msg string) *progress.Tracker {
	t := &progress.Tracker{Message: msg, Total: trackerTotal, Units: progress.UnitsDefault}
	v.trackers = append(v.trackers, t)
	v.pw.AppendTracker(t)
	return t
}

func (v *UpdateView) closeMaster(ok bool) {
	for _, t := range []*progress.Tracker{v.pkg, v.master} {
		switch {
		case t == nil:
		case ok:
			t.MarkAsDone()
		default:
			t.MarkAsErrored()
		}
	}
	v.master, v.pkg = nil, nil
}

// OnUpdateStart starts rendering.
func (v *UpdateView) OnUpdateStart() {
	fmt.Fprintln(v.out, "Syncing local database ...")

	v.rendering = make(chan struct{})
	go func() {
		v.pw.Render()
		close(v.rendering)
	}()
	for !v.pw.IsRenderInProgress() {
		time.Sleep(time.Millisecond)
	}
}

// OnUpdateFinish stops rendering and prints the collected errors.
func (v *UpdateView) OnUpdateFinish() {
	v.closeMaster(false)
	if v.rendering != nil {
		v.pw.Stop()
		<-v.rendering
		v.rendering = nil
	}

	for _, msg := range v.errors {
		fmt.Fprintf(v.out, "error: %s\n", msg)
	}
}

// OnMasterRepoUpdateStart opens the tracker of a master repository.
func (v *UpdateView) OnMasterRepoUpdateStart(repoID, branch string) {
	v.closeMaster(false)
	v.label = fmt.Sprintf("%s from %s branch", repoID, branch)
	v.master = v.track(v.label)
}

// OnMasterRepoUpdateFinish marks the master repository done.
func (v *UpdateView) OnMasterRepoUpdateFinish(string, string) {
	v.closeMaster(true)
}

// OnRepoUpdateStart is covered by the master repository tracker.
func (v *UpdateView) OnRepoUpdateStart(string, string) {}

// OnRepoUpdateFinish is covered by the master repository tracker.
func (v *UpdateView) OnRepoUpdateFinish(string, string) {}

// OnPkgUpdateStart opens the tracker of a package.
func (v *UpdateView) OnPkgUpdateStart(name, branch string) {
	v.pkg = v.track(fmt.Sprintf("  %s (%s)", name, branch))
}

// OnPkgUpdateFinish marks the package done.
func (v *UpdateView) OnPkgUpdateFinish(string, string) {
	if v.pkg != nil {
		v.pkg.MarkAsDone()
	}
	v.pkg = nil
}

// OnUpdateProgress moves the innermost open tracker.
func (v *UpdateView) OnUpdateProgress(_ gprogress.OpCode, cur, total int, label string) {
	t := v.pkg
	if t == nil {
		t = v.master
	}
	if t == nil {
		return
	}
	if t == v.master && label != "" {
		t.UpdateMessage(v.label + ": " + label)
	}
	t.SetValue(percent(cur, total))
}

func percent(cur, total int) int64 {
	switch {
	case total <= 0:
		return 0
	case cur >= total:
		return 100
	}
	return int64(cur * 100 / total)
}

// OnError records msg for the summary.
func (v *UpdateView) OnError(msg string) {
	v.errors = append(v.errors, msg)
}
