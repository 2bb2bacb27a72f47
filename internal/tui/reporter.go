package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"modlay/internal/modcache"
	"modlay/internal/session"
)

// RowKey derives the table key for a selection. Display names can collide, so
// the source path participates.
func RowKey(sel modcache.Selection) string {
	return sel.DisplayName + "|" + sel.SourcePath
}

// ActivationReporter adapts pipeline progress callbacks into bubbletea
// messages for the activation table.
type ActivationReporter struct {
	send func(tea.Msg)
}

// NewActivationReporter wraps a message-sending callback.
func NewActivationReporter(send func(tea.Msg)) *ActivationReporter {
	return &ActivationReporter{send: send}
}

// Importing implements session.Reporter.
func (r *ActivationReporter) Importing(sel modcache.Selection) {
	r.send(RowUpdateMsg{Key: RowKey(sel), Status: "importing"})
}

// Imported implements session.Reporter.
func (r *ActivationReporter) Imported(sel modcache.Selection, res modcache.ImportResult) {
	r.send(RowUpdateMsg{Key: RowKey(sel), Status: string(res.Status), Detail: res.Reason})
}

// Building implements session.Reporter.
func (r *ActivationReporter) Building([]string) {
	r.send(StageMsg{Stage: "merging overlay"})
}

// Starting implements session.Reporter.
func (r *ActivationReporter) Starting() {
	r.send(StageMsg{Stage: "launching overlay"})
}

var _ session.Reporter = (*ActivationReporter)(nil)
