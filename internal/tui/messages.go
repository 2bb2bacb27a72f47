package tui

// RowUpdateMsg updates the status and detail cells of one mod row.
type RowUpdateMsg struct {
	Key    string
	Status string
	Detail string
}

// StageMsg replaces the footer stage line (e.g. "merging overlay").
type StageMsg struct {
	Stage string
}

// WorkDoneMsg signals that the activation pipeline has finished.
type WorkDoneMsg struct{}

// ErrorMsg signals a fatal error; the TUI should quit.
type ErrorMsg struct {
	Err error
}
