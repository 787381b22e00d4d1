package ui

import (
	"github.com/charmbracelet/bubbles/spinner"

	"sizefit/internal/model"
	"sizefit/internal/progress"
)

const maxLogLines = 50

type jobState struct {
	id     string
	input  string
	stage  progress.Stage
	status string
	err    error
	done   bool

	result model.BitrateResult

	spinner spinner.Model
	started bool

	// Recent ffprobe stderr lines (kept small)
	logsRing []string
}

func newJobState(id, input string, styles Styles) jobState {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner
	return jobState{
		id:      id,
		input:   input,
		stage:   progress.StageQueued,
		status:  "Queued",
		spinner: sp,
	}
}

func (js *jobState) addLog(line string) {
	if len(js.logsRing) >= maxLogLines {
		js.logsRing = js.logsRing[1:]
	}
	js.logsRing = append(js.logsRing, line)
}
