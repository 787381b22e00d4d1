package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"sizefit/internal/progress"
	"sizefit/internal/util/format"
)

func (m Model) viewHeader() string {
	done, total := 0, len(m.jobOrder)
	for _, id := range m.jobOrder {
		if m.jobs[id].done {
			done++
		}
	}
	budget := format.HumanizeBytes(int64(m.opts.TargetSizeMB * 1024 * 1024))
	title := m.styles.Title.Render("sizefit: bitrate sizing")
	sub := m.styles.Subtitle.Render(fmt.Sprintf("Target %s, audio %d kbps • Jobs: %d/%d done • q: quit", budget, m.opts.AudioKbps, done, total))
	return title + "\n" + sub
}

func (m Model) viewJobs() string {
	var b strings.Builder
	for _, id := range m.jobOrder {
		js := m.jobs[id]
		b.WriteString(m.viewJob(js))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewJob(js *jobState) string {
	stageStyle := m.styles.JobInfo
	switch js.stage {
	case progress.StageProbing:
		stageStyle = m.styles.StageProbe
	case progress.StageSizing:
		stageStyle = m.styles.StageSize
	case progress.StageCompleted:
		stageStyle = m.styles.Success
	case progress.StageError:
		stageStyle = m.styles.Error
	}

	left := m.styles.JobTitle.Render(truncate(js.input, 48))
	stage := stageStyle.Render(string(js.stage))

	var right string
	switch {
	case js.done && js.err == nil:
		right = m.styles.Success.Render("✓") + " " + m.styles.Kbps.Render(fmt.Sprintf("%d kbps", js.result.VideoKbps))
		if js.result.ReduceFrameRate {
			right += " " + m.styles.Warning.Render("reduce to 30 fps")
		}
	case js.err != nil:
		right = m.styles.Error.Render("✗ error")
	case js.started:
		right = m.styles.Spinner.Render(js.spinner.View()) + " " + m.styles.Faint.Render("working")
	default:
		right = m.styles.Faint.Render("waiting")
	}

	info := js.status
	if js.err != nil && len(js.logsRing) > 0 {
		info += "\n" + m.styles.Faint.Render(js.logsRing[len(js.logsRing)-1])
	}
	line1 := fmt.Sprintf("%s  %s", left, stage)
	line2 := m.styles.JobInfo.Render(info)
	return m.styles.Box.Render(line1 + "\n" + right + "\n" + line2)
}

func (m Model) viewSummary() string {
	var completed []string
	for _, id := range m.jobOrder {
		js := m.jobs[id]
		if js.done && js.err == nil {
			completed = append(completed, fmt.Sprintf("%s  %s", filepath.Base(js.input), resultLine(js.result)))
		}
	}

	if len(completed) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Subtitle.Render("✓ Sized Files:"))
	b.WriteString("\n")
	for _, line := range completed {
		b.WriteString(m.styles.Success.Render("  • " + line))
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
