package ui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"sizefit/internal/model"
	"sizefit/internal/pipeline"
	"sizefit/internal/progress"
	"sizefit/internal/util/deps"
)

type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	// App state (deps)
	depsChecked bool
	depsErr     error
	ffprobePath string

	// Jobs
	inputs   []string
	opts     model.Options
	svcOpts  []pipeline.Option
	jobOrder []string
	jobs     map[string]*jobState
	workers  int
	running  int
	next     int // next index in inputs to start

	// UI
	width, height int
	styles        Styles

	// Internal event channel used by reporter to feed tea messages
	eventCh chan tea.Msg
}

// NewModel builds the TUI model. svcOpts are applied to every job's
// pipeline.Service before the per-job options.
func NewModel(ctx context.Context, inputs []string, opts model.Options, svcOpts ...pipeline.Option) Model {
	c, cancel := context.WithCancel(ctx)
	sty := defaultStyles()

	jobs := make(map[string]*jobState, len(inputs))
	order := make([]string, 0, len(inputs))
	for i, in := range inputs {
		id := toID(i)
		js := newJobState(id, in, sty)
		jobs[id] = &js
		order = append(order, id)
	}

	workers := opts.Jobs
	if workers <= 0 {
		workers = 2
	}

	return Model{
		ctx:      c,
		cancel:   cancel,
		inputs:   inputs,
		opts:     opts,
		svcOpts:  svcOpts,
		jobs:     jobs,
		jobOrder: order,
		workers:  workers,
		styles:   sty,
		eventCh:  make(chan tea.Msg, 256),
	}
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	for _, id := range m.jobOrder {
		cmds = append(cmds, m.jobs[id].spinner.Tick)
	}
	// Listen for reporter events
	cmds = append(cmds, m.listenEventsCmd())
	// Kick off dependency check
	cmds = append(cmds, m.checkDepsCmd())
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case depsCheckedMsg:
		m.depsChecked = true
		m.depsErr = msg.Err
		m.ffprobePath = msg.FFprobePath
		if m.depsErr != nil {
			for _, id := range m.jobOrder {
				js := m.jobs[id]
				js.stage = progress.StageError
				js.status = "Dependency error: " + m.depsErr.Error()
				js.err = m.depsErr
				js.done = true
			}
			return m, tea.Quit
		}
		return m, m.startNextWorkers()

	case jobUpdateMsg:
		u := msg.U
		if js, ok := m.jobs[u.JobID]; ok && !js.done {
			js.stage = u.Stage
			js.status = u.Message
		}
	case jobLogMsg:
		l := msg.L
		if js, ok := m.jobs[l.JobID]; ok {
			js.addLog(strings.TrimRight(l.Line, "\r\n"))
		}
	case jobResultMsg:
		r := msg.R
		if js, ok := m.jobs[r.JobID]; ok && !js.done {
			js.done = true
			js.err = r.Err
			if r.Err == nil {
				js.stage = progress.StageCompleted
				js.result = r.Bitrate
				js.status = resultLine(r.Bitrate)
			} else {
				js.stage = progress.StageError
				js.status = r.Err.Error()
			}
			m.running--
			return m, tea.Batch(m.startNextWorkers(), m.listenEventsCmd())
		}
	case allDoneMsg:
		return m, tea.Quit
	}

	// Update per-job components (spinner)
	var cmds []tea.Cmd
	for _, id := range m.jobOrder {
		js := m.jobs[id]
		var c tea.Cmd
		js.spinner, c = js.spinner.Update(msg)
		if c != nil {
			cmds = append(cmds, c)
		}
	}
	// Keep listening for events
	switch msg.(type) {
	case jobUpdateMsg, jobLogMsg, jobResultMsg:
		cmds = append(cmds, m.listenEventsCmd())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	summary := m.viewSummary()
	if summary != "" {
		return m.viewHeader() + "\n\n" + m.viewJobs() + "\n" + summary
	}
	return m.viewHeader() + "\n\n" + m.viewJobs()
}

var errInterrupted = errors.New("not sized (interrupted)")

// Results returns one progress.Result per input, in input order. Jobs that
// never finished carry errInterrupted.
func (m Model) Results() []progress.Result {
	out := make([]progress.Result, 0, len(m.jobOrder))
	for _, id := range m.jobOrder {
		js := m.jobs[id]
		err := js.err
		if !js.done {
			err = errInterrupted
		}
		out = append(out, progress.Result{JobID: id, Input: js.input, Bitrate: js.result, Err: err})
	}
	return out
}

func (m Model) listenEventsCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return allDoneMsg{}
		case msg := <-m.eventCh:
			return msg
		}
	}
}

func (m Model) checkDepsCmd() tea.Cmd {
	return func() tea.Msg {
		p, err := deps.FindFFprobe(m.opts.FFprobePath)
		return depsCheckedMsg{FFprobePath: p, Err: err}
	}
}

// startNextWorkers marks queued jobs as started up to the worker limit and
// returns the commands that run them. It mutates m, so it must be called on
// the model that Update returns.
func (m *Model) startNextWorkers() tea.Cmd {
	select {
	case <-m.ctx.Done():
		return func() tea.Msg { return allDoneMsg{} }
	default:
	}
	var cmds []tea.Cmd
	for m.running < m.workers && m.next < len(m.inputs) {
		idx := m.next
		jobID := m.jobOrder[idx]
		m.next++
		m.running++
		if js := m.jobs[jobID]; js != nil {
			js.started = true
			js.stage = progress.StageProbing
			js.status = "Starting"
		}
		cmds = append(cmds, m.runJobCmd(jobID, m.inputs[idx]))
	}
	if m.next >= len(m.inputs) && m.running == 0 {
		return func() tea.Msg { return allDoneMsg{} }
	}
	return tea.Batch(cmds...)
}

func (m Model) runJobCmd(jobID, input string) tea.Cmd {
	opts := append([]pipeline.Option{}, m.svcOpts...)
	opts = append(opts,
		pipeline.WithFFprobePath(m.ffprobePath),
		pipeline.WithOptions(m.opts),
		pipeline.WithReporter(teaReporter{ctx: m.ctx, ch: m.eventCh}),
		pipeline.WithJobID(jobID),
	)
	svc := pipeline.NewService(opts...)
	ctx := m.ctx
	return func() tea.Msg {
		// Outcome reaches the model through the reporter.
		_, _ = svc.Run(ctx, model.Request{Input: input})
		return nil
	}
}

type teaReporter struct {
	ctx context.Context
	ch  chan tea.Msg
}

func (r teaReporter) Update(u progress.Update) {
	// Block on completion messages to ensure they're delivered
	if u.Stage == progress.StageCompleted || u.Stage == progress.StageError {
		r.send(jobUpdateMsg{U: u})
		return
	}
	select {
	case r.ch <- jobUpdateMsg{U: u}:
	default:
	}
}
func (r teaReporter) Log(l progress.Log) {
	select {
	case r.ch <- jobLogMsg{L: l}:
	default:
	}
}
func (r teaReporter) Result(res progress.Result) {
	// Always block on Result messages - they're critical
	r.send(jobResultMsg{R: res})
}

// send blocks until the model takes msg or the program is shutting down.
func (r teaReporter) send(msg tea.Msg) {
	select {
	case r.ch <- msg:
	case <-r.ctx.Done():
	}
}

func toID(i int) string {
	return "job-" + strconv.Itoa(i)
}

// resultLine renders a recommendation in the same "<kbps> <0|1>" shape the
// root command prints.
func resultLine(r model.BitrateResult) string {
	flag := 0
	if r.ReduceFrameRate {
		flag = 1
	}
	return strconv.Itoa(r.VideoKbps) + " " + strconv.Itoa(flag)
}
