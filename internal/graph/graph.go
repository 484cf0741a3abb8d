package graph

import (
	"io"
	"log/slog"

	"github.com/vk/paramgraph/internal/cell"
	"github.com/vk/paramgraph/internal/dag"
	"github.com/vk/paramgraph/internal/scheduler"
)

// Manager is the reference implementation of Graph.
type Manager struct {
	edges  *dag.Graph
	sched  *scheduler.Scheduler
	logger *slog.Logger

	listeners []subscription
	nextSub   int

	onDetach []func(c *cell.Cell)
}

type subscription struct {
	id int
	fn Listener
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for debug traces.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// New creates an empty graph.
func New(opts ...Option) *Manager {
	m := &Manager{
		edges:  dag.New(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.sched = scheduler.New(m.edges, m.logger)
	return m
}

var _ Graph = (*Manager)(nil)

func (m *Manager) Attach(c *cell.Cell) {
	m.edges.AddNode(c)
	c.Attach(m)
	if c.HasCompute() {
		c.MarkDirty()
	}
}

func (m *Manager) Detach(c *cell.Cell) {
	if c.Engine() != m {
		return
	}
	m.edges.RemoveNode(c)
	c.Detach()
	m.logger.Debug("Detach: cell removed from graph.", "cell", c.Path())
	for _, fn := range m.onDetach {
		fn(c)
	}
}

// OnDetach registers fn to run after a cell has been detached. Owners of
// state keyed by cells, such as link tables, use it to drop destroyed cells.
func (m *Manager) OnDetach(fn func(c *cell.Cell)) {
	m.onDetach = append(m.onDetach, fn)
}

func (m *Manager) AddDependency(source, target *cell.Cell) error {
	if err := m.edges.AddEdge(source, target); err != nil {
		return err
	}
	m.logger.Debug("AddDependency: edge added.", "source", source.Path(), "target", target.Path())
	if target.HasCompute() {
		target.AddCause(source)
		m.Invalidate(target)
	}
	return nil
}

func (m *Manager) RemoveDependency(source, target *cell.Cell) bool {
	if !m.edges.RemoveEdge(source, target) {
		return false
	}
	if target.HasCompute() {
		m.Invalidate(target)
	}
	return true
}

func (m *Manager) Dependencies(target *cell.Cell) ([]*cell.Cell, error) {
	return m.edges.Dependencies(target)
}

func (m *Manager) Dependents(source *cell.Cell) ([]*cell.Cell, error) {
	return m.edges.Dependents(source)
}

func (m *Manager) Subscribe(l Listener) func() {
	id := m.nextSub
	m.nextSub++
	m.listeners = append(m.listeners, subscription{id: id, fn: l})
	return func() {
		for i, s := range m.listeners {
			if s.id == id {
				m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

func (m *Manager) DetectCycles() error { return m.edges.DetectCycles() }
func (m *Manager) Len() int            { return m.edges.Len() }

// Writable rejects writes to a cell that is being resolved further up the
// stack. Such a write can only come from a compute or change function
// re-entering the graph.
func (m *Manager) Writable(c *cell.Cell) error {
	if m.sched.Resolving(c) {
		return m.sched.CycleError(c)
	}
	return nil
}

// Changed propagates a direct write downstream and notifies subscribers.
func (m *Manager) Changed(c *cell.Cell) {
	dirtied := m.edges.PropagateDirty(c)
	m.logger.Debug("Changed: propagated.", "cell", c.Path(), "dirtied", len(dirtied))

	// Listeners may unsubscribe while being notified.
	listeners := append([]subscription(nil), m.listeners...)
	for _, s := range listeners {
		s.fn(c)
	}
}

// Invalidate marks c and everything downstream of it dirty.
func (m *Manager) Invalidate(c *cell.Cell) {
	c.MarkDirty()
	m.edges.PropagateDirty(c)
}

// Resolve brings c up to date, see package scheduler.
func (m *Manager) Resolve(c *cell.Cell) error {
	return m.sched.Resolve(c)
}
