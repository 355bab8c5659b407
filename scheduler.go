package voidecs

import (
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// Stage is one of the five fixed scheduling buckets systems run in,
// always executed in this order within a frame.
type Stage int

const (
	PreUpdate Stage = iota
	Update
	PostUpdate
	Render
	Cleanup
)

// stageOrder is the fixed execution order this package mandates.
var stageOrder = [...]Stage{PreUpdate, Update, PostUpdate, Render, Cleanup}

func (s Stage) String() string {
	switch s {
	case PreUpdate:
		return "pre_update"
	case Update:
		return "update"
	case PostUpdate:
		return "post_update"
	case Render:
		return "render"
	case Cleanup:
		return "cleanup"
	default:
		return "unknown"
	}
}

// App is the single mutable context passed to every system: the world
// (entities/archetypes/queries), its resource store, and the scheduler
// and plugin manager driving it. An explicit context parameter beats a
// process singleton; App is that parameter.
type App struct {
	World     *World
	Scheduler *Scheduler
	Plugins   *PluginManager
}

// NewApp wires a fresh World, Scheduler, and PluginManager together.
func NewApp() *App {
	app := &App{World: NewWorld()}
	app.Scheduler = NewScheduler()
	app.Plugins = NewPluginManager()
	return app
}

// System is a callable registered into a stage. Only Name and Update are
// required; the rest are optional capabilities the scheduler probes for
// via type assertion, the way vamplite's System interfaces separate
// required methods from optional ones.
type System interface {
	Name() string
	Update(app *App, dt float64) error
}

// Prioritized systems tiebreak against siblings at the same topological
// level; higher priority runs first.
type Prioritized interface {
	Priority() int
}

// DependsOn systems declare names of systems that must complete first,
// within the same stage.
type DependsOn interface {
	DependsOn() []string
}

// ParallelEligible systems are tagged as safe to run in the same
// preparatory run as their topological siblings. The scheduler still
// executes every run's members sequentially today.
type ParallelEligible interface {
	CanRunParallel() bool
}

// Initializable systems get an init hook when registered through AddTo.
type Initializable interface {
	Init(app *App) error
}

// Finalizable systems get a teardown hook when removed through
// RemoveFrom or when the scheduler is cleared.
type Finalizable interface {
	Finalize(app *App) error
}

// SystemStats records per-system execution outcomes.
type SystemStats struct {
	TotalTimeNS int64
	CallCount   int64
	ErrorCount  int64
}

// systemWrapper is the scheduler's bookkeeping record for one system.
type systemWrapper struct {
	system         System
	stage          Stage
	enabled        bool
	stats          SystemStats
	executionOrder int
}

// Scheduler groups registered systems by stage, resolves each stage's
// intra-stage dependency DAG, and executes systems in topo+priority
// order, recording per-system timing. Execution is single-threaded and
// strictly sequential; see the package doc.
type Scheduler struct {
	byName       map[string]*systemWrapper
	byStage      map[Stage][]*systemWrapper
	needsReorder map[Stage]bool
	statsEnabled bool
	logger       *slog.Logger
}

// SchedulerOptions configures a Scheduler at construction time.
type SchedulerOptions struct {
	// StatsEnabled toggles per-system timing collection. Defaults to true
	// in DefaultSchedulerOptions.
	StatsEnabled bool
	// Logger receives a warning every time a system's Update returns an
	// error, before that error propagates to the caller. Defaults to
	// slog.Default() in DefaultSchedulerOptions.
	Logger *slog.Logger
}

// DefaultSchedulerOptions returns the options NewScheduler uses.
func DefaultSchedulerOptions() SchedulerOptions {
	return SchedulerOptions{StatsEnabled: true, Logger: slog.Default()}
}

// NewScheduler returns an empty scheduler configured with
// DefaultSchedulerOptions.
func NewScheduler() *Scheduler {
	return NewSchedulerWithOptions(DefaultSchedulerOptions())
}

// NewSchedulerWithOptions returns an empty scheduler configured by opts.
func NewSchedulerWithOptions(opts SchedulerOptions) *Scheduler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		byName:       make(map[string]*systemWrapper),
		byStage:      make(map[Stage][]*systemWrapper),
		needsReorder: make(map[Stage]bool),
		statsEnabled: opts.StatsEnabled,
		logger:       logger,
	}
}

// SetStatsEnabled toggles per-system timing collection.
func (s *Scheduler) SetStatsEnabled(enabled bool) { s.statsEnabled = enabled }

// Add registers system into stage. It does not run Init even if system
// implements Initializable; use AddTo for that. Rejects a duplicate
// name.
func (s *Scheduler) Add(system System, stage Stage) error {
	name := system.Name()
	if _, exists := s.byName[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateSystemName, name)
	}
	w := &systemWrapper{system: system, stage: stage, enabled: true}
	s.byName[name] = w
	s.byStage[stage] = append(s.byStage[stage], w)
	s.needsReorder[stage] = true
	return nil
}

// AddTo is like Add but also runs system's Init hook (if it implements
// Initializable) against app immediately after registration, rolling
// the registration back if Init fails.
func (s *Scheduler) AddTo(app *App, system System, stage Stage) error {
	if err := s.Add(system, stage); err != nil {
		return err
	}
	if init, ok := system.(Initializable); ok {
		if err := init.Init(app); err != nil {
			s.Remove(system.Name())
			return err
		}
	}
	return nil
}

// SetEnabled toggles whether name runs during UpdateStage/UpdateAll.
func (s *Scheduler) SetEnabled(name string, enabled bool) error {
	w, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrSystemNotFound, name)
	}
	w.enabled = enabled
	return nil
}

// IsEnabled reports whether name is currently enabled.
func (s *Scheduler) IsEnabled(name string) (bool, bool) {
	w, ok := s.byName[name]
	if !ok {
		return false, false
	}
	return w.enabled, true
}

// Remove unregisters name. Returns false if it was not registered.
func (s *Scheduler) Remove(name string) bool {
	w, ok := s.byName[name]
	if !ok {
		return false
	}
	delete(s.byName, name)
	list := s.byStage[w.stage]
	for i, sw := range list {
		if sw == w {
			s.byStage[w.stage] = append(list[:i], list[i+1:]...)
			break
		}
	}
	s.needsReorder[w.stage] = true
	return true
}

// RemoveFrom is like Remove but also runs the system's Finalize hook
// (if it implements Finalizable) against app before unregistering it.
func (s *Scheduler) RemoveFrom(app *App, name string) (bool, error) {
	w, ok := s.byName[name]
	if !ok {
		return false, nil
	}
	if fin, ok := w.system.(Finalizable); ok {
		if err := fin.Finalize(app); err != nil {
			return false, err
		}
	}
	return s.Remove(name), nil
}

// Clear unregisters every system, running each one's Finalize hook (if
// any) against app first. Collects and returns every finalize error
// rather than stopping at the first.
func (s *Scheduler) Clear(app *App) error {
	var errs []error
	for _, w := range s.byName {
		if fin, ok := w.system.(Finalizable); ok {
			if err := fin.Finalize(app); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", w.system.Name(), err))
			}
		}
	}
	s.byName = make(map[string]*systemWrapper)
	s.byStage = make(map[Stage][]*systemWrapper)
	s.needsReorder = make(map[Stage]bool)
	if len(errs) > 0 {
		return fmt.Errorf("finalize errors: %v", errs)
	}
	return nil
}

// Stats returns the recorded timing/error counters for name.
func (s *Scheduler) Stats(name string) (SystemStats, bool) {
	w, ok := s.byName[name]
	if !ok {
		return SystemStats{}, false
	}
	return w.stats, true
}

// computeExecutionOrder performs Kahn's-algorithm topological sort over
// the stage's declared depends_on edges, then assigns
// executionOrder = level*1000 - priority, where level is the system's
// topological level (0 for systems with no dependencies, otherwise one
// more than its deepest dependency), so ties within a topological level
// break toward higher priority.
func (s *Scheduler) computeExecutionOrder(stage Stage) error {
	systems := s.byStage[stage]
	indexOf := make(map[string]int, len(systems))
	for i, w := range systems {
		indexOf[w.system.Name()] = i
	}

	// inDegree[i] counts dependencies of systems[i]; adjacency[i] lists
	// systems that depend on systems[i] (edge dep -> system).
	inDegree := make([]int, len(systems))
	adjacency := make([][]int, len(systems))
	for i, w := range systems {
		dn, ok := w.system.(DependsOn)
		if !ok {
			continue
		}
		for _, depName := range dn.DependsOn() {
			depIdx, ok := indexOf[depName]
			if !ok {
				return fmt.Errorf("%w: system %q depends on %q", ErrUnknownDependency, w.system.Name(), depName)
			}
			adjacency[depIdx] = append(adjacency[depIdx], i)
			inDegree[i]++
		}
	}

	queue := make([]int, 0, len(systems))
	for i := range systems {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}
	// Keep Kahn's frontier in a stable, deterministic order; ties left
	// after the priority tiebreak resolve by registration order through
	// UpdateStage's stable sort.
	sort.Ints(queue)

	level := make([]int, len(systems))
	visited := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		visited++
		var freed []int
		for _, next := range adjacency[cur] {
			if level[cur]+1 > level[next] {
				level[next] = level[cur] + 1
			}
			inDegree[next]--
			if inDegree[next] == 0 {
				freed = append(freed, next)
			}
		}
		sort.Ints(freed)
		queue = append(queue, freed...)
	}
	if visited != len(systems) {
		return fmt.Errorf("%w: stage %s", ErrCircularDependency, stage)
	}

	for i, w := range systems {
		priority := 0
		if p, ok := w.system.(Prioritized); ok {
			priority = p.Priority()
		}
		w.executionOrder = level[i]*1000 - priority
	}
	s.needsReorder[stage] = false
	return nil
}

// UpdateStage runs every enabled system registered to stage, in
// dependency+priority order, partitioned into runs of consecutive
// parallel-eligible systems (each run's members still execute
// sequentially on the caller's goroutine) separated by sequential
// systems.
func (s *Scheduler) UpdateStage(app *App, stage Stage, dt float64) error {
	if s.needsReorder[stage] {
		if err := s.computeExecutionOrder(stage); err != nil {
			return err
		}
	}

	enabled := make([]*systemWrapper, 0, len(s.byStage[stage]))
	for _, w := range s.byStage[stage] {
		if w.enabled {
			enabled = append(enabled, w)
		}
	}
	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].executionOrder < enabled[j].executionOrder
	})

	for _, run := range partitionIntoRuns(enabled) {
		for _, w := range run {
			if err := s.runSystem(app, w, dt); err != nil {
				return err
			}
		}
	}
	return nil
}

// partitionIntoRuns groups consecutive parallel-eligible systems into
// runs; any sequential system starts (and, being alone, ends) its own
// run. This mirrors a scheduler that could dispatch a run's members
// concurrently; today every run's members still execute in order.
func partitionIntoRuns(systems []*systemWrapper) [][]*systemWrapper {
	var runs [][]*systemWrapper
	var current []*systemWrapper
	flush := func() {
		if len(current) > 0 {
			runs = append(runs, current)
			current = nil
		}
	}
	for _, w := range systems {
		parallel := false
		if p, ok := w.system.(ParallelEligible); ok {
			parallel = p.CanRunParallel()
		}
		if parallel {
			current = append(current, w)
			continue
		}
		flush()
		runs = append(runs, []*systemWrapper{w})
	}
	flush()
	return runs
}

func (s *Scheduler) runSystem(app *App, w *systemWrapper, dt float64) error {
	if !s.statsEnabled {
		err := w.system.Update(app, dt)
		if err != nil {
			s.logger.Warn("system update failed", "system", w.system.Name(), "stage", w.stage, "error", err)
		}
		return err
	}
	start := time.Now()
	err := w.system.Update(app, dt)
	w.stats.TotalTimeNS += time.Since(start).Nanoseconds()
	w.stats.CallCount++
	if err != nil {
		w.stats.ErrorCount++
		s.logger.Warn("system update failed", "system", w.system.Name(), "stage", w.stage, "error", err)
	}
	return err
}

// UpdateAll runs UpdateStage for every stage in the fixed stage order,
// stopping at the first error (the remaining stages in this frame do
// not run).
func (s *Scheduler) UpdateAll(app *App, dt float64) error {
	for _, stage := range stageOrder {
		if err := s.UpdateStage(app, stage, dt); err != nil {
			return err
		}
	}
	return nil
}
