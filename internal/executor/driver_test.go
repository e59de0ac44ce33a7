package executor

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xcexec/core/internal/formatter"
	"github.com/xcexec/core/internal/formatter/recording"
	"github.com/xcexec/core/internal/fsutil"
	"github.com/xcexec/core/internal/graph"
	"github.com/xcexec/core/internal/logger"
	"github.com/xcexec/core/internal/model"
	"github.com/xcexec/core/internal/runner"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Options{Writer: os.Stderr})
	require.NoError(t, err)
	return log
}

// fakeDeriver maps targets to a canned (environment, invocations) pair, or to
// "no environment" when absent from envs.
type fakeDeriver struct {
	envs map[model.TargetID]*model.Environment
	invs map[model.TargetID][]*model.Invocation
}

func (f *fakeDeriver) DeriveEnvironment(ctx context.Context, target model.Target) (*model.Environment, bool) {
	env, ok := f.envs[target.ID]
	return env, ok
}

func (f *fakeDeriver) DeriveInvocations(ctx context.Context, target model.Target, env *model.Environment) []*model.Invocation {
	return f.invs[target.ID]
}

func newDriver(t *testing.T, fm formatter.Formatter, deriver Deriver, registry runner.BuiltinRegistry) *Driver {
	t.Helper()
	return &Driver{
		Log:        testLogger(t),
		Formatter:  fm,
		Filesystem: fsutil.OS{},
		Deriver:    deriver,
		Registry:   registry,
		Subprocess: &runner.OSSubprocessRunner{},
	}
}

func TestBuildRunsTargetsInOrderAndSucceeds(t *testing.T) {
	t.Parallel()

	a := model.Target{ID: "a", Name: "a"}
	b := model.Target{ID: "b", Name: "b"}

	g := graph.New[model.TargetID, model.Target]()
	g.Insert(a.ID, a)
	g.Insert(b.ID, b, a.ID)

	deriver := &fakeDeriver{
		envs: map[model.TargetID]*model.Environment{a.ID: {}, b.ID: {}},
		invs: map[model.TargetID][]*model.Invocation{},
	}

	fm := &recording.Formatter{}
	driver := newDriver(t, fm, deriver, runner.NewRegistry())

	ok := driver.Build(context.Background(), nil, formatter.BuildContext{Name: "build"}, g)
	require.True(t, ok)
	require.Equal(t, []string{
		"begin",
		"beginTarget(a)",
		"beginCheckDependencies(a)",
		"finishCheckDependencies(a)",
		"beginWriteAuxiliaryFiles(a)",
		"finishWriteAuxiliaryFiles(a)",
		"beginCreateProductStructure(a)",
		"finishCreateProductStructure(a)",
		"finishTarget(a)",
		"beginTarget(b)",
		"beginCheckDependencies(b)",
		"finishCheckDependencies(b)",
		"beginWriteAuxiliaryFiles(b)",
		"finishWriteAuxiliaryFiles(b)",
		"beginCreateProductStructure(b)",
		"finishCreateProductStructure(b)",
		"finishTarget(b)",
		"success",
	}, fm.Events)
}

func TestBuildTargetGraphCycleEmitsNoCompletionEvent(t *testing.T) {
	t.Parallel()

	a := model.Target{ID: "a", Name: "a"}
	b := model.Target{ID: "b", Name: "b"}

	g := graph.New[model.TargetID, model.Target]()
	g.Insert(a.ID, a, b.ID)
	g.Insert(b.ID, b, a.ID)

	deriver := &fakeDeriver{envs: map[model.TargetID]*model.Environment{}, invs: map[model.TargetID][]*model.Invocation{}}
	fm := &recording.Formatter{}
	driver := newDriver(t, fm, deriver, runner.NewRegistry())

	ok := driver.Build(context.Background(), nil, formatter.BuildContext{Name: "build"}, g)
	require.False(t, ok)
	require.Equal(t, []string{"begin"}, fm.Events, "a target-graph cycle emits begin but neither success nor failure")
}

func TestBuildMissingTargetEnvironmentIsNonFatal(t *testing.T) {
	t.Parallel()

	broken := model.Target{ID: "broken", Name: "broken"}
	healthy := model.Target{ID: "healthy", Name: "healthy"}

	g := graph.New[model.TargetID, model.Target]()
	g.Insert(broken.ID, broken)
	g.Insert(healthy.ID, healthy)

	deriver := &fakeDeriver{
		envs: map[model.TargetID]*model.Environment{healthy.ID: {}},
		invs: map[model.TargetID][]*model.Invocation{},
	}
	fm := &recording.Formatter{}
	driver := newDriver(t, fm, deriver, runner.NewRegistry())

	ok := driver.Build(context.Background(), nil, formatter.BuildContext{Name: "build"}, g)
	require.True(t, ok)
	require.Equal(t, []string{
		"begin",
		"beginTarget(broken)",
		"finishTarget(broken)",
		"beginTarget(healthy)",
		"beginCheckDependencies(healthy)",
		"finishCheckDependencies(healthy)",
		"beginWriteAuxiliaryFiles(healthy)",
		"finishWriteAuxiliaryFiles(healthy)",
		"beginCreateProductStructure(healthy)",
		"finishCreateProductStructure(healthy)",
		"finishTarget(healthy)",
		"success",
	}, fm.Events, "a target with no derivable environment is skipped, not fatal")
}

// TestScenarioS1EmptyTargetGraph matches spec scenario S1: an empty target
// graph produces begin, success and returns true.
func TestScenarioS1EmptyTargetGraph(t *testing.T) {
	t.Parallel()

	g := graph.New[model.TargetID, model.Target]()
	deriver := &fakeDeriver{envs: map[model.TargetID]*model.Environment{}, invs: map[model.TargetID][]*model.Invocation{}}
	fm := &recording.Formatter{}
	driver := newDriver(t, fm, deriver, runner.NewRegistry())

	ok := driver.Build(context.Background(), nil, formatter.BuildContext{Name: "build"}, g)
	require.True(t, ok)
	require.Equal(t, []string{"begin", "success"}, fm.Events)
}

// TestScenarioS2LinearTargetsWithPhonyInvocations matches spec scenario S2:
// two targets, T2 depending on T1, each with a single phony invocation.
func TestScenarioS2LinearTargetsWithPhonyInvocations(t *testing.T) {
	t.Parallel()

	t1 := model.Target{ID: "T1", Name: "T1"}
	t2 := model.Target{ID: "T2", Name: "T2"}

	g := graph.New[model.TargetID, model.Target]()
	g.Insert(t1.ID, t1)
	g.Insert(t2.ID, t2, t1.ID)

	phony := func(id string) []*model.Invocation {
		return []*model.Invocation{{Identifier: id}}
	}

	deriver := &fakeDeriver{
		envs: map[model.TargetID]*model.Environment{t1.ID: {}, t2.ID: {}},
		invs: map[model.TargetID][]*model.Invocation{t1.ID: phony("p1"), t2.ID: phony("p2")},
	}
	fm := &recording.Formatter{}
	driver := newDriver(t, fm, deriver, runner.NewRegistry())

	ok := driver.Build(context.Background(), nil, formatter.BuildContext{Name: "build"}, g)
	require.True(t, ok)
	require.Equal(t, []string{
		"begin",
		"beginTarget(T1)",
		"beginCheckDependencies(T1)",
		"finishCheckDependencies(T1)",
		"beginWriteAuxiliaryFiles(T1)",
		"finishWriteAuxiliaryFiles(T1)",
		"beginCreateProductStructure(T1)",
		"finishCreateProductStructure(T1)",
		"finishTarget(T1)",
		"beginTarget(T2)",
		"beginCheckDependencies(T2)",
		"finishCheckDependencies(T2)",
		"beginWriteAuxiliaryFiles(T2)",
		"finishWriteAuxiliaryFiles(T2)",
		"beginCreateProductStructure(T2)",
		"finishCreateProductStructure(T2)",
		"finishTarget(T2)",
		"success",
	}, fm.Events, "phony invocations participate in ordering but emit no beginInvocation/finishInvocation events")
}

// TestScenarioS6FailurePropagation matches spec scenario S6: the second
// invocation of T1 fails; T1 still finishes and reports failure; T2 never
// starts.
func TestScenarioS6FailurePropagation(t *testing.T) {
	t.Parallel()

	t1 := model.Target{ID: "T1", Name: "T1"}
	t2 := model.Target{ID: "T2", Name: "T2"}

	g := graph.New[model.TargetID, model.Target]()
	g.Insert(t1.ID, t1)
	g.Insert(t2.ID, t2, t1.ID)

	registry := runner.NewRegistry()
	require.NoError(t, registry.Register("ok", runner.BuiltinDriverFunc(func([]string, map[string]string, string) int { return 0 })))
	require.NoError(t, registry.Register("broken", runner.BuiltinDriverFunc(func([]string, map[string]string, string) int { return 1 })))

	first := &model.Invocation{Identifier: "first", Executable: model.Executable{Kind: model.ExecutableBuiltin, BuiltinName: "ok"}, Outputs: []string{"/first"}}
	second := &model.Invocation{Identifier: "second", Executable: model.Executable{Kind: model.ExecutableBuiltin, BuiltinName: "broken"}, Inputs: []string{"/first"}}

	deriver := &fakeDeriver{
		envs: map[model.TargetID]*model.Environment{t1.ID: {}, t2.ID: {}},
		invs: map[model.TargetID][]*model.Invocation{t1.ID: {first, second}},
	}
	fm := &recording.Formatter{}
	driver := newDriver(t, fm, deriver, registry)

	ok := driver.Build(context.Background(), nil, formatter.BuildContext{Name: "build"}, g)
	require.False(t, ok)
	require.Equal(t, []string{
		"begin",
		"beginTarget(T1)",
		"beginCheckDependencies(T1)",
		"finishCheckDependencies(T1)",
		"beginWriteAuxiliaryFiles(T1)",
		"finishWriteAuxiliaryFiles(T1)",
		"beginCreateProductStructure(T1)",
		"finishCreateProductStructure(T1)",
		"beginInvocation(first)",
		"finishInvocation(first)",
		"beginInvocation(second)",
		"finishInvocation(second)",
		"finishTarget(T1)",
		"failure(1)",
	}, fm.Events, "T2 must never start once T1's second invocation fails")
}

func TestBuildStopsAtFirstFailingTarget(t *testing.T) {
	t.Parallel()

	failing := model.Target{ID: "failing", Name: "failing"}
	never := model.Target{ID: "never", Name: "never"}

	g := graph.New[model.TargetID, model.Target]()
	g.Insert(failing.ID, failing)
	g.Insert(never.ID, never, failing.ID)

	registry := runner.NewRegistry()
	require.NoError(t, registry.Register("broken", runner.BuiltinDriverFunc(func([]string, map[string]string, string) int {
		return 1
	})))

	failingInv := &model.Invocation{
		Identifier: "fails",
		Executable: model.Executable{Kind: model.ExecutableBuiltin, BuiltinName: "broken"},
	}

	deriver := &fakeDeriver{
		envs: map[model.TargetID]*model.Environment{failing.ID: {}, never.ID: {}},
		invs: map[model.TargetID][]*model.Invocation{failing.ID: {failingInv}},
	}

	fm := &recording.Formatter{}
	driver := newDriver(t, fm, deriver, registry)

	ok := driver.Build(context.Background(), nil, formatter.BuildContext{Name: "build"}, g)
	require.False(t, ok)
	require.Equal(t, []string{
		"begin",
		"beginTarget(failing)",
		"beginCheckDependencies(failing)",
		"finishCheckDependencies(failing)",
		"beginWriteAuxiliaryFiles(failing)",
		"finishWriteAuxiliaryFiles(failing)",
		"beginCreateProductStructure(failing)",
		"finishCreateProductStructure(failing)",
		"beginInvocation(fails)",
		"finishInvocation(fails)",
		"finishTarget(failing)",
		"failure(1)",
	}, fm.Events, "the never target must not run once an earlier target fails")
}
