package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/loopviz/errors"
	"github.com/wippyai/loopviz/trace"
)

const sampleProgram = `// sample
console.log('Hello');
setTimeout(() => {
  console.log('Timeout');
}, 2000);
Promise.resolve().then(() => {
  console.log('Promise');
});
console.log('End');`

func TestEngine_InitialState(t *testing.T) {
	e := New(sampleProgram)
	assert.Equal(t, -1, e.Cursor())

	cur := e.Current()
	assert.True(t, cur.Equal(trace.Empty()))
	assert.NotNil(t, cur.Stack)
	assert.Equal(t, 0, cur.CurrentLine)
}

func TestEngine_SampleTrace(t *testing.T) {
	e := New(sampleProgram)

	var outputs [][]string
	var lines []int
	for {
		s, ok := e.Next()
		if !ok {
			break
		}
		outputs = append(outputs, s.Output)
		lines = append(lines, s.CurrentLine)
	}

	// callback bodies are plain lines to the classifier
	assert.Equal(t, []int{1, 2, 3, 5, 6, 8}, lines)
	assert.Equal(t, []string{"Hello", "Timeout", "Promise", "End"}, outputs[len(outputs)-1])

	last := e.Current()
	assert.Equal(t, []string{"setTimeout callback"}, last.TaskQueue)
	assert.Equal(t, []string{"Promise callback"}, last.MicroTaskQueue)
	require.Len(t, last.WebAPI, 1)
	assert.Equal(t, int64(2000), last.WebAPI[0].DurationMs())
}

func TestEngine_NextExhaustion(t *testing.T) {
	e := New(sampleProgram)
	n := e.Len()
	require.Positive(t, n)

	all := e.Steps()
	for i := 0; i < n; i++ {
		s, ok := e.Next()
		require.True(t, ok, "step %d", i)
		assert.True(t, s.Equal(all[i]), "step %d", i)
		assert.Equal(t, i, e.Cursor())
	}
	assert.True(t, e.Done())

	for i := 0; i < 3; i++ {
		_, ok := e.Next()
		assert.False(t, ok)
		assert.Equal(t, n-1, e.Cursor())
	}
}

func TestEngine_ResetReplays(t *testing.T) {
	e := New(sampleProgram)
	first, ok := e.Next()
	require.True(t, ok)
	e.Next()
	e.Next()

	e.Reset()
	assert.Equal(t, -1, e.Cursor())
	assert.True(t, e.Current().Equal(trace.Empty()))
	assert.Equal(t, len(e.Steps()), e.Len(), "reset must not rebuild")

	again, ok := e.Next()
	require.True(t, ok)
	assert.True(t, first.Equal(again))
}

func TestEngine_EmptySource(t *testing.T) {
	e := New("")
	assert.Equal(t, 0, e.Len())
	assert.True(t, e.Done())
	_, ok := e.Next()
	assert.False(t, ok)
	assert.Equal(t, -1, e.Cursor())
	assert.True(t, e.Current().Equal(trace.Empty()))
}

func TestEngine_Deterministic(t *testing.T) {
	src := `const f = () => {
  console.log('x');
  setTimeout(() => {}, 10);
};
f();
f();`
	a := New(src)
	b := New(src, WithClock(func() time.Time { return time.Unix(42, 0) }))

	require.Equal(t, a.Len(), b.Len())
	as, bs := a.Steps(), b.Steps()
	for i := range as {
		assert.True(t, as[i].Equal(bs[i]), "step %d", i)
	}
}

func TestEngine_CurrentIsImmutable(t *testing.T) {
	e := New("const f = () => {\n  console.log('x');\n};\nf();")
	e.Next()
	e.Next()

	cur := e.Current()
	cur.Stack[0] = "mutated"
	cur.Output = append(cur.Output, "extra")
	cur.TaskQueue = append(cur.TaskQueue, "extra")

	again := e.Current()
	assert.Equal(t, []string{"f()"}, again.Stack)
	assert.Equal(t, []string{"x"}, again.Output)

	first, err := e.Step(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"f()"}, first.Stack)
	assert.Empty(t, first.Output)

	steps := e.Steps()
	steps[2].Output[0] = "mutated"
	last, _ := e.Step(2)
	assert.Equal(t, []string{"x"}, last.Output)
}

func TestEngine_Step(t *testing.T) {
	e := New("console.log('a');")
	_, err := e.Step(1)
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseReplay, Kind: errors.KindOutOfBounds})
	assert.Equal(t, -1, e.Cursor())
}

func TestEngine_FunctionsAndDiagnostics(t *testing.T) {
	src := `const a = () => {
  a();
};
const b = () => {
a();
missing();`
	e := New(src, WithMaxDepth(2))

	assert.Equal(t, []string{"a"}, e.Functions())
	rec, ok := e.Function("a")
	require.True(t, ok)
	assert.Equal(t, 0, rec.Start)
	assert.Equal(t, 2, rec.End)
	rec.Body[0] = "mutated"
	again, _ := e.Function("a")
	assert.Equal(t, "const a = () => {", again.Body[0])

	_, ok = e.Function("b")
	assert.False(t, ok)

	kinds := map[errors.Kind]int{}
	for _, d := range e.Diagnostics() {
		kinds[d.Kind]++
	}
	assert.Equal(t, 1, kinds[errors.KindUnbalancedBlock])
	assert.Equal(t, 1, kinds[errors.KindRecursionLimit])
	assert.Equal(t, 1, kinds[errors.KindUnknownCall])
	assert.Equal(t, src, e.Source())
}

func TestEngine_Logging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	New("const f = () => {\n  f();\n};\nf();", WithMaxDepth(1))

	assert.Equal(t, 1, logs.FilterMessage("engine constructed").Len())
	assert.Equal(t, 1, logs.FilterMessage("call depth limit reached").Len())
	assert.Equal(t, 1, logs.FilterMessage("trace built").Len())
}
