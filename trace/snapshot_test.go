package trace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sample() Snapshot {
	return Snapshot{
		Stack:          []string{"f()"},
		TaskQueue:      []string{TimerCallback},
		MicroTaskQueue: []string{PromiseLabel},
		WebAPI:         []WebAPICall{{Operation: TimerOperation, StartTime: time.Unix(1, 0), Duration: TimerDuration}},
		CurrentLine:    3,
		Output:         []string{"x"},
	}
}

func TestEmpty(t *testing.T) {
	e := Empty()
	assert.NotNil(t, e.Stack)
	assert.NotNil(t, e.WebAPI)
	assert.Empty(t, e.Output)
	assert.Equal(t, 0, e.CurrentLine)
	assert.Equal(t, "", e.Top())
}

func TestClone_Independent(t *testing.T) {
	orig := sample()
	c := orig.Clone()
	assert.True(t, orig.Equal(c))

	c.Stack[0] = "g()"
	c.TaskQueue = append(c.TaskQueue, "extra")
	c.WebAPI[0].Operation = "fetch"
	c.Output[0] = "y"

	assert.Equal(t, []string{"f()"}, orig.Stack)
	assert.Equal(t, []string{TimerCallback}, orig.TaskQueue)
	assert.Equal(t, TimerOperation, orig.WebAPI[0].Operation)
	assert.Equal(t, []string{"x"}, orig.Output)
}

func TestEqual_IgnoresStartTime(t *testing.T) {
	a := sample()
	b := sample()
	b.WebAPI[0].StartTime = time.Unix(999, 0)
	assert.True(t, a.Equal(b))

	b.CurrentLine = 4
	assert.False(t, a.Equal(b))

	c := sample()
	c.WebAPI[0].Duration = time.Second
	assert.False(t, a.Equal(c))

	d := sample()
	d.Output = append(d.Output, "more")
	assert.False(t, a.Equal(d))
}

func TestTop(t *testing.T) {
	s := sample()
	s.Stack = append(s.Stack, "g()")
	assert.Equal(t, "g()", s.Top())
}

func TestTimerDurationMs(t *testing.T) {
	assert.Equal(t, int64(2000), WebAPICall{Duration: TimerDuration}.DurationMs())
}
