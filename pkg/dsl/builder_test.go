package dsl

import (
	"testing"

	"github.com/aretw0/bloom/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func label(text string) StepFunc {
	return func(st *domain.State) *domain.View {
		return El("p", Text(text))
	}
}

func texts(t *testing.T, p domain.Producer, st *domain.State, n int) []string {
	t.Helper()
	var out []string
	for i := 0; i < n; i++ {
		v, ok := p.Next(st)
		if !ok {
			out = append(out, "<done>")
			continue
		}
		out = append(out, v.Children[0].Text)
	}
	return out
}

func TestBuilder_LinearSequenceTerminates(t *testing.T) {
	factory, err := New().Step(label("one")).Step(label("two")).Build()
	require.NoError(t, err)

	got := texts(t, factory(), domain.NewState(), 4)
	assert.Equal(t, []string{"one", "two", "<done>", "<done>"}, got)
}

func TestBuilder_LoopWrapsAround(t *testing.T) {
	factory, err := New().Step(label("name")).Step(label("age")).Loop().Build()
	require.NoError(t, err)

	got := texts(t, factory(), domain.NewState(), 5)
	assert.Equal(t, []string{"name", "age", "name", "age", "name"}, got)
}

func TestBuilder_NoSteps(t *testing.T) {
	_, err := New().Build()
	assert.ErrorIs(t, err, ErrNoSteps)

	assert.Panics(t, func() { New().MustBuild() })
}

func TestBuilder_InitRunsOncePerInstance(t *testing.T) {
	calls := 0
	factory := New().
		Init(func(st *domain.State) {
			calls++
			st.Set("count", 0)
		}).
		Step(func(st *domain.State) *domain.View {
			return Txt(st.String("count"))
		}).
		Loop().
		MustBuild()

	p := factory()
	st := domain.NewState()
	v, ok := p.Next(st)
	require.True(t, ok)
	assert.Equal(t, "0", v.Text)

	_, _ = p.Next(st)
	assert.Equal(t, 1, calls)

	_, _ = factory().Next(domain.NewState())
	assert.Equal(t, 2, calls)
}

func TestSequence_CurrentReflectsState(t *testing.T) {
	factory := New().Step(func(st *domain.State) *domain.View {
		return Txt("hello " + st.String("name"))
	}).MustBuild()

	p := factory().(*Sequence)
	st := domain.NewState()

	_, ok := p.Current(st)
	assert.False(t, ok, "nothing is current before the first Next")

	_, ok = p.Next(st)
	require.True(t, ok)

	st.Set("name", "Ada")
	v, ok := p.Current(st)
	require.True(t, ok)
	assert.Equal(t, "hello Ada", v.Text)
	assert.Equal(t, 0, p.Position(), "Current does not advance")
}

func TestSequence_Seek(t *testing.T) {
	factory := New().Step(label("a")).Step(label("b")).Step(label("c")).MustBuild()
	p := factory().(*Sequence)
	st := domain.NewState()

	require.NoError(t, p.Seek(1))
	v, ok := p.Current(st)
	require.True(t, ok)
	assert.Equal(t, "b", v.Children[0].Text)

	v, ok = p.Next(st)
	require.True(t, ok)
	assert.Equal(t, "c", v.Children[0].Text)

	require.NoError(t, p.Seek(3))
	_, ok = p.Next(st)
	assert.False(t, ok, "seeking to the end terminates the sequence")

	assert.Error(t, p.Seek(4))
	assert.Error(t, p.Seek(-2))
}

func TestSequence_InstancesAreIndependent(t *testing.T) {
	factory := New().Step(label("a")).Step(label("b")).MustBuild()
	p1, p2 := factory(), factory()
	st := domain.NewState()

	_, _ = p1.Next(st)
	_, _ = p1.Next(st)

	v, ok := p2.Next(st)
	require.True(t, ok)
	assert.Equal(t, "a", v.Children[0].Text)
}
