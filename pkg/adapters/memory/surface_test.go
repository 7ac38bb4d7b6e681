package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/bloom/pkg/adapters/memory"
	"github.com/aretw0/bloom/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestSurface_Records(t *testing.T) {
	s := memory.NewSurface()
	assert.Nil(t, s.Last())

	a := &domain.View{Text: "a"}
	b := &domain.View{Text: "b"}
	_ = s.Apply(context.Background(), a)
	_ = s.Apply(context.Background(), b)

	assert.Equal(t, 2, s.Count())
	assert.Same(t, b, s.Last())
	assert.Equal(t, []*domain.View{a, b}, s.Views())

	s.Reset()
	assert.Equal(t, 0, s.Count())
}
