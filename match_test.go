package rolling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch_Fixed(t *testing.T) {
	agg := Match(SliceStream([]int{1, 2, 1, 2, 3, 1, 2, 3}), NewWindow(3, Fixed), []int{1, 2, 3})
	assert.Equal(t, []bool{false, false, true, false, false, true}, mustCollect(t, agg))
}

func TestMatch_Variable(t *testing.T) {
	// only full-size windows can match
	agg := Match(SliceStream([]string{"a", "b"}), NewWindow(2, Variable), []string{"a", "b"})
	assert.Equal(t, []bool{false, true, false}, mustCollect(t, agg))
}

func TestMatch_TargetLongerThanWindow(t *testing.T) {
	agg := Match(SliceStream([]int{1, 2, 3}), NewWindow(2, Fixed), []int{1, 2, 3})
	assert.Equal(t, []bool{false, false}, mustCollect(t, agg))
}

func TestMatch_TargetCopied(t *testing.T) {
	target := []int{1, 2}
	op := NewMatchOp(target)
	target[0] = 9
	require.NoError(t, op.Add(1))
	require.NoError(t, op.Add(2))
	v, err := op.Value()
	require.NoError(t, err)
	assert.True(t, v)
}

func TestMatchOp_EmptyRemove(t *testing.T) {
	assert.ErrorIs(t, NewMatchOp([]int{1}).Remove(), ErrEmptyWindow)
}
