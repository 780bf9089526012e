package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeed_Equal(t *testing.T) {
	need1 := &Need{ID: int64Ptr(1)}
	need2 := &Need{ID: need1.ID}
	assert.True(t, need1.Equal(need2))

	need2.ID = int64Ptr(2)
	assert.False(t, need1.Equal(need2))

	need1.ID = nil
	assert.False(t, need1.Equal(need2))

	need2.ID = nil
	assert.False(t, need1.Equal(need2))
}

func TestNeed_ProductID(t *testing.T) {
	assert.Nil(t, (&Need{}).ProductID())
	assert.Nil(t, (&Need{Product: &Product{}}).ProductID())
	assert.Equal(t, int64(4), *(&Need{Product: &Product{ID: int64Ptr(4)}}).ProductID())
}

func TestNeed_String(t *testing.T) {
	n := &Need{ID: int64Ptr(5), Priority: stringPtr("AAAAAAAAAA")}
	assert.Equal(t, "Need{id=5, priority='AAAAAAAAAA'}", n.String())
	assert.Equal(t, "Need{id=null, priority='null'}", (&Need{}).String())
}
