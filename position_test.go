package dynamicfields

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPosition_Filterable(t *testing.T) {
	assert.True(t, PositionRoot.Filterable())
	assert.True(t, PositionListRootChild.Filterable())
	assert.False(t, PositionNested.Filterable())
}

func TestPosition_String(t *testing.T) {
	assert.Equal(t, "root", PositionRoot.String())
	assert.Equal(t, "list_root_child", PositionListRootChild.String())
	assert.Equal(t, "nested", PositionNested.String())
	assert.Equal(t, "unknown", Position(99).String())
}
