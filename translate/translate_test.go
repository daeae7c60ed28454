package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("address out of bounds", From("address out of bounds"))
	assert.Equal("line 3 'xyz' bad", From("line %d '%v' %v", 3, "xyz", "bad"))
}
