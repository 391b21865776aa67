package background

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisperserToken(t *testing.T) {
	root, cancel := context.WithCancel(context.Background())
	defer cancel()
	d := newDisperser(root)

	first := d.current()
	assert.NoError(t, first.Err())

	d.raise()
	d.raise()
	assert.ErrorIs(t, first.Err(), context.Canceled)
	assert.Error(t, d.current().Err(), "token must stay canceled while raised")

	d.lower()
	assert.Error(t, d.current().Err(), "one request still outstanding")

	d.lower()
	second := d.current()
	assert.NoError(t, second.Err())

	cancel()
	assert.ErrorIs(t, second.Err(), context.Canceled)
}

func TestDisperserUnbalancedLowerPanics(t *testing.T) {
	d := newDisperser(context.Background())
	assert.Panics(t, d.lower)
}
