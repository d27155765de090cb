package handler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The unlike response must still carry the resulting state; clients key
// the button off the liked boolean, not off its absence.
func TestToggleLikeResultEncodesUnlike(t *testing.T) {
	bs, err := json.Marshal(ToggleLikeResult{Success: true, Liked: false})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"liked":false}`, string(bs))

	bs, err = json.Marshal(ToggleLikeResult{Success: true, Liked: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"liked":true}`, string(bs))
}
