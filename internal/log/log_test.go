package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSugaredLogger_FallbackWithoutInit(t *testing.T) {
	sugared = nil
	base = nil

	l := GetSugaredLogger()
	require.NotNil(t, l)
	assert.NotPanics(t, func() {
		Debugw("design resolved", "topology", "SL_L_P")
		Infof("run %d finished", 1)
	})
}

func TestInit_Debug(t *testing.T) {
	require.NoError(t, Init(true))
	assert.NotNil(t, GetSugaredLogger())
	Sync()
}
