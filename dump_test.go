package forthic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpCoversFullModuleStackAndVariables(t *testing.T) {
	ip := Create()
	_, err := ip.AppModule().DeclareVariable("x")
	require.NoError(t, err)
	require.NoError(t, ip.Run(`1 2`))
	require.NoError(t, ip.Run(`: LOCAL 5 ;`))
	require.NoError(t, ip.Run(`{inner`))
	_, err = ip.CurrentModule().DeclareVariable("y")
	require.NoError(t, err)

	var buf strings.Builder
	ip.Dump(&buf)
	out := buf.String()

	assert.Contains(t, out, `module "" (depth 0)`)
	assert.Contains(t, out, `module "inner" (depth 1)`)
	assert.Contains(t, out, "LOCAL")
	assert.Contains(t, out, "x")
	assert.Contains(t, out, "y")
	assert.Contains(t, out, "stack (2):")
}
