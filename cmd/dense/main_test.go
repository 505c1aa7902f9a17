package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/dense/backend"
)

func TestRun_Version(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run([]string{"version"}, &buf))
	assert.Equal(t, "dense "+version+"\n", buf.String())
}

func TestRun_Usage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run(nil, &buf))
	assert.Contains(t, buf.String(), "Commands:")

	buf.Reset()
	err := run([]string{"train"}, &buf)
	assert.ErrorIs(t, err, errUsage)
}

func TestRun_Engines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run([]string{"engines"}, &buf))
	out := buf.String()
	assert.Contains(t, out, "internal   supported (default)")
	assert.Contains(t, out, "avx        supported")
	assert.Contains(t, out, "opencl     unsupported")
}

func TestRun_Demo(t *testing.T) {
	for _, name := range []string{"internal", "avx", "nnpack"} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, run([]string{"demo", name}, &buf))
			assert.Contains(t, buf.String(), "output: [4 6]")
			assert.Contains(t, buf.String(), "fully-connected kernels selected")
		})
	}

	err := run([]string{"demo", "cblas"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, backend.ErrUnsupportedEngine)
}

func TestRun_GradCheck(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run([]string{"gradcheck", "avx"}, &buf))
	assert.Contains(t, buf.String(), "engine:    avx")
}
