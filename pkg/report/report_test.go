package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/delaneyj/deps/deps"
	"github.com/delaneyj/deps/pkg/report"
	"github.com/delaneyj/deps/pkg/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `
name: piped
vars: [a]
computations:
  - name: A
    reads: [a]
    emit: "x|y"
steps:
  - expect: "x|y"
  - change: a
  - flush: true
  - expect: "x|y"
  - expect: wrong
`

func TestTrace(t *testing.T) {
	sc, err := scenario.Load(strings.NewReader(doc))
	require.NoError(t, err)
	trace, err := scenario.Run(deps.NewReactiveContext(), sc)
	require.ErrorIs(t, err, scenario.ErrExpectationFailed)

	out := report.Trace(trace)
	assert.Contains(t, out, "# piped\n")
	assert.Contains(t, out, "digest `"+trace.DigestHex()+"`")
	assert.Contains(t, out, "| 1 | run | A | - |")
	assert.Contains(t, out, "| 3 | change | a | - |")
	assert.Contains(t, out, `| 7 | expect | - | x\|y |`)
	assert.Contains(t, out, "| runs | 1 |")
	assert.Contains(t, out, "| reruns | 1 |")
	assert.Contains(t, out, "## Failures")
	assert.Contains(t, out, trace.Failures[0])

	var buf bytes.Buffer
	report.WriteTrace(&buf, trace)
	assert.Equal(t, out, buf.String())
}

func TestTraceWithoutFailures(t *testing.T) {
	trace := &scenario.Trace{
		Scenario: "empty",
		Stats:    deps.Stats{Runs: 12345},
	}
	out := report.Trace(trace)
	assert.Contains(t, out, "| runs | 12,345 |")
	assert.NotContains(t, out, "## Failures")
}
