package main

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solverFromDimacs(t *testing.T, cnf string) *Solver {
	t.Helper()
	s := NewSolver(DefaultOptions())
	require.NoError(t, parseDimacs(bufio.NewScanner(strings.NewReader(cnf)), s))
	return s
}

func TestParseDimacs(t *testing.T) {
	s := solverFromDimacs(t, `c a comment
p cnf 3 2
1 -2 0
2 3 0
`)
	assert.Equal(t, 3, s.NumVars())
	assert.Equal(t, uint64(2), s.NumClauses())
}

func TestParseDimacsUnitPropagates(t *testing.T) {
	s := solverFromDimacs(t, `p cnf 2 2
1 0
-1 2 0
`)
	assert.Equal(t, LitBoolTrue, s.ValueLit(dl(1)))
	assert.Equal(t, LitBoolTrue, s.ValueLit(dl(2)))
}

func TestParseDimacsBadClause(t *testing.T) {
	s := NewSolver(DefaultOptions())
	err := parseDimacs(bufio.NewScanner(strings.NewReader("p cnf 1 1\n1 2\n")), s)
	assert.Error(t, err)
}

func TestParseSymmetries(t *testing.T) {
	s := solverFromDimacs(t, `p cnf 4 2
1 3 0
2 3 0
`)
	err := parseSymmetries(bufio.NewScanner(strings.NewReader(`c row swap
1 2 0 2 1 0
`)), s)
	require.NoError(t, err)
	require.Len(t, s.Symmetries, 1)
	assert.Equal(t, dl(2), s.Symmetries[0].Image(dl(1)))
	assert.Equal(t, dl(-1), s.Symmetries[0].Image(dl(-2)))
}

func TestToDimacsContradictoryState(t *testing.T) {
	s := NewSolver(DefaultOptions())
	newVars(s, 1)
	require.True(t, s.AddClause(dls(1)))
	assert.False(t, s.AddClause(dls(-1)))

	var b strings.Builder
	require.NoError(t, s.ToDimacs(&b, nil))
	assert.Equal(t, "p cnf 1 2\n1 0\n-1 0\n", b.String())
}

func TestToDimacsElidesSatisfiedClauses(t *testing.T) {
	s := solverFromDimacs(t, `p cnf 3 3
1 0
1 2 0
-1 2 3 0
`)
	var b strings.Builder
	require.NoError(t, s.ToDimacs(&b, nil))
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	//the satisfied clause (1 2) disappears, the false literal -1 is elided
	//and the surviving variables are renumbered
	require.Len(t, lines, 2)
	assert.Equal(t, "p cnf 2 1", lines[0])
	assert.Equal(t, "1 2 0", strings.TrimSpace(lines[1]))
}
