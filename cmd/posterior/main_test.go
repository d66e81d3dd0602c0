package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/posterior-diagnostics/common"
)

func writeDraws(t *testing.T, n int) string {
	rng := rand.New(rand.NewSource(42))
	var sb strings.Builder
	sb.WriteString("mu,sigma\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "%v,%v\n", rng.NormFloat64(), 5+rng.NormFloat64())
	}
	path := filepath.Join(t.TempDir(), "draws.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

func execute(args ...string) (string, error) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestSummaryCommand(t *testing.T) {
	path := writeDraws(t, 400)

	out, err := execute("summary", path, "--json=false", "--raw=false", "--chains", "2", "--alpha", "0.05")
	require.NoError(t, err)
	require.Contains(t, out, "HDI_2.5%")
	require.Contains(t, out, "HDI_97.5%")
	require.Contains(t, out, "sigma")

	out, err = execute("summary", path, "--json", "--chains", "1")
	require.NoError(t, err)
	var decoded struct {
		Alpha  float64  `json:"alpha"`
		Header []string `json:"header"`
		Rows   []struct {
			Parameter string   `json:"parameter"`
			Rhat      *float64 `json:"r_hat"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Equal(t, 0.05, decoded.Alpha)
	require.Equal(t, "Mode", decoded.Header[0])
	require.Len(t, decoded.Rows, 2)
	require.Equal(t, "mu", decoded.Rows[0].Parameter)
	require.NotNil(t, decoded.Rows[0].Rhat)
}

func TestEstimateCommands(t *testing.T) {
	path := writeDraws(t, 300)

	out, err := execute("mode", path)
	require.NoError(t, err)
	require.Contains(t, out, "Mode")
	require.Contains(t, out, "mu")

	out, err = execute("hdi", path, "--alpha", "0.1")
	require.NoError(t, err)
	require.Contains(t, out, "HDI_5%")

	out, err = execute("map", path, "--json=false")
	require.NoError(t, err)
	require.Contains(t, out, "MAP")
	require.Contains(t, out, "draw ")
}

func TestPlotCommands(t *testing.T) {
	path := writeDraws(t, 300)

	out, err := execute("plot", path, "--feature", "mu", "--format", "json", "--out=", "--rope=-1,1")
	require.NoError(t, err)
	require.Contains(t, out, `"ROPE"`)
	require.Contains(t, out, `"HDI"`)

	_, err = execute("plot", path, "--feature", "nope", "--format", "text", "--out=")
	require.True(t, errors.Is(err, common.ErrorUnknownFeature))

	out, err = execute("grid", path, "--format", "text", "--out=", "--columns", "4")
	require.NoError(t, err)
	require.Contains(t, out, "Posterior Distribution of the Parameters")

	svg := filepath.Join(t.TempDir(), "grid.svg")
	_, err = execute("grid", path, "--format=", "--out", svg)
	require.NoError(t, err)
	data, err := os.ReadFile(svg)
	require.NoError(t, err)
	require.Contains(t, string(data), "<svg")

	out, err = execute("density", path, "--feature", "sigma", "--grid", "64")
	require.NoError(t, err)
	require.Contains(t, out, "sigma density on")
	require.Contains(t, out, "std dev")
	require.Contains(t, out, "50%ile")
}

func TestBurnInCommand(t *testing.T) {
	path := writeDraws(t, 400)

	out, err := execute("burnin", path, "--json", "--chains", "2")
	require.NoError(t, err)
	var results []burnInResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	for _, res := range results {
		require.Len(t, res.Chains, 2)
	}

	_, err = execute("burnin", path, "--json", "--chains", "3")
	require.True(t, errors.Is(err, common.ErrorInvalidParameter))
}
