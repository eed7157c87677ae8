package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"gopower/adapters/excel"
	domain "gopower/domain/power"
	"gopower/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("OUTPUT_DIR", t.TempDir())

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSolve_Text(t *testing.T) {
	out, err := run(t, "solve", "--u", "2", "--v", "97", "--sig-level", "0.05", "--power", "0.8")
	require.NoError(t, err)
	assert.Contains(t, out, "Power analysis results:")
	assert.Contains(t, out, "num_obs is: 100")
}

func TestSolve_JSON(t *testing.T) {
	out, err := run(t, "solve", "--u", "3", "--v", "60", "--f2", "0.15", "--sig-level", "0.05", "--format", "json")
	require.NoError(t, err)

	var res domain.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, domain.TargetPower, res.Target)
	assert.Equal(t, 64, res.NumObs)
}

func TestSolve_Errors(t *testing.T) {
	_, err := run(t, "solve", "--u", "2", "--sig-level", "0.05", "--power", "0.8")
	require.Error(t, err)
	assert.Equal(t, 2, errors.ExitCode(err))

	_, err = run(t, "solve", "--u", "2", "--f2", "1e-8", "--sig-level", "0.05", "--power", "0.999999")
	require.Error(t, err)
	assert.Equal(t, 3, errors.ExitCode(err))

	_, err = run(t, "solve", "--u", "2", "--v", "97", "--sig-level", "0.05", "--format", "yaml")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestSolve_WritesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "power.xlsx")

	_, err := run(t, "solve", "--u", "2", "--v", "97", "--sig-level", "0.05", "--power", "0.8", "--xlsx", path)
	require.NoError(t, err)

	data, err := excel.NewDataReader(path).WithSheet("power").ReadData()
	require.NoError(t, err)
	require.Len(t, data.Rows, 7)
	assert.Equal(t, "num_obs", data.Rows[5]["parameter"])
	assert.Equal(t, "100", data.Rows[5]["value"])
	assert.Equal(t, "f2", data.Rows[6]["value"])
}

func TestCurve_WritesWorkbook(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "curve.xlsx")

	out, err := run(t, "curve", "--u", "2", "--v", "97", "--sig-level", "0.05",
		"--sweep", "f2", "--from", "0.01", "--to", "0.2", "--steps", "4", "--xlsx", path, "--format", "json")
	require.NoError(t, err)

	var curve domain.Curve
	require.NoError(t, json.Unmarshal([]byte(out), &curve))
	assert.Len(t, curve.Points, 4)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestCurve_MissingFixedParameter(t *testing.T) {
	_, err := run(t, "curve", "--u", "2", "--sig-level", "0.05", "--sweep", "f2", "--from", "0.01", "--to", "0.2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--v")
}

func TestDiagnose_Demo(t *testing.T) {
	out, err := run(t, "diagnose", "--demo", "--outlier", "17")
	require.NoError(t, err)
	assert.Contains(t, out, "Regression diagnostics")
	assert.Contains(t, out, "| 17 |")
}

func TestDiagnose_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	csv := "y,x1\n1.1,1\n2.3,2\n2.9,3\n4.2,4\n4.8,5\n6.1,6\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	out, err := run(t, "diagnose", "--file", path, "--response", "y", "--predictors", "x1", "--format", "json")
	require.NoError(t, err)

	var rep struct {
		N int `json:"n_obs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 6, rep.N)

	_, err = run(t, "diagnose")
	require.Error(t, err)
}
