package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/mlexplorer/internal/dataset"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const irisCSV = `sepal_length,sepal_width,petal_length,species
5.1,3.5,1.4,setosa
4.9,3.0,1.4,setosa
6.3,3.3,6.0,virginica
5.8,2.7,5.1,virginica
7.0,3.2,4.7,versicolor
6.4,3.2,4.5,versicolor
5.0,3.6,1.4,setosa
`

// resetFlags restores every flag to its default so values do not leak
// between invocations of the shared root command.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		if sv, ok := fl.Value.(pflag.SliceValue); ok {
			_ = sv.Replace([]string{})
		} else {
			_ = fl.Value.Set(fl.DefValue)
		}
		fl.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execCmd runs the root command and returns its stdout and error.
func execCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

// setupHome isolates config under a temp HOME and returns a datasets folder
// holding iris.csv.
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, "datasets")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir datasets: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "iris.csv"), []byte(irisCSV), 0o644); err != nil {
		t.Fatalf("write iris: %v", err)
	}
	return dir
}

func TestCLI_List(t *testing.T) {
	dir := setupHome(t)
	if err := os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write hidden: %v", err)
	}
	out := runCmd(t, "list", "--datasets", dir)
	if out != "- iris.csv\n" {
		t.Fatalf("unexpected list output: %q", out)
	}

	empty := t.TempDir()
	out = runCmd(t, "list", "--datasets", empty)
	if !strings.Contains(out, "(no datasets)") {
		t.Fatalf("expected empty marker, got %q", out)
	}

	if _, err := execCmd(t, "list", "--datasets", filepath.Join(empty, "missing")); err == nil {
		t.Fatalf("expected error for missing datasets folder")
	}
}

func TestCLI_InspectShape(t *testing.T) {
	dir := setupHome(t)
	out := runCmd(t, "inspect", "iris.csv", "shape", "--datasets", dir)
	if strings.TrimSpace(out) != "(7, 4)" {
		t.Fatalf("shape = %q", out)
	}
	out = runCmd(t, "inspect", "iris.csv", "shape", "--by", "columns", "--datasets", dir)
	if out != "Number of Columns\n4\n" {
		t.Fatalf("shape by columns = %q", out)
	}
	if _, err := execCmd(t, "inspect", "iris.csv", "shape", "--by", "diagonal", "--datasets", dir); err == nil {
		t.Fatalf("expected error for unsupported --by")
	}
}

func TestCLI_InspectHeadUsesRowsFlag(t *testing.T) {
	dir := setupHome(t)
	out := runCmd(t, "inspect", filepath.Join(dir, "iris.csv"), "head", "-n", "2")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "sepal_length") || !strings.Contains(lines[2], "4.9") {
		t.Fatalf("unexpected head output:\n%s", out)
	}

	// config default_rows applies when -n is not given
	runCmd(t, "config", "set", "default_rows", "1")
	out = runCmd(t, "inspect", "iris.csv", "head", "--datasets", dir)
	if n := strings.Count(strings.TrimRight(out, "\n"), "\n"); n != 1 {
		t.Fatalf("expected header plus 1 row, got:\n%s", out)
	}
}

func TestCLI_InspectValueCountsJSON(t *testing.T) {
	dir := setupHome(t)
	out := runCmd(t, "inspect", "iris.csv", "value-counts", "--json", "--datasets", dir)
	var counts []dataset.ValueCount
	if err := json.Unmarshal([]byte(out), &counts); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	want := []dataset.ValueCount{{Value: "setosa", Count: 3}, {Value: "virginica", Count: 2}, {Value: "versicolor", Count: 2}}
	if len(counts) != len(want) {
		t.Fatalf("counts = %#v", counts)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Fatalf("counts[%d] = %#v, want %#v", i, counts[i], want[i])
		}
	}
}

func TestCLI_InspectDescribeAndSelect(t *testing.T) {
	dir := setupHome(t)
	out := runCmd(t, "inspect", "iris.csv", "describe", "--datasets", dir)
	for _, want := range []string{"count", "mean", "75%", "sepal_length", "petal_length"} {
		if !strings.Contains(out, want) {
			t.Fatalf("describe output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "species") {
		t.Fatalf("describe should skip text columns:\n%s", out)
	}

	out = runCmd(t, "inspect", "iris.csv", "select", "--columns", "species,sepal_width", "--json", "--datasets", dir)
	var rows []map[string]string
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rows) != 7 || rows[0]["species"] != "setosa" || len(rows[0]) != 2 {
		t.Fatalf("unexpected select rows: %#v", rows)
	}

	out = runCmd(t, "inspect", "iris.csv", "group-counts", "--column", "species", "--columns", "sepal_length", "--datasets", dir)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 || !strings.Contains(lines[1], "setosa") || !strings.HasSuffix(strings.TrimSpace(lines[1]), "3") {
		t.Fatalf("unexpected group counts:\n%s", out)
	}

	if _, err := execCmd(t, "inspect", "iris.csv", "select", "--datasets", dir); err == nil {
		t.Fatalf("expected error when --columns is missing")
	}
	if _, err := execCmd(t, "inspect", "iris.csv", "transpose", "--datasets", dir); err == nil {
		t.Fatalf("expected error for unknown operation")
	}
}

func TestCLI_AnalyzeWritesOutput(t *testing.T) {
	dir := setupHome(t)
	outPath := filepath.Join(t.TempDir(), "reports", "iris.md")
	out := runCmd(t, "analyze", "iris.csv", "--datasets", dir, "-o", outPath)
	if !strings.Contains(out, "✓ Wrote analysis to") {
		t.Fatalf("unexpected output: %q", out)
	}
	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	body := string(b)
	for _, want := range []string{"[DATASET SUMMARY]", "Rows: 7", "[SCHEMA]", "[CORRELATIONS]", "[HEAD ROWS]"} {
		if !strings.Contains(body, want) {
			t.Fatalf("report missing %q:\n%s", want, body)
		}
	}

	if _, err := execCmd(t, "analyze", "iris.csv", "--datasets", dir, "--delimiter", "#"); err == nil {
		t.Fatalf("expected error for unsupported delimiter")
	}
}

func TestCLI_PlotWritesPNG(t *testing.T) {
	dir := setupHome(t)
	outDir := t.TempDir()
	for _, kind := range []string{"heatmap", "pie", "count", "hist"} {
		outPath := filepath.Join(outDir, kind+".png")
		out := runCmd(t, "plot", "iris.csv", "--datasets", dir, "-k", kind, "-o", outPath, "--width", "320", "--height", "240")
		if !strings.Contains(out, "✓ Wrote "+kind+" plot to") {
			t.Fatalf("unexpected output: %q", out)
		}
		b, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("read %s: %v", kind, err)
		}
		if !bytes.HasPrefix(b, []byte("\x89PNG")) {
			t.Fatalf("%s: not a PNG", kind)
		}
	}

	if _, err := execCmd(t, "plot", "iris.csv", "--datasets", dir); err == nil {
		t.Fatalf("expected error without --output")
	}
	if _, err := execCmd(t, "plot", "iris.csv", "--datasets", dir, "-k", "kde", "--columns", "species", "-o", filepath.Join(outDir, "x.png")); err == nil {
		t.Fatalf("expected error for text-only columns")
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	setupHome(t)
	runCmd(t, "config", "set", "listen_addr", "0.0.0.0:9000")
	runCmd(t, "config", "set", "log_level", "WARN")
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "listen_addr: 0.0.0.0:9000") || !strings.Contains(out, "log_level: warn") {
		t.Fatalf("unexpected config show output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(os.Getenv("HOME"), ".mlexplorer", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}

	for _, args := range [][]string{
		{"config", "set", "default_rows", "0"},
		{"config", "set", "chart_width", "8"},
		{"config", "set", "log_level", "loud"},
		{"config", "set", "colour", "blue"},
	} {
		if _, err := execCmd(t, args...); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}
