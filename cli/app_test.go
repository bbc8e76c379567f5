package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"

	"go.viam.com/robotpost/testutils"
)

const systemJSON = `{
  "name": "cell",
  "manufacturer": "ABB",
  "groups": [{"mechanisms": [{"model": "IRB120", "payload": 3, "joints": [
    {"a": 0, "d": 290, "min": -165, "max": 165, "max_speed": 250},
    {"a": 270, "d": 0, "min": -110, "max": 110, "max_speed": 250},
    {"a": 70, "d": 0, "min": -110, "max": 70, "max_speed": 250},
    {"a": 0, "d": 302, "min": -160, "max": 160, "max_speed": 320},
    {"a": 0, "d": 0, "min": -120, "max": 120, "max_speed": 320},
    {"a": 0, "d": 72, "min": -400, "max": 400, "max_speed": 420}
  ]}]}]
}`

const programYAML = `
name: demo
multi_file_indices: [0, 1]
toolpaths:
  - - {type: joint, joints: [0, 0, 0, 0, 30, 0]}
    - {type: joint, joints: [10, 0, 0, 0, 30, 0]}
`

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := NewApp(&out, &errOut).Run(append([]string{"robotpost"}, args...))
	return out.String(), errOut.String(), err
}

func TestGenerate(t *testing.T) {
	dir := testutils.TempDir(t, "", "cli")
	systemPath := testutils.WriteFile(t, dir, "cell.json", systemJSON)
	programPath := testutils.WriteFile(t, dir, "demo.yaml", programYAML)
	outDir := filepath.Join(dir, "out")
	logFile := filepath.Join(dir, "robotpost.log")

	out, _, err := runApp(t, "--log-file", logFile, "generate", "-s", systemPath, "-p", programPath, "-o", outDir)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "demo: 2 targets")

	for _, name := range []string{"demo_T_ROB1.MOD", "demo_T_ROB1_000.MOD", "demo_T_ROB1_001.MOD"} {
		test.That(t, out, test.ShouldContainSubstring, filepath.Join(outDir, name))
		_, err := os.Stat(filepath.Join(outDir, name))
		test.That(t, err, test.ShouldBeNil)
	}
	sub, err := os.ReadFile(filepath.Join(outDir, "demo_T_ROB1_001.MOD"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, strings.Split(string(sub), "\n")[0], test.ShouldEqual, "MODULE demo_T_ROB1_001")
	test.That(t, string(sub), test.ShouldContainSubstring, "MoveAbsJ [[10,0,0,0,30,0],extj],DefaultSpeed,fine,DefaultTool;")

	_, err = os.Stat(logFile)
	test.That(t, err, test.ShouldBeNil)
}

func TestGenerateMissingFlags(t *testing.T) {
	_, _, err := runApp(t, "generate", "-s", "cell.json")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "program")
}

func TestSolve(t *testing.T) {
	dir := testutils.TempDir(t, "", "cli")
	systemPath := testutils.WriteFile(t, dir, "cell.json", systemJSON)
	programPath := testutils.WriteFile(t, dir, "demo.yaml", programYAML)

	out, errOut, err := runApp(t, "solve", "-s", systemPath, "-p", programPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errOut, test.ShouldBeEmpty)
	test.That(t, out, test.ShouldContainSubstring, "10, 0, 0, 0, 30, 0")
}

func TestSchema(t *testing.T) {
	out, _, err := runApp(t, "schema", "program")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "multi_file_indices")

	_, _, err = runApp(t, "schema")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestVersion(t *testing.T) {
	out, _, err := runApp(t, "version")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldStartWith, "robotpost dev")
}
