package rapid

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/robotpost/logging"
	"go.viam.com/robotpost/mechanism"
	"go.viam.com/robotpost/postprocessor"
	"go.viam.com/robotpost/program"
	"go.viam.com/robotpost/referenceframe"
	"go.viam.com/robotpost/spatialmath"
	"go.viam.com/robotpost/target"
	"go.viam.com/robotpost/testutils"
)

func newProgram(
	t *testing.T,
	groups []*mechanism.MechanicalGroup,
	toolpaths [][]target.Target,
	opts ...program.Option,
) *program.Program {
	t.Helper()
	logger := logging.NewTestLogger(t)
	system, err := program.NewRobotSystem("cell", referenceframe.ABB, nil, groups, NewPostProcessor(logger))
	test.That(t, err, test.ShouldBeNil)
	p, err := program.NewProgram("p", system, toolpaths, append(opts, program.WithLogger(logger))...)
	test.That(t, err, test.ShouldBeNil)
	return p
}

func homeTargets(n int) []target.Target {
	targets := make([]target.Target, n)
	for i := range targets {
		targets[i] = target.Default()
	}
	return targets
}

func TestQuadrant(t *testing.T) {
	test.That(t, quadrant(0), test.ShouldEqual, 0)
	test.That(t, quadrant(-0.1), test.ShouldEqual, -1)
	test.That(t, quadrant(0.1), test.ShouldEqual, 0)
	test.That(t, quadrant(math.Pi/2+0.01), test.ShouldEqual, 1)
	test.That(t, quadrant(-math.Pi/2-0.01), test.ShouldEqual, -2)
	test.That(t, quadrant(-math.Pi/2), test.ShouldEqual, -2)
	test.That(t, quadrant(math.Pi-0.01), test.ShouldEqual, 1)
}

func TestCfx(t *testing.T) {
	test.That(t, cfx(target.Configuration{}), test.ShouldEqual, 0)
	test.That(t, cfx(target.Configuration{Wrist: true}), test.ShouldEqual, 1)
	test.That(t, cfx(target.Configuration{Elbow: true}), test.ShouldEqual, 2)
	// A flipped shoulder inverts the elbow.
	test.That(t, cfx(target.Configuration{Shoulder: true, Wrist: true}), test.ShouldEqual, 7)
	test.That(t, cfx(target.Configuration{Shoulder: true, Elbow: true}), test.ShouldEqual, 4)
}

func TestDeclarations(t *testing.T) {
	tool := &target.Tool{
		Name:     "gripper",
		Tcp:      spatialmath.NewPoseFromPoint(r3.Vector{Z: 150}),
		Weight:   2.5,
		Centroid: r3.Vector{Z: 50},
	}
	test.That(t, toolDeclaration(tool), test.ShouldEqual,
		"PERS tooldata gripper:=[TRUE,[[0,0,150],[1,0,0,0]],[2.5,[0,0,50],[1,0,0,0],0,0,0]];")
	light := &target.Tool{Name: "stylus", Weight: 0.0001, Centroid: r3.Vector{X: 0.0004}}
	test.That(t, toolDeclaration(light), test.ShouldEqual,
		"PERS tooldata stylus:=[TRUE,[[0,0,0],[1,0,0,0]],[0.001,[0,0,0.001],[1,0,0,0],0,0,0]];")
	test.That(t, toolDeclaration(target.DefaultTool()), test.ShouldEqual,
		"PERS tooldata DefaultTool:=[TRUE,[[0,0,0],[1,0,0,0]],[0.001,[0,0,0.001],[1,0,0,0],0,0,0]];")

	base := spatialmath.NewPoseFromPoint(r3.Vector{X: 100})
	table := &target.Frame{
		Name:                   "table",
		Plane:                  spatialmath.NewPoseFromPoint(r3.Vector{X: 1000}),
		Coupled:                true,
		CoupledMechanicalGroup: 0,
		CoupledMechanism:       0,
	}
	test.That(t, frameDeclaration(base, table), test.ShouldEqual,
		`TASK PERS wobjdata table:=[FALSE,FALSE,"STN_1",[[900,0,0],[1,0,0,0]],[[0,0,0],[1,0,0,0]]];`)
	carried := &target.Frame{Name: "carried", Plane: spatialmath.NewZeroPose(),
		Coupled: true, CoupledMechanicalGroup: 1, CoupledMechanism: -1}
	test.That(t, frameDeclaration(nil, carried), test.ShouldEqual,
		`TASK PERS wobjdata carried:=[FALSE,FALSE,"ROB_2",[[0,0,0],[1,0,0,0]],[[0,0,0],[1,0,0,0]]];`)
	fixture := &target.Frame{Name: "fixture", Plane: spatialmath.NewPoseFromPoint(r3.Vector{X: 500})}
	test.That(t, fixture.IsCoupled(), test.ShouldBeFalse)
	test.That(t, frameDeclaration(nil, fixture), test.ShouldEqual,
		`TASK PERS wobjdata fixture:=[FALSE,TRUE,"",[[500,0,0],[1,0,0,0]],[[0,0,0],[1,0,0,0]]];`)
	test.That(t, frameDeclaration(nil, target.DefaultFrame()), test.ShouldEqual,
		`TASK PERS wobjdata DefaultFrame:=[FALSE,TRUE,"",[[0,0,0],[1,0,0,0]],[[0,0,0],[1,0,0,0]]];`)

	test.That(t, speedDeclaration(target.NewSpeed("v200", 200)), test.ShouldEqual,
		"TASK PERS speeddata v200:=[200,180,5000,360];")
	test.That(t, zoneDeclaration(target.NewZone("z10", 10)), test.ShouldEqual,
		"TASK PERS zonedata z10:=[FALSE,10,10,10,1,10,1];")
}

func TestSingleGroupSingleFile(t *testing.T) {
	linear := &target.CartesianTarget{
		Base: target.Base{
			Speed:   target.NewSpeed("v200", 200),
			Zone:    target.NewZone("z10", 10),
			Command: target.NewGroup("io", target.NewMessage("hello"), target.NewSetDO("DO1", true)),
		},
		Plane:  testutils.ReachablePlane(0),
		Motion: target.LinearMotion,
	}
	groups := []*mechanism.MechanicalGroup{testutils.NewGroup(t, 0, testutils.NewIRB120(nil))}
	p := newProgram(t, groups, [][]target.Target{{target.Default(), linear}},
		program.WithInitCommands(target.NewWait(0.5)))

	code, err := p.Code()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, code, test.ShouldHaveLength, 1)
	test.That(t, code[0], test.ShouldHaveLength, 2)

	expectedMain := []string{
		"MODULE p_T_ROB1",
		"VAR extjoint extj := [9E9,9E9,9E9,9E9,9E9,9E9];",
		"VAR confdata conf := [0,0,0,0];",
		"PERS tooldata DefaultTool:=[TRUE,[[0,0,0],[1,0,0,0]],[0.001,[0,0,0.001],[1,0,0,0],0,0,0]];",
		`TASK PERS wobjdata DefaultFrame:=[FALSE,TRUE,"",[[0,0,0],[1,0,0,0]],[[0,0,0],[1,0,0,0]]];`,
		"TASK PERS speeddata DefaultSpeed:=[100,180,5000,360];",
		"TASK PERS speeddata v200:=[200,180,5000,360];",
		"TASK PERS zonedata z10:=[FALSE,10,10,10,1,10,1];",
		"PROC Main()",
		`ConfL \Off;`,
		"WaitTime 0.5;",
	}
	if diff := cmp.Diff(expectedMain, code[0][0]); diff != "" {
		t.Errorf("main module mismatch (-want +got):\n%s", diff)
	}

	sub := code[0][1]
	test.That(t, sub, test.ShouldHaveLength, 6)
	test.That(t, sub[0], test.ShouldEqual, "MoveAbsJ [[0,0,0,0,0,0],extj],DefaultSpeed,fine,DefaultTool;")
	test.That(t, sub[1], test.ShouldEqual, `TPWrite "hello";`)
	test.That(t, sub[2], test.ShouldStartWith, "MoveL [[350,0,300],")
	test.That(t, sub[2], test.ShouldEndWith, `,conf,extj],v200,z10,DefaultTool \WObj:=DefaultFrame;`)
	test.That(t, sub[3], test.ShouldEqual, "SetDO DO1,1;")
	test.That(t, sub[4:], test.ShouldResemble, []string{"ENDPROC", "ENDMODULE"})

	for _, line := range append(code[0][0], sub...) {
		test.That(t, line, test.ShouldNotContainSubstring, `\ID:=`)
		test.That(t, line, test.ShouldNotContainSubstring, "Sync")
	}

	pp := p.System.PostProcessor.(*PostProcessor)
	test.That(t, pp.FileNames(p, code), test.ShouldResemble, [][]string{{"p_T_ROB1.MOD", "p_T_ROB1.MOD"}})
}

func TestJointMotionConfiguration(t *testing.T) {
	cartesian := &target.CartesianTarget{Plane: testutils.ReachablePlane(20), Motion: target.JointMotion}
	groups := []*mechanism.MechanicalGroup{testutils.NewGroup(t, 0, testutils.NewIRB120(nil))}
	p := newProgram(t, groups, [][]target.Target{{cartesian}})

	code, err := p.Code()
	test.That(t, err, test.ShouldBeNil)
	solution := p.Targets[0].ProgramTargets[0].Kinematics
	conf := strings.Join([]string{
		strconv.Itoa(quadrant(solution.Joints[0])),
		strconv.Itoa(quadrant(solution.Joints[3])),
		strconv.Itoa(quadrant(solution.Joints[5])),
		strconv.Itoa(cfx(solution.Configuration)),
	}, ",")
	move := code[0][1][0]
	test.That(t, move, test.ShouldStartWith, "MoveJ [[370,0,300],")
	test.That(t, move, test.ShouldContainSubstring, "],["+conf+"],extj],DefaultSpeed,fine,DefaultTool")
}

func TestMultiGroupMultiFile(t *testing.T) {
	groups := []*mechanism.MechanicalGroup{
		testutils.NewGroup(t, 0, testutils.NewIRB120(nil)),
		testutils.NewGroup(t, 1, testutils.NewIRB120(spatialmath.NewPoseFromPoint(r3.Vector{X: 1000}))),
	}
	p := newProgram(t, groups, [][]target.Target{homeTargets(30), homeTargets(30)},
		program.WithMultiFileIndices(0, 10, 25),
		program.WithInitCommands(target.NewSetDO("DO1", false)))
	test.That(t, p.MultiFileIndices, test.ShouldResemble, []int{0, 10, 25})

	code, err := p.Code()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, code, test.ShouldHaveLength, 2)
	test.That(t, code[0], test.ShouldHaveLength, 4)
	test.That(t, code[1], test.ShouldHaveLength, 4)

	main0 := code[0][0]
	test.That(t, main0, test.ShouldContain, `TASK PERS tasks all_tasks{2} := [["T_ROB1"], ["T_ROB2"]];`)
	test.That(t, main0, test.ShouldContain, "VAR syncident sync1;")
	test.That(t, main0, test.ShouldContain, "SetDO DO1,0;")
	test.That(t, main0, test.ShouldNotContain, `ConfL \Off;`)

	expectedTail := []string{
		"PROC Main()",
		"SetDO DO1,0;",
		"SyncMoveOn sync1, all_tasks;",
		`Load\Dynamic, "HOME:/p/p_T_ROB1_000.MOD";`,
		`%"p_T_ROB1_000:Main"%;`,
		`UnLoad "HOME:/p/p_T_ROB1_000.MOD";`,
		`Load\Dynamic, "HOME:/p/p_T_ROB1_001.MOD";`,
		`%"p_T_ROB1_001:Main"%;`,
		`UnLoad "HOME:/p/p_T_ROB1_001.MOD";`,
		`Load\Dynamic, "HOME:/p/p_T_ROB1_002.MOD";`,
		`%"p_T_ROB1_002:Main"%;`,
		`UnLoad "HOME:/p/p_T_ROB1_002.MOD";`,
		"SyncMoveOff sync2;",
		"ENDPROC",
		"ENDMODULE",
	}
	if diff := cmp.Diff(expectedTail, main0[len(main0)-len(expectedTail):]); diff != "" {
		t.Errorf("main module tail mismatch (-want +got):\n%s", diff)
	}
	// Init commands only run in the first task.
	test.That(t, code[1][0], test.ShouldNotContain, "SetDO DO1,0;")
	test.That(t, code[1][0][0], test.ShouldEqual, "MODULE p_T_ROB2")

	moves := func(lines []string) int {
		n := 0
		for _, line := range lines {
			if strings.HasPrefix(line, "MoveAbsJ") {
				test.That(t, line, test.ShouldContainSubstring, `\ID:=`)
				n++
			}
		}
		return n
	}
	test.That(t, moves(code[0][1]), test.ShouldEqual, 10)
	test.That(t, moves(code[0][2]), test.ShouldEqual, 15)
	test.That(t, moves(code[0][3]), test.ShouldEqual, 5)

	sub := code[0][2]
	test.That(t, sub[:3], test.ShouldResemble, []string{"MODULE p_T_ROB1_001", "PROC Main()", `ConfL \Off;`})
	test.That(t, sub[3], test.ShouldEqual, `MoveAbsJ [[0,0,0,0,0,0],extj]\ID:=10,DefaultSpeed,fine,DefaultTool;`)
	test.That(t, sub[len(sub)-2:], test.ShouldResemble, []string{"ENDPROC", "ENDMODULE"})

	pp := p.System.PostProcessor.(*PostProcessor)
	test.That(t, pp.FileNames(p, code)[1], test.ShouldResemble,
		[]string{"p_T_ROB2.MOD", "p_T_ROB2_000.MOD", "p_T_ROB2_001.MOD", "p_T_ROB2_002.MOD"})
}

func TestSingleFileSyncOff(t *testing.T) {
	groups := []*mechanism.MechanicalGroup{
		testutils.NewGroup(t, 0, testutils.NewIRB120(nil)),
		testutils.NewGroup(t, 1, testutils.NewIRB120(nil)),
	}
	p := newProgram(t, groups, [][]target.Target{homeTargets(2), homeTargets(2)})
	code, err := p.Code()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, code[1][1], test.ShouldResemble, []string{
		`MoveAbsJ [[0,0,0,0,0,0],extj]\ID:=0,DefaultSpeed,fine,DefaultTool;`,
		`MoveAbsJ [[0,0,0,0,0,0],extj]\ID:=1,DefaultSpeed,fine,DefaultTool;`,
		"SyncMoveOff sync2;",
		"ENDPROC",
		"ENDMODULE",
	})
}

func TestExternalAxes(t *testing.T) {
	robot := testutils.NewIRB120(nil)
	group := testutils.NewGroup(t, 0, robot, testutils.NewTrack(nil))
	home := target.Default()
	home.External = []float64{1500}
	home.ExternalCustom = []string{"", "Ext2"}
	p := newProgram(t, []*mechanism.MechanicalGroup{group}, [][]target.Target{{home}})

	code, err := p.Code()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, code[0][0], test.ShouldNotContain, "VAR extjoint extj := [9E9,9E9,9E9,9E9,9E9,9E9];")
	test.That(t, code[0][1][0], test.ShouldEqual,
		"MoveAbsJ [[0,0,0,0,0,0],[1500,Ext2,9E9,9E9,9E9,9E9]],DefaultSpeed,fine,DefaultTool;")

	gantryLimit := referenceframe.Limit{Min: -2000, Max: 2000}
	gantry := mechanism.NewTrack("Gantry", referenceframe.ABB, 0, nil, nil, []referenceframe.JointConfig{
		referenceframe.NewPrismaticJointConfig(gantryLimit, 1000),
		referenceframe.NewPrismaticJointConfig(gantryLimit, 1000),
		referenceframe.NewPrismaticJointConfig(gantryLimit, 1000),
	}, true)
	group = testutils.NewGroup(t, 0, testutils.NewIRB120(nil), gantry)
	home = target.Default()
	home.External = []float64{100, 200, 300}
	home.ExternalCustom = []string{"", "Ext2"}
	p = newProgram(t, []*mechanism.MechanicalGroup{group}, [][]target.Target{{home}})

	code, err = p.Code()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, code[0][1][0], test.ShouldEqual,
		"MoveAbsJ [[0,0,0,0,0,0],[100,Ext2,300,9E9,9E9,9E9]],DefaultSpeed,fine,DefaultTool;")
}

func TestGenerationErrors(t *testing.T) {
	t.Run("unsupported motion", func(t *testing.T) {
		bad := &target.CartesianTarget{Plane: testutils.ReachablePlane(0), Motion: target.Motion(7)}
		groups := []*mechanism.MechanicalGroup{
			testutils.NewGroup(t, 0, testutils.NewIRB120(nil)),
			testutils.NewGroup(t, 1, testutils.NewIRB120(nil)),
		}
		p := newProgram(t, groups, [][]target.Target{{target.Default()}, {bad}})

		code, err := p.Code()
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, errors.Is(err, postprocessor.ErrInvalidInput), test.ShouldBeTrue)
		test.That(t, err.Error(), test.ShouldContainSubstring, "Motion 'Unknown' not supported.")
		test.That(t, code[0], test.ShouldHaveLength, 2)
		test.That(t, code[1], test.ShouldHaveLength, 2)
		test.That(t, code[1][0], test.ShouldNotBeNil)
		test.That(t, code[1][1], test.ShouldBeNil)
	})

	t.Run("failing file keeps the others", func(t *testing.T) {
		bad := &target.CartesianTarget{Plane: testutils.ReachablePlane(0), Motion: target.Motion(7)}
		toolpath := append(homeTargets(2), bad, target.Default())
		groups := []*mechanism.MechanicalGroup{testutils.NewGroup(t, 0, testutils.NewIRB120(nil))}
		p := newProgram(t, groups, [][]target.Target{toolpath}, program.WithMultiFileIndices(0, 2))

		code, err := p.Code()
		test.That(t, errors.Is(err, postprocessor.ErrInvalidInput), test.ShouldBeTrue)
		test.That(t, err.Error(), test.ShouldContainSubstring, "file 001")
		test.That(t, code[0], test.ShouldHaveLength, 3)
		test.That(t, code[0][0][0], test.ShouldEqual, "MODULE p_T_ROB1")
		test.That(t, code[0][1][0], test.ShouldEqual, "MODULE p_T_ROB1_000")
		test.That(t, code[0][2], test.ShouldBeNil)
	})

	t.Run("unnamed zone", func(t *testing.T) {
		home := target.Default()
		home.Zone = target.NewZone("", 5)
		groups := []*mechanism.MechanicalGroup{testutils.NewGroup(t, 0, testutils.NewIRB120(nil))}
		p := newProgram(t, groups, [][]target.Target{{home}})

		_, err := p.Code()
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, errors.Is(err, postprocessor.ErrInvalidState), test.ShouldBeTrue)
	})
}

func TestRegistered(t *testing.T) {
	pp, err := postprocessor.New(referenceframe.ABB, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	_, ok := pp.(*PostProcessor)
	test.That(t, ok, test.ShouldBeTrue)
}
