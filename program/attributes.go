package program

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/robotpost/referenceframe"
	"go.viam.com/robotpost/target"
)

// Attributes are the distinct attributes a program uses, each kind in order of first
// appearance.
type Attributes struct {
	Tools    []*target.Tool
	Frames   []*target.Frame
	Speeds   []*target.Speed
	Zones    []*target.Zone
	Commands []target.Command
}

type uniqueList[T comparable] struct {
	kind   string
	byName map[string]T
	items  []T
}

func newUniqueList[T comparable](kind string) *uniqueList[T] {
	return &uniqueList[T]{kind: kind, byName: map[string]T{}}
}

// add records item unless it was seen already. same reports whether two items sharing a name
// are interchangeable.
func (l *uniqueList[T]) add(name string, item T, same func(a, b T) bool) error {
	existing, ok := l.byName[name]
	if !ok {
		l.byName[name] = item
		l.items = append(l.items, item)
		return nil
	}
	if existing == item || (same != nil && same(existing, item)) {
		return nil
	}
	return errors.Errorf("%s name %q is used by more than one %s", l.kind, name, l.kind)
}

func collectAttributes(m referenceframe.Manufacturer, initCommands []target.Command, cells []*CellTarget) (Attributes, error) {
	tools := newUniqueList[*target.Tool]("tool")
	frames := newUniqueList[*target.Frame]("frame")
	speeds := newUniqueList[*target.Speed]("speed")
	zones := newUniqueList[*target.Zone]("zone")
	commands := newUniqueList[target.Command]("command")
	sameCommand := func(a, b target.Command) bool {
		return a.Code(m) == b.Code(m) && a.Declaration(m) == b.Declaration(m)
	}

	var errs error
	addCommands := func(cmds []target.Command) {
		for _, c := range cmds {
			errs = multierr.Append(errs, commands.add(c.Name(), c, sameCommand))
		}
	}
	addCommands(initCommands)
	for _, cell := range cells {
		for _, pt := range cell.ProgramTargets {
			attrs := pt.Target.Attributes()
			errs = multierr.Combine(
				errs,
				tools.add(attrs.Tool.Name, attrs.Tool, nil),
				frames.add(attrs.Frame.Name, attrs.Frame, nil),
				speeds.add(attrs.Speed.Name, attrs.Speed, nil),
				zones.add(attrs.Zone.Name, attrs.Zone, nil),
			)
			addCommands(pt.Commands)
		}
	}
	if errs != nil {
		return Attributes{}, errs
	}
	return Attributes{
		Tools:    tools.items,
		Frames:   frames.items,
		Speeds:   speeds.items,
		Zones:    zones.items,
		Commands: commands.items,
	}, nil
}
