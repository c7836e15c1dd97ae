package validate

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// MatchKind selects how a descriptive field is compared.
type MatchKind string

const (
	// MatchExact counts a prediction correct on exact lowercase equality.
	MatchExact MatchKind = "exact"
	// MatchContains counts a prediction correct when either lowercased
	// string contains the other ("Steel" matches "Mild Steel").
	MatchContains MatchKind = "contains"
)

// DescriptiveField maps a categorical prediction key to a ground-truth column.
type DescriptiveField struct {
	Key    string    `yaml:"key"`
	Column string    `yaml:"column"`
	Match  MatchKind `yaml:"match"`
}

// ProcessField maps one or more binary prediction keys to a ground-truth
// column. A single key is compared directly; multiple keys form a
// combination group whose predicted value is the logical OR of the
// constituents ("Fab Weld" is max(fab, weld)).
type ProcessField struct {
	Keys   []string `yaml:"keys"`
	Column string   `yaml:"column"`
}

// Combined reports whether the field is a combination group.
func (f ProcessField) Combined() bool { return len(f.Keys) > 1 }

// Mapping declares how prediction fields correspond to ground-truth columns.
// It is configuration, not logic: the comparator iterates it generically and
// carries no column-name special cases.
type Mapping struct {
	IDColumn    string             `yaml:"id_column"`
	Descriptive []DescriptiveField `yaml:"descriptive"`
	Processes   []ProcessField     `yaml:"processes"`
}

// DefaultMapping returns the mapping for the standard ground-truth workbook
// layout: three descriptive columns and fourteen process columns, two of
// which aggregate split prediction fields.
func DefaultMapping() *Mapping {
	return &Mapping{
		IDColumn: "Part ID",
		Descriptive: []DescriptiveField{
			{Key: "complexity_level", Column: "Complexity Level", Match: MatchExact},
			{Key: "type", Column: "Type", Match: MatchExact},
			{Key: "material", Column: "Material", Match: MatchContains},
		},
		Processes: []ProcessField{
			{Keys: []string{"laser_cut"}, Column: "Laser Cut"},
			{Keys: []string{"saw_shear"}, Column: "Saw/Shear"},
			{Keys: []string{"break_press"}, Column: "Break Press"},
			{Keys: []string{"fab", "weld"}, Column: "Fab Weld"},
			{Keys: []string{"painting"}, Column: "Painting"},
			{Keys: []string{"heat_treat"}, Column: "Heat Treat"},
			{Keys: []string{"plating"}, Column: "Plating"},
			{Keys: []string{"cnc_machining_turning"}, Column: "CNC Machining /Turning"},
			{Keys: []string{"metal_rolling"}, Column: "Metal Rolling"},
			{Keys: []string{"casting_forging"}, Column: "Casting / Forging"},
			{Keys: []string{"tube_bending"}, Column: "Tube Bending"},
			{Keys: []string{"metal_spinning"}, Column: "Metal Spinning"},
			{Keys: []string{"turret_punch_stamping"}, Column: "Turret Punch /Metal Stamping"},
			{Keys: []string{"press", "inserts"}, Column: "Press Inserts"},
		},
	}
}

// LoadMapping reads a mapping override from a YAML file. Omitted Match kinds
// default to exact; an omitted id_column defaults to "Part ID".
func LoadMapping(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "mapping: read %s", path)
	}

	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrapf(err, "mapping: parse %s", path)
	}

	if m.IDColumn == "" {
		m.IDColumn = "Part ID"
	}
	for i := range m.Descriptive {
		if m.Descriptive[i].Match == "" {
			m.Descriptive[i].Match = MatchExact
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Parameters returns every tracked parameter name in declaration order:
// descriptive columns first, then process columns.
func (m *Mapping) Parameters() []string {
	params := make([]string, 0, len(m.Descriptive)+len(m.Processes))
	for _, d := range m.Descriptive {
		params = append(params, d.Column)
	}
	for _, p := range m.Processes {
		params = append(params, p.Column)
	}
	return params
}

// Validate checks that a mapping is internally consistent.
func (m *Mapping) Validate() error {
	var errs []string

	if m.IDColumn == "" {
		errs = append(errs, "id_column must be set")
	}

	seen := make(map[string]bool)
	for _, d := range m.Descriptive {
		if d.Key == "" {
			errs = append(errs, fmt.Sprintf("descriptive column %q has no prediction key", d.Column))
		}
		if d.Column == "" {
			errs = append(errs, fmt.Sprintf("descriptive key %q has no column", d.Key))
		}
		if d.Match != MatchExact && d.Match != MatchContains {
			errs = append(errs, fmt.Sprintf("descriptive column %q has unknown match kind %q", d.Column, d.Match))
		}
		if seen[d.Column] {
			errs = append(errs, fmt.Sprintf("column %q mapped more than once", d.Column))
		}
		seen[d.Column] = true
	}

	for _, p := range m.Processes {
		if len(p.Keys) == 0 {
			errs = append(errs, fmt.Sprintf("process column %q has no prediction keys", p.Column))
		}
		for _, k := range p.Keys {
			if k == "" {
				errs = append(errs, fmt.Sprintf("process column %q has an empty prediction key", p.Column))
			}
		}
		if p.Column == "" {
			errs = append(errs, fmt.Sprintf("process keys %v have no column", p.Keys))
		}
		if seen[p.Column] {
			errs = append(errs, fmt.Sprintf("column %q mapped more than once", p.Column))
		}
		seen[p.Column] = true
	}

	if len(errs) > 0 {
		return eris.Errorf("mapping: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
