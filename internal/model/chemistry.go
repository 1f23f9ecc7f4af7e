package model

// Chemistry describes the voltage envelope of a battery chemistry as
// configured on the charger.
type Chemistry struct {
	Name           string
	CutoffVoltage  float64
	MaxVoltage     float64
	NominalVoltage float64
}

var chemistries = []Chemistry{
	{Name: "Li-ion", CutoffVoltage: 3.0, MaxVoltage: 4.2, NominalVoltage: 3.7},
	{Name: "LiFePO4", CutoffVoltage: 2.5, MaxVoltage: 3.65, NominalVoltage: 3.2},
	{Name: "LiPo", CutoffVoltage: 3.0, MaxVoltage: 4.2, NominalVoltage: 3.7},
}

// LookupChemistry returns the profile for a battery label as written by the
// charger. Labels are matched exactly.
func LookupChemistry(label string) (Chemistry, bool) {
	for _, c := range chemistries {
		if c.Name == label {
			return c, true
		}
	}
	return Chemistry{}, false
}

// ChemistryNames lists the known battery labels.
func ChemistryNames() []string {
	names := make([]string, len(chemistries))
	for i, c := range chemistries {
		names[i] = c.Name
	}
	return names
}
