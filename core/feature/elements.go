package feature

// elementProperties holds the per-element descriptors behind the composition
// featurizer: position in the periodic table, size, electronegativity, valence
// shell occupation and melting point.
type elementProperties struct {
	Number            float64
	Weight            float64
	Row               float64
	Group             float64
	CovalentRadius    float64 // pm
	Electronegativity float64 // Pauling scale, 0 where undefined
	NsValence         float64
	NpValence         float64
	NdValence         float64
	NfValence         float64
	MeltingPoint      float64 // K
}

// numElementProperties is the length of the per-element property vector
// (the table columns plus the derived total valence count).
const numElementProperties = 12

// vector flattens the properties into the fixed per-element descriptor order.
func (p elementProperties) vector() []float64 {
	nValence := p.NsValence + p.NpValence + p.NdValence + p.NfValence
	return []float64{
		p.Number, p.Weight, p.Row, p.Group,
		p.CovalentRadius, p.Electronegativity,
		p.NsValence, p.NpValence, p.NdValence, p.NfValence, nValence,
		p.MeltingPoint,
	}
}

// elementTable covers H through Bi plus Th and U. Radii are covalent radii,
// melting points are at standard pressure.
var elementTable = map[string]elementProperties{
	"H":  {1, 1.008, 1, 1, 31, 2.20, 1, 0, 0, 0, 14},
	"He": {2, 4.003, 1, 18, 28, 0, 2, 0, 0, 0, 1},
	"Li": {3, 6.94, 2, 1, 128, 0.98, 1, 0, 0, 0, 454},
	"Be": {4, 9.012, 2, 2, 96, 1.57, 2, 0, 0, 0, 1560},
	"B":  {5, 10.81, 2, 13, 84, 2.04, 2, 1, 0, 0, 2349},
	"C":  {6, 12.011, 2, 14, 76, 2.55, 2, 2, 0, 0, 3823},
	"N":  {7, 14.007, 2, 15, 71, 3.04, 2, 3, 0, 0, 63},
	"O":  {8, 15.999, 2, 16, 66, 3.44, 2, 4, 0, 0, 54},
	"F":  {9, 18.998, 2, 17, 57, 3.98, 2, 5, 0, 0, 53},
	"Ne": {10, 20.180, 2, 18, 58, 0, 2, 6, 0, 0, 25},
	"Na": {11, 22.990, 3, 1, 166, 0.93, 1, 0, 0, 0, 371},
	"Mg": {12, 24.305, 3, 2, 141, 1.31, 2, 0, 0, 0, 923},
	"Al": {13, 26.982, 3, 13, 121, 1.61, 2, 1, 0, 0, 933},
	"Si": {14, 28.085, 3, 14, 111, 1.90, 2, 2, 0, 0, 1687},
	"P":  {15, 30.974, 3, 15, 107, 2.19, 2, 3, 0, 0, 317},
	"S":  {16, 32.06, 3, 16, 105, 2.58, 2, 4, 0, 0, 388},
	"Cl": {17, 35.45, 3, 17, 102, 3.16, 2, 5, 0, 0, 172},
	"Ar": {18, 39.948, 3, 18, 106, 0, 2, 6, 0, 0, 84},
	"K":  {19, 39.098, 4, 1, 203, 0.82, 1, 0, 0, 0, 337},
	"Ca": {20, 40.078, 4, 2, 176, 1.00, 2, 0, 0, 0, 1115},
	"Sc": {21, 44.956, 4, 3, 170, 1.36, 2, 0, 1, 0, 1814},
	"Ti": {22, 47.867, 4, 4, 160, 1.54, 2, 0, 2, 0, 1941},
	"V":  {23, 50.942, 4, 5, 153, 1.63, 2, 0, 3, 0, 2183},
	"Cr": {24, 51.996, 4, 6, 139, 1.66, 1, 0, 5, 0, 2180},
	"Mn": {25, 54.938, 4, 7, 139, 1.55, 2, 0, 5, 0, 1519},
	"Fe": {26, 55.845, 4, 8, 132, 1.83, 2, 0, 6, 0, 1811},
	"Co": {27, 58.933, 4, 9, 126, 1.88, 2, 0, 7, 0, 1768},
	"Ni": {28, 58.693, 4, 10, 124, 1.91, 2, 0, 8, 0, 1728},
	"Cu": {29, 63.546, 4, 11, 132, 1.90, 1, 0, 10, 0, 1358},
	"Zn": {30, 65.38, 4, 12, 122, 1.65, 2, 0, 10, 0, 693},
	"Ga": {31, 69.723, 4, 13, 122, 1.81, 2, 1, 10, 0, 303},
	"Ge": {32, 72.630, 4, 14, 120, 2.01, 2, 2, 10, 0, 1211},
	"As": {33, 74.922, 4, 15, 119, 2.18, 2, 3, 10, 0, 1090},
	"Se": {34, 78.971, 4, 16, 120, 2.55, 2, 4, 10, 0, 494},
	"Br": {35, 79.904, 4, 17, 120, 2.96, 2, 5, 10, 0, 266},
	"Kr": {36, 83.798, 4, 18, 116, 3.00, 2, 6, 10, 0, 116},
	"Rb": {37, 85.468, 5, 1, 220, 0.82, 1, 0, 0, 0, 312},
	"Sr": {38, 87.62, 5, 2, 195, 0.95, 2, 0, 0, 0, 1050},
	"Y":  {39, 88.906, 5, 3, 190, 1.22, 2, 0, 1, 0, 1799},
	"Zr": {40, 91.224, 5, 4, 175, 1.33, 2, 0, 2, 0, 2128},
	"Nb": {41, 92.906, 5, 5, 164, 1.60, 1, 0, 4, 0, 2750},
	"Mo": {42, 95.95, 5, 6, 154, 2.16, 1, 0, 5, 0, 2896},
	"Tc": {43, 98.0, 5, 7, 147, 1.90, 2, 0, 5, 0, 2430},
	"Ru": {44, 101.07, 5, 8, 146, 2.20, 1, 0, 7, 0, 2607},
	"Rh": {45, 102.906, 5, 9, 142, 2.28, 1, 0, 8, 0, 2237},
	"Pd": {46, 106.42, 5, 10, 139, 2.20, 0, 0, 10, 0, 1828},
	"Ag": {47, 107.868, 5, 11, 145, 1.93, 1, 0, 10, 0, 1235},
	"Cd": {48, 112.414, 5, 12, 144, 1.69, 2, 0, 10, 0, 594},
	"In": {49, 114.818, 5, 13, 142, 1.78, 2, 1, 10, 0, 430},
	"Sn": {50, 118.710, 5, 14, 139, 1.96, 2, 2, 10, 0, 505},
	"Sb": {51, 121.760, 5, 15, 139, 2.05, 2, 3, 10, 0, 904},
	"Te": {52, 127.60, 5, 16, 138, 2.10, 2, 4, 10, 0, 723},
	"I":  {53, 126.904, 5, 17, 139, 2.66, 2, 5, 10, 0, 387},
	"Xe": {54, 131.293, 5, 18, 140, 2.60, 2, 6, 10, 0, 161},
	"Cs": {55, 132.905, 6, 1, 244, 0.79, 1, 0, 0, 0, 302},
	"Ba": {56, 137.327, 6, 2, 215, 0.89, 2, 0, 0, 0, 1000},
	"La": {57, 138.905, 6, 3, 207, 1.10, 2, 0, 1, 0, 1193},
	"Ce": {58, 140.116, 6, 3, 204, 1.12, 2, 0, 1, 1, 1068},
	"Pr": {59, 140.908, 6, 3, 203, 1.13, 2, 0, 0, 3, 1208},
	"Nd": {60, 144.242, 6, 3, 201, 1.14, 2, 0, 0, 4, 1297},
	"Pm": {61, 145.0, 6, 3, 199, 1.13, 2, 0, 0, 5, 1315},
	"Sm": {62, 150.36, 6, 3, 198, 1.17, 2, 0, 0, 6, 1345},
	"Eu": {63, 151.964, 6, 3, 198, 1.20, 2, 0, 0, 7, 1099},
	"Gd": {64, 157.25, 6, 3, 196, 1.20, 2, 0, 1, 7, 1585},
	"Tb": {65, 158.925, 6, 3, 194, 1.20, 2, 0, 0, 9, 1629},
	"Dy": {66, 162.500, 6, 3, 192, 1.22, 2, 0, 0, 10, 1680},
	"Ho": {67, 164.930, 6, 3, 192, 1.23, 2, 0, 0, 11, 1734},
	"Er": {68, 167.259, 6, 3, 189, 1.24, 2, 0, 0, 12, 1802},
	"Tm": {69, 168.934, 6, 3, 190, 1.25, 2, 0, 0, 13, 1818},
	"Yb": {70, 173.045, 6, 3, 187, 1.10, 2, 0, 0, 14, 1097},
	"Lu": {71, 174.967, 6, 3, 187, 1.27, 2, 0, 1, 14, 1925},
	"Hf": {72, 178.49, 6, 4, 175, 1.30, 2, 0, 2, 14, 2506},
	"Ta": {73, 180.948, 6, 5, 170, 1.50, 2, 0, 3, 14, 3290},
	"W":  {74, 183.84, 6, 6, 162, 2.36, 2, 0, 4, 14, 3695},
	"Re": {75, 186.207, 6, 7, 151, 1.90, 2, 0, 5, 14, 3459},
	"Os": {76, 190.23, 6, 8, 144, 2.20, 2, 0, 6, 14, 3306},
	"Ir": {77, 192.217, 6, 9, 141, 2.20, 2, 0, 7, 14, 2719},
	"Pt": {78, 195.084, 6, 10, 136, 2.28, 1, 0, 9, 14, 2041},
	"Au": {79, 196.967, 6, 11, 136, 2.54, 1, 0, 10, 14, 1337},
	"Hg": {80, 200.592, 6, 12, 132, 2.00, 2, 0, 10, 14, 234},
	"Tl": {81, 204.38, 6, 13, 145, 1.62, 2, 1, 10, 14, 577},
	"Pb": {82, 207.2, 6, 14, 146, 2.33, 2, 2, 10, 14, 601},
	"Bi": {83, 208.980, 6, 15, 148, 2.02, 2, 3, 10, 14, 544},
	"Th": {90, 232.038, 7, 3, 206, 1.30, 2, 0, 2, 0, 2023},
	"U":  {92, 238.029, 7, 3, 196, 1.38, 2, 0, 1, 3, 1405},
}
