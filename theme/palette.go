package theme

type RGB [3]uint8

// Palette is an ordered color ramp sampled by position in [0,1].
type Palette struct {
	Name   string
	Colors []RGB
}

// Deep-space ramp: near-black blue through violet to hot magenta/white.
// Matches the instrument's "glowing noise sphere" look.
func DefaultPalette() *Palette {
	return &Palette{
		Name: "nebula",
		Colors: []RGB{
			{8, 8, 24},
			{24, 16, 56},
			{48, 24, 96},
			{88, 32, 128},
			{136, 48, 144},
			{184, 64, 144},
			{224, 96, 128},
			{248, 144, 112},
			{252, 200, 128},
			{255, 248, 200},
		},
	}
}

// Lookup samples the ramp at pos in [0,1] with linear interpolation.
func (p *Palette) Lookup(pos float64) RGB {
	if len(p.Colors) == 0 {
		return RGB{255, 255, 255}
	}
	if pos <= 0 {
		return p.Colors[0]
	}
	if pos >= 1 {
		return p.Colors[len(p.Colors)-1]
	}

	f := pos * float64(len(p.Colors)-1)
	i := int(f)
	t := f - float64(i)

	a := p.Colors[i]
	b := p.Colors[i+1]
	return RGB{
		uint8(float64(a[0]) + t*(float64(b[0])-float64(a[0]))),
		uint8(float64(a[1]) + t*(float64(b[1])-float64(a[1]))),
		uint8(float64(a[2]) + t*(float64(b[2])-float64(a[2]))),
	}
}
