package intent

// Color is the base colour a user asked for.
type Color string

const (
	ColorWhite Color = "white"
	ColorBlack Color = "black"
	ColorGray  Color = "gray"
	ColorBrown Color = "brown"
)

// Pattern is the surface pattern a user asked for.
type Pattern string

const (
	PatternSolid    Pattern = "solid"
	PatternVeined   Pattern = "veined"
	PatternSpeckled Pattern = "speckled"
)

// Style is a design style tag.
type Style string

const (
	StyleMinimal Style = "minimal"
	StyleModern  Style = "modern"
	StyleLuxury  Style = "luxury"
)

// Placement is the indoor/outdoor suitability a user asked for.
type Placement string

const (
	PlacementOutdoor Placement = "outdoor"
	PlacementIndoor  Placement = "indoor"
)

// Surface is the usage surface a user asked for.
type Surface string

const (
	SurfaceCountertop Surface = "countertop"
	SurfaceFloor      Surface = "floor"
	SurfaceWall       Surface = "wall"
)

// Trigger maps surface keywords to one enumerated value. Keywords are
// matched as lower-case substrings.
type Trigger[T ~string] struct {
	Keywords []string
	Value    T
}

// Tables are evaluated top to bottom; the first trigger with a matching
// keyword wins.
var (
	ColorTriggers = []Trigger[Color]{
		{Keywords: []string{"ขาว", "white"}, Value: ColorWhite},
		{Keywords: []string{"ดำ", "black"}, Value: ColorBlack},
		{Keywords: []string{"เทา", "gray", "grey"}, Value: ColorGray},
		{Keywords: []string{"น้ำตาล", "brown"}, Value: ColorBrown},
	}

	PatternTriggers = []Trigger[Pattern]{
		{Keywords: []string{"เรียบ", "plain", "solid"}, Value: PatternSolid},
		{Keywords: []string{"ลายเส้น", "ไหล", "vein"}, Value: PatternVeined},
		{Keywords: []string{"จุด", "ประกาย", "speckle", "sparkle"}, Value: PatternSpeckled},
	}

	// StyleTriggers drive the single-valued refinement signal.
	StyleTriggers = []Trigger[Style]{
		{Keywords: []string{"หรู", "luxury"}, Value: StyleLuxury},
		{Keywords: []string{"มินิมอล", "minimal"}, Value: StyleMinimal},
		{Keywords: []string{"modern", "โมเดิร์น"}, Value: StyleModern},
	}

	// FilterStyleTriggers drive the coarse filter, where every detected
	// style narrows the candidate set.
	FilterStyleTriggers = []Trigger[Style]{
		{Keywords: []string{"minimal", "มินิมอล"}, Value: StyleMinimal},
		{Keywords: []string{"modern", "โมเดิร์น"}, Value: StyleModern},
		{Keywords: []string{"luxury", "หรู"}, Value: StyleLuxury},
	}

	// Outdoor wins when both placements are mentioned.
	PlacementTriggers = []Trigger[Placement]{
		{Keywords: []string{"นอก", "outdoor"}, Value: PlacementOutdoor},
		{Keywords: []string{"ใน", "indoor"}, Value: PlacementIndoor},
	}

	SurfaceTriggers = []Trigger[Surface]{
		{Keywords: []string{"ครัว", "counter", "kitchen"}, Value: SurfaceCountertop},
		{Keywords: []string{"พื้น", "floor"}, Value: SurfaceFloor},
		{Keywords: []string{"ผนัง", "wall"}, Value: SurfaceWall},
	}
)
