package figure

const (
	TemplateWhite = "plotly_white"

	ShapeLine = "line"

	RefX     = "x"
	RefY     = "y"
	RefPaper = "paper"

	LabelHDI  = "HDI"
	LabelROPE = "ROPE"

	ColorRed  = "red"
	ColorGray = "gray"
	ColorBlue = "blue"

	FeatureTitle  = "A Posteriori Distribution"
	FeatureHeight = 350
	GridTitle     = "Posterior Distribution of the Parameters"
	GridTitleSize = 25
	BarGap        = 0.1

	GridColumns = 4

	// paper heights of the interval markers, above the bars
	HDIMarkerY        = 1.12
	ROPEMarkerY       = 1.04
	MarkerLabelOffset = 0.04
	HDIMarkerWidth    = 5.0
	ROPEMarkerWidth   = 4.0

	DefaultWidth   = 700
	GridCellWidth  = 300
	GridCellHeight = 300

	// subplot spacing as a fraction of the figure
	HorizontalSpacing = 0.05
	VerticalSpacing   = 0.15

	MaxBins = 100

	TextHeight = 10
)
