package drawing

import "strings"

// Tool selects what a gesture produces.
type Tool string

const (
	ToolPen         Tool = "pen"
	ToolHighlighter Tool = "highlighter"
	ToolRectangle   Tool = "rectangle"
	ToolCircle      Tool = "circle"
	ToolArrow       Tool = "arrow"
	ToolLine        Tool = "line"
	ToolText        Tool = "text"
	ToolEraser      Tool = "eraser"
)

const textSizeMultiplier = 5

// Tools lists every tool in toolbar order.
var Tools = []Tool{ToolPen, ToolHighlighter, ToolRectangle, ToolCircle, ToolArrow, ToolLine, ToolText, ToolEraser}

// Preset is the per-tool opacity and stroke size multiplier.
type Preset struct {
	Opacity        float64
	SizeMultiplier float64
}

var presets = map[Tool]Preset{
	ToolPen:         {Opacity: 1, SizeMultiplier: 1},
	ToolHighlighter: {Opacity: 0.4, SizeMultiplier: 3},
	ToolRectangle:   {Opacity: 1, SizeMultiplier: 1},
	ToolCircle:      {Opacity: 1, SizeMultiplier: 1},
	ToolArrow:       {Opacity: 1, SizeMultiplier: 1},
	ToolLine:        {Opacity: 1, SizeMultiplier: 1},
	ToolText:        {Opacity: 1, SizeMultiplier: textSizeMultiplier},
	ToolEraser:      {Opacity: 1, SizeMultiplier: 3},
}

// ParseTool accepts a tool name in any case.
func ParseTool(s string) (Tool, bool) {
	t := Tool(strings.ToLower(strings.TrimSpace(s)))
	_, ok := presets[t]
	return t, ok
}

// Preset returns the tool's preset; unknown tools get the pen preset.
func (t Tool) Preset() Preset {
	if p, ok := presets[t]; ok {
		return p
	}
	return presets[ToolPen]
}

// StrokeWidth is the width a gesture with this tool draws for the given stroke size.
// Box and segment tools ignore the multiplier.
func (t Tool) StrokeWidth(strokeSize float64) float64 {
	if t.IsPath() {
		return strokeSize * t.Preset().SizeMultiplier
	}
	return strokeSize
}

// IsPath reports whether the tool accumulates points.
func (t Tool) IsPath() bool {
	return t == ToolPen || t == ToolHighlighter || t == ToolEraser
}

// IsBox reports whether the tool draws a normalised box.
func (t Tool) IsBox() bool { return t == ToolRectangle || t == ToolCircle }

// IsSegment reports whether the tool draws a start/end segment.
func (t Tool) IsSegment() bool { return t == ToolLine || t == ToolArrow }
