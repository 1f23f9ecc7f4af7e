//go:build !nochart

package chart

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/verte-zerg/chargelog/internal/model"
)

const (
	gridRows = 2
	gridCols = 2
)

// Available reports whether PNG rendering is compiled in.
func Available() bool { return true }

// Render draws the 2x2 chart for log as a PNG image to w.
func Render(w io.Writer, log *model.Log, opts Options) error {
	opts = opts.withDefaults()

	panels := Panels(log)
	plots := make([][]*plot.Plot, gridRows)
	for row := range plots {
		plots[row] = make([]*plot.Plot, gridCols)
		for col := range plots[row] {
			p, err := buildPlot(panels[row*gridCols+col])
			if err != nil {
				return err
			}
			plots[row][col] = p
		}
	}

	img := vgimg.NewWith(
		vgimg.UseWH(vg.Length(opts.Width)*vg.Inch, vg.Length(opts.Height)*vg.Inch),
		vgimg.UseDPI(opts.DPI),
	)
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows:      gridRows,
		Cols:      gridCols,
		PadX:      vg.Millimeter * 8,
		PadY:      vg.Millimeter * 8,
		PadTop:    vg.Millimeter * 14,
		PadBottom: vg.Millimeter * 4,
		PadLeft:   vg.Millimeter * 4,
		PadRight:  vg.Millimeter * 6,
	}
	canvases := plot.Align(plots, tiles, dc)
	for row := range plots {
		for col := range plots[row] {
			plots[row][col].Draw(canvases[row][col])
		}
	}

	sty := plots[0][0].Title.TextStyle
	sty.Font.Size = vg.Points(14)
	sty.XAlign = text.XCenter
	sty.YAlign = text.YTop
	dc.FillText(sty, vg.Point{X: (dc.Min.X + dc.Max.X) / 2, Y: dc.Max.Y - vg.Millimeter*3}, Title(log.Metadata))

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func buildPlot(panel Panel) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = panel.Title
	p.X.Label.Text = panel.XLabel
	p.Y.Label.Text = panel.YLabel
	p.Add(plotter.NewGrid())

	n := len(panel.X)
	if len(panel.Y) < n {
		n = len(panel.Y)
	}
	xys := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		xys[i].X = panel.X[i]
		xys[i].Y = panel.Y[i]
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", panel.Title, err)
	}
	line.Color = panel.Color
	line.Width = vg.Points(2)
	p.Add(line)

	for _, guide := range panel.Guides {
		value := guide
		fn := plotter.NewFunction(func(float64) float64 { return value })
		fn.Color = panel.Color
		fn.Width = vg.Points(1)
		fn.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(fn)
	}
	return p, nil
}
