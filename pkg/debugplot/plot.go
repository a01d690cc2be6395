// Package debugplot renders one snapping frame to an image file for
// offline inspection: client geometry, master geometry, the offset of
// every result and the highlight loops.
package debugplot

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/chazu/floorsnap/pkg/geom"
	"github.com/chazu/floorsnap/pkg/snap"
)

// Size is the width and height of a rendered frame.
const Size = 8 * vg.Inch

// circleSamples is the number of segments used to draw a full circle.
const circleSamples = 48

var (
	clientColor = color.RGBA{R: 140, G: 140, B: 140, A: 255}
	masterColor = color.RGBA{R: 30, G: 90, B: 200, A: 255}
	offsetColor = color.RGBA{R: 210, G: 40, B: 40, A: 255}
	loopColor   = color.RGBA{R: 40, G: 160, B: 60, A: 255}
)

// Render draws the frame and saves it to path. The image format follows
// the file extension (png, svg, pdf, ...).
func Render(path string, clients, masters []*snap.Geometry, results []*snap.Result) error {
	p, err := Plot(clients, masters, results)
	if err != nil {
		return err
	}
	if err := p.Save(Size, Size, path); err != nil {
		return fmt.Errorf("debugplot: save %s: %w", path, err)
	}
	return nil
}

// Plot builds the frame plot without saving it.
func Plot(clients, masters []*snap.Geometry, results []*snap.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%d clients, %d masters, %d results", len(clients), len(masters), len(results))
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Legend.Top = true

	var b bounds
	if err := addGeometry(p, &b, "client", clients, clientColor); err != nil {
		return nil, err
	}
	if err := addGeometry(p, &b, "master", masters, masterColor); err != nil {
		return nil, err
	}
	if err := addResults(p, &b, results); err != nil {
		return nil, err
	}
	b.apply(p)
	return p, nil
}

func addGeometry(p *plot.Plot, b *bounds, label string, geoms []*snap.Geometry, c color.Color) error {
	var points plotter.XYs
	var legend plot.Thumbnailer
	for _, g := range geoms {
		if g == nil {
			continue
		}
		xys := ShapeXYs(g.Shape)
		b.add(xys)
		if len(xys) == 1 {
			points = append(points, xys...)
			continue
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		l.Color = c
		l.Width = vg.Points(1)
		if g.Role == snap.CenterLine {
			l.Dashes = []vg.Length{vg.Points(3), vg.Points(2)}
		}
		p.Add(l)
		if legend == nil {
			legend = l
		}
	}
	if len(points) > 0 {
		s, err := plotter.NewScatter(points)
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = c
		s.GlyphStyle.Radius = vg.Points(2)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		if legend == nil {
			legend = s
		}
	}
	if legend != nil {
		p.Legend.Add(label, legend)
	}
	return nil
}

func addResults(p *plot.Plot, b *bounds, results []*snap.Result) error {
	var offsetLegend, loopLegend plot.Thumbnailer
	for _, r := range results {
		if r == nil {
			continue
		}
		from := Anchor(r.Master().Shape)
		to := from.Add(r.Offset())
		xys := plotter.XYs{{X: from.X, Y: from.Y}, {X: to.X, Y: to.Y}}
		b.add(xys)
		l, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		l.Color = offsetColor
		l.Width = vg.Points(1.5)
		p.Add(l)
		if offsetLegend == nil {
			offsetLegend = l
		}

		loop, ok := r.Shape()
		if !ok || loop.Len() == 0 {
			continue
		}
		pts := loopXYs(loop)
		b.add(pts)
		ll, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		ll.Color = loopColor
		ll.Width = vg.Points(1)
		p.Add(ll)
		if loopLegend == nil {
			loopLegend = ll
		}
	}
	if offsetLegend != nil {
		p.Legend.Add("offset", offsetLegend)
	}
	if loopLegend != nil {
		p.Legend.Add("loop", loopLegend)
	}
	return nil
}

// ShapeXYs returns the drawable points of a shape: one point for a Point,
// an open polyline otherwise. Circles are closed.
func ShapeXYs(s snap.Shape) plotter.XYs {
	var pts []geom.Vec
	switch s := s.(type) {
	case snap.Point:
		pts = []geom.Vec{s.At}
	case snap.Line:
		pts = []geom.Vec{s.A, s.B}
	case snap.Circle:
		pts = s.Sample(circleSamples)
		pts = append(pts, pts[0])
	case snap.Arc:
		pts = s.Sample(geom.DefaultArcSamples)
	}
	xys := make(plotter.XYs, len(pts))
	for i, p := range pts {
		xys[i] = plotter.XY{X: p.X, Y: p.Y}
	}
	return xys
}

// Anchor is the point a shape's offset is drawn from.
func Anchor(s snap.Shape) geom.Vec {
	switch s := s.(type) {
	case snap.Point:
		return s.At
	case snap.Line:
		return s.Mid()
	case snap.Circle:
		return s.Center
	case snap.Arc:
		return s.Mid()
	}
	return geom.Vec{}
}

func loopXYs(l geom.Loop) plotter.XYs {
	xys := make(plotter.XYs, 0, l.Len()+1)
	for _, p := range l.Points {
		xys = append(xys, plotter.XY{X: p.X, Y: p.Y})
	}
	return append(xys, xys[0])
}

// bounds tracks the drawn extent so both axes share one scale.
type bounds struct {
	minX, minY, maxX, maxY float64
	set                    bool
}

func (b *bounds) add(xys plotter.XYs) {
	for _, p := range xys {
		if !b.set {
			b.minX, b.maxX, b.minY, b.maxY = p.X, p.X, p.Y, p.Y
			b.set = true
			continue
		}
		b.minX, b.maxX = math.Min(b.minX, p.X), math.Max(b.maxX, p.X)
		b.minY, b.maxY = math.Min(b.minY, p.Y), math.Max(b.maxY, p.Y)
	}
}

// apply sets square axis ranges with a small margin.
func (b *bounds) apply(p *plot.Plot) {
	if !b.set {
		return
	}
	cx, cy := (b.minX+b.maxX)/2, (b.minY+b.maxY)/2
	half := math.Max(b.maxX-b.minX, b.maxY-b.minY)/2*1.1 + 1e-3
	p.X.Min, p.X.Max = cx-half, cx+half
	p.Y.Min, p.Y.Max = cy-half, cy+half
}
