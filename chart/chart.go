// Package chart draws the convergence of a root-finding trace: the root
// estimate per iteration and, for bracketing methods, both ends of the
// bracket.
package chart

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/njchilds90/rootfind"
)

var (
	ErrEmptyTrace    = errors.New("chart: trace has no iterations")
	ErrUnknownFormat = errors.New("chart: unknown image format")
)

// Formats lists the image formats Render accepts.
var Formats = []string{"png", "svg", "pdf"}

type Options struct {
	Width  vg.Length
	Height vg.Length
	// Format is one of Formats. Empty means png.
	Format string
}

func (o Options) withDefaults() (Options, error) {
	if o.Width <= 0 {
		o.Width = 6 * vg.Inch
	}
	if o.Height <= 0 {
		o.Height = 4 * vg.Inch
	}
	o.Format = strings.ToLower(strings.TrimPrefix(o.Format, "."))
	if o.Format == "" {
		o.Format = "png"
	}
	for _, f := range Formats {
		if o.Format == f {
			return o, nil
		}
	}
	return o, fmt.Errorf("%w: %q", ErrUnknownFormat, o.Format)
}

// Convergence builds the plot for tr.
func Convergence(tr *rootfind.Trace) (*plot.Plot, error) {
	if tr == nil || len(tr.Records) == 0 {
		return nil, ErrEmptyTrace
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s convergence", tr.Method.Title())
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "x"
	p.Add(plotter.NewGrid())

	lines := []series{{"estimate", tr.Estimates()}}
	if tr.Method.Bracketing() {
		xl, xr := bracket(tr)
		lines = append(lines, series{"xl", xl}, series{"xr", xr})
	}

	var all []float64
	for i, s := range lines {
		line, points, err := plotter.NewLinePoints(xys(s.ys))
		if err != nil {
			return nil, fmt.Errorf("chart: %s: %w", s.name, err)
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i)
		points.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(i)
		p.Add(line, points)
		p.Legend.Add(s.name, line, points)
		all = append(all, s.ys...)
	}

	lo, hi := floats.Min(all), floats.Max(all)
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 0.5
	}
	p.Y.Min, p.Y.Max = lo-pad, hi+pad
	p.X.Min, p.X.Max = 0.5, float64(len(tr.Records))+0.5
	p.Legend.Top = true
	return p, nil
}

// Render writes the chart of tr to w.
func Render(w io.Writer, tr *rootfind.Trace, opts Options) error {
	opts, err := opts.withDefaults()
	if err != nil {
		return err
	}
	p, err := Convergence(tr)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(opts.Width, opts.Height, opts.Format)
	if err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// ContentType returns the MIME type of an image format.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "svg":
		return "image/svg+xml"
	case "pdf":
		return "application/pdf"
	default:
		return "image/png"
	}
}

type series struct {
	name string
	ys   []float64
}

func bracket(tr *rootfind.Trace) (xl, xr []float64) {
	for _, rec := range tr.Records {
		switch r := rec.(type) {
		case rootfind.BisectionRecord:
			xl, xr = append(xl, r.XL), append(xr, r.XR)
		case rootfind.FalsePositionRecord:
			xl, xr = append(xl, r.XL), append(xr, r.XR)
		}
	}
	return xl, xr
}

func xys(ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(ys))
	for i, y := range ys {
		pts[i].X = float64(i + 1)
		pts[i].Y = y
	}
	return pts
}
