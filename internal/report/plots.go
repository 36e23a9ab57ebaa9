package report

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"go-conversion-analysis/internal/model"
)

// Plots writes the presentation-only figures for a run: class balance
// and the distributions of the two numeric columns.
func Plots(dir string, ds *model.Dataset) error {
	if err := classBalancePlot(filepath.Join(dir, "class_balance.png"), ds); err != nil {
		return err
	}

	ages := make(plotter.Values, ds.Len())
	views := make(plotter.Values, ds.Len())
	for i, s := range ds.Sessions {
		ages[i] = float64(s.Age)
		views[i] = float64(s.PageViews)
	}
	if err := histogramPlot(filepath.Join(dir, "age_hist.png"), "Age distribution", ages); err != nil {
		return err
	}
	return histogramPlot(filepath.Join(dir, "page_views_hist.png"), "Pages visited distribution", views)
}

func classBalancePlot(path string, ds *model.Dataset) error {
	pos := ds.Positives()
	neg := ds.Len() - pos

	p := plot.New()
	p.Title.Text = "Conversion class balance"
	p.Y.Label.Text = "sessions"

	bars, err := plotter.NewBarChart(plotter.Values{float64(neg), float64(pos)}, vg.Points(40))
	if err != nil {
		return fmt.Errorf("class balance plot: %w", err)
	}
	bars.Color = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	p.Add(bars)
	p.NominalX("not converted", "converted")

	if err := p.Save(5*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func histogramPlot(path, title string, values plotter.Values) error {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "sessions"

	h, err := plotter.NewHist(values, 16)
	if err != nil {
		return fmt.Errorf("histogram %s: %w", title, err)
	}
	p.Add(h)

	if err := p.Save(5*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
