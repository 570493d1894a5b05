package util

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/evodesign/evodesign/pkg/multiobjective/framework"
)

// PlotResults creates a scatter plot comparing the true Pareto front of the given Problem
// with the final population resulted from the algorithm. Only usable for
// two-objective problems; for higher dimensions use PlotObjectivePair.
func PlotResults(results []framework.ObjectiveSpacePoint, problem framework.Problem, algorithmName string) error {
	if len(results) == 0 {
		return fmt.Errorf("results are empty for %s", problem.Name())
	}
	if len(results[0]) != 2 {
		return fmt.Errorf("can only plot 2D for %s", problem.Name())
	}

	path := fmt.Sprintf("%s_%s_results.html", problem.Name(), algorithmName)
	title := fmt.Sprintf("%s Results for %s", algorithmName, problem.Name())
	return renderScatter(results, problem.TrueParetoFront(100), 0, 1, "f1(x)", "f2(x)", title, algorithmName, path)
}

// PlotObjectivePair projects the final population onto two named objectives
// and writes the scatter to path.
func PlotObjectivePair(results []framework.ObjectiveSpacePoint, x, y int, xName, yName, title, path string) error {
	if len(results) == 0 {
		return fmt.Errorf("results are empty")
	}
	if x < 0 || y < 0 || x >= len(results[0]) || y >= len(results[0]) {
		return fmt.Errorf("objective pair (%d, %d) out of range for %d objectives", x, y, len(results[0]))
	}
	return renderScatter(results, nil, x, y, xName, yName, title, "Pareto Front", path)
}

func renderScatter(results, trueFront []framework.ObjectiveSpacePoint, x, y int, xName, yName, title, seriesName, path string) error {
	// Create scatter chart
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: xName,
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: yName,
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	if len(trueFront) > 0 {
		trueX := make([]opts.ScatterData, len(trueFront))
		for i, p := range trueFront {
			trueX[i] = opts.ScatterData{
				Value:      []float64{p[x], p[y]},
				Symbol:     "circle",
				SymbolSize: 10,
			}
		}
		scatter.AddSeries("True Pareto Front", trueX)
	}

	foundX := make([]opts.ScatterData, len(results))
	for i, res := range results {
		foundX[i] = opts.ScatterData{
			Value:      []float64{res[x], res[y]},
			Symbol:     "triangle",
			SymbolSize: 10,
		}
	}

	// Add data series
	scatter.AddSeries(fmt.Sprintf("%s Solutions", seriesName), foundX).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
			charts.WithEmphasisOpts(opts.Emphasis{}),
		)

	// Create HTML file
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return scatter.Render(f)
}
