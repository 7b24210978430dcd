// Package charts renders analysis results as interactive HTML charts.
package charts

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/tbonville/mastery-lab/internal/analysis"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title      string
	Subtitle   string
	Width      string // e.g. "900px"
	Height     string // e.g. "500px"
	Theme      string
	ShowLegend bool
	Smooth     bool
	Colors     []string
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:      "900px",
		Height:     "500px",
		Theme:      "light",
		ShowLegend: true,
		Smooth:     true,
		Colors:     []string{"#5470C6", "#91CC75", "#FAC858", "#EE6666", "#73C0DE", "#3BA272", "#FC8452", "#9A60B4", "#EA7CCC"},
	}
}

// DataPoint represents a single data point in a chart.
type DataPoint struct {
	Label string
	Value float64
}

// SeriesData represents a data series for multi-series charts.
type SeriesData struct {
	Name   string
	Points []DataPoint
}

// RenderMasteryCurve renders one champion's win rate by mastery interval,
// with the confidence bounds as companion series.
func RenderMasteryCurve(champion string, curve *analysis.MasteryCurve, config ChartConfig, outputPath string) error {
	if curve == nil || len(curve.Intervals) == 0 {
		return fmt.Errorf("no curve data for %s", champion)
	}

	rate := SeriesData{Name: "Win Rate"}
	lower := SeriesData{Name: "CI Lower"}
	upper := SeriesData{Name: "CI Upper"}
	for _, iv := range curve.Intervals {
		rate.Points = append(rate.Points, DataPoint{Label: iv.Label, Value: iv.WinRate})
		if iv.CILower != nil && iv.CIUpper != nil {
			lower.Points = append(lower.Points, DataPoint{Label: iv.Label, Value: *iv.CILower})
			upper.Points = append(upper.Points, DataPoint{Label: iv.Label, Value: *iv.CIUpper})
		}
	}

	series := []SeriesData{rate}
	if len(lower.Points) == len(rate.Points) {
		series = append(series, lower, upper)
	}

	config.Title = champion
	config.Subtitle = "Win rate by mastery points"
	if curve.Lane != "" {
		config.Subtitle = fmt.Sprintf("Win rate by mastery points (%s)", curve.Lane)
	}
	return RenderMultiLineChart(series, config, outputPath)
}

// RenderBucketWinRates renders the population-level win rate per mastery
// bucket as a bar chart.
func RenderBucketWinRates(byBucket map[analysis.Bucket]analysis.BucketAggregate, config ChartConfig, outputPath string) error {
	var data []DataPoint
	for _, b := range []analysis.Bucket{analysis.BucketLow, analysis.BucketMedium, analysis.BucketHigh} {
		agg, ok := byBucket[b]
		if !ok {
			continue
		}
		data = append(data, DataPoint{Label: string(b), Value: agg.WinRate})
	}
	if len(data) == 0 {
		return fmt.Errorf("no bucket data")
	}

	config.Title = "Win rate by mastery bucket"
	return RenderBarChart(data, config, outputPath)
}

// RenderWinrateCurve renders the population-level win rate over the fine
// mastery intervals.
func RenderWinrateCurve(points []analysis.CurvePoint, config ChartConfig, outputPath string) error {
	if len(points) == 0 {
		return fmt.Errorf("no curve points")
	}

	data := make([]DataPoint, 0, len(points))
	for _, p := range points {
		data = append(data, DataPoint{Label: p.Interval, Value: p.WinRate})
	}

	config.Title = "Overall win rate by mastery"
	return RenderLineChart(data, config, outputPath)
}

// RenderAll writes the population charts and one curve chart per champion
// into dir, under the partition's name.
func RenderAll(result *analysis.Result, dir string) error {
	config := DefaultChartConfig()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create charts directory: %w", err)
	}

	bucketPath := filepath.Join(dir, result.Filter+"_buckets.html")
	if err := RenderBucketWinRates(result.OverallWinrate, config, bucketPath); err != nil {
		return err
	}

	curvePath := filepath.Join(dir, result.Filter+"_winrate_curve.html")
	if err := RenderWinrateCurve(result.WinrateCurve, config, curvePath); err != nil {
		return err
	}

	curveDir := filepath.Join(dir, result.Filter+"_curves")
	if err := os.MkdirAll(curveDir, 0o755); err != nil {
		return fmt.Errorf("create curves directory: %w", err)
	}

	names := make([]string, 0, len(result.MasteryCurves))
	for name := range result.MasteryCurves {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(curveDir, safeFilename(name)+".html")
		if err := RenderMasteryCurve(name, result.MasteryCurves[name], config, path); err != nil {
			return fmt.Errorf("render curve for %s: %w", name, err)
		}
	}
	return nil
}

// safeFilename strips characters that are unsafe in file names.
func safeFilename(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ', r == '\'', r == '.':
			// Dropped: champion names like Kai'Sa collapse to KaiSa.
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

// RenderLineChart creates an interactive line chart HTML file.
func RenderLineChart(data []DataPoint, config ChartConfig, outputPath string) error {
	line := charts.NewLine()

	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
		}),
		charts.WithColorsOpts(opts.Colors{
			config.Colors[0],
		}),
	)

	xLabels := make([]string, len(data))
	yData := make([]opts.LineData, len(data))
	for i, point := range data {
		xLabels[i] = point.Label
		yData[i] = opts.LineData{Value: point.Value}
	}

	line.SetXAxis(xLabels).
		AddSeries("Win Rate", yData).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{
				Smooth: opts.Bool(config.Smooth),
			}),
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	return renderToFile(line, outputPath)
}

// RenderBarChart creates an interactive bar chart HTML file.
func RenderBarChart(data []DataPoint, config ChartConfig, outputPath string) error {
	bar := charts.NewBar()

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
		}),
		charts.WithColorsOpts(opts.Colors{
			config.Colors[0],
		}),
	)

	xLabels := make([]string, len(data))
	yData := make([]opts.BarData, len(data))
	for i, point := range data {
		xLabels[i] = point.Label
		yData[i] = opts.BarData{Value: point.Value}
	}

	bar.SetXAxis(xLabels).
		AddSeries("Win Rate", yData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	return renderToFile(bar, outputPath)
}

// RenderMultiLineChart creates a multi-series line chart HTML file.
func RenderMultiLineChart(series []SeriesData, config ChartConfig, outputPath string) error {
	if len(series) == 0 {
		return fmt.Errorf("no data series provided")
	}

	line := charts.NewLine()

	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
		}),
	)

	xLabels := make([]string, len(series[0].Points))
	for i, point := range series[0].Points {
		xLabels[i] = point.Label
	}
	line.SetXAxis(xLabels)

	for i, s := range series {
		yData := make([]opts.LineData, len(s.Points))
		for j, point := range s.Points {
			yData[j] = opts.LineData{Value: point.Value}
		}

		color := config.Colors[i%len(config.Colors)]
		line.AddSeries(s.Name, yData).
			SetSeriesOptions(
				charts.WithLineChartOpts(opts.LineChart{
					Smooth: opts.Bool(config.Smooth),
				}),
				charts.WithLabelOpts(opts.Label{
					Show: opts.Bool(false),
				}),
				charts.WithItemStyleOpts(opts.ItemStyle{
					Color: color,
				}),
			)
	}

	return renderToFile(line, outputPath)
}

type renderer interface {
	Render(w io.Writer) error
}

func renderToFile(chart renderer, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := chart.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// OpenInBrowser opens the given file path in the default web browser.
func OpenInBrowser(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", absPath)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", absPath)
	case "linux":
		cmd = exec.Command("xdg-open", absPath)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
