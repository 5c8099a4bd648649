package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/OnlyNandan/Coulomb-Counter/pkg/bms"
	"github.com/OnlyNandan/Coulomb-Counter/pkg/sim"
	"github.com/OnlyNandan/Coulomb-Counter/pkg/types"
)

var (
	pretty     bool
	printEvery int
)

type opts struct {
	// scenario shape
	duration float64
	dt       float64
	current  float64
	cycles   int
	seed     int64
	ema      float64

	// pack
	capacity float64
	soc      float64

	// estimator tuning
	q           float64
	r           float64
	p0          float64
	adaptRate   float64
	restCurrent float64
	restPeriod  float64

	// outputs
	csvPath  string
	jsonPath string
	htmlPath string
}

type row struct {
	TSec           float64      `json:"t_sec"`
	CurrentA       float64      `json:"current_a"`
	VoltageV       float64      `json:"voltage_v"`
	TempC          float64      `json:"temp_c"`
	SOCPercent     float64      `json:"soc_percent"`
	TrueSOCPercent float64      `json:"true_soc_percent"`
	SOHPercent     float64      `json:"soh_percent"`
	ResistanceOhm  float64      `json:"resistance_ohm"`
	KalmanGain     float64      `json:"kalman_gain"`
	Coulomb        types.Charge `json:"coulomb_uas"`
}

func main() {
	var o opts

	root := &cobra.Command{
		Use:   "bms [profile|discharge|charge|lifecycle]",
		Short: "Battery SOC/SOH estimator simulation harness",
		Long: `The bms tool drives the pack estimator against a high-fidelity battery
plant and reports estimation accuracy. Scenarios:

  profile    race-lap current profile with regen spikes (default)
  discharge  full constant-current discharge from 100% true SOC
  charge     full constant-current charge from 0% true SOC
  lifecycle  repeated cycles against a degrading pack; reports the SOH trend

Examples:
  bms --duration 300 --dt 0.1 --csv out.csv
  bms discharge --current 25 --html report.html
  bms lifecycle --cycles 100`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario := "profile"
			if len(args) > 0 {
				scenario = args[0]
			}
			return run(cmd.Context(), o, scenario)
		},
	}

	root.Flags().BoolVar(&pretty, "pretty", true, "format output as a table instead of CSV-like lines")
	root.Flags().IntVar(&printEvery, "print-every", 50, "print (and include in HTML) every Nth tick")
	root.Flags().Float64Var(&o.duration, "duration", 300.0, "profile scenario length in seconds")
	root.Flags().Float64Var(&o.dt, "dt", 0.1, "control tick in seconds")
	root.Flags().Float64Var(&o.current, "current", 25.0, "charge/discharge scenario current magnitude in Amps")
	root.Flags().IntVar(&o.cycles, "cycles", 100, "lifecycle scenario cycle count")
	root.Flags().Int64Var(&o.seed, "seed", 1, "plant noise seed")
	root.Flags().Float64Var(&o.ema, "ema", 0.5, "EMA alpha for displayed current smoothing [0..1]")

	root.Flags().Float64Var(&o.capacity, "capacity", 100.0, "nominal pack capacity in Ah")
	root.Flags().Float64Var(&o.soc, "soc", 50.0, "initial SOC percent for the profile scenario")

	root.Flags().Float64Var(&o.q, "q", 1e-4, "Kalman process noise Q")
	root.Flags().Float64Var(&o.r, "r", 1e-2, "Kalman measurement noise R")
	root.Flags().Float64Var(&o.p0, "p0", 1.0, "initial error covariance P0")
	root.Flags().Float64Var(&o.adaptRate, "adapt-rate", 0.02, "capacity adaptation rate per rest adapt (0..1]")
	root.Flags().Float64Var(&o.restCurrent, "rest-current", 0.5, "rest detection current threshold in Amps")
	root.Flags().Float64Var(&o.restPeriod, "rest-period", 5.0, "rest duration before recalibration in seconds")

	root.Flags().StringVar(&o.csvPath, "csv", "", "write per-tick rows to CSV file")
	root.Flags().StringVar(&o.jsonPath, "json", "", "write per-tick rows to JSON file")
	root.Flags().StringVar(&o.htmlPath, "html", "", "write rows and summary to HTML file")

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func (o opts) estimatorConfig() *bms.Config {
	return &bms.Config{
		ProcessNoise:      o.q,
		MeasurementNoise:  o.r,
		InitialCovariance: o.p0,
		AdaptationRate:    o.adaptRate,
		RestCurrentA:      o.restCurrent,
		RestPeriodSec:     o.restPeriod,
	}
}

func run(ctx context.Context, o opts, scenario string) error {
	if o.dt <= 0 {
		return fmt.Errorf("dt must be > 0")
	}
	if o.capacity <= 0 {
		return fmt.Errorf("capacity must be > 0")
	}
	if o.soc < 0 || o.soc > 100 {
		return fmt.Errorf("soc must be in [0,100]")
	}
	if o.ema < 0 || o.ema > 1 {
		return fmt.Errorf("ema must be in [0,1]")
	}
	if o.current <= 0 {
		return fmt.Errorf("current must be > 0")
	}
	if printEvery < 1 {
		printEvery = 1
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf(_console, scenario, o.capacity, o.dt, time.Now().Format("2006-01-02 15:04:05"))

	switch scenario {
	case "profile", "discharge", "charge":
		return runTicks(ctx, o, scenario)
	case "lifecycle":
		return runLifecycle(ctx, o)
	default:
		return fmt.Errorf("unknown scenario %q", scenario)
	}
}

// runTicks drives the plant/estimator pair through one tick-by-tick scenario
// and reports per-tick rows plus accuracy statistics.
func runTicks(ctx context.Context, o opts, scenario string) error {
	rng := rand.New(rand.NewSource(o.seed))

	plantCfg := sim.DefaultPlantConfig()
	plantCfg.NominalCapacityAh = o.capacity

	var (
		profile  sim.CurrentProfile
		duration float64
		initSOC  float64
	)
	switch scenario {
	case "profile":
		profile = sim.RaceLap(rng)
		duration = o.duration
		initSOC = o.soc
	case "discharge":
		profile = sim.Constant(-o.current)
		duration = o.capacity / o.current * 3600
		initSOC = 100
		plantCfg.TempSwingC = 5
		plantCfg.TempPeriodSec = 3600
	case "charge":
		profile = sim.Constant(o.current)
		duration = o.capacity / o.current * 3600
		initSOC = 0
		plantCfg.TempSwingC = 5
		plantCfg.TempPeriodSec = 3600
	}
	plantCfg.InitialSOCPercent = initSOC

	plant := sim.NewPlant(plantCfg, o.seed)
	est, err := bms.New(initSOC, o.capacity, o.estimatorConfig())
	if err != nil {
		return fmt.Errorf("estimator: %w", err)
	}

	var tw *tabwriter.Writer
	if pretty {
		tw = newTable()
		printTableHeader(tw)
	} else {
		fmt.Println("# t(s), I(A), V(V), T(C), SOC(%), true_SOC(%), SOH(%), R(Ohm), K")
	}

	emaI := sim.NewEMA(o.ema)

	var (
		rows     []row
		totalUpd time.Duration
		maxUpd   time.Duration
	)

	steps := int(duration/o.dt) + 1
loop:
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			slog.Info("interrupted")
			break loop
		default:
		}

		t := float64(i) * o.dt
		m := plant.Step(profile(t), o.dt)

		start := time.Now()
		if err := est.Update(m.VoltageV, m.CurrentA, m.TempC, m.DtSec); err != nil {
			slog.Warn("update refused", "err", err, "t", m.TimeSec)
			continue
		}
		d := time.Since(start)
		totalUpd += d
		if d > maxUpd {
			maxUpd = d
		}

		s := est.Snapshot()
		r := row{
			TSec:           m.TimeSec,
			CurrentA:       m.CurrentA,
			VoltageV:       m.VoltageV,
			TempC:          m.TempC,
			SOCPercent:     s.SOCPercent,
			TrueSOCPercent: plant.TrueSOC(),
			SOHPercent:     s.SOHPercent,
			ResistanceOhm:  plant.InternalResistance(m.TempC),
			KalmanGain:     s.KalmanGain,
			Coulomb:        s.CoulombCount,
		}
		rows = append(rows, r)

		if i%printEvery == 0 {
			smoothed := emaI.Next(m.CurrentA)
			if pretty {
				printTableRow(tw, r, smoothed)
			} else {
				printCsvLike(r)
			}
		}

		// Full-cycle scenarios stop just short of the true rails.
		if scenario == "discharge" && plant.TrueSOC() < 1.0 {
			slog.Info("discharge complete", "t_hours", m.TimeSec/3600)
			break
		}
		if scenario == "charge" && plant.TrueSOC() > 99.0 {
			slog.Info("charge complete", "t_hours", m.TimeSec/3600)
			break
		}
	}

	if err := writeOutputs(o, scenario, rows); err != nil {
		return err
	}

	printAccuracy(rows)
	fmt.Printf("\nSOH adaptation:\n")
	fmt.Printf("- updates triggered: %d\n", est.SOHUpdateCount())
	fmt.Printf("- ticks processed:   %d\n", est.UpdateCount())
	fmt.Printf("- final SOH:         %.2f%%\n", est.SOH())
	if n := est.UpdateCount(); n > 0 {
		fmt.Printf("\nupdate timing: avg %.2fus max %.2fus\n",
			float64(totalUpd.Microseconds())/float64(n), float64(maxUpd.Microseconds()))
	}
	return nil
}

// runLifecycle cycles a degrading pack (discharge, rest, recharge) and tracks
// how the estimated SOH follows the true capacity fade.
func runLifecycle(ctx context.Context, o opts) error {
	plantCfg := sim.DefaultPlantConfig()
	plantCfg.NominalCapacityAh = o.capacity
	plantCfg.InitialSOCPercent = 100
	plantCfg.TempBaseC = 25
	plantCfg.TempSwingC = 0
	plantCfg.VoltageNoiseV = 0
	plantCfg.CurrentNoiseA = 0
	plantCfg.TempNoiseC = 0

	plant := sim.NewPlant(plantCfg, o.seed)
	est, err := bms.New(100, o.capacity, o.estimatorConfig())
	if err != nil {
		return fmt.Errorf("estimator: %w", err)
	}

	// Constant per-cycle fade factor: each cycle keeps 1 − 0.15 Ah/nominal of
	// the previous true capacity.
	degradation := 1.0 - 0.15/o.capacity

	const cycleDt = 30.0

	cycleIdx := make([]float64, 0, o.cycles)
	sohEst := make([]float64, 0, o.cycles)
	var rows []row

	fmt.Println("# cycle, est_SOH(%), true_capacity(Ah), soh_updates")
	trueCap := o.capacity
	for cycle := 0; cycle < o.cycles; cycle++ {
		select {
		case <-ctx.Done():
			slog.Info("interrupted")
			return nil
		default:
		}

		// Deep discharge at 50 A down to 5% true SOC.
		for plant.TrueSOC() > 5 {
			m := plant.Step(-50, cycleDt)
			if err := est.Update(m.VoltageV, m.CurrentA, m.TempC, m.DtSec); err != nil {
				slog.Warn("update refused", "err", err)
			}
		}

		// Rest window: the terminal voltage settles to open-circuit and the
		// estimator snaps to it, adapting capacity.
		for i := 0; i < 10; i++ {
			m := plant.Step(0, o.restPeriod)
			if err := est.Update(m.VoltageV, m.CurrentA, m.TempC, m.DtSec); err != nil {
				slog.Warn("update refused", "err", err)
			}
		}

		// Recharge at 25 A back to full.
		for plant.TrueSOC() < 100 {
			m := plant.Step(25, cycleDt)
			if err := est.Update(m.VoltageV, m.CurrentA, m.TempC, m.DtSec); err != nil {
				slog.Warn("update refused", "err", err)
			}
		}

		cycleIdx = append(cycleIdx, float64(cycle+1))
		sohEst = append(sohEst, est.SOH())
		rows = append(rows, row{
			TSec:           float64(cycle + 1),
			SOCPercent:     est.SOC(),
			TrueSOCPercent: plant.TrueSOC(),
			SOHPercent:     est.SOH(),
			Coulomb:        est.CoulombCount(),
		})

		trueCap *= degradation
		plant.SetTrueCapacity(trueCap)

		if (cycle+1)%10 == 0 || !pretty {
			fmt.Printf("%d, %.2f, %.2f, %d\n", cycle+1, est.SOH(), trueCap, est.SOHUpdateCount())
		}
	}

	if err := writeOutputs(o, "lifecycle", rows); err != nil {
		return err
	}

	if len(sohEst) >= 2 {
		intercept, slope := stat.LinearRegression(cycleIdx, sohEst, nil, false)
		fmt.Printf("\nSOH trend: slope %.4f %%/cycle (intercept %.2f%%)\n", slope, intercept)
	}
	fmt.Printf("final estimated SOH: %.2f%% (true capacity %.2f Ah, %d adapts)\n",
		est.SOH(), trueCap, est.SOHUpdateCount())
	return nil
}

func printAccuracy(rows []row) {
	if len(rows) == 0 {
		return
	}
	absErr := make([]float64, len(rows))
	sqErr := make([]float64, len(rows))
	for i, r := range rows {
		e := math.Abs(r.SOCPercent - r.TrueSOCPercent)
		absErr[i] = e
		sqErr[i] = e * e
	}
	fmt.Printf("\nSOC estimation accuracy (over %d ticks):\n", len(rows))
	fmt.Printf("- mean abs error: %.3f%%\n", stat.Mean(absErr, nil))
	fmt.Printf("- max abs error:  %.3f%%\n", floats.Max(absErr))
	fmt.Printf("- RMS error:      %.3f%%\n", math.Sqrt(stat.Mean(sqErr, nil)))
}

func writeOutputs(o opts, scenario string, rows []row) error {
	if o.csvPath != "" {
		if err := writeCSV(o.csvPath, rows); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	if o.jsonPath != "" {
		if err := writeJSON(o.jsonPath, rows); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
	}
	if o.htmlPath != "" {
		if err := writeHTMLReport(o.htmlPath, scenario, rows); err != nil {
			return fmt.Errorf("write html: %w", err)
		}
	}
	return nil
}

func writeCSV(path string, rows []row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"t_sec", "current_a", "voltage_v", "temp_c", "soc_percent",
		"true_soc_percent", "soh_percent", "resistance_ohm", "kalman_gain", "coulomb_uas",
	}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			fmtFloat(r.TSec), fmtFloat(r.CurrentA), fmtFloat(r.VoltageV), fmtFloat(r.TempC),
			fmtFloat(r.SOCPercent), fmtFloat(r.TrueSOCPercent), fmtFloat(r.SOHPercent),
			strconv.FormatFloat(r.ResistanceOhm, 'f', 6, 64), fmtFloat(r.KalmanGain),
			strconv.FormatInt(int64(r.Coulomb), 10),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(path string, rows []row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func writeHTMLReport(path, scenario string, rows []row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	// Decimate to keep long cycles readable.
	view := make([]row, 0, len(rows)/printEvery+1)
	for i := 0; i < len(rows); i += printEvery {
		view = append(view, rows[i])
	}

	var absErr []float64
	for _, r := range rows {
		absErr = append(absErr, math.Abs(r.SOCPercent-r.TrueSOCPercent))
	}
	data := struct {
		Scenario string
		Rows     []row
		Ticks    int
		MeanErr  float64
		MaxErr   float64
	}{
		Scenario: scenario,
		Rows:     view,
		Ticks:    len(rows),
	}
	if len(absErr) > 0 {
		data.MeanErr = stat.Mean(absErr, nil)
		data.MaxErr = floats.Max(absErr)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return err
	}
	_, err = f.Write(buf.Bytes())
	return err
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

func printTableHeader(tw *tabwriter.Writer) {
	fmt.Fprintln(tw, "t (s)\tI (A)\tI_ema (A)\tV (V)\tT (C)\tSOC (%)\tTRUE (%)\tSOH (%)\tK")
	fmt.Fprintln(tw, "-----\t-----\t---------\t-----\t-----\t-------\t--------\t-------\t-")
	tw.Flush()
}

func printTableRow(tw *tabwriter.Writer, r row, smoothedI float64) {
	fmt.Fprintf(tw, "%.1f\t%.1f\t%.1f\t%.3f\t%.1f\t%.2f\t%.2f\t%.2f\t%.4f\n",
		r.TSec, r.CurrentA, smoothedI, r.VoltageV, r.TempC,
		r.SOCPercent, r.TrueSOCPercent, r.SOHPercent, r.KalmanGain)
	tw.Flush()
}

func printCsvLike(r row) {
	fmt.Printf("%.1f, %.1f, %.3f, %.1f, %.2f, %.2f, %.2f, %.6f, %.4f\n",
		r.TSec, r.CurrentA, r.VoltageV, r.TempC,
		r.SOCPercent, r.TrueSOCPercent, r.SOHPercent, r.ResistanceOhm, r.KalmanGain)
}

var tpl = template.Must(template.New("rep").Parse(`<!doctype html>
<html lang="en"><meta charset="utf-8">
<title>BMS Simulation Report</title>
<style>
body{font-family:system-ui,Segoe UI,Roboto,Helvetica,Arial,sans-serif;margin:20px}
h1,h2{margin:0 0 8px}
table{border-collapse:collapse;width:100%;font-size:14px}
th,td{border:1px solid #ddd;padding:6px 8px;text-align:right}
th:first-child,td:first-child{text-align:left}
.small{color:#555}
</style>

<h1>BMS Simulation Report</h1>

<p class="small">
Scenario: {{.Scenario}} &nbsp;|&nbsp;
Ticks: {{.Ticks}} &nbsp;|&nbsp;
Mean |SOC err|: {{printf "%.3f" .MeanErr}}% &nbsp;|&nbsp;
Max |SOC err|: {{printf "%.3f" .MaxErr}}%
</p>

<h2>Per-tick</h2>
<table>
<thead>
<tr>
<th>t (s)</th><th>I (A)</th><th>V (V)</th><th>T (C)</th>
<th>SOC (%)</th><th>true SOC (%)</th><th>SOH (%)</th><th>R (Ohm)</th><th>K</th><th>coulomb</th>
</tr>
</thead>
<tbody>
{{range .Rows}}
<tr>
<td style="text-align:left">{{printf "%.1f" .TSec}}</td>
<td>{{printf "%.1f" .CurrentA}}</td>
<td>{{printf "%.3f" .VoltageV}}</td>
<td>{{printf "%.1f" .TempC}}</td>
<td>{{printf "%.2f" .SOCPercent}}</td>
<td>{{printf "%.2f" .TrueSOCPercent}}</td>
<td>{{printf "%.2f" .SOHPercent}}</td>
<td>{{printf "%.6f" .ResistanceOhm}}</td>
<td>{{printf "%.4f" .KalmanGain}}</td>
<td>{{.Coulomb.Humanized}}</td>
</tr>
{{end}}
</tbody>
</table>
</html>`))

const _console = `BMS Estimator Simulation Harness

       Scenario: %s
       Capacity: %.1f Ah
       Tick:     %.3f s

Run started %s

`
