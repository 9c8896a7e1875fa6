package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"phaseplane/internal/config"
	"phaseplane/internal/dynamo"
	"phaseplane/internal/export"
	"phaseplane/internal/integrators"
	"phaseplane/internal/model"
	"phaseplane/internal/portrait"
	"phaseplane/internal/solver"
	"phaseplane/internal/storage"
	"phaseplane/internal/viz"
)

var (
	dataDir string

	r1    float64
	r2    float64
	alpha float64
	beta  float64

	x0   float64
	y0   float64
	tmax float64
	dt   float64
	tol  float64

	step float64
	xmin float64
	xmax float64
	ymin float64
	ymax float64

	trajectories int
	seed         int64

	configFile string
	preset     string
	outPath    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "phaseplane",
		Short: "Lotka-Volterra predator-prey phase portraits",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".phaseplane", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "compute the portrait, print the equilibrium report and render the figure",
		RunE:  runPortrait,
	}
	addModelFlags(runCmd)
	runCmd.Flags().StringVar(&outPath, "out", "", "output SVG path (default from config)")
	runCmd.Flags().IntVar(&trajectories, "trajectories", 0, "extra random initial conditions")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for the trajectory ensemble")

	equilibriaCmd := &cobra.Command{
		Use:   "equilibria",
		Short: "solve for the fixed points and compare against theory",
		RunE:  runEquilibria,
	}
	addModelFlags(equilibriaCmd)

	fieldCmd := &cobra.Command{
		Use:   "field",
		Short: "draw the phase plane in the terminal",
		RunE:  runField,
	}
	addModelFlags(fieldCmd)

	trajectoryCmd := &cobra.Command{
		Use:   "trajectory",
		Short: "integrate one orbit and plot the populations over time",
		RunE:  runTrajectory,
	}
	addModelFlags(trajectoryCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate the orbit in the terminal",
		RunE:  runLive,
	}
	addModelFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "print a saved trajectory as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "print a saved run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list parameter presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				p := config.Presets[name].Params
				fmt.Printf("  %-20s r1=%g r2=%g alpha=%g beta=%g\n", name, p.R1, p.R2, p.Alpha, p.Beta)
			}
		},
	}

	rootCmd.AddCommand(runCmd, equilibriaCmd, fieldCmd, trajectoryCmd, liveCmd,
		listCmd, exportCSVCmd, exportJSONCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&r1, "r1", 1.0, "prey growth rate")
	cmd.Flags().Float64Var(&r2, "r2", 1.0, "predator death rate")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.5, "predation rate")
	cmd.Flags().Float64Var(&beta, "beta", 0.5, "biomass conversion rate")
	cmd.Flags().Float64Var(&x0, "x0", 1.0, "initial prey population")
	cmd.Flags().Float64Var(&y0, "y0", 1.0, "initial predator population")
	cmd.Flags().Float64Var(&tmax, "tmax", 25.0, "integration time span")
	cmd.Flags().Float64Var(&dt, "dt", 0.01, "output time step")
	cmd.Flags().Float64Var(&tol, "tol", 0, "integrator error tolerance (0 = default)")
	cmd.Flags().Float64Var(&step, "step", 0.05, "grid step")
	cmd.Flags().Float64Var(&xmin, "xmin", -0.2, "grid lower x bound")
	cmd.Flags().Float64Var(&xmax, "xmax", 5.0, "grid upper x bound")
	cmd.Flags().Float64Var(&ymin, "ymin", -0.2, "grid lower y bound")
	cmd.Flags().Float64Var(&ymax, "ymax", 5.0, "grid upper y bound")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a named parameter preset")
}

// resolveConfig merges preset, config file and CLI flags, in that
// precedence order (flags win).
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flagBindings := []struct {
		name string
		dst  *float64
		src  float64
	}{
		{"r1", &cfg.Params.R1, r1},
		{"r2", &cfg.Params.R2, r2},
		{"alpha", &cfg.Params.Alpha, alpha},
		{"beta", &cfg.Params.Beta, beta},
		{"x0", &cfg.Initial.X, x0},
		{"y0", &cfg.Initial.Y, y0},
		{"tmax", &cfg.TMax, tmax},
		{"dt", &cfg.Dt, dt},
		{"tol", &cfg.Tolerance, tol},
		{"step", &cfg.Step, step},
		{"xmin", &cfg.Bounds.XMin, xmin},
		{"xmax", &cfg.Bounds.XMax, xmax},
		{"ymin", &cfg.Bounds.YMin, ymin},
		{"ymax", &cfg.Bounds.YMax, ymax},
	}
	for _, b := range flagBindings {
		if cmd.Flags().Changed(b.name) {
			*b.dst = b.src
		}
	}

	if f := cmd.Flags().Lookup("trajectories"); f != nil && f.Changed {
		cfg.Trajectories = trajectories
	}
	if f := cmd.Flags().Lookup("seed"); f != nil && f.Changed {
		cfg.Seed = seed
	}
	if outPath != "" {
		cfg.Output = outPath
	}

	return cfg, nil
}

func runPortrait(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	pr, err := portrait.Build(cfg.Params, cfg.Options())
	if err != nil {
		return err
	}

	printEquilibriumReport(pr)

	if err := export.WriteSVG(cfg.Output, pr); err != nil {
		return err
	}
	fmt.Printf("\nfigure written to %s\n", cfg.Output)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(runMetadata(cfg, pr), pr.Trajectories)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runMetadata(cfg *config.Config, pr *portrait.Portrait) storage.RunMetadata {
	eqs := make([]storage.EquilibriumRecord, 0, len(pr.Equilibria))
	for _, eq := range pr.Equilibria {
		eqs = append(eqs, storage.EquilibriumRecord{X: eq.X, Y: eq.Y, Kind: eq.Kind.String()})
	}
	return storage.RunMetadata{
		Params:     cfg.Params,
		TMax:       cfg.TMax,
		Dt:         cfg.Dt,
		Seed:       cfg.Seed,
		Equilibria: eqs,
		Drift:      pr.Drift,
	}
}

func printEquilibriumReport(pr *portrait.Portrait) {
	trivial, coex := pr.Model.Equilibria()

	fmt.Println("theoretical equilibria:")
	fmt.Printf("  trivial      : X = %.6f, Y = %.6f\n", trivial[0], trivial[1])
	fmt.Printf("  coexistence  : X = %.6f, Y = %.6f\n", coex[0], coex[1])
	fmt.Println()
	fmt.Println("equilibria found by Newton:")
	for _, eq := range pr.Equilibria {
		fmt.Printf("  %-12s : X = %.6f, Y = %.6f  (%d iterations from (%g, %g))\n",
			eq.Kind, eq.X, eq.Y, eq.Iterations, eq.Guess[0], eq.Guess[1])
	}
}

func runEquilibria(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Params.Validate(); err != nil {
		return err
	}

	m := model.New(cfg.Params)
	eqs, err := solver.FindEquilibria(m, nil)
	if err != nil {
		return err
	}

	trivial, coex := m.Equilibria()
	theory := map[solver.Kind]dynamo.State{solver.Trivial: trivial, solver.Coexistence: coex}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tX\tY\tTHEORY X\tTHEORY Y\tITER")
	for _, eq := range eqs {
		th, ok := theory[eq.Kind]
		if !ok {
			th = dynamo.State{0, 0}
		}
		fmt.Fprintf(w, "%s\t%.8f\t%.8f\t%.8f\t%.8f\t%d\n", eq.Kind, eq.X, eq.Y, th[0], th[1], eq.Iterations)
	}
	return w.Flush()
}

func runField(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	pr, err := portrait.Build(cfg.Params, cfg.Options())
	if err != nil {
		return err
	}

	fmt.Print(viz.RenderPortrait(pr, 78, 26))
	return nil
}

func runTrajectory(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Params.Validate(); err != nil {
		return err
	}

	m := model.New(cfg.Params)
	integ := integrators.NewRK45()
	traj, err := integ.Solve(m, dynamo.State{cfg.Initial.X, cfg.Initial.Y}, cfg.TMax, cfg.Dt, cfg.Tolerance)
	if err != nil {
		return err
	}

	fmt.Printf("orbit from (%g, %g), t in [0, %g]\n\n", cfg.Initial.X, cfg.Initial.Y, cfg.TMax)

	fmt.Println(asciigraph.Plot(traj.Component(0),
		asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("X(t) - prey")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(traj.Component(1),
		asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("Y(t) - predator")))

	h0 := m.Invariant(traj.Initial)
	hEnd := m.Invariant(traj.States[traj.Len()-1])
	fmt.Printf("\ninvariant H: start %.8f, end %.8f\n", h0, hEnd)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Params.Validate(); err != nil {
		return err
	}

	m := model.New(cfg.Params)
	lm := viz.NewLiveModel(m, dynamo.State{cfg.Initial.X, cfg.Initial.Y}, cfg.Dt, cfg.Bounds.XMax, cfg.Bounds.YMax)

	p := tea.NewProgram(lm)
	_, err = p.Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tR1\tR2\tALPHA\tBETA\tTMAX\tTRAJ")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\t%g\t%.1f\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.R1, run.Params.R2, run.Params.Alpha, run.Params.Beta,
			run.TMax,
			run.Trajectories,
		)
	}
	return w.Flush()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	w := os.Stdout
	fmt.Fprintln(w, "trajectory,time,prey,predator")
	for i := 0; i < meta.Trajectories; i++ {
		tr, err := st.LoadTrajectory(args[0], i)
		if err != nil {
			return err
		}
		for k := range tr.Times {
			fmt.Fprintf(w, "%d,%.6f,%.6f,%.6f\n", i, tr.Times[k], tr.States[k][0], tr.States[k][1])
		}
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	trajs := make([]*dynamo.Trajectory, 0, meta.Trajectories)
	for i := 0; i < meta.Trajectories; i++ {
		tr, err := st.LoadTrajectory(args[0], i)
		if err != nil {
			return err
		}
		trajs = append(trajs, tr)
	}

	return storage.ExportJSON(os.Stdout, *meta, trajs)
}
