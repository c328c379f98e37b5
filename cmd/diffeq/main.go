package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	diffeq "github.com/alec-shirazi/godiffeq"
	"github.com/alec-shirazi/godiffeq/internal/config"
	"github.com/alec-shirazi/godiffeq/internal/demo"
	"github.com/alec-shirazi/godiffeq/internal/export"
)

var (
	algorithm  string
	abstol     float64
	reltol     float64
	saveStep   float64
	configFile string
	preset     string
	exportPath string
	format     string
	verbose    bool
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "diffeq",
		Short: "differential equation solving via the Julia SciML bridge",
	}

	runCmd := &cobra.Command{
		Use:   "run [problem]",
		Short: "solve a demo problem and plot the trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  runProblem,
	}
	runCmd.Flags().StringVar(&algorithm, "algorithm", "", "engine algorithm expression, e.g. Tsit5()")
	runCmd.Flags().Float64Var(&abstol, "abstol", 0, "absolute tolerance")
	runCmd.Flags().Float64Var(&reltol, "reltol", 0, "relative tolerance")
	runCmd.Flags().Float64Var(&saveStep, "saveat", 0, "output stride over the span")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringVar(&exportPath, "export", "", "write trajectory to file")
	runCmd.Flags().StringVar(&format, "format", "json", "export format (json|csv)")
	runCmd.Flags().BoolVar(&verbose, "verbose", false, "log bridge internals")

	exploreCmd := &cobra.Command{
		Use:   "explore [problem]",
		Short: "interactively scrub the interpolant over the solved span",
		Args:  cobra.ExactArgs(1),
		RunE:  exploreProblem,
	}
	exploreCmd.Flags().StringVar(&algorithm, "algorithm", "", "engine algorithm expression")
	exploreCmd.Flags().Float64Var(&abstol, "abstol", 0, "absolute tolerance")
	exploreCmd.Flags().Float64Var(&reltol, "reltol", 0, "relative tolerance")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list demo problems",
		RunE:  listProblems,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [problem]",
		Short: "list preset configurations",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, exploreCmd, listCmd, presetsCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func setup() error {
	cfg := diffeq.Config{}
	if verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		cfg.Logger = log
	}
	return diffeq.SetupWith(cfg)
}

// effectiveConfig layers preset, config file and flags, flags last.
func effectiveConfig(problem string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p := config.GetPreset(problem, preset)
		if p == nil {
			return nil, fmt.Errorf("no preset %q for %q (have: %s)",
				preset, problem, strings.Join(config.ListPresets(problem), ", "))
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.Problem = problem
	if algorithm != "" {
		cfg.Algorithm = algorithm
	}
	if abstol > 0 {
		cfg.AbsTol = abstol
	}
	if reltol > 0 {
		cfg.RelTol = reltol
	}
	if saveStep > 0 {
		cfg.SaveStep = saveStep
	}
	return cfg, nil
}

func solveDemo(name string) (demo.Definition, *config.Config, *diffeq.Solution, error) {
	def, err := demo.Get(name)
	if err != nil {
		return def, nil, nil, err
	}
	cfg, err := effectiveConfig(name)
	if err != nil {
		return def, nil, nil, err
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = def.Algorithm
	}
	if err := setup(); err != nil {
		return def, nil, nil, err
	}
	prob, err := def.Build()
	if err != nil {
		return def, nil, nil, err
	}
	defer prob.Close()

	sol, err := diffeq.Solve(prob, diffeq.SolveOptions{
		Algorithm: cfg.Algorithm,
		AbsTol:    cfg.AbsTol,
		RelTol:    cfg.RelTol,
		SaveStep:  cfg.SaveStep,
	})
	return def, cfg, sol, err
}

func runProblem(cmd *cobra.Command, args []string) error {
	def, cfg, sol, err := solveDemo(args[0])
	if err != nil {
		return err
	}
	defer sol.Close()

	fmt.Println(titleStyle.Render(def.Name) + "  " + labelStyle.Render(def.Description))
	alg := cfg.Algorithm
	if alg == "" {
		alg = "engine default"
	}
	fmt.Printf("algorithm: %s\n", alg)
	fmt.Printf("points: %d  span: [%g, %g]\n", len(sol.T), sol.T[0], sol.T[len(sol.T)-1])
	fmt.Printf("final state: %v\n\n", sol.U[len(sol.U)-1])

	height := cfg.Plot.Height
	width := cfg.Plot.Width
	for i := 0; i < sol.Dim(); i++ {
		data := make([]float64, len(sol.U))
		for j := range sol.U {
			data[j] = sol.U[j][i]
		}
		caption := fmt.Sprintf("u%d vs time", i)
		if i < len(def.Labels) {
			caption = def.Labels[i] + " vs time"
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption(caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if exportPath != "" {
		data := export.FromSolution(def.Name, cfg.Algorithm, sol)
		switch format {
		case "json":
			err = export.JSONFile(exportPath, data)
		case "csv":
			err = export.CSVFile(exportPath, data)
		default:
			err = fmt.Errorf("unknown export format %q", format)
		}
		if err != nil {
			return err
		}
		fmt.Println(labelStyle.Render("exported to " + exportPath))
	}
	return nil
}

func listProblems(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDIM\tDESCRIPTION")
	for _, name := range demo.Names() {
		def, _ := demo.Get(name)
		fmt.Fprintf(w, "%s\t%d\t%s\n", def.Name, len(def.Labels), def.Description)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	problems := demo.Names()
	if len(args) == 1 {
		problems = args[:1]
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PROBLEM\tPRESET\tALGORITHM\tABSTOL\tRELTOL")
	for _, problem := range problems {
		for _, name := range config.ListPresets(problem) {
			p := config.GetPreset(problem, name)
			fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\n", problem, name, p.Algorithm, p.AbsTol, p.RelTol)
		}
	}
	return w.Flush()
}
