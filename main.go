package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"
)

var CurrentTime time.Time
var DebugMode bool

const (
	ExitCodeSat           = 10
	ExitCodeUnsat         = 20
	ExitCodeIndeterminate = 0
)

func GetFlags() []cli.Flag {
	return []cli.Flag{
		cli.BoolFlag{
			Name:  "debug,d",
			Usage: "Debug mode",
		},
		cli.IntFlag{
			Name:  "verbosity,verb",
			Usage: "Verbosity level (0=silent, 1=some, 2=more)",
			Value: 1,
		},
		cli.StringFlag{
			Name:  "input-file, in",
			Usage: "Input cnf file for solving(required)",
			Value: "None",
		},
		cli.StringFlag{
			Name:  "symmetry-file, sym",
			Usage: "File with symmetry generators of the input",
		},
		cli.StringFlag{
			Name:  "config",
			Usage: "JSON file with solver options",
		},
		cli.IntFlag{
			Name:  "cpu-time-limit",
			Usage: "Limit on CPU time allowed in seconds",
			Value: -1,
		},
		cli.StringFlag{
			Name:  "result-output-file, out",
			Usage: "Output file",
		},
		cli.StringFlag{
			Name:  "write-dimacs",
			Usage: "Write the simplified instance in DIMACS and exit",
		},
		cli.Float64Flag{
			Name:  "var-decay",
			Usage: "The variable activity decay factor",
			Value: 0.95,
		},
		cli.Float64Flag{
			Name:  "cla-decay",
			Usage: "The clause activity decay factor",
			Value: 0.999,
		},
		cli.Float64Flag{
			Name:  "rnd-freq",
			Usage: "The frequency with which the decision heuristic tries to choose a random variable",
			Value: 0,
		},
		cli.Float64Flag{
			Name:  "rnd-seed",
			Usage: "Used by the random variable selection",
			Value: 91648253,
		},
		cli.IntFlag{
			Name:  "ccmin-mode",
			Usage: "Controls conflict clause minimization (0=none, 1=basic, 2=deep)",
			Value: 2,
		},
		cli.IntFlag{
			Name:  "phase-saving",
			Usage: "Controls the level of phase saving (0=none, 1=limited, 2=full)",
			Value: 2,
		},
		cli.BoolFlag{
			Name:  "rnd-init",
			Usage: "Randomize the initial activity",
		},
		cli.BoolTFlag{
			Name:  "luby",
			Usage: "Use the Luby restart sequence",
		},
		cli.IntFlag{
			Name:  "rfirst",
			Usage: "The base restart interval",
			Value: 100,
		},
		cli.Float64Flag{
			Name:  "rinc",
			Usage: "Restart interval increase factor",
			Value: 2.0,
		},
		cli.Float64Flag{
			Name:  "gc-frac",
			Usage: "The fraction of wasted memory allowed before a garbage collection is triggered",
			Value: 0.20,
		},
		cli.BoolTFlag{
			Name:  "storing",
			Usage: "Store generated symmetry clauses for future use",
		},
		cli.BoolFlag{
			Name:  "inverting-opt",
			Usage: "Adjust initial variable order to make inverting symmetries faster",
		},
		cli.BoolFlag{
			Name:  "inactive-opt",
			Usage: "Conduct symmetry propagation for inactive symmetries",
		},
		cli.BoolTFlag{
			Name:  "esbp-end",
			Usage: "Query the external symmetry order after each propagated literal",
		},
	}
}

func ValidateFlags(c *cli.Context) (err error) {
	if c.String("input-file") == "None" {
		return fmt.Errorf("input-file is required.")
	}
	return nil
}

func optionsFromContext(c *cli.Context) (SolverOptions, error) {
	opts := DefaultOptions()
	if path := c.String("config"); path != "" {
		var err error
		opts, err = OptionsFromFile(path)
		if err != nil {
			return opts, err
		}
	}
	if c.IsSet("var-decay") {
		opts.VarDecay = c.Float64("var-decay")
	}
	if c.IsSet("cla-decay") {
		opts.ClauseDecay = c.Float64("cla-decay")
	}
	if c.IsSet("rnd-freq") {
		opts.RandomVarFreq = c.Float64("rnd-freq")
	}
	if c.IsSet("rnd-seed") {
		opts.RandomSeed = c.Float64("rnd-seed")
	}
	if c.IsSet("ccmin-mode") {
		opts.CcminMode = c.Int("ccmin-mode")
	}
	if c.IsSet("phase-saving") {
		opts.PhaseSaving = c.Int("phase-saving")
	}
	if c.IsSet("rnd-init") {
		opts.RandomInitAct = c.Bool("rnd-init")
	}
	if c.IsSet("luby") {
		opts.LubyRestart = c.BoolT("luby")
	}
	if c.IsSet("rfirst") {
		opts.RestartFirst = c.Int("rfirst")
	}
	if c.IsSet("rinc") {
		opts.RestartInc = c.Float64("rinc")
	}
	if c.IsSet("gc-frac") {
		opts.GarbageFrac = c.Float64("gc-frac")
	}
	if c.IsSet("storing") {
		opts.Storing = c.BoolT("storing")
	}
	if c.IsSet("inverting-opt") {
		opts.InvertingOpt = c.Bool("inverting-opt")
	}
	if c.IsSet("inactive-opt") {
		opts.InactiveOpt = c.Bool("inactive-opt")
	}
	if c.IsSet("esbp-end") {
		opts.EsbpEnd = c.BoolT("esbp-end")
	}
	opts.normalize()
	return opts, nil
}

func printProblemStatistics(s *Solver) {
	fmt.Printf("c ============================[ Problem Statistics ]=============================\n")
	fmt.Printf("c |                                                                             |\n")
	fmt.Printf("c |  Number of variables:  %12d                                         |\n", s.NumVars())
	fmt.Printf("c |  Number of clauses:    %12d                                         |\n", s.NumClauses())
	fmt.Printf("c |  Number of symmetries: %12d                                         |\n", len(s.Symmetries))
	fmt.Printf("c ================================================================================\n")
}

func printStatistics(s *Solver) {
	elapsedTimeSeconds := time.Since(CurrentTime).Seconds()
	st := s.Statistics
	fmt.Printf("c ================================================================================\n")
	fmt.Printf("c restarts: %12d\n", st.RestartCount)
	fmt.Printf("c conflicts: %12d (%.02f / sec)\n", st.ConflictCount, float64(st.ConflictCount)/elapsedTimeSeconds)
	fmt.Printf("c symconflicts: %12d (%.02f / sec)\n", st.SymConflictCount, float64(st.SymConflictCount)/elapsedTimeSeconds)
	fmt.Printf("c decisions: %12d (%.02f / sec)\n", st.DecisionCount, float64(st.DecisionCount)/elapsedTimeSeconds)
	fmt.Printf("c propagations: %12d (%.02f / sec)\n", st.PropagationCount, float64(st.PropagationCount)/elapsedTimeSeconds)
	fmt.Printf("c sympropagations: %12d (%.02f / sec)\n", st.SymPropagationCount, float64(st.SymPropagationCount)/elapsedTimeSeconds)
	if st.MaxLiterals > 0 {
		fmt.Printf("c conflict literals: %12d (%4.2f %% deleted)\n", st.TotLiterals,
			float64(st.MaxLiterals-st.TotLiterals)*100/float64(st.MaxLiterals))
	}
	fmt.Printf("c max decision level: %12d\n", st.MaxDecisionLevel)
	fmt.Printf("c reduce DB: %12d\n", st.ReduceDBCount)
	fmt.Printf("c removed clause: %12d\n", st.RemovedClauseCount)
	fmt.Printf("c garbage collections: %12d\n", st.GarbageCollectCount)
	fmt.Printf("c cpu time: %12f\n", elapsedTimeSeconds)
}

func setTimeOut(s *Solver, limitTimeSeconds int) {
	if limitTimeSeconds <= 0 {
		return
	}
	go func() {
		<-time.After(time.Duration(limitTimeSeconds) * time.Second)
		fmt.Println("c TIMEOUT")
		s.Interrupt()
	}()
}

func setInterupt(s *Solver) {
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println("c INTERUPT")
		s.Interrupt()
	}()
}

func printModel(s *Solver) {
	fmt.Print("v ")
	for i := 0; i < s.NumVars(); i++ {
		if s.Model[i] == LitBoolTrue {
			fmt.Printf("%d ", i+1)
		} else {
			fmt.Printf("%d ", -(i + 1))
		}
	}
	fmt.Print("0\n")
}

func writeResultFile(s *Solver, path string, status LitBool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()
	switch status {
	case LitBoolTrue:
		fmt.Fprintln(w, "SAT")
		for i := 0; i < s.NumVars(); i++ {
			if s.Model[i] == LitBoolTrue {
				fmt.Fprintf(w, "%d ", i+1)
			} else {
				fmt.Fprintf(w, "%d ", -(i + 1))
			}
		}
		fmt.Fprintln(w, "0")
	case LitBoolFalse:
		fmt.Fprintln(w, "UNSAT")
	default:
		fmt.Fprintln(w, "INDET")
	}
	return nil
}

func init() {
	CurrentTime = time.Now()
}

func main() {

	app := cli.NewApp()
	app.Name = "minisat-symsp"
	app.Usage = "A CDCL SAT Solver with symmetry propagation written in Go"
	app.Flags = GetFlags()

	app.Before = func(c *cli.Context) error {
		DebugMode = c.Bool("debug")
		return nil
	}

	app.Action = func(c *cli.Context) error {
		var err error
		//validate flag
		err = ValidateFlags(c)
		if err != nil {
			fmt.Println(err)
			cli.ShowAppHelpAndExit(c, 2)
		}

		opts, err := optionsFromContext(c)
		if err != nil {
			return err
		}

		//input
		inputFile := c.String("input-file")
		fp, err := os.Open(inputFile)
		if err != nil {
			return err
		}
		defer fp.Close()

		solver := NewSolver(opts)
		solver.Verbosity = c.Int("verbosity")
		setTimeOut(solver, c.Int("cpu-time-limit"))
		setInterupt(solver)

		in := bufio.NewScanner(fp)
		if err := parseDimacs(in, solver); err != nil {
			return err
		}

		if symFile := c.String("symmetry-file"); symFile != "" {
			sp, err := os.Open(symFile)
			if err != nil {
				return err
			}
			defer sp.Close()
			if err := parseSymmetries(bufio.NewScanner(sp), solver); err != nil {
				return err
			}
		}

		if solver.Verbosity >= 1 {
			printProblemStatistics(solver)
		}

		if dimacsOut := c.String("write-dimacs"); dimacsOut != "" {
			f, err := os.Create(dimacsOut)
			if err != nil {
				return err
			}
			defer f.Close()
			w := bufio.NewWriter(f)
			defer w.Flush()
			return solver.ToDimacs(w, nil)
		}

		status := solver.Solve()

		if solver.Verbosity >= 1 {
			printStatistics(solver)
		}
		exitCode := ExitCodeIndeterminate
		if status == LitBoolTrue {
			fmt.Println("\ns SATISFIABLE")
			printModel(solver)
			exitCode = ExitCodeSat
		} else if status == LitBoolFalse {
			fmt.Println("\ns UNSATISFIABLE")
			exitCode = ExitCodeUnsat
		} else {
			fmt.Println("\ns INDETERMINATE")
		}
		if out := c.String("result-output-file"); out != "" {
			if err := writeResultFile(solver, out, status); err != nil {
				return err
			}
		}
		os.Exit(exitCode)
		return nil
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
