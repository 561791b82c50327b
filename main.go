package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/rhartert/gosat/parsers"
	"github.com/rhartert/gosat/sat"
)

var flagCPUProfile = flag.Bool(
	"cpuprof",
	false,
	"save pprof CPU profile in cpuprof",
)

var flagMemProfile = flag.Bool(
	"memprof",
	false,
	"save pprof memory profile in memprof",
)

var flagGzipped = flag.Bool(
	"gzip",
	false,
	"the instance file is gzip-compressed",
)

var flagVerbose = flag.Bool(
	"verbose",
	false,
	"print periodic search progress",
)

var flagProof = flag.String(
	"proof",
	"",
	"write a DRAT-like proof trace to this file",
)

var flagConflicts = flag.Int64(
	"conflicts",
	-1,
	"abort with UNKNOWN after this many conflicts (-1: unlimited)",
)

var flagTimeout = flag.Duration(
	"timeout",
	0,
	"abort with UNKNOWN after this wall-clock duration (0: unlimited)",
)

func parseConfig() (*config, error) {
	flag.Parse()

	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return nil, fmt.Errorf("missing instance file")
	}
	return &config{
		instanceFile: flag.Arg(0),
		memProfile:   *flagMemProfile,
		cpuProfile:   *flagCPUProfile,
	}, nil
}

type config struct {
	instanceFile string
	memProfile   bool
	cpuProfile   bool
}

// exit codes per spec §6: 10 SAT, 20 UNSAT, 0 UNKNOWN/INTERRUPTED, non-zero
// for fatal I/O/parse errors.
const (
	exitSAT     = 10
	exitUNSAT   = 20
	exitUnknown = 0
)

func run(cfg *config) (int, error) {
	opts := sat.DefaultOptions
	opts.Verbose = *flagVerbose
	if *flagConflicts >= 0 {
		opts.MaxConflicts = *flagConflicts
	}

	s := sat.NewSolver(opts)

	if *flagProof != "" {
		f, err := os.Create(*flagProof)
		if err != nil {
			return 1, fmt.Errorf("could not create proof file: %s", err)
		}
		defer f.Close()
		w := sat.NewDRATWriter(f)
		defer w.Finalize()
		s.SetProofSink(w)
	}

	ok, err := parsers.LoadInto(cfg.instanceFile, *flagGzipped, s)
	if err != nil {
		return 1, fmt.Errorf("could not parse instance: %s", err)
	}

	fmt.Printf("c variables:  %d\n", s.NumVars())

	if !ok {
		fmt.Println("c status:     UNSATISFIABLE (detected during load)")
		return exitUNSAT, nil
	}

	if *flagTimeout > 0 {
		deadline := time.Now().Add(*flagTimeout)
		s.SetTermCallback(func() bool { return time.Now().After(deadline) })
	}

	t := time.Now()
	result := s.SolveUnder(nil)
	elapsed := time.Since(t)

	stats := s.Stats()
	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
	fmt.Printf("c conflicts:  %d (%.2f /sec)\n", stats.Conflicts, float64(stats.Conflicts)/elapsed.Seconds())
	fmt.Printf("c restarts:   %d\n", stats.Restarts)
	fmt.Printf("c status:     %s\n", result.Status)

	switch result.Status {
	case sat.StatusSat:
		return exitSAT, nil
	case sat.StatusUnsat:
		return exitUNSAT, nil
	default:
		return exitUnknown, nil
	}
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.cpuProfile {
		f, err := os.Create("cpuprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	code, err := run(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.memProfile {
		f, err := os.Create("memprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}

	os.Exit(code)
}
