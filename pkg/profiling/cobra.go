package profiling

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/spf13/cobra"
)

// CobraProfiler hangs profiling flags off a root command and drives the
// timing and pprof lifecycle through PersistentPreRunE/PostRun hooks.
type CobraProfiler struct {
	cpuPath string
	memPath string
	timing  bool

	cpuFile *os.File
}

// NewCobraProfiler creates an unconfigured profiler.
func NewCobraProfiler() *CobraProfiler {
	return &CobraProfiler{}
}

// AddFlags registers the profiling flags on the given command.
func (p *CobraProfiler) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&p.cpuPath, "cpu-profile", "", "Write a CPU profile to this file")
	cmd.PersistentFlags().StringVar(&p.memPath, "mem-profile", "", "Write a heap profile to this file")
	cmd.PersistentFlags().BoolVar(&p.timing, "timing", false, "Print a timing summary on exit")
}

// PreRun starts collection. Use as PersistentPreRunE.
func (p *CobraProfiler) PreRun(cmd *cobra.Command, args []string) error {
	if p.timing {
		Enable()
	}
	if p.cpuPath != "" {
		f, err := os.Create(p.cpuPath)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		p.cpuFile = f
	}
	return nil
}

// PostRun flushes profiles and prints the timing summary. Use as
// PersistentPostRun.
func (p *CobraProfiler) PostRun(cmd *cobra.Command, args []string) {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		p.cpuFile.Close()
		fmt.Fprintf(os.Stderr, "CPU profile written to %s\n", p.cpuPath)
	}
	if p.memPath != "" {
		f, err := os.Create(p.memPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not create heap profile: %v\n", err)
			return
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "could not write heap profile: %v\n", err)
			return
		}
		fmt.Fprintf(os.Stderr, "Heap profile written to %s\n", p.memPath)
	}
	if p.timing {
		Summarize(os.Stderr)
	}
}
