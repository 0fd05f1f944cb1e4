// Command randomizer loads a world file, runs the assumed-fill
// allocator, verifies the result is fully reachable, and writes a
// dependency-graph report.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mdsherry/randomizer/pkg/allocator"
	"github.com/mdsherry/randomizer/pkg/report"
	"github.com/mdsherry/randomizer/pkg/verifier"
	"github.com/mdsherry/randomizer/pkg/world"
)

const version = "1.0.0"

var (
	worldPath     = flag.String("world", "", "Path to a YAML world file (required)")
	outputDir     = flag.String("output", ".", "Output directory for generated files")
	format        = flag.String("format", "dot", "Report format: dot, svg, or all")
	seedFlag      = flag.Uint64("seed", 0, "Master seed for placement (0 = random-looking default)")
	matchCategory = flag.Bool("match-category", false, "Require pool item counts to match location counts per category")
	temperature   = flag.Uint64("temperature", 0, "Unlock-pass jitter range; 0 disables jitter")
	preferNew     = flag.Bool("prefer-new-locations", false, "Prefer the most recently opened locations for non-Minor items")
	verbose       = flag.Bool("verbose", false, "Print a progress line after every placement")
	versionF      = flag.Bool("version", false, "Print version and exit")
	help          = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("randomizer version %s\n", version)
		os.Exit(0)
	}
	if *help {
		printHelp()
		os.Exit(0)
	}
	if *worldPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -world flag is required")
		printUsage()
		os.Exit(1)
	}

	validFormats := map[string]bool{"dot": true, "svg": true, "all": true}
	if !validFormats[*format] {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q, must be one of: dot, svg, all\n", *format)
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if *verbose {
		fmt.Printf("Loading world from %s\n", *worldPath)
	}
	w, err := world.LoadWorldFile(*worldPath, nil)
	if err != nil {
		return fmt.Errorf("failed to load world: %w", err)
	}

	cfg := world.AllocatorConfig{
		RoundCap:           world.DefaultRoundCap,
		MatchCategory:      *matchCategory,
		Temperature:        uint32(*temperature),
		PreferNewLocations: *preferNew,
	}

	if *verbose {
		fmt.Printf("Items: %d, Flags: %d, Locations: %d\n", len(w.Items), len(w.Flags), len(w.Locations))
		fmt.Printf("Using seed: %d\n", *seedFlag)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	a, err := allocator.New(w, w.Pool(), cfg, *seedFlag)
	if err != nil {
		return fmt.Errorf("preflight check failed: %w", err)
	}
	if *verbose {
		a.SetLogger(func(line string) { fmt.Println(line) })
	}

	start := time.Now()
	res := a.Run()
	elapsed := time.Since(start)

	if !res.Success {
		fmt.Fprintln(os.Stderr, "Allocation stalled; residual locations:")
		for _, r := range res.Residual {
			fmt.Fprintf(os.Stderr, "  %s: needs %s\n", w.Registry.LocationName(r.Location), r.Requirement)
		}
		return fmt.Errorf("allocation did not place every item in %d rounds", res.Rounds)
	}

	rep := verifier.Verify(w, res.Assignments)
	if !rep.Complete() {
		fmt.Fprintln(os.Stderr, "Verification found unreachable content:")
		for _, l := range rep.UnreachedLocations {
			fmt.Fprintf(os.Stderr, "  location %s is unreachable\n", w.Registry.LocationName(l))
		}
		for _, name := range verifier.UnsatisfiedFlagNames(w, rep) {
			fmt.Fprintf(os.Stderr, "  flag %s is never satisfied\n", name)
		}
		return fmt.Errorf("verification failed")
	}

	if *verbose {
		fmt.Printf("Allocation completed in %v across %d rounds, %d generations\n",
			elapsed, res.Rounds, len(rep.Generations))
	}

	graph := rep.DependencyGraph(w, res.Assignments)
	baseName := fmt.Sprintf("randomizer_%d", *seedFlag)

	if *format == "dot" || *format == "all" {
		if err := writeReport(baseName+".dot", []byte(report.Dot(graph))); err != nil {
			return err
		}
	}
	if *format == "svg" || *format == "all" {
		opts := report.DefaultSVGOptions()
		opts.Title = fmt.Sprintf("Item Dependency Graph (seed=%d)", *seedFlag)
		if err := writeReport(baseName+".svg", report.SVG(graph, opts)); err != nil {
			return err
		}
	}

	fmt.Printf("Successfully allocated %d items across %d locations (seed=%d) in %v\n",
		len(res.Assignments), len(w.Locations), *seedFlag, elapsed)
	return nil
}

func writeReport(name string, data []byte) error {
	filename := filepath.Join(*outputDir, name)
	if *verbose {
		fmt.Printf("Writing %s\n", filename)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage: randomizer -world <world.yaml> [options]")
	fmt.Fprintln(os.Stderr, "\nRun 'randomizer -help' for detailed help")
}

func printHelp() {
	fmt.Printf("randomizer version %s\n\n", version)
	fmt.Println("A command-line tool for placing items across a randomizer world and verifying the result.")
	fmt.Println("\nUsage:")
	fmt.Println("  randomizer -world <world.yaml> [options]")
	fmt.Println("\nRequired Flags:")
	fmt.Println("  -world string")
	fmt.Println("        Path to a YAML world file")
	fmt.Println("\nOptional Flags:")
	fmt.Println("  -output string")
	fmt.Println("        Output directory for generated files (default: current directory)")
	fmt.Println("  -format string")
	fmt.Println("        Report format: dot, svg, or all (default: dot)")
	fmt.Println("  -seed uint")
	fmt.Println("        Master seed for placement (default: 0)")
	fmt.Println("  -match-category")
	fmt.Println("        Require pool item counts to match location counts per category")
	fmt.Println("  -temperature uint")
	fmt.Println("        Unlock-pass jitter range; 0 disables jitter")
	fmt.Println("  -prefer-new-locations")
	fmt.Println("        Prefer the most recently opened locations for non-Minor items")
	fmt.Println("  -verbose")
	fmt.Println("        Print a progress line after every placement")
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
	fmt.Println("\nExamples:")
	fmt.Println("  # Allocate and write a Graphviz dependency graph")
	fmt.Println("  randomizer -world world.yaml -seed 12345")
	fmt.Println("\n  # Allocate with verbose round-by-round progress and both report formats")
	fmt.Println("  randomizer -world world.yaml -seed 12345 -format all -verbose")
}
