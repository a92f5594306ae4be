package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

func showUsage() {
	fmt.Fprintf(os.Stderr, `Zac - A small language that compiles to JavaScript with JSX

Usage:
    zac <command> [arguments]

Commands:
    build <path>    Compile a .zac file, or every .zac file under a directory
    check <file>    Parse and check a .zac file
    emit <code>     Compile inline Zac code and print the output
    repl            Start an interactive session
    help            Show this help message

Examples:
    zac build src
    zac build -o app.jsx app.zac
    zac emit 'let x = [1, 2]'
    zac check app.zac

Use "zac <command> -h" for more information about a command.
`)
}

func buildCommand(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	output := fs.String("o", "", "Output file, or output directory when building a directory (default: build)")
	verbose := fs.Bool("v", false, "Show verbose compilation details")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: zac build [-o output] [-v] <file|dir>\n")
		fmt.Fprintf(os.Stderr, "Compile a .zac file, or every .zac file under a directory\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file or directory argument\n")
		fs.Usage()
		os.Exit(1)
	}

	start := time.Now()
	target := fs.Arg(0)
	info, err := os.Stat(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var jobs []buildJob
	if info.IsDir() {
		outDir := *output
		if outDir == "" {
			outDir = "build"
		}
		jobs, err = collectBuildJobs(target, outDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	} else {
		outFile := *output
		if outFile == "" {
			outFile = strings.TrimSuffix(target, ".zac") + ".jsx"
		}
		jobs = []buildJob{{source: target, output: outFile}}
	}

	failed := 0
	for _, job := range jobs {
		if *verbose {
			fmt.Printf("Compiling %s to %s...\n", job.source, job.output)
		}
		if err := runBuildJob(job, *verbose); err != nil {
			if !errors.Is(err, errCompileFailed) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			failed++
		}
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d files failed to compile\n", failed, len(jobs))
		os.Exit(1)
	}
	fmt.Printf("Compiled %d files in %s\n", len(jobs), time.Since(start).Round(time.Millisecond))
}

type buildJob struct {
	source string
	output string
}

// collectBuildJobs pairs every .zac file under dir with its .jsx path in
// the mirrored tree under outDir.
func collectBuildJobs(dir string, outDir string) ([]buildJob, error) {
	var jobs []buildJob
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".zac" {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		jobs = append(jobs, buildJob{
			source: path,
			output: filepath.Join(outDir, strings.TrimSuffix(rel, ".zac")+".jsx"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	return jobs, nil
}

var errCompileFailed = errors.New("compilation failed")

// runBuildJob compiles one file. Compile errors are printed here, with
// source excerpts, and reported as errCompileFailed.
func runBuildJob(job buildJob, verbose bool) error {
	sourceBytes, err := os.ReadFile(job.source)
	if err != nil {
		return fmt.Errorf("reading %s: %w", job.source, err)
	}
	file := NewSourceFile(job.source, sourceBytes)
	comp, err := compileProgram(file, verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, FormatError(file, err))
		return errCompileFailed
	}
	if verbose {
		for _, w := range comp.Context.Warnings.Errors() {
			fmt.Println(FormatDiagnostic(file, "Warning", w.Message, w.Pos))
		}
	}
	if err := os.MkdirAll(filepath.Dir(job.output), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", job.output, err)
	}
	if err := os.WriteFile(job.output, []byte(comp.Output+"\n"), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", job.output, err)
	}
	return nil
}

func checkCommand(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Show verbose checking details")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: zac check [-v] <file>\n")
		fmt.Fprintf(os.Stderr, "Parse and check a .zac file\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}

	filename := fs.Arg(0)

	if *verbose {
		fmt.Printf("Checking %s...\n", filename)
	}

	sourceBytes, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(1)
	}

	file := NewSourceFile(filename, sourceBytes)
	ast, err := checkProgram(file)
	if err != nil {
		fmt.Fprintln(os.Stderr, FormatError(file, err))
		os.Exit(1)
	}

	fmt.Printf("%s: no errors found\n", filename)

	if *verbose {
		fmt.Printf("AST: %s\n", ToSExpr(ast))
	}
}

func emitCommand(args []string) {
	fs := flag.NewFlagSet("emit", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Show verbose compilation details")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: zac emit [-v] <code>\n")
		fmt.Fprintf(os.Stderr, "Compile inline Zac code and print the output\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one code argument\n")
		fs.Usage()
		os.Exit(1)
	}

	code := fs.Arg(0)

	if *verbose {
		fmt.Printf("Compiling: %s\n", code)
	}

	file := NewSourceFile("<emit>", []byte(code))
	comp, err := compileProgram(file, *verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, FormatError(file, err))
		os.Exit(1)
	}
	fmt.Println(comp.Output)
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "build":
		buildCommand(args)
	case "check":
		checkCommand(args)
	case "emit":
		emitCommand(args)
	case "repl":
		replCommand(args)
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		showUsage()
		os.Exit(1)
	}
}
