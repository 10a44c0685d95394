// Command heclc is the hecl shading-expression compiler CLI.
//
// Usage:
//
//	heclc [options] <input>
//
// Examples:
//
//	heclc shader.hecl                    # Compile and print disassembly
//	heclc -o shader.ir shader.hecl       # Compile to file
//	heclc -backend text -store $HOME/.heclrun/demo shader.hecl
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/hecl-lang/hecl"
	"github.com/hecl-lang/hecl/backend"
)

var (
	output      = flag.String("o", "", "output file (default: stdout)")
	backendFlag = flag.String("backend", "text", "backend to compile through (currently: text)")
	storeDir    = flag.String("store", "", "artifact store directory (default: no caching)")
	name        = flag.String("name", "", "diagnostic name (default: input file name)")
	versionFlag = flag.Bool("version", false, "print version")
)

func version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return "dev"
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *versionFlag {
		fmt.Printf("heclc version %s\n", version())
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		usage()
		os.Exit(1)
	}
	inputPath := args[0]

	source, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	diagName := *name
	if diagName == "" {
		diagName = inputPath
	}

	var be backend.Backend
	switch *backendFlag {
	case "text":
		be = backend.TextBackend{}
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown backend %q\n", *backendFlag)
		os.Exit(1)
	}

	var store backend.ArtifactStore
	if *storeDir != "" {
		s, err := backend.NewDiskStore(*storeDir, "heclc")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		store = s
	}

	fp := backend.Fingerprint(string(source))
	if store != nil {
		if cached, ok, err := store.Get(fp); err == nil && ok {
			writeOutput(inputPath, cached)
			return
		}
	}

	m, err := hecl.Compile(string(source), diagName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compilation error: %v\n", err)
		os.Exit(1)
	}

	blob, err := be.Compile(m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Backend error: %v\n", err)
		os.Exit(1)
	}

	if store != nil {
		if err := store.Put(fp, blob); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: unable to cache artifact: %v\n", err)
		}
	}

	writeOutput(inputPath, blob)
}

func writeOutput(inputPath string, blob []byte) {
	if *output != "" {
		if err := os.WriteFile(*output, blob, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Successfully compiled %s to %s (%d bytes)\n", inputPath, *output, len(blob))
		return
	}
	if _, err := os.Stdout.Write(blob); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: heclc [options] <input.hecl>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  heclc shader.hecl               Compile to stdout\n")
	fmt.Fprintf(os.Stderr, "  heclc -o shader.ir shader.hecl  Compile to file\n")
}
