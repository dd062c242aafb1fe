package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	mongokit "github.com/ajessup/mongokit"
	"github.com/ajessup/mongokit/schemafile"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "validate":
		validateCmd(os.Args[2:])
	case "check":
		checkCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "mongokit CLI\n\nUsage:\n  mongokit validate -schema schema.yaml [-collect] doc.json [doc.json...]\n  mongokit check -schema schema.yaml\n\nNotes:\n  - validate checks JSON documents against a YAML schema declaration.\n  - check only compiles the schema declaration and reports declaration errors.")
}

func validateCmd(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	var schemaPath string
	var collect bool
	fs.StringVar(&schemaPath, "schema", "", "YAML schema declaration file")
	fs.BoolVar(&collect, "collect", false, "report every issue instead of stopping at the first")
	_ = fs.Parse(args)
	if schemaPath == "" || fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	doc, err := schemafile.LoadFile(schemaPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mongokit: %v\n", err)
		os.Exit(2)
	}

	ctx := context.Background()
	failed := false
	for _, path := range fs.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "mongokit: read %s: %v\n", path, err)
			failed = true
			continue
		}
		instance, err := mongokit.JSONBytes(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed = true
			continue
		}
		var opts []mongokit.ValidateOpt
		if collect {
			opts = append(opts, mongokit.Collect())
		}
		if err := doc.Validate(ctx, instance, opts...); err != nil {
			failed = true
			if iss, ok := mongokit.AsIssues(err); ok {
				for _, it := range iss {
					where := it.Path
					if where == "" {
						where = "(document)"
					}
					fmt.Fprintf(os.Stderr, "%s: %s at %s: %s %s\n", path, it.Code, where, it.Message, it.Hint)
				}
				continue
			}
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			continue
		}
		fmt.Printf("%s: ok\n", path)
	}
	if failed {
		os.Exit(1)
	}
}

func checkCmd(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var schemaPath string
	fs.StringVar(&schemaPath, "schema", "", "YAML schema declaration file")
	_ = fs.Parse(args)
	if schemaPath == "" {
		fs.Usage()
		os.Exit(2)
	}
	if _, err := schemafile.LoadFile(schemaPath); err != nil {
		fmt.Fprintf(os.Stderr, "mongokit: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("ok")
}
