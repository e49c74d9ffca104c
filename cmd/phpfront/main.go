// Command phpfront lexes, parses, indexes, and type-infers PHP source.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/urfave/cli/v3"

	"github.com/vellumlang/phpfront/bytestring"
	"github.com/vellumlang/phpfront/index"
	"github.com/vellumlang/phpfront/index/storage"
	_ "github.com/vellumlang/phpfront/index/storage/filedriver"
	_ "github.com/vellumlang/phpfront/index/storage/mysqldriver"
	_ "github.com/vellumlang/phpfront/index/storage/postgresdriver"
	_ "github.com/vellumlang/phpfront/index/storage/sqlitedriver"
	"github.com/vellumlang/phpfront/index/storageconfig"
	"github.com/vellumlang/phpfront/infer"
	"github.com/vellumlang/phpfront/lexer"
	"github.com/vellumlang/phpfront/parser"
)

func main() {
	app := &cli.Command{
		Name:  "phpfront",
		Usage: "PHP lexer, parser, symbol index, and type inference front end",
		Commands: []*cli.Command{
			tokensCommand,
			parseCommand,
			indexCommand,
			inferCommand,
			replCommand,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func readInput(cmd *cli.Command) (string, bytestring.FileID, error) {
	path := cmd.Args().First()
	if path == "" || path == "-" {
		data, err := readAllStdin()
		return data, bytestring.NoFile, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", bytestring.NoFile, err
	}
	return string(data), bytestring.FileID(1), nil
}

func readAllStdin() (string, error) {
	var buf []byte
	chunk := make([]byte, 4096)
	for {
		n, err := os.Stdin.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if err != nil {
			break
		}
	}
	return string(buf), nil
}

var tokensCommand = &cli.Command{
	Name:      "tokens",
	Usage:     "print the token stream for a file (or stdin)",
	ArgsUsage: "[file]",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		src, file, err := readInput(cmd)
		if err != nil {
			return err
		}
		toks, lexErr := lexer.TokenizeFile(src, file)
		for i, tok := range toks {
			if tok.Type == lexer.T_EOF {
				break
			}
			fmt.Printf("%4d: %-30s %q at %d:%d\n", i+1, lexer.TokenNames[tok.Type], tok.Value, tok.Position.Line, tok.Position.Column)
		}
		if lexErr != nil {
			fmt.Fprintf(os.Stderr, "lex error: %v\n", lexErr)
		}
		return nil
	},
}

var parseCommand = &cli.Command{
	Name:      "parse",
	Usage:     "parse a file (or stdin) and print diagnostics, optionally as JSON",
	ArgsUsage: "[file]",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "json", Usage: "print the statement list as JSON"},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		src, file, err := readInput(cmd)
		if err != nil {
			return err
		}
		stmts, diags := parser.Parse(src, file)
		for _, d := range diags {
			fmt.Fprintln(os.Stderr, d.String())
		}
		if cmd.Bool("json") {
			data, err := json.MarshalIndent(stmts, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
		} else {
			fmt.Printf("parsed %d top-level statement(s)\n", len(stmts))
		}
		if diags.HasErrors() {
			os.Exit(1)
		}
		return nil
	},
}

var indexCommand = &cli.Command{
	Name:      "index",
	Usage:     "build a symbol index from one or more files and optionally persist it",
	ArgsUsage: "[file...]",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "storage-config", Usage: "path to a storageconfig YAML file"},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		ix := index.New()
		for i, path := range cmd.Args().Slice() {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			fid := bytestring.FileID(i + 1)
			stmts, diags := parser.Parse(string(data), fid)
			for _, d := range diags {
				fmt.Fprintf(os.Stderr, "%s: %s\n", path, d.String())
			}
			ix.IndexFile(path, fid, stmts)
		}

		fmt.Printf("indexed %d file(s): %d function(s), %d class-like(s)\n",
			len(cmd.Args().Slice()), len(ix.Snapshot().Functions), len(ix.Snapshot().Classes))

		if cfgPath := cmd.String("storage-config"); cfgPath != "" {
			cfg, err := storageconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			drv, ok := storage.Get(cfg.Driver)
			if !ok {
				return fmt.Errorf("phpfront: unknown storage driver %q", cfg.Driver)
			}
			store, err := drv.Open(cfg.Params)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Store(ix.Snapshot()); err != nil {
				return err
			}
			fmt.Printf("persisted index via %q driver\n", cfg.Driver)
		}
		return nil
	},
}

var inferCommand = &cli.Command{
	Name:      "infer",
	Usage:     "run type inference over a file (or stdin) and print the type map",
	ArgsUsage: "[file]",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		src, file, err := readInput(cmd)
		if err != nil {
			return err
		}
		stmts, diags := parser.Parse(src, file)
		for _, d := range diags {
			fmt.Fprintln(os.Stderr, d.String())
		}
		ix := index.New()
		ix.IndexFile("<input>", file, stmts)
		eng := infer.New(ix, infer.Options{})
		tm := eng.Map(stmts)
		fmt.Printf("inferred types for %d node(s)\n", tm.Len())
		return nil
	},
}

// replCommand drives one persistent symbol index across successive
// snippets, so a declared function or class becomes visible to
// inference on the next line.
var replCommand = &cli.Command{
	Name:  "repl",
	Usage: "interactively parse, index, and infer snippets",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "phpfront> ",
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			return err
		}
		defer rl.Close()

		ix := index.New()
		eng := infer.New(ix, infer.Options{})
		var nextFile bytestring.FileID = 1

		for {
			line, err := rl.Readline()
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if line == "exit" || line == "quit" {
				return nil
			}
			if !strings.Contains(line, "<?php") {
				line = "<?php " + line + ";"
			}

			file := nextFile
			nextFile++
			stmts, diags := parser.Parse(line, file)
			for _, d := range diags {
				fmt.Println(d.String())
			}
			ix.IndexFile("<repl>", file, stmts)
			tm := eng.Map(stmts)
			fmt.Printf("ok (%d node(s) typed)\n", tm.Len())
		}
	},
}
