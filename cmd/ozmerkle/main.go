// Command ozmerkle builds, dumps, proves, and verifies Merkle trees from
// the command line. It is a thin driver over the merkletree package: every
// subcommand maps directly onto a tree-facade operation from spec §6.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/smeneguz/ozmerkle/merkletree"
)

func newLogger(c *cli.Context) (*zap.Logger, error) {
	if c.Bool("verbose") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func readValues(path string) ([]merkletree.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading values file: %w", err)
	}
	var hexValues []string
	if err := json.Unmarshal(data, &hexValues); err != nil {
		return nil, fmt.Errorf("parsing values file (expected a JSON array of 0x-hex strings): %w", err)
	}
	values := make([]merkletree.Node, len(hexValues))
	for i, h := range hexValues {
		n, err := merkletree.NodeFromHex(h)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		values[i] = n
	}
	return values, nil
}

func buildTree(path string, sortLeaves bool) (*merkletree.SimpleMerkleTree, error) {
	values, err := readValues(path)
	if err != nil {
		return nil, err
	}
	return merkletree.NewSimpleMerkleTree(values, &merkletree.Options{SortLeaves: sortLeaves})
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}
	if path == "" || path == "-" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func main() {
	app := &cli.App{
		Name:  "ozmerkle",
		Usage: "build, prove, verify, and render simple Merkle trees",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "enable development-mode logging"},
		},
		Commands: []*cli.Command{
			buildCommand(),
			proveCommand(),
			verifyCommand(),
			renderCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "ozmerkle:", err)
		os.Exit(1)
	}
}

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "build a tree from a JSON array of 0x-hex leaf values and dump it",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "values", Required: true, Usage: "path to a JSON array of 0x-hex 32-byte values"},
			&cli.StringFlag{Name: "out", Usage: "output path for the dump (default: stdout)"},
			&cli.BoolFlag{Name: "no-sort", Usage: "preserve input order instead of sorting leaves by digest"},
		},
		Action: func(c *cli.Context) error {
			logger, err := newLogger(c)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			tree, err := buildTree(c.String("values"), !c.Bool("no-sort"))
			if err != nil {
				return err
			}
			logger.Info("built tree", zap.String("root", tree.Root().Hex()), zap.Int("leaves", tree.Length()))
			return writeJSON(c.String("out"), tree.Dump())
		},
	}
}

func proveCommand() *cli.Command {
	return &cli.Command{
		Name:  "prove",
		Usage: "generate a proof for one leaf, by index or by value",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "values", Required: true, Usage: "path to a JSON array of 0x-hex 32-byte values"},
			&cli.IntFlag{Name: "index", Value: -1, Usage: "leaf index to prove"},
			&cli.StringFlag{Name: "leaf", Usage: "leaf value (0x-hex) to prove, if not proving by index"},
			&cli.StringFlag{Name: "out", Usage: "output path for the proof (default: stdout)"},
			&cli.BoolFlag{Name: "no-sort", Usage: "preserve input order instead of sorting leaves by digest"},
		},
		Action: func(c *cli.Context) error {
			logger, err := newLogger(c)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			tree, err := buildTree(c.String("values"), !c.Bool("no-sort"))
			if err != nil {
				return err
			}

			var proof []merkletree.Node
			if c.Int("index") >= 0 {
				proof, err = tree.GetProofByIndex(c.Int("index"))
			} else if leaf := c.String("leaf"); leaf != "" {
				n, nerr := merkletree.NodeFromHex(leaf)
				if nerr != nil {
					return nerr
				}
				proof, err = tree.GetProofByValue(n)
			} else {
				return fmt.Errorf("one of --index or --leaf is required")
			}
			if err != nil {
				return err
			}

			logger.Info("generated proof", zap.Int("steps", len(proof)))
			return writeJSON(c.String("out"), map[string]interface{}{
				"root":  tree.Root(),
				"proof": proof,
			})
		},
	}
}

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "verify a single-leaf proof against a root",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Required: true},
			&cli.StringFlag{Name: "leaf", Required: true},
			&cli.StringSliceFlag{Name: "proof", Usage: "repeatable 0x-hex sibling digest, in order"},
		},
		Action: func(c *cli.Context) error {
			logger, err := newLogger(c)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			root, err := merkletree.NodeFromHex(c.String("root"))
			if err != nil {
				return err
			}
			leaf, err := merkletree.NodeFromHex(c.String("leaf"))
			if err != nil {
				return err
			}
			proofHexes := c.StringSlice("proof")
			proof := make([]merkletree.Node, len(proofHexes))
			for i, h := range proofHexes {
				n, err := merkletree.NodeFromHex(h)
				if err != nil {
					return fmt.Errorf("proof element %d: %w", i, err)
				}
				proof[i] = n
			}

			ok := merkletree.VerifyProof(root, leaf, proof, nil)
			logger.Info("verification result", zap.Bool("valid", ok))
			fmt.Println(ok)
			if !ok {
				os.Exit(2)
			}
			return nil
		},
	}
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "print the ASCII rendering of a tree built from a JSON array of leaf values",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "values", Required: true},
			&cli.BoolFlag{Name: "no-sort"},
		},
		Action: func(c *cli.Context) error {
			tree, err := buildTree(c.String("values"), !c.Bool("no-sort"))
			if err != nil {
				return err
			}
			fmt.Println(tree.Render())
			return nil
		},
	}
}
