// Package main provides the CLI entry point for apex, a unified
// Markdown-to-HTML processor.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jowie27/apex"
)

var version = "dev"

func main() {
	cfg := &Config{}

	rootCmd := &cobra.Command{
		Use:   "apex [flags] [file]",
		Short: "Convert Markdown to HTML",
		Long: `apex reconciles CommonMark, GFM, MultiMarkdown, Kramdown, and a permissive
unified dialect behind a single configuration, producing an HTML fragment or
a complete standalone document.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			showVersion, _ := cmd.Flags().GetBool("version")
			if showVersion {
				fmt.Println("apex " + version)
				return nil
			}
			return run(cfg, cmd, args)
		},
	}
	rootCmd.Flags().BoolP("version", "v", false, "print the version and exit")

	cfg.RegisterFlags(rootCmd.Flags())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(cfg *Config, cmd *cobra.Command, args []string) error {
	opt, err := cfg.buildOptions(cmd.Flags())
	if err != nil {
		return err
	}

	var input []byte
	if len(args) == 0 || args[0] == "-" {
		input, err = io.ReadAll(os.Stdin)
	} else {
		input, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("apex: reading input: %w", err)
	}

	html, err := apex.Convert(input, opt)
	if err != nil {
		return fmt.Errorf("apex: %w", err)
	}

	if cfg.Output == "" || cfg.Output == "-" {
		_, err = os.Stdout.WriteString(html)
	} else {
		err = os.WriteFile(cfg.Output, []byte(html), 0o644)
	}
	if err != nil {
		return fmt.Errorf("apex: writing output: %w", err)
	}
	return nil
}
