package main

import (
	"context"
	"io"

	"github.com/fwojciec/distill"
)

// Dependencies holds services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Extractor distill.Extractor
	Converter distill.Converter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Serve   ServeCmd   `cmd:"" help:"Run the extraction HTTP service"`
	Extract ExtractCmd `cmd:"" help:"Extract main content from a file or stdin"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr     string  `default:":8080" help:"Listen address"`
	Config   string  `short:"c" type:"path" help:"YAML configuration file"`
	Capacity int     `default:"0" help:"Session pool capacity (overrides config)"`
	Engine   string  `default:"" enum:",heuristic,trafilatura,readability" help:"Extraction engine"`
	Cache    string  `help:"Path to the SQLite extraction cache (empty disables caching)"`
	RPS      float64 `help:"Global request rate limit, requests per second (0 = unlimited)"`
	Verbose  bool    `short:"v" help:"Enable debug logging"`
}

// ExtractCmd is the "extract" subcommand. It runs the static pipeline
// only: no browser, no server.
type ExtractCmd struct {
	Path    string `arg:"" optional:"" type:"existingfile" help:"HTML file to extract ('-' or empty reads stdin)"`
	Config  string `short:"c" type:"path" help:"YAML configuration file"`
	Engine  string `default:"" enum:",heuristic,trafilatura,readability" help:"Extraction engine"`
	Output  string `short:"o" type:"path" help:"Write the result to a file with frontmatter instead of stdout"`
	Locator bool   `help:"Print the locator and title instead of markdown only"`
}
