package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/fs"
)

// Run executes the extract command: static one-shot extraction of a file
// or stdin to Markdown on stdout.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	html, err := c.readInput()
	if err != nil {
		return err
	}

	result, err := deps.Extractor.Extract(html)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", distill.ErrorMessage(err))
		return err
	}

	markdown, err := deps.Converter.Convert(result.ContentHTML)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", distill.ErrorMessage(err))
		return err
	}

	if c.Output != "" {
		ex := &distill.Extraction{
			Markdown:    markdown,
			Locator:     result.Locator,
			Title:       result.Title,
			ContentHash: fmt.Sprintf("%016x", xxhash.Sum64String(markdown)),
			Status:      distill.StatusSuccess,
			Outline:     distill.Outline(markdown),
		}
		source := c.Path
		if source == "-" {
			source = ""
		}
		if err := fs.WriteExtraction(c.Output, ex, source); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", err)
			return err
		}
		fmt.Fprintf(deps.Stdout, "wrote %s\n", c.Output)
		return nil
	}

	if c.Locator {
		if result.Title != "" {
			fmt.Fprintf(deps.Stdout, "title: %s\n", result.Title)
		}
		if !result.Locator.IsZero() {
			fmt.Fprintf(deps.Stdout, "locator: %s\n", result.Locator)
		}
		fmt.Fprintln(deps.Stdout)
	}
	fmt.Fprintln(deps.Stdout, markdown)

	return nil
}

func (c *ExtractCmd) readInput() (string, error) {
	if c.Path == "" || c.Path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(c.Path)
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", c.Path, err)
	}
	return string(data), nil
}
