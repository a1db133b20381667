// Command inklint-cli checks a text file (or stdin) against a running
// inklint server and prints the findings.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/inklint/inklint/internal/textedit"
	"github.com/inklint/inklint/pkg/client"
)

func main() {
	os.Exit(run())
}

func run() int {
	serverURL := flag.String("server", client.DefaultBaseURL, "inklint server base URL")
	showSpans := flag.Bool("spans", false, "print the text split into plain and flagged spans")
	flag.Parse()

	text, err := readInput(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "inklint-cli: %v\n", err)
		return 1
	}
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(os.Stderr, "inklint-cli: no input text")
		return 1
	}

	c := client.New(client.WithBaseURL(*serverURL))
	result, err := c.Check(context.Background(), text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "inklint-cli: %v\n", err)
		return 1
	}

	if len(result.Errors) == 0 {
		fmt.Println("No issues found.")
		return 0
	}

	fmt.Printf("%d issue(s) found:\n\n", len(result.Errors))
	for _, e := range result.Errors {
		fmt.Printf("  [%s] %s\n", e.Kind, e.Message)
		if e.Context != "" {
			fmt.Printf("      near: %q\n", e.Context)
		}
		if len(e.Suggestions) > 0 {
			fmt.Printf("      suggest: %s\n", strings.Join(e.Suggestions, ", "))
		}
	}

	if *showSpans {
		fmt.Println("\nSpans:")
		for _, s := range textedit.Partition(text, result.Errors) {
			marker := " "
			if s.IsError() {
				marker = "!"
			}
			fmt.Printf("  %s %q\n", marker, s.Text)
		}
	}

	if result.CorrectedText != "" && result.CorrectedText != text {
		fmt.Println("\nCorrected text:")
		fmt.Println(result.CorrectedText)
		fmt.Printf("\nEdit distance from original: %d\n", matchr.Levenshtein(text, result.CorrectedText))
	}
	return 0
}

// readInput returns the contents of the named file, or stdin when no file
// argument is given.
func readInput(args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}
