package cmd

import (
	"encoding/json"
	"fmt"
	"os"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
)

func colorEnabled() bool {
	return os.Getenv("NO_COLOR") == ""
}

func colorize(code, s string) string {
	if !colorEnabled() {
		return s
	}
	return code + s + ansiReset
}

func colorGreen(s string) string  { return colorize(ansiGreen, s) }
func colorYellow(s string) string { return colorize(ansiYellow, s) }
func colorRed(s string) string    { return colorize(ansiRed, s) }
func colorBold(s string) string   { return colorize(ansiBold, s) }

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", colorRed("✗"), err)
}
