// Package main provides the entry point for plan-usage.
package main

import "github.com/denysvitali/plan-usage/cmd"

func main() {
	cmd.Execute()
}
