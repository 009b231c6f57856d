// Package main is the entry point of the terminal explorer, a client of the
// name statistics API.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
