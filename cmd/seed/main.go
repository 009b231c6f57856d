// Package main is the entry point of the seed command, which replaces the
// content of the name store with the INSEE given-name file.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
