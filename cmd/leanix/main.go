// Package main provides the entry point for the LeanIX portfolio analyzer CLI.
package main

func main() {
	Execute()
}
