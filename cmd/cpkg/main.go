package main

import "github.com/fandjelo/cpkg/cmd/cpkg/internal"

func main() {
	internal.Execute()
}
