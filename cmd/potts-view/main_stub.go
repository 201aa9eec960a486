//go:build !ebiten

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "potts-view needs the ebiten build tag.")
	fmt.Fprintln(os.Stderr, "Build with `go build -tags ebiten ./cmd/potts-view`, or use ./cmd/potts-tui in a terminal.")
	os.Exit(2)
}
