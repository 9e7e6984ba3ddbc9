// palettelib converts colour palettes between file formats.
//
// It reads and writes GIMP, Adobe (ACT, ACO, ASE) and Krita palettes as well
// as a plain JSON or YAML palette document.
//
// Copyright (c) 2025 The palettelib Authors
// Licensed under the MIT License
package main

import (
	"os"

	"github.com/justjanne/palettelib/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
