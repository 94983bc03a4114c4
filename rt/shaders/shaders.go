package shaders

import (
	_ "embed"
)

//go:embed grid.wgsl
var GridWGSL string

//go:embed text.wgsl
var TextWGSL string
