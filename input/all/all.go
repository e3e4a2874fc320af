// Package all imports all analyzers implemented by the input package.
package all

import (
	_ "github.com/noriah/cavadash/input/cava"
)
