package main

import (
	"fmt"
	"io"
)

func runVersion(stdout io.Writer) int {
	fmt.Fprintf(stdout, FmtVersion, Version)
	return ExitCodeSuccess
}
