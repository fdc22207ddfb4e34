/*
   Package io centralizes error and warning reporting
   for hgtree commands
*/
package io

import (
	"fmt"
	"os"
)

// Prints the error on stderr
func LogError(err error) {
	fmt.Fprintf(os.Stderr, "[Error] %s\n", err.Error())
}

// Prints a warning on stderr. Warnings do not abort the
// current pipeline.
func LogWarning(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[Warning] "+format+"\n", args...)
}

// Prints the error on stderr and exits with a nonzero status
func ExitWithMessage(err error) {
	LogError(err)
	os.Exit(1)
}
