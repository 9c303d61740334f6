// Command formbind serves and fills schema driven forms.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
