// Command tripctl exports, imports and prints the saved trip.
package main

import (
	"fmt"
	"os"

	"github.com/corey-alix/trip-planner-app/internal/appconf"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, appconf.Load); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
