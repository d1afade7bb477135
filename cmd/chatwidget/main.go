// Chatwidget is a terminal page hosting a toggleable chat panel. Each message
// typed into the panel is posted to a chatbot endpoint as JSON and the reply
// is shown in the panel's transcript.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
