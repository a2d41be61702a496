// Command snippetctl inspects and maintains the snippet store.
//
// It reads the same environment variables as the server, so
//
//	SNIPPETS_STORE=sqlite snippetctl users list
//
// looks at exactly the data the server would serve.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
