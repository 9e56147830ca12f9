// Command surveyctl manages recipients, exports responses and sends digests
// without going through the HTTP API.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand(&app{}).Execute(); err != nil {
		os.Exit(1)
	}
}
