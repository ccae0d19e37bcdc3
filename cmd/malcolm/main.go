// Command malcolm waits for an ARP request for a victim's IPv4 address and
// answers it with a single forged ARP reply sent to a peer.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "malcolm: %v\n", err)
		os.Exit(1)
	}
}
