// Command voxelworldd runs the voxel world streaming and persistence
// engine headless: it drives the chunk lifecycle state machine, the
// deferred lighting engine and the background job scheduler against a
// save directory on disk, without any rendering or input layer attached.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
