// Command summ is the supervisor CLI and daemon for interactive assistant
// sessions hosted in tmux.
package main

import (
	"os"

	"github.com/summ-dev/summ/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
