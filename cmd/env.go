package cmd

import (
	"fmt"
	"os"

	"github.com/go-imsto/smol/config"
)

var cmdEnv = &Command{
	UsageLine: "env",
	Short:     "list environment variables",
	Long: `
list the SMOL_* environment variables and their defaults
`,
}

func init() {
	cmdEnv.Run = runEnv
}

func runEnv(args []string) bool {
	if err := config.Usage(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		setExitStatus(1)
	}
	return true
}
