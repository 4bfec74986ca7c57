package main

import (
	"github.com/go-imsto/smol/cmd"
)

func main() {
	cmd.Main()
}
