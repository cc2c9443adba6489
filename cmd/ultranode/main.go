package main

import "github.com/rzbill/ultranode/pkg/cli/cmd"

func main() {
	cmd.Execute()
}
