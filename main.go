package main

import "github.com/apkscope/apkscope-cli/cmd"

func main() {
	cmd.Execute()
}
