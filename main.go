package main

import "github.com/KaramelBytes/adam-cli/cmd"

func main() {
	cmd.Execute()
}
