package main

import "github.com/zsh-sage/toggle-term/cmd"

func main() {
	cmd.Execute()
}
