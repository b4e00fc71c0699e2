package main

import "github.com/longevai/ragchat/internal/commands"

func main() {
	commands.Execute()
}
