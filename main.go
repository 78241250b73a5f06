package main

import "github.com/entnt/dentdesk/cmd"

func main() {
	cmd.Execute()
}
