package main

import "github.com/needledrop/needledrop/cmd"

func main() {
	cmd.Execute()
}
