package main

import "github.com/Ignatius32/programas-crubunco/cmd"

func main() {
	cmd.Execute()
}
