package main

import "courseplan/cmd"

func main() {
	cmd.Execute()
}
