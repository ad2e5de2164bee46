package main

import "schoolnet/cohort/cmd"

func main() {
	cmd.Execute()
}
