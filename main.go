package main

import "github.com/sambabib/dependency-dashboard/cmd"

func main() {
	cmd.Execute()
}
