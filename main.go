package main

import "github.com/kai-do/fire-department-response-times-analysis/cmd"

func main() {
	cmd.Execute()
}
