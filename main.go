package main

import "github.com/xyston/caseload/cmd"

func main() {
	cmd.Execute()
}
