package main

import "github.com/matrixlogger/mxl/cmd"

func main() {
	cmd.Execute()
}
