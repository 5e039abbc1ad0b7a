package main

import "github.com/OpenTraceLab/OpenTraceICT/cmd/ict/cmd"

func main() {
	cmd.Execute()
}
