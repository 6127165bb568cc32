package main

import "github.com/oshokin/tire-pressure-alarm/cmd/tpms-monitor/cmd"

func main() {
	cmd.Execute()
}
