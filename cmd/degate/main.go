package main

import "github.com/OpenTraceLab/OpenTraceDegate/cmd/degate/cmd"

func main() {
	cmd.Execute()
}
