package main

import "sales-analytics/cmd"

func main() {
	cmd.Execute()
}
