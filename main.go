/*
	Copyright 2024 Markus Papenbrock
*/

package main

import "github.com/mpapenbr/fantasyf1-service-go/cmd"

func main() {
	cmd.Execute()
}
