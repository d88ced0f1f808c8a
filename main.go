package main

import "github.com/KaramelBytes/mlexplorer/cmd"

func main() {
	cmd.Execute()
}
