package main

import "github.com/nikogura/adgm-review/cmd"

func main() {
	cmd.Execute()
}
