package main

import "s3-toolkit/cmd"

func main() {
	cmd.Execute()
}
