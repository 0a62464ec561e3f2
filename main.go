package main

import "github.com/jsphweid/chiptheory/cmd"

func main() {
	cmd.Execute()
}
