// ./main.go
package main

import (
	"github.com/dvalis/opendnsctl/cmd"
)

func main() {
	cmd.Execute()
}
