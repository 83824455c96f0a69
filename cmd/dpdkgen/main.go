package main

import "github.com/goplus/dpdkgen/cmd/dpdkgen/internal"

func main() {
	internal.Execute()
}
