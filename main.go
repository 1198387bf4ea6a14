// Public domain.

package main

import "github.com/astrolabs/difphot/internal/dpprog"

func main() {
	dpprog.Main()
}
