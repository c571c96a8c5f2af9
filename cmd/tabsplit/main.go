// Command tabsplit splits a marketplace listing table into bounded files
// and merges such files back together.
package main

import "os"

func main() {
	os.Exit(execute(os.Args[1:]))
}
