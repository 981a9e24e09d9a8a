// Command parsivelctl inspects and generates Parsivel raw files.
package main

import "github.com/couchcryptid/disdrometer-etl/cmd/parsivelctl/cmd"

func main() {
	cmd.Execute()
}
