// Command yms-doctor writes the aggregate module documentation for a modules tree.
package main

import "github.com/yamsproject/yms/internal/cli"

var version = "0.1.0"

func main() {
	cli.ExecuteDoctor(version)
}
