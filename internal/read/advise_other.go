//go:build !linux

package read

import "os"

func adviseSequential(*os.File) {}
