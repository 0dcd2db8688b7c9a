// Command rigdump loads a YAML rig, poses it and prints the resulting world transforms.
package main

import (
	"log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("[rigdump] %v", err)
	}
}
