//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Exports the bundled sample scene.
func (Run) Sample() error {
	fmt.Println("Exporting sample scene...")
	if _, err := executeCmd("go", withArgs("run", ".", "export", "assets/scenes/sample.toml"), withStream()); err != nil {
		return err
	}
	return nil
}

// Watches the bundled sample scene and re-exports on change.
func (Run) Watch() error {
	if _, err := executeCmd("go", withArgs("run", ".", "watch", "assets/scenes/sample.toml"), withStream()); err != nil {
		return err
	}
	return nil
}
