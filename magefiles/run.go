//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Loads the sample model shipped in assets/models.
func (Run) Load() error {
	mg.Deps(Build.Binary)
	fmt.Println("Run objscope...")
	if _, err := executeCmd("bin/objscope", withArgs("load", "assets/models/tetrahedron.obj"), withStream()); err != nil {
		return err
	}
	return nil
}

// Watches the sample model and reloads it on change.
func (Run) Watch() error {
	mg.Deps(Build.Binary)
	if _, err := executeCmd("bin/objscope", withArgs("watch", "assets/models/tetrahedron.obj"), withStream()); err != nil {
		return err
	}
	return nil
}
