//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs the unit tests with the race detector.
func (Test) Unit() error {
	if _, err := executeCmd("go", withArgs("test", "-race", "-count=1", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs go vet on every package.
func (Test) Vet() error {
	_, err := executeCmd("go", withArgs("vet", "./..."), withStream())
	return err
}
