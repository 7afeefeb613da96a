//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Builds the objscope binary into bin/.
func (Build) Binary() error {
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/objscope", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs go mod tidy.
func (Build) Tidy() error {
	return goTidy()
}
