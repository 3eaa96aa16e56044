package tinyconfigs

import "github.com/reusee/tinyc/configs"

// SampleRoots are the files or directories checked by the regression harness when none is given.
// Roots from every config file are kept, in lookup order.
type SampleRoots []string

func (Module) SampleRoots(
	loader configs.Loader,
) SampleRoots {
	var roots SampleRoots
	for paths := range configs.All[[]string](loader, "samples") {
		roots = append(roots, paths...)
	}
	return roots
}
