// Package cliflag groups pflag.FlagSets by concern name. AddFlagSet merges
// every group into one command flag set, so --help lists all flags together
// rather than in per-concern sections.
package cliflag

import (
	"sort"

	"github.com/spf13/pflag"
)

// NamedFlagSets stores flag sets by name, preserving first-insertion order.
type NamedFlagSets struct {
	FlagSets map[string]*pflag.FlagSet
	Order    []string
}

// FlagSet returns the flag set for name, creating it if necessary.
func (nfs *NamedFlagSets) FlagSet(name string) *pflag.FlagSet {
	if nfs.FlagSets == nil {
		nfs.FlagSets = map[string]*pflag.FlagSet{}
	}
	if _, ok := nfs.FlagSets[name]; !ok {
		nfs.FlagSets[name] = pflag.NewFlagSet(name, pflag.ExitOnError)
		nfs.Order = append(nfs.Order, name)
	}
	return nfs.FlagSets[name]
}

// AddFlagSet merges every flag from other into the command's top-level set.
func AddFlagSet(fs *pflag.FlagSet, nfs *NamedFlagSets) {
	names := make([]string, 0, len(nfs.FlagSets))
	for name := range nfs.FlagSets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fs.AddFlagSet(nfs.FlagSets[name])
	}
}
