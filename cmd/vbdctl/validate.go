package main

import (
	"github.com/jbweber/vbdctl/api/v1alpha1"
	"github.com/jbweber/vbdctl/internal/command"
)

// Flag defaults that mean "not given".
const (
	unsetDomain = 0
	unsetVbd    = -1
)

func validateDomain(domain int) error {
	if domain == unsetDomain {
		return command.Invalidf("expected -n <domain_id>")
	}
	if domain < 1 {
		return command.Invalidf("domain id must be >= 1, got %d", domain)
	}
	return nil
}

func validateVbd(number int) error {
	if number == unsetVbd {
		return command.Invalidf("expected -v <vbd_num>")
	}
	if number < 0 {
		return command.Invalidf("VBD number must be >= 0, got %d", number)
	}
	return nil
}

func validateSubst(subst int) error {
	if subst != command.SubstUnset && subst < 0 {
		return command.Invalidf("substitution value must be >= 0, got %d", subst)
	}
	return nil
}

func validatePartition(partition string) error {
	if partition == "" {
		return command.Invalidf("expected -p <partition>")
	}
	return nil
}

// validateBacking requires exactly one of a virtual disk key or a partition.
func validateBacking(key, partition string) error {
	switch {
	case key == "" && partition == "":
		return command.Invalidf("expected -k <key> or -p <partition>")
	case key != "" && partition != "":
		return command.Invalidf("-k and -p are mutually exclusive")
	}
	return nil
}

func modeFlag(write bool) v1alpha1.Mode {
	return v1alpha1.ModeFromWritable(write)
}
