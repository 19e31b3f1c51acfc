// Package command implements the administrative operations of vbdctl.
//
// Every operation is a Command: a value built from an already-loaded
// state and validated parameters, with a single Execute method that
// returns an optional line of text for the user. The set of commands is
// closed; callers outside this package can run commands but cannot add
// new ones.
//
// The operations are:
//   - CreateVbd: bind a virtual disk to a domain as a VBD
//   - CreateVbdFromPhysical: bind a registered partition to a domain as a VBD
//   - DeleteVbd: remove a VBD binding
//   - GrantPhysicalAccess / RevokePhysicalAccess: run the privileged
//     helpers that give or take a domain's raw access to a partition
//   - CreateVirtualDisk / DeleteVirtualDisk: manage keyed virtual disks
//
// Partition Names:
//
// Partition arguments are patterns. A "+" in the pattern is replaced by
// the domain id, or by an explicit substitution value where the command
// accepts one. When an Expander is configured the resolved name is
// canonicalised by the utility helper before it is looked up.
//
// Error Handling:
//
// Commands never retry. A missing partition, virtual disk or VBD is a
// *NotFoundError and is detected before any helper runs. A helper failure
// is returned as the helper's *ExecutionError unchanged. Anything else
// that goes wrong while talking to a helper is wrapped in an *Error.
package command
