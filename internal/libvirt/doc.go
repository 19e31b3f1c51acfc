// Package libvirt connects vbdctl to the local libvirt daemon.
//
// It wraps github.com/digitalocean/go-libvirt for two jobs:
//   - Checking that a domain id names a running domain before a command
//     is built (Verifier)
//   - Rendering a VBD as a libvirt <disk> element with
//     libvirt.org/go/libvirtxml, so bindings can be handed to tools that
//     speak libvirt (DiskXML)
//
// Connection Management:
//
//	client, err := libvirt.Connect(socket, timeout)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = libvirt.NewVerifier(client.Libvirt()).Verify(5)
//
// Consumer-Side Interfaces:
//
// Verifier depends on the small domainLookup interface rather than on
// *libvirt.Libvirt, which satisfies it implicitly. Tests use a mock.
package libvirt
